package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-adoption-web/internal/domain/applications"
)

// DraftsSchema crea la tabla de borradores.
const DraftsSchema = `
CREATE TABLE IF NOT EXISTS adoption_drafts (
	user_id    TEXT        NOT NULL,
	pet_id     TEXT        NOT NULL,
	state      JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, pet_id)
)`

type DraftsRepo struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewDraftsRepo(db *sql.DB, ttl time.Duration) *DraftsRepo {
	return &DraftsRepo{db: db, ttl: ttl, now: time.Now}
}

// EnsureSchema aplica DraftsSchema (idempotente).
func (r *DraftsRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, DraftsSchema)
	return err
}

func (r *DraftsRepo) Save(ctx context.Context, d applications.Draft) error {
	if strings.TrimSpace(d.UserID) == "" || strings.TrimSpace(d.PetID) == "" {
		return errors.New("draft user id and pet id required")
	}
	state, err := json.Marshal(d.State)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = r.now()
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO adoption_drafts (user_id, pet_id, state, updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id, pet_id)
		DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at
	`,
		d.UserID,
		d.PetID,
		state,
		d.UpdatedAt,
	)
	return err
}

func (r *DraftsRepo) Get(ctx context.Context, userID, petID string) (applications.Draft, error) {
	userID, petID = strings.TrimSpace(userID), strings.TrimSpace(petID)
	if userID == "" || petID == "" {
		return applications.Draft{}, applications.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, pet_id, state, updated_at
		FROM adoption_drafts
		WHERE user_id = $1 AND pet_id = $2
	`, userID, petID)

	var d applications.Draft
	var state []byte
	if err := row.Scan(&d.UserID, &d.PetID, &state, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return applications.Draft{}, applications.ErrNotFound
		}
		return applications.Draft{}, err
	}

	if r.ttl > 0 && r.now().Sub(d.UpdatedAt) > r.ttl {
		// vencido: se borra en el momento
		_ = r.Delete(ctx, userID, petID)
		return applications.Draft{}, applications.ErrNotFound
	}

	if err := json.Unmarshal(state, &d.State); err != nil {
		return applications.Draft{}, fmt.Errorf("unmarshal draft: %w", err)
	}
	return d, nil
}

func (r *DraftsRepo) Delete(ctx context.Context, userID, petID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM adoption_drafts WHERE user_id = $1 AND pet_id = $2
	`, strings.TrimSpace(userID), strings.TrimSpace(petID))
	return err
}
