package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"pet-adoption-web/internal/domain/applications"
)

const keyPrefix = "adopt:draft:"

// Open crea el cliente y verifica la conexión. addr acepta host:port o redis://...
func Open(ctx context.Context, addr string) (*goredis.Client, error) {
	var opts *goredis.Options
	if strings.Contains(addr, "://") {
		parsed, err := goredis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &goredis.Options{Addr: addr}
	}

	client := goredis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// DraftsRepo guarda cada borrador como JSON con expiración nativa de Redis.
type DraftsRepo struct {
	rdb *goredis.Client
	ttl time.Duration
	now func() time.Time
}

func NewDraftsRepo(rdb *goredis.Client, ttl time.Duration) *DraftsRepo {
	return &DraftsRepo{rdb: rdb, ttl: ttl, now: time.Now}
}

func draftKey(userID, petID string) (string, error) {
	userID, petID = strings.TrimSpace(userID), strings.TrimSpace(petID)
	if userID == "" || petID == "" {
		return "", errors.New("draft user id and pet id required")
	}
	return keyPrefix + userID + ":" + petID, nil
}

type storedDraft struct {
	UserID    string                   `json:"userId"`
	PetID     string                   `json:"petId"`
	State     applications.WizardState `json:"state"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

func (r *DraftsRepo) Save(ctx context.Context, d applications.Draft) error {
	key, err := draftKey(d.UserID, d.PetID)
	if err != nil {
		return err
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = r.now()
	}
	b, err := json.Marshal(storedDraft(d))
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	// ttl 0 => sin expiración
	return r.rdb.Set(ctx, key, b, r.ttl).Err()
}

func (r *DraftsRepo) Get(ctx context.Context, userID, petID string) (applications.Draft, error) {
	key, err := draftKey(userID, petID)
	if err != nil {
		return applications.Draft{}, applications.ErrNotFound
	}
	b, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return applications.Draft{}, applications.ErrNotFound
		}
		return applications.Draft{}, err
	}
	var sd storedDraft
	if err := json.Unmarshal(b, &sd); err != nil {
		return applications.Draft{}, fmt.Errorf("unmarshal draft: %w", err)
	}
	return applications.Draft(sd), nil
}

func (r *DraftsRepo) Delete(ctx context.Context, userID, petID string) error {
	key, err := draftKey(userID, petID)
	if err != nil {
		return err
	}
	return r.rdb.Del(ctx, key).Err()
}
