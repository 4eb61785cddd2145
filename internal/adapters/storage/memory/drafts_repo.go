package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pet-adoption-web/internal/domain/applications"
)

type draftKey struct {
	userID string
	petID  string
}

type draftRepo struct {
	mu   sync.RWMutex
	byID map[draftKey]applications.Draft
	ttl  time.Duration
	now  func() time.Time
}

// NewDraftRepo guarda borradores en memoria. ttl <= 0 => no expiran.
func NewDraftRepo(ttl time.Duration) applications.DraftRepository {
	return &draftRepo{
		byID: make(map[draftKey]applications.Draft),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (r *draftRepo) Save(ctx context.Context, d applications.Draft) error {
	k, err := keyOf(d.UserID, d.PetID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = r.now()
	}
	r.byID[k] = d
	return nil
}

func (r *draftRepo) Get(ctx context.Context, userID, petID string) (applications.Draft, error) {
	k, err := keyOf(userID, petID)
	if err != nil {
		return applications.Draft{}, err
	}

	r.mu.RLock()
	d, ok := r.byID[k]
	r.mu.RUnlock()
	if !ok {
		return applications.Draft{}, applications.ErrNotFound
	}

	if r.ttl > 0 && r.now().Sub(d.UpdatedAt) > r.ttl {
		r.mu.Lock()
		delete(r.byID, k)
		r.mu.Unlock()
		return applications.Draft{}, applications.ErrNotFound
	}
	return d, nil
}

func (r *draftRepo) Delete(ctx context.Context, userID, petID string) error {
	k, err := keyOf(userID, petID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, k)
	return nil
}

func keyOf(userID, petID string) (draftKey, error) {
	userID, petID = strings.TrimSpace(userID), strings.TrimSpace(petID)
	if userID == "" || petID == "" {
		return draftKey{}, errors.New("draft user id and pet id required")
	}
	return draftKey{userID: userID, petID: petID}, nil
}
