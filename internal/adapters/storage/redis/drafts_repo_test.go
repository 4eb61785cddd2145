package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption-web/internal/domain/applications"
)

func newRepo(t *testing.T, ttl time.Duration) (*DraftsRepo, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewDraftsRepo(rdb, ttl), mr
}

func TestDraftsRepo_RoundTrip(t *testing.T) {
	repo, mr := newRepo(t, time.Hour)
	ctx := context.Background()

	st := applications.WizardState{
		PetID:   "p1",
		Section: applications.SectionPetExperience,
		Values:  applications.FormValues{HasOtherPets: "true", PreviousExperience: "two cats"},
	}
	require.NoError(t, repo.Save(ctx, applications.Draft{UserID: "u1", PetID: "p1", State: st}))
	assert.True(t, mr.Exists("adopt:draft:u1:p1"))
	assert.Equal(t, time.Hour, mr.TTL("adopt:draft:u1:p1"))

	d, err := repo.Get(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, st, d.State)
	assert.False(t, d.UpdatedAt.IsZero())

	require.NoError(t, repo.Delete(ctx, "u1", "p1"))
	_, err = repo.Get(ctx, "u1", "p1")
	assert.ErrorIs(t, err, applications.ErrNotFound)
}

func TestDraftsRepo_Expires(t *testing.T) {
	repo, mr := newRepo(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, applications.Draft{UserID: "u1", PetID: "p1"}))
	mr.FastForward(2 * time.Minute)

	_, err := repo.Get(ctx, "u1", "p1")
	assert.ErrorIs(t, err, applications.ErrNotFound)
}

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Open(context.Background(), mr.Addr())
	require.NoError(t, err)
	_ = client.Close()

	_, err = Open(context.Background(), "redis://%zz")
	assert.Error(t, err)
}
