package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/auth"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStoreWithClient(client), mr
}

func sampleSession(id string, userID int64) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		UserID:    userID,
		Username:  "sam",
		RoleType:  models.RoleStudent,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func testStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, sampleSession("a", 1)))
	require.NoError(t, store.Create(ctx, sampleSession("b", 1)))
	require.NoError(t, store.Create(ctx, sampleSession("c", 2)))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.UserID)
	assert.Equal(t, models.Identity{UserID: 1, Username: "sam", RoleType: models.RoleStudent}, got.Identity())

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	require.NoError(t, store.Delete(ctx, "a"))
	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	require.NoError(t, store.DeleteUser(ctx, 1))
	_, err = store.Get(ctx, "b")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	_, err = store.Get(ctx, "c")
	assert.NoError(t, err, "other users keep their sessions")
}

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, NewMemoryStore())
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	s := sampleSession("x", 1)
	s.ExpiresAt = now.Add(time.Minute)
	require.NoError(t, store.Create(context.Background(), s))

	store.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err := store.Get(context.Background(), "x")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestRedisStore(t *testing.T) {
	store, _ := newRedisStore(t)
	testStoreContract(t, store)
}

func TestRedisStoreTTL(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, sampleSession("x", 7)))
	assert.True(t, mr.Exists("session:x"))
	assert.True(t, mr.TTL("session:x") > 59*time.Minute)

	mr.FastForward(2 * time.Hour)
	_, err := store.Get(ctx, "x")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestRedisStoreRejectsExpiredSession(t *testing.T) {
	store, _ := newRedisStore(t)
	s := sampleSession("old", 1)
	s.ExpiresAt = time.Now().Add(-time.Second)
	assert.Error(t, store.Create(context.Background(), s))
}

func newManager(store Store) *Manager {
	return NewManager(store, auth.NewJWTService(auth.JWTConfig{
		SecretKey:  "test-secret",
		SessionExp: time.Hour,
		Issuer:     "coursehub.test",
	}))
}

func TestManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	m := newManager(NewMemoryStore())
	user := &models.User{ID: 42, Username: "ana", RoleType: models.RoleInstructor}

	token, s, err := m.Start(ctx, user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	resolved, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, s.ID, resolved.ID)
	assert.Equal(t, models.RoleInstructor, resolved.Identity().RoleType)

	require.NoError(t, m.End(ctx, s.ID))
	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestManagerEndAll(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)
	m := newManager(store)
	user := &models.User{ID: 5, Username: "sam", RoleType: models.RoleStudent}

	t1, _, err := m.Start(ctx, user)
	require.NoError(t, err)
	t2, _, err := m.Start(ctx, user)
	require.NoError(t, err)

	require.NoError(t, m.EndAll(ctx, user.ID))
	for _, tok := range []string{t1, t2} {
		_, err := m.Resolve(ctx, tok)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	}
}

func TestManagerRejectsGarbage(t *testing.T) {
	m := newManager(NewMemoryStore())
	_, err := m.Resolve(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}
