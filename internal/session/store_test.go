package session

import (
	"context"
	"sync"
	"testing"
	"time"

	infraRepo "app/internal/infra/repository"
	"app/internal/repository"
	"app/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T) (*Store, *token.Codec, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	codec := token.NewCodec(
		[]byte("0123456789abcdef0123456789abcdef"),
		900*time.Second,
		7*24*time.Hour,
		300*time.Second,
		clock,
	)
	store := NewStore(infraRepo.NewSessionMemoryRepository(), codec, clock)

	return store, codec, clock
}

func TestStore_CreateAndValidate(t *testing.T) {
	store, codec, _ := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "user-1", "203.0.113.7", "test-agent")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, "203.0.113.7", sess.IPAddress)
	assert.True(t, sess.CreatedAt.Equal(sess.LastActivity))

	pair, err := codec.Issue(token.Subject{UserID: "user-1", Role: "MEMBER"}, sess.ID)
	require.NoError(t, err)

	v, err := store.Validate(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, StateValid, v.State)
	assert.True(t, v.Valid())
	assert.Equal(t, sess.ID, v.Session.ID)
	assert.Equal(t, "user-1", v.Claims.UserID)
}

func TestStore_Validate_NearExpiry(t *testing.T) {
	store, codec, clock := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "user-1", "", "")
	require.NoError(t, err)

	pair, err := codec.Issue(token.Subject{UserID: "user-1"}, sess.ID)
	require.NoError(t, err)

	//残り300秒ちょうどは「そろそろ」側に倒す
	clock.Advance(600 * time.Second)

	v, err := store.Validate(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, StateValidNeedsRefresh, v.State)
	assert.True(t, v.Valid())
}

func TestStore_Validate_Expired(t *testing.T) {
	store, codec, clock := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "user-1", "", "")
	require.NoError(t, err)

	pair, err := codec.Issue(token.Subject{UserID: "user-1"}, sess.ID)
	require.NoError(t, err)

	clock.Advance(901 * time.Second)

	v, err := store.Validate(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, StateInvalid, v.State)
	assert.Equal(t, token.KindExpired, v.Kind)
	assert.False(t, v.Valid())
}

func TestStore_Validate_RevokedSession(t *testing.T) {
	store, codec, _ := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "user-1", "", "")
	require.NoError(t, err)

	pair, err := codec.Issue(token.Subject{UserID: "user-1"}, sess.ID)
	require.NoError(t, err)

	require.NoError(t, store.Revoke(ctx, sess.ID))

	//トークン自体はまだ暗号的に有効だが、台帳に無いので失効扱い
	v, err := store.Validate(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, StateInvalid, v.State)
	assert.Equal(t, KindNotFound, v.Kind)
}

func TestStore_Validate_TouchesLastActivity(t *testing.T) {
	store, codec, clock := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "user-1", "", "")
	require.NoError(t, err)
	created := sess.LastActivity

	pair, err := codec.Issue(token.Subject{UserID: "user-1"}, sess.ID)
	require.NoError(t, err)

	clock.Advance(30 * time.Second)

	_, err = store.Validate(ctx, pair.AccessToken)
	require.NoError(t, err)

	list, err := store.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].LastActivity.After(created))
}

func TestStore_RevokeAll(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Create(ctx, "user-1", "", "")
		require.NoError(t, err)
	}
	other, err := store.Create(ctx, "user-2", "", "")
	require.NoError(t, err)

	require.NoError(t, store.RevokeAll(ctx, "user-1"))

	list, err := store.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, list)

	//他ユーザーは巻き込まれない
	rest, err := store.List(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, other.ID, rest[0].ID)
}

func TestStore_Revoke_NotFound(t *testing.T) {
	store, _, _ := newTestStore(t)

	err := store.Revoke(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}
