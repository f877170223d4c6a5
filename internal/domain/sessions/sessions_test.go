package sessions

import (
	"context"
	"regexp"
	"testing"
	"time"

	"pawmart/internal/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionIDPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

func TestNew_SevenDayExpiry(t *testing.T) {
	sess := New("192.168.1.100", "Test Browser")

	assert.Regexp(t, sessionIDPattern, sess.ID)
	assert.Equal(t, "192.168.1.100", sess.IPAddress)
	assert.Equal(t, "Test Browser", sess.UserAgent)
	assert.Equal(t, 7*24*time.Hour, sess.ExpiresAt.Sub(sess.CreatedAt))
	assert.False(t, sess.IsExpired())
}

func TestNew_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New("", "").ID
		require.False(t, seen[id], "duplicate session id %s", id)
		seen[id] = true
	}
}

func TestSession_SerializeRoundTrip(t *testing.T) {
	sess := New("10.0.0.1", "agent")
	sess.CartID = "cart_0123456789abcdef"

	data, err := sess.Serialize()
	require.NoError(t, err)

	got, err := Deserialize(data)
	require.NoError(t, err)

	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.CartID, got.CartID)
	assert.Equal(t, sess.IPAddress, got.IPAddress)
	assert.Equal(t, sess.UserAgent, got.UserAgent)
	assert.True(t, got.ExpiresAt.Equal(sess.ExpiresAt))
	assert.True(t, got.CreatedAt.Equal(sess.CreatedAt))
	assert.True(t, got.UpdatedAt.Equal(sess.UpdatedAt))
}

func TestService_CreateAndGetSession(t *testing.T) {
	store := kv.NewMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, "1.2.3.4", "ua")
	require.NoError(t, err)
	require.NotNil(t, created)

	got, err := svc.GetSession(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "1.2.3.4", got.IPAddress)
}

func TestService_GetSession_Missing(t *testing.T) {
	svc := NewService(kv.NewMemoryStore())

	got, err := svc.GetSession(context.Background(), "deadbeef")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// An expired record whose store TTL has not fired yet must be evicted on
// read, not served.
func TestService_GetSession_LazyEviction(t *testing.T) {
	store := kv.NewMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	sess := New("", "")
	sess.ExpiresAt = time.Now().UTC().Add(-time.Second)
	data, err := sess.Serialize()
	require.NoError(t, err)
	require.NoError(t, store.SetWithTTL(ctx, "session:"+sess.ID, data, time.Minute))

	got, err := svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	exists, err := store.Exists(ctx, "session:"+sess.ID)
	require.NoError(t, err)
	assert.False(t, exists, "expired session key should have been deleted")
}

func TestService_ExtendSession(t *testing.T) {
	store := kv.NewMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, "", "")
	require.NoError(t, err)

	extended, err := svc.ExtendSession(ctx, created.ID, 7)
	require.NoError(t, err)
	require.NotNil(t, extended)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), extended.ExpiresAt, 5*time.Second)
	assert.True(t, extended.ExpiresAt.After(created.ExpiresAt) || extended.ExpiresAt.Equal(created.ExpiresAt))
}

func TestService_ExtendSession_Missing(t *testing.T) {
	svc := NewService(kv.NewMemoryStore())

	got, err := svc.ExtendSession(context.Background(), "missing", 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestService_DeleteSession(t *testing.T) {
	store := kv.NewMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(ctx, created.ID))

	got, err := svc.GetSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestService_CleanupExpiredSessions(t *testing.T) {
	store := kv.NewMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	seed := func(expired bool) *Session {
		sess := New("", "")
		if expired {
			sess.ExpiresAt = time.Now().UTC().Add(-time.Minute)
		}
		data, err := sess.Serialize()
		require.NoError(t, err)
		require.NoError(t, store.SetWithTTL(ctx, "session:"+sess.ID, data, time.Hour))
		return sess
	}

	active1 := seed(false)
	active2 := seed(false)
	expired1 := seed(true)
	expired2 := seed(true)

	cleaned, err := svc.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cleaned)

	for _, sess := range []*Session{active1, active2} {
		exists, err := store.Exists(ctx, "session:"+sess.ID)
		require.NoError(t, err)
		assert.True(t, exists, "active session %s should survive the sweep", sess.ID)
	}
	for _, sess := range []*Session{expired1, expired2} {
		exists, err := store.Exists(ctx, "session:"+sess.ID)
		require.NoError(t, err)
		assert.False(t, exists, "expired session %s should be deleted", sess.ID)
	}
}

func TestIsSessionID(t *testing.T) {
	assert.True(t, IsSessionID(New("", "").ID))
	assert.False(t, IsSessionID(""))
	assert.False(t, IsSessionID("short"))
	assert.False(t, IsSessionID("G123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"))
}
