package session

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/scro-cloud/scro/internal/accounts"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store, err := accounts.NewTestStore(accounts.DefaultSeed())
	require.NoError(t, err)
	records := NewRecordStore(client, time.Hour)
	return NewManager(store, records, 0, slog.Default()), mr
}

func TestLoginSuccess(t *testing.T) {
	mgr, mr := newTestManager(t)
	ctx := context.Background()

	res, err := mgr.Login(ctx, "admin@scro.com", "admin123")
	require.NoError(t, err)
	require.True(t, res.Session.IsAuthenticated)
	require.Equal(t, "admin@scro.com", res.Session.User.Email)
	require.Equal(t, accounts.RoleAdmin, res.Session.User.Role)
	require.True(t, strings.HasPrefix(res.Token, "mock_jwt_1_"))

	require.True(t, mr.Exists("scro:token:"+res.RecordID))
	require.True(t, mr.Exists("scro:user:"+res.RecordID))

	restored, err := mgr.Restore(ctx, res.RecordID)
	require.NoError(t, err)
	require.True(t, restored.IsAuthenticated)
	require.Equal(t, res.Session.User.ID, restored.User.ID)
}

func TestLoginInvalidCredentialsLeavesStorageUntouched(t *testing.T) {
	mgr, mr := newTestManager(t)
	ctx := context.Background()

	_, err := mgr.Login(ctx, "admin@scro.com", "wrong")
	require.ErrorIs(t, err, accounts.ErrInvalidCredentials)
	require.Empty(t, mr.Keys())

	_, err = mgr.Login(ctx, "ghost@scro.com", "admin123")
	require.ErrorIs(t, err, accounts.ErrInvalidCredentials)
	require.Empty(t, mr.Keys())
}

func TestLogoutThenRestoreIsUnauthenticated(t *testing.T) {
	mgr, mr := newTestManager(t)
	ctx := context.Background()

	res, err := mgr.Login(ctx, "viewer@scro.com", "viewer123")
	require.NoError(t, err)

	require.NoError(t, mgr.Logout(ctx, res.RecordID))
	require.Empty(t, mr.Keys())

	sess, err := mgr.Restore(ctx, res.RecordID)
	require.NoError(t, err)
	require.False(t, sess.IsAuthenticated)
	require.Nil(t, sess.User)

	// Logout is idempotent.
	require.NoError(t, mgr.Logout(ctx, res.RecordID))
	require.NoError(t, mgr.Logout(ctx, ""))
}

func TestSignupDoesNotAuthenticate(t *testing.T) {
	mgr, mr := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.Signup(ctx, "Bob", "bob@x.com", "Str0ng!pw"))
	require.Empty(t, mr.Keys())

	res, err := mgr.Login(ctx, "bob@x.com", "Str0ng!pw")
	require.NoError(t, err)
	require.Equal(t, accounts.RoleViewer, res.Session.User.Role)
}

func TestSignupEmailTaken(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	err := mgr.Signup(ctx, "Bob", "viewer@scro.com", "x")
	require.ErrorIs(t, err, accounts.ErrEmailTaken)
}

func TestRestoreCorruptedRecordPurgesBothKeys(t *testing.T) {
	mgr, mr := newTestManager(t)
	ctx := context.Background()

	res, err := mgr.Login(ctx, "admin@scro.com", "admin123")
	require.NoError(t, err)
	require.NoError(t, mr.Set("scro:user:"+res.RecordID, "{not json"))

	sess, err := mgr.Restore(ctx, res.RecordID)
	require.NoError(t, err)
	require.False(t, sess.IsAuthenticated)
	require.False(t, mr.Exists("scro:token:"+res.RecordID))
	require.False(t, mr.Exists("scro:user:"+res.RecordID))
}

func TestRestoreMissingKeyLeavesStorageUntouched(t *testing.T) {
	mgr, mr := newTestManager(t)
	ctx := context.Background()

	res, err := mgr.Login(ctx, "admin@scro.com", "admin123")
	require.NoError(t, err)
	mr.Del("scro:user:" + res.RecordID)

	sess, err := mgr.Restore(ctx, res.RecordID)
	require.NoError(t, err)
	require.False(t, sess.IsAuthenticated)
	require.True(t, mr.Exists("scro:token:"+res.RecordID))
}

func TestRefreshRewritesToken(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	res, err := mgr.Login(ctx, "admin@scro.com", "admin123")
	require.NoError(t, err)

	token, err := mgr.Refresh(ctx, res.RecordID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(token, "mock_jwt_1_"))

	_, err = mgr.Refresh(ctx, "missing-record")
	require.ErrorIs(t, err, ErrNoSession)
	_, err = mgr.Refresh(ctx, "")
	require.ErrorIs(t, err, ErrNoSession)
}

func TestLoginHonorsArtificialLatency(t *testing.T) {
	mgr, _ := newTestManager(t)
	mgr.latency = 50 * time.Millisecond

	start := time.Now()
	_, err := mgr.Login(context.Background(), "admin@scro.com", "admin123")
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestLoginLatencyIsCancellable(t *testing.T) {
	mgr, _ := newTestManager(t)
	mgr.latency = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := mgr.Login(ctx, "admin@scro.com", "admin123")
	require.ErrorIs(t, err, context.Canceled)
}

func TestSweepOrphansRepairsPairs(t *testing.T) {
	mgr, mr := newTestManager(t)
	ctx := context.Background()

	res, err := mgr.Login(ctx, "admin@scro.com", "admin123")
	require.NoError(t, err)
	mr.Del("scro:user:" + res.RecordID)
	require.NoError(t, mr.Set("scro:user:dangling", `{"id":"9"}`))

	removed, err := mgr.records.SweepOrphans(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, removed)
	require.Empty(t, mr.Keys())
}
