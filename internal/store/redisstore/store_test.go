package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suPer8Hu/journal-terminal/internal/prefs"
	"github.com/suPer8Hu/journal-terminal/internal/theme"
)

var _ prefs.Store = (*Store)(nil)

func TestKeys(t *testing.T) {
	assert.Equal(t, "prefs:dev1", prefsKey("dev1"))
	assert.Equal(t, "image:dev1:monitor", imageKey("dev1", "monitor"))
}

// Runs only against a live server: REDIS_TEST_ADDR=127.0.0.1:6379.
func TestStore_Live(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	s := New(addr, "", 15, time.Minute)
	defer s.Close()
	require.NoError(t, s.Ping(ctx))

	scope := "test-" + t.Name()
	p, err := s.Load(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, prefs.Prefs{}, p)

	want := prefs.Prefs{Theme: theme.Amber, SessionID: "S1"}
	require.NoError(t, s.Save(ctx, scope, want))
	got, err := s.Load(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, want.Theme, got.Theme)
	assert.Equal(t, want.SessionID, got.SessionID)

	url, err := s.GetImage(ctx, scope, "keyboard")
	require.NoError(t, err)
	assert.Empty(t, url)
	require.NoError(t, s.SetImage(ctx, scope, "keyboard", "https://img/k.png"))
	url, err = s.GetImage(ctx, scope, "keyboard")
	require.NoError(t, err)
	assert.Equal(t, "https://img/k.png", url)

	require.NoError(t, s.rdb.Del(ctx, prefsKey(scope), imageKey(scope, "keyboard")).Err())
}

func TestStore_EmptyScope(t *testing.T) {
	s := New("127.0.0.1:0", "", 0, time.Minute)
	defer s.Close()
	_, err := s.Load(context.Background(), "")
	assert.ErrorIs(t, err, prefs.ErrInvalidScope)
	assert.ErrorIs(t, s.Save(context.Background(), "", prefs.Prefs{}), prefs.ErrInvalidScope)
}
