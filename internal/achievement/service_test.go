package achievement

import (
	"context"
	"errors"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/suPer8Hu/journal-terminal/internal/stats"
)

type fakeFacts struct {
	entries []stats.Entry
	err     error
}

func (f *fakeFacts) Facts(ctx context.Context, sessionID string) ([]stats.Entry, error) {
	return f.entries, f.err
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Achievement{}, &UserAchievement{}))
	catalog := Catalog()
	require.NoError(t, db.Create(&catalog).Error)
	return db
}

func newService(t *testing.T, facts FactSource, now time.Time) (*Service, *gorm.DB) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db), facts, nil)
	svc.now = func() time.Time { return now }
	return svc, db
}

func TestCheck_UnlocksOnceAndIsIdempotent(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	facts := &fakeFacts{entries: []stats.Entry{{CreatedAt: now, Words: 20}}}
	svc, db := newService(t, facts, now)
	ctx := context.Background()

	res, err := svc.Check(ctx, "S1")
	require.NoError(t, err)
	require.Len(t, res.Unlocked, 1)
	assert.Equal(t, FirstEntry, res.Unlocked[0].Key)

	res, err = svc.Check(ctx, "S1")
	require.NoError(t, err)
	assert.Empty(t, res.Unlocked)

	var n int64
	require.NoError(t, db.Model(&UserAchievement{}).Where("session_id = ?", "S1").Count(&n).Error)
	assert.Equal(t, int64(1), n)

	for _, st := range res.Statuses {
		if st.Key == FirstEntry {
			assert.True(t, st.Unlocked)
			assert.NotNil(t, st.UnlockedAt)
		} else {
			assert.False(t, st.Unlocked, st.Key)
		}
	}
}

func TestCheck_SessionsAreIndependent(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	facts := &fakeFacts{entries: []stats.Entry{{CreatedAt: now, Words: 20}}}
	svc, _ := newService(t, facts, now)
	ctx := context.Background()

	_, err := svc.Check(ctx, "S1")
	require.NoError(t, err)
	res, err := svc.Check(ctx, "S2")
	require.NoError(t, err)
	assert.Len(t, res.Unlocked, 1)
}

func TestCheck_DuplicateInsertIsNoop(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	ua := UserAchievement{SessionID: "S1", AchievementKey: FirstEntry, Progress: 100, UnlockedAt: time.Now()}
	first := ua
	inserted, err := repo.Insert(ctx, &first)
	require.NoError(t, err)
	assert.True(t, inserted)

	second := ua
	inserted, err = repo.Insert(ctx, &second)
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestCheck_FactFailureLeavesZeroStats(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newService(t, &fakeFacts{err: errors.New("db down")}, now)

	res, err := svc.Check(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, stats.Summary{}, res.Summary)
	assert.Empty(t, res.Unlocked)
}

func TestCheck_NightOwl(t *testing.T) {
	now := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)
	svc, _ := newService(t, &fakeFacts{}, now)

	res, err := svc.Check(context.Background(), "S1")
	require.NoError(t, err)
	require.Len(t, res.Unlocked, 1)
	assert.Equal(t, NightOwl, res.Unlocked[0].Key)
}

func TestCheck_RequiresSession(t *testing.T) {
	svc, _ := newService(t, &fakeFacts{}, time.Now())
	_, err := svc.Check(context.Background(), "")
	assert.ErrorIs(t, err, ErrSessionRequired)
}

func TestList_ReportsProgress(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	var entries []stats.Entry
	for i := 0; i < 5; i++ {
		entries = append(entries, stats.Entry{CreatedAt: now.AddDate(0, 0, -i), Words: 10})
	}
	svc, _ := newService(t, &fakeFacts{entries: entries}, now)

	statuses, summary, err := svc.List(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, 5, summary.TotalEntries)
	assert.Len(t, statuses, len(Catalog()))
	for _, st := range statuses {
		if st.Key == TenEntries {
			assert.InDelta(t, 50.0, st.Progress, 1e-9)
			assert.False(t, st.Unlocked)
		}
	}
}
