package goal

import (
	"context"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type countingWords struct {
	words int
	calls int
	since time.Time
}

func (c *countingWords) WordsSince(ctx context.Context, t time.Time) (int, error) {
	c.calls++
	c.since = t
	return c.words, nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&DailyGoal{}))
	return db
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		words, target int
		percent       int
		complete      bool
	}{
		{0, 500, 0, false},
		{250, 500, 50, false},
		{499, 500, 99, false},
		{500, 500, 100, true},
		{600, 500, 100, true},
		{100, 0, 20, false},
	}
	for _, tt := range tests {
		p, done := Evaluate(tt.words, tt.target)
		assert.Equal(t, tt.percent, p, "words=%d target=%d", tt.words, tt.target)
		assert.Equal(t, tt.complete, done, "words=%d target=%d", tt.words, tt.target)
	}
}

func TestToday_DefaultTargetAndMidnight(t *testing.T) {
	words := &countingWords{words: 600}
	svc := NewService(NewRepo(openTestDB(t)), words, 0)
	now := time.Date(2026, 5, 1, 15, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return now }

	tr, err := svc.Today(context.Background(), "S1")
	require.NoError(t, err)

	p := tr.Progress()
	assert.Equal(t, DefaultTargetWords, p.TargetWords)
	assert.Equal(t, 100, p.Percent)
	assert.True(t, p.Complete)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), words.since)
}

func TestSetTarget_PersistsWithoutRefetch(t *testing.T) {
	db := openTestDB(t)
	words := &countingWords{words: 300}
	svc := NewService(NewRepo(db), words, 500)
	ctx := context.Background()

	tr, err := svc.Today(ctx, "S1")
	require.NoError(t, err)
	require.Equal(t, 1, words.calls)

	p, err := tr.SetTarget(ctx, 200)
	require.NoError(t, err)
	assert.True(t, p.Complete)
	assert.Equal(t, 100, p.Percent)

	p, err = tr.SetTarget(ctx, 600)
	require.NoError(t, err)
	assert.False(t, p.Complete)
	assert.Equal(t, 50, p.Percent)
	assert.Equal(t, 1, words.calls)

	var rows []DailyGoal
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 600, rows[0].TargetWords)

	again, err := svc.Today(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, 600, again.Progress().TargetWords)
}

func TestSetTodayWords_DropsBelowTarget(t *testing.T) {
	svc := NewService(NewRepo(openTestDB(t)), &countingWords{words: 700}, 500)
	tr, err := svc.Today(context.Background(), "S1")
	require.NoError(t, err)
	require.True(t, tr.Progress().Complete)

	p := tr.SetTodayWords(100)
	assert.False(t, p.Complete)
	assert.Equal(t, 20, p.Percent)
}

func TestSetTarget_RejectsNonPositive(t *testing.T) {
	svc := NewService(NewRepo(openTestDB(t)), &countingWords{}, 500)
	tr, err := svc.Today(context.Background(), "S1")
	require.NoError(t, err)

	_, err = tr.SetTarget(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidTarget)
	assert.Equal(t, 500, tr.Progress().TargetWords)
}
