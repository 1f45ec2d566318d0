package boot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestVisible(t *testing.T) {
	seq := Boot()
	assert.Equal(t, []string{seq.Steps[0].Text}, seq.Visible(0))
	assert.Len(t, seq.Visible(ms(750)), 3)
	assert.Len(t, seq.Visible(time.Hour), len(seq.Steps))
	assert.False(t, seq.Finished(ms(1900)))
	assert.True(t, seq.Finished(seq.DoneAt))
}

func TestSequencesAreOrdered(t *testing.T) {
	for _, seq := range []Sequence{Boot(), Splash()} {
		for i := 1; i < len(seq.Steps); i++ {
			assert.Less(t, seq.Steps[i-1].At, seq.Steps[i].At)
		}
		assert.GreaterOrEqual(t, seq.DoneAt, seq.Steps[len(seq.Steps)-1].At)
	}
}

func fast() Sequence {
	return Sequence{
		Steps:  []Step{{0, "a"}, {ms(5), "b"}, {ms(10), "c"}},
		DoneAt: ms(15),
	}
}

func TestPlayer_RunsOnce(t *testing.T) {
	p := NewPlayer(fast())

	var mu sync.Mutex
	var lines []string
	done := make(chan struct{})
	err := p.Start(context.Background(), func(i int, s string) {
		mu.Lock()
		lines = append(lines, s)
		mu.Unlock()
	}, func() { close(done) })
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sequence did not finish")
	}
	<-p.Done()

	mu.Lock()
	assert.Equal(t, []string{"a", "b", "c"}, lines)
	mu.Unlock()

	assert.ErrorIs(t, p.Start(context.Background(), nil, nil), ErrAlreadyStarted)
}

func TestPlayer_CancelStopsTimers(t *testing.T) {
	seq := Sequence{Steps: []Step{{0, "now"}, {time.Hour, "never"}}, DoneAt: time.Hour}
	p := NewPlayer(seq)

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan string, 2)
	called := false
	require.NoError(t, p.Start(ctx, func(i int, s string) { got <- s }, func() { called = true }))

	assert.Equal(t, "now", <-got)
	cancel()

	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("player did not stop")
	}
	assert.False(t, called)
	assert.Empty(t, got)
}
