package boot

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrAlreadyStarted = errors.New("sequence already started")

// Step is one line revealed At after the sequence starts.
type Step struct {
	At   time.Duration
	Text string
}

type Sequence struct {
	Steps  []Step
	DoneAt time.Duration
}

// Visible returns the lines revealed by elapsed.
func (s Sequence) Visible(elapsed time.Duration) []string {
	var out []string
	for _, st := range s.Steps {
		if st.At <= elapsed {
			out = append(out, st.Text)
		}
	}
	return out
}

// Finished reports whether the completion point has passed.
func (s Sequence) Finished(elapsed time.Duration) bool {
	return elapsed >= s.DoneAt
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Splash is the title card shown before the boot log.
func Splash() Sequence {
	return Sequence{
		Steps: []Step{
			{ms(0), "REFLECT"},
			{ms(400), "a journal terminal"},
			{ms(900), "press any key"},
		},
		DoneAt: ms(1800),
	}
}

// Boot is the fake power-on log.
func Boot() Sequence {
	return Sequence{
		Steps: []Step{
			{ms(0), "JT-BIOS v2.1  (c) REFLECT SYSTEMS"},
			{ms(300), "MEMORY TEST ........ 640K OK"},
			{ms(700), "MOUNTING /journal .. OK"},
			{ms(1100), "LOADING COMPANION .. OK"},
			{ms(1500), "CALIBRATING PHOSPHOR OK"},
			{ms(1900), "READY."},
		},
		DoneAt: ms(2400),
	}
}

// Player reveals a sequence on real timers. A player runs at most once.
type Player struct {
	seq Sequence

	mu      sync.Mutex
	started bool
	done    chan struct{}
}

func NewPlayer(seq Sequence) *Player {
	return &Player{seq: seq, done: make(chan struct{})}
}

// Start schedules every step and then onDone. Steps fire in order on a single goroutine.
// Cancelling ctx stops the pending timers; onDone is not called in that case.
func (p *Player) Start(ctx context.Context, onLine func(i int, text string), onDone func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return ErrAlreadyStarted
	}
	p.started = true

	go p.run(ctx, onLine, onDone)
	return nil
}

// Done is closed once the player stops, finished or cancelled.
func (p *Player) Done() <-chan struct{} { return p.done }

func (p *Player) run(ctx context.Context, onLine func(int, string), onDone func()) {
	defer close(p.done)

	start := time.Now()
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	wait := func(at time.Duration) bool {
		d := at - time.Since(start)
		if d <= 0 {
			return ctx.Err() == nil
		}
		timer.Reset(d)
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			return true
		}
	}

	for i, st := range p.seq.Steps {
		if !wait(st.At) {
			return
		}
		if onLine != nil {
			onLine(i, st.Text)
		}
	}
	if !wait(p.seq.DoneAt) {
		return
	}
	if onDone != nil {
		onDone()
	}
}
