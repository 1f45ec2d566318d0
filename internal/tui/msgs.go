package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/suPer8Hu/journal-terminal/internal/achievement"
	"github.com/suPer8Hu/journal-terminal/internal/boot"
	"github.com/suPer8Hu/journal-terminal/internal/chat"
	"github.com/suPer8Hu/journal-terminal/internal/gateway"
	"github.com/suPer8Hu/journal-terminal/internal/goal"
	"github.com/suPer8Hu/journal-terminal/internal/insights"
	"github.com/suPer8Hu/journal-terminal/internal/journal"
	"github.com/suPer8Hu/journal-terminal/internal/stats"
)

const (
	requestTimeout = 10 * time.Second
	typeInterval   = 30 * time.Millisecond
	typeRunes      = 3
	frameInterval  = 50 * time.Millisecond
	jobPoll        = time.Second
	historyLimit   = 50
)

type (
	bootStartedMsg struct {
		seq  int
		ch   <-chan tea.Msg
		stop context.CancelFunc
	}

	bootLineMsg struct {
		seq  int
		text string
	}

	bootDoneMsg struct{ seq int }

	errMsg struct {
		op  string
		err error
	}

	toastTickMsg struct{}
	prefsMsg     struct{}
	sessionMsg   struct{ id string }

	homeMsg struct {
		summary      stats.Summary
		session      stats.Summary
		goal         goal.Progress
		achievements []achievement.Status
	}

	historyMsg struct{ messages []chat.Message }
	checkMsg   struct{ res achievement.CheckResult }
	goalMsg    struct{ goal goal.Progress }
	monitorMsg struct{ url string }

	chunkMsg struct {
		gen    int
		text   string
		chunks <-chan string
		errs   <-chan error
	}

	streamDoneMsg struct {
		gen int
		err error
	}

	typeTickMsg struct{ gen int }

	finishedMsg struct {
		summary string
		oldID   string
		newID   string
	}

	jobQueuedMsg struct{ id string }
	jobMsg       struct{ job chat.Job }
	entriesMsg   struct{ entries []journal.View }

	savedMsg struct {
		view    journal.View
		created bool
	}

	deletedMsg struct {
		id    string
		err   error
		purge bool
	}

	frameMsg    struct{}
	tagsMsg     struct{ tags []journal.TagCount }
	insightsMsg struct{ dash insights.Dashboard }
)

func reqCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// startBoot plays seq on a player and hands its message channel to Update.
func startBoot(seq int, s boot.Sequence) tea.Cmd {
	return func() tea.Msg {
		ctx, stop := context.WithCancel(context.Background())
		ch := make(chan tea.Msg, len(s.Steps)+1)
		send := func(msg tea.Msg) {
			select {
			case ch <- msg:
			case <-ctx.Done():
			}
		}
		p := boot.NewPlayer(s)
		_ = p.Start(ctx,
			func(_ int, text string) { send(bootLineMsg{seq: seq, text: text}) },
			func() { send(bootDoneMsg{seq: seq}) },
		)
		go func() {
			<-p.Done()
			close(ch)
		}()
		return bootStartedMsg{seq: seq, ch: ch, stop: stop}
	}
}

func waitBoot(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func toastTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg { return toastTickMsg{} })
}

func (m Model) ensureSession() tea.Cmd {
	if m.chat.sessionID != "" {
		return nil
	}
	api := m.api
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		s, err := api.CreateSession(ctx)
		if err != nil {
			return errMsg{"create session", err}
		}
		return sessionMsg{id: s.ID}
	}
}

// loadHistory restores the stored conversation of the current session.
func (m Model) loadHistory() tea.Cmd {
	if m.chat.sessionID == "" {
		return nil
	}
	api, sid := m.api, m.chat.sessionID
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		msgs, err := api.ListMessages(ctx, sid, historyLimit)
		if gateway.IsNotFound(err) {
			// the server no longer knows this session; start over
			s, err := api.CreateSession(ctx)
			if err != nil {
				return errMsg{"create session", err}
			}
			return sessionMsg{id: s.ID}
		}
		if err != nil {
			return errMsg{"load chat history", err}
		}
		return historyMsg{messages: msgs}
	}
}

func (m Model) refreshHome() tea.Cmd {
	api, sid := m.api, m.chat.sessionID
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()

		var out homeMsg
		var err error
		if out.summary, err = api.Stats(ctx); err != nil {
			return errMsg{"load stats", err}
		}
		if sid == "" {
			return out
		}
		if out.session, err = api.SessionStats(ctx, sid); err != nil {
			return errMsg{"load session stats", err}
		}
		if out.goal, err = api.Goal(ctx, sid); err != nil {
			return errMsg{"load goal", err}
		}
		a, err := api.Achievements(ctx, sid)
		if err != nil {
			return errMsg{"load achievements", err}
		}
		out.achievements = a.Achievements
		return out
	}
}

func (m Model) checkAchievements() tea.Cmd {
	api, sid := m.api, m.chat.sessionID
	if sid == "" {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		res, err := api.CheckAchievements(ctx, sid)
		if err != nil {
			return errMsg{"check achievements", err}
		}
		return checkMsg{res: res}
	}
}

func (m Model) setGoal(target int) tea.Cmd {
	api, sid := m.api, m.chat.sessionID
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		g, err := api.SetGoal(ctx, sid, target)
		if err != nil {
			return errMsg{"set goal", err}
		}
		return goalMsg{goal: g}
	}
}

func (m Model) loadMonitor() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		u, err := api.Image(ctx, "monitor")
		if err != nil {
			return errMsg{"generate image", err}
		}
		return monitorMsg{url: u}
	}
}

// Chat

func waitChunk(gen int, chunks <-chan string, errs <-chan error) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-chunks
		if !ok {
			return streamDoneMsg{gen: gen, err: <-errs}
		}
		return chunkMsg{gen: gen, text: c, chunks: chunks, errs: errs}
	}
}

func typeTick(gen int) tea.Cmd {
	return tea.Tick(typeInterval, func(time.Time) tea.Msg { return typeTickMsg{gen: gen} })
}

// finishChat summarizes the session, closes it and opens a fresh one.
func (m Model) finishChat() tea.Cmd {
	api, sid := m.api, m.chat.sessionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*requestTimeout)
		defer cancel()
		summary, err := api.Summarize(ctx, sid)
		if err != nil {
			return errMsg{"summarize", err}
		}
		if err := api.CompleteSession(ctx, sid); err != nil {
			return errMsg{"complete session", err}
		}
		s, err := api.CreateSession(ctx)
		if err != nil {
			return errMsg{"create session", err}
		}
		return finishedMsg{summary: summary, oldID: sid, newID: s.ID}
	}
}

func (m Model) enqueueSummary() tea.Cmd {
	api, sid := m.api, m.chat.sessionID
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		id, err := api.EnqueueSummary(ctx, sid)
		if err != nil {
			return errMsg{"queue summary", err}
		}
		return jobQueuedMsg{id: id}
	}
}

func (m Model) pollJob(id string) tea.Cmd {
	api := m.api
	return tea.Tick(jobPoll, func(time.Time) tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		j, err := api.SummaryJob(ctx, id)
		if err != nil {
			return errMsg{"summary job", err}
		}
		return jobMsg{job: j}
	})
}

// Journal

func (m Model) loadEntries() tea.Cmd {
	api, tag := m.api, m.journal.tag
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		es, err := api.ListEntries(ctx, gateway.EntryQuery{Tag: tag})
		if err != nil {
			return errMsg{"load entries", err}
		}
		return entriesMsg{entries: es}
	}
}

func (m Model) saveEntry(id string, d journal.Draft) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		if id == "" {
			v, err := api.CreateEntry(ctx, d)
			if err != nil {
				return errMsg{"save entry", err}
			}
			return savedMsg{view: v, created: true}
		}
		v, err := api.UpdateEntry(ctx, id, d)
		if err != nil {
			return errMsg{"update entry", err}
		}
		return savedMsg{view: v}
	}
}

func (m Model) deleteEntry(id string, purge bool) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		return deletedMsg{id: id, err: api.DeleteEntry(ctx, id), purge: purge}
	}
}

// savePrefs runs a prefs mutation off the update loop.
func (m Model) savePrefs(op string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		if err := fn(ctx); err != nil {
			return errMsg{op, err}
		}
		return prefsMsg{}
	}
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m Model) loadTags() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		ts, err := api.Tags(ctx)
		if err != nil {
			return errMsg{"load tags", err}
		}
		return tagsMsg{tags: ts}
	}
}

func (m Model) loadInsights() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := reqCtx()
		defer cancel()
		d, err := api.Insights(ctx)
		if err != nil {
			return errMsg{"load insights", err}
		}
		return insightsMsg{dash: d}
	}
}
