package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/suPer8Hu/journal-terminal/internal/ai"
	"github.com/suPer8Hu/journal-terminal/internal/boot"
	"github.com/suPer8Hu/journal-terminal/internal/chat"
	"github.com/suPer8Hu/journal-terminal/internal/gateway"
	"github.com/suPer8Hu/journal-terminal/internal/journal"
	"github.com/suPer8Hu/journal-terminal/internal/purge"
)

const (
	goalStep = 50
	goalMin  = 50
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case bootStartedMsg:
		if msg.seq != m.bootSeq || m.stage == stageReady {
			msg.stop()
			return m, nil
		}
		m.bootStop = msg.stop
		m.bootCh = msg.ch
		m.bootLines = nil
		return m, waitBoot(msg.ch)

	case bootLineMsg:
		if msg.seq != m.bootSeq {
			return m, nil
		}
		m.bootLines = append(m.bootLines, msg.text)
		return m, waitBoot(m.bootCh)

	case bootDoneMsg:
		if msg.seq != m.bootSeq {
			return m, nil
		}
		if m.stage == stageSplash {
			m.stage = stageBoot
			m.bootSeq++
			return m, startBoot(m.bootSeq, boot.Boot())
		}
		return m.ready()

	case errMsg:
		return m.fail(msg.op, msg.err)

	case toastTickMsg:
		if m.toasts.expire(m.now()) {
			return m, toastTick()
		}
		return m, nil

	case prefsMsg:
		return m, nil

	case sessionMsg:
		m.chat.sessionID = msg.id
		return m, tea.Batch(
			m.savePrefs("save session", func(ctx context.Context) error {
				_, err := m.prefs.SetSessionID(ctx, msg.id)
				return err
			}),
			m.refreshHome(),
		)

	case historyMsg:
		if len(m.chat.history) > 0 || m.chat.streaming {
			return m, nil
		}
		for _, cm := range msg.messages {
			if cm.Role == ai.RoleUser || cm.Role == ai.RoleAssistant {
				m.chat.history = append(m.chat.history, ai.Message{Role: cm.Role, Content: cm.Content})
			}
		}
		m.syncChat()
		return m, nil

	case homeMsg:
		m.home.summary = msg.summary
		m.home.session = msg.session
		m.home.goal = msg.goal
		m.home.achievements = msg.achievements
		return m, nil

	case checkMsg:
		m.home.summary = msg.res.Summary
		m.home.achievements = msg.res.Statuses
		var cmds []tea.Cmd
		for _, a := range msg.res.Unlocked {
			cmds = append(cmds, m.notify(fmt.Sprintf("ACHIEVEMENT UNLOCKED: %s %s", a.Icon, a.Name)))
		}
		return m, tea.Batch(cmds...)

	case goalMsg:
		was := m.home.goal.Complete
		m.home.goal = msg.goal
		if msg.goal.Complete && !was {
			return m, m.notify("DAILY GOAL COMPLETE")
		}
		return m, nil

	case monitorMsg:
		m.home.monitor = msg.url
		return m, nil

	case chunkMsg:
		if msg.gen != m.chat.gen {
			return m, nil
		}
		m.chat.tw.Append(msg.text)
		cmds := []tea.Cmd{waitChunk(msg.gen, msg.chunks, msg.errs)}
		if !m.chat.ticking {
			m.chat.ticking = true
			cmds = append(cmds, typeTick(msg.gen))
		}
		return m, tea.Batch(cmds...)

	case streamDoneMsg:
		if msg.gen != m.chat.gen {
			return m, nil
		}
		m.chat.streaming = false
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.chat.tw.Flush()
			m.commitReply()
			return m.fail("chat", msg.err)
		}
		if !m.chat.ticking {
			m.commitReply()
		}
		return m, nil

	case typeTickMsg:
		if msg.gen != m.chat.gen {
			return m, nil
		}
		if m.chat.tw.Step(typeRunes) || m.chat.streaming {
			m.syncChat()
			return m, typeTick(msg.gen)
		}
		m.chat.ticking = false
		m.commitReply()
		return m, nil

	case finishedMsg:
		m.chat.finishing = false
		m.resetChat(msg.newID)
		old := msg.oldID
		m.openEditor("", &old, "CHAT REFLECTION "+m.now().Format("2006-01-02"), msg.summary, nil)
		extra := tea.Batch(
			m.savePrefs("save session", func(ctx context.Context) error {
				_, err := m.prefs.SetSessionID(ctx, msg.newID)
				return err
			}),
			m.notify("SESSION SUMMARIZED"),
		)
		return m.switchTab(TabNewEntry, extra)

	case jobQueuedMsg:
		m.chat.jobID = msg.id
		return m, tea.Batch(m.notify("SUMMARY QUEUED"), m.pollJob(msg.id))

	case jobMsg:
		if msg.job.ID != m.chat.jobID {
			return m, nil
		}
		switch msg.job.Status {
		case chat.JobSucceeded:
			m.chat.jobID = ""
			return m, tea.Batch(m.notify("SUMMARY FILED TO JOURNAL"), m.loadEntries(), m.refreshHome(), m.checkAchievements())
		case chat.JobFailed:
			m.chat.jobID = ""
			reason := "unknown error"
			if msg.job.Error != nil {
				reason = *msg.job.Error
			}
			return m.fail("summary job", errors.New(reason))
		}
		return m, m.pollJob(msg.job.ID)

	case entriesMsg:
		m.journal.entries = msg.entries
		m.journal.cursor = clamp(m.journal.cursor, len(msg.entries))
		ids := make([]string, len(msg.entries))
		for i, e := range msg.entries {
			ids[i] = e.ID
		}
		m.journal.machine.SetEntries(ids)
		return m, nil

	case savedMsg:
		m.editor.saving = false
		text := "ENTRY UPDATED"
		cmds := []tea.Cmd{m.loadEntries(), m.refreshHome(), m.checkAchievements()}
		if msg.created {
			text = "ENTRY SAVED"
			words := msg.view.WordCount
			cmds = append(cmds, m.savePrefs("record entry", func(ctx context.Context) error {
				_, err := m.prefs.RecordEntry(ctx, words)
				return err
			}))
		}
		cmds = append(cmds, m.notify(text))
		m.openEditor("", nil, "", "", nil)
		return m.switchTab(TabJournal, tea.Batch(cmds...))

	case deletedMsg:
		if msg.purge {
			return m.purged(msg)
		}
		if msg.err != nil {
			return m.fail("delete entry", msg.err)
		}
		m.journal.detail = false
		return m, tea.Batch(m.notify("ENTRY DELETED"), m.loadEntries(), m.refreshHome())

	case frameMsg:
		if !m.journal.animating {
			return m, nil
		}
		m.journal.anim = m.journal.anim.Advance(frameInterval)
		if !m.journal.anim.Done() {
			return m, frameTick()
		}
		m.journal.animating = false
		return m, m.deleteEntry(m.journal.machine.Current(), true)

	case tagsMsg:
		m.index.tags = msg.tags
		m.index.cursor = clamp(m.index.cursor, len(msg.tags))
		return m, nil

	case insightsMsg:
		d := msg.dash
		m.insight.dash = &d
		m.insight.loaded = true
		return m, nil
	}

	return m.updateFocused(msg)
}

// updateFocused forwards anything unhandled, such as cursor blinks, to the focused field.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.tab {
	case TabChat:
		m.chat.input, cmd = m.chat.input.Update(msg)
	case TabNewEntry:
		switch m.editor.focus {
		case 0:
			m.editor.title, cmd = m.editor.title.Update(msg)
		case 1:
			m.editor.tags, cmd = m.editor.tags.Update(msg)
		default:
			m.editor.body, cmd = m.editor.body.Update(msg)
		}
	case TabJournal:
		if m.journal.input.Focused() {
			m.journal.input, cmd = m.journal.input.Update(msg)
		}
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.stream.Cancel()
		if m.bootStop != nil {
			m.bootStop()
		}
		return m, tea.Quit
	}

	if m.stage != stageReady {
		return m.ready()
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Close, m.keys.Help) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Home):
		return m.switchTab(TabHome, nil)
	case key.Matches(msg, m.keys.Chat):
		return m.switchTab(TabChat, nil)
	case key.Matches(msg, m.keys.Journal):
		return m.switchTab(TabJournal, nil)
	case key.Matches(msg, m.keys.NewEntry):
		return m.switchTab(TabNewEntry, nil)
	case key.Matches(msg, m.keys.Index):
		return m.switchTab(TabIndex, nil)
	case key.Matches(msg, m.keys.Insights):
		return m.switchTab(TabInsights, nil)
	}

	if !m.inputFocused() {
		switch {
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Theme):
			m.variant = m.variant.Next()
			m.styles = newStyles(m.variant)
			v := m.variant
			return m, m.savePrefs("save theme", func(ctx context.Context) error {
				_, err := m.prefs.SetTheme(ctx, v)
				return err
			})
		}
	}

	switch m.tab {
	case TabHome:
		return m.homeKey(msg)
	case TabChat:
		return m.chatKey(msg)
	case TabJournal:
		return m.journalKey(msg)
	case TabNewEntry:
		return m.editorKey(msg)
	case TabIndex:
		return m.indexKey(msg)
	case TabInsights:
		if key.Matches(msg, m.keys.Reload) {
			return m, m.loadInsights()
		}
	}
	return m, nil
}

// ready ends the boot stages, whether they finished or were skipped.
func (m Model) ready() (tea.Model, tea.Cmd) {
	if m.bootStop != nil {
		m.bootStop()
		m.bootStop = nil
	}
	m.bootSeq++
	m.stage = stageReady
	return m, tea.Batch(m.refreshHome(), m.checkAchievements())
}

func (m Model) switchTab(t Tab, extra tea.Cmd) (tea.Model, tea.Cmd) {
	if m.tab == TabChat && t != TabChat {
		m.abortStream()
	}
	m.tab = t
	m.chat.input.Blur()
	m.journal.input.Blur()
	m.editor.title.Blur()
	m.editor.tags.Blur()
	m.editor.body.Blur()

	var cmd tea.Cmd
	switch t {
	case TabHome:
		cmd = tea.Batch(m.refreshHome(), m.checkAchievements())
	case TabChat:
		cmd = m.chat.input.Focus()
		m.syncChat()
	case TabJournal:
		cmd = m.loadEntries()
		if p := m.journal.machine.Phase(); p == purge.PhaseTyping || p == purge.PhaseLastWords {
			cmd = tea.Batch(cmd, m.journal.input.Focus())
		}
	case TabNewEntry:
		cmd = m.focusEditor(m.editor.focus)
	case TabIndex:
		cmd = m.loadTags()
	case TabInsights:
		if !m.insight.loaded {
			cmd = m.loadInsights()
		}
	}
	return m, tea.Batch(cmd, extra)
}

func (m *Model) notify(text string) tea.Cmd {
	idle := len(m.toasts.items) == 0
	m.toasts.push(text, false, m.now())
	if idle {
		return toastTick()
	}
	return nil
}

func (m Model) fail(op string, err error) (tea.Model, tea.Cmd) {
	m.log.Warn(op, zap.Error(err))
	m.editor.saving = false
	m.chat.finishing = false

	text := strings.ToUpper(op) + " FAILED: " + err.Error()
	switch {
	case errors.Is(err, gateway.ErrRateLimited), errors.Is(err, gateway.ErrCreditsExhausted):
		text = strings.ToUpper(err.Error())
	}
	idle := len(m.toasts.items) == 0
	m.toasts.push(text, true, m.now())
	if idle {
		return m, toastTick()
	}
	return m, nil
}

// Home

func (m Model) homeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.More):
		return m, m.setGoal(m.goalTarget() + goalStep)
	case key.Matches(msg, m.keys.Less):
		return m, m.setGoal(max(goalMin, m.goalTarget()-goalStep))
	case key.Matches(msg, m.keys.Reload):
		return m, tea.Batch(m.refreshHome(), m.checkAchievements())
	case key.Matches(msg, m.keys.Image):
		return m, m.loadMonitor()
	}
	return m, nil
}

func (m Model) goalTarget() int {
	if m.home.goal.TargetWords > 0 {
		return m.home.goal.TargetWords
	}
	return goalMin * 10
}

// Chat

func (m Model) chatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		if m.chat.streaming {
			m.abortStream()
			return m, nil
		}
		m.chat.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Save):
		if m.chat.finishing || m.chat.streaming || m.chat.sessionID == "" || len(m.chat.history) == 0 {
			return m, nil
		}
		m.chat.finishing = true
		return m, m.finishChat()
	case key.Matches(msg, m.keys.Queue):
		if m.chat.sessionID == "" || len(m.chat.history) == 0 || m.chat.jobID != "" {
			return m, nil
		}
		return m, m.enqueueSummary()
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		if !m.chat.input.Focused() {
			var cmd tea.Cmd
			m.chat.view, cmd = m.chat.view.Update(msg)
			return m, cmd
		}
	case msg.Type == tea.KeyEnter:
		if !m.chat.input.Focused() {
			return m, m.chat.input.Focus()
		}
		return m.send()
	}

	if !m.chat.input.Focused() {
		return m, nil
	}
	var cmd tea.Cmd
	m.chat.input, cmd = m.chat.input.Update(msg)
	return m, cmd
}

func (m Model) send() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.chat.input.Value())
	if text == "" || m.chat.streaming || m.chat.finishing {
		return m, nil
	}
	m.chat.tw.Flush()
	m.commitReply()

	m.chat.input.Reset()
	m.chat.history = append(m.chat.history, ai.Message{Role: ai.RoleUser, Content: text})
	m.chat.gen++
	m.chat.tw = &typewriter{}
	m.chat.streaming = true
	m.chat.ticking = false
	m.syncChat()

	req := gateway.ChatRequest{
		SessionID: m.chat.sessionID,
		Messages:  append([]ai.Message(nil), m.chat.history...),
	}
	chunks, errs := m.stream.Send(context.Background(), req)
	return m, tea.Batch(
		waitChunk(m.chat.gen, chunks, errs),
		m.savePrefs("record message", func(ctx context.Context) error {
			_, err := m.prefs.RecordMessage(ctx)
			return err
		}),
	)
}

// abortStream cancels the in-flight reply and keeps whatever already arrived.
func (m *Model) abortStream() {
	m.stream.Cancel()
	if !m.chat.streaming && m.chat.tw.Done() {
		return
	}
	m.chat.gen++
	m.chat.streaming = false
	m.chat.ticking = false
	m.chat.tw.Flush()
	m.commitReply()
}

// commitReply moves the typed reply into history once it is fully shown.
func (m *Model) commitReply() {
	if m.chat.streaming || !m.chat.tw.Done() {
		return
	}
	if reply := m.chat.tw.Full(); reply != "" {
		m.chat.history = append(m.chat.history, ai.Message{Role: ai.RoleAssistant, Content: reply})
	}
	m.chat.tw = &typewriter{}
	m.syncChat()
}

func (m *Model) resetChat(sessionID string) {
	m.abortStream()
	m.chat.sessionID = sessionID
	m.chat.history = nil
	m.chat.tw = &typewriter{}
	m.chat.input.Reset()
	m.syncChat()
}

// Journal

func (m Model) journalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mc := m.journal.machine
	switch mc.Phase() {
	case purge.PhaseSelect:
		return m.browseKey(msg)

	case purge.PhaseConfirm:
		switch {
		case key.Matches(msg, m.keys.Method), key.Matches(msg, m.keys.Right):
			_ = mc.SetMethod(nextMethod(mc.Method()))
		case key.Matches(msg, m.keys.Left):
			_ = mc.SetMethod(prevMethod(mc.Method()))
		case key.Matches(msg, m.keys.Enter):
			if err := mc.ConfirmMethod(); err != nil {
				return m.fail("purge", err)
			}
			m.journal.input.Reset()
			m.journal.input.Placeholder = "TYPE " + purge.Token + " TO CONFIRM"
			return m, m.journal.input.Focus()
		case key.Matches(msg, m.keys.Close):
			_ = mc.Cancel()
		}
		return m, nil

	case purge.PhaseTyping:
		switch {
		case key.Matches(msg, m.keys.Close):
			_ = mc.Cancel()
			m.journal.input.Blur()
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			if err := mc.SubmitToken(m.journal.input.Value()); err != nil {
				m.journal.input.Reset()
				return m.fail("purge", err)
			}
			m.journal.input.Reset()
			m.journal.input.Placeholder = "LAST WORDS (OPTIONAL)"
			return m, nil
		}

	case purge.PhaseLastWords:
		switch {
		case key.Matches(msg, m.keys.Close):
			_ = mc.Cancel()
			m.journal.input.Blur()
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			_ = mc.SetEpitaph(strings.TrimSpace(m.journal.input.Value()))
			m.journal.epitaph = mc.Epitaph()
			if err := mc.Ignite(); err != nil {
				m.journal.input.Blur()
				return m.fail("purge", err)
			}
			m.journal.input.Reset()
			m.journal.input.Blur()
			m.journal.purged = 0
			return m, m.animate(mc.Current())
		}

	case purge.PhasePurging:
		return m, nil
	}

	var cmd tea.Cmd
	m.journal.input, cmd = m.journal.input.Update(msg)
	return m, cmd
}

func (m Model) browseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	es := m.journal.entries
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.journal.cursor > 0 {
			m.journal.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.journal.cursor < len(es)-1 {
			m.journal.cursor++
		}
	case key.Matches(msg, m.keys.Enter):
		m.journal.detail = len(es) > 0
	case key.Matches(msg, m.keys.Close):
		switch {
		case m.journal.detail:
			m.journal.detail = false
		case m.journal.tag != "":
			m.journal.tag = ""
			return m, m.loadEntries()
		}
	case key.Matches(msg, m.keys.Reload):
		return m, m.loadEntries()
	case key.Matches(msg, m.keys.Method):
		_ = m.journal.machine.SetMethod(nextMethod(m.journal.machine.Method()))
	case key.Matches(msg, m.keys.Purge):
		if err := m.journal.machine.Initiate(); err != nil {
			return m.fail("purge", err)
		}
		m.journal.detail = false
	}

	if len(es) == 0 {
		return m, nil
	}
	cur := es[m.journal.cursor]
	switch {
	case key.Matches(msg, m.keys.Toggle):
		if err := m.journal.machine.Toggle(cur.ID); err != nil {
			return m.fail("mark entry", err)
		}
	case key.Matches(msg, m.keys.Edit):
		m.openEditor(cur.ID, cur.SessionID, cur.Title, strings.Join(journal.Paragraphs(cur.Content), "\n\n"), cur.Tags)
		return m.switchTab(TabNewEntry, nil)
	case key.Matches(msg, m.keys.Delete):
		return m, m.deleteEntry(cur.ID, false)
	}
	return m, nil
}

func (m *Model) animate(id string) tea.Cmd {
	m.journal.anim = purge.NewAnimation(m.journal.machine.Method(), m.entryTitle(id))
	m.journal.animating = true
	return frameTick()
}

// purged advances the purge queue after one delete attempt.
func (m Model) purged(msg deletedMsg) (tea.Model, tea.Cmd) {
	ctx, cancel := reqCtx()
	defer cancel()

	res, err := m.journal.machine.AnimationDone(ctx, doneDeleter{err: msg.err})
	if err != nil {
		m.journal.epitaph = ""
		mm, cmd := m.fail("purge", err)
		return mm, tea.Batch(cmd, m.loadEntries(), m.refreshHome())
	}
	m.journal.purged++
	m.journal.entries = removeEntry(m.journal.entries, res.Deleted)
	m.journal.cursor = clamp(m.journal.cursor, len(m.journal.entries))
	if res.Next != "" {
		return m, m.animate(res.Next)
	}

	text := fmt.Sprintf("%d ENTRIES PURGED", m.journal.purged)
	if m.journal.purged == 1 {
		text = "1 ENTRY PURGED"
	}
	if m.journal.epitaph != "" {
		text += ". \"" + m.journal.epitaph + "\""
	}
	m.journal.epitaph = ""
	return m, tea.Batch(m.notify(text), m.loadEntries(), m.refreshHome())
}

// doneDeleter reports the outcome of a delete that already ran as a command.
type doneDeleter struct{ err error }

func (d doneDeleter) DeleteEntry(context.Context, string) error { return d.err }

func (m Model) entryTitle(id string) string {
	for _, e := range m.journal.entries {
		if e.ID == id {
			return e.Title
		}
	}
	return id
}

func removeEntry(es []journal.View, id string) []journal.View {
	out := es[:0:0]
	for _, e := range es {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

func nextMethod(cur purge.Method) purge.Method {
	ms := purge.Methods()
	return ms[(int(cur)+1)%len(ms)]
}

func prevMethod(cur purge.Method) purge.Method {
	ms := purge.Methods()
	return ms[(int(cur)+len(ms)-1)%len(ms)]
}

// Editor

func (m *Model) openEditor(id string, sessionID *string, title, body string, tags []string) {
	m.editor.id = id
	m.editor.sessionID = sessionID
	m.editor.title.SetValue(title)
	m.editor.tags.SetValue(strings.Join(tags, ", "))
	m.editor.body.SetValue(body)
	m.editor.focus = 2
	if title == "" && body == "" {
		m.editor.focus = 0
	}
}

func (m *Model) focusEditor(i int) tea.Cmd {
	m.editor.focus = i
	m.editor.title.Blur()
	m.editor.tags.Blur()
	m.editor.body.Blur()
	switch i {
	case 0:
		return m.editor.title.Focus()
	case 1:
		return m.editor.tags.Focus()
	}
	return m.editor.body.Focus()
}

func (m Model) editorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next):
		return m, m.focusEditor((m.editor.focus + 1) % 3)
	case key.Matches(msg, m.keys.Save):
		if m.editor.saving {
			return m, nil
		}
		body := strings.TrimSpace(m.editor.body.Value())
		if body == "" {
			return m.fail("save entry", journal.ErrEmptyContent)
		}
		sid := m.editor.sessionID
		if sid == nil && m.editor.id == "" && m.chat.sessionID != "" {
			s := m.chat.sessionID
			sid = &s
		}
		d := journal.Draft{
			SessionID: sid,
			Title:     strings.TrimSpace(m.editor.title.Value()),
			Content:   journal.FromPlain(body),
			Tags:      splitTags(m.editor.tags.Value()),
		}
		m.editor.saving = true
		return m, m.saveEntry(m.editor.id, d)
	case key.Matches(msg, m.keys.Close):
		if m.editor.id != "" {
			m.openEditor("", nil, "", "", nil)
			return m.switchTab(TabJournal, nil)
		}
		return m, nil
	}
	return m.updateFocused(msg)
}

func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Index

func (m Model) indexKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.index.cursor > 0 {
			m.index.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.index.cursor < len(m.index.tags)-1 {
			m.index.cursor++
		}
	case key.Matches(msg, m.keys.Reload):
		return m, m.loadTags()
	case key.Matches(msg, m.keys.Enter):
		if len(m.index.tags) == 0 {
			return m, nil
		}
		m.journal.tag = m.index.tags[m.index.cursor].Tag
		m.journal.cursor = 0
		m.journal.detail = false
		return m.switchTab(TabJournal, nil)
	}
	return m, nil
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	return max(i, 0)
}
