package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/suPer8Hu/journal-terminal/internal/ai"
	"github.com/suPer8Hu/journal-terminal/internal/insights"
	"github.com/suPer8Hu/journal-terminal/internal/journal"
	"github.com/suPer8Hu/journal-terminal/internal/purge"
)

const chrome = 6 // frame border, tab bar, spacer, footer

func (m *Model) layout() {
	w := max(m.width-4, 20)
	h := max(m.height-chrome, 5)
	m.chat.view.Width = w
	m.chat.view.Height = max(h-2, 1)
	m.chat.input.Width = w - 3
	m.journal.input.Width = w - 3
	m.editor.title.Width = w - 3
	m.editor.tags.Width = w - 3
	m.editor.body.SetWidth(w)
	m.editor.body.SetHeight(max(h-5, 3))
	m.home.bar.Width = min(w-12, 50)
	m.syncChat()
}

func (m *Model) syncChat() {
	w := max(m.chat.view.Width, 20)
	var b strings.Builder
	for _, msg := range m.chat.history {
		b.WriteString(m.renderMessage(msg.Role, msg.Content, w))
		b.WriteString("\n\n")
	}
	if m.chat.streaming || !m.chat.tw.Done() {
		b.WriteString(m.renderMessage(ai.RoleAssistant, m.chat.tw.Visible()+"█", w))
	}
	m.chat.view.SetContent(b.String())
	m.chat.view.GotoBottom()
}

func (m *Model) renderMessage(role, content string, w int) string {
	label, style := "REFLECT> ", m.styles.Assistant
	if role == ai.RoleUser {
		label, style = "YOU> ", m.styles.User
	}
	return style.Width(w).Render(label + content)
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	switch m.stage {
	case stageSplash:
		return m.center(m.styles.Title.Render(strings.Join(m.bootLines, "\n")))
	case stageBoot:
		return m.styles.Text.Render(strings.Join(m.bootLines, "\n"))
	}

	var body string
	if m.showHelp {
		m.help.ShowAll = true
		body = m.styles.Overlay.Render(m.styles.Title.Render("KEYS") + "\n\n" + m.help.View(m.keys))
	} else {
		switch m.tab {
		case TabHome:
			body = m.viewHome()
		case TabChat:
			body = m.viewChat()
		case TabJournal:
			body = m.viewJournal()
		case TabNewEntry:
			body = m.viewEditor()
		case TabIndex:
			body = m.viewIndex()
		case TabInsights:
			body = m.viewInsights()
		}
	}

	h := max(m.height-chrome, 5)
	body = lipgloss.NewStyle().Height(h).MaxHeight(h).Render(body)

	m.help.ShowAll = false
	footer := m.help.View(m.keys)
	if t := m.viewToasts(); t != "" {
		footer = t
	}

	screen := lipgloss.JoinVertical(lipgloss.Left, m.viewTabs(), "", body, footer)
	return m.styles.Frame.Width(max(m.width-2, 20)).Render(screen)
}

func (m Model) center(s string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}

func (m Model) viewTabs() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("F%d %s", i+1, name)
		if Tab(i) == m.tab {
			tabs[i] = m.styles.ActiveTab.Render(label)
		} else {
			tabs[i] = m.styles.InactiveTab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + m.styles.Dim.Render("  ["+strings.ToUpper(m.variant.String())+"]")
}

func (m Model) viewToasts() string {
	if len(m.toasts.items) == 0 {
		return ""
	}
	out := make([]string, len(m.toasts.items))
	for i, t := range m.toasts.items {
		if t.isErr {
			out[i] = m.styles.ToastErr.Render(t.text)
		} else {
			out[i] = m.styles.Toast.Render(t.text)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (m Model) viewHome() string {
	s := m.home.summary
	local := m.prefs.Get().Stats
	g := m.home.goal

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("SYSTEM STATUS") + "\n")
	fmt.Fprintf(&b, "ENTRIES %d   WORDS %d   TAGS %d   STREAK %d DAYS   LONGEST %d WORDS\n",
		s.TotalEntries, s.TotalWords, s.UniqueTags, s.Streak, s.LongestEntryWords)
	b.WriteString(m.styles.Dim.Render(fmt.Sprintf("THIS SESSION: %d MESSAGES  %d ENTRIES  %d WORDS  SINCE %s",
		local.MessagesSent, local.EntriesSaved, local.WordsWritten, local.StartedAt.Format("15:04"))) + "\n\n")

	b.WriteString(m.styles.Title.Render("DAILY GOAL") + "\n")
	fmt.Fprintf(&b, "%s %d/%d WORDS", m.home.bar.ViewAs(float64(g.Percent)/100), g.TodayWords, g.TargetWords)
	if g.Complete {
		b.WriteString(" " + m.styles.Accent.Render("COMPLETE"))
	}
	b.WriteString("\n\n")

	unlocked := 0
	for _, a := range m.home.achievements {
		if a.Unlocked {
			unlocked++
		}
	}
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("ACHIEVEMENTS %d/%d", unlocked, len(m.home.achievements))) + "\n")
	for _, a := range m.home.achievements {
		line := fmt.Sprintf("%s %-18s %3.0f%%  %s", a.Icon, a.Name, a.Progress*100, a.Description)
		if a.Unlocked {
			b.WriteString(m.styles.Accent.Render("[x] "+line) + "\n")
		} else {
			b.WriteString(m.styles.Dim.Render("[ ] "+line) + "\n")
		}
	}
	if m.home.monitor != "" {
		b.WriteString("\n" + m.styles.Dim.Render("MONITOR: "+m.home.monitor))
	}
	return b.String()
}

func (m Model) viewChat() string {
	status := ""
	switch {
	case m.chat.finishing:
		status = "SUMMARIZING SESSION..."
	case m.chat.streaming:
		status = "RECEIVING... (esc to abort)"
	case m.chat.jobID != "":
		status = "SUMMARY JOB " + m.chat.jobID + " RUNNING"
	}
	view := m.chat.view.View()
	if len(m.chat.history) == 0 && !m.chat.streaming {
		view = m.styles.Dim.Render("NO TRANSMISSIONS YET. SAY SOMETHING.")
	}
	return lipgloss.JoinVertical(lipgloss.Left, view, m.styles.Dim.Render(status), m.chat.input.View())
}

func (m Model) viewJournal() string {
	mc := m.journal.machine
	switch mc.Phase() {
	case purge.PhaseConfirm, purge.PhaseTyping, purge.PhaseLastWords:
		return m.viewPurgeWizard()
	case purge.PhasePurging:
		w := max(m.width-8, 20)
		out := m.styles.Danger.Render("PURGING: "+m.entryTitle(mc.Current())) + "\n\n" + m.journal.anim.Frame(w)
		if m.journal.epitaph != "" {
			out += "\n\n" + m.styles.Dim.Render("\""+m.journal.epitaph+"\"")
		}
		return out
	}

	if m.journal.detail && len(m.journal.entries) > 0 {
		return m.viewEntry(m.journal.entries[m.journal.cursor])
	}

	var b strings.Builder
	title := "JOURNAL"
	if m.journal.tag != "" {
		title += " #" + m.journal.tag + " (esc clears)"
	}
	b.WriteString(m.styles.Title.Render(title) + "\n")
	if len(m.journal.entries) == 0 {
		b.WriteString(m.styles.Dim.Render("NO ENTRIES."))
		return b.String()
	}
	for i, e := range m.journal.entries {
		mark := "  "
		if mc.IsSelected(e.ID) {
			mark = m.styles.Marked.Render("✗ ")
		}
		line := fmt.Sprintf("%s  %-30s %5dw  %s", e.CreatedAt.Format("2006-01-02"), truncate(e.Title, 30), e.WordCount, truncate(e.Preview, 40))
		if i == m.journal.cursor {
			b.WriteString(mark + m.styles.Selected.Render("> "+line) + "\n")
		} else {
			b.WriteString(mark + m.styles.Text.Render("  "+line) + "\n")
		}
	}
	if n := len(mc.Selected()); n > 0 {
		fmt.Fprintf(&b, "\n%s", m.styles.Danger.Render(fmt.Sprintf("%d MARKED. METHOD: %s. PRESS p TO PURGE.", n, mc.Method())))
	}
	return b.String()
}

func (m Model) viewEntry(e journal.View) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(e.Title) + "\n")
	meta := e.CreatedAt.Format("2006-01-02 15:04") + fmt.Sprintf("  %d WORDS", e.WordCount)
	if len(e.Tags) > 0 {
		meta += "  #" + strings.Join(e.Tags, " #")
	}
	b.WriteString(m.styles.Dim.Render(meta) + "\n\n")
	w := max(m.width-8, 20)
	for _, p := range journal.Paragraphs(e.Content) {
		b.WriteString(m.styles.Text.Width(w).Render(p) + "\n\n")
	}
	b.WriteString(m.styles.Dim.Render("e edit  x delete  esc back"))
	return b.String()
}

func (m Model) viewPurgeWizard() string {
	mc := m.journal.machine
	var b strings.Builder
	b.WriteString(m.styles.Danger.Render(fmt.Sprintf("PURGE %d ENTRIES", len(mc.Selected()))) + "\n\n")
	for _, id := range mc.Selected() {
		b.WriteString(m.styles.Dim.Render("  "+m.entryTitle(id)) + "\n")
	}
	b.WriteString("\n")

	switch mc.Phase() {
	case purge.PhaseConfirm:
		for _, method := range purge.Methods() {
			if method == mc.Method() {
				b.WriteString(m.styles.Selected.Render("> "+method.String()+"  "+method.Label()) + "\n")
			} else {
				b.WriteString(m.styles.Dim.Render("  "+method.String()+"  "+method.Label()) + "\n")
			}
		}
		b.WriteString("\n" + m.styles.Dim.Render("←/→ method  enter confirm  esc abort"))
	case purge.PhaseTyping:
		b.WriteString("TYPE " + m.styles.Danger.Render(purge.Token) + " TO ARM\n" + m.journal.input.View())
	case purge.PhaseLastWords:
		b.WriteString("ANY LAST WORDS?\n" + m.journal.input.View() + "\n\n" + m.styles.Dim.Render("enter ignite  esc abort"))
	}
	return m.styles.Overlay.Render(b.String())
}

func (m Model) viewEditor() string {
	heading := "NEW ENTRY"
	if m.editor.id != "" {
		heading = "EDIT ENTRY (esc cancels)"
	}
	if m.editor.saving {
		heading += "  SAVING..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render(heading),
		m.editor.title.View(),
		m.editor.tags.View(),
		"",
		m.editor.body.View(),
		m.styles.Dim.Render(fmt.Sprintf("%d WORDS  tab next field  ctrl+s save", journal.WordCount(journal.FromPlain(m.editor.body.Value())))),
	)
}

func (m Model) viewIndex() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("TAG INDEX") + "\n")
	if len(m.index.tags) == 0 {
		b.WriteString(m.styles.Dim.Render("NO TAGS."))
		return b.String()
	}
	top := m.index.tags[0].Count
	for _, t := range m.index.tags {
		top = max(top, t.Count)
	}
	for i, t := range m.index.tags {
		line := fmt.Sprintf("#%-16s %-20s %d", t.Tag, strings.Repeat("▮", max(1, t.Count*20/max(top, 1))), t.Count)
		if i == m.index.cursor {
			b.WriteString(m.styles.Selected.Render("> "+line) + "\n")
		} else {
			b.WriteString(m.styles.Text.Render("  "+line) + "\n")
		}
	}
	return b.String()
}

func (m Model) viewInsights() string {
	d := m.insight.dash
	if d == nil {
		return m.styles.Dim.Render("COMPUTING INSIGHTS...")
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(d.Headline) + "\n\n")
	b.WriteString("MOOD    " + m.styles.Accent.Render(spark(d.Mood, 10)) + "\n")
	b.WriteString("WORDS   " + m.styles.Accent.Render(spark(d.Words, 0)) + "\n")
	b.WriteString("ENERGY  " + m.styles.Accent.Render(spark(d.Energy, 100)) + "\n\n")
	b.WriteString(m.styles.Title.Render("TOP TAGS") + "\n")
	for _, t := range d.TopTags {
		fmt.Fprintf(&b, "#%-12s %s %d%%\n", t.Tag, strings.Repeat("█", t.Percent/5), t.Percent)
	}
	b.WriteString("\n" + m.styles.Dim.Render("SAMPLE DATA. r REGENERATES."))
	return b.String()
}

var sparks = []rune("▁▂▃▄▅▆▇█")

// spark renders a series as block characters. ceil <= 0 scales to the series maximum.
func spark(ps []insights.Point, ceil int) string {
	if ceil <= 0 {
		for _, p := range ps {
			ceil = max(ceil, p.Value)
		}
	}
	if ceil <= 0 {
		ceil = 1
	}
	out := make([]rune, len(ps))
	for i, p := range ps {
		idx := p.Value * (len(sparks) - 1) / ceil
		out[i] = sparks[min(max(idx, 0), len(sparks)-1)]
	}
	return string(out)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
