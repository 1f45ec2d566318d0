package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/suPer8Hu/journal-terminal/internal/achievement"
	"github.com/suPer8Hu/journal-terminal/internal/ai"
	"github.com/suPer8Hu/journal-terminal/internal/boot"
	"github.com/suPer8Hu/journal-terminal/internal/chat"
	"github.com/suPer8Hu/journal-terminal/internal/gateway"
	"github.com/suPer8Hu/journal-terminal/internal/goal"
	"github.com/suPer8Hu/journal-terminal/internal/insights"
	"github.com/suPer8Hu/journal-terminal/internal/journal"
	"github.com/suPer8Hu/journal-terminal/internal/prefs"
	"github.com/suPer8Hu/journal-terminal/internal/purge"
	"github.com/suPer8Hu/journal-terminal/internal/stats"
	"github.com/suPer8Hu/journal-terminal/internal/theme"
)

// API is the slice of the backend the terminal talks to. *gateway.Client implements it.
type API interface {
	CreateSession(ctx context.Context) (chat.Session, error)
	CompleteSession(ctx context.Context, id string) error
	SessionStats(ctx context.Context, sessionID string) (stats.Summary, error)
	ListMessages(ctx context.Context, sessionID string, limit int) ([]chat.Message, error)

	ListEntries(ctx context.Context, q gateway.EntryQuery) ([]journal.View, error)
	CreateEntry(ctx context.Context, d journal.Draft) (journal.View, error)
	UpdateEntry(ctx context.Context, id string, d journal.Draft) (journal.View, error)
	DeleteEntry(ctx context.Context, id string) error
	Tags(ctx context.Context) ([]journal.TagCount, error)
	Stats(ctx context.Context) (stats.Summary, error)

	Achievements(ctx context.Context, sessionID string) (gateway.Achievements, error)
	CheckAchievements(ctx context.Context, sessionID string) (achievement.CheckResult, error)
	Goal(ctx context.Context, sessionID string) (goal.Progress, error)
	SetGoal(ctx context.Context, sessionID string, target int) (goal.Progress, error)

	Insights(ctx context.Context) (insights.Dashboard, error)
	Summarize(ctx context.Context, sessionID string) (string, error)
	EnqueueSummary(ctx context.Context, sessionID string) (string, error)
	SummaryJob(ctx context.Context, jobID string) (chat.Job, error)
	Image(ctx context.Context, kind string) (string, error)
}

// Streamer runs at most one chat stream. *gateway.Chat implements it.
type Streamer interface {
	Send(ctx context.Context, req gateway.ChatRequest) (<-chan string, <-chan error)
	Cancel()
}

type Tab int

const (
	TabHome Tab = iota
	TabChat
	TabJournal
	TabNewEntry
	TabIndex
	TabInsights
)

var tabNames = [...]string{"HOME", "CHAT", "JOURNAL", "NEW ENTRY", "INDEX", "INSIGHTS"}

func (t Tab) String() string { return tabNames[t] }

type stage int

const (
	stageSplash stage = iota
	stageBoot
	stageReady
)

type Options struct {
	API    API
	Chat   Streamer
	Prefs  *prefs.Scoped
	Log    *zap.Logger
	Now    func() time.Time
	NoBoot bool
}

type Model struct {
	api    API
	stream Streamer
	prefs  *prefs.Scoped
	log    *zap.Logger
	now    func() time.Time

	keys     KeyMap
	help     help.Model
	showHelp bool
	variant  theme.Variant
	styles   Styles
	width    int
	height   int
	tab      Tab
	toasts   toasts

	stage     stage
	bootSeq   int
	bootLines []string
	bootCh    <-chan tea.Msg
	bootStop  context.CancelFunc

	home    homeState
	chat    chatState
	journal journalState
	editor  editorState
	index   indexState
	insight insightState
}

type homeState struct {
	summary      stats.Summary
	session      stats.Summary
	goal         goal.Progress
	achievements []achievement.Status
	bar          progress.Model
	monitor      string
}

type chatState struct {
	sessionID string
	history   []ai.Message
	input     textinput.Model
	view      viewport.Model
	tw        *typewriter
	gen       int
	streaming bool
	ticking   bool
	finishing bool
	jobID     string
}

type journalState struct {
	entries   []journal.View
	cursor    int
	detail    bool
	machine   *purge.Machine
	anim      purge.Animation
	animating bool
	input     textinput.Model
	tag       string
	epitaph   string
	purged    int
}

type editorState struct {
	id        string
	sessionID *string
	title     textinput.Model
	tags      textinput.Model
	body      textarea.Model
	focus     int
	saving    bool
}

type indexState struct {
	tags   []journal.TagCount
	cursor int
}

type insightState struct {
	dash   *insights.Dashboard
	loaded bool
}

func New(o Options) Model {
	log := o.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := o.Now
	if now == nil {
		now = time.Now
	}

	p := o.Prefs.Get()

	in := textinput.New()
	in.Placeholder = "TRANSMIT A THOUGHT..."
	in.CharLimit = 2000
	in.Prompt = "> "

	purgeIn := textinput.New()
	purgeIn.CharLimit = 200

	title := textinput.New()
	title.Placeholder = "TITLE"
	title.CharLimit = 255
	tags := textinput.New()
	tags.Placeholder = "TAGS, COMMA SEPARATED"
	body := textarea.New()
	body.Placeholder = "BEGIN TRANSMISSION..."
	body.ShowLineNumbers = false
	body.CharLimit = 0

	m := Model{
		api:     o.API,
		stream:  o.Chat,
		prefs:   o.Prefs,
		log:     log,
		now:     now,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		variant: p.Theme,
		styles:  newStyles(p.Theme),
		home:    homeState{bar: progress.New(progress.WithoutPercentage())},
		chat: chatState{
			sessionID: p.SessionID,
			input:     in,
			view:      viewport.New(0, 0),
			tw:        &typewriter{},
		},
		journal: journalState{machine: purge.NewMachine(nil), input: purgeIn},
		editor:  editorState{title: title, tags: tags, body: body},
	}
	if o.NoBoot {
		m.stage = stageReady
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("JOURNAL TERMINAL"), m.ensureSession(), m.loadHistory()}
	if m.stage == stageReady {
		cmds = append(cmds, m.refreshHome())
		return tea.Batch(cmds...)
	}
	return tea.Batch(append(cmds, startBoot(m.bootSeq, boot.Splash()))...)
}

// Tab reports the active tab.
func (m Model) Tab() Tab { return m.tab }

// inputFocused reports whether a text field currently owns the keyboard.
func (m Model) inputFocused() bool {
	switch m.tab {
	case TabChat:
		return m.chat.input.Focused()
	case TabNewEntry:
		return true
	case TabJournal:
		ph := m.journal.machine.Phase()
		return ph == purge.PhaseTyping || ph == purge.PhaseLastWords
	}
	return false
}
