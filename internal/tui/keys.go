package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Home     key.Binding
	Chat     key.Binding
	Journal  key.Binding
	NewEntry key.Binding
	Index    key.Binding
	Insights key.Binding
	Theme    key.Binding
	Help     key.Binding
	Close    key.Binding
	Quit     key.Binding

	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Enter  key.Binding
	Save   key.Binding
	Toggle key.Binding
	Purge  key.Binding
	Method key.Binding
	Edit   key.Binding
	Delete key.Binding
	Image  key.Binding
	Queue  key.Binding
	More   key.Binding
	Less   key.Binding
	Reload key.Binding
	Next   key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Home, k.Chat, k.Journal, k.NewEntry, k.Index, k.Insights, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Home, k.Chat, k.Journal, k.NewEntry, k.Index, k.Insights},
		{k.Theme, k.Help, k.Close, k.Quit, k.Reload},
		{k.Up, k.Down, k.Enter, k.Edit, k.Delete},
		{k.Toggle, k.Method, k.Purge},
		{k.Save, k.Next, k.Queue, k.More, k.Less, k.Image},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Home:     key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "home")),
		Chat:     key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "chat")),
		Journal:  key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "journal")),
		NewEntry: key.NewBinding(key.WithKeys("f4"), key.WithHelp("F4", "new entry")),
		Index:    key.NewBinding(key.WithKeys("f5"), key.WithHelp("F5", "index")),
		Insights: key.NewBinding(key.WithKeys("f6"), key.WithHelp("F6", "insights")),
		Theme:    key.NewBinding(key.WithKeys("t", "T"), key.WithHelp("T", "cycle theme")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/send")),
		Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save / finish chat")),
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "mark for purge")),
		Purge:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "initiate purge")),
		Method: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "purge method")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit entry")),
		Delete: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete entry")),
		Image:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "render monitor")),
		Queue:  key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "summarize in background")),
		More:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "raise goal")),
		Less:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "lower goal")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	}
}
