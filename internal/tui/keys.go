package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Open       key.Binding
	Back       key.Binding
	Search     key.Binding
	Add        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Summary    key.Binding
	Recommend  key.Binding
	Save       key.Binding
	Versions   key.Binding
	Export     key.Binding
	Import     key.Binding
	Attributes key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:       key.NewBinding(key.WithKeys("enter", "right", "l"), key.WithHelp("enter", "select")),
		Back:       key.NewBinding(key.WithKeys("backspace", "left", "h", "esc"), key.WithHelp("⌫", "up a level")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Summary:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "summary")),
		Recommend:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recommend")),
		Save:       key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "save version")),
		Versions:   key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "versions")),
		Export:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
		Import:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		Attributes: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "card fields")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Back, k.Search, k.Add, k.Edit, k.Delete, k.Summary, k.Recommend, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Back, k.Search},
		{k.Add, k.Edit, k.Delete, k.Attributes},
		{k.Summary, k.Recommend},
		{k.Save, k.Versions, k.Export, k.Import, k.Quit},
	}
}
