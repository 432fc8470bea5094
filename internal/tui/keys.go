package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Place    key.Binding
	Palette  key.Binding
	Remove   key.Binding
	Cancel   key.Binding
	More     key.Binding
	Fewer    key.Binding
	Confirm  key.Binding
	Clear    key.Binding
	Run      key.Binding
	Save     key.Binding
	Preview  key.Binding
	ShowJSON key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "qubit up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "qubit down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "column left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "column right")),
		Place:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "drop gate / pick target")),
		Palette:  key.NewBinding(key.WithKeys("a", " "), key.WithHelp("a", "gate palette")),
		Remove:   key.NewBinding(key.WithKeys("backspace", "delete", "x"), key.WithHelp("bksp", "remove gate")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		More:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more qubits")),
		Fewer:    key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "fewer qubits")),
		Confirm:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "confirm qubits")),
		Clear:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("^R", "clear")),
		Run:      key.NewBinding(key.WithKeys("r", "ctrl+e"), key.WithHelp("r", "run")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^S", "save")),
		Preview:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus preview")),
		ShowJSON: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "QASM/JSON")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Palette, k.Place, k.Remove, k.Run, k.Save, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Palette, k.Place, k.Remove, k.Cancel},
		{k.More, k.Fewer, k.Confirm, k.Clear},
		{k.Run, k.Save, k.Preview, k.ShowJSON},
		{k.Help, k.Quit},
	}
}
