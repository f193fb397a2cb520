package board

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the board's key bindings.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	MoveLeft  key.Binding
	MoveRight key.Binding

	New      key.Binding
	Delete   key.Binding
	Priority key.Binding
	Search   key.Binding

	PrevPage key.Binding
	NextPage key.Binding

	Workflow key.Binding
	Start    key.Binding
	Complete key.Binding
	Block    key.Binding

	Refresh key.Binding
	Back    key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h", "prev column")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l", "next column")),

		MoveLeft:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "move task left")),
		MoveRight: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "move task right")),

		New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete task")),
		Priority: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "cycle priority")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),

		PrevPage: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev page")),
		NextPage: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next page")),

		Workflow: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "workflow")),
		Start:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start step")),
		Complete: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete step")),
		Block:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "block step")),

		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
