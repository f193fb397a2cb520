package board

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/praxisware/tpflow/internal/consts"
)

// Theme is the board's color scheme.
type Theme struct {
	Name string

	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// Slate is the default theme.
var Slate = Theme{
	Name: "Slate",

	Foreground:    lipgloss.Color("#cdd6f4"),
	ForegroundDim: lipgloss.Color("#6c7086"),

	Primary:   lipgloss.Color("#89b4fa"),
	Secondary: lipgloss.Color("#cba6f7"),

	Success: lipgloss.Color("#a6e3a1"),
	Warning: lipgloss.Color("#f9e2af"),
	Error:   lipgloss.Color("#f38ba8"),

	Border:      lipgloss.Color("#45475a"),
	BorderFocus: lipgloss.Color("#89b4fa"),
	Selection:   lipgloss.Color("#313244"),
}

// Styles holds the pre-computed lipgloss styles for the board.
type Styles struct {
	Header     lipgloss.Style
	HeaderStat lipgloss.Style
	ErrorLine  lipgloss.Style

	Column       lipgloss.Style
	ColumnActive lipgloss.Style
	ColumnTitle  lipgloss.Style
	ColumnCount  lipgloss.Style

	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardDue      lipgloss.Style
	CardOverdue  lipgloss.Style

	Input lipgloss.Style

	StepDone    lipgloss.Style
	StepCurrent lipgloss.Style
	StepBlocked lipgloss.Style
	StepPending lipgloss.Style

	StatusBar lipgloss.Style
	HelpKey   lipgloss.Style
	HelpDesc  lipgloss.Style
}

func NewStyles() *Styles {
	t := Slate

	return &Styles{
		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		HeaderStat: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		ErrorLine: lipgloss.NewStyle().
			Foreground(t.Error).
			Padding(0, 1),

		Column: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		ColumnActive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		ColumnTitle: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Bold(true),

		ColumnCount: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Card: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		CardSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 1).
			Bold(true),

		CardDue: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		CardOverdue: lipgloss.NewStyle().
			Foreground(t.Error),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		StepDone: lipgloss.NewStyle().
			Foreground(t.Success),

		StepCurrent: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		StepBlocked: lipgloss.NewStyle().
			Foreground(t.Error),

		StepPending: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),
	}
}

// PriorityMarker returns the single-character badge shown on a card.
func (s *Styles) PriorityMarker(p consts.TaskPriority) string {
	t := Slate
	switch p {
	case consts.TaskPriorityUrgent:
		return lipgloss.NewStyle().Foreground(t.Error).Bold(true).Render("!!")
	case consts.TaskPriorityHigh:
		return lipgloss.NewStyle().Foreground(t.Warning).Render("! ")
	case consts.TaskPriorityLow:
		return lipgloss.NewStyle().Foreground(t.ForegroundDim).Render("- ")
	default:
		return "  "
	}
}
