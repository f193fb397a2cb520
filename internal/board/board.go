// Package board is the terminal kanban front end. It renders the cached
// task page as one column per status and drives every mutation through
// the sync layer, so the UI never talks to the API directly.
package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/model"
	"github.com/praxisware/tpflow/internal/sync"
)

type mode int

const (
	modeBoard mode = iota
	modeSearch
	modeNewTask
	modeConfirmDelete
	modeWorkflow
	modeBlockNotes
)

// storeChangedMsg is emitted whenever the sync layer commits new state.
type storeChangedMsg struct{}

// Model is the bubbletea model for the kanban board.
type Model struct {
	ctx       context.Context
	store     *sync.TaskStore
	wf        *sync.WorkflowView
	projectID string

	changes chan struct{}

	styles *Styles
	keys   KeyMap

	searchInput textinput.Model
	titleInput  textinput.Model
	notesInput  textinput.Model

	width  int
	height int

	mode      mode
	activeCol int
	cursors   [len(columnOrder)]int
	wfCursor  int

	deleteID    string
	deleteTitle string
	blockStepID string

	quitting bool
}

// columnOrder fixes the left-to-right column layout.
var columnOrder = [...]consts.TaskStatus{
	consts.TaskStatusTodo,
	consts.TaskStatusInProgress,
	consts.TaskStatusReview,
	consts.TaskStatusCompleted,
	consts.TaskStatusBlocked,
}

var columnLabels = map[consts.TaskStatus]string{
	consts.TaskStatusTodo:       "To Do",
	consts.TaskStatusInProgress: "In Progress",
	consts.TaskStatusReview:     "Review",
	consts.TaskStatusCompleted:  "Completed",
	consts.TaskStatusBlocked:    "Blocked",
}

// New builds the board model. wf may be nil when the board is not scoped
// to a single project.
func New(ctx context.Context, store *sync.TaskStore, wf *sync.WorkflowView, projectID string) *Model {
	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100

	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 255

	notes := textinput.New()
	notes.Placeholder = "Blocker notes"
	notes.CharLimit = 500

	m := &Model{
		ctx:         ctx,
		store:       store,
		wf:          wf,
		projectID:   projectID,
		changes:     make(chan struct{}, 1),
		styles:      NewStyles(),
		keys:        DefaultKeyMap(),
		searchInput: search,
		titleInput:  title,
		notesInput:  notes,
	}

	notifyFn := func() {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	}
	store.OnChange = notifyFn
	if wf != nil {
		wf.OnChange = notifyFn
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.listenChanges(), m.initialLoad())
}

// listenChanges blocks on the change channel and converts each signal
// into a message. Update re-arms it after every delivery.
func (m *Model) listenChanges() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return storeChangedMsg{}
	}
}

func (m *Model) initialLoad() tea.Cmd {
	return func() tea.Msg {
		m.store.Load(m.ctx, true)
		m.store.LoadStats(m.ctx)
		return nil
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case storeChangedMsg:
		m.clampCursors()
		return m, m.listenChanges()

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeNewTask:
			return m.updateNewTask(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modeWorkflow:
			return m.updateWorkflow(msg)
		case modeBlockNotes:
			return m.updateBlockNotes(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m *Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Left):
		if m.activeCol > 0 {
			m.activeCol--
		}

	case key.Matches(msg, m.keys.Right):
		if m.activeCol < len(columnOrder)-1 {
			m.activeCol++
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursors[m.activeCol] > 0 {
			m.cursors[m.activeCol]--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursors[m.activeCol] < len(m.columns()[m.activeCol])-1 {
			m.cursors[m.activeCol]++
		}

	case key.Matches(msg, m.keys.MoveLeft):
		if t := m.selectedTask(); t != nil && m.activeCol > 0 {
			return m, m.moveTask(t.ID, columnOrder[m.activeCol-1])
		}

	case key.Matches(msg, m.keys.MoveRight):
		if t := m.selectedTask(); t != nil && m.activeCol < len(columnOrder)-1 {
			return m, m.moveTask(t.ID, columnOrder[m.activeCol+1])
		}

	case key.Matches(msg, m.keys.New):
		m.mode = modeNewTask
		m.titleInput.SetValue("")
		m.titleInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		if t := m.selectedTask(); t != nil {
			m.mode = modeConfirmDelete
			m.deleteID = t.ID
			m.deleteTitle = t.Title
		}

	case key.Matches(msg, m.keys.Priority):
		if t := m.selectedTask(); t != nil {
			next := nextPriority(t.Priority)
			id := t.ID
			return m, func() tea.Msg {
				m.store.UpdatePriority(m.ctx, id, next)
				return nil
			}
		}

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.SetValue(m.store.Snapshot().Filters.Search)
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.PrevPage):
		return m, func() tea.Msg { m.store.PrevPage(m.ctx); return nil }

	case key.Matches(msg, m.keys.NextPage):
		return m, func() tea.Msg { m.store.NextPage(m.ctx); return nil }

	case key.Matches(msg, m.keys.Workflow):
		if m.wf != nil {
			m.mode = modeWorkflow
			return m, func() tea.Msg { m.wf.Load(m.ctx); return nil }
		}

	case key.Matches(msg, m.keys.Refresh):
		return m, func() tea.Msg {
			m.store.Load(m.ctx, false)
			m.store.LoadStats(m.ctx)
			return nil
		}
	}
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Confirm):
		m.mode = modeBoard
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	// The store debounces search reloads; forwarding every keystroke is
	// intentional.
	v := m.searchInput.Value()
	m.store.UpdateFilters(m.ctx, sync.FilterPatch{Search: &v})
	return m, cmd
}

func (m *Model) updateNewTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeBoard
		m.titleInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		title := strings.TrimSpace(m.titleInput.Value())
		m.mode = modeBoard
		m.titleInput.Blur()
		if title == "" {
			return m, nil
		}
		t := model.Task{Title: title, Status: columnOrder[m.activeCol]}
		if m.projectID != "" {
			pid := m.projectID
			t.ProjectID = &pid
		}
		return m, func() tea.Msg {
			m.store.Create(m.ctx, t)
			return nil
		}
	}

	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

func (m *Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		id := m.deleteID
		m.mode = modeBoard
		m.deleteID = ""
		return m, func() tea.Msg {
			m.store.Delete(m.ctx, id)
			return nil
		}
	default:
		m.mode = modeBoard
		m.deleteID = ""
	}
	return m, nil
}

func (m *Model) updateWorkflow(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.wf.Snapshot()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Workflow):
		m.mode = modeBoard
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.wfCursor > 0 {
			m.wfCursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.wfCursor < len(snap.Steps)-1 {
			m.wfCursor++
		}

	case key.Matches(msg, m.keys.Start):
		if s := m.selectedStep(snap); s != nil {
			id := s.ID
			return m, func() tea.Msg {
				m.wf.StartStep(m.ctx, id)
				return nil
			}
		}

	case key.Matches(msg, m.keys.Complete):
		if s := m.selectedStep(snap); s != nil {
			id := s.ID
			return m, func() tea.Msg {
				m.wf.CompleteStep(m.ctx, id)
				return nil
			}
		}

	case key.Matches(msg, m.keys.Block):
		if s := m.selectedStep(snap); s != nil {
			m.mode = modeBlockNotes
			m.blockStepID = s.ID
			m.notesInput.SetValue("")
			m.notesInput.Focus()
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.Refresh):
		return m, func() tea.Msg { m.wf.Load(m.ctx); return nil }
	}
	return m, nil
}

func (m *Model) updateBlockNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeWorkflow
		m.notesInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		id := m.blockStepID
		notes := m.notesInput.Value()
		m.mode = modeWorkflow
		m.notesInput.Blur()
		m.blockStepID = ""
		return m, func() tea.Msg {
			m.wf.BlockStep(m.ctx, id, notes)
			return nil
		}
	}

	var cmd tea.Cmd
	m.notesInput, cmd = m.notesInput.Update(msg)
	return m, cmd
}

// columns groups the current page by status in fixed column order.
func (m *Model) columns() [len(columnOrder)][]model.Task {
	var cols [len(columnOrder)][]model.Task
	idx := make(map[consts.TaskStatus]int, len(columnOrder))
	for i, st := range columnOrder {
		idx[st] = i
	}
	for _, t := range m.store.Snapshot().Tasks {
		if i, ok := idx[t.Status]; ok {
			cols[i] = append(cols[i], t)
		}
	}
	return cols
}

func (m *Model) selectedTask() *model.Task {
	col := m.columns()[m.activeCol]
	if len(col) == 0 {
		return nil
	}
	i := m.cursors[m.activeCol]
	if i >= len(col) {
		i = len(col) - 1
	}
	t := col[i]
	return &t
}

func (m *Model) selectedStep(snap sync.WorkflowSnapshot) *model.WorkflowStep {
	if len(snap.Steps) == 0 {
		return nil
	}
	i := m.wfCursor
	if i >= len(snap.Steps) {
		i = len(snap.Steps) - 1
	}
	s := snap.Steps[i]
	return &s
}

func (m *Model) clampCursors() {
	cols := m.columns()
	for i := range m.cursors {
		if n := len(cols[i]); m.cursors[i] >= n {
			m.cursors[i] = max(0, n-1)
		}
	}
}

func (m *Model) moveTask(id string, to consts.TaskStatus) tea.Cmd {
	return func() tea.Msg {
		m.store.MoveStatus(m.ctx, id, to)
		return nil
	}
}

func nextPriority(p consts.TaskPriority) consts.TaskPriority {
	for i, cur := range consts.AllTaskPriorities {
		if cur == p {
			return consts.AllTaskPriorities[(i+1)%len(consts.AllTaskPriorities)]
		}
	}
	return consts.TaskPriorityMedium
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.mode == modeWorkflow || m.mode == modeBlockNotes {
		return m.viewWorkflow()
	}
	return m.viewBoard()
}

func (m *Model) viewBoard() string {
	snap := m.store.Snapshot()
	var b strings.Builder

	b.WriteString(m.viewHeader(snap))
	b.WriteString("\n")

	switch m.mode {
	case modeSearch:
		b.WriteString(m.styles.Input.Render("/ " + m.searchInput.View()))
		b.WriteString("\n")
	case modeNewTask:
		b.WriteString(m.styles.Input.Render("New: " + m.titleInput.View()))
		b.WriteString("\n")
	}

	cols := m.columns()
	rendered := make([]string, 0, len(columnOrder))
	colWidth := m.columnWidth()
	for i, st := range columnOrder {
		rendered = append(rendered, m.viewColumn(i, st, cols[i], colWidth))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n")
	b.WriteString(m.viewFooter(snap))
	return b.String()
}

func (m *Model) viewHeader(snap sync.Snapshot) string {
	title := m.styles.Header.Render("tpflow board")

	var stat string
	if snap.Stats != nil {
		stat = fmt.Sprintf("%d tasks · %d overdue · %d due today",
			snap.Stats.Total, snap.Stats.Overdue, snap.Stats.DueToday)
	}
	if snap.IsLoading {
		stat += " · loading"
	}
	line := title + m.styles.HeaderStat.Render(stat)

	if snap.Err != "" {
		line += "\n" + m.styles.ErrorLine.Render(snap.Err)
	}
	if snap.StatsErr != "" {
		line += "\n" + m.styles.ErrorLine.Render(snap.StatsErr)
	}
	return line
}

func (m *Model) columnWidth() int {
	if m.width <= 0 {
		return 20
	}
	w := m.width/len(columnOrder) - 4
	if w < 14 {
		w = 14
	}
	return w
}

func (m *Model) viewColumn(i int, st consts.TaskStatus, tasks []model.Task, width int) string {
	var rows []string
	head := m.styles.ColumnTitle.Render(columnLabels[st]) +
		m.styles.ColumnCount.Render(fmt.Sprintf(" %d", len(tasks)))
	rows = append(rows, head)

	for j, t := range tasks {
		rows = append(rows, m.viewCard(t, width, i == m.activeCol && j == m.cursors[i]))
	}

	style := m.styles.Column
	if i == m.activeCol {
		style = m.styles.ColumnActive
	}
	return style.Width(width).Render(strings.Join(rows, "\n"))
}

func (m *Model) viewCard(t model.Task, width int, selected bool) string {
	title := truncate(t.Title, width-4)
	line := m.styles.PriorityMarker(t.Priority) + title

	if t.DueDate != nil {
		due := t.DueDate.Format("Jan 2")
		if t.Overdue(time.Now().UTC()) {
			due = m.styles.CardOverdue.Render(due)
		} else {
			due = m.styles.CardDue.Render(due)
		}
		line += "\n  " + due
	}

	if selected {
		return m.styles.CardSelected.Render(line)
	}
	return m.styles.Card.Render(line)
}

func (m *Model) viewFooter(snap sync.Snapshot) string {
	p := snap.Pagination
	pg := fmt.Sprintf("page %d/%d (%d total)", p.Page, p.TotalPages, p.Total)

	var help string
	switch m.mode {
	case modeConfirmDelete:
		help = m.styles.ErrorLine.Render(fmt.Sprintf("delete %q? y/n", truncate(m.deleteTitle, 40)))
	case modeSearch:
		help = m.helpLine("esc", "done")
	case modeNewTask:
		help = m.helpLine("enter", "create", "esc", "cancel")
	default:
		help = m.helpLine(
			"h/l", "column", "j/k", "task", "H/L", "move",
			"n", "new", "d", "del", "/", "search", "w", "workflow", "q", "quit",
		)
	}
	return m.styles.StatusBar.Render(pg) + "  " + help
}

func (m *Model) helpLine(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, m.styles.HelpKey.Render(pairs[i])+" "+m.styles.HelpDesc.Render(pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}

func truncate(s string, w int) string {
	if w <= 0 || len(s) <= w {
		return s
	}
	if w <= 1 {
		return s[:w]
	}
	return s[:w-1] + "…"
}
