package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/model"
)

const progressBarWidth = 30

func (m *Model) viewWorkflow() string {
	snap := m.wf.Snapshot()
	var b strings.Builder

	head := m.styles.Header.Render("Workflow")
	if snap.Template != "" {
		head += m.styles.HeaderStat.Render(snap.Template)
	}
	if snap.IsLoading {
		head += m.styles.HeaderStat.Render("loading")
	}
	b.WriteString(head)
	b.WriteString("\n")

	if snap.Err != "" {
		b.WriteString(m.styles.ErrorLine.Render(snap.Err))
		b.WriteString("\n")
	}

	if snap.Progress != nil {
		b.WriteString(m.viewProgress(snap.Progress))
		b.WriteString("\n")
	}

	for i, s := range snap.Steps {
		b.WriteString(m.viewStep(s, i == m.wfCursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.mode == modeBlockNotes {
		b.WriteString(m.styles.Input.Render("Notes: " + m.notesInput.View()))
		b.WriteString("\n")
		b.WriteString(m.helpLine("enter", "block", "esc", "cancel"))
	} else {
		b.WriteString(m.helpLine(
			"j/k", "step", "s", "start", "c", "complete", "b", "block",
			"r", "reload", "esc", "board", "q", "quit",
		))
	}
	return b.String()
}

func (m *Model) viewProgress(p *model.WorkflowProgress) string {
	filled := p.PercentComplete * progressBarWidth / 100
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	bar := m.styles.StepDone.Render(strings.Repeat("█", filled)) +
		m.styles.StepPending.Render(strings.Repeat("░", progressBarWidth-filled))

	track := m.styles.StepDone.Render("on track")
	if !p.IsOnTrack {
		track = m.styles.StepBlocked.Render("off track")
	}

	line := fmt.Sprintf("%s %3d%%  %d/%d steps  %s",
		bar, p.PercentComplete, p.CompletedSteps, p.TotalSteps, track)
	if p.EstimatedCompletionDate != nil {
		line += m.styles.HeaderStat.Render("est " + p.EstimatedCompletionDate.Format("2006-01-02"))
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(line)
}

func (m *Model) viewStep(s model.WorkflowStep, selected bool) string {
	var marker string
	style := m.styles.StepPending
	switch s.Status {
	case consts.StepStatusCompleted:
		marker, style = "✓", m.styles.StepDone
	case consts.StepStatusInProgress:
		marker, style = "▸", m.styles.StepCurrent
	case consts.StepStatusBlocked:
		marker, style = "✗", m.styles.StepBlocked
	default:
		marker = "·"
	}

	line := fmt.Sprintf("%s %d. %s", marker, s.StepOrder, s.Name)
	if s.AssignedToID != nil {
		line += m.styles.HeaderStat.Render("@" + *s.AssignedToID)
	}
	if s.Status == consts.StepStatusBlocked && s.Notes != "" {
		line += "\n    " + m.styles.StepBlocked.Render(truncate(s.Notes, 60))
	}

	rendered := style.Render(line)
	if selected {
		return m.styles.CardSelected.Render(rendered)
	}
	return m.styles.Card.Render(rendered)
}
