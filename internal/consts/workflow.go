package consts

type StepStatus string

const (
	StepStatusNotStarted StepStatus = "not_started"
	StepStatusInProgress StepStatus = "in_progress"
	StepStatusCompleted  StepStatus = "completed"
	StepStatusBlocked    StepStatus = "blocked"
)

func (s StepStatus) Valid() bool {
	switch s {
	case StepStatusNotStarted, StepStatusInProgress, StepStatusCompleted, StepStatusBlocked:
		return true
	}
	return false
}

// AllStepStatuses lists every step bucket in progress-summary order.
var AllStepStatuses = []StepStatus{
	StepStatusNotStarted,
	StepStatusInProgress,
	StepStatusCompleted,
	StepStatusBlocked,
}

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}
