package model

import (
	"time"

	"github.com/praxisware/tpflow/internal/consts"
)

// Project is one consulting engagement. Workflow steps and tasks hang off
// it via ProjectID foreign keys.
type Project struct {
	ID               string               `gorm:"primaryKey;type:char(36)" json:"id"`
	ClientID         string               `gorm:"type:char(36);index" json:"clientId,omitempty"`
	ProjectName      string               `gorm:"type:varchar(255);not null" json:"projectName"`
	Description      string               `gorm:"type:text" json:"description,omitempty"`
	DeliverableType  string               `gorm:"type:varchar(64)" json:"deliverableType,omitempty"`
	Status           consts.ProjectStatus `gorm:"type:varchar(32);not null;index" json:"status"`
	Priority         consts.TaskPriority  `gorm:"type:varchar(32);not null" json:"priority"`
	StartDate        *time.Time           `json:"startDate,omitempty"`
	Deadline         *time.Time           `json:"deadline,omitempty"`
	Budget           *float64             `json:"budget,omitempty"`
	ProjectManagerID *string              `gorm:"type:char(36)" json:"projectManagerId,omitempty"`
	Version          int                  `gorm:"not null;default:1" json:"version"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

func (Project) TableName() string { return "projects" }

// ProjectFilters provides optional list query conditions.
type ProjectFilters struct {
	Status   string
	ClientID string
	Search   string
}
