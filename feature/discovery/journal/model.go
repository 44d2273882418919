package journal

import "time"

// Run statuses as recorded in the journal.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
	// StatusSuspendedSource marks a run aborted because the discovery
	// source rejected our credentials.
	StatusSuspendedSource = "suspended_source"
	// StatusSuspendedTarget marks a run aborted because the catalog
	// rejected our token.
	StatusSuspendedTarget = "suspended_target"
)

// Run is one journal entry for a synchronization run.
type Run struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	Account         string     `gorm:"size:128;index" json:"account"`
	Status          string     `gorm:"size:32" json:"status"`
	StartedAt       time.Time  `json:"startedAt"`
	EndedAt         *time.Time `json:"endedAt,omitempty"`
	DurationSeconds float64    `json:"durationSeconds"`
	UploadTotal     int        `json:"uploadTotal"`
	ErrorTotal      int        `json:"errorTotal"`
	// Summary is the run result as JSON, truncated when it exceeds the
	// journal's size limit.
	Summary string `gorm:"type:text" json:"summary,omitempty"`
	// SummaryObject points at the archived full summary in object storage
	// when Summary was truncated.
	SummaryObject string `gorm:"size:255" json:"summaryObject,omitempty"`
}

// TableName implements the gorm naming override.
func (Run) TableName() string {
	return "sync_runs"
}
