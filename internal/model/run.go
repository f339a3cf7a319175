package model

import "time"

// RunStatus represents the current state of an analysis run.
type RunStatus string

const (
	RunStatusQueued    RunStatus = "queued"
	RunStatusAnalyzing RunStatus = "analyzing"
	RunStatusComplete  RunStatus = "complete"
	RunStatusFailed    RunStatus = "failed"
)

// Run is the handle carried between the analysis step and the report step.
// The ID is the opaque key under which the result set is stored; runs expire
// after ExpiresAt and are garbage collected by the store.
type Run struct {
	ID        string     `json:"id"`
	Status    RunStatus  `json:"status"`
	Subject   string     `json:"subject,omitempty"` // display label: BOM filename or image filename
	Result    *ResultSet `json:"result,omitempty"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}
