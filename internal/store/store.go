// Package store persists analysis runs. The result set handed from the
// analysis step to the report step travels through here, keyed by an opaque
// run id, and expires after the configured TTL.
package store

import (
	"context"
	"time"

	"github.com/tradewatch/ipscreen/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for analysis runs.
type Store interface {
	// CreateRun registers a new run in the queued state with the given
	// expiry horizon.
	CreateRun(ctx context.Context, subject string, ttl time.Duration) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	// SetRunResult stores the result set and marks the run complete.
	SetRunResult(ctx context.Context, runID string, result *model.ResultSet) error
	// FailRun records an error message and marks the run failed.
	FailRun(ctx context.Context, runID string, message string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)
	// DeleteExpiredRuns removes runs past their expiry. Returns the count.
	DeleteExpiredRuns(ctx context.Context) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}
