// Package archive persists finished runs keyed by a generated run ID.
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/inference-sim/evolve-sandbox/sandbox"
)

// RunRecord is one archived run.
type RunRecord struct {
	ID        string
	Benchmark string
	Seed      int64
	Steps     int
	CreatedAt time.Time
	Result    *sandbox.RunResult
}

// Store defines persistence operations for archived runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, rec RunRecord) error
	GetRun(ctx context.Context, id string) (RunRecord, bool, error)
	// ListRuns returns archived runs oldest first. Results are not populated.
	ListRuns(ctx context.Context) ([]RunRecord, error)
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// CloseIfSupported closes stores that hold external resources.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
