package archive

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store used to run the shared store contract
// without a database. Results are stored encoded so callers cannot mutate
// archived state.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]memoryRun
}

type memoryRun struct {
	rec     RunRecord
	payload []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]memoryRun)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, rec RunRecord) error {
	if rec.ID == "" {
		return errors.New("run id is required")
	}
	payload, err := encodeResult(rec.Result)
	if err != nil {
		return fmt.Errorf("encode run %s: %w", rec.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return errors.New("store is not initialized")
	}

	rec.Result = nil
	s.runs[rec.ID] = memoryRun{rec: rec, payload: payload}
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (RunRecord, bool, error) {
	s.mu.RLock()
	run, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		return RunRecord{}, false, nil
	}

	result, err := decodeResult(run.payload)
	if err != nil {
		return RunRecord{}, false, fmt.Errorf("decode run %s: %w", id, err)
	}
	rec := run.rec
	rec.Result = result
	return rec, true, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, run.rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
