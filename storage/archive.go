// Package storage persists finished meal plans. Archives are keyed by plan
// ID; saving the same plan twice overwrites the earlier copy.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"nutriplan"
)

// FileArchive writes each plan as pretty-printed JSON under a directory.
type FileArchive struct {
	Dir string
}

func NewFileArchive(dir string) *FileArchive {
	return &FileArchive{Dir: dir}
}

func (a *FileArchive) Save(_ context.Context, plan *nutriplan.MultiDayMealPlan) error {
	if plan == nil || plan.ID == "" {
		return fmt.Errorf("cannot archive plan without an ID")
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("encode plan %s: %w", plan.ID, err)
	}

	path := filepath.Join(a.Dir, plan.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write plan %s: %w", plan.ID, err)
	}
	return nil
}

// Load reads a previously archived plan back by ID.
func (a *FileArchive) Load(_ context.Context, id string) (*nutriplan.MultiDayMealPlan, error) {
	data, err := os.ReadFile(filepath.Join(a.Dir, id+".json"))
	if err != nil {
		return nil, fmt.Errorf("read plan %s: %w", id, err)
	}
	var plan nutriplan.MultiDayMealPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("decode plan %s: %w", id, err)
	}
	return &plan, nil
}

// TestArchive is a simple in-memory implementation for testing
type TestArchive struct {
	mu    sync.Mutex
	plans map[string]*nutriplan.MultiDayMealPlan
	err   error
}

func NewTestArchive() *TestArchive {
	return &TestArchive{plans: make(map[string]*nutriplan.MultiDayMealPlan)}
}

func NewTestArchiveWithError(err error) *TestArchive {
	return &TestArchive{err: err}
}

func (t *TestArchive) Save(_ context.Context, plan *nutriplan.MultiDayMealPlan) error {
	if t.err != nil {
		return t.err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.plans[plan.ID] = plan
	return nil
}

func (t *TestArchive) Get(id string) (*nutriplan.MultiDayMealPlan, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.plans[id]
	return p, ok
}
