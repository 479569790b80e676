package planner

import "sync/atomic"

// Progress exposes meals-completed counters to a status display. Updated
// by the generation task, read from anywhere; observers see prompt but
// not mutually ordered updates.
type Progress struct {
	completed atomic.Int64
	total     atomic.Int64
}

func (p *Progress) reset(total int) {
	p.completed.Store(0)
	p.total.Store(int64(total))
}

func (p *Progress) complete() {
	p.completed.Add(1)
}

// Snapshot returns meals completed so far and the run's total.
func (p *Progress) Snapshot() (completed, total int) {
	return int(p.completed.Load()), int(p.total.Load())
}
