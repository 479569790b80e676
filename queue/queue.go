// Package queue is the waiting room for ambiguous food matches that need a
// human decision. At most one selection is ever in front of the user; the
// rest wait in FIFO order. Resolution is delivered through an explicit
// token (the PendingSelection itself) rather than captured callbacks, so
// the generation task simply blocks on Await and resumes when the
// interaction surface decides.
package queue

import (
	"context"
	"sync"

	"nutriplan"
)

// Resolution is the human decision for one pending selection. A nil Choice
// with Skipped set means "use the model estimate, mark unverified".
// Aborted resolutions come from Clear during cancellation.
type Resolution struct {
	Choice  *nutriplan.ReferenceFood
	Skipped bool
	Aborted bool
}

// PendingSelection is one ambiguous food awaiting a decision, with its
// candidates ordered by descending confidence and parallel scores.
type PendingSelection struct {
	Suggested  nutriplan.SuggestedFood
	Candidates []nutriplan.ReferenceFood
	Scores     []float64
	Translated string

	once sync.Once
	done chan Resolution
}

func NewPendingSelection(suggested nutriplan.SuggestedFood, candidates []nutriplan.ReferenceFood, scores []float64, translated string) *PendingSelection {
	return &PendingSelection{
		Suggested:  suggested,
		Candidates: candidates,
		Scores:     scores,
		Translated: translated,
		done:       make(chan Resolution, 1),
	}
}

// deliver fires at most once per selection, on whichever goroutine
// performs the resolution.
func (s *PendingSelection) deliver(r Resolution) {
	s.once.Do(func() { s.done <- r })
}

// Await blocks until the selection is resolved, skipped, or aborted, or
// until ctx is done.
func (s *PendingSelection) Await(ctx context.Context) (Resolution, error) {
	select {
	case r := <-s.done:
		return r, nil
	case <-ctx.Done():
		return Resolution{}, ctx.Err()
	}
}

// Queue holds pending selections. Safe for a generation goroutine to
// enqueue while the interaction surface resolves or skips.
type Queue struct {
	mu      sync.Mutex
	current *PendingSelection
	waiting []*PendingSelection
	ready   chan struct{}
}

func New() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Enqueue appends a selection. If nothing is currently showing, this
// selection is shown immediately.
func (q *Queue) Enqueue(sel *PendingSelection) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.current == nil {
		q.current = sel
		q.signal()
		return
	}
	q.waiting = append(q.waiting, sel)
}

// Current returns the selection in front of the user, or nil.
func (q *Queue) Current() *PendingSelection {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.current
}

// Len returns the number of selections held, including the current one.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == nil {
		return 0
	}
	return 1 + len(q.waiting)
}

// AwaitCurrent blocks until a selection is showing, then returns it.
func (q *Queue) AwaitCurrent(ctx context.Context) (*PendingSelection, error) {
	for {
		q.mu.Lock()
		cur := q.current
		q.mu.Unlock()
		if cur != nil {
			return cur, nil
		}

		select {
		case <-q.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Resolve delivers the user's choice for the current selection (nil means
// an explicit "no match") and shows the next waiting item, if any.
func (q *Queue) Resolve(choice *nutriplan.ReferenceFood) error {
	sel, err := q.advance()
	if err != nil {
		return err
	}
	sel.deliver(Resolution{Choice: choice, Skipped: choice == nil})
	return nil
}

// Skip resolves the current selection as "use the model estimate" and
// advances exactly as Resolve does.
func (q *Queue) Skip() error {
	sel, err := q.advance()
	if err != nil {
		return err
	}
	sel.deliver(Resolution{Skipped: true})
	return nil
}

// Clear empties the queue, aborting every held selection so awaiting
// goroutines unblock. Used on cancellation.
func (q *Queue) Clear() {
	q.mu.Lock()
	held := q.waiting
	if q.current != nil {
		held = append([]*PendingSelection{q.current}, held...)
	}
	q.current = nil
	q.waiting = nil
	q.mu.Unlock()

	for _, sel := range held {
		sel.deliver(Resolution{Aborted: true})
	}
}

func (q *Queue) advance() (*PendingSelection, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.current == nil {
		return nil, nutriplan.ErrNoCurrentSelection
	}

	sel := q.current
	if len(q.waiting) > 0 {
		q.current = q.waiting[0]
		q.waiting = q.waiting[1:]
		q.signal()
	} else {
		q.current = nil
	}
	return sel, nil
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
