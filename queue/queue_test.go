package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriplan"
)

func newSelection(name string) *PendingSelection {
	return NewPendingSelection(
		nutriplan.SuggestedFood{Name: name, GramWeight: 100},
		[]nutriplan.ReferenceFood{{FDCID: 1, Description: name + " raw"}},
		[]float64{0.5},
		"",
	)
}

func TestEnqueueShowsFirstImmediately(t *testing.T) {
	q := New()
	assert.Nil(t, q.Current())
	assert.Equal(t, 0, q.Len())

	first := newSelection("chicken")
	q.Enqueue(first)
	assert.Same(t, first, q.Current())

	second := newSelection("rice")
	q.Enqueue(second)
	assert.Same(t, first, q.Current(), "second enqueue must not replace the showing item")
	assert.Equal(t, 2, q.Len())
}

func TestResolveInEnqueueOrderExactlyOnce(t *testing.T) {
	q := New()
	const n = 5

	sels := make([]*PendingSelection, n)
	for i := range sels {
		sels[i] = newSelection(string(rune('a' + i)))
		q.Enqueue(sels[i])
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// collect resolutions from the generation side
	var wg sync.WaitGroup
	order := make([]int, 0, n)
	var mu sync.Mutex
	for i, sel := range sels {
		wg.Add(1)
		go func(i int, sel *PendingSelection) {
			defer wg.Done()
			r, err := sel.Await(ctx)
			assert.NoError(t, err)
			assert.NotNil(t, r.Choice)
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}(i, sel)
	}

	for i := 0; i < n; i++ {
		cur := q.Current()
		require.Same(t, sels[i], cur, "selections must show in enqueue order")
		choice := cur.Candidates[0]
		require.NoError(t, q.Resolve(&choice))
	}

	wg.Wait()
	assert.Nil(t, q.Current())
	assert.Equal(t, 0, q.Len())
	assert.Len(t, order, n)
}

func TestResolveWithoutCurrent(t *testing.T) {
	q := New()
	assert.ErrorIs(t, q.Resolve(nil), nutriplan.ErrNoCurrentSelection)
	assert.ErrorIs(t, q.Skip(), nutriplan.ErrNoCurrentSelection)
}

func TestSkipMarksSkipped(t *testing.T) {
	q := New()
	sel := newSelection("tofu")
	q.Enqueue(sel)
	require.NoError(t, q.Skip())

	r, err := sel.Await(context.Background())
	require.NoError(t, err)
	assert.True(t, r.Skipped)
	assert.Nil(t, r.Choice)
}

func TestDeliverExactlyOnce(t *testing.T) {
	q := New()
	a := newSelection("a")
	b := newSelection("b")
	q.Enqueue(a)
	q.Enqueue(b)

	require.NoError(t, q.Skip()) // resolves a, shows b
	require.NoError(t, q.Skip()) // resolves b

	// a was delivered exactly once: its buffered channel holds one value
	r, err := a.Await(context.Background())
	require.NoError(t, err)
	assert.True(t, r.Skipped)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = a.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "second await must not receive a second delivery")
}

func TestClearAbortsEverything(t *testing.T) {
	q := New()
	sels := []*PendingSelection{newSelection("a"), newSelection("b"), newSelection("c")}
	for _, s := range sels {
		q.Enqueue(s)
	}

	q.Clear()
	assert.Nil(t, q.Current())
	assert.Equal(t, 0, q.Len())

	for _, s := range sels {
		r, err := s.Await(context.Background())
		require.NoError(t, err)
		assert.True(t, r.Aborted)
	}
}

func TestConcurrentEnqueueAndResolve(t *testing.T) {
	q := New()
	const n = 50

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go AutoResolve(ctx, q)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sel := newSelection("food")
			q.Enqueue(sel)
			r, err := sel.Await(ctx)
			assert.NoError(t, err)
			assert.NotNil(t, r.Choice)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, q.Len())
}

func TestAwaitCurrentBlocksUntilEnqueue(t *testing.T) {
	q := New()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got := make(chan *PendingSelection, 1)
	go func() {
		sel, err := q.AwaitCurrent(ctx)
		if err == nil {
			got <- sel
		}
	}()

	time.Sleep(20 * time.Millisecond)
	sel := newSelection("beans")
	q.Enqueue(sel)

	select {
	case cur := <-got:
		assert.Same(t, sel, cur)
	case <-ctx.Done():
		t.Fatal("AwaitCurrent did not observe the enqueued selection")
	}
}
