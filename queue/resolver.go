package queue

import (
	"context"
	"log/slog"
)

// AutoResolve accepts the top-ranked candidate of every selection as it
// appears, for headless runs (Lambda, tests) where no human is available.
// Runs until ctx is cancelled.
func AutoResolve(ctx context.Context, q *Queue) {
	for {
		sel, err := q.AwaitCurrent(ctx)
		if err != nil {
			return
		}

		if len(sel.Candidates) == 0 {
			if err := q.Skip(); err != nil {
				slog.Error("QUEUE: Auto-skip failed", "error", err)
			}
			continue
		}

		top := sel.Candidates[0]
		slog.Info("QUEUE: Auto-resolving selection",
			"food", sel.Suggested.Name,
			"choice", top.Description,
			"confidence", sel.Scores[0],
		)
		if err := q.Resolve(&top); err != nil {
			slog.Error("QUEUE: Auto-resolve failed", "error", err)
		}
	}
}
