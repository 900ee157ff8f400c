package retention

import (
	"context"
	"log/slog"
)

// LabelRemover is the one store operation the executor needs. Removal is
// idempotent on the store side: stripping a label that is already gone
// succeeds.
type LabelRemover interface {
	RemoveLabel(ctx context.Context, secretID, versionID, label string) error
}

// Result records the outcome of one removal. Err is nil on success and
// ctx.Err() for entries skipped after cancellation.
type Result struct {
	Removal
	Err error
}

// Failed reports whether any removal in results did not succeed.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// Execute applies a plan against the store, best effort. Removals are
// independent of one another, so one failure never blocks the rest; every
// entry gets a per-item result. Cancelling ctx stops further calls from
// being issued, with the remaining entries reported as failed with ctx.Err().
//
// Callers should re-fetch the label map afterwards to observe the new state;
// partial completion is safe and re-plannable.
func Execute(ctx context.Context, remover LabelRemover, secretID string, plan *Plan) []Result {
	logger := slog.Default().With("component", "retention.executor")
	results := make([]Result, 0, len(plan.Removals))

	for _, r := range plan.Removals {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Removal: r, Err: err})
			continue
		}

		err := remover.RemoveLabel(ctx, secretID, r.VersionID, r.Label)
		if err != nil {
			logger.Warn("failed to remove label",
				"version", r.VersionID,
				"label", r.Label,
				"error", err,
			)
		} else {
			logger.Debug("removed label",
				"version", r.VersionID,
				"label", r.Label,
			)
		}
		results = append(results, Result{Removal: r, Err: err})
	}

	return results
}
