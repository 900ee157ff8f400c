// Package retention decides which staging labels to strip from old secret
// versions so a secret stays under the Secrets Manager limit of 20 labels.
//
// Planning is a pure computation over a snapshot of the secret's
// version/label map. The planner never touches the AWSCURRENT and
// AWSPREVIOUS labels, and it never touches labels it does not recognize as
// rotation-history timestamps: those belong to other tooling. Applying a
// plan is a separate, best-effort step (see Execute).
package retention

import (
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// Policy governs how many rotation-history labels survive a cleanup pass.
type Policy struct {
	// KeepCount is the number of most recent timestamp labels to retain
	// unconditionally.
	KeepCount int

	// KeepDays exempts labels younger than this many days from cleanup.
	// 0 disables the age exemption.
	KeepDays int

	// Strict ignores KeepDays entirely: everything beyond KeepCount is
	// removed regardless of age.
	Strict bool
}

// Validate rejects policies the planner will not accept. Values are never
// clamped; a negative count is a caller bug worth surfacing.
func (p Policy) Validate() error {
	if p.KeepCount < 0 {
		return fmt.Errorf("keep count must be non-negative, got %d", p.KeepCount)
	}
	if p.KeepDays < 0 {
		return fmt.Errorf("keep days must be non-negative, got %d", p.KeepDays)
	}
	return nil
}

// LabelMap is a read-only snapshot of a secret's versions and their staging
// labels, keyed by version id. The store guarantees a label is attached to
// at most one version.
type LabelMap map[string][]string

// Removal identifies one staging label to strip from one version.
type Removal struct {
	VersionID string
	Label     string
}

// Plan is the outcome of one planning pass: the labels to remove, and the
// versions that end up with no labels at all. Unlabeled versions are
// unreachable through normal retrieval and are reclaimed by Secrets Manager
// on its own schedule.
type Plan struct {
	Removals  []Removal
	Unlabeled []string
}

// Empty reports whether the plan calls for no action.
func (p *Plan) Empty() bool {
	return len(p.Removals) == 0 && len(p.Unlabeled) == 0
}

// candidate is one timestamp label under consideration, with its parse.
type candidate struct {
	versionID string
	label     string
	ts        time.Time
}

// PlanCleanup computes a cleanup plan for the given snapshot under the given
// policy. now is injected rather than read from the clock so the KeepDays
// window is testable.
//
// Versions carrying AWSCURRENT or AWSPREVIOUS are excluded from every part
// of the plan, even when they also carry timestamp labels. Versions with no
// labels are always reported in Unlabeled. Labels that are neither reserved
// nor parseable timestamps are foreign and never appear in the plan.
func PlanCleanup(labels LabelMap, policy Policy, now time.Time) (*Plan, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	plan := &Plan{}
	var candidates []candidate

	// Iterate versions in a fixed order so plans are deterministic; map
	// iteration order is not.
	versionIDs := make([]string, 0, len(labels))
	for id := range labels {
		versionIDs = append(versionIDs, id)
	}
	sort.Strings(versionIDs)

	for _, id := range versionIDs {
		versionLabels := labels[id]

		if len(versionLabels) == 0 {
			plan.Unlabeled = append(plan.Unlabeled, id)
			continue
		}

		reserved := false
		for _, l := range versionLabels {
			if IsReserved(l) {
				reserved = true
				break
			}
		}
		if reserved {
			continue
		}

		for _, l := range versionLabels {
			ts, err := ParseTimestamp(l)
			if err != nil {
				slog.Debug("skipping foreign label",
					"component", "retention",
					"version", id,
					"label", l,
				)
				continue
			}
			candidates = append(candidates, candidate{versionID: id, label: l, ts: ts})
		}
	}

	// Newest first. The earlier sort by version id makes tie order stable;
	// order among exact timestamp ties carries no meaning.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ts.After(candidates[j].ts)
	})

	if len(candidates) <= policy.KeepCount {
		return plan, nil
	}
	expired := candidates[policy.KeepCount:]

	cutoff := now.AddDate(0, 0, -policy.KeepDays)
	removedByVersion := make(map[string]int)

	for _, c := range expired {
		// A lenient policy spares anything still inside the retention
		// window; strict cleans by count alone.
		if !policy.Strict && policy.KeepDays > 0 && c.ts.After(cutoff) {
			continue
		}

		plan.Removals = append(plan.Removals, Removal{VersionID: c.versionID, Label: c.label})
		removedByVersion[c.versionID]++
	}

	// A version becomes unlabeled only when this plan strips every label it
	// has. Partially cleaned versions converge on a later pass.
	for id, removed := range removedByVersion {
		if removed == len(labels[id]) {
			plan.Unlabeled = append(plan.Unlabeled, id)
		}
	}
	sort.Strings(plan.Unlabeled)

	return plan, nil
}
