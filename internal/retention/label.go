package retention

import (
	"fmt"
	"regexp"
	"time"
)

// Secrets Manager reserves these staging labels and moves them itself on
// every PutSecretValue. The planner never touches them.
const (
	LabelCurrent  = "AWSCURRENT"
	LabelPrevious = "AWSPREVIOUS"
)

// TimestampLayout is the layout of the rotation-history labels this tool
// attaches when it stores a new secret version, e.g. "20240315_142500".
// Labels are written and parsed in local time with one-second resolution.
const TimestampLayout = "20060102_150405"

var timestampPattern = regexp.MustCompile(`^\d{8}_\d{6}$`)

// IsReserved reports whether label is one of the Secrets Manager managed
// staging labels.
func IsReserved(label string) bool {
	return label == LabelCurrent || label == LabelPrevious
}

// ParseTimestamp parses a rotation-history label. Labels that do not match
// the fixed pattern, or that match it but encode an impossible date, are
// rejected; callers treat such labels as foreign and leave them alone.
func ParseTimestamp(label string) (time.Time, error) {
	if !timestampPattern.MatchString(label) {
		return time.Time{}, fmt.Errorf("label %q does not match %s", label, TimestampLayout)
	}

	ts, err := time.ParseInLocation(TimestampLayout, label, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("label %q is not a valid timestamp: %w", label, err)
	}
	return ts, nil
}

// IsTimestamp reports whether label is a parseable rotation-history label.
func IsTimestamp(label string) bool {
	_, err := ParseTimestamp(label)
	return err == nil
}

// TimestampLabel formats t as a rotation-history label.
func TimestampLabel(t time.Time) string {
	return t.Format(TimestampLayout)
}
