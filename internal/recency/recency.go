package recency

import (
	"strconv"
	"strings"
)

// Filter classifies a posting's free-text age descriptor ("2 days ago",
// "just posted", "30+ days ago") as inside or outside the freshness window.
// It is pure: no I/O, no clock, matching on the descriptor text only.
type Filter struct {
	windowDays     int
	includeUnknown bool
	boundary       string // e.g. "30+" for a 30-day window
}

// New returns a filter for the given freshness window in days.
// includeUnknown decides the policy for missing or unparseable descriptors:
// false excludes them (the conservative default), true keeps them.
func New(windowDays int, includeUnknown bool) *Filter {
	return &Filter{
		windowDays:     windowDays,
		includeUnknown: includeUnknown,
		boundary:       strconv.Itoa(windowDays) + "+",
	}
}

// Keep reports whether a posting with the given age descriptor is recent
// enough. Matching is case-insensitive, in priority order:
//
//   - "hour", "minute" or "just" → posted within the day, always kept
//   - "day" → kept unless the text carries the at-or-beyond-window marker
//     (e.g. "30+ days ago" for a 30-day window)
//   - anything else (empty, "30+ months", provider garbage) → unknown age,
//     decided by the configured includeUnknown policy
func (f *Filter) Keep(ageText string) bool {
	t := strings.ToLower(strings.TrimSpace(ageText))
	if t == "" {
		return f.includeUnknown
	}
	if strings.Contains(t, "just") || strings.Contains(t, "hour") || strings.Contains(t, "minute") {
		return true
	}
	if strings.Contains(t, "day") {
		return !strings.Contains(t, f.boundary)
	}
	return f.includeUnknown
}
