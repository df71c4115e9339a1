package merge

import (
	"strings"

	"jobradar/internal/model"
)

// Engine combines postings from all sources into one ordered, duplicate-free
// slice. Deduplication is stable and first-occurrence-wins, keyed on the
// case-insensitive (title, company, location) tuple. An optional location
// allow-list drops postings before they can claim a key.
type Engine struct {
	locations []string // lowercase substrings; empty disables the geo filter
}

// New returns an engine with the given location allow-list. Pass nil to
// disable geographic filtering.
func New(locations []string) *Engine {
	lowered := make([]string, 0, len(locations))
	for _, loc := range locations {
		lowered = append(lowered, strings.ToLower(loc))
	}
	return &Engine{locations: lowered}
}

// Merge flattens the batches in the order given, keeping each batch's own
// order, filtering by location and dropping duplicate identity keys. The
// output is a pure function of the ordered input.
func (e *Engine) Merge(batches ...[]model.JobPosting) []model.JobPosting {
	seen := make(map[string]struct{})
	out := make([]model.JobPosting, 0)

	for _, batch := range batches {
		for _, p := range batch {
			if !e.locationAllowed(p.Location) {
				continue
			}
			key := p.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, p)
		}
	}

	return out
}

// locationAllowed reports whether the posting's location contains any allowed
// substring (case-insensitive). An empty allow-list passes everything.
func (e *Engine) locationAllowed(location string) bool {
	if len(e.locations) == 0 {
		return true
	}
	lowered := strings.ToLower(location)
	for _, loc := range e.locations {
		if strings.Contains(lowered, loc) {
			return true
		}
	}
	return false
}
