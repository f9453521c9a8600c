package pipeline

import (
	"strings"

	"github.com/krevetko/job-scout/internal/jobs"
)

// Jobs carrying any of these markers pass the location filter regardless of
// the requested location.
var globalLocationMarkers = []string{"remote", "anywhere", "worldwide"}

type locationFilter struct {
	requested string
}

// NewLocationFilter creates a stage that keeps jobs matching the requested
// location. The filter is permissive: remote and global jobs always pass,
// and a blank requested location disables filtering entirely.
func NewLocationFilter(requested string) Stage {
	return &locationFilter{requested: strings.ToLower(strings.TrimSpace(requested))}
}

func (f *locationFilter) Name() string { return "location" }

func (f *locationFilter) Apply(postings jobs.Postings) (jobs.Postings, Step) {
	initial := postings.Len()
	if f.requested == "" {
		return postings, Step{Initial: initial, Dropped: 0, Left: initial}
	}

	kept := make(jobs.Postings, 0, initial)
	for _, posting := range postings {
		if f.matches(posting.Location) {
			kept = append(kept, posting)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}
}

func (f *locationFilter) matches(location string) bool {
	location = strings.ToLower(location)
	if strings.Contains(location, f.requested) {
		return true
	}
	for _, marker := range globalLocationMarkers {
		if strings.Contains(location, marker) {
			return true
		}
	}
	return false
}
