package pipeline

import (
	"strings"

	"github.com/krevetko/job-scout/internal/jobs"
)

type dedupFilter struct{}

// NewDedup creates a stage that drops postings duplicating an earlier one by
// normalized (title, company) pair. The first occurrence in arrival order
// wins.
func NewDedup() Stage {
	return &dedupFilter{}
}

func (f *dedupFilter) Name() string { return "dedup" }

func (f *dedupFilter) Apply(postings jobs.Postings) (jobs.Postings, Step) {
	initial := postings.Len()

	seen := make(map[string]struct{}, initial)
	kept := make(jobs.Postings, 0, initial)
	for _, posting := range postings {
		key := dedupKey(posting)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, posting)
	}

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}
}

func dedupKey(p jobs.Posting) string {
	title := strings.ToLower(strings.TrimSpace(p.Title))
	company := strings.ToLower(strings.TrimSpace(p.Company))
	return title + "|" + company
}
