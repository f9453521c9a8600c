package jobs

import (
	"strings"

	"github.com/krevetko/job-scout/internal/cv"
)

const maxQueryTerms = 3

// BuildQuery derives a compact search query from extracted CV facts. Terms
// are taken in priority order (up to 2 search keywords, then up to 2 skills,
// then 1 job title), blanks are skipped and the combined count is capped at 3.
func BuildQuery(facts cv.Facts) string {
	terms := make([]string, 0, maxQueryTerms)

	appendTerms := func(candidates []string, limit int) {
		taken := 0
		for _, candidate := range candidates {
			if len(terms) == maxQueryTerms || taken == limit {
				return
			}
			candidate = strings.TrimSpace(candidate)
			if candidate == "" {
				continue
			}
			terms = append(terms, candidate)
			taken++
		}
	}

	appendTerms(facts.SearchKeywords, 2)
	appendTerms(facts.Skills, 2)
	appendTerms(facts.JobTitles, 1)

	return strings.Join(terms, " ")
}

// FallbackTerm picks the single term for the narrow fallback query: the first
// job title, else the first skill, else the literal "jobs".
func FallbackTerm(facts cv.Facts) string {
	for _, title := range facts.JobTitles {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			return trimmed
		}
	}
	for _, skill := range facts.Skills {
		if trimmed := strings.TrimSpace(skill); trimmed != "" {
			return trimmed
		}
	}
	return "jobs"
}
