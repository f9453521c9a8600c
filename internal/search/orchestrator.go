// Package search composes fact extraction, job search, filtering and scoring
// into the end-to-end "search jobs matching this CV" operation.
package search

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/krevetko/job-scout/internal/cv"
	"github.com/krevetko/job-scout/internal/jobs"
	"github.com/krevetko/job-scout/internal/pipeline"
	"github.com/krevetko/job-scout/internal/scoring"

	"go.uber.org/zap"
)

const (
	// Candidates requested from the external API per search.
	searchLimit = 30
	// Postings returned to the caller after ranking.
	maxResults = 25

	allLocationsLabel = "All locations"
)

// Extractor produces CV facts from raw text.
type Extractor interface {
	Extract(ctx context.Context, cvText string) cv.Facts
}

// Searcher issues primary and fallback queries against the job-search API.
type Searcher interface {
	Search(ctx context.Context, query, location string, limit int) jobs.Postings
	SearchFallback(ctx context.Context, term string, limit int) jobs.Postings
}

// Summary aggregates the outcome of one search request.
type Summary struct {
	ReturnedJobs     int     `json:"returnedJobs"`
	SearchLocation   string  `json:"searchLocation"`
	AverageRelevance float64 `json:"averageRelevance"`
}

// Result is the outcome of the end-to-end search operation.
type Result struct {
	Jobs    jobs.Postings
	Facts   cv.Facts
	Summary Summary
}

// Orchestrator runs the search pipeline. It holds no per-request state.
type Orchestrator struct {
	extractor Extractor
	searcher  Searcher
	logger    *zap.Logger
}

func New(extractor Extractor, searcher Searcher, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		extractor: extractor,
		searcher:  searcher,
		logger:    logger,
	}
}

// stage models the two-phase search control flow: a primary query, then one
// narrower fallback query only when the primary set comes back empty.
type stage int

const (
	stagePrimary stage = iota
	stageFallback
	stageDone
)

// Run executes the pipeline: extract facts, search, filter, deduplicate,
// fall back if empty, score, rank and truncate.
func (o *Orchestrator) Run(ctx context.Context, cvText, location string) Result {
	location = strings.TrimSpace(location)

	facts := o.extractor.Extract(ctx, cvText)
	o.logger.Info("extracted cv facts",
		zap.Int("skills", len(facts.Skills)),
		zap.Int("experience_years", facts.ExperienceYears),
		zap.Int("keywords", len(facts.SearchKeywords)),
	)

	var candidates jobs.Postings
	for state := stagePrimary; state != stageDone; {
		switch state {
		case stagePrimary:
			query := jobs.BuildQuery(facts)
			o.logger.Info("starting the search", zap.String("query", query), zap.String("location", location))

			candidates = o.searcher.Search(ctx, query, location, searchLimit)
			candidates = pipeline.Run(o.logger, o.primaryStages(location), candidates)

			if candidates.Len() == 0 {
				o.logger.Info("primary search yielded nothing, trying fallback")
				state = stageFallback
			} else {
				state = stageDone
			}
		case stageFallback:
			term := jobs.FallbackTerm(facts)
			o.logger.Info("fallback search", zap.String("term", term))

			candidates = o.searcher.SearchFallback(ctx, term, searchLimit)
			// No dedup pass here: the primary set it would collide with is empty.
			if location != "" {
				candidates = pipeline.Run(o.logger, []pipeline.Stage{pipeline.NewLocationFilter(location)}, candidates)
			}
			state = stageDone
		}
	}

	if candidates == nil {
		candidates = jobs.Postings{}
	}

	for i := range candidates {
		candidates[i].RelevanceScore = scoring.Score(candidates[i], facts)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RelevanceScore > candidates[j].RelevanceScore
	})

	if candidates.Len() > maxResults {
		candidates = candidates[:maxResults]
	}

	result := Result{
		Jobs:    candidates,
		Facts:   facts,
		Summary: buildSummary(candidates, location),
	}

	o.logger.Info("search completed",
		zap.Int("returned_jobs", result.Summary.ReturnedJobs),
		zap.Float64("average_relevance", result.Summary.AverageRelevance),
	)

	return result
}

func (o *Orchestrator) primaryStages(location string) []pipeline.Stage {
	stages := make([]pipeline.Stage, 0, 2)
	if location != "" {
		stages = append(stages, pipeline.NewLocationFilter(location))
	}
	stages = append(stages, pipeline.NewDedup())
	return stages
}

func buildSummary(postings jobs.Postings, location string) Summary {
	if location == "" {
		location = allLocationsLabel
	}

	average := 0.0
	if postings.Len() > 0 {
		total := 0
		for _, posting := range postings {
			total += posting.RelevanceScore
		}
		average = math.Round(float64(total)/float64(postings.Len())*10) / 10
	}

	return Summary{
		ReturnedJobs:     postings.Len(),
		SearchLocation:   location,
		AverageRelevance: average,
	}
}
