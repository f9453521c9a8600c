// Package pipeline applies sequential refinement stages to a candidate job
// list, with per-stage accounting.
package pipeline

import (
	"github.com/krevetko/job-scout/internal/jobs"

	"go.uber.org/zap"
)

// Stage represents a single refinement step applied to the candidate list.
type Stage interface {
	Name() string
	Apply(postings jobs.Postings) (jobs.Postings, Step)
}

// Step describes the result of executing one stage.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the supplied stages sequentially, logging per-stage counts.
func Run(logger *zap.Logger, stages []Stage, postings jobs.Postings) jobs.Postings {
	for _, stage := range stages {
		next, info := stage.Apply(postings)

		if logger != nil {
			logger.Info("pipeline stage",
				zap.String("name", stage.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		postings = next
	}

	return postings
}
