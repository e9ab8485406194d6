// Package filtering applies sequential hard-filter steps to a job list.
// Hard filters remove jobs outright; soft compliance signals live in the
// pipeline package and only annotate.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/jobs"
)

// Filter represents a single filtering step applied to jobs.
type Filter interface {
	Name() string
	IsEnabled() bool
	Apply(ctx context.Context, list *jobs.Jobs) (*jobs.Jobs, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the supplied filters sequentially, returning the resulting job
// list and the per-step counters in execution order.
func Run(ctx context.Context, logger *zap.Logger, steps []Filter, list *jobs.Jobs) (*jobs.Jobs, map[string]Step, error) {
	results := make(map[string]Step, len(steps))

	for _, step := range steps {
		if !step.IsEnabled() {
			if logger != nil {
				logger.Info("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(ctx, list)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if logger != nil {
			logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		results[step.Name()] = info
		list = next
	}

	return list, results, nil
}
