package graph

import (
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/jobs"
)

// Build constructs the bipartite graph for one ranking request.
//
// Every seed skill gets a node even when no job references it: the ranker's
// restart set depends on those nodes being present. Jobs with an empty
// identifier are skipped silently (logged at debug, not an error). Skills
// discovered on jobs get nodes too, so the skill side is a superset of the
// seeds. A job with zero extracted skills still becomes a node, just an
// isolated one.
func Build(seedSkills []string, list *jobs.Jobs, logger *zap.Logger) (*Graph, Summary) {
	g := New()

	for _, tag := range seedSkills {
		g.AddSkill(tag)
	}

	jobCount := 0
	for _, job := range list.Items {
		if job.ID == "" {
			if logger != nil {
				logger.Debug("skipping job without identifier",
					zap.String("title", job.Title),
					zap.String("source", job.Source),
				)
			}
			continue
		}

		g.AddJob(job.ID, job.Title, job.Source)
		jobCount++

		for _, tag := range job.Skills {
			g.AddSkill(tag)
			// Both endpoints were just ensured; the only error left is a
			// same-kind edge, which cannot happen here.
			_ = g.AddEdge(job.ID, tag)
		}
	}

	return g, Summary{
		SeedSkillCount: len(seedSkills),
		JobCount:       jobCount,
		NodeCount:      g.NodeCount(),
		EdgeCount:      g.EdgeCount(),
	}
}
