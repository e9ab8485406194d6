package pipeline

import (
	"context"

	"go.uber.org/zap"
)

// edgeQualityBonus rewards attempts whose graph had any connectivity at all
// when comparing otherwise similar attempts.
const edgeQualityBonus = 0.05

// acceptable is the "good enough" bar for an attempt: some results, a
// non-zero top score, and a graph with at least one edge. Zero edges means
// the candidate had no skill overlap with any job, which is exactly the case
// the broadened queries are for.
func acceptable(res *Result) bool {
	return len(res.Recommendations) > 0 &&
		res.Recommendations[0].Score > 0 &&
		res.Meta.GraphSummary.EdgeCount > 0
}

func quality(res *Result) float64 {
	q := 0.0
	if len(res.Recommendations) > 0 {
		q = res.Recommendations[0].Score
	}
	if res.Meta.GraphSummary.EdgeCount > 0 {
		q += edgeQualityBonus
	}
	return q
}

// RunWithFallbacks drives the query-broadening retry loop:
//
//  1. strict pass over the candidate queries (user query, role fallback
//     terms, role name, generic last resort)
//  2. relaxed pass over the same queries when the strict pass found nothing
//     acceptable
//
// The first acceptable attempt wins. Every (query, mode) attempt is recorded
// in the meta; when no attempt meets the bar the best one seen is returned
// with Exhausted set, so the caller still gets the most usable result plus
// the diagnostics explaining why it fell short.
func (p *Pipeline) RunWithFallbacks(ctx context.Context, req Request) (*Result, error) {
	base := req.Query
	if base == "" {
		base = req.Role
	}

	candidates := make([]string, 0, 8)
	seen := make(map[string]struct{})
	for _, q := range append([]string{base}, FallbackQueries(req.Role)...) {
		if q == "" {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		candidates = append(candidates, q)
	}

	attempts := make([]Attempt, 0, 2*len(candidates))

	var best *Result
	bestQuality := -1.0

	for _, mode := range []Mode{Strict, Relaxed} {
		for _, query := range candidates {
			attempt := req
			attempt.Query = query
			attempt.Mode = mode

			res, err := p.Run(ctx, attempt)
			if err != nil {
				return res, err
			}

			record := Attempt{
				Query:   query,
				Mode:    mode.String(),
				Edges:   res.Meta.GraphSummary.EdgeCount,
				Results: len(res.Recommendations),
			}
			if len(res.Recommendations) > 0 {
				record.Top1 = res.Recommendations[0].Score
			}
			attempts = append(attempts, record)

			if q := quality(res); q > bestQuality {
				bestQuality = q
				best = res
			}

			if acceptable(res) {
				res.Meta.Attempts = attempts
				return res, nil
			}

			if p.log != nil {
				p.log.Info("attempt below quality bar, broadening",
					zap.String("query", query),
					zap.String("mode", mode.String()),
					zap.Float64("top1", record.Top1),
					zap.Int("edges", record.Edges),
				)
			}
		}
	}

	if best == nil {
		best = &Result{Recommendations: []Recommendation{}}
	}
	best.Meta.Attempts = attempts
	best.Meta.Exhausted = true

	return best, nil
}
