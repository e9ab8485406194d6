// Package pipeline ties fetching, filtering, extraction, graph ranking,
// compliance rescoring and explanation together for one user request.
package pipeline

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/connectors"
	"github.com/jobradar/jobradar/internal/filtering"
	"github.com/jobradar/jobradar/internal/graph"
	"github.com/jobradar/jobradar/internal/jobs"
	"github.com/jobradar/jobradar/internal/logger"
	"github.com/jobradar/jobradar/internal/match"
	"github.com/jobradar/jobradar/internal/skills"
)

// fetchCap bounds the pool fetched per source regardless of limit/topK.
const fetchCap = 50

type Pipeline struct {
	fetchers      []connectors.Fetcher
	log           *zap.Logger
	countryHints  []string
	strictSources bool
}

// Option tweaks optional pipeline behavior.
type Option func(*Pipeline)

// WithCountryHints overrides the geographic hard-filter hint list.
func WithCountryHints(hints []string) Option {
	return func(p *Pipeline) { p.countryHints = hints }
}

// WithStrictSources makes any source fetch failure abort the run instead of
// degrading to partial results.
func WithStrictSources(strict bool) Option {
	return func(p *Pipeline) { p.strictSources = strict }
}

func New(fetchers []connectors.Fetcher, log *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetchers: fetchers,
		log:      log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Request describes one matching run.
type Request struct {
	CVText   string
	Role     string
	Contract string
	Location string
	// Query is the upstream search text; when empty the role is used.
	Query string
	Limit int
	TopK  int
	Mode  Mode
}

// Recommendation is one explained, rescored job.
type Recommendation struct {
	Job         *jobs.Job         `json:"job"`
	Score       float64           `json:"score"`
	BaseScore   float64           `json:"score_base"`
	Bonus       float64           `json:"score_bonus"`
	Explanation match.Explanation `json:"explain"`
}

// Attempt records one (query, mode) try of the fallback loop.
type Attempt struct {
	Query   string  `json:"query"`
	Mode    string  `json:"mode"`
	Top1    float64 `json:"top1"`
	Edges   int     `json:"edges"`
	Results int     `json:"results"`
}

// Meta carries the diagnostics that let a caller explain an empty or thin
// result to the end user.
type Meta struct {
	RunID     string `json:"run_id"`
	QueryUsed string `json:"query_used"`
	Role      string `json:"role"`
	Contract  string `json:"contract,omitempty"`
	Location  string `json:"location"`
	Mode      string `json:"mode"`

	SourceCounts map[string]int    `json:"count_by_source,omitempty"`
	SourceErrors map[string]string `json:"source_errors,omitempty"`

	PoolSize            int `json:"pool_size"`
	AfterCountryFilter  int `json:"after_country_filter"`
	AfterContractFilter int `json:"after_contract_filter"`
	RoleHitCount        int `json:"role_hit_count"`
	ContractHitCount    int `json:"contract_hit_count"`
	RankedCount         int `json:"ranked_count"`

	GraphSummary graph.Summary `json:"graph_summary"`

	// Attempts is filled by RunWithFallbacks. Exhausted marks runs where no
	// attempt met the quality bar and the best effort was returned instead.
	Attempts  []Attempt `json:"fallback_tried,omitempty"`
	Exhausted bool      `json:"exhausted,omitempty"`
}

// Result is the outcome of one pipeline run.
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	Meta            Meta             `json:"meta"`
}

type rescored struct {
	jobID string
	base  float64
	bonus float64
	final float64
}

// Run executes one full fetch → filter → tag → build → rank → rescore →
// explain chain with the given query and mode. Upstream fetch failures are
// recorded in the meta and do not abort the run unless strict sources are
// configured.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	runID := uuid.NewString()
	log := logger.WithRun(p.log, runID, "")

	query := strings.TrimSpace(req.Query)
	if query == "" {
		query = req.Role
	}

	meta := Meta{
		RunID:     runID,
		QueryUsed: query,
		Role:      req.Role,
		Contract:  req.Contract,
		Location:  req.Location,
		Mode:      req.Mode.String(),
	}

	// Fetch a larger pool than topK so ranking still has enough to choose
	// from after the hard filters.
	fetchLimit := req.Limit
	if req.TopK*10 > fetchLimit {
		fetchLimit = req.TopK * 10
	}
	if fetchLimit < 30 {
		fetchLimit = 30
	}
	if fetchLimit > fetchCap {
		fetchLimit = fetchCap
	}

	listRes, err := connectors.List(ctx, p.fetchers, query, req.Location, fetchLimit, p.strictSources, log)
	if err != nil {
		return &Result{Recommendations: []Recommendation{}, Meta: meta}, err
	}

	pool := listRes.Jobs
	meta.SourceCounts = listRes.CountBySource
	meta.SourceErrors = listRes.Errors
	meta.PoolSize = pool.Len()

	log.Info("fetched job pool",
		zap.String("query", query),
		zap.Int("pool_size", pool.Len()),
		zap.Int("failed_sources", len(listRes.Errors)),
	)

	steps := []filtering.Filter{
		filtering.NewCountry(p.countryHints),
		filtering.NewContractTitle(req.Contract),
	}

	filtered, stepInfo, err := filtering.Run(ctx, log, steps, pool)
	if err != nil {
		return &Result{Recommendations: []Recommendation{}, Meta: meta}, err
	}
	meta.AfterCountryFilter = stepInfo["country"].Left
	meta.AfterContractFilter = stepInfo["contract_title"].Left

	AnnotateCompliance(filtered, req.Role, req.Contract)
	for _, j := range filtered.Items {
		if j.RoleHit {
			meta.RoleHitCount++
		}
		if j.ContractHit {
			meta.ContractHitCount++
		}
	}

	cvSkills := skills.Extract(req.CVText)

	for _, j := range filtered.Items {
		blob := strings.Join([]string{j.Title, j.Company, j.Location, j.Description}, "\n")
		j.Skills = skills.Extract(blob)
	}

	g, summary := graph.Build(cvSkills, filtered, log)
	meta.GraphSummary = summary

	ranking := graph.Rank(g, cvSkills, req.TopK, graph.DefaultRankOptions())

	entries := make([]rescored, 0, len(ranking))
	seen := make(map[string]struct{}, len(ranking))
	for _, r := range ranking {
		j := filtered.FindByID(r.JobID)
		if j == nil {
			continue
		}
		bonus := SoftBonus(j, req.Contract, req.Mode)
		entries = append(entries, rescored{
			jobID: r.JobID,
			base:  r.Score,
			bonus: bonus,
			final: Clamp01(r.Score + bonus),
		})
		seen[r.JobID] = struct{}{}
	}

	// Sparse graph: backfill remaining slots with the deterministic scorer
	// so the result set is never under-filled just because overlap was thin.
	if len(entries) < req.TopK {
		for _, j := range filtered.Items {
			if j.ID == "" {
				continue
			}
			if _, ok := seen[j.ID]; ok {
				continue
			}
			base := FallbackScore(j, cvSkills, req.Contract, req.Mode)
			bonus := SoftBonus(j, req.Contract, req.Mode)
			entries = append(entries, rescored{
				jobID: j.ID,
				base:  base,
				bonus: bonus,
				final: Clamp01(base + bonus),
			})
		}
	}

	sort.Slice(entries, func(a, b int) bool {
		if entries[a].final != entries[b].final {
			return entries[a].final > entries[b].final
		}
		return entries[a].jobID < entries[b].jobID
	})
	if len(entries) > req.TopK {
		entries = entries[:req.TopK]
	}
	meta.RankedCount = len(entries)

	recommendations := make([]Recommendation, 0, len(entries))
	for _, e := range entries {
		j := filtered.FindByID(e.jobID)
		if j == nil {
			continue
		}
		score := e.final
		explanation := match.Explain(cvSkills, j.Skills, &match.JobContext{
			Title:   j.Title,
			Company: j.Company,
		}, &score)

		recommendations = append(recommendations, Recommendation{
			Job:         j,
			Score:       e.final,
			BaseScore:   e.base,
			Bonus:       e.bonus,
			Explanation: explanation,
		})
	}

	log.Info("pipeline run finished",
		zap.String("query", query),
		zap.String("mode", req.Mode.String()),
		zap.Int("recommendations", len(recommendations)),
		zap.Int("graph_edges", summary.EdgeCount),
	)

	return &Result{Recommendations: recommendations, Meta: meta}, nil
}
