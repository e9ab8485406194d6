package connectors

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/jobs"
	"github.com/jobradar/jobradar/internal/retry"
)

const defaultRemotiveURL = "https://remotive.com/api/remote-jobs"

// Remotive is an open API; no credentials needed. Location is ignored by the
// upstream search, so geographic relevance is left to the country filter.
type Remotive struct {
	APIURL string

	httpClient *http.Client
	policy     retry.Policy
	logger     *zap.Logger
}

func NewRemotive(policy retry.Policy, logger *zap.Logger) *Remotive {
	return &Remotive{
		APIURL:     defaultRemotiveURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		policy:     policy,
		logger:     logger,
	}
}

func (r *Remotive) Name() string { return "remotive" }

type remotiveResponse struct {
	Jobs []map[string]any `json:"jobs"`
}

func (r *Remotive) Fetch(ctx context.Context, query, _ string, limit int) ([]map[string]any, error) {
	params := url.Values{}
	if query != "" {
		params.Set("search", query)
	}

	var response remotiveResponse
	err := r.policy.Do(ctx, r.logger, "remotive fetch", func(ctx context.Context) error {
		return getJSON(ctx, r.httpClient, r.APIURL, params, &response)
	})
	if err != nil {
		return nil, err
	}

	results := response.Jobs
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (r *Remotive) Normalize(raw []map[string]any) []*jobs.Job {
	out := make([]*jobs.Job, 0, len(raw))
	for _, record := range raw {
		out = append(out, jobs.NormalizeRemotive(record))
	}
	return out
}
