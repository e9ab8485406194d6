package connectors

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/jobs"
	"github.com/jobradar/jobradar/internal/retry"
)

// Adzuna France search endpoint, first page.
const defaultAdzunaURL = "https://api.adzuna.com/v1/api/jobs/fr/search/1"

type Adzuna struct {
	APIURL string

	appID      string
	appKey     string
	httpClient *http.Client
	policy     retry.Policy
	logger     *zap.Logger
}

// NewAdzuna creates the Adzuna connector. Both credentials are required: the
// API rejects anonymous calls, so failing early gives a clearer error.
func NewAdzuna(appID, appKey string, policy retry.Policy, logger *zap.Logger) (*Adzuna, error) {
	if appID == "" || appKey == "" {
		return nil, errors.New("adzuna credentials are required (app id and app key)")
	}

	return &Adzuna{
		APIURL:     defaultAdzunaURL,
		appID:      appID,
		appKey:     appKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		policy:     policy,
		logger:     logger,
	}, nil
}

func (a *Adzuna) Name() string { return "adzuna" }

type adzunaResponse struct {
	Results []map[string]any `json:"results"`
}

func (a *Adzuna) Fetch(ctx context.Context, query, location string, limit int) ([]map[string]any, error) {
	params := url.Values{}
	params.Set("app_id", a.appID)
	params.Set("app_key", a.appKey)
	params.Set("what", query)
	params.Set("where", location)
	params.Set("results_per_page", strconv.Itoa(limit))
	params.Set("content-type", "application/json")

	var response adzunaResponse
	err := a.policy.Do(ctx, a.logger, "adzuna fetch", func(ctx context.Context) error {
		return getJSON(ctx, a.httpClient, a.APIURL, params, &response)
	})
	if err != nil {
		return nil, err
	}

	results := response.Results
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (a *Adzuna) Normalize(raw []map[string]any) []*jobs.Job {
	out := make([]*jobs.Job, 0, len(raw))
	for _, record := range raw {
		out = append(out, jobs.NormalizeAdzuna(record))
	}
	return out
}
