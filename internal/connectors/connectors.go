// Package connectors fetches raw postings from the supported job-board APIs
// and normalizes them into the shared Job entity.
package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jobradar/jobradar/internal/jobs"
)

const userAgent = "jobradar/cli"

// Supported lists the source names accepted by the CLI and the fetchers, in
// default order.
var Supported = []string{"adzuna", "remotive"}

// ErrUnsupportedSource is wrapped into validation errors for unknown source
// names. This is an invalid-input condition and aborts the operation.
var ErrUnsupportedSource = fmt.Errorf("unsupported source")

// Fetcher is one job-board connector.
type Fetcher interface {
	Name() string
	// Fetch returns up to limit raw records for the query. Missing optional
	// fields in records must not cause errors downstream.
	Fetch(ctx context.Context, query, location string, limit int) ([]map[string]any, error)
	// Normalize maps raw records into Jobs.
	Normalize(raw []map[string]any) []*jobs.Job
}

// NormalizeSources validates and deduplicates a comma-separated string or
// list of source names, preserving order. An empty input selects all
// supported sources.
func NormalizeSources(names []string) ([]string, error) {
	if len(names) == 0 {
		return append([]string{}, Supported...), nil
	}

	out := make([]string, 0, len(names))
	seen := make(map[string]struct{})
	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(strings.ToLower(name))
			if name == "" {
				continue
			}
			if !isSupported(name) {
				return nil, fmt.Errorf("%w: %q (allowed: %s)", ErrUnsupportedSource, name, strings.Join(Supported, ", "))
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}

	if len(out) == 0 {
		return append([]string{}, Supported...), nil
	}
	return out, nil
}

func isSupported(name string) bool {
	for _, s := range Supported {
		if s == name {
			return true
		}
	}
	return false
}

// ListResult aggregates jobs across sources together with per-source
// diagnostics. Errors maps a failed source to its message; a failed source
// never removes another source's jobs.
type ListResult struct {
	Jobs          *jobs.Jobs
	CountBySource map[string]int
	Errors        map[string]string
}

// List fetches and normalizes jobs from every fetcher concurrently. Sources
// are independent: one failure is recorded and the rest keep accumulating.
// When strict is true any source failure fails the whole call instead.
// Result order is deterministic (fetcher order, then source order within).
func List(ctx context.Context, fetchers []Fetcher, query, location string, limit int, strict bool, logger *zap.Logger) (*ListResult, error) {
	result := &ListResult{
		Jobs:          &jobs.Jobs{},
		CountBySource: make(map[string]int),
		Errors:        make(map[string]string),
	}

	perSource := make([][]*jobs.Job, len(fetchers))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for i, f := range fetchers {
		g.Go(func() error {
			raw, err := f.Fetch(gctx, query, location, limit)
			if err != nil {
				mu.Lock()
				result.Errors[f.Name()] = err.Error()
				result.CountBySource[f.Name()] = 0
				mu.Unlock()

				if logger != nil {
					logger.Warn("source fetch failed",
						zap.String("source", f.Name()),
						zap.Error(err),
					)
				}

				if strict {
					return fmt.Errorf("source %s: %w", f.Name(), err)
				}
				return nil
			}

			normalized := f.Normalize(raw)

			mu.Lock()
			perSource[i] = normalized
			result.CountBySource[f.Name()] = len(normalized)
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}

	for _, batch := range perSource {
		result.Jobs.Append(batch...)
	}

	return result, nil
}

// getJSON issues one GET with the shared headers and decodes the JSON body
// into target. Non-200 statuses are errors.
func getJSON(ctx context.Context, client *http.Client, rawURL string, params url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if target == nil {
		return nil
	}

	return json.Unmarshal(data, target)
}
