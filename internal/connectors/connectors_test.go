package connectors

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/jobs"
)

func TestNormalizeSources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   []string
		expect  []string
		wantErr bool
	}{
		{
			name:   "empty selects all",
			input:  nil,
			expect: []string{"adzuna", "remotive"},
		},
		{
			name:   "comma separated",
			input:  []string{"remotive,adzuna"},
			expect: []string{"remotive", "adzuna"},
		},
		{
			name:   "trims case and whitespace",
			input:  []string{" Adzuna ", "REMOTIVE"},
			expect: []string{"adzuna", "remotive"},
		},
		{
			name:   "deduplicates preserving order",
			input:  []string{"remotive", "remotive,adzuna"},
			expect: []string{"remotive", "adzuna"},
		},
		{
			name:   "blank entries select all",
			input:  []string{" ", ","},
			expect: []string{"adzuna", "remotive"},
		},
		{
			name:    "unknown source rejected",
			input:   []string{"adzuna,linkedin"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizeSources(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, ErrUnsupportedSource) {
					t.Fatalf("expected ErrUnsupportedSource, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

type listStub struct {
	name string
	jobs []*jobs.Job
	err  error
}

func (s *listStub) Name() string { return s.name }

func (s *listStub) Fetch(_ context.Context, _, _ string, _ int) ([]map[string]any, error) {
	if s.err != nil {
		return nil, s.err
	}
	return make([]map[string]any, len(s.jobs)), nil
}

func (s *listStub) Normalize(_ []map[string]any) []*jobs.Job {
	return s.jobs
}

func TestListAggregatesInFetcherOrder(t *testing.T) {
	first := &listStub{name: "adzuna", jobs: []*jobs.Job{
		{ID: "adzuna:1", Source: "adzuna"},
		{ID: "adzuna:2", Source: "adzuna"},
	}}
	second := &listStub{name: "remotive", jobs: []*jobs.Job{
		{ID: "remotive:1", Source: "remotive"},
	}}

	res, err := List(context.Background(), []Fetcher{first, second}, "data analyst", "Paris", 10, false, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Jobs.Len() != 3 {
		t.Fatalf("expected 3 jobs, got %d", res.Jobs.Len())
	}
	// Concurrent fetch, deterministic accumulation.
	ids := []string{res.Jobs.Items[0].ID, res.Jobs.Items[1].ID, res.Jobs.Items[2].ID}
	expect := []string{"adzuna:1", "adzuna:2", "remotive:1"}
	if !reflect.DeepEqual(ids, expect) {
		t.Fatalf("expected %v, got %v", expect, ids)
	}

	if res.CountBySource["adzuna"] != 2 || res.CountBySource["remotive"] != 1 {
		t.Fatalf("unexpected counts: %+v", res.CountBySource)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", res.Errors)
	}
}

func TestListRecordsFailureAndKeepsOtherSources(t *testing.T) {
	healthy := &listStub{name: "remotive", jobs: []*jobs.Job{
		{ID: "remotive:1", Source: "remotive"},
	}}
	broken := &listStub{name: "adzuna", err: errors.New("503 service unavailable")}

	res, err := List(context.Background(), []Fetcher{broken, healthy}, "data analyst", "Paris", 10, false, zap.NewNop())
	if err != nil {
		t.Fatalf("one broken source must not fail the call: %v", err)
	}

	if res.Jobs.Len() != 1 || res.Jobs.Items[0].ID != "remotive:1" {
		t.Fatalf("expected the healthy source's jobs, got %v", res.Jobs.Items)
	}
	if res.Errors["adzuna"] == "" {
		t.Fatalf("expected the failure to be recorded, got %+v", res.Errors)
	}
	if res.CountBySource["adzuna"] != 0 {
		t.Fatalf("expected zero count for the broken source, got %+v", res.CountBySource)
	}
}

func TestListStrictModeFailsFast(t *testing.T) {
	healthy := &listStub{name: "remotive"}
	broken := &listStub{name: "adzuna", err: errors.New("503 service unavailable")}

	_, err := List(context.Background(), []Fetcher{broken, healthy}, "data analyst", "Paris", 10, true, zap.NewNop())
	if err == nil {
		t.Fatal("expected strict mode to propagate the source failure")
	}
}
