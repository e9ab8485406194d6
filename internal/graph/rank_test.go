package graph

import (
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/jobs"
)

func buildTestGraph(t *testing.T, seeds []string, items []*jobs.Job) *Graph {
	t.Helper()
	g, _ := Build(seeds, &jobs.Jobs{Items: items}, zap.NewNop())
	return g
}

func TestRankEmptyInputs(t *testing.T) {
	t.Parallel()

	if got := Rank(nil, []string{"python"}, 5, DefaultRankOptions()); len(got) != 0 {
		t.Fatalf("expected empty ranking for nil graph, got %v", got)
	}
	if got := Rank(New(), []string{"python"}, 5, DefaultRankOptions()); len(got) != 0 {
		t.Fatalf("expected empty ranking for empty graph, got %v", got)
	}

	g := New()
	g.AddSkill("python")
	if got := Rank(g, []string{"python"}, 0, DefaultRankOptions()); len(got) != 0 {
		t.Fatalf("expected empty ranking for topK=0, got %v", got)
	}
}

func TestRankSeedsDisjointFromGraph(t *testing.T) {
	g := buildTestGraph(t, nil, []*jobs.Job{
		{ID: "adzuna:1", Skills: []string{"java"}},
	})

	if got := Rank(g, []string{"cobol"}, 5, DefaultRankOptions()); len(got) != 0 {
		t.Fatalf("expected empty ranking for disjoint seeds, got %v", got)
	}
}

func TestRankZeroEdgeGraphRanksNothing(t *testing.T) {
	// Jobs with no extracted skills are isolated: no signal can reach them,
	// so the ranking must come back empty rather than padded with zeros.
	g := buildTestGraph(t, []string{"python", "sql"}, []*jobs.Job{
		{ID: "adzuna:1", Title: "Office Manager"},
		{ID: "adzuna:2", Title: "Accountant"},
	})

	if got := Rank(g, []string{"python", "sql"}, 5, DefaultRankOptions()); len(got) != 0 {
		t.Fatalf("expected empty ranking for zero-edge graph, got %v", got)
	}
}

func TestRankPrefersHigherOverlap(t *testing.T) {
	seeds := []string{"python", "sql"}
	g := buildTestGraph(t, seeds, []*jobs.Job{
		{ID: "adzuna:full", Skills: []string{"python", "sql"}},
		{ID: "adzuna:partial", Skills: []string{"python"}},
	})

	ranking := Rank(g, seeds, 5, DefaultRankOptions())
	if len(ranking) != 2 {
		t.Fatalf("expected 2 ranked jobs, got %d", len(ranking))
	}
	if ranking[0].JobID != "adzuna:full" {
		t.Fatalf("expected the full-overlap job first, got %q", ranking[0].JobID)
	}
	if ranking[0].Score <= ranking[1].Score {
		t.Fatalf("expected strictly decreasing scores, got %v", ranking)
	}
	for _, entry := range ranking {
		if entry.Score <= 0 || entry.Score > 1 {
			t.Fatalf("score out of range: %+v", entry)
		}
	}
}

func TestRankTruncatesToTopK(t *testing.T) {
	seeds := []string{"python"}
	g := buildTestGraph(t, seeds, []*jobs.Job{
		{ID: "adzuna:1", Skills: []string{"python"}},
		{ID: "adzuna:2", Skills: []string{"python"}},
		{ID: "adzuna:3", Skills: []string{"python"}},
	})

	ranking := Rank(g, seeds, 2, DefaultRankOptions())
	if len(ranking) != 2 {
		t.Fatalf("expected topK=2 results, got %d", len(ranking))
	}
}

func TestRankTieBreaksOnJobID(t *testing.T) {
	seeds := []string{"python"}
	items := []*jobs.Job{
		{ID: "adzuna:b", Skills: []string{"python"}},
		{ID: "adzuna:a", Skills: []string{"python"}},
	}

	ranking := Rank(buildTestGraph(t, seeds, items), seeds, 5, DefaultRankOptions())
	if len(ranking) != 2 {
		t.Fatalf("expected 2 ranked jobs, got %d", len(ranking))
	}
	if ranking[0].JobID != "adzuna:a" || ranking[1].JobID != "adzuna:b" {
		t.Fatalf("expected ascending job id tie-break, got %v", ranking)
	}
	if ranking[0].Score != ranking[1].Score {
		t.Fatalf("symmetric jobs must score identically, got %v", ranking)
	}
}

func TestRankIsDeterministic(t *testing.T) {
	seeds := []string{"python", "sql", "docker"}
	items := []*jobs.Job{
		{ID: "adzuna:1", Skills: []string{"python", "sql"}},
		{ID: "adzuna:2", Skills: []string{"sql", "docker"}},
		{ID: "remotive:3", Skills: []string{"python"}},
	}

	first := Rank(buildTestGraph(t, seeds, items), seeds, 5, DefaultRankOptions())
	for i := 0; i < 5; i++ {
		again := Rank(buildTestGraph(t, seeds, items), seeds, 5, DefaultRankOptions())
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("ranking not deterministic: %v vs %v", first, again)
		}
	}
}
