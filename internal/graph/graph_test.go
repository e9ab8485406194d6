package graph

import (
	"testing"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/jobs"
)

func TestAddEdgeRequiresBothNodes(t *testing.T) {
	g := New()
	g.AddSkill("python")

	if err := g.AddEdge("adzuna:1", "python"); err == nil {
		t.Fatal("expected error for missing job node")
	}

	g.AddJob("adzuna:1", "Data Analyst", "adzuna")
	if err := g.AddEdge("adzuna:1", "sql"); err == nil {
		t.Fatal("expected error for missing skill node")
	}

	if err := g.AddEdge("adzuna:1", "python"); err != nil {
		t.Fatalf("expected edge to be added, got %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Fatalf("expected 1 edge, got %d", g.EdgeCount())
	}
}

func TestAddEdgeIsIdempotent(t *testing.T) {
	g := New()
	g.AddSkill("sql")
	g.AddJob("adzuna:1", "Data Analyst", "adzuna")

	for i := 0; i < 3; i++ {
		if err := g.AddEdge("adzuna:1", "sql"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if g.EdgeCount() != 1 {
		t.Fatalf("expected duplicate edges to collapse, got %d", g.EdgeCount())
	}
	if g.Degree(JobKey("adzuna:1")) != 1 || g.Degree(SkillKey("sql")) != 1 {
		t.Fatalf("unexpected degrees: job=%d skill=%d",
			g.Degree(JobKey("adzuna:1")), g.Degree(SkillKey("sql")))
	}
}

func TestAddNodesAreIdempotent(t *testing.T) {
	g := New()
	g.AddSkill("python")
	g.AddSkill("python")
	g.AddJob("adzuna:1", "Data Analyst", "adzuna")
	g.AddJob("adzuna:1", "Renamed", "adzuna")

	if g.NodeCount() != 2 {
		t.Fatalf("expected 2 nodes, got %d", g.NodeCount())
	}
	if node := g.Node(JobKey("adzuna:1")); node == nil || node.Label != "Data Analyst" {
		t.Fatalf("expected first label to win, got %+v", node)
	}
}

func TestBuildGraphFromJobs(t *testing.T) {
	list := &jobs.Jobs{Items: []*jobs.Job{
		{ID: "adzuna:1", Title: "Data Analyst", Source: "adzuna", Skills: []string{"python", "sql"}},
		{ID: "remotive:2", Title: "Data Engineer", Source: "remotive", Skills: []string{"sql", "airflow"}},
		// No skills extracted: the job still becomes a node, just isolated.
		{ID: "adzuna:3", Title: "Office Manager", Source: "adzuna"},
		// No identifier: skipped entirely.
		{Title: "Ghost", Source: "adzuna", Skills: []string{"python"}},
	}}

	g, summary := Build([]string{"python", "sql"}, list, zap.NewNop())

	if summary.SeedSkillCount != 2 {
		t.Fatalf("expected 2 seed skills, got %d", summary.SeedSkillCount)
	}
	if summary.JobCount != 3 {
		t.Fatalf("expected 3 job nodes, got %d", summary.JobCount)
	}
	// python, sql, airflow + 3 jobs.
	if summary.NodeCount != 6 {
		t.Fatalf("expected 6 nodes, got %d", summary.NodeCount)
	}
	if summary.EdgeCount != 4 {
		t.Fatalf("expected 4 edges, got %d", summary.EdgeCount)
	}

	if g.HasNode(JobKey("")) {
		t.Fatal("job without identifier must not become a node")
	}
	if g.Degree(JobKey("adzuna:3")) != 0 {
		t.Fatalf("expected isolated job node, degree %d", g.Degree(JobKey("adzuna:3")))
	}
	if g.Degree(SkillKey("sql")) != 2 {
		t.Fatalf("expected sql to connect 2 jobs, got %d", g.Degree(SkillKey("sql")))
	}
}

func TestBuildKeepsSeedNodesWithoutJobs(t *testing.T) {
	g, summary := Build([]string{"python", "docker"}, &jobs.Jobs{}, nil)

	if !g.HasNode(SkillKey("python")) || !g.HasNode(SkillKey("docker")) {
		t.Fatal("seed skills must get nodes even with no jobs")
	}
	if summary.JobCount != 0 || summary.EdgeCount != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestNodesByKind(t *testing.T) {
	g := New()
	g.AddSkill("python")
	g.AddSkill("sql")
	g.AddJob("adzuna:1", "Data Analyst", "adzuna")

	if got := len(g.Nodes(KindSkill)); got != 2 {
		t.Fatalf("expected 2 skill nodes, got %d", got)
	}
	if got := len(g.Nodes(KindJob)); got != 1 {
		t.Fatalf("expected 1 job node, got %d", got)
	}
}
