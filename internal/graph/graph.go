// Package graph builds and ranks a bipartite graph of skill and job nodes.
package graph

import (
	"fmt"
)

type NodeKind string

const (
	KindSkill NodeKind = "skill"
	KindJob   NodeKind = "job"
)

// Node keys are prefixed with the kind ("skill:sql", "job:adzuna:42") so a
// skill tag can never collide with a job identifier.
type Node struct {
	Key    string
	Kind   NodeKind
	Label  string
	Source string
}

// Graph is an undirected bipartite graph. Edges connect exactly one skill
// node and one job node; the weight of every edge is fixed at 1.0.
type Graph struct {
	nodes map[string]*Node
	adj   map[string]map[string]struct{}
	edges int
}

// Summary carries the counts the orchestrator uses to detect empty or sparse
// graphs.
type Summary struct {
	SeedSkillCount int `json:"cv_skill_count"`
	JobCount       int `json:"job_count"`
	NodeCount      int `json:"node_count"`
	EdgeCount      int `json:"edge_count"`
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		adj:   make(map[string]map[string]struct{}),
	}
}

func SkillKey(tag string) string { return "skill:" + tag }
func JobKey(id string) string    { return "job:" + id }

// AddSkill ensures a skill node for tag exists.
func (g *Graph) AddSkill(tag string) {
	key := SkillKey(tag)
	if _, ok := g.nodes[key]; ok {
		return
	}
	g.nodes[key] = &Node{Key: key, Kind: KindSkill, Label: tag}
	g.adj[key] = make(map[string]struct{})
}

// AddJob ensures a job node for id exists, labeled with title and source.
func (g *Graph) AddJob(id, title, source string) {
	key := JobKey(id)
	if _, ok := g.nodes[key]; ok {
		return
	}
	g.nodes[key] = &Node{Key: key, Kind: KindJob, Label: title, Source: source}
	g.adj[key] = make(map[string]struct{})
}

// AddEdge connects a job node and a skill node. Both nodes must already
// exist; connecting two nodes of the same kind is an error, which keeps the
// bipartite invariant enforced at the lowest level.
func (g *Graph) AddEdge(jobID, skillTag string) error {
	jobKey, skillKey := JobKey(jobID), SkillKey(skillTag)

	jn, ok := g.nodes[jobKey]
	if !ok {
		return fmt.Errorf("job node %q does not exist", jobID)
	}
	sn, ok := g.nodes[skillKey]
	if !ok {
		return fmt.Errorf("skill node %q does not exist", skillTag)
	}
	if jn.Kind == sn.Kind {
		return fmt.Errorf("edge %q - %q connects two %s nodes", jobKey, skillKey, jn.Kind)
	}

	if _, dup := g.adj[jobKey][skillKey]; dup {
		return nil
	}

	g.adj[jobKey][skillKey] = struct{}{}
	g.adj[skillKey][jobKey] = struct{}{}
	g.edges++

	return nil
}

func (g *Graph) HasNode(key string) bool {
	_, ok := g.nodes[key]
	return ok
}

func (g *Graph) Node(key string) *Node {
	return g.nodes[key]
}

// Neighbors returns the adjacent node keys of key.
func (g *Graph) Neighbors(key string) []string {
	out := make([]string, 0, len(g.adj[key]))
	for n := range g.adj[key] {
		out = append(out, n)
	}
	return out
}

func (g *Graph) Degree(key string) int {
	return len(g.adj[key])
}

func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return g.edges }

// Nodes returns all nodes of the given kind.
func (g *Graph) Nodes(kind NodeKind) []*Node {
	out := make([]*Node, 0)
	for _, n := range g.nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}
