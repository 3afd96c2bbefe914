/*
 * Copyright (C) 2023 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// Package graph generates step traces for Prim, Dijkstra and Kahn
// topological sort. There is no single "the tree" here, so snapshots
// carry the auxiliary collections (candidate lists, distance tables,
// in-degree tables) alongside the input graph.
package graph

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/algoviz/steptrace/pkg/model"
	"github.com/algoviz/steptrace/pkg/trace"
)

// Precondition errors: no trace is produced for these.
var (
	ErrDirected       = errors.New("graph: prim requires an undirected graph")
	ErrUndirected     = errors.New("graph: topological sort requires a directed graph")
	ErrNegativeWeight = errors.New("graph: dijkstra requires nonnegative edge weights")
	ErrStartNotFound  = errors.New("graph: start node not found")
	ErrEmpty          = errors.New("graph: graph has no nodes")
)

// EdgeRef is a lightweight copy of an edge for queue snapshots.
type EdgeRef struct {
	ID     string  `json:"id"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

// PrimSnapshot is the auxiliary state of one Prim step.
type PrimSnapshot struct {
	Graph       *model.Graph `json:"graph"`
	Visited     []string     `json:"visited"`
	Candidates  []EdgeRef    `json:"candidates"`
	MST         []string     `json:"mst"`
	TotalWeight float64      `json:"totalWeight"`
}

func (PrimSnapshot) SnapshotKind() string { return "prim" }

// QueueEntry is one priority-list entry of Dijkstra. Stale entries for
// nodes whose distance has since improved stay in the list and are
// skipped when popped.
type QueueEntry struct {
	Node string  `json:"node"`
	Dist float64 `json:"dist"`
}

// DijkstraSnapshot is the auxiliary state of one Dijkstra step. Dist
// holds only finite entries; a node absent from it is at infinity.
type DijkstraSnapshot struct {
	Graph   *model.Graph       `json:"graph"`
	Visited []string           `json:"visited"`
	Queue   []QueueEntry       `json:"queue"`
	Dist    map[string]float64 `json:"dist"`
}

func (DijkstraSnapshot) SnapshotKind() string { return "dijkstra" }

// TopoSnapshot is the auxiliary state of one Kahn step.
type TopoSnapshot struct {
	Graph    *model.Graph   `json:"graph"`
	InDegree map[string]int `json:"inDegree"`
	Queue    []string       `json:"queue"`
	Order    []string       `json:"order"`
}

func (TopoSnapshot) SnapshotKind() string { return "topo" }

// Prim computes a minimum spanning tree from the first node in input
// order. The candidate list is kept sorted ascending by weight; popped
// edges whose far endpoint is already visited are skipped. A
// disconnected graph terminates in an error step naming the unreached
// nodes.
func Prim(g *model.Graph) (*trace.Trace, error) {
	if g.Directed {
		return nil, ErrDirected
	}
	if len(g.Nodes) == 0 {
		return nil, ErrEmpty
	}

	rec := trace.NewRecorder(trace.FamilyGraph, "prim")
	visited := map[string]bool{}
	var visitOrder []string
	var candidates []*model.GraphEdge
	var mst []string
	total := 0.0

	snap := func() PrimSnapshot {
		s := PrimSnapshot{
			Graph:       g.Clone(),
			Visited:     append([]string(nil), visitOrder...),
			MST:         append([]string(nil), mst...),
			TotalWeight: total,
		}
		for _, e := range candidates {
			s.Candidates = append(s.Candidates, EdgeRef{ID: e.ID, From: e.From, To: e.To, Weight: e.Weight})
		}
		return s
	}

	visit := func(id string) {
		visited[id] = true
		visitOrder = append(visitOrder, id)
		rec.Record(trace.KindVisit, snap(), []string{id}, "visit node %s", g.Node(id).Label)
		var added int
		for _, e := range g.IncidentEdges(id) {
			if !visited[e.Far(id)] {
				candidates = append(candidates, e)
				added++
			}
		}
		sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Weight < candidates[j].Weight })
		rec.Record(trace.KindEnqueue, snap(), []string{id},
			"enqueue %d candidate edge(s) of %s, list sorted by weight", added, g.Node(id).Label)
	}

	visit(g.Nodes[0].ID)
	for len(candidates) > 0 {
		e := candidates[0]
		candidates = candidates[1:]
		var far string
		switch {
		case visited[e.From] && visited[e.To]:
			rec.Record(trace.KindProcess, snap(), []string{e.ID},
				"pop edge %s-%s (weight %g), both endpoints already visited, skip",
				g.Node(e.From).Label, g.Node(e.To).Label, e.Weight)
			continue
		case visited[e.From]:
			far = e.To
		default:
			far = e.From
		}
		mst = append(mst, e.ID)
		total += e.Weight
		rec.Record(trace.KindProcess, snap(), []string{e.ID},
			"pop minimum edge %s-%s (weight %g), add to MST",
			g.Node(e.From).Label, g.Node(e.To).Label, e.Weight)
		visit(far)
	}

	if len(visitOrder) < len(g.Nodes) {
		var unreached []string
		for _, n := range g.Nodes {
			if !visited[n.ID] {
				unreached = append(unreached, n.Label)
			}
		}
		rec.Error(snap(), nil, "graph is disconnected, unreached nodes: %s", strings.Join(unreached, ", "))
		return rec.Trace(), nil
	}
	rec.Complete(snap(), mst, "MST complete with %d edge(s), total weight %g", len(mst), total)
	return rec.Trace(), nil
}

// Dijkstra relaxes edges from start until every reachable node has its
// shortest distance. The priority list is re-sorted ascending by
// distance each iteration; there is no decrease-key, stale entries are
// tolerated because the visited check skips them.
func Dijkstra(g *model.Graph, start string) (*trace.Trace, error) {
	for _, e := range g.Edges {
		if e.Weight < 0 {
			return nil, fmt.Errorf("%w: edge %s has weight %g", ErrNegativeWeight, e.ID, e.Weight)
		}
	}
	if g.Node(start) == nil {
		return nil, fmt.Errorf("%w: %s", ErrStartNotFound, start)
	}

	rec := trace.NewRecorder(trace.FamilyGraph, "dijkstra")
	dist := map[string]float64{}
	for _, n := range g.Nodes {
		dist[n.ID] = math.Inf(1)
	}
	dist[start] = 0
	visited := map[string]bool{}
	var visitOrder []string
	queue := []QueueEntry{{Node: start, Dist: 0}}

	snap := func() DijkstraSnapshot {
		s := DijkstraSnapshot{
			Graph:   g.Clone(),
			Visited: append([]string(nil), visitOrder...),
			Queue:   append([]QueueEntry(nil), queue...),
			Dist:    map[string]float64{},
		}
		for id, d := range dist {
			if !math.IsInf(d, 1) {
				s.Dist[id] = d
			}
		}
		return s
	}

	for len(queue) > 0 {
		sort.SliceStable(queue, func(i, j int) bool { return queue[i].Dist < queue[j].Dist })
		cur := queue[0]
		queue = queue[1:]
		if visited[cur.Node] {
			rec.Record(trace.KindProcess, snap(), []string{cur.Node},
				"skip stale queue entry for %s", g.Node(cur.Node).Label)
			continue
		}
		visited[cur.Node] = true
		visitOrder = append(visitOrder, cur.Node)
		rec.Record(trace.KindVisit, snap(), []string{cur.Node},
			"visit %s at distance %g", g.Node(cur.Node).Label, dist[cur.Node])

		for _, e := range g.IncidentEdges(cur.Node) {
			far := e.Far(cur.Node)
			if visited[far] {
				continue
			}
			nd := dist[cur.Node] + e.Weight
			if nd < dist[far] {
				dist[far] = nd
				queue = append(queue, QueueEntry{Node: far, Dist: nd})
				rec.Record(trace.KindRelax, snap(), []string{e.ID, far},
					"relax edge to %s, distance improves to %g", g.Node(far).Label, nd)
			} else {
				rec.Record(trace.KindRelax, snap(), []string{e.ID, far},
					"relax edge to %s, no improvement over %g", g.Node(far).Label, dist[far])
			}
		}
	}

	rec.Complete(snap(), visitOrder, "dijkstra complete, %d of %d node(s) reachable from %s",
		len(visitOrder), len(g.Nodes), g.Node(start).Label)
	return rec.Trace(), nil
}

// Distances extracts the final distance table from a completed
// Dijkstra trace. Nodes absent from the table are unreachable.
func Distances(t *trace.Trace) map[string]float64 {
	if t == nil || t.Len() == 0 {
		return nil
	}
	if s, ok := t.Last().Snapshot.(DijkstraSnapshot); ok {
		return s.Dist
	}
	return nil
}

// TopologicalSort runs Kahn's algorithm. A graph whose result order
// does not include every node has a cycle; the trace then terminates
// in an error step naming the nodes with residual nonzero in-degree.
func TopologicalSort(g *model.Graph) (*trace.Trace, error) {
	if !g.Directed {
		return nil, ErrUndirected
	}

	rec := trace.NewRecorder(trace.FamilyGraph, "toposort")
	inDegree := map[string]int{}
	for _, n := range g.Nodes {
		inDegree[n.ID] = 0
	}
	for _, e := range g.Edges {
		inDegree[e.To]++
	}
	var queue, order []string
	for _, n := range g.Nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	snap := func() TopoSnapshot {
		s := TopoSnapshot{
			Graph:    g.Clone(),
			InDegree: map[string]int{},
			Queue:    append([]string(nil), queue...),
			Order:    append([]string(nil), order...),
		}
		for id, d := range inDegree {
			s.InDegree[id] = d
		}
		return s
	}

	rec.Record(trace.KindEnqueue, snap(), queue,
		"seed queue with %d node(s) of in-degree zero", len(queue))

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		rec.Record(trace.KindProcess, snap(), []string{id},
			"dequeue %s, append to result order", g.Node(id).Label)
		for _, e := range g.Edges {
			if e.From != id {
				continue
			}
			inDegree[e.To]--
			if inDegree[e.To] == 0 {
				queue = append(queue, e.To)
				rec.Record(trace.KindEnqueue, snap(), []string{e.To},
					"in-degree of %s reaches zero, enqueue", g.Node(e.To).Label)
			}
		}
	}

	if len(order) < len(g.Nodes) {
		var residual []string
		for _, n := range g.Nodes {
			if inDegree[n.ID] > 0 {
				residual = append(residual, n.Label)
			}
		}
		rec.Error(snap(), nil, "cycle detected, nodes with residual in-degree: %s", strings.Join(residual, ", "))
		return rec.Trace(), nil
	}
	rec.Complete(snap(), order, "topological order complete with %d node(s)", len(order))
	return rec.Trace(), nil
}

// Order extracts the final result order from a completed topological
// sort trace.
func Order(t *trace.Trace) []string {
	if t == nil || t.Len() == 0 {
		return nil
	}
	if s, ok := t.Last().Snapshot.(TopoSnapshot); ok {
		return s.Order
	}
	return nil
}
