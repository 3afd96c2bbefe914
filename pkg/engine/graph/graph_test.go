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

package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algoviz/steptrace/pkg/model"
	"github.com/algoviz/steptrace/pkg/trace"
)

// buildGraph adds one node per label and one edge per "from-to-weight"
// triple, weights given as small integers.
func buildGraph(t *testing.T, directed bool, labels []string, edges [][3]int) *model.Graph {
	t.Helper()
	g := model.NewGraph(directed)
	ids := make([]string, len(labels))
	for i, l := range labels {
		ids[i] = g.AddNode(l, 0, 0).ID
	}
	for _, e := range edges {
		_, err := g.AddEdge(ids[e[0]], ids[e[1]], float64(e[2]))
		require.NoError(t, err)
	}
	return g
}

func nodeID(g *model.Graph, label string) string {
	for _, n := range g.Nodes {
		if n.Label == label {
			return n.ID
		}
	}
	return ""
}

func TestPrimFindsMinimumSpanningTree(t *testing.T) {
	// Complete graph on 4 nodes; unique MST is a-b(1), b-c(2), a-d(3)
	// with weight 6.
	g := buildGraph(t, false, []string{"a", "b", "c", "d"}, [][3]int{
		{0, 1, 1}, {0, 2, 5}, {0, 3, 3}, {1, 2, 2}, {1, 3, 4}, {2, 3, 6},
	})
	tr, err := Prim(g)
	require.NoError(t, err)
	require.Equal(t, trace.KindComplete, tr.Last().Kind)

	final := tr.Last().Snapshot.(PrimSnapshot)
	assert.Len(t, final.MST, 3)
	assert.Equal(t, 6.0, final.TotalWeight)

	// Brute force over all 3-edge subsets confirms 6 is the minimum
	// spanning weight.
	best := bruteForceMSTWeight(g)
	assert.Equal(t, best, final.TotalWeight)
}

// bruteForceMSTWeight enumerates every edge subset of spanning-tree
// size and returns the lowest total weight among the connected ones.
func bruteForceMSTWeight(g *model.Graph) float64 {
	n := len(g.Nodes)
	best := -1.0
	for mask := 0; mask < 1<<len(g.Edges); mask++ {
		var picked []*model.GraphEdge
		for i, e := range g.Edges {
			if mask&(1<<i) != 0 {
				picked = append(picked, e)
			}
		}
		if len(picked) != n-1 || !spans(g, picked) {
			continue
		}
		total := 0.0
		for _, e := range picked {
			total += e.Weight
		}
		if best < 0 || total < best {
			best = total
		}
	}
	return best
}

func spans(g *model.Graph, edges []*model.GraphEdge) bool {
	if len(g.Nodes) == 0 {
		return true
	}
	adj := map[string][]string{}
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e.To)
		adj[e.To] = append(adj[e.To], e.From)
	}
	seen := map[string]bool{g.Nodes[0].ID: true}
	stack := []string{g.Nodes[0].ID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range adj[id] {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return len(seen) == len(g.Nodes)
}

func TestPrimDisconnectedEndsInErrorStep(t *testing.T) {
	g := buildGraph(t, false, []string{"a", "b", "c", "d"}, [][3]int{{0, 1, 1}})
	tr, err := Prim(g)
	require.NoError(t, err, "a disconnected graph is an outcome, not a precondition failure")
	require.True(t, tr.Failed())
	last := tr.Last()
	assert.Equal(t, trace.KindError, last.Kind)
	assert.Contains(t, last.Description, "c")
	assert.Contains(t, last.Description, "d")
}

func TestPrimRejectsDirectedGraph(t *testing.T) {
	g := buildGraph(t, true, []string{"a", "b"}, [][3]int{{0, 1, 1}})
	tr, err := Prim(g)
	assert.ErrorIs(t, err, ErrDirected)
	assert.Nil(t, tr)
}

func TestPrimRejectsEmptyGraph(t *testing.T) {
	tr, err := Prim(model.NewGraph(false))
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Nil(t, tr)
}

func TestDijkstraMatchesBruteForce(t *testing.T) {
	g := buildGraph(t, false, []string{"a", "b", "c", "d", "e"}, [][3]int{
		{0, 1, 4}, {0, 2, 1}, {2, 1, 2}, {1, 3, 5}, {2, 3, 8}, {3, 4, 3},
	})
	start := nodeID(g, "a")
	tr, err := Dijkstra(g, start)
	require.NoError(t, err)
	require.Equal(t, trace.KindComplete, tr.Last().Kind)

	dist := Distances(tr)
	require.NotNil(t, dist)
	for _, n := range g.Nodes {
		want, reachable := bruteForcePath(g, start, n.ID)
		got, ok := dist[n.ID]
		require.Equal(t, reachable, ok, "node %s", n.Label)
		if reachable {
			assert.Equal(t, want, got, "node %s", n.Label)
		}
	}
	assert.Equal(t, 0.0, dist[start])
	assert.Equal(t, 3.0, dist[nodeID(g, "b")], "path a-c-b beats the direct edge")
}

// bruteForcePath enumerates simple paths depth-first and returns the
// cheapest total weight from from to to.
func bruteForcePath(g *model.Graph, from, to string) (float64, bool) {
	best := -1.0
	var walk func(id string, seen map[string]bool, total float64)
	walk = func(id string, seen map[string]bool, total float64) {
		if id == to {
			if best < 0 || total < best {
				best = total
			}
			return
		}
		for _, e := range g.IncidentEdges(id) {
			far := e.Far(id)
			if seen[far] {
				continue
			}
			seen[far] = true
			walk(far, seen, total+e.Weight)
			delete(seen, far)
		}
	}
	walk(from, map[string]bool{from: true}, 0)
	return best, best >= 0
}

func TestDijkstraRespectsEdgeDirection(t *testing.T) {
	g := buildGraph(t, true, []string{"a", "b", "c"}, [][3]int{
		{0, 1, 1}, {2, 1, 1},
	})
	tr, err := Dijkstra(g, nodeID(g, "a"))
	require.NoError(t, err)
	dist := Distances(tr)
	assert.Equal(t, 1.0, dist[nodeID(g, "b")])
	_, ok := dist[nodeID(g, "c")]
	assert.False(t, ok, "c only has an outgoing edge, it must stay unreachable")
}

func TestDijkstraUnreachableNodesAbsentFromTable(t *testing.T) {
	g := buildGraph(t, false, []string{"a", "b", "c"}, [][3]int{{0, 1, 2}})
	tr, err := Dijkstra(g, nodeID(g, "a"))
	require.NoError(t, err)
	require.Equal(t, trace.KindComplete, tr.Last().Kind, "partial reachability still completes")
	dist := Distances(tr)
	assert.Len(t, dist, 2)
	_, ok := dist[nodeID(g, "c")]
	assert.False(t, ok)
}

func TestDijkstraRejectsNegativeWeights(t *testing.T) {
	g := buildGraph(t, false, []string{"a", "b"}, [][3]int{{0, 1, 1}})
	g.Edges[0].Weight = -2
	tr, err := Dijkstra(g, nodeID(g, "a"))
	assert.ErrorIs(t, err, ErrNegativeWeight)
	assert.Nil(t, tr)
}

func TestDijkstraRejectsUnknownStart(t *testing.T) {
	g := buildGraph(t, false, []string{"a"}, nil)
	tr, err := Dijkstra(g, "nope")
	assert.ErrorIs(t, err, ErrStartNotFound)
	assert.Nil(t, tr)
}

func TestDijkstraSkipsStaleQueueEntries(t *testing.T) {
	// b is enqueued at distance 4, then improved to 3 through c before
	// it is popped, leaving one stale entry behind.
	g := buildGraph(t, false, []string{"a", "b", "c"}, [][3]int{
		{0, 1, 4}, {0, 2, 1}, {2, 1, 2},
	})
	tr, err := Dijkstra(g, nodeID(g, "a"))
	require.NoError(t, err)
	var stale int
	for _, s := range tr.Steps() {
		if s.Kind == trace.KindProcess && strings.Contains(s.Description, "stale") {
			stale++
		}
	}
	assert.Equal(t, 1, stale)
}

func TestTopologicalSortRespectsPrecedence(t *testing.T) {
	g := buildGraph(t, true, []string{"a", "b", "c", "d", "e"}, [][3]int{
		{0, 1, 0}, {0, 2, 0}, {1, 3, 0}, {2, 3, 0}, {3, 4, 0},
	})
	tr, err := TopologicalSort(g)
	require.NoError(t, err)
	require.Equal(t, trace.KindComplete, tr.Last().Kind)

	order := Order(tr)
	require.Len(t, order, len(g.Nodes))
	pos := map[string]int{}
	for i, id := range order {
		pos[id] = i
	}
	for _, e := range g.Edges {
		assert.Less(t, pos[e.From], pos[e.To], "edge %s must point forward in the order", e.ID)
	}
}

func TestTopologicalSortDetectsCycle(t *testing.T) {
	g := buildGraph(t, true, []string{"a", "b", "c", "d"}, [][3]int{
		{0, 1, 0}, {1, 2, 0}, {2, 1, 0}, {2, 3, 0},
	})
	tr, err := TopologicalSort(g)
	require.NoError(t, err)
	require.True(t, tr.Failed())
	last := tr.Last()
	assert.Equal(t, trace.KindError, last.Kind)
	assert.Contains(t, last.Description, "b")
	assert.Contains(t, last.Description, "c")
}

func TestTopologicalSortRejectsUndirectedGraph(t *testing.T) {
	g := buildGraph(t, false, []string{"a", "b"}, [][3]int{{0, 1, 1}})
	tr, err := TopologicalSort(g)
	assert.ErrorIs(t, err, ErrUndirected)
	assert.Nil(t, tr)
}

func TestSnapshotGraphsAreClones(t *testing.T) {
	g := buildGraph(t, false, []string{"a", "b"}, [][3]int{{0, 1, 1}})
	tr, err := Prim(g)
	require.NoError(t, err)
	snap := tr.At(0).Snapshot.(PrimSnapshot)
	require.NotSame(t, g, snap.Graph)
	g.Nodes[0].Label = "mutated"
	assert.Equal(t, "a", snap.Graph.Nodes[0].Label)
}
