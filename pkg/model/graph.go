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

package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownNode = errors.New("graph: unknown node")
	ErrUnknownEdge = errors.New("graph: unknown edge")
)

// GraphNode is a vertex. X and Y are cosmetic layout coordinates owned
// by the rendering layer; algorithms treat them as opaque.
type GraphNode struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// GraphEdge connects From to To. Direction is meaningful only when the
// owning graph is directed.
type GraphEdge struct {
	ID     string  `json:"id"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

// Graph is a node and edge set with a graph-level directed flag that
// applies uniformly to all edges. Node and edge order is insertion
// order, which the algorithms rely on for determinism.
type Graph struct {
	Directed bool         `json:"directed"`
	Nodes    []*GraphNode `json:"nodes"`
	Edges    []*GraphEdge `json:"edges"`

	nodeSeq int
	edgeSeq int
}

func NewGraph(directed bool) *Graph {
	return &Graph{Directed: directed}
}

func (g *Graph) Node(id string) *GraphNode {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (g *Graph) Edge(id string) *GraphEdge {
	for _, e := range g.Edges {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (g *Graph) AddNode(label string, x, y float64) *GraphNode {
	g.nodeSeq++
	n := &GraphNode{ID: fmt.Sprintf("v%d", g.nodeSeq), Label: label, X: x, Y: y}
	g.Nodes = append(g.Nodes, n)
	return n
}

func (g *Graph) AddEdge(from, to string, weight float64) (*GraphEdge, error) {
	if g.Node(from) == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, from)
	}
	if g.Node(to) == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, to)
	}
	g.edgeSeq++
	e := &GraphEdge{ID: fmt.Sprintf("e%d", g.edgeSeq), From: from, To: to, Weight: weight}
	g.Edges = append(g.Edges, e)
	return e, nil
}

// DeleteNode removes the node and cascades to every incident edge.
func (g *Graph) DeleteNode(id string) error {
	if g.Node(id) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	nodes := g.Nodes[:0]
	for _, n := range g.Nodes {
		if n.ID != id {
			nodes = append(nodes, n)
		}
	}
	g.Nodes = nodes
	edges := g.Edges[:0]
	for _, e := range g.Edges {
		if e.From != id && e.To != id {
			edges = append(edges, e)
		}
	}
	g.Edges = edges
	return nil
}

func (g *Graph) DeleteEdge(id string) error {
	for i, e := range g.Edges {
		if e.ID == id {
			g.Edges = append(g.Edges[:i], g.Edges[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownEdge, id)
}

// IncidentEdges returns the edges leaving id: outgoing edges only for a
// directed graph, edges touching id in either direction otherwise.
func (g *Graph) IncidentEdges(id string) []*GraphEdge {
	var out []*GraphEdge
	for _, e := range g.Edges {
		if e.From == id || (!g.Directed && e.To == id) {
			out = append(out, e)
		}
	}
	return out
}

// Far returns the endpoint of e that is not id.
func (e *GraphEdge) Far(id string) string {
	if e.From == id {
		return e.To
	}
	return e.From
}

// Clone deep-copies nodes and edges, preserving ids and counters.
func (g *Graph) Clone() *Graph {
	c := &Graph{Directed: g.Directed, nodeSeq: g.nodeSeq, edgeSeq: g.edgeSeq}
	c.Nodes = make([]*GraphNode, len(g.Nodes))
	for i, n := range g.Nodes {
		cp := *n
		c.Nodes[i] = &cp
	}
	c.Edges = make([]*GraphEdge, len(g.Edges))
	for i, e := range g.Edges {
		cp := *e
		c.Edges[i] = &cp
	}
	return c
}

func (g *Graph) SnapshotKind() string { return "graph" }
