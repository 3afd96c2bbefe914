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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeIDsAreSequential(t *testing.T) {
	tr := NewTree()
	a := tr.NewNode(5)
	b := tr.NewNode(7)
	require.Equal(t, "n1", a.ID)
	require.Equal(t, "n2", b.ID)

	// A second tree starts its own sequence: ids are scoped to the
	// owning structure, not global.
	other := NewTree()
	require.Equal(t, "n1", other.NewNode(1).ID)
}

func TestTreeHeightAndBalance(t *testing.T) {
	tr := NewTree()
	root := tr.NewNode(50)
	tr.Root = root.ID
	left := tr.NewNode(30)
	left.Parent = root.ID
	root.Left = left.ID
	leftLeft := tr.NewNode(20)
	leftLeft.Parent = left.ID
	left.Left = leftLeft.ID

	assert.Equal(t, 2, tr.Height(root.ID))
	assert.Equal(t, 0, tr.Height(leftLeft.ID))
	assert.Equal(t, -1, tr.Height(""))
	// Left chain of two nodes against an absent right child.
	assert.Equal(t, 2, tr.BalanceFactor(root.ID))
	assert.Equal(t, 2, tr.Depth(leftLeft.ID))
	assert.Equal(t, 0, tr.Depth(root.ID))
}

func TestTreeCloneIsIndependentAndKeepsIDs(t *testing.T) {
	tr := NewTree()
	root := tr.NewNode(10)
	tr.Root = root.ID

	c := tr.Clone()
	require.Equal(t, root.ID, c.Root)
	c.Nodes[c.Root].Value = 99
	assert.Equal(t, 10, tr.Nodes[tr.Root].Value, "clone must not share nodes with the original")

	// The clone continues the same id sequence.
	require.Equal(t, "n2", c.NewNode(20).ID)
}

func TestBTreeLeafDepths(t *testing.T) {
	bt := NewBTree(3)
	root := bt.NewNode()
	root.Keys = []int{20}
	left := bt.NewNode()
	left.Keys = []int{10}
	left.Parent = root.ID
	right := bt.NewNode()
	right.Keys = []int{30}
	right.Parent = root.ID
	root.Children = []string{left.ID, right.ID}
	bt.Root = root.ID

	depths := bt.LeafDepths()
	require.Len(t, depths, 2)
	assert.Equal(t, 1, depths[left.ID])
	assert.Equal(t, 1, depths[right.ID])
	assert.Equal(t, 1, bt.Height())
}

func TestHeapOrderPredicates(t *testing.T) {
	h := NewHeap(SenseMin)
	h.Items = []int{1, 5, 3}
	assert.True(t, h.InOrder(0, 1))
	assert.True(t, h.Prefer(3, 5))

	h = NewHeap(SenseMax)
	h.Items = []int{9, 5, 3}
	assert.True(t, h.InOrder(0, 2))
	assert.True(t, h.Prefer(5, 3))
}

func TestHuffNodeClone(t *testing.T) {
	root := &HuffNode{ID: "h3", Freq: 14,
		Left:  &HuffNode{ID: "h1", Symbol: "a", Freq: 5},
		Right: &HuffNode{ID: "h2", Symbol: "b", Freq: 9},
	}
	c := root.Clone()
	c.Left.Freq = 99
	assert.Equal(t, 5, root.Left.Freq)
	assert.Equal(t, "h1", c.Left.ID, "clone copies identity, never regenerates it")
}

func TestGraphDeleteNodeCascades(t *testing.T) {
	g := NewGraph(false)
	a := g.AddNode("A", 0, 0)
	b := g.AddNode("B", 1, 0)
	c := g.AddNode("C", 2, 0)
	_, err := g.AddEdge(a.ID, b.ID, 1)
	require.NoError(t, err)
	keep, err := g.AddEdge(b.ID, c.ID, 2)
	require.NoError(t, err)

	require.NoError(t, g.DeleteNode(a.ID))
	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, keep.ID, g.Edges[0].ID)
}

func TestGraphIncidentEdgesRespectDirectedness(t *testing.T) {
	directed := NewGraph(true)
	a := directed.AddNode("A", 0, 0)
	b := directed.AddNode("B", 1, 0)
	_, err := directed.AddEdge(a.ID, b.ID, 1)
	require.NoError(t, err)
	assert.Len(t, directed.IncidentEdges(a.ID), 1)
	assert.Empty(t, directed.IncidentEdges(b.ID), "only outgoing edges count in a directed graph")

	undirected := NewGraph(false)
	a = undirected.AddNode("A", 0, 0)
	b = undirected.AddNode("B", 1, 0)
	_, err = undirected.AddEdge(a.ID, b.ID, 1)
	require.NoError(t, err)
	assert.Len(t, undirected.IncidentEdges(b.ID), 1)
}

func TestGraphAddEdgeUnknownEndpoint(t *testing.T) {
	g := NewGraph(false)
	g.AddNode("A", 0, 0)
	_, err := g.AddEdge("v1", "v99", 1)
	require.ErrorIs(t, err, ErrUnknownNode)
}
