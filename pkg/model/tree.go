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

import "fmt"

// TreeNode is one node of a binary search tree. Left and Right are
// ownership edges; Parent is a lookup key only and must never be
// followed when cloning or serializing. The empty string means "no
// such node".
type TreeNode struct {
	ID     string `json:"id"`
	Value  int    `json:"value"`
	Left   string `json:"left,omitempty"`
	Right  string `json:"right,omitempty"`
	Parent string `json:"parent,omitempty"`
}

// Tree is an arena of binary tree nodes keyed by stable ids. Ids come
// from a per-tree monotonic counter so that repeated runs over the same
// input produce identical ids. Shared by the BST and AVL families.
type Tree struct {
	Root  string               `json:"root,omitempty"`
	Nodes map[string]*TreeNode `json:"nodes"`

	seq int
}

func NewTree() *Tree {
	return &Tree{Nodes: map[string]*TreeNode{}}
}

// NewNode allocates a node in the arena with the next id. The node is
// not linked anywhere yet.
func (t *Tree) NewNode(value int) *TreeNode {
	t.seq++
	n := &TreeNode{ID: fmt.Sprintf("n%d", t.seq), Value: value}
	t.Nodes[n.ID] = n
	return n
}

// Node returns the node for id, or nil for the empty id or an unknown id.
func (t *Tree) Node(id string) *TreeNode {
	if id == "" {
		return nil
	}
	return t.Nodes[id]
}

func (t *Tree) Size() int { return len(t.Nodes) }

// Height returns the node height of the subtree rooted at id, where a
// single node has height 0. An absent subtree has height -1. Heights
// are recomputed on demand rather than stored so they can never go
// stale across rotations.
func (t *Tree) Height(id string) int {
	n := t.Node(id)
	if n == nil {
		return -1
	}
	lh := t.Height(n.Left)
	rh := t.Height(n.Right)
	if lh > rh {
		return lh + 1
	}
	return rh + 1
}

// BalanceFactor returns left height minus right height for the node at
// id, counting an absent child as 0 on the +1-adjusted scale: a leaf
// child contributes 1, a missing child contributes 0.
func (t *Tree) BalanceFactor(id string) int {
	n := t.Node(id)
	if n == nil {
		return 0
	}
	return (t.Height(n.Left) + 1) - (t.Height(n.Right) + 1)
}

// Depth returns the number of edges from the root to id, walking the
// parent keys upward.
func (t *Tree) Depth(id string) int {
	d := 0
	for n := t.Node(id); n != nil && n.Parent != ""; n = t.Node(n.Parent) {
		d++
	}
	return d
}

// Clone deep-copies the arena. Ids and the id counter are preserved so
// a clone continues the same id sequence and nodes keep their identity
// across snapshots.
func (t *Tree) Clone() *Tree {
	c := &Tree{Root: t.Root, Nodes: make(map[string]*TreeNode, len(t.Nodes)), seq: t.seq}
	for id, n := range t.Nodes {
		cp := *n
		c.Nodes[id] = &cp
	}
	return c
}

// InOrder returns node ids in ascending value order.
func (t *Tree) InOrder() []string {
	var out []string
	var walk func(id string)
	walk = func(id string) {
		n := t.Node(id)
		if n == nil {
			return
		}
		walk(n.Left)
		out = append(out, n.ID)
		walk(n.Right)
	}
	walk(t.Root)
	return out
}

func (t *Tree) SnapshotKind() string { return "tree" }
