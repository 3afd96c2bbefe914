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

// BTreeNode holds 1..order-1 sorted keys and, when internal, exactly
// len(Keys)+1 children. Children are ownership edges; Parent is a
// lookup key only.
type BTreeNode struct {
	ID       string   `json:"id"`
	Keys     []int    `json:"keys"`
	Children []string `json:"children,omitempty"`
	Parent   string   `json:"parent,omitempty"`
}

// Leaf reports whether the node has no children.
func (n *BTreeNode) Leaf() bool { return len(n.Children) == 0 }

// BTree is an arena-backed B-tree of a fixed order (3 for a 2-3 tree,
// 4 for a 2-3-4 tree). Order is the maximum child count; the maximum
// key count per node is Order-1.
type BTree struct {
	Order int                   `json:"order"`
	Root  string                `json:"root,omitempty"`
	Nodes map[string]*BTreeNode `json:"nodes"`

	seq int
}

func NewBTree(order int) *BTree {
	return &BTree{Order: order, Nodes: map[string]*BTreeNode{}}
}

// NewNode allocates an unlinked node with the next id.
func (t *BTree) NewNode() *BTreeNode {
	t.seq++
	n := &BTreeNode{ID: fmt.Sprintf("b%d", t.seq)}
	t.Nodes[n.ID] = n
	return n
}

func (t *BTree) Node(id string) *BTreeNode {
	if id == "" {
		return nil
	}
	return t.Nodes[id]
}

func (t *BTree) Size() int { return len(t.Nodes) }

// Height returns the edge count from the root to any leaf (all leaves
// sit at equal depth in a valid tree). An empty tree has height -1.
func (t *BTree) Height() int {
	h := -1
	for n := t.Node(t.Root); n != nil; {
		h++
		if n.Leaf() {
			break
		}
		n = t.Node(n.Children[0])
	}
	return h
}

// LeafDepths returns the depth of every leaf, keyed by leaf id.
func (t *BTree) LeafDepths() map[string]int {
	depths := map[string]int{}
	var walk func(id string, d int)
	walk = func(id string, d int) {
		n := t.Node(id)
		if n == nil {
			return
		}
		if n.Leaf() {
			depths[n.ID] = d
			return
		}
		for _, c := range n.Children {
			walk(c, d+1)
		}
	}
	walk(t.Root, 0)
	return depths
}

// Clone deep-copies the arena, preserving ids and the id counter.
func (t *BTree) Clone() *BTree {
	c := &BTree{Order: t.Order, Root: t.Root, Nodes: make(map[string]*BTreeNode, len(t.Nodes)), seq: t.seq}
	for id, n := range t.Nodes {
		cp := &BTreeNode{ID: n.ID, Parent: n.Parent}
		cp.Keys = append([]int(nil), n.Keys...)
		cp.Children = append([]string(nil), n.Children...)
		c.Nodes[id] = cp
	}
	return c
}

func (t *BTree) SnapshotKind() string { return "btree" }
