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

// Package validate checks structural invariants against the current
// materialized structure on demand. Violations are advisory: they are
// returned as a list and never thrown, since the visualizer must stay
// explorable even in an invalid intermediate state.
package validate

import (
	"fmt"
	"strconv"

	"github.com/algoviz/steptrace/pkg/model"
)

// Violation names one broken invariant on one element.
type Violation struct {
	ElementID string `json:"elementId"`
	Message   string `json:"message"`
}

// BST checks the ordering invariant: every node's value lies strictly
// inside the bounds imposed by its ancestors.
func BST(t *model.Tree) []Violation {
	var out []Violation
	var walk func(id string, min, max *int)
	walk = func(id string, min, max *int) {
		n := t.Node(id)
		if n == nil {
			return
		}
		// Duplicates descend right, so the lower bound is inclusive
		// and the upper bound exclusive.
		if min != nil && n.Value < *min {
			out = append(out, Violation{ElementID: n.ID,
				Message: fmt.Sprintf("value %d is below ancestor bound %d", n.Value, *min)})
		}
		if max != nil && n.Value >= *max {
			out = append(out, Violation{ElementID: n.ID,
				Message: fmt.Sprintf("value %d is not below ancestor bound %d", n.Value, *max)})
		}
		walk(n.Left, min, &n.Value)
		walk(n.Right, &n.Value, max)
	}
	walk(t.Root, nil, nil)
	return out
}

// AVL checks BST ordering plus |balance factor| <= 1 on every node.
func AVL(t *model.Tree) []Violation {
	out := BST(t)
	for id := range t.Nodes {
		if bf := t.BalanceFactor(id); bf > 1 || bf < -1 {
			out = append(out, Violation{ElementID: id,
				Message: fmt.Sprintf("balance factor is %+d", bf)})
		}
	}
	return out
}

// BTree checks key ordering, key/child count coupling and the
// equal-leaf-depth invariant.
func BTree(t *model.BTree) []Violation {
	var out []Violation
	maxKeys := t.Order - 1
	for _, n := range t.Nodes {
		if len(n.Keys) == 0 || len(n.Keys) > maxKeys {
			out = append(out, Violation{ElementID: n.ID,
				Message: fmt.Sprintf("node holds %d keys, want 1..%d", len(n.Keys), maxKeys)})
		}
		for i := 1; i < len(n.Keys); i++ {
			if n.Keys[i-1] >= n.Keys[i] {
				out = append(out, Violation{ElementID: n.ID,
					Message: fmt.Sprintf("keys %v are not strictly ascending", n.Keys)})
				break
			}
		}
		if !n.Leaf() && len(n.Children) != len(n.Keys)+1 {
			out = append(out, Violation{ElementID: n.ID,
				Message: fmt.Sprintf("internal node has %d children for %d keys", len(n.Children), len(n.Keys))})
		}
	}
	depths := t.LeafDepths()
	want := -1
	for id, d := range depths {
		if want == -1 {
			want = d
			continue
		}
		if d != want {
			out = append(out, Violation{ElementID: id,
				Message: fmt.Sprintf("leaf depth %d differs from %d", d, want)})
		}
	}
	return out
}

// Heap checks the parent/child ordering invariant for every existing
// pair. Element ids are array indexes.
func Heap(h *model.Heap) []Violation {
	var out []Violation
	for i := 1; i < h.Len(); i++ {
		p := model.ParentIndex(i)
		if !h.InOrder(p, i) {
			out = append(out, Violation{ElementID: strconv.Itoa(i),
				Message: fmt.Sprintf("%d at index %d violates %s order against parent %d at index %d",
					h.Items[i], i, h.Sense, h.Items[p], p)})
		}
	}
	return out
}
