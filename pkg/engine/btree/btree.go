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

// Package btree generates step traces for insertion into a B-tree of
// order 3 (2-3 tree) or order 4 (2-3-4 tree). Splits promote the
// second key: the left half keeps the first key, the right half the
// rest, so an order-4 overflow of [10 20 30 40] yields [10] / 20 /
// [30 40].
package btree

import (
	"errors"

	"github.com/algoviz/steptrace/pkg/model"
	"github.com/algoviz/steptrace/pkg/trace"
)

// ErrDeleteNotImplemented marks delete as a stub: the operation is
// reported as an event but no stepped rebalancing-on-delete exists.
var ErrDeleteNotImplemented = errors.New("btree: delete is not implemented as a stepped operation")

// Insert descends to the leaf whose key range contains value, inserts
// it sorted, then splits upward while any node exceeds order-1 keys.
// Every split and every promotion emits its own step with a full tree
// snapshot.
func Insert(t *model.BTree, value int) *trace.Trace {
	rec := trace.NewRecorder(trace.FamilyBTree, "insert")

	if t.Root == "" {
		root := t.NewNode()
		root.Keys = []int{value}
		t.Root = root.ID
		rec.Record(trace.KindInsert, t.Clone(), []string{root.ID}, "insert %d into new root", value)
		rec.Complete(t.Clone(), []string{root.ID}, "insert of %d complete", value)
		return rec.Trace()
	}

	cur := t.Node(t.Root)
	for {
		idx, found := keyPosition(cur.Keys, value)
		if found {
			rec.Record(trace.KindCompare, t.Clone(), []string{cur.ID},
				"key %d already present, nothing to insert", value)
			rec.Complete(t.Clone(), []string{cur.ID}, "insert of %d complete", value)
			return rec.Trace()
		}
		if cur.Leaf() {
			cur.Keys = insertInt(cur.Keys, idx, value)
			rec.Record(trace.KindInsert, t.Clone(), []string{cur.ID},
				"insert %d into leaf, keys now %v", value, cur.Keys)
			break
		}
		rec.Record(trace.KindTraverse, t.Clone(), []string{cur.ID},
			"keys %v do not contain %d, descend to child %d", cur.Keys, value, idx)
		cur = t.Node(cur.Children[idx])
	}

	for node := cur; node != nil && len(node.Keys) > t.Order-1; {
		node = split(t, rec, node)
	}

	rec.Complete(t.Clone(), nil, "insert of %d complete", value)
	return rec.Trace()
}

// split divides the overflowing node, promotes its second key one
// level up and returns the parent for the next overflow check (nil
// when a new root was synthesized).
func split(t *model.BTree, rec *trace.Recorder, node *model.BTreeNode) *model.BTreeNode {
	rec.Record(trace.KindOverflow, t.Clone(), []string{node.ID},
		"node holds %d keys %v, exceeding the maximum of %d", len(node.Keys), node.Keys, t.Order-1)

	mid := node.Keys[1]
	right := t.NewNode()
	right.Keys = append([]int(nil), node.Keys[2:]...)
	node.Keys = node.Keys[:1]
	if !node.Leaf() {
		right.Children = append([]string(nil), node.Children[2:]...)
		node.Children = node.Children[:2]
		for _, c := range right.Children {
			t.Node(c).Parent = right.ID
		}
	}
	rec.Record(trace.KindSplit, t.Clone(), []string{node.ID, right.ID},
		"split into %v and %v, middle key %d moves up", node.Keys, right.Keys, mid)

	parent := t.Node(node.Parent)
	if parent == nil {
		root := t.NewNode()
		root.Keys = []int{mid}
		root.Children = []string{node.ID, right.ID}
		node.Parent = root.ID
		right.Parent = root.ID
		t.Root = root.ID
		rec.Record(trace.KindNewRoot, t.Clone(), []string{root.ID},
			"tree grows by one level, new root %v", root.Keys)
		return nil
	}

	pos := childPosition(parent, node.ID)
	parent.Children = insertString(parent.Children, pos+1, right.ID)
	parent.Keys = insertInt(parent.Keys, pos, mid)
	right.Parent = parent.ID
	rec.Record(trace.KindPromote, t.Clone(), []string{parent.ID},
		"promote %d into parent, keys now %v", mid, parent.Keys)
	return parent
}

// keyPosition returns the child index whose range contains value, and
// whether value is already one of the keys.
func keyPosition(keys []int, value int) (int, bool) {
	for i, k := range keys {
		if value == k {
			return i, true
		}
		if value < k {
			return i, false
		}
	}
	return len(keys), false
}

func childPosition(parent *model.BTreeNode, id string) int {
	for i, c := range parent.Children {
		if c == id {
			return i
		}
	}
	return -1
}

func insertInt(s []int, i, v int) []int {
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func insertString(s []string, i int, v string) []string {
	s = append(s, "")
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
