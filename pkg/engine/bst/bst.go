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

// Package bst generates step traces for plain binary search tree
// insertion. No rebalancing takes place; the avl package layers that
// on top of the same model.
package bst

import (
	"errors"

	"github.com/algoviz/steptrace/pkg/model"
	"github.com/algoviz/steptrace/pkg/trace"
)

var ErrNotFound = errors.New("bst: value not in tree")

// Insert performs ordered insertion of value at a leaf position,
// emitting a comparison step per visited node. Duplicates descend
// right so that repeated values are accepted rather than dropped.
func Insert(t *model.Tree, value int) *trace.Trace {
	rec := trace.NewRecorder(trace.FamilyBST, "insert")

	n := t.NewNode(value)
	if t.Root == "" {
		t.Root = n.ID
		rec.Record(trace.KindInsert, t.Clone(), []string{n.ID}, "insert %d as root", value)
		rec.Complete(t.Clone(), []string{n.ID}, "insert of %d complete", value)
		return rec.Trace()
	}

	cur := t.Node(t.Root)
	for {
		dir := "right"
		next := cur.Right
		if value < cur.Value {
			dir = "left"
			next = cur.Left
		}
		rec.Record(trace.KindCompare, t.Clone(), []string{cur.ID},
			"compare %d with %d, descend %s", value, cur.Value, dir)
		if next == "" {
			if dir == "left" {
				cur.Left = n.ID
			} else {
				cur.Right = n.ID
			}
			n.Parent = cur.ID
			break
		}
		cur = t.Node(next)
	}

	rec.Record(trace.KindInsert, t.Clone(), []string{n.ID},
		"insert %d as %s child of %d", value, childSide(t, n.ID), cur.Value)
	rec.Complete(t.Clone(), []string{n.ID}, "insert of %d complete", value)
	return rec.Trace()
}

func childSide(t *model.Tree, id string) string {
	n := t.Node(id)
	p := t.Node(n.Parent)
	if p != nil && p.Left == id {
		return "left"
	}
	return "right"
}

// Delete removes the first node holding value using the standard BST
// unlink (successor swap for two children). It is deliberately not a
// stepped algorithm: the removal is reported as a single event by the
// caller and no rebalancing is attempted.
func Delete(t *model.Tree, value int) error {
	id := find(t, value)
	if id == "" {
		return ErrNotFound
	}
	remove(t, id)
	return nil
}

func find(t *model.Tree, value int) string {
	cur := t.Node(t.Root)
	for cur != nil {
		if value == cur.Value {
			return cur.ID
		}
		if value < cur.Value {
			cur = t.Node(cur.Left)
		} else {
			cur = t.Node(cur.Right)
		}
	}
	return ""
}

func remove(t *model.Tree, id string) {
	n := t.Node(id)
	if n.Left != "" && n.Right != "" {
		// Two children: swap in the in-order successor's value and
		// remove the successor instead.
		succ := t.Node(n.Right)
		for succ.Left != "" {
			succ = t.Node(succ.Left)
		}
		n.Value = succ.Value
		remove(t, succ.ID)
		return
	}
	child := n.Left
	if child == "" {
		child = n.Right
	}
	if c := t.Node(child); c != nil {
		c.Parent = n.Parent
	}
	if p := t.Node(n.Parent); p != nil {
		if p.Left == id {
			p.Left = child
		} else {
			p.Right = child
		}
	} else {
		t.Root = child
	}
	delete(t.Nodes, id)
}
