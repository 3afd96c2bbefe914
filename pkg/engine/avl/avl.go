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

// Package avl generates step traces for AVL insertion with rebalance.
// A single-value insertion can unbalance at most one position on the
// ancestor chain, so the upward walk stops after the first rebalancing
// event.
package avl

import (
	log "github.com/sirupsen/logrus"

	"github.com/algoviz/steptrace/pkg/model"
	operationalMetrics "github.com/algoviz/steptrace/pkg/operational/metrics"
	"github.com/algoviz/steptrace/pkg/trace"
)

// Balancer owns an AVL tree and the running rotation counter that the
// rotation steps report. The counter spans the balancer's lifetime
// (i.e. one visualization session) and accumulates across batches.
type Balancer struct {
	tree      *model.Tree
	rotations int
}

func NewBalancer(t *model.Tree) *Balancer {
	return &Balancer{tree: t}
}

func (b *Balancer) Tree() *model.Tree { return b.tree }
func (b *Balancer) Rotations() int    { return b.rotations }

// Reset drops the tree contents and the rotation counter.
func (b *Balancer) Reset() {
	b.tree = model.NewTree()
	b.rotations = 0
}

// Insert performs one BST-insert-then-rebalance pass and returns its
// trace.
func (b *Balancer) Insert(value int) *trace.Trace {
	rec := trace.NewRecorder(trace.FamilyAVL, "insert")
	b.insertOne(rec, value)
	rec.Complete(b.tree.Clone(), nil,
		"insert of %d complete, %d rotation(s) performed in total", value, b.rotations)
	return rec.Trace()
}

// InsertBatch applies the full insert-then-rebalance procedure value by
// value. Each value is a fully independent pass; only the rotation
// counter carries across them.
func (b *Balancer) InsertBatch(values []int) *trace.Trace {
	rec := trace.NewRecorder(trace.FamilyAVL, "insert-batch")
	for _, v := range values {
		b.insertOne(rec, v)
	}
	rec.Complete(b.tree.Clone(), nil,
		"batch insert of %d value(s) complete, %d rotation(s) performed in total", len(values), b.rotations)
	return rec.Trace()
}

func (b *Balancer) insertOne(rec *trace.Recorder, value int) {
	t := b.tree
	n := t.NewNode(value)
	if t.Root == "" {
		t.Root = n.ID
		rec.Record(trace.KindInsert, t.Clone(), []string{n.ID}, "insert %d as root", value)
		return
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
		"insert %d below %d", value, cur.Value)

	// Walk the insertion path upward from the new node's parent. The
	// first ancestor with |bf| > 1 triggers exactly one rebalancing
	// event, after which the walk stops.
	for walk := n.Parent; walk != ""; {
		anc := t.Node(walk)
		bf := t.BalanceFactor(walk)
		rec.Record(trace.KindDetectImbalance, t.Clone(), []string{walk},
			"balance factor of %d is %+d", anc.Value, bf)
		if bf > 1 || bf < -1 {
			b.rebalance(rec, walk, bf)
			return
		}
		walk = anc.Parent
	}
}

func (b *Balancer) rebalance(rec *trace.Recorder, id string, bf int) {
	t := b.tree
	n := t.Node(id)
	switch {
	case bf > 1:
		left := t.Node(n.Left)
		if t.BalanceFactor(left.ID) >= 0 {
			rec.Record(trace.KindRotationCase, t.Clone(), []string{id, left.ID},
				"left-left case at %d", n.Value)
			b.rotateRight(rec, id)
		} else {
			rec.Record(trace.KindRotationCase, t.Clone(), []string{id, left.ID},
				"left-right case at %d", n.Value)
			b.rotateLeft(rec, left.ID)
			b.rotateRight(rec, id)
		}
	default: // bf < -1
		right := t.Node(n.Right)
		if t.BalanceFactor(right.ID) <= 0 {
			rec.Record(trace.KindRotationCase, t.Clone(), []string{id, right.ID},
				"right-right case at %d", n.Value)
			b.rotateLeft(rec, id)
		} else {
			rec.Record(trace.KindRotationCase, t.Clone(), []string{id, right.ID},
				"right-left case at %d", n.Value)
			b.rotateRight(rec, right.ID)
			b.rotateLeft(rec, id)
		}
	}
}

// rotateRight rotates the subtree at id so its left child takes its
// place. Parent and root links are rewired as part of the rotation.
func (b *Balancer) rotateRight(rec *trace.Recorder, id string) {
	t := b.tree
	n := t.Node(id)
	pivot := t.Node(n.Left)

	n.Left = pivot.Right
	if c := t.Node(pivot.Right); c != nil {
		c.Parent = n.ID
	}
	b.replaceChild(n.Parent, n.ID, pivot.ID)
	pivot.Parent = n.Parent
	pivot.Right = n.ID
	n.Parent = pivot.ID

	b.rotations++
	operationalMetrics.RotationsPerformed.Inc()
	log.Debugf("avl: right rotation at %s (value %d)", id, n.Value)
	rec.Record(trace.KindRotate, t.Clone(), []string{id, pivot.ID},
		"rotation #%d: right rotation at %d", b.rotations, n.Value)
}

func (b *Balancer) rotateLeft(rec *trace.Recorder, id string) {
	t := b.tree
	n := t.Node(id)
	pivot := t.Node(n.Right)

	n.Right = pivot.Left
	if c := t.Node(pivot.Left); c != nil {
		c.Parent = n.ID
	}
	b.replaceChild(n.Parent, n.ID, pivot.ID)
	pivot.Parent = n.Parent
	pivot.Left = n.ID
	n.Parent = pivot.ID

	b.rotations++
	operationalMetrics.RotationsPerformed.Inc()
	log.Debugf("avl: left rotation at %s (value %d)", id, n.Value)
	rec.Record(trace.KindRotate, t.Clone(), []string{id, pivot.ID},
		"rotation #%d: left rotation at %d", b.rotations, n.Value)
}

// replaceChild points parentID's link for oldID at newID, or replaces
// the root when the rotated node had no parent.
func (b *Balancer) replaceChild(parentID, oldID, newID string) {
	p := b.tree.Node(parentID)
	if p == nil {
		b.tree.Root = newID
		return
	}
	if p.Left == oldID {
		p.Left = newID
	} else {
		p.Right = newID
	}
}
