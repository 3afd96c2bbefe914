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

// Package heap generates step traces for an array-backed binary heap,
// parameterized by min/max ordering. Every comparison and every swap
// is its own step; active ids are array indexes rendered as strings.
package heap

import (
	"errors"
	"strconv"

	"github.com/algoviz/steptrace/pkg/model"
	"github.com/algoviz/steptrace/pkg/trace"
)

var (
	ErrEmpty      = errors.New("heap: empty")
	ErrOutOfRange = errors.New("heap: index out of range")
)

// Engine owns one heap instance for a visualization session.
type Engine struct {
	h *model.Heap
}

func New(sense model.Sense) *Engine {
	return &Engine{h: model.NewHeap(sense)}
}

func (e *Engine) Heap() *model.Heap { return e.h }

func (e *Engine) Reset() {
	e.h = model.NewHeap(e.h.Sense)
}

// Insert appends value and sifts it up until its parent no longer
// violates the ordering sense.
func (e *Engine) Insert(value int) *trace.Trace {
	rec := trace.NewRecorder(trace.FamilyHeap, "insert")
	h := e.h
	h.Items = append(h.Items, value)
	i := len(h.Items) - 1
	rec.Record(trace.KindInsert, h.Clone(), idx(i), "append %d at index %d", value, i)

	for i > 0 {
		p := model.ParentIndex(i)
		if h.InOrder(p, i) {
			rec.Record(trace.KindCompare, h.Clone(), idx(p, i),
				"%d at index %d keeps %s order against parent %d", h.Items[i], i, h.Sense, h.Items[p])
			break
		}
		rec.Record(trace.KindCompare, h.Clone(), idx(p, i),
			"%d at index %d violates %s order against parent %d", h.Items[i], i, h.Sense, h.Items[p])
		h.Items[p], h.Items[i] = h.Items[i], h.Items[p]
		rec.Record(trace.KindSwap, h.Clone(), idx(p, i), "swap indexes %d and %d", i, p)
		i = p
	}

	rec.Complete(h.Clone(), idx(i), "insert of %d complete", value)
	return rec.Trace()
}

// ExtractRoot removes and returns the root. The last element moves to
// index 0 and sifts down; a one-element heap is simply cleared.
func (e *Engine) ExtractRoot() (*trace.Trace, int, error) {
	h := e.h
	if h.Len() == 0 {
		return nil, 0, ErrEmpty
	}
	rec := trace.NewRecorder(trace.FamilyHeap, "extract-root")
	root := h.Items[0]

	if h.Len() == 1 {
		h.Items = h.Items[:0]
		rec.Record(trace.KindExtract, h.Clone(), nil, "extract root %d, heap is now empty", root)
		rec.Complete(h.Clone(), nil, "extract of %d complete", root)
		return rec.Trace(), root, nil
	}

	last := h.Items[h.Len()-1]
	h.Items[0] = last
	h.Items = h.Items[:h.Len()-1]
	rec.Record(trace.KindExtract, h.Clone(), idx(0),
		"extract root %d, move last element %d to the root", root, last)

	e.siftDown(rec, 0)
	rec.Complete(h.Clone(), nil, "extract of %d complete", root)
	return rec.Trace(), root, nil
}

// ChangeKey replaces the value at index and restores order with a
// single-direction sift: toward the root when the new value is more
// extreme than the old one under the heap sense, toward the leaves
// otherwise. It never sifts both ways.
func (e *Engine) ChangeKey(index, value int) (*trace.Trace, error) {
	h := e.h
	if index < 0 || index >= h.Len() {
		return nil, ErrOutOfRange
	}
	rec := trace.NewRecorder(trace.FamilyHeap, "change-key")
	old := h.Items[index]
	h.Items[index] = value
	rec.Record(trace.KindChangeKey, h.Clone(), idx(index),
		"change key at index %d from %d to %d", index, old, value)

	if value != old && h.Prefer(value, old) {
		e.siftUp(rec, index)
	} else if value != old {
		e.siftDown(rec, index)
	}
	rec.Complete(h.Clone(), nil, "change-key at index %d complete", index)
	return rec.Trace(), nil
}

// DeleteAt is the simplified O(1) removal: swap with the last element
// and pop, without restoring heap order as a stepped operation. The
// caller reports it as an event; the validator will surface any
// ordering violation it leaves behind.
func (e *Engine) DeleteAt(index int) error {
	h := e.h
	if index < 0 || index >= h.Len() {
		return ErrOutOfRange
	}
	h.Items[index] = h.Items[h.Len()-1]
	h.Items = h.Items[:h.Len()-1]
	return nil
}

func (e *Engine) siftUp(rec *trace.Recorder, i int) {
	h := e.h
	for i > 0 {
		p := model.ParentIndex(i)
		if h.InOrder(p, i) {
			rec.Record(trace.KindCompare, h.Clone(), idx(p, i),
				"%d at index %d keeps %s order against parent %d", h.Items[i], i, h.Sense, h.Items[p])
			return
		}
		rec.Record(trace.KindCompare, h.Clone(), idx(p, i),
			"%d at index %d violates %s order against parent %d", h.Items[i], i, h.Sense, h.Items[p])
		h.Items[p], h.Items[i] = h.Items[i], h.Items[p]
		rec.Record(trace.KindSwap, h.Clone(), idx(p, i), "swap indexes %d and %d", i, p)
		i = p
	}
}

func (e *Engine) siftDown(rec *trace.Recorder, i int) {
	h := e.h
	for {
		l, r := model.LeftIndex(i), model.RightIndex(i)
		if l >= h.Len() {
			return
		}
		// Pick the more extreme of the existing children as the only
		// possible swap target.
		target := l
		if r < h.Len() && h.Prefer(h.Items[r], h.Items[l]) {
			target = r
		}
		if h.InOrder(i, target) {
			rec.Record(trace.KindCompare, h.Clone(), idx(i, target),
				"%d at index %d keeps %s order against child %d", h.Items[i], i, h.Sense, h.Items[target])
			return
		}
		rec.Record(trace.KindCompare, h.Clone(), idx(i, target),
			"%d at index %d violates %s order against child %d", h.Items[i], i, h.Sense, h.Items[target])
		h.Items[i], h.Items[target] = h.Items[target], h.Items[i]
		rec.Record(trace.KindSwap, h.Clone(), idx(i, target), "swap indexes %d and %d", i, target)
		i = target
	}
}

func idx(is ...int) []string {
	out := make([]string, len(is))
	for i, v := range is {
		out[i] = strconv.Itoa(v)
	}
	return out
}
