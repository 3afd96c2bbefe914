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

// Sense selects between a min-heap and a max-heap.
type Sense string

const (
	SenseMin Sense = "min"
	SenseMax Sense = "max"
)

// Heap is a dense array-backed binary heap: index i's children live at
// 2i+1 and 2i+2, its parent at (i-1)/2.
type Heap struct {
	Sense Sense `json:"sense"`
	Items []int `json:"items"`
}

func NewHeap(sense Sense) *Heap {
	return &Heap{Sense: sense, Items: []int{}}
}

func (h *Heap) Len() int { return len(h.Items) }

func ParentIndex(i int) int { return (i - 1) / 2 }
func LeftIndex(i int) int   { return 2*i + 1 }
func RightIndex(i int) int  { return 2*i + 2 }

// InOrder reports whether the parent/child pair at the given indexes
// satisfies the heap's ordering sense.
func (h *Heap) InOrder(parent, child int) bool {
	if h.Sense == SenseMin {
		return h.Items[parent] <= h.Items[child]
	}
	return h.Items[parent] >= h.Items[child]
}

// Prefer reports whether value a is at least as extreme as b under the
// heap sense (smaller for min, larger for max).
func (h *Heap) Prefer(a, b int) bool {
	if h.Sense == SenseMin {
		return a <= b
	}
	return a >= b
}

// Clone copies the backing array; the clone shares nothing with h.
func (h *Heap) Clone() *Heap {
	return &Heap{Sense: h.Sense, Items: append([]int(nil), h.Items...)}
}

func (h *Heap) SnapshotKind() string { return "heap" }
