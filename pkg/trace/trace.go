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

package trace

import "fmt"

// Family identifies the algorithm family that produced a trace.
type Family string

const (
	FamilyBST     Family = "bst"
	FamilyAVL     Family = "avl"
	FamilyBTree   Family = "btree"
	FamilyHeap    Family = "heap"
	FamilyHuffman Family = "huffman"
	FamilyGraph   Family = "graph"
)

// Kind is the discriminator of a step. The set of kinds emitted by an
// algorithm is particular to its family; COMPLETE and ERROR are shared
// terminal kinds.
type Kind string

const (
	// Navigation and comparison
	KindTraverse Kind = "TRAVERSE"
	KindCompare  Kind = "COMPARE"

	// Tree mutation
	KindInsert          Kind = "INSERT"
	KindDetectImbalance Kind = "DETECT_IMBALANCE"
	KindRotationCase    Kind = "ROTATION_CASE"
	KindRotate          Kind = "ROTATE"
	KindOverflow        Kind = "OVERFLOW"
	KindSplit           Kind = "SPLIT"
	KindPromote         Kind = "PROMOTE"
	KindNewRoot         Kind = "NEW_ROOT"

	// Heap
	KindSwap      Kind = "SWAP"
	KindExtract   Kind = "EXTRACT"
	KindChangeKey Kind = "CHANGE_KEY"

	// Huffman build
	KindPopPair Kind = "POP_PAIR"
	KindMerge   Kind = "MERGE"
	KindPush    Kind = "PUSH"

	// Graph algorithms
	KindVisit   Kind = "VISIT"
	KindRelax   Kind = "RELAX"
	KindEnqueue Kind = "ENQUEUE"
	KindProcess Kind = "PROCESS"

	// Terminal
	KindComplete Kind = "COMPLETE"
	KindError    Kind = "ERROR"
)

// Snapshot is an immutable copy of a structure (or of the auxiliary
// collections for graph algorithms) taken at the instant a step was
// emitted. Implementations must never share mutable state with the
// live structure they were taken from.
type Snapshot interface {
	SnapshotKind() string
}

// Step is one discrete, visualizable moment in an algorithm run.
type Step struct {
	Index       int      `json:"index"`
	Kind        Kind     `json:"kind"`
	Description string   `json:"description"`
	Active      []string `json:"active,omitempty"`
	Snapshot    Snapshot `json:"snapshot,omitempty"`
}

// Trace is the ordered sequence of steps produced by exactly one
// invocation of one algorithm. It is immutable once sealed by the
// Recorder; replay never mutates it.
type Trace struct {
	family Family
	op     string
	steps  []Step
}

func (t *Trace) Family() Family { return t.family }
func (t *Trace) Op() string     { return t.op }
func (t *Trace) Len() int       { return len(t.steps) }

// At returns the step at index i. i must be in [0, Len()).
func (t *Trace) At(i int) Step { return t.steps[i] }

// Last returns the terminal step, typically COMPLETE or ERROR.
func (t *Trace) Last() Step { return t.steps[len(t.steps)-1] }

// Failed reports whether the algorithm terminated in an error step
// (e.g. disconnected graph for Prim, cycle for topological sort).
func (t *Trace) Failed() bool {
	return len(t.steps) > 0 && t.steps[len(t.steps)-1].Kind == KindError
}

// Steps returns a copy of the step sequence for serialization.
func (t *Trace) Steps() []Step {
	out := make([]Step, len(t.steps))
	copy(out, t.steps)
	return out
}

// Recorder accumulates steps during an algorithm run, assigning
// monotonically increasing indexes. One recorder serves exactly one
// invocation; Trace seals it.
type Recorder struct {
	family Family
	op     string
	steps  []Step
}

func NewRecorder(family Family, op string) *Recorder {
	return &Recorder{family: family, op: op}
}

// Record appends a step. The snapshot must already be an independent
// copy; the recorder does not clone.
func (r *Recorder) Record(kind Kind, snap Snapshot, active []string, format string, args ...interface{}) {
	r.steps = append(r.steps, Step{
		Index:       len(r.steps),
		Kind:        kind,
		Description: fmt.Sprintf(format, args...),
		Active:      active,
		Snapshot:    snap,
	})
}

// Complete appends the terminal COMPLETE step.
func (r *Recorder) Complete(snap Snapshot, active []string, format string, args ...interface{}) {
	r.Record(KindComplete, snap, active, format, args...)
}

// Error appends a terminal ERROR step for algorithm outcomes that are
// themselves errors (disconnected graph, cycle).
func (r *Recorder) Error(snap Snapshot, active []string, format string, args ...interface{}) {
	r.Record(KindError, snap, active, format, args...)
}

func (r *Recorder) Len() int { return len(r.steps) }

// Trace seals the recorded steps into an immutable trace.
func (r *Recorder) Trace() *Trace {
	t := &Trace{family: r.family, op: r.op, steps: r.steps}
	r.steps = nil
	return t
}
