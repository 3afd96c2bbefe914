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

// Package session exposes the engine's command surface to the
// presentation layer. Each mode (BST, AVL, 2-3 tree, 2-3-4 tree, heap,
// Huffman, graph) owns an entirely independent structure, trace and
// replay controller; nothing is shared across sessions.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benbjohnson/clock"
	log "github.com/sirupsen/logrus"

	"github.com/algoviz/steptrace/pkg/api"
	"github.com/algoviz/steptrace/pkg/engine/avl"
	"github.com/algoviz/steptrace/pkg/engine/bst"
	"github.com/algoviz/steptrace/pkg/engine/btree"
	graphalg "github.com/algoviz/steptrace/pkg/engine/graph"
	"github.com/algoviz/steptrace/pkg/engine/heap"
	"github.com/algoviz/steptrace/pkg/engine/huffman"
	"github.com/algoviz/steptrace/pkg/model"
	operationalMetrics "github.com/algoviz/steptrace/pkg/operational/metrics"
	"github.com/algoviz/steptrace/pkg/replay"
	"github.com/algoviz/steptrace/pkg/trace"
	"github.com/algoviz/steptrace/pkg/validate"
)

// Mode selects the algorithm family a session animates.
type Mode string

const (
	ModeBST     Mode = "bst"
	ModeAVL     Mode = "avl"
	ModeTree23  Mode = "tree23"
	ModeTree234 Mode = "tree234"
	ModeMinHeap Mode = "minheap"
	ModeMaxHeap Mode = "maxheap"
	ModeHuffman Mode = "huffman"
	ModeGraph   Mode = "graph"
)

var (
	ErrUnknownMode = errors.New("session: unknown mode")
	ErrUnsupported = errors.New("session: operation not supported in this mode")
	ErrNotDeletion = errors.New("session: delete is not implemented as a stepped operation")
)

// Config sets up one session. Directed applies to graph mode only;
// Clock defaults to the wall clock.
type Config struct {
	Mode     Mode
	Directed bool
	Display  api.DisplayConfig
	Clock    clock.Clock
}

// Session owns the per-mode structure, the most recent trace and the
// replay controller, and appends one human-readable event-log line per
// completed top-level command.
type Session struct {
	mode    Mode
	display api.DisplayConfig
	ctl     *replay.Controller
	events  []string
	logger  *log.Entry

	tree     *model.Tree   // bst
	balancer *avl.Balancer // avl
	btree    *model.BTree
	heapEng  *heap.Engine
	coder    *huffman.Coder
	graph    *model.Graph
}

// New builds a session for the given mode.
func New(cfg Config) (*Session, error) {
	s := &Session{
		mode:    cfg.Mode,
		display: cfg.Display,
		ctl:     replay.NewController(cfg.Clock),
		logger:  log.WithField("component", "session").WithField("mode", string(cfg.Mode)),
	}
	switch cfg.Mode {
	case ModeBST:
		s.tree = model.NewTree()
	case ModeAVL:
		s.balancer = avl.NewBalancer(model.NewTree())
	case ModeTree23:
		s.btree = model.NewBTree(3)
	case ModeTree234:
		s.btree = model.NewBTree(4)
	case ModeMinHeap:
		s.heapEng = heap.New(model.SenseMin)
	case ModeMaxHeap:
		s.heapEng = heap.New(model.SenseMax)
	case ModeHuffman:
		s.coder = huffman.NewCoder()
	case ModeGraph:
		s.graph = model.NewGraph(cfg.Directed)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}
	return s, nil
}

func (s *Session) Mode() Mode                 { return s.mode }
func (s *Session) Display() api.DisplayConfig { return s.display }

// Controller exposes the replay controller for UI timers.
func (s *Session) Controller() *replay.Controller { return s.ctl }

// Insert inserts one value into the session's structure and installs
// the generated trace.
func (s *Session) Insert(value int) error {
	var tr *trace.Trace
	switch s.mode {
	case ModeBST:
		tr = bst.Insert(s.tree, value)
	case ModeAVL:
		tr = s.balancer.Insert(value)
	case ModeTree23, ModeTree234:
		tr = btree.Insert(s.btree, value)
	case ModeMinHeap, ModeMaxHeap:
		tr = s.heapEng.Insert(value)
	default:
		return s.unsupported(api.OpInsert)
	}
	s.install(tr)
	s.logEvent("inserted %d (%d steps)", value, tr.Len())
	return nil
}

// InsertBatch applies the AVL insert-then-rebalance procedure value by
// value within a single trace. Only the AVL family defines a batch
// semantics.
func (s *Session) InsertBatch(values []int) error {
	if s.mode != ModeAVL {
		return s.unsupported(api.OpInsertBatch)
	}
	if len(values) == 0 {
		return nil
	}
	tr := s.balancer.InsertBatch(values)
	s.install(tr)
	s.logEvent("inserted batch of %d value(s), %d rotation(s) in total", len(values), s.balancer.Rotations())
	return nil
}

// Delete performs the simplified, non-stepped removals where they
// exist and reports the stub status everywhere else. No trace is
// produced by any delete.
func (s *Session) Delete(p api.DeleteParams) error {
	switch s.mode {
	case ModeBST:
		if p.Value == nil {
			return fmt.Errorf("session: delete needs a value in %s mode", s.mode)
		}
		if err := bst.Delete(s.tree, *p.Value); err != nil {
			s.logEvent("error: delete of %d failed: %v", *p.Value, err)
			return err
		}
		s.logEvent("deleted %d (simplified removal, not a stepped operation)", *p.Value)
		return nil
	case ModeAVL, ModeTree23, ModeTree234:
		s.logEvent("delete is not implemented for %s", s.mode)
		return fmt.Errorf("%w (%s mode)", ErrNotDeletion, s.mode)
	case ModeMinHeap, ModeMaxHeap:
		if p.Index == nil {
			return fmt.Errorf("session: delete needs an index in %s mode", s.mode)
		}
		if err := s.heapEng.DeleteAt(*p.Index); err != nil {
			s.logEvent("error: delete at index %d failed: %v", *p.Index, err)
			return err
		}
		s.logEvent("deleted index %d (swap with last, heap order not restored)", *p.Index)
		return nil
	default:
		return s.unsupported(api.OpDelete)
	}
}

// Clear resets the live structure, the trace, the cursor and all
// auxiliary state (rotation counters, code tables). The event log is
// append-only and survives.
func (s *Session) Clear() {
	switch s.mode {
	case ModeBST:
		s.tree = model.NewTree()
	case ModeAVL:
		s.balancer.Reset()
	case ModeTree23:
		s.btree = model.NewBTree(3)
	case ModeTree234:
		s.btree = model.NewBTree(4)
	case ModeMinHeap, ModeMaxHeap:
		s.heapEng.Reset()
	case ModeHuffman:
		s.coder.Reset()
	case ModeGraph:
		s.graph = model.NewGraph(s.graph.Directed)
	}
	s.ctl.SetTrace(nil)
	s.logEvent("cleared")
}

// ExtractRoot removes the heap root and returns it.
func (s *Session) ExtractRoot() (int, error) {
	if s.mode != ModeMinHeap && s.mode != ModeMaxHeap {
		return 0, s.unsupported(api.OpExtractRoot)
	}
	tr, root, err := s.heapEng.ExtractRoot()
	if err != nil {
		s.logEvent("error: extractRoot failed: %v", err)
		return 0, err
	}
	s.install(tr)
	s.logEvent("extracted root %d (%d steps)", root, tr.Len())
	return root, nil
}

// ChangeKey replaces the value at a heap index and sifts in a single
// direction.
func (s *Session) ChangeKey(index, value int) error {
	if s.mode != ModeMinHeap && s.mode != ModeMaxHeap {
		return s.unsupported(api.OpChangeKey)
	}
	tr, err := s.heapEng.ChangeKey(index, value)
	if err != nil {
		s.logEvent("error: changeKey failed: %v", err)
		return err
	}
	s.install(tr)
	s.logEvent("changed key at index %d to %d (%d steps)", index, value, tr.Len())
	return nil
}

// BuildHuffman builds the coding tree from literal text or an explicit
// frequency table and derives both code tables. Empty input is
// silently ignored.
func (s *Session) BuildHuffman(p api.BuildHuffmanParams) error {
	if s.mode != ModeHuffman {
		return s.unsupported(api.OpBuildHuffman)
	}
	freqs := make([]huffman.SymbolFreq, 0, len(p.Frequencies))
	for _, f := range p.Frequencies {
		freqs = append(freqs, huffman.SymbolFreq{Symbol: f.Symbol, Freq: f.Freq})
	}
	if p.Text != "" {
		freqs = countFrequencies(p.Text)
	}
	if len(freqs) == 0 {
		s.logger.Debug("buildHuffman called with empty input, ignoring")
		return nil
	}
	tr, err := s.coder.Build(freqs)
	if err != nil {
		s.logEvent("error: huffman build failed: %v", err)
		return err
	}
	if _, err := s.coder.GenerateCodes(); err != nil {
		return err
	}
	if _, err := s.coder.GenerateCanonicalCodes(); err != nil {
		return err
	}
	s.install(tr)
	s.logEvent("built huffman tree for %d symbol(s) (%d steps)", len(freqs), tr.Len())
	return nil
}

// SetCanonical toggles between the standard and canonical code tables
// for encode and decode.
func (s *Session) SetCanonical(on bool) error {
	if s.mode != ModeHuffman {
		return s.unsupported(api.OpSetCanonical)
	}
	s.coder.SetCanonical(on)
	s.logEvent("canonical codes %s", onOff(on))
	return nil
}

// Encode maps text through the active code table. Unmapped characters
// are skipped and reported in the event log, not fatal.
func (s *Session) Encode(text string) (string, error) {
	if s.mode != ModeHuffman {
		return "", s.unsupported(api.OpEncode)
	}
	if len(s.coder.ActiveCodes()) == 0 {
		err := huffman.ErrNoTree
		s.logEvent("error: encode failed: %v", err)
		return "", err
	}
	bits, unmapped := s.coder.Encode(text)
	if len(unmapped) > 0 {
		s.logEvent("encoded %d character(s) to %d bit(s), skipped unmapped: %s",
			len(text), len(bits), strings.Join(unmapped, " "))
	} else {
		s.logEvent("encoded %d character(s) to %d bit(s)", len(text), len(bits))
	}
	return bits, nil
}

// Decode walks the coding tree per bit. Trailing bits that reach no
// leaf are silently discarded.
func (s *Session) Decode(bits string) (string, error) {
	if s.mode != ModeHuffman {
		return "", s.unsupported(api.OpDecode)
	}
	text, err := s.coder.Decode(bits)
	if err != nil {
		s.logEvent("error: decode failed: %v", err)
		return "", err
	}
	s.logEvent("decoded %d bit(s) to %d character(s)", len(bits), len(text))
	return text, nil
}

// AddNode adds a graph vertex and returns its id. X and Y are cosmetic
// layout coordinates owned by the rendering layer.
func (s *Session) AddNode(label string, x, y float64) (string, error) {
	if s.mode != ModeGraph {
		return "", s.unsupported(api.OpAddNode)
	}
	n := s.graph.AddNode(label, x, y)
	s.logEvent("added node %s (%s)", n.Label, n.ID)
	return n.ID, nil
}

// AddEdge adds an edge and returns its id.
func (s *Session) AddEdge(from, to string, weight float64) (string, error) {
	if s.mode != ModeGraph {
		return "", s.unsupported(api.OpAddEdge)
	}
	e, err := s.graph.AddEdge(from, to, weight)
	if err != nil {
		s.logEvent("error: addEdge failed: %v", err)
		return "", err
	}
	s.logEvent("added edge %s -> %s (weight %g)", from, to, weight)
	return e.ID, nil
}

func (s *Session) DeleteNode(id string) error {
	if s.mode != ModeGraph {
		return s.unsupported(api.OpDeleteNode)
	}
	if err := s.graph.DeleteNode(id); err != nil {
		s.logEvent("error: deleteNode failed: %v", err)
		return err
	}
	s.logEvent("deleted node %s and its incident edges", id)
	return nil
}

func (s *Session) DeleteEdge(id string) error {
	if s.mode != ModeGraph {
		return s.unsupported(api.OpDeleteEdge)
	}
	if err := s.graph.DeleteEdge(id); err != nil {
		s.logEvent("error: deleteEdge failed: %v", err)
		return err
	}
	s.logEvent("deleted edge %s", id)
	return nil
}

// RunPrim generates the Prim trace. Precondition failures (directed
// graph) produce an error event and no trace; a disconnected graph
// produces a trace terminating in an error step.
func (s *Session) RunPrim() error {
	if s.mode != ModeGraph {
		return s.unsupported(api.OpRunPrim)
	}
	tr, err := graphalg.Prim(s.graph)
	if err != nil {
		s.logEvent("error: prim rejected: %v", err)
		return err
	}
	s.install(tr)
	s.logEvent("ran prim: %s", tr.Last().Description)
	return nil
}

// RunDijkstra generates the Dijkstra trace from the given start node.
func (s *Session) RunDijkstra(start string) error {
	if s.mode != ModeGraph {
		return s.unsupported(api.OpRunDijkstra)
	}
	tr, err := graphalg.Dijkstra(s.graph, start)
	if err != nil {
		s.logEvent("error: dijkstra rejected: %v", err)
		return err
	}
	s.install(tr)
	s.logEvent("ran dijkstra: %s", tr.Last().Description)
	return nil
}

// RunTopologicalSort generates the Kahn trace.
func (s *Session) RunTopologicalSort() error {
	if s.mode != ModeGraph {
		return s.unsupported(api.OpRunTopoSort)
	}
	tr, err := graphalg.TopologicalSort(s.graph)
	if err != nil {
		s.logEvent("error: topological sort rejected: %v", err)
		return err
	}
	s.install(tr)
	s.logEvent("ran topological sort: %s", tr.Last().Description)
	return nil
}

// Replay delegation.
func (s *Session) StepForward() bool  { return s.ctl.StepForward() }
func (s *Session) StepBackward() bool { return s.ctl.StepBackward() }
func (s *Session) Run(speed int)      { s.ctl.Run(speed) }
func (s *Session) Pause()             { s.ctl.Pause() }
func (s *Session) Reset()             { s.ctl.Reset() }

// CurrentSnapshot returns the snapshot at the replay cursor, nil when
// no trace is installed.
func (s *Session) CurrentSnapshot() trace.Snapshot {
	if step, ok := s.ctl.Current(); ok {
		return step.Snapshot
	}
	return nil
}

// ActiveIDs returns the highlight set at the replay cursor.
func (s *Session) ActiveIDs() []string {
	if step, ok := s.ctl.Current(); ok {
		return step.Active
	}
	return nil
}

// Description returns the step description at the replay cursor.
func (s *Session) Description() string {
	if step, ok := s.ctl.Current(); ok {
		return step.Description
	}
	return ""
}

// EventLog returns a copy of the append-only event log.
func (s *Session) EventLog() []string {
	return append([]string(nil), s.events...)
}

// Validate checks the live structure's invariants and returns an
// advisory violation list. Huffman and graph modes have no structural
// validator.
func (s *Session) Validate() []validate.Violation {
	var vs []validate.Violation
	switch s.mode {
	case ModeBST:
		vs = validate.BST(s.tree)
	case ModeAVL:
		vs = validate.AVL(s.balancer.Tree())
	case ModeTree23, ModeTree234:
		vs = validate.BTree(s.btree)
	case ModeMinHeap, ModeMaxHeap:
		vs = validate.Heap(s.heapEng.Heap())
	}
	if len(vs) > 0 {
		operationalMetrics.ValidationViolations.WithLabelValues(string(s.mode)).Add(float64(len(vs)))
	}
	return vs
}

// Graph exposes the live graph for tests and for the rendering layer.
func (s *Session) Graph() *model.Graph { return s.graph }

// Tree exposes the live binary tree in BST and AVL modes, nil
// elsewhere.
func (s *Session) Tree() *model.Tree {
	switch s.mode {
	case ModeBST:
		return s.tree
	case ModeAVL:
		return s.balancer.Tree()
	}
	return nil
}

func (s *Session) install(tr *trace.Trace) {
	s.ctl.SetTrace(tr)
	operationalMetrics.TracesGenerated.WithLabelValues(string(tr.Family()), tr.Op()).Inc()
	operationalMetrics.StepsEmitted.WithLabelValues(string(tr.Family())).Add(float64(tr.Len()))
}

func (s *Session) logEvent(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	s.events = append(s.events, line)
	s.logger.Info(line)
}

func (s *Session) unsupported(op string) error {
	return fmt.Errorf("%w: %s in %s mode", ErrUnsupported, op, s.mode)
}

func countFrequencies(text string) []huffman.SymbolFreq {
	index := map[string]int{}
	var freqs []huffman.SymbolFreq
	for _, r := range text {
		sym := string(r)
		if i, ok := index[sym]; ok {
			freqs[i].Freq++
			continue
		}
		index[sym] = len(freqs)
		freqs = append(freqs, huffman.SymbolFreq{Symbol: sym, Freq: 1})
	}
	return freqs
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
