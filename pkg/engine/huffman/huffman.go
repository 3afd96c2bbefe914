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

// Package huffman builds Huffman coding trees step by step and derives
// standard and canonical code tables from them. Ties between equal
// frequencies are broken by current queue order after a stable
// ascending sort, never by symbol.
package huffman

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/algoviz/steptrace/pkg/model"
	"github.com/algoviz/steptrace/pkg/trace"
)

var (
	ErrEmptyInput = errors.New("huffman: empty frequency table")
	ErrNoTree     = errors.New("huffman: no tree has been built")
	ErrInvalidBit = errors.New("huffman: bit string contains characters other than 0 and 1")
)

// SymbolFreq is one frequency table entry. Slice order is meaningful:
// it is the tiebreak order for equal frequencies.
type SymbolFreq struct {
	Symbol string `json:"symbol" mapstructure:"symbol"`
	Freq   int    `json:"freq" mapstructure:"freq"`
}

// BuildSnapshot captures the forest inside the build queue plus the
// finished root once one remains.
type BuildSnapshot struct {
	Queue []*model.HuffNode `json:"queue"`
	Root  *model.HuffNode   `json:"root,omitempty"`
}

func (BuildSnapshot) SnapshotKind() string { return "huffman-build" }

// Coder owns the tree and both code tables for one session. The
// canonical toggle selects which table encode and decode use.
type Coder struct {
	root         *model.HuffNode
	codes        map[string]string
	canonical    map[string]string
	useCanonical bool
	seq          int
}

func NewCoder() *Coder { return &Coder{} }

func (c *Coder) Root() *model.HuffNode { return c.root }

func (c *Coder) Reset() { *c = Coder{} }

func (c *Coder) SetCanonical(on bool) { c.useCanonical = on }
func (c *Coder) Canonical() bool      { return c.useCanonical }

// ActiveCodes returns the table selected by the canonical toggle.
func (c *Coder) ActiveCodes() map[string]string {
	if c.useCanonical {
		return c.canonical
	}
	return c.codes
}

func (c *Coder) StandardCodes() map[string]string  { return c.codes }
func (c *Coder) CanonicalCodes() map[string]string { return c.canonical }

// Build constructs the tree by repeatedly extracting the two
// lowest-frequency queue entries, merging them and reinserting, with
// a stable ascending re-sort after every push. Each pop-pair, merge
// and push is a step.
func (c *Coder) Build(freqs []SymbolFreq) (*trace.Trace, error) {
	if len(freqs) == 0 {
		return nil, ErrEmptyInput
	}
	c.root = nil
	c.codes = nil
	c.canonical = nil
	c.seq = 0

	rec := trace.NewRecorder(trace.FamilyHuffman, "build")

	queue := make([]*model.HuffNode, 0, len(freqs))
	for _, f := range freqs {
		queue = append(queue, c.newNode(f.Symbol, f.Freq, nil, nil))
	}
	sortByFreq(queue)
	rec.Record(trace.KindEnqueue, snapshot(queue, nil), ids(queue),
		"queue initialized with %d symbols sorted by frequency", len(queue))

	for len(queue) > 1 {
		a, b := queue[0], queue[1]
		queue = queue[2:]
		rec.Record(trace.KindPopPair, snapshot(queue, nil), []string{a.ID, b.ID},
			"pop the two lowest frequencies: %s and %s", label(a), label(b))

		m := c.newNode("", a.Freq+b.Freq, a, b)
		rec.Record(trace.KindMerge, snapshot(append(append([]*model.HuffNode{}, queue...), m), nil),
			[]string{m.ID}, "merge into internal node with frequency %d", m.Freq)

		queue = append(queue, m)
		sortByFreq(queue)
		rec.Record(trace.KindPush, snapshot(queue, nil), []string{m.ID},
			"push merged node back, queue re-sorted ascending")
	}

	c.root = queue[0]
	rec.Complete(snapshot(nil, c.root), []string{c.root.ID},
		"huffman tree complete, root frequency %d", c.root.Freq)
	return rec.Trace(), nil
}

// GenerateCodes walks the tree depth-first assigning '0' to left edges
// and '1' to right edges. A tree that is a single leaf yields the
// 1-bit code "0" rather than an empty string.
func (c *Coder) GenerateCodes() (map[string]string, error) {
	if c.root == nil {
		return nil, ErrNoTree
	}
	codes := map[string]string{}
	if c.root.Leaf() {
		codes[c.root.Symbol] = "0"
	} else {
		var walk func(n *model.HuffNode, prefix string)
		walk = func(n *model.HuffNode, prefix string) {
			if n.Leaf() {
				codes[n.Symbol] = prefix
				return
			}
			walk(n.Left, prefix+"0")
			walk(n.Right, prefix+"1")
		}
		walk(c.root, "")
	}
	c.codes = codes
	return codes, nil
}

// GenerateCanonicalCodes re-derives code lengths from the standard
// codes and assigns canonical codes: symbols sorted by (length asc,
// symbol asc), an integer counter starting at 0, left-shifted by the
// length delta whenever the length grows, incremented per assignment.
func (c *Coder) GenerateCanonicalCodes() (map[string]string, error) {
	if c.codes == nil {
		if _, err := c.GenerateCodes(); err != nil {
			return nil, err
		}
	}
	type entry struct {
		sym string
		len int
	}
	entries := make([]entry, 0, len(c.codes))
	for sym, code := range c.codes {
		entries = append(entries, entry{sym: sym, len: len(code)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].len != entries[j].len {
			return entries[i].len < entries[j].len
		}
		return entries[i].sym < entries[j].sym
	})

	canonical := make(map[string]string, len(entries))
	code := 0
	prevLen := entries[0].len
	for _, e := range entries {
		if e.len > prevLen {
			code <<= e.len - prevLen
			prevLen = e.len
		}
		canonical[e.sym] = fmt.Sprintf("%0*b", e.len, code)
		code++
	}
	c.canonical = canonical
	return canonical, nil
}

// Encode maps each character through the active code table. Unmapped
// characters are recoverable: they are skipped and reported in the
// second return value, in first-occurrence order.
func (c *Coder) Encode(text string) (string, []string) {
	table := c.ActiveCodes()
	var bits strings.Builder
	var unmapped []string
	seen := map[string]bool{}
	for _, r := range text {
		sym := string(r)
		code, ok := table[sym]
		if !ok {
			if !seen[sym] {
				seen[sym] = true
				unmapped = append(unmapped, sym)
			}
			continue
		}
		bits.WriteString(code)
	}
	return bits.String(), unmapped
}

// Decode walks a decoding tree built from the active table: '0' goes
// left, '1' goes right, each leaf emits its symbol and resets the walk
// to the root. Trailing bits that do not reach a leaf are silently
// discarded.
func (c *Coder) Decode(bits string) (string, error) {
	if c.root == nil {
		return "", ErrNoTree
	}
	root := decodeTree(c.ActiveCodes())
	var out strings.Builder
	cur := root
	for _, b := range bits {
		switch b {
		case '0':
			cur = cur.zero
		case '1':
			cur = cur.one
		default:
			return "", ErrInvalidBit
		}
		if cur == nil {
			return "", fmt.Errorf("huffman: bit sequence matches no code")
		}
		if cur.sym != "" {
			out.WriteString(cur.sym)
			cur = root
		}
	}
	return out.String(), nil
}

type decodeNode struct {
	sym       string
	zero, one *decodeNode
}

func decodeTree(table map[string]string) *decodeNode {
	root := &decodeNode{}
	for sym, code := range table {
		cur := root
		for _, b := range code {
			var next **decodeNode
			if b == '0' {
				next = &cur.zero
			} else {
				next = &cur.one
			}
			if *next == nil {
				*next = &decodeNode{}
			}
			cur = *next
		}
		cur.sym = sym
	}
	return root
}

func (c *Coder) newNode(sym string, freq int, left, right *model.HuffNode) *model.HuffNode {
	c.seq++
	return &model.HuffNode{
		ID:     fmt.Sprintf("h%d", c.seq),
		Symbol: sym,
		Freq:   freq,
		Left:   left,
		Right:  right,
	}
}

func sortByFreq(queue []*model.HuffNode) {
	sort.SliceStable(queue, func(i, j int) bool { return queue[i].Freq < queue[j].Freq })
}

func snapshot(queue []*model.HuffNode, root *model.HuffNode) BuildSnapshot {
	s := BuildSnapshot{Root: root.Clone()}
	for _, n := range queue {
		s.Queue = append(s.Queue, n.Clone())
	}
	return s
}

func ids(queue []*model.HuffNode) []string {
	out := make([]string, len(queue))
	for i, n := range queue {
		out[i] = n.ID
	}
	return out
}

func label(n *model.HuffNode) string {
	if n.Leaf() {
		return fmt.Sprintf("%q (%d)", n.Symbol, n.Freq)
	}
	return fmt.Sprintf("internal (%d)", n.Freq)
}
