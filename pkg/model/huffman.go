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

// HuffNode is a node of a Huffman coding tree. Symbol is set only on
// leaves; internal nodes carry the summed frequency of their subtree
// and always have exactly two children — a valid tree never has a node
// with a single child.
type HuffNode struct {
	ID     string    `json:"id"`
	Symbol string    `json:"symbol,omitempty"`
	Freq   int       `json:"freq"`
	Left   *HuffNode `json:"left,omitempty"`
	Right  *HuffNode `json:"right,omitempty"`
}

func (n *HuffNode) Leaf() bool { return n.Left == nil && n.Right == nil }

// Clone deep-copies the subtree, preserving ids.
func (n *HuffNode) Clone() *HuffNode {
	if n == nil {
		return nil
	}
	return &HuffNode{
		ID:     n.ID,
		Symbol: n.Symbol,
		Freq:   n.Freq,
		Left:   n.Left.Clone(),
		Right:  n.Right.Clone(),
	}
}

func (n *HuffNode) SnapshotKind() string { return "huffman" }
