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

// Package api defines the typed command surface the presentation layer
// drives the engine with, and the per-mode display configuration.
package api

// Struct tag names the documentation generator walks.
const (
	TagYaml = "yaml"
	TagDoc  = "doc"
)

// Command operation names accepted from the UI or a scenario file.
const (
	OpInsert       = "insert"
	OpInsertBatch  = "insertBatch"
	OpDelete       = "delete"
	OpClear        = "clear"
	OpExtractRoot  = "extractRoot"
	OpChangeKey    = "changeKey"
	OpBuildHuffman = "buildHuffman"
	OpSetCanonical = "setCanonical"
	OpEncode       = "encode"
	OpDecode       = "decode"
	OpAddNode      = "addNode"
	OpAddEdge      = "addEdge"
	OpDeleteNode   = "deleteNode"
	OpDeleteEdge   = "deleteEdge"
	OpRunPrim      = "runPrim"
	OpRunDijkstra  = "runDijkstra"
	OpRunTopoSort  = "runTopologicalSort"

	// Generic replay commands.
	OpStepForward  = "stepForward"
	OpStepBackward = "stepBackward"
	OpRun          = "run"
	OpPause        = "pause"
	OpReset        = "reset"
)

// Ops returns every recognized operation name in a stable order.
func Ops() []string {
	return []string{
		OpInsert, OpInsertBatch, OpDelete, OpClear,
		OpExtractRoot, OpChangeKey,
		OpBuildHuffman, OpSetCanonical, OpEncode, OpDecode,
		OpAddNode, OpAddEdge, OpDeleteNode, OpDeleteEdge,
		OpRunPrim, OpRunDijkstra, OpRunTopoSort,
		OpStepForward, OpStepBackward, OpRun, OpPause, OpReset,
	}
}

// Command is one scenario entry: an operation name plus its raw
// parameters, decoded into the typed records below per operation.
type Command struct {
	Op     string                 `yaml:"op" json:"op"`
	Params map[string]interface{} `yaml:"params" json:"params"`
}

// DisplayConfig enumerates the recognized per-mode display toggles.
// The engine carries it verbatim for the rendering layer; only the
// rendering layer interprets it.
type DisplayConfig struct {
	ShowHeight          bool `yaml:"showHeight" json:"showHeight" doc:"annotate every node with its height"`
	ShowDepth           bool `yaml:"showDepth" json:"showDepth" doc:"annotate every node with its depth"`
	ShowBalanceFactor   bool `yaml:"showBalanceFactor" json:"showBalanceFactor" doc:"annotate every node with its balance factor"`
	HighlightUnbalanced bool `yaml:"highlightUnbalanced" json:"highlightUnbalanced" doc:"highlight nodes whose balance factor exceeds 1 in magnitude"`
}

// FrequencyEntry is one Huffman frequency table row. Order carries the
// tiebreak for equal frequencies.
type FrequencyEntry struct {
	Symbol string `yaml:"symbol" json:"symbol" mapstructure:"symbol"`
	Freq   int    `yaml:"freq" json:"freq" mapstructure:"freq"`
}

type InsertParams struct {
	Value int `mapstructure:"value"`
}

type InsertBatchParams struct {
	Values []int `mapstructure:"values"`
}

// DeleteParams addresses the element to remove: a value for trees, an
// index for heaps, leaving the other field at its zero value.
type DeleteParams struct {
	Value *int `mapstructure:"value"`
	Index *int `mapstructure:"index"`
}

type ChangeKeyParams struct {
	Index int `mapstructure:"index"`
	Value int `mapstructure:"value"`
}

// BuildHuffmanParams accepts either literal text (frequencies counted
// in first-appearance order) or an explicit frequency table.
type BuildHuffmanParams struct {
	Text        string           `mapstructure:"text"`
	Frequencies []FrequencyEntry `mapstructure:"frequencies"`
}

type SetCanonicalParams struct {
	Canonical bool `mapstructure:"canonical"`
}

type EncodeParams struct {
	Text string `mapstructure:"text"`
}

type DecodeParams struct {
	Bits string `mapstructure:"bits"`
}

type AddNodeParams struct {
	Label string  `mapstructure:"label"`
	X     float64 `mapstructure:"x"`
	Y     float64 `mapstructure:"y"`
}

type AddEdgeParams struct {
	From   string  `mapstructure:"from"`
	To     string  `mapstructure:"to"`
	Weight float64 `mapstructure:"weight"`
}

type DeleteNodeParams struct {
	ID string `mapstructure:"id"`
}

type DeleteEdgeParams struct {
	ID string `mapstructure:"id"`
}

type RunDijkstraParams struct {
	Start string `mapstructure:"start"`
}

type RunParams struct {
	Speed int `mapstructure:"speed"`
}
