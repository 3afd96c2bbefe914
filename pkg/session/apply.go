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

package session

import (
	"github.com/mitchellh/mapstructure"

	"github.com/algoviz/steptrace/pkg/api"
)

// Apply decodes and dispatches one scenario command. Malformed
// parameters and unknown operations are input-validation failures:
// they are silently ignored apart from a debug log line, matching the
// behavior for non-numeric form input.
func (s *Session) Apply(cmd api.Command) error {
	decode := func(out interface{}) bool {
		if err := mapstructure.Decode(cmd.Params, out); err != nil {
			s.logger.Debugf("ignoring %s command with malformed params: %v", cmd.Op, err)
			return false
		}
		return true
	}

	switch cmd.Op {
	case api.OpInsert:
		var p api.InsertParams
		if !decode(&p) {
			return nil
		}
		return s.Insert(p.Value)
	case api.OpInsertBatch:
		var p api.InsertBatchParams
		if !decode(&p) {
			return nil
		}
		return s.InsertBatch(p.Values)
	case api.OpDelete:
		var p api.DeleteParams
		if !decode(&p) {
			return nil
		}
		return s.Delete(p)
	case api.OpClear:
		s.Clear()
		return nil
	case api.OpExtractRoot:
		_, err := s.ExtractRoot()
		return err
	case api.OpChangeKey:
		var p api.ChangeKeyParams
		if !decode(&p) {
			return nil
		}
		return s.ChangeKey(p.Index, p.Value)
	case api.OpBuildHuffman:
		var p api.BuildHuffmanParams
		if !decode(&p) {
			return nil
		}
		return s.BuildHuffman(p)
	case api.OpSetCanonical:
		var p api.SetCanonicalParams
		if !decode(&p) {
			return nil
		}
		return s.SetCanonical(p.Canonical)
	case api.OpEncode:
		var p api.EncodeParams
		if !decode(&p) {
			return nil
		}
		_, err := s.Encode(p.Text)
		return err
	case api.OpDecode:
		var p api.DecodeParams
		if !decode(&p) {
			return nil
		}
		_, err := s.Decode(p.Bits)
		return err
	case api.OpAddNode:
		var p api.AddNodeParams
		if !decode(&p) {
			return nil
		}
		_, err := s.AddNode(p.Label, p.X, p.Y)
		return err
	case api.OpAddEdge:
		var p api.AddEdgeParams
		if !decode(&p) {
			return nil
		}
		_, err := s.AddEdge(p.From, p.To, p.Weight)
		return err
	case api.OpDeleteNode:
		var p api.DeleteNodeParams
		if !decode(&p) {
			return nil
		}
		return s.DeleteNode(p.ID)
	case api.OpDeleteEdge:
		var p api.DeleteEdgeParams
		if !decode(&p) {
			return nil
		}
		return s.DeleteEdge(p.ID)
	case api.OpRunPrim:
		return s.RunPrim()
	case api.OpRunDijkstra:
		var p api.RunDijkstraParams
		if !decode(&p) {
			return nil
		}
		return s.RunDijkstra(p.Start)
	case api.OpRunTopoSort:
		return s.RunTopologicalSort()
	case api.OpStepForward:
		s.StepForward()
		return nil
	case api.OpStepBackward:
		s.StepBackward()
		return nil
	case api.OpRun:
		var p api.RunParams
		if !decode(&p) {
			return nil
		}
		s.Run(p.Speed)
		return nil
	case api.OpPause:
		s.Pause()
		return nil
	case api.OpReset:
		s.Reset()
		return nil
	default:
		s.logger.Debugf("ignoring unknown command %q", cmd.Op)
		return nil
	}
}
