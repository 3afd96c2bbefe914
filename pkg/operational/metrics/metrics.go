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

// Package operationalMetrics registers the engine's own operational
// counters and keeps a definition list so their documentation can be
// generated. There is no exposition endpoint here: the consuming
// process decides whether and how to serve the default registry.
package operationalMetrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metricDefinition struct {
	Name string
	Help string
	Type string
}

var definitions []metricDefinition

func NewCounter(opts prometheus.CounterOpts) prometheus.Counter {
	definitions = append(definitions, metricDefinition{Name: opts.Name, Help: opts.Help, Type: "counter"})
	return promauto.NewCounter(opts)
}

func NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	definitions = append(definitions, metricDefinition{Name: opts.Name, Help: opts.Help, Type: "counter"})
	return promauto.NewCounterVec(opts, labelNames)
}

// Engine-wide operational counters.
var (
	TracesGenerated = NewCounterVec(prometheus.CounterOpts{
		Name: "steptrace_traces_generated_total",
		Help: "Number of step traces generated, by family and operation",
	}, []string{"family", "op"})

	StepsEmitted = NewCounterVec(prometheus.CounterOpts{
		Name: "steptrace_steps_emitted_total",
		Help: "Number of individual steps emitted into traces, by family",
	}, []string{"family"})

	RotationsPerformed = NewCounter(prometheus.CounterOpts{
		Name: "steptrace_rotations_total",
		Help: "Number of AVL rotations performed across all sessions",
	})

	ValidationViolations = NewCounterVec(prometheus.CounterOpts{
		Name: "steptrace_validation_violations_total",
		Help: "Number of invariant violations reported by the validator, by family",
	}, []string{"family"})
)

// GetDocumentation renders a markdown table per registered metric.
func GetDocumentation() string {
	doc := ""
	for _, def := range definitions {
		doc += fmt.Sprintf(
			`
### %s
| **Name** | %s |
|:---|:---|
| **Description** | %s |
| **Type** | %s |

`,
			def.Name,
			def.Name,
			def.Help,
			def.Type,
		)
	}

	return doc
}
