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

// Package replay turns any step trace into steppable, pausable,
// speed-controlled playback. Stepping backward is a pure
// re-materialization from the target step's snapshot, never an
// inverse-operation replay, so it is O(1) and cannot desynchronize.
package replay

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	log "github.com/sirupsen/logrus"

	"github.com/algoviz/steptrace/pkg/trace"
)

const (
	MinSpeed = 1
	MaxSpeed = 10

	// baseDelay is the tick interval at speed 1; the delay between
	// autoplay steps is baseDelay / speed.
	baseDelay = 2 * time.Second
)

// Controller drives a cursor over one trace. At most one autoplay
// timer is active at a time: Run while running is a no-op, and Pause,
// Reset and SetTrace cancel any pending tick.
type Controller struct {
	mu      sync.Mutex
	clk     clock.Clock
	tr      *trace.Trace
	cursor  int
	running bool
	speed   int
	timer   *clock.Timer
}

// NewController builds a controller on the given clock; pass nil for
// the wall clock. Tests inject clock.NewMock().
func NewController(clk clock.Clock) *Controller {
	if clk == nil {
		clk = clock.New()
	}
	return &Controller{clk: clk, speed: MinSpeed}
}

// SetTrace installs a freshly generated trace, cancels any autoplay
// and resets the cursor to the first step.
func (c *Controller) SetTrace(t *trace.Trace) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.tr = t
	c.cursor = 0
}

func (c *Controller) Trace() *trace.Trace {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tr
}

func (c *Controller) Cursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Current returns the step at the cursor, or false when no trace is
// installed.
func (c *Controller) Current() (trace.Step, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tr == nil || c.tr.Len() == 0 {
		return trace.Step{}, false
	}
	return c.tr.At(c.cursor), true
}

// StepForward advances the cursor by one step. It reports false at the
// end of the trace.
func (c *Controller) StepForward() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forwardLocked()
}

// StepBackward moves the cursor back by one step, re-materializing the
// earlier state from its stored snapshot.
func (c *Controller) StepBackward() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tr == nil || c.cursor == 0 {
		return false
	}
	c.cursor--
	return true
}

// Run starts autoplay at the given speed (clamped to 1..10). Starting
// while already running only adjusts the speed of subsequent ticks; it
// never installs a second timer for the same trace.
func (c *Controller) Run(speed int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if speed < MinSpeed {
		speed = MinSpeed
	}
	if speed > MaxSpeed {
		speed = MaxSpeed
	}
	c.speed = speed
	if c.tr == nil || c.cursor >= c.tr.Len()-1 {
		return
	}
	if c.running {
		log.Debugf("replay: already running, speed set to %d", speed)
		return
	}
	c.running = true
	c.schedule()
}

// Pause cancels the pending tick, if any. The cursor stays put.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Reset pauses and moves the cursor back to the first step.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.cursor = 0
}

// Delay returns the wall-clock interval between autoplay steps at the
// current speed.
func (c *Controller) Delay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return baseDelay / time.Duration(c.speed)
}

func (c *Controller) schedule() {
	c.timer = c.clk.AfterFunc(baseDelay/time.Duration(c.speed), c.tick)
}

func (c *Controller) tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.forwardLocked()
	if c.tr == nil || c.cursor >= c.tr.Len()-1 {
		// Auto-pause at the end of the trace.
		c.running = false
		c.timer = nil
		return
	}
	c.schedule()
}

func (c *Controller) forwardLocked() bool {
	if c.tr == nil || c.cursor >= c.tr.Len()-1 {
		return false
	}
	c.cursor++
	return true
}

func (c *Controller) stopLocked() {
	c.running = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
