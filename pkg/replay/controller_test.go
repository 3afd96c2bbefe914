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

package replay

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algoviz/steptrace/pkg/engine/avl"
	"github.com/algoviz/steptrace/pkg/model"
	"github.com/algoviz/steptrace/pkg/trace"
)

// sampleTrace produces a real multi-step trace: an AVL insertion that
// triggers a rotation.
func sampleTrace(t *testing.T) *trace.Trace {
	t.Helper()
	b := avl.NewBalancer(model.NewTree())
	tr := b.InsertBatch([]int{10, 20, 30})
	require.Greater(t, tr.Len(), 3)
	return tr
}

func TestStepForwardAndBackwardBounds(t *testing.T) {
	c := NewController(clock.NewMock())
	assert.False(t, c.StepForward(), "no trace installed")
	assert.False(t, c.StepBackward())
	_, ok := c.Current()
	assert.False(t, ok)

	tr := sampleTrace(t)
	c.SetTrace(tr)
	assert.False(t, c.StepBackward(), "already at the first step")
	for i := 1; i < tr.Len(); i++ {
		require.True(t, c.StepForward())
		assert.Equal(t, i, c.Cursor())
	}
	assert.False(t, c.StepForward(), "already at the last step")
	assert.Equal(t, tr.Len()-1, c.Cursor())
}

func TestSetTraceResetsCursorAndCancelsAutoplay(t *testing.T) {
	mock := clock.NewMock()
	c := NewController(mock)
	c.SetTrace(sampleTrace(t))
	c.Run(5)
	require.True(t, c.Running())

	c.SetTrace(sampleTrace(t))
	assert.Zero(t, c.Cursor())
	assert.False(t, c.Running())
	mock.Add(time.Minute)
	assert.Zero(t, c.Cursor(), "the old timer must not tick into the new trace")
}

func TestAutoplayAdvancesOnTicks(t *testing.T) {
	mock := clock.NewMock()
	c := NewController(mock)
	c.SetTrace(sampleTrace(t))

	c.Run(4)
	require.True(t, c.Running())
	assert.Equal(t, 500*time.Millisecond, c.Delay())

	mock.Add(500 * time.Millisecond)
	assert.Equal(t, 1, c.Cursor())
	mock.Add(500 * time.Millisecond)
	assert.Equal(t, 2, c.Cursor())
}

func TestAutoplayPausesAtEnd(t *testing.T) {
	mock := clock.NewMock()
	c := NewController(mock)
	tr := sampleTrace(t)
	c.SetTrace(tr)

	c.Run(MaxSpeed)
	mock.Add(time.Minute)
	assert.Equal(t, tr.Len()-1, c.Cursor())
	assert.False(t, c.Running(), "reaching the last step auto-pauses")

	// A second Run at the end must not start a timer.
	c.Run(MaxSpeed)
	assert.False(t, c.Running())
	mock.Add(time.Minute)
	assert.Equal(t, tr.Len()-1, c.Cursor())
}

func TestRunWhileRunningOnlyAdjustsSpeed(t *testing.T) {
	mock := clock.NewMock()
	c := NewController(mock)
	c.SetTrace(sampleTrace(t))

	c.Run(1)
	require.True(t, c.Running())
	c.Run(10)
	assert.Equal(t, 200*time.Millisecond, c.Delay())

	// The tick already scheduled at speed 1 is still pending; exactly
	// one step may fire from it, never two timers' worth.
	mock.Add(2 * time.Second)
	assert.LessOrEqual(t, c.Cursor(), 1+int(2*time.Second/(200*time.Millisecond)))
}

func TestRunClampsSpeed(t *testing.T) {
	c := NewController(clock.NewMock())
	c.SetTrace(sampleTrace(t))
	c.Run(99)
	assert.Equal(t, 200*time.Millisecond, c.Delay())
	c.Pause()
	c.Run(-3)
	assert.Equal(t, 2*time.Second, c.Delay())
}

func TestPauseFreezesCursor(t *testing.T) {
	mock := clock.NewMock()
	c := NewController(mock)
	c.SetTrace(sampleTrace(t))

	c.Run(4)
	mock.Add(500 * time.Millisecond)
	require.Equal(t, 1, c.Cursor())
	c.Pause()
	assert.False(t, c.Running())
	mock.Add(time.Minute)
	assert.Equal(t, 1, c.Cursor())
}

func TestResetReturnsToFirstStep(t *testing.T) {
	mock := clock.NewMock()
	c := NewController(mock)
	c.SetTrace(sampleTrace(t))
	c.StepForward()
	c.StepForward()
	c.Run(4)

	c.Reset()
	assert.Zero(t, c.Cursor())
	assert.False(t, c.Running())
	mock.Add(time.Minute)
	assert.Zero(t, c.Cursor())
}

func TestBackwardRematerializesIdenticalState(t *testing.T) {
	c := NewController(clock.NewMock())
	tr := sampleTrace(t)
	c.SetTrace(tr)

	// Record what each step looked like on the way forward, then walk
	// back and forward again: re-materialized snapshots must match the
	// first visit exactly.
	seen := make([]trace.Step, 0, tr.Len())
	step, _ := c.Current()
	seen = append(seen, step)
	for c.StepForward() {
		step, _ = c.Current()
		seen = append(seen, step)
	}

	for i := tr.Len() - 2; i >= 0; i-- {
		require.True(t, c.StepBackward())
		step, ok := c.Current()
		require.True(t, ok)
		if diff := cmp.Diff(seen[i], step, cmpopts.IgnoreUnexported(model.Tree{})); diff != "" {
			t.Fatalf("step %d diverged after backward replay (-first +replayed):\n%s", i, diff)
		}
	}
	for i := 1; i < tr.Len(); i++ {
		require.True(t, c.StepForward())
		step, ok := c.Current()
		require.True(t, ok)
		if diff := cmp.Diff(seen[i], step, cmpopts.IgnoreUnexported(model.Tree{})); diff != "" {
			t.Fatalf("step %d diverged after forward replay (-first +replayed):\n%s", i, diff)
		}
	}
}
