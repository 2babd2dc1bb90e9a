// Copyright (c) nano Authors. All Rights Reserved.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package scheduler runs immediate and recurring tasks on a small pool of
// timer goroutines, shared by every session's heartbeat/test-request clock
// so the process does not spin up one OS timer per session.
package scheduler

import (
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/quantrail/fixcore/obslog"
)

// LocalScheduler schedules task to a customized goroutine
type LocalScheduler interface {
	Schedule(Task)
}

// Task is a function
type Task func()

// systemTimedSched is the library level timed-scheduler
var systemTimedSched = NewTimedSched(1)

func try(f Task) Task {
	return func() {
		defer func() {
			if err := recover(); err != nil {
				obslog.Logger().Error("scheduler task panic", "error", err, "stack", string(debug.Stack()))
			}
		}()
		f()
	}
}

// Close stops the scheduler
func Close() {
	systemTimedSched.Close()
	obslog.Logger().Info("scheduler stopped")
}

// Run adds a task to the scheduler for immediate execution.
func Run(task Task) {
	systemTimedSched.Run(try(task))
}

type repeatableTask struct {
	task     Task
	interval time.Duration
	stopped  *atomic.Bool
}

func (r repeatableTask) run() {
	if r.stopped.Load() {
		return
	}
	now := time.Now()
	r.task()
	if r.stopped.Load() {
		return
	}
	systemTimedSched.Put(r.run, now.Add(r.interval))
}

// Repeat runs task repeatedly at every interval until the process scheduler
// is closed. It has no cancellation handle; use RepeatUntil for a task whose
// lifetime is shorter than the process (e.g. a single session's clock).
func Repeat(task Task, interval time.Duration) {
	RepeatUntil(task, interval)
}

// CancelFunc stops a recurring task scheduled with RepeatUntil. Idempotent.
type CancelFunc func()

// RepeatUntil runs task repeatedly at every interval and returns a function
// that stops further executions. The in-flight execution, if any, still
// completes.
func RepeatUntil(task Task, interval time.Duration) CancelFunc {
	stopped := &atomic.Bool{}
	r := repeatableTask{try(task), interval, stopped}
	now := time.Now()
	systemTimedSched.Put(r.run, now.Add(interval))
	return func() { stopped.Store(true) }
}
