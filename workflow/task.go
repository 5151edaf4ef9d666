// Package workflow provides a dependency-ordered task scheduler.
// Tasks declare the names of the tasks they depend on; independent tasks
// run concurrently, and a task failure only blocks its transitive
// dependents, never unrelated branches.
package workflow

import (
	"context"
	"time"
)

// Status represents the current state of a task.
type Status string

const (
	// StatusPending indicates the task has not started.
	StatusPending Status = "pending"
	// StatusInProgress indicates the task is currently executing.
	StatusInProgress Status = "in_progress"
	// StatusCompleted indicates the task finished successfully.
	StatusCompleted Status = "completed"
	// StatusFailed indicates the task ran and returned an error.
	StatusFailed Status = "failed"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Fn is a unit of work. It receives the accumulated workflow context,
// which holds the results of all completed tasks.
type Fn func(ctx context.Context, wc *Context) (any, error)

// Task is a named unit of work with declared dependencies.
// It is owned by a Workflow for the lifetime of one run.
type Task struct {
	// Name uniquely identifies the task within its workflow.
	Name string

	// Fn is the work to execute.
	Fn Fn

	// Dependencies lists the names of tasks that must complete first.
	Dependencies []string

	// Status is the task's current state.
	Status Status

	// Result holds the value returned by Fn. Opaque to the scheduler.
	Result any

	// Err holds the error returned by Fn, if any.
	Err error

	// StartedAt and CompletedAt bracket the task's execution.
	StartedAt   time.Time
	CompletedAt time.Time

	// skipped records that the task never became ready because an
	// upstream dependency failed.
	skipped bool
}

// execute runs the task's function and records status, result and timing.
func (t *Task) execute(ctx context.Context, wc *Context) {
	t.Status = StatusInProgress
	t.StartedAt = time.Now()

	result, err := t.Fn(ctx, wc)
	t.CompletedAt = time.Now()

	if err != nil {
		t.Status = StatusFailed
		t.Err = err
		return
	}

	t.Status = StatusCompleted
	t.Result = result
}

// Duration returns how long the task ran, or 0 if it never started.
func (t *Task) Duration() time.Duration {
	if t.StartedAt.IsZero() {
		return 0
	}
	return t.CompletedAt.Sub(t.StartedAt)
}

// Report is a summary of one task's outcome after a run.
type Report struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Skipped  bool          `json:"skipped,omitempty"`
	Duration time.Duration `json:"duration"`
}
