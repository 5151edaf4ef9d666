package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// DeadlockError indicates the scheduler could not make progress: tasks
// remain pending but none can ever become ready. This only happens with a
// malformed graph (a dependency cycle or an edge to a missing task) and is
// a programming error.
type DeadlockError struct {
	// Tasks names the stuck tasks, sorted.
	Tasks []string
}

func (e *DeadlockError) Error() string {
	return fmt.Sprintf("workflow deadlock: tasks can never become ready: %s",
		strings.Join(e.Tasks, ", "))
}

// Workflow executes registered tasks honoring their declared dependencies.
// Independent tasks run concurrently with no relative ordering guarantee;
// a task's result is visible to dependents only after it completes.
type Workflow struct {
	logger *slog.Logger
	tasks  map[string]*Task
	order  []string // registration order, for stable reports
	ran    bool
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) {
		w.logger = logger
	}
}

// New creates an empty workflow.
func New(opts ...Option) *Workflow {
	w := &Workflow{
		logger: slog.Default(),
		tasks:  make(map[string]*Task),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Register adds a named task with its dependencies. All registration must
// happen before Run.
func (w *Workflow) Register(name string, fn Fn, dependencies ...string) error {
	if w.ran {
		return fmt.Errorf("cannot register task %q: workflow already ran", name)
	}
	if name == "" {
		return fmt.Errorf("task name is required")
	}
	if fn == nil {
		return fmt.Errorf("task %q: fn is required", name)
	}
	if _, exists := w.tasks[name]; exists {
		return fmt.Errorf("task %q already registered", name)
	}

	w.tasks[name] = &Task{
		Name:         name,
		Fn:           fn,
		Dependencies: dependencies,
		Status:       StatusPending,
	}
	w.order = append(w.order, name)

	w.logger.Debug("Registered task", "task", name, "dependencies", dependencies)
	return nil
}

// Run executes all registered tasks to quiescence and returns the final
// context. Each pass runs every ready task concurrently, merges completed
// results into the context, and recomputes the ready set. A task failure
// does not abort independent branches; it only keeps its transitive
// dependents from ever becoming ready (they are reported as skipped).
// A pending task with no failed ancestor that can never become ready is a
// deadlock and returns a *DeadlockError.
func (w *Workflow) Run(ctx context.Context, initial map[string]any) (*Context, error) {
	w.ran = true
	wc := NewContext(initial)

	completed := make(map[string]bool)

	for {
		ready := w.readySet(completed)
		if len(ready) == 0 {
			break
		}

		var wg sync.WaitGroup
		for _, task := range ready {
			wg.Add(1)
			go func(t *Task) {
				defer wg.Done()
				w.logger.Info("Starting task", "task", t.Name)
				t.execute(ctx, wc)
				if t.Status == StatusFailed {
					w.logger.Error("Task failed", "task", t.Name, "duration", t.Duration(), "error", t.Err)
				} else {
					w.logger.Info("Completed task", "task", t.Name, "duration", t.Duration())
				}
			}(task)
		}
		wg.Wait()

		for _, task := range ready {
			if task.Status != StatusCompleted {
				continue
			}
			completed[task.Name] = true
			if err := wc.set(ResultKey(task.Name), task.Result); err != nil {
				return nil, fmt.Errorf("merge result of task %q: %w", task.Name, err)
			}
		}
	}

	// Quiescence: anything still pending either lost an upstream
	// dependency to a failure (skipped) or can never run at all (deadlock).
	var stuck []string
	for _, name := range w.order {
		task := w.tasks[name]
		if task.Status != StatusPending {
			continue
		}
		if w.hasFailedAncestor(name, make(map[string]bool)) {
			task.skipped = true
			w.logger.Warn("Task skipped due to upstream failure", "task", name)
			continue
		}
		stuck = append(stuck, name)
	}

	if len(stuck) > 0 {
		sort.Strings(stuck)
		return wc, &DeadlockError{Tasks: stuck}
	}

	return wc, nil
}

// readySet returns pending tasks whose dependencies are all completed.
func (w *Workflow) readySet(completed map[string]bool) []*Task {
	var ready []*Task
	for _, name := range w.order {
		task := w.tasks[name]
		if task.Status != StatusPending {
			continue
		}
		eligible := true
		for _, dep := range task.Dependencies {
			if !completed[dep] {
				eligible = false
				break
			}
		}
		if eligible {
			ready = append(ready, task)
		}
	}
	return ready
}

// hasFailedAncestor reports whether any transitive dependency of the named
// task failed or was itself skipped.
func (w *Workflow) hasFailedAncestor(name string, visited map[string]bool) bool {
	if visited[name] {
		return false
	}
	visited[name] = true

	task, ok := w.tasks[name]
	if !ok {
		return false
	}
	for _, dep := range task.Dependencies {
		depTask, ok := w.tasks[dep]
		if !ok {
			continue
		}
		if depTask.Status == StatusFailed {
			return true
		}
		if w.hasFailedAncestor(dep, visited) {
			return true
		}
	}
	return false
}

// Task returns the named task, or nil.
func (w *Workflow) Task(name string) *Task {
	return w.tasks[name]
}

// Reports returns a per-task summary in registration order. Tasks that
// never ran because an upstream dependency failed are marked Skipped,
// distinct from tasks that ran and failed themselves.
func (w *Workflow) Reports() []Report {
	reports := make([]Report, 0, len(w.order))
	for _, name := range w.order {
		task := w.tasks[name]
		r := Report{
			Name:     name,
			Status:   task.Status,
			Skipped:  task.skipped,
			Duration: task.Duration(),
		}
		if task.Err != nil {
			r.Error = task.Err.Error()
		}
		reports = append(reports, r)
	}
	return reports
}
