// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/invowk/launchpad/internal/dag"
)

const (
	// StatusDone means the task ran and changed its outputs.
	StatusDone Status = iota
	// StatusNoChange means the task ran but its outputs were already current.
	StatusNoChange
	// StatusUpToDate means the task was skipped by its UpToDate check.
	StatusUpToDate
)

var (
	// ErrInvalidTask is returned when registering a task without a name or Run.
	ErrInvalidTask = errors.New("invalid task")
	// ErrDuplicateTask is returned when two tasks share a name.
	ErrDuplicateTask = errors.New("duplicate task")
	// ErrUnknownTask is returned when a target or dependency names no task.
	ErrUnknownTask = errors.New("unknown task")
	// ErrTaskFailed is the sentinel matched by every *TaskError.
	ErrTaskFailed = errors.New("task failed")
)

type (
	// Status describes what happened to a task during a run.
	Status int

	// Task is a unit of build work.
	Task struct {
		Name        string
		Description string
		// DependsOn names tasks that must complete first.
		DependsOn []string
		// UpToDate reports whether Run can be skipped. Nil means always run.
		UpToDate func(ctx context.Context) (bool, error)
		// Run does the work and reports whether any output changed.
		Run func(ctx context.Context) (bool, error)
	}

	// Result is the outcome of one task.
	Result struct {
		Task     string
		Status   Status
		Duration time.Duration
	}

	// TaskError wraps the failure of a named task.
	TaskError struct {
		Task string
		Err  error
	}

	// UnknownTaskError names the missing task and who asked for it.
	UnknownTaskError struct {
		Name        string
		RequestedBy string
	}

	// Clock supplies the time used to measure task durations.
	Clock interface {
		Now() time.Time
	}

	// Option configures a Runner.
	Option func(*Runner)

	// Runner executes registered tasks in dependency order.
	Runner struct {
		tasks  map[string]Task
		names  []string
		clock  Clock
		logger *slog.Logger
	}

	systemClock struct{}
)

func (systemClock) Now() time.Time { return time.Now() }

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusNoChange:
		return "no change"
	case StatusUpToDate:
		return "up to date"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// DidWork reports whether the task changed anything.
func (r Result) DidWork() bool { return r.Status == StatusDone }

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s failed: %v", e.Task, e.Err)
}

func (e *TaskError) Unwrap() []error { return []error{ErrTaskFailed, e.Err} }

func (e *UnknownTaskError) Error() string {
	if e.RequestedBy == "" {
		return fmt.Sprintf("%s: %q", ErrUnknownTask, e.Name)
	}
	return fmt.Sprintf("%s: %q (required by %q)", ErrUnknownTask, e.Name, e.RequestedBy)
}

func (e *UnknownTaskError) Unwrap() error { return ErrUnknownTask }

// WithClock sets the clock used for task durations.
func WithClock(c Clock) Option {
	return func(r *Runner) { r.clock = c }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// New creates a Runner with no tasks.
func New(opts ...Option) *Runner {
	r := &Runner{
		tasks:  make(map[string]Task),
		clock:  systemClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a task. Dependencies may be registered later.
func (r *Runner) Register(t Task) error {
	if t.Name == "" || t.Run == nil {
		return fmt.Errorf("%w: a task needs a name and a Run function", ErrInvalidTask)
	}
	if _, ok := r.tasks[t.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTask, t.Name)
	}
	t.DependsOn = slices.Clone(t.DependsOn)
	r.tasks[t.Name] = t
	r.names = append(r.names, t.Name)
	return nil
}

// Tasks returns the registered tasks in execution order.
func (r *Runner) Tasks() ([]Task, error) {
	order, err := r.Plan()
	if err != nil {
		return nil, err
	}
	tasks := make([]Task, len(order))
	for i, name := range order {
		tasks[i] = r.tasks[name]
	}
	return tasks, nil
}

// Plan returns the names of the tasks needed to build targets, in execution
// order. Without targets every task is planned.
func (r *Runner) Plan(targets ...string) ([]string, error) {
	g, err := r.graph()
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return g.TopologicalSort()
	}

	needed := make(map[string]bool)
	for _, target := range targets {
		if !g.Has(target) {
			return nil, &UnknownTaskError{Name: target}
		}
		ancestors, err := g.Ancestors(target)
		if err != nil {
			return nil, err
		}
		for _, name := range ancestors {
			needed[name] = true
		}
		needed[target] = true
	}

	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(order, func(name string) bool { return !needed[name] }), nil
}

// Run executes the planned tasks one at a time. It stops at the first
// failure and returns the results gathered so far with a *TaskError.
func (r *Runner) Run(ctx context.Context, targets ...string) ([]Result, error) {
	order, err := r.Plan(targets...)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(order))
	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("build canceled: %w", err)
		}
		res, err := r.runTask(ctx, r.tasks[name])
		if err != nil {
			r.logger.Debug("task failed", "task", name, "error", err)
			return results, &TaskError{Task: name, Err: err}
		}
		r.logger.Debug("task finished", "task", name, "status", res.Status.String(), "duration", res.Duration)
		results = append(results, res)
	}
	return results, nil
}

func (r *Runner) runTask(ctx context.Context, t Task) (Result, error) {
	start := r.clock.Now()
	res := Result{Task: t.Name}

	if t.UpToDate != nil {
		current, err := t.UpToDate(ctx)
		if err != nil {
			return res, err
		}
		if current {
			res.Status = StatusUpToDate
			res.Duration = r.clock.Now().Sub(start)
			return res, nil
		}
	}

	changed, err := t.Run(ctx)
	if err != nil {
		return res, err
	}
	res.Status = StatusNoChange
	if changed {
		res.Status = StatusDone
	}
	res.Duration = r.clock.Now().Sub(start)
	return res, nil
}

func (r *Runner) graph() (*dag.Graph, error) {
	g := dag.New()
	for _, name := range r.names {
		g.AddNode(name)
	}
	for _, name := range r.names {
		for _, dep := range r.tasks[name].DependsOn {
			if _, ok := r.tasks[dep]; !ok {
				return nil, &UnknownTaskError{Name: dep, RequestedBy: name}
			}
			g.AddDependency(name, dep)
		}
	}
	return g, nil
}
