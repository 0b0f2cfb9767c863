// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"taskdash/internal/service"
)

// Call records one request made to a FakeService.
type Call struct {
	Op        string
	Page      int
	Limit     int
	ID        int64
	Completed bool
	Title     string
}

// FakeService is an in-memory implementation of service.Service for testing.
// Like the public placeholder API it accepts writes without persisting them:
// SetCompleted and CreateTask never change what FetchPage returns.
type FakeService struct {
	mu    sync.Mutex
	tasks []service.Task
	calls []Call

	// Error injection for testing
	FetchPageErr    error
	SetCompletedErr error
	CreateTaskErr   error

	// EchoCompleted overrides the completed flag echoed by SetCompleted.
	EchoCompleted *bool

	// Hook, when set, runs at the start of every call outside the lock.
	// Tests use it to hold calls in flight.
	Hook func(c Call)
}

// NewFakeService creates a FakeService with no tasks.
func NewFakeService() *FakeService {
	return &FakeService{}
}

// NewFakeServiceWithTasks creates a FakeService holding n tasks with ids
// 1..n; every third task is completed.
func NewFakeServiceWithTasks(n int) *FakeService {
	f := NewFakeService()
	for i := 1; i <= n; i++ {
		f.AddTask(int64(i), fmt.Sprintf("task %d", i), i%3 == 0)
	}
	return f
}

// AddTask adds a server-side task.
func (f *FakeService) AddTask(id int64, title string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{
		OwnerID:   1,
		ID:        id,
		Title:     title,
		Completed: completed,
	})
}

// Calls returns the recorded calls in order.
func (f *FakeService) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount returns how many calls of op were made.
func (f *FakeService) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (f *FakeService) record(c Call) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	hook := f.Hook
	f.mu.Unlock()
	if hook != nil {
		hook(c)
	}
}

// FetchPage implements service.Service.
func (f *FakeService) FetchPage(ctx context.Context, page, limit int) (service.Page, error) {
	f.record(Call{Op: "FetchPage", Page: page, Limit: limit})
	if err := ctx.Err(); err != nil {
		return service.Page{}, err
	}
	if f.FetchPageErr != nil {
		return service.Page{}, f.FetchPageErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	result := service.Page{TotalCount: len(f.tasks), Items: []service.Task{}}
	start := (page - 1) * limit
	if start >= len(f.tasks) {
		return result, nil
	}
	end := start + limit
	if end > len(f.tasks) {
		end = len(f.tasks)
	}
	result.Items = append(result.Items, f.tasks[start:end]...)
	return result, nil
}

// SetCompleted implements service.Service.
// Unknown ids fail with service.ErrNotFound.
func (f *FakeService) SetCompleted(ctx context.Context, id int64, completed bool) (service.Task, error) {
	f.record(Call{Op: "SetCompleted", ID: id, Completed: completed})
	if err := ctx.Err(); err != nil {
		return service.Task{}, err
	}
	if f.SetCompletedErr != nil {
		return service.Task{}, f.SetCompletedErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range f.tasks {
		if t.ID == id {
			t.Completed = completed
			if f.EchoCompleted != nil {
				t.Completed = *f.EchoCompleted
			}
			return t, nil
		}
	}
	return service.Task{}, service.ErrNotFound
}

// CreateTask implements service.Service.
// Like the placeholder API it always answers with id len(tasks)+1.
func (f *FakeService) CreateTask(ctx context.Context, title string) (service.Task, error) {
	f.record(Call{Op: "CreateTask", Title: title})
	if err := ctx.Err(); err != nil {
		return service.Task{}, err
	}
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return service.Task{
		OwnerID: 1,
		ID:      int64(len(f.tasks) + 1),
		Title:   title,
	}, nil
}
