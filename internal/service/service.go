// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the backend does not know a task.
var ErrNotFound = errors.New("not found")

// Service defines the interface for remote task source operations.
// Every call is an independent round trip; no ordering is guaranteed
// between concurrent calls.
type Service interface {
	// FetchPage returns the tasks on a 1-based page together with the
	// backend's total task count.
	FetchPage(ctx context.Context, page, limit int) (Page, error)

	// SetCompleted sets a task's completion flag.
	// The returned task is the backend's echo and may be ignored.
	SetCompleted(ctx context.Context, id int64, completed bool) (Task, error)

	// CreateTask creates a new, incomplete task.
	// The returned task carries the backend-assigned identifier.
	CreateTask(ctx context.Context, title string) (Task, error)
}
