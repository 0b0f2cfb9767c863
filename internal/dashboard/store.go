// Package dashboard reconciles server-fetched task pages with tasks and
// completion toggles made locally during the session.
//
// The store never rewrites fetched records. Local state lives beside them
// (a newest-first list of created tasks and a map of completion overrides)
// and MergedView derives the display list from both on every call.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"taskdash/internal/ids"
	"taskdash/internal/service"
)

// DefaultPageSize is the number of server tasks shown per page.
const DefaultPageSize = 10

var (
	// ErrPageOutOfRange is returned for page numbers below 1 or past the last page.
	ErrPageOutOfRange = errors.New("page out of range")

	// ErrEmptyTitle is returned when a task title is blank after trimming.
	ErrEmptyTitle = errors.New("title required")

	// ErrToggleInFlight is returned when the same task is already being toggled.
	ErrToggleInFlight = errors.New("toggle already in progress")

	// ErrFetch wraps every failed page fetch.
	ErrFetch = errors.New("failed to fetch todos")
)

// Options configures a Store.
type Options struct {
	// PageSize is the page size requested from the backend. Defaults to DefaultPageSize.
	PageSize int

	// Logger receives debug records. Defaults to a discarding logger.
	Logger *slog.Logger

	// NewID generates identifiers for created tasks. Defaults to ids.Local.
	NewID func() int64
}

// Store holds the reconciliation state for one session.
// It is safe for concurrent use; no lock is held during remote calls.
type Store struct {
	svc      service.Service
	pageSize int
	log      *slog.Logger
	newID    func() int64

	mu        sync.Mutex
	page      int
	last      *service.Page
	lastPage  int
	local     []service.Task
	overrides map[int64]bool
	toggling  map[int64]struct{}
	seq       uint64
}

// New creates a store on page 1 with no data loaded.
func New(svc service.Service, opts Options) *Store {
	s := &Store{
		svc:       svc,
		pageSize:  opts.PageSize,
		log:       opts.Logger,
		newID:     opts.NewID,
		page:      1,
		overrides: make(map[int64]bool),
		toggling:  make(map[int64]struct{}),
	}
	if s.pageSize < 1 {
		s.pageSize = DefaultPageSize
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.newID == nil {
		s.newID = ids.Local
	}
	return s
}

// RequestPage makes n the current page and fetches it.
// The previously loaded page stays visible until the fetch succeeds.
// applied is false when a newer request was issued while this one was in
// flight; its response is then dropped.
func (s *Store) RequestPage(ctx context.Context, n int) (applied bool, err error) {
	s.mu.Lock()
	if err := s.checkPageLocked(n); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.page = n
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	page, err := s.svc.FetchPage(ctx, n, s.pageSize)
	if err != nil {
		s.log.Debug("page fetch failed", "page", n, "err", err)
		return false, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.log.Debug("dropping stale page", "page", n, "seq", seq, "latest", s.seq)
		return false, nil
	}
	s.last = &page
	s.lastPage = n
	return true, nil
}

// Reload fetches the current page again.
func (s *Store) Reload(ctx context.Context) (bool, error) {
	s.mu.Lock()
	n := s.page
	s.mu.Unlock()
	return s.RequestPage(ctx, n)
}

// checkPageLocked rejects n < 1 and, once the total is known, n past the last page.
func (s *Store) checkPageLocked(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: %d", ErrPageOutOfRange, n)
	}
	if s.last == nil {
		return nil
	}
	if total := totalPages(s.last.TotalCount, s.pageSize); total > 0 && n > total {
		return fmt.Errorf("%w: %d (last page is %d)", ErrPageOutOfRange, n, total)
	}
	return nil
}

// Toggle flips the completion state of task as currently displayed.
// task.Completed must be the displayed value, i.e. the one from MergedView.
//
// On success the override becomes !task.Completed regardless of what the
// backend echoes. A backend failure for a locally created task is expected
// (the backend never saw its id) and is treated as success.
func (s *Store) Toggle(ctx context.Context, task service.Task) (completed bool, err error) {
	want := !task.Completed

	s.mu.Lock()
	if _, busy := s.toggling[task.ID]; busy {
		s.mu.Unlock()
		return task.Completed, fmt.Errorf("%w: #%d", ErrToggleInFlight, task.ID)
	}
	s.toggling[task.ID] = struct{}{}
	local := task.IsLocal || s.isLocalLocked(task.ID)
	s.mu.Unlock()

	_, err = s.svc.SetCompleted(ctx, task.ID, want)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.toggling, task.ID)

	if err != nil {
		if !local {
			return task.Completed, err
		}
		s.log.Debug("ignoring toggle failure for local task", "id", task.ID, "err", err)
	}
	s.overrides[task.ID] = want
	return want, nil
}

// TogglePending reports whether a toggle on id is in flight.
func (s *Store) TogglePending(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.toggling[id]
	return ok
}

// AddTask creates a task and places it at the top of the merged view.
// The backend's identifier is replaced with a fresh local one.
func (s *Store) AddTask(ctx context.Context, title string) (service.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return service.Task{}, ErrEmptyTitle
	}

	created, err := s.svc.CreateTask(ctx, title)
	if err != nil {
		return service.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for s.knownLocked(id) {
		id = s.newID()
	}
	created.ID = id
	created.IsLocal = true
	if created.Title == "" {
		created.Title = title
	}

	s.local = append([]service.Task{created}, s.local...)
	return created, nil
}

func (s *Store) isLocalLocked(id int64) bool {
	for _, t := range s.local {
		if t.ID == id {
			return true
		}
	}
	return false
}

// knownLocked reports whether id is already used by a task the store has seen.
func (s *Store) knownLocked(id int64) bool {
	if s.isLocalLocked(id) {
		return true
	}
	if _, ok := s.overrides[id]; ok {
		return true
	}
	if s.last != nil {
		for _, t := range s.last.Items {
			if t.ID == id {
				return true
			}
		}
	}
	return false
}
