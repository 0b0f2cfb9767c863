package dashboard

import (
	"sort"

	"taskdash/internal/service"
)

// View is the display-ready result of MergedView.
type View struct {
	// Tasks holds local tasks (newest first) followed by the loaded page's
	// items, with completion overrides applied.
	Tasks []service.Task `json:"tasks" yaml:"tasks"`

	// Page is the current (most recently requested) page.
	Page int `json:"page" yaml:"page"`

	// LoadedPage is the page Tasks were fetched for. It lags Page while a
	// fetch is in flight or after a failed one. Zero before the first load.
	LoadedPage int `json:"loadedPage" yaml:"loadedPage"`

	PageSize   int `json:"pageSize" yaml:"pageSize"`
	TotalCount int `json:"totalCount" yaml:"totalCount"`
	TotalPages int `json:"totalPages" yaml:"totalPages"`

	// Loaded is false until the first page fetch succeeds.
	Loaded bool `json:"loaded" yaml:"loaded"`

	// Toggling lists ids with a toggle in flight, ascending.
	Toggling []int64 `json:"toggling,omitempty" yaml:"toggling,omitempty"`
}

// HasPrev reports whether a previous page exists.
func (v View) HasPrev() bool {
	return v.Page > 1
}

// HasNext reports whether a next page exists.
func (v View) HasNext() bool {
	return v.Page < v.TotalPages
}

// MergedView derives the display list. It has no side effects.
func (s *Store) MergedView() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Page:     s.page,
		PageSize: s.pageSize,
	}

	var items []service.Task
	if s.last != nil {
		items = s.last.Items
		v.Loaded = true
		v.LoadedPage = s.lastPage
		v.TotalCount = s.last.TotalCount
		v.TotalPages = totalPages(s.last.TotalCount, s.pageSize)
	}

	v.Tasks = make([]service.Task, 0, len(s.local)+len(items))
	for _, t := range s.local {
		v.Tasks = append(v.Tasks, s.applyOverride(t))
	}
	for _, t := range items {
		v.Tasks = append(v.Tasks, s.applyOverride(t))
	}
	v.Toggling = s.togglingLocked()
	return v
}

func (s *Store) applyOverride(t service.Task) service.Task {
	if completed, ok := s.overrides[t.ID]; ok {
		t.Completed = completed
	}
	return t
}

// totalPages is ceil(total / size). Locally created tasks are not counted.
func totalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// State is a serializable copy of everything the store holds.
type State struct {
	Page      int            `json:"page" yaml:"page"`
	PageSize  int            `json:"pageSize" yaml:"pageSize"`
	Last      *service.Page  `json:"last,omitempty" yaml:"last,omitempty"`
	LastPage  int            `json:"lastPage,omitempty" yaml:"lastPage,omitempty"`
	Local     []service.Task `json:"local" yaml:"local"`
	Overrides map[int64]bool `json:"overrides" yaml:"overrides"`
	Toggling  []int64        `json:"toggling,omitempty" yaml:"toggling,omitempty"`
}

// Snapshot returns a deep copy of the store's state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Page:      s.page,
		PageSize:  s.pageSize,
		LastPage:  s.lastPage,
		Local:     append([]service.Task(nil), s.local...),
		Overrides: make(map[int64]bool, len(s.overrides)),
	}
	if s.last != nil {
		st.Last = &service.Page{
			Items:      append([]service.Task(nil), s.last.Items...),
			TotalCount: s.last.TotalCount,
		}
	}
	for id, v := range s.overrides {
		st.Overrides[id] = v
	}
	st.Toggling = s.togglingLocked()
	return st
}

// togglingLocked returns the in-flight toggle ids in ascending order, or nil.
func (s *Store) togglingLocked() []int64 {
	var out []int64
	for id := range s.toggling {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
