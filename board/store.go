// Package board holds the authoritative in-memory project state.
package board

import (
	"sync"

	"github.com/google/uuid"

	"project-board/domain"
)

// Listener receives a fresh snapshot of the full project sequence after
// every successful mutation.
type Listener func([]domain.Project)

// Store owns the ordered project sequence and its listener registry. All
// mutation goes through Add and Move. Listeners run synchronously under the
// store lock, so each notification observes a fully settled state; listeners
// must not call back into the store.
type Store struct {
	mu        sync.Mutex
	projects  []domain.Project
	listeners []Listener
}

// New creates an empty store.
func New() *Store { return &Store{} }

// Add creates a project in the active list and notifies listeners. Inputs
// are assumed validated by the caller; Add itself cannot fail.
func (s *Store) Add(title, description string, people int) domain.Project {
	p := domain.Project{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		People:      people,
		Status:      domain.StatusActive,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append(s.projects, p)
	s.notifyLocked()
	return p
}

// Move transitions the project with the given id to status. An unknown id or
// a move to the current status is a silent no-op and produces no
// notification.
func (s *Store) Move(id string, status domain.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID != id {
			continue
		}
		if s.projects[i].Status == status {
			return
		}
		s.projects[i].Status = status
		s.notifyLocked()
		return
	}
}

// AddListener appends fn to the registry. Listeners are permanent and are
// invoked in registration order; there is no removal.
func (s *Store) AddListener(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Projects returns a copy of the current sequence.
func (s *Store) Projects() []domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []domain.Project {
	return append([]domain.Project(nil), s.projects...)
}

// notifyLocked hands every listener its own copy of the sequence, never the
// live slice.
func (s *Store) notifyLocked() {
	for _, fn := range s.listeners {
		fn(s.snapshotLocked())
	}
}
