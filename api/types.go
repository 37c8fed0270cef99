package api

import (
	"context"

	"project-board/board"
	"project-board/domain"
)

// Board abstracts the project store for handlers.
type Board interface {
	Add(title, description string, people int) domain.Project
	Move(id string, status domain.Status)
	AddListener(fn board.Listener)
	Projects() []domain.Project
}

// Deduper suppresses duplicate submissions that share an idempotency key.
type Deduper interface {
	// Add records the key and returns true if it was newly added.
	Add(ctx context.Context, key string) (bool, error)
}
