package api

import "project-board/domain"

const dropMaxSize = 1024 // a drop body carries a single record id

// invalidInputsMessage is the user-facing validation failure alert.
const invalidInputsMessage = "Invalid Inputs!"

// dragEffectHeader carries the allowed-effect hint of a started gesture.
const dragEffectHeader = "X-Drag-Effect"

// idempotencyKeyHeader marks a submission for duplicate suppression.
const idempotencyKeyHeader = "Idempotency-Key"

// POST /api/projects response body.
type submitResponse struct {
	Project   *domain.Project `json:"project,omitempty"`
	Duplicate bool            `json:"duplicate,omitempty"`
}

// GET /api/projects response body.
type projectsResponse struct {
	Projects []domain.Project `json:"projects"`
}

// GET /api/lists/:status response body.
type listResponse struct {
	Status   domain.Status `json:"status"`
	Projects []projectView `json:"projects"`
}

// projectView is the rendered form of a record served to list clients:
// title, people label and description, in that order.
type projectView struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	PeopleLabel string        `json:"peopleLabel"`
	Description string        `json:"description"`
	Status      domain.Status `json:"status"`
	Display     string        `json:"display"`
}

func newProjectView(p domain.Project) projectView {
	return projectView{
		ID:          p.ID,
		Title:       p.Title,
		PeopleLabel: p.PeopleLabel(),
		Description: p.Description,
		Status:      p.Status,
		Display:     p.DisplayLine(),
	}
}

// renderList projects a snapshot onto one list: filter by the bound status,
// keep insertion order, render from scratch.
func renderList(projects []domain.Project, status domain.Status) []projectView {
	views := make([]projectView, 0, len(projects))
	for _, p := range projects {
		if p.Status != status {
			continue
		}
		views = append(views, newProjectView(p))
	}
	return views
}
