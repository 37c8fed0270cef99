package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Status partitions the board into its two lists.
type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// ParseStatus maps a raw list identifier to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, nil
	case StatusFinished:
		return StatusFinished, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

func (s Status) String() string { return string(s) }

// Project represents a single board record. ID is assigned at creation and
// never changes; Status is the only field that mutates afterwards.
type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	People      int    `json:"people"`
	Status      Status `json:"status"`
}

// PeopleLabel renders the assigned-person count for display.
func (p Project) PeopleLabel() string {
	if p.People == 1 {
		return "1 person"
	}
	return strconv.Itoa(p.People) + " persons"
}

// DisplayLine renders the project as a single display row: title, people
// label, description, in that order.
func (p Project) DisplayLine() string {
	return strings.Join([]string{p.Title, p.PeopleLabel(), p.Description}, ", ")
}
