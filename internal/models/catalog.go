package models

import "github.com/google/uuid"

type Category struct {
	ID                uuid.UUID          `json:"id"`
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	ProblemStatements []ProblemStatement `json:"problem_statements,omitempty"`
}

type ProblemStatement struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}
