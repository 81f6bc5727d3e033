package dto

import "github.com/google/uuid"

type ProblemStatementResponse struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

type CategoryResponse struct {
	ID                uuid.UUID                  `json:"id"`
	Name              string                     `json:"name"`
	Description       string                     `json:"description"`
	ProblemStatements []ProblemStatementResponse `json:"problem_statements"`
}
