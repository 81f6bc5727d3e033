package dto

import (
	"time"

	"github.com/google/uuid"
)

type RespondRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
}

// RequestTeam is the part of a team shown next to an invitation.
type RequestTeam struct {
	ID                    uuid.UUID `json:"id"`
	TeamName              string    `json:"team_name"`
	TeamCode              string    `json:"team_code"`
	ParticipationCategory string    `json:"participation_category"`
	TeamSize              int       `json:"team_size"`
	IsCompleted           bool      `json:"is_completed"`
}

type RequestResponse struct {
	ID            uuid.UUID    `json:"id"`
	TeamID        uuid.UUID    `json:"team_id"`
	RequestedByID uuid.UUID    `json:"requested_by_id"`
	RequestedToID uuid.UUID    `json:"requested_to_id"`
	Status        string       `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Team          *RequestTeam `json:"team,omitempty"`
	RequestedBy   *UserSummary `json:"requested_by,omitempty"`
	RequestedTo   *UserSummary `json:"requested_to,omitempty"`
}

type RequestsResponse struct {
	Requests []RequestResponse `json:"requests"`
}

type RequestEnvelope struct {
	Request RequestResponse `json:"request"`
}
