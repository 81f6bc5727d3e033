package models

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

func (s RequestStatus) IsTerminal() bool {
	return s == RequestAccepted || s == RequestRejected
}

type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

func (d Decision) Valid() bool {
	return d == DecisionAccept || d == DecisionReject
}

// TeamRequest is an invitation from a team leader to one user.
type TeamRequest struct {
	ID            uuid.UUID     `json:"id"`
	Seq           int64         `json:"-"`
	TeamID        uuid.UUID     `json:"team_id"`
	RequestedByID uuid.UUID     `json:"requested_by_id"`
	RequestedToID uuid.UUID     `json:"requested_to_id"`
	Status        RequestStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	Team        *Team `json:"team,omitempty"`
	RequestedBy *User `json:"requested_by,omitempty"`
	RequestedTo *User `json:"requested_to,omitempty"`
}
