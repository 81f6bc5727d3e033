package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/hackteam-api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MembershipIndex answers whether a user already holds a seat in some team.
// Seats live in team_seats, keyed by user, and are written in the same
// transaction that creates a team or accepts a request.
type MembershipIndex struct {
	db *database.DB
}

func NewMembershipIndex(db *database.DB) *MembershipIndex {
	return &MembershipIndex{db: db}
}

func (m *MembershipIndex) IsSeated(ctx context.Context, userID uuid.UUID) (bool, error) {
	return isSeated(ctx, m.db.Pool, userID)
}

// SeatedUserIDs returns the subset of candidates that already hold a seat.
func (m *MembershipIndex) SeatedUserIDs(ctx context.Context, candidates []uuid.UUID) ([]uuid.UUID, error) {
	return seatedUserIDs(ctx, m.db.Pool, candidates)
}

// TeamIDFor returns the team the user is seated in.
func (m *MembershipIndex) TeamIDFor(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var teamID uuid.UUID
	err := m.db.Pool.QueryRow(ctx, `SELECT team_id FROM team_seats WHERE user_id = $1`, userID).Scan(&teamID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrTeamNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to look up seat: %w", err)
	}
	return teamID, nil
}

func isSeated(ctx context.Context, q database.Querier, userID uuid.UUID) (bool, error) {
	var seated bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM team_seats WHERE user_id = $1)`, userID).Scan(&seated)
	if err != nil {
		return false, storeError(err, "check seat")
	}
	return seated, nil
}

func seatedUserIDs(ctx context.Context, q database.Querier, candidates []uuid.UUID) ([]uuid.UUID, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	rows, err := q.Query(ctx, `SELECT user_id FROM team_seats WHERE user_id = ANY($1)`, candidates)
	if err != nil {
		return nil, storeError(err, "check seats")
	}
	defer rows.Close()

	var seated []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		seated = append(seated, id)
	}
	return seated, rows.Err()
}

// seatUser records a seat. The primary key on user_id rejects a second seat
// for the same user even when two transactions race past the read check.
func seatUser(ctx context.Context, q database.Querier, teamID, userID uuid.UUID, slot int) error {
	_, err := q.Exec(ctx, `
		INSERT INTO team_seats (user_id, team_id, slot)
		VALUES ($1, $2, $3)
	`, userID, teamID, slot)
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err, "team_seats_pkey"):
		return ErrAlreadySeated
	case database.IsUniqueViolation(err, "team_seats_slot_key"):
		return ErrTeamFull
	default:
		return storeError(err, "seat user")
	}
}

// storeError turns a lost serialization race into a conflict and wraps everything else.
func storeError(err error, action string) error {
	if database.IsSerializationFailure(err) {
		return ErrConcurrentUpdate
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
