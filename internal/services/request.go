package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/hackteam-api/internal/database"
	"github.com/dimitrije/hackteam-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

type RequestService struct {
	db       *database.DB
	log      logrus.FieldLogger
	teams    *TeamService
	profiles *ProfileService
}

func NewRequestService(db *database.DB, log logrus.FieldLogger, teams *TeamService, profiles *ProfileService) *RequestService {
	return &RequestService{db: db, log: log, teams: teams, profiles: profiles}
}

// requestParty selects which side of a request is joined in listings.
type requestParty int

const (
	partyRequester requestParty = iota
	partyRecipient
)

// Respond resolves a pending request addressed to userID.
//
// Accepting runs as one serializable transaction: seat check, startup profile
// replication, slot fill, completion, then auto-rejection of the user's other
// pending requests. Any failure leaves the request pending.
func (s *RequestService) Respond(ctx context.Context, requestID, userID uuid.UUID, decision models.Decision) (*models.TeamRequest, error) {
	if !decision.Valid() {
		return nil, models.NewValidationError("action", "action must be either accept or reject")
	}

	tx, err := s.db.Serializable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	req, err := lockRequest(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RequestedToID != userID || req.Status != models.RequestPending {
		return nil, ErrRequestNotFound
	}

	if decision == models.DecisionReject {
		if err := setRequestStatus(ctx, tx, req, models.RequestRejected); err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, storeError(err, "commit transaction")
		}
		return req, nil
	}

	seated, err := isSeated(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if seated {
		return nil, ErrAlreadySeated
	}

	team, err := loadTeam(ctx, tx, req.TeamID, true)
	if err != nil {
		return nil, err
	}

	if team.Category == models.CategoryStartup {
		if err := s.profiles.replicateStartupProfile(ctx, tx, team, userID); err != nil {
			return nil, err
		}
	}

	if err := s.teams.fillNextSlot(ctx, tx, team, userID); err != nil {
		return nil, err
	}

	if err := recomputeCompletion(ctx, tx, team); err != nil {
		return nil, err
	}

	if err := setRequestStatus(ctx, tx, req, models.RequestAccepted); err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE team_requests SET status = 'rejected', updated_at = NOW()
		WHERE requested_to_id = $1 AND status = 'pending' AND id <> $2
	`, userID, req.ID)
	if err != nil {
		return nil, storeError(err, "reject other requests")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeError(err, "commit transaction")
	}

	s.log.WithFields(logrus.Fields{
		"request_id":    req.ID,
		"team_id":       team.ID,
		"user_id":       userID,
		"completed":     team.IsCompleted,
		"auto_rejected": tag.RowsAffected(),
	}).Info("request accepted")

	req.Team = team
	return req, nil
}

// Cancel withdraws a pending request. Only the leader who sent it may do so.
func (s *RequestService) Cancel(ctx context.Context, requestID, userID uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var teamID uuid.UUID
	err = tx.QueryRow(ctx, `
		DELETE FROM team_requests
		WHERE id = $1 AND requested_by_id = $2 AND status = 'pending'
		RETURNING team_id
	`, requestID, userID).Scan(&teamID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRequestNotFound
	}
	if err != nil {
		return storeError(err, "delete request")
	}

	_, err = tx.Exec(ctx, `
		UPDATE teams SET requests_count = requests_count - 1, updated_at = NOW()
		WHERE id = $1 AND requests_count > 0
	`, teamID)
	if err != nil {
		return storeError(err, "update request count")
	}

	if err := tx.Commit(ctx); err != nil {
		return storeError(err, "commit transaction")
	}
	return nil
}

// ListPending returns the pending requests addressed to userID, newest first.
func (s *RequestService) ListPending(ctx context.Context, userID uuid.UUID) ([]models.TeamRequest, error) {
	return listRequests(ctx, s.db.Pool, `r.requested_to_id = $1 AND r.status = 'pending'`, partyRequester, userID)
}

// ListSent returns every request userID sent, newest first.
func (s *RequestService) ListSent(ctx context.Context, userID uuid.UUID) ([]models.TeamRequest, error) {
	return listRequests(ctx, s.db.Pool, `r.requested_by_id = $1`, partyRecipient, userID)
}

func lockRequest(ctx context.Context, q database.Querier, requestID uuid.UUID) (*models.TeamRequest, error) {
	var req models.TeamRequest
	var status string
	err := q.QueryRow(ctx, `
		SELECT id, seq, team_id, requested_by_id, requested_to_id, status, created_at, updated_at
		FROM team_requests
		WHERE id = $1
		FOR UPDATE
	`, requestID).Scan(
		&req.ID, &req.Seq, &req.TeamID, &req.RequestedByID, &req.RequestedToID,
		&status, &req.CreatedAt, &req.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, storeError(err, "load request")
	}
	req.Status = models.RequestStatus(status)
	return &req, nil
}

func setRequestStatus(ctx context.Context, q database.Querier, req *models.TeamRequest, status models.RequestStatus) error {
	err := q.QueryRow(ctx, `
		UPDATE team_requests SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'pending'
		RETURNING updated_at
	`, string(status), req.ID).Scan(&req.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRequestNotFound
	}
	if err != nil {
		return storeError(err, "update request")
	}
	req.Status = status
	return nil
}

func listRequests(ctx context.Context, q database.Querier, filter string, party requestParty, args ...any) ([]models.TeamRequest, error) {
	join := "r.requested_by_id"
	if party == partyRecipient {
		join = "r.requested_to_id"
	}

	rows, err := q.Query(ctx, `
		SELECT r.id, r.seq, r.team_id, r.requested_by_id, r.requested_to_id, r.status, r.created_at, r.updated_at,
		       t.team_name, t.team_code, t.participation_category, t.team_size,
		       u.name, u.email, u.user_code
		FROM team_requests r
		JOIN teams t ON t.id = r.team_id
		JOIN users u ON u.id = `+join+`
		WHERE `+filter+`
		ORDER BY r.seq DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	requests := []models.TeamRequest{}
	for rows.Next() {
		var req models.TeamRequest
		var status, category string
		team := &models.Team{}
		user := &models.User{}
		if err := rows.Scan(
			&req.ID, &req.Seq, &req.TeamID, &req.RequestedByID, &req.RequestedToID, &status, &req.CreatedAt, &req.UpdatedAt,
			&team.Name, &team.Code, &category, &team.Size,
			&user.Name, &user.Email, &user.UserCode,
		); err != nil {
			return nil, err
		}
		req.Status = models.RequestStatus(status)
		team.ID = req.TeamID
		team.Category = models.ParticipationCategory(category)
		req.Team = team

		if party == partyRecipient {
			user.ID = req.RequestedToID
			req.RequestedTo = user
		} else {
			user.ID = req.RequestedByID
			req.RequestedBy = user
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
