package services

import "github.com/dimitrije/hackteam-api/internal/models"

var (
	ErrAlreadySeated     = models.NewError(models.ErrConflict, "you are already part of a team")
	ErrLeaderSeated      = models.NewError(models.ErrConflict, "you are already part of a team and cannot create another")
	ErrMembersSeated     = models.NewError(models.ErrConflict, "one or more invited users are already part of a team")
	ErrTeamFull          = models.NewError(models.ErrConflict, "Team is already full")
	ErrConcurrentUpdate  = models.NewError(models.ErrConflict, "the team changed while your request was processed, please retry")
	ErrTeamCodeExhausted = models.NewError(models.ErrConflict, "could not allocate a unique team code, please retry")
	ErrProfileExists     = models.NewError(models.ErrConflict, "a profile of this type already exists")

	ErrTeamNotFound     = models.NewError(models.ErrNotFound, "team not found")
	ErrRequestNotFound  = models.NewError(models.ErrNotFound, "request not found or already processed")
	ErrUserNotFound     = models.NewError(models.ErrNotFound, "user not found")
	ErrProfileNotFound  = models.NewError(models.ErrNotFound, "profile not found")
	ErrCategoryNotFound = models.NewError(models.ErrNotFound, "category not found")

	ErrSlotInvariant = models.NewError(models.ErrConsistency, "internal error")
)
