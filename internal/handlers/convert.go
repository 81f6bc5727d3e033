package handlers

import (
	"github.com/dimitrije/hackteam-api/internal/models"
	"github.com/dimitrije/hackteam-api/pkg/dto"
	"github.com/google/uuid"
)

func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                    u.ID,
		UserCode:              u.UserCode,
		Email:                 u.Email,
		Name:                  u.Name,
		AvatarURL:             u.AvatarURL,
		PhoneNumber:           u.PhoneNumber,
		ParticipationCategory: string(u.Category),
		IsKietian:             u.IsKietian,
		CreatedAt:             u.CreatedAt,
	}
}

func toUserSummary(u *models.User) dto.UserSummary {
	return dto.UserSummary{ID: u.ID, UserCode: u.UserCode, Name: u.Name, Email: u.Email}
}

func slotRef(t *models.Team, n int) *uuid.UUID {
	id := t.Slot(n)
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func toTeamResponse(t *models.Team) dto.TeamResponse {
	resp := dto.TeamResponse{
		ID:                    t.ID,
		TeamName:              t.Name,
		TeamCode:              t.Code,
		LeaderUserID:          t.LeaderID,
		ParticipationCategory: string(t.Category),
		IsKietian:             t.IsKietian,
		Department:            t.Department,
		TeamSize:              t.Size,
		IsCompleted:           t.IsCompleted,
		RequestsCount:         t.RequestsCount,
		Member1ID:             slotRef(t, 1),
		Member2ID:             slotRef(t, 2),
		Member3ID:             slotRef(t, 3),
		Member4ID:             slotRef(t, 4),
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
	}
	if t.Project != nil {
		cols := t.Project.Columns()
		resp.CategoryID = cols.CategoryID
		resp.ProblemStatementID = cols.ProblemStatementID
		resp.StartupID = cols.StartupID
		resp.SchoolStudentID = cols.SchoolStudentID
		resp.InovationIdeaName = cols.IdeaName
		resp.InovationIdeaDesc = cols.IdeaDesc
	}
	return resp
}

func toTeamDetailsResponse(d *models.TeamDetails) dto.TeamResponse {
	resp := toTeamResponse(d.Team)
	if d.Leader != nil {
		leader := toUserSummary(d.Leader)
		resp.Leader = &leader
	}
	resp.Members = make([]dto.UserSummary, 0, len(d.Members))
	for i := range d.Members {
		resp.Members = append(resp.Members, toUserSummary(&d.Members[i]))
	}
	resp.Requests = toRequestResponses(d.Requests)
	return resp
}

func toRequestResponse(r *models.TeamRequest) dto.RequestResponse {
	resp := dto.RequestResponse{
		ID:            r.ID,
		TeamID:        r.TeamID,
		RequestedByID: r.RequestedByID,
		RequestedToID: r.RequestedToID,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.Team != nil {
		resp.Team = &dto.RequestTeam{
			ID:                    r.Team.ID,
			TeamName:              r.Team.Name,
			TeamCode:              r.Team.Code,
			ParticipationCategory: string(r.Team.Category),
			TeamSize:              r.Team.Size,
			IsCompleted:           r.Team.IsCompleted,
		}
	}
	if r.RequestedBy != nil {
		by := toUserSummary(r.RequestedBy)
		resp.RequestedBy = &by
	}
	if r.RequestedTo != nil {
		to := toUserSummary(r.RequestedTo)
		resp.RequestedTo = &to
	}
	return resp
}

func toRequestResponses(reqs []models.TeamRequest) []dto.RequestResponse {
	out := make([]dto.RequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, toRequestResponse(&reqs[i]))
	}
	return out
}

func toCategoryResponse(cat *models.Category) dto.CategoryResponse {
	resp := dto.CategoryResponse{
		ID:                cat.ID,
		Name:              cat.Name,
		Description:       cat.Description,
		ProblemStatements: make([]dto.ProblemStatementResponse, 0, len(cat.ProblemStatements)),
	}
	for _, ps := range cat.ProblemStatements {
		resp.ProblemStatements = append(resp.ProblemStatements, toProblemStatementResponse(ps))
	}
	return resp
}

func toProblemStatementResponse(ps models.ProblemStatement) dto.ProblemStatementResponse {
	return dto.ProblemStatementResponse{
		ID:          ps.ID,
		CategoryID:  ps.CategoryID,
		Title:       ps.Title,
		Description: ps.Description,
	}
}
