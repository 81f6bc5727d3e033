package handlers

import (
	"github.com/dimitrije/hackteam-api/internal/middleware"
	"github.com/dimitrije/hackteam-api/internal/models"
	"github.com/dimitrije/hackteam-api/internal/services"
	"github.com/dimitrije/hackteam-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

type TeamHandler struct {
	teamService TeamServiceInterface
	log         logrus.FieldLogger
}

func NewTeamHandler(teamService TeamServiceInterface, log logrus.FieldLogger) *TeamHandler {
	return &TeamHandler{teamService: teamService, log: log}
}

// Create forms a team led by the caller and sends one request per invited member.
func (h *TeamHandler) Create(c *drift.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateTeamRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.teamService.Create(c.Request.Context(), principal, services.CreateTeamInput{
		Name:       req.TeamName,
		Department: req.Department,
		Size:       req.TeamSize,
		MemberIDs:  req.MemberUserIDs,
		Project: models.ProjectInput{
			CategoryID:         req.CategoryID,
			ProblemStatementID: req.ProblemStatementID,
			StartupID:          req.StartupID,
			SchoolStudentID:    req.SchoolStudentID,
			IdeaName:           req.InovationIdeaName,
			IdeaDesc:           req.InovationIdeaDesc,
		},
	})
	if err != nil {
		respondError(c, h.log, err, "failed to create team")
		return
	}

	_ = c.JSON(201, dto.CreateTeamResponse{
		Team:         toTeamResponse(result.Team),
		RequestsSent: len(result.Requests),
	})
}

func (h *TeamHandler) GetMine(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	details, err := h.teamService.GetTeamForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err, "failed to load team")
		return
	}

	_ = c.JSON(200, dto.TeamEnvelope{Team: toTeamDetailsResponse(details)})
}

func (h *TeamHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("teamId"))
	if err != nil {
		c.NotFound("team not found")
		return
	}

	details, err := h.teamService.GetByID(c.Request.Context(), teamID, userID)
	if err != nil {
		respondError(c, h.log, err, "failed to load team")
		return
	}

	_ = c.JSON(200, dto.TeamEnvelope{Team: toTeamDetailsResponse(details)})
}
