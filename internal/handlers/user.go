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

type UserHandler struct {
	userService    UserServiceInterface
	profileService ProfileServiceInterface
	log            logrus.FieldLogger
}

func NewUserHandler(userService UserServiceInterface, profileService ProfileServiceInterface, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{userService: userService, profileService: profileService, log: log}
}

func (h *UserHandler) currentUser(c *drift.Context) (*models.User, bool) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return nil, false
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err, "failed to load user")
		return nil, false
	}
	return user, true
}

func (h *UserHandler) GetProfile(c *drift.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	_ = c.JSON(200, dto.ProfileResponse{
		User:              toUserResponse(user),
		IsProfileComplete: dto.ProfileCompletion{BasicProfile: user.HasBasicProfile()},
	})
}

// GetCompleteProfile returns the basic profile together with the
// category-specific one and both completion flags.
func (h *UserHandler) GetCompleteProfile(c *drift.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	status, details, err := registrationStatus(c.Request.Context(), h.profileService, user)
	if err != nil {
		respondError(c, h.log, err, "failed to load profile")
		return
	}

	_ = c.JSON(200, dto.ProfileResponse{
		User:              toUserResponse(user),
		IsProfileComplete: status.IsProfileComplete,
		Details:           details,
	})
}

func (h *UserHandler) UpdateProfile(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	in := services.UpdateProfileInput{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		IsKietian:   req.IsKietian,
	}
	if req.ParticipationCategory != nil {
		category := models.ParticipationCategory(*req.ParticipationCategory)
		in.Category = &category
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, h.log, err, "failed to update profile")
		return
	}

	_ = c.JSON(200, dto.ProfileResponse{
		User:              toUserResponse(user),
		IsProfileComplete: dto.ProfileCompletion{BasicProfile: user.HasBasicProfile()},
	})
}

func (h *UserHandler) CreateCollegeStudent(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateCollegeStudentRequest
	if !bindJSON(c, &req) {
		return
	}

	profile := &models.CollegeStudent{
		UserID:  userID,
		College: req.College,
		Course:  req.Course,
		Year:    req.Year,
		Branch:  req.Branch,
		UID:     req.UID,
	}
	if err := h.profileService.CreateCollegeStudent(c.Request.Context(), profile); err != nil {
		respondError(c, h.log, err, "failed to create college student profile")
		return
	}

	_ = c.JSON(201, profile)
}

func (h *UserHandler) CreateSchoolStudent(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateSchoolStudentRequest
	if !bindJSON(c, &req) {
		return
	}

	profile := &models.SchoolStudent{
		UserID:   userID,
		School:   req.School,
		Standard: req.Standard,
		Board:    req.Board,
		UID:      req.UID,
	}
	if err := h.profileService.CreateSchoolStudent(c.Request.Context(), profile); err != nil {
		respondError(c, h.log, err, "failed to create school student profile")
		return
	}

	_ = c.JSON(201, profile)
}

func (h *UserHandler) CreateResearcher(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateResearcherRequest
	if !bindJSON(c, &req) {
		return
	}

	profile := &models.Researcher{
		UserID:         userID,
		UID:            req.UID,
		UniversityName: req.UniversityName,
		PursuingDegree: req.PursuingDegree,
	}
	if err := h.profileService.CreateResearcher(c.Request.Context(), profile); err != nil {
		respondError(c, h.log, err, "failed to create researcher profile")
		return
	}

	_ = c.JSON(201, profile)
}

func (h *UserHandler) CreateStartup(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateStartupRequest
	if !bindJSON(c, &req) {
		return
	}

	founderUID := req.FounderUID
	profile := &models.Startup{
		UserID:            userID,
		StartupName:       req.StartupName,
		Website:           req.Website,
		StartupSector:     req.StartupSector,
		Stage:             req.Stage,
		City:              req.City,
		TeamSize:          req.TeamSize,
		FounderName:       req.FounderName,
		FounderEmail:      req.FounderEmail,
		FounderUID:        &founderUID,
		FounderPhone:      req.FounderPhone,
		Description:       req.Description,
		ProblemSolving:    req.ProblemSolving,
		UVP:               req.UVP,
		PitchDeckLink:     req.PitchDeckLink,
		IsFunded:          req.IsFunded,
		FundedBy:          req.FundedBy,
		EventExpectations: req.EventExpectations,
		AdditionalInfo:    req.AdditionalInfo,
	}
	if err := h.profileService.CreateStartup(c.Request.Context(), profile); err != nil {
		respondError(c, h.log, err, "failed to create startup profile")
		return
	}

	_ = c.JSON(201, profile)
}

func (h *UserHandler) Search(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	query := c.QueryParam("query")
	category := models.ParticipationCategory(c.QueryParam("participation_category"))

	users, err := h.userService.Search(c.Request.Context(), userID, query, category)
	if err != nil {
		respondError(c, h.log, err, "failed to search users")
		return
	}

	resp := dto.SearchUsersResponse{Users: make([]dto.UserSummary, 0, len(users))}
	for i := range users {
		resp.Users = append(resp.Users, toUserSummary(&users[i]))
	}
	_ = c.JSON(200, resp)
}
