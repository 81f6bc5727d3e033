package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID                    uuid.UUID `json:"id"`
	UserCode              string    `json:"user_code"`
	Email                 string    `json:"email"`
	Name                  string    `json:"name"`
	AvatarURL             *string   `json:"avatar_url,omitempty"`
	PhoneNumber           *string   `json:"phone_number,omitempty"`
	ParticipationCategory string    `json:"participation_category,omitempty"`
	IsKietian             bool      `json:"is_kietian"`
	CreatedAt             time.Time `json:"created_at"`
}

// UserSummary is the short form of a user shown inside team and request payloads.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	UserCode string    `json:"user_code"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
}

type ProfileCompletion struct {
	BasicProfile    bool  `json:"basic_profile"`
	CategoryProfile *bool `json:"category_profile,omitempty"`
}

type ProfileResponse struct {
	User              UserResponse      `json:"user"`
	IsProfileComplete ProfileCompletion `json:"is_profile_complete"`
	Details           any               `json:"details,omitempty"`
}

type UpdateProfileRequest struct {
	Name                  *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	PhoneNumber           *string `json:"phone_number,omitempty" validate:"omitempty,min=10,max=15,numeric"`
	ParticipationCategory *string `json:"participation_category,omitempty" validate:"omitempty,oneof=school college researcher startup"`
	IsKietian             *bool   `json:"is_kietian,omitempty"`
}

type CreateCollegeStudentRequest struct {
	College string `json:"college" validate:"required"`
	Course  string `json:"course" validate:"required"`
	Year    int    `json:"year" validate:"required,min=1,max=4"`
	Branch  string `json:"branch" validate:"required"`
	UID     string `json:"uid" validate:"required"`
}

type CreateSchoolStudentRequest struct {
	School   string `json:"school" validate:"required"`
	Standard string `json:"standard" validate:"required"`
	Board    string `json:"board" validate:"required"`
	UID      string `json:"uid" validate:"required,len=12"`
}

type CreateResearcherRequest struct {
	PursuingDegree string `json:"pursuing_degree" validate:"required"`
	UniversityName string `json:"university_name" validate:"required"`
	UID            string `json:"uid" validate:"required,len=12"`
}

type CreateStartupRequest struct {
	StartupName       string  `json:"startup_name" validate:"required"`
	Website           string  `json:"website" validate:"required"`
	StartupSector     string  `json:"startup_sector" validate:"required"`
	Stage             string  `json:"stage" validate:"required"`
	City              string  `json:"city" validate:"required"`
	TeamSize          *int    `json:"team_size,omitempty" validate:"omitempty,min=1"`
	FounderName       string  `json:"founder_name" validate:"required"`
	FounderEmail      string  `json:"founder_email" validate:"required,email"`
	FounderUID        string  `json:"founder_uid" validate:"required,len=12"`
	FounderPhone      string  `json:"founder_phone" validate:"required"`
	Description       string  `json:"description" validate:"required"`
	ProblemSolving    string  `json:"problem_solving" validate:"required"`
	UVP               string  `json:"uvp" validate:"required"`
	PitchDeckLink     string  `json:"pitch_deck_link" validate:"required"`
	IsFunded          bool    `json:"is_funded"`
	FundedBy          *string `json:"funded_by,omitempty"`
	EventExpectations string  `json:"event_expectations" validate:"required"`
	AdditionalInfo    *string `json:"additional_info,omitempty"`
}

type SearchUsersResponse struct {
	Users []UserSummary `json:"users"`
}
