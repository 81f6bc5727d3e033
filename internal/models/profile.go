package models

import (
	"time"

	"github.com/google/uuid"
)

// UIDLength is the length of the national identity number stored on profiles.
const UIDLength = 12

type CollegeStudent struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	College   string    `json:"college"`
	Course    string    `json:"course"`
	Year      int       `json:"year"`
	Branch    string    `json:"branch"`
	UID       string    `json:"uid"`
	CreatedAt time.Time `json:"created_at"`
}

type SchoolStudent struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	School    string    `json:"school"`
	Standard  string    `json:"standard"`
	Board     string    `json:"board"`
	UID       string    `json:"uid"`
	CreatedAt time.Time `json:"created_at"`
}

type Researcher struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	UID            string    `json:"uid"`
	UniversityName string    `json:"university_name"`
	PursuingDegree string    `json:"pursuing_degree"`
	CreatedAt      time.Time `json:"created_at"`
}

type Startup struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	StartupName       string     `json:"startup_name"`
	Website           string     `json:"website"`
	StartupSector     string     `json:"startup_sector"`
	Stage             string     `json:"stage"`
	City              string     `json:"city"`
	TeamSize          *int       `json:"team_size,omitempty"`
	FounderName       string     `json:"founder_name"`
	FounderEmail      string     `json:"founder_email"`
	FounderUID        *string    `json:"founder_uid,omitempty"`
	FounderPhone      string     `json:"founder_phone"`
	Description       string     `json:"description"`
	ProblemSolving    string     `json:"problem_solving"`
	UVP               string     `json:"uvp"`
	PitchDeckLink     string     `json:"pitch_deck_link"`
	IsFunded          bool       `json:"is_funded"`
	FundedBy          *string    `json:"funded_by,omitempty"`
	EventExpectations string     `json:"event_expectations"`
	AdditionalInfo    *string    `json:"additional_info,omitempty"`
	ClonedFromID      *uuid.UUID `json:"cloned_from_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CloneStartup copies the shareable fields of src into a new profile owned by owner.
// The identifier, owner, timestamps and founder UID stay behind.
func CloneStartup(src *Startup, owner uuid.UUID) *Startup {
	srcID := src.ID
	clone := &Startup{
		UserID:            owner,
		StartupName:       src.StartupName,
		Website:           src.Website,
		StartupSector:     src.StartupSector,
		Stage:             src.Stage,
		City:              src.City,
		TeamSize:          copyInt(src.TeamSize),
		FounderName:       src.FounderName,
		FounderEmail:      src.FounderEmail,
		FounderPhone:      src.FounderPhone,
		Description:       src.Description,
		ProblemSolving:    src.ProblemSolving,
		UVP:               src.UVP,
		PitchDeckLink:     src.PitchDeckLink,
		IsFunded:          src.IsFunded,
		FundedBy:          copyString(src.FundedBy),
		EventExpectations: src.EventExpectations,
		AdditionalInfo:    copyString(src.AdditionalInfo),
		ClonedFromID:      &srcID,
	}
	return clone
}

// ProfileDetails is the category profile attached to a user, if any.
type ProfileDetails struct {
	Type           string          `json:"type"`
	CollegeStudent *CollegeStudent `json:"college_student,omitempty"`
	SchoolStudent  *SchoolStudent  `json:"school_student,omitempty"`
	Researcher     *Researcher     `json:"researcher,omitempty"`
	Startup        *Startup        `json:"startup,omitempty"`
}

// HasCategoryProfile reports whether the category-specific profile has been filled in.
func (d *ProfileDetails) HasCategoryProfile() bool {
	return d.CollegeStudent != nil || d.SchoolStudent != nil || d.Researcher != nil || d.Startup != nil
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}
