package models

import (
	"strings"

	"github.com/google/uuid"
)

// ProjectBinding is the category-specific project a team is formed around.
// Each participation category has exactly one variant.
type ProjectBinding interface {
	Category() ParticipationCategory
	Columns() ProjectColumns
}

type CollegeProject struct {
	CategoryID         uuid.UUID
	ProblemStatementID uuid.UUID
	IdeaName           string
	IdeaDesc           string
}

type StartupProject struct {
	StartupID uuid.UUID
}

type SchoolProject struct {
	SchoolStudentID uuid.UUID
	IdeaName        string
	IdeaDesc        string
}

type ResearcherProject struct {
	IdeaName string
	IdeaDesc string
}

func (CollegeProject) Category() ParticipationCategory    { return CategoryCollege }
func (StartupProject) Category() ParticipationCategory    { return CategoryStartup }
func (SchoolProject) Category() ParticipationCategory     { return CategorySchool }
func (ResearcherProject) Category() ParticipationCategory { return CategoryResearcher }

// ProjectColumns is the flat storage shape shared by every variant.
type ProjectColumns struct {
	CategoryID         *uuid.UUID
	ProblemStatementID *uuid.UUID
	StartupID          *uuid.UUID
	SchoolStudentID    *uuid.UUID
	IdeaName           *string
	IdeaDesc           *string
}

func (p CollegeProject) Columns() ProjectColumns {
	return ProjectColumns{
		CategoryID:         uuidPtr(p.CategoryID),
		ProblemStatementID: uuidPtr(p.ProblemStatementID),
		IdeaName:           stringPtr(p.IdeaName),
		IdeaDesc:           stringPtr(p.IdeaDesc),
	}
}

func (p StartupProject) Columns() ProjectColumns {
	return ProjectColumns{StartupID: uuidPtr(p.StartupID)}
}

func (p SchoolProject) Columns() ProjectColumns {
	return ProjectColumns{
		SchoolStudentID: uuidPtr(p.SchoolStudentID),
		IdeaName:        stringPtr(p.IdeaName),
		IdeaDesc:        stringPtr(p.IdeaDesc),
	}
}

func (p ResearcherProject) Columns() ProjectColumns {
	return ProjectColumns{
		IdeaName: stringPtr(p.IdeaName),
		IdeaDesc: stringPtr(p.IdeaDesc),
	}
}

// ProjectInput carries the optional project fields of a create-team call.
type ProjectInput struct {
	CategoryID         *uuid.UUID
	ProblemStatementID *uuid.UUID
	StartupID          *uuid.UUID
	SchoolStudentID    *uuid.UUID
	IdeaName           string
	IdeaDesc           string
}

// NewProjectBinding builds the variant for category and checks its required fields.
func NewProjectBinding(category ParticipationCategory, in ProjectInput) (ProjectBinding, error) {
	name := strings.TrimSpace(in.IdeaName)
	desc := strings.TrimSpace(in.IdeaDesc)

	switch category {
	case CategoryCollege:
		if !present(in.CategoryID) {
			return nil, NewValidationError("categoryId", "category is required for college teams")
		}
		if !present(in.ProblemStatementID) {
			return nil, NewValidationError("problemStatementId", "problem statement is required for college teams")
		}
		if name == "" || desc == "" {
			return nil, NewValidationError("inovationIdeaName", "idea name and description are required for college teams")
		}
		return CollegeProject{
			CategoryID:         *in.CategoryID,
			ProblemStatementID: *in.ProblemStatementID,
			IdeaName:           name,
			IdeaDesc:           desc,
		}, nil
	case CategoryStartup:
		if !present(in.StartupID) {
			return nil, NewValidationError("startupId", "startup id is required for startup teams")
		}
		return StartupProject{StartupID: *in.StartupID}, nil
	case CategorySchool:
		if !present(in.SchoolStudentID) {
			return nil, NewValidationError("schoolStudentId", "school student id is required for school teams")
		}
		return SchoolProject{SchoolStudentID: *in.SchoolStudentID, IdeaName: name, IdeaDesc: desc}, nil
	case CategoryResearcher:
		if name == "" || desc == "" {
			return nil, NewValidationError("inovationIdeaName", "idea name and description are required for researcher teams")
		}
		return ResearcherProject{IdeaName: name, IdeaDesc: desc}, nil
	default:
		return nil, NewValidationError("participationCategory", "complete your profile before creating a team")
	}
}

// ProjectFromColumns rebuilds the variant of a stored team.
func ProjectFromColumns(category ParticipationCategory, cols ProjectColumns) ProjectBinding {
	switch category {
	case CategoryCollege:
		return CollegeProject{
			CategoryID:         derefUUID(cols.CategoryID),
			ProblemStatementID: derefUUID(cols.ProblemStatementID),
			IdeaName:           derefString(cols.IdeaName),
			IdeaDesc:           derefString(cols.IdeaDesc),
		}
	case CategoryStartup:
		return StartupProject{StartupID: derefUUID(cols.StartupID)}
	case CategorySchool:
		return SchoolProject{
			SchoolStudentID: derefUUID(cols.SchoolStudentID),
			IdeaName:        derefString(cols.IdeaName),
			IdeaDesc:        derefString(cols.IdeaDesc),
		}
	case CategoryResearcher:
		return ResearcherProject{IdeaName: derefString(cols.IdeaName), IdeaDesc: derefString(cols.IdeaDesc)}
	}
	return nil
}

func present(id *uuid.UUID) bool {
	return id != nil && *id != uuid.Nil
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefUUID(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
