package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTeamRequest struct {
	TeamName           string      `json:"teamName" validate:"required,max=255"`
	Department         string      `json:"department" validate:"required,max=255"`
	TeamSize           int         `json:"teamSize,omitempty" validate:"omitempty,min=2,max=5"`
	MemberUserIDs      []uuid.UUID `json:"memberUserIds" validate:"required,min=1,max=4"`
	CategoryID         *uuid.UUID  `json:"categoryId,omitempty"`
	ProblemStatementID *uuid.UUID  `json:"problemStatementId,omitempty"`
	StartupID          *uuid.UUID  `json:"startupId,omitempty"`
	SchoolStudentID    *uuid.UUID  `json:"schoolStudentId,omitempty"`
	InovationIdeaName  string      `json:"inovationIdeaName,omitempty"`
	InovationIdeaDesc  string      `json:"inovationIdeaDesc,omitempty"`
}

type TeamResponse struct {
	ID                    uuid.UUID  `json:"id"`
	TeamName              string     `json:"team_name"`
	TeamCode              string     `json:"team_code"`
	LeaderUserID          uuid.UUID  `json:"leader_user_id"`
	ParticipationCategory string     `json:"participation_category"`
	IsKietian             bool       `json:"is_kietian"`
	Department            string     `json:"department,omitempty"`
	TeamSize              int        `json:"team_size"`
	IsCompleted           bool       `json:"is_completed"`
	RequestsCount         int        `json:"requests_count"`
	Member1ID             *uuid.UUID `json:"member1_id"`
	Member2ID             *uuid.UUID `json:"member2_id"`
	Member3ID             *uuid.UUID `json:"member3_id"`
	Member4ID             *uuid.UUID `json:"member4_id"`
	CategoryID            *uuid.UUID `json:"category_id,omitempty"`
	ProblemStatementID    *uuid.UUID `json:"problem_statement_id,omitempty"`
	StartupID             *uuid.UUID `json:"startup_id,omitempty"`
	SchoolStudentID       *uuid.UUID `json:"school_student_id,omitempty"`
	InovationIdeaName     *string    `json:"inovation_idea_name,omitempty"`
	InovationIdeaDesc     *string    `json:"inovation_idea_desc,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`

	Leader   *UserSummary      `json:"leader,omitempty"`
	Members  []UserSummary     `json:"members,omitempty"`
	Requests []RequestResponse `json:"requests,omitempty"`
}

type CreateTeamResponse struct {
	Team         TeamResponse `json:"team"`
	RequestsSent int          `json:"requestsSent"`
}

type TeamEnvelope struct {
	Team TeamResponse `json:"team"`
}
