package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	MaxMembers  = 4
	MinTeamSize = 2
	MaxTeamSize = MaxMembers + 1
)

// ErrNoFreeSlot is returned by FillNextSlot when every slot the declared size allows is taken.
var ErrNoFreeSlot = errors.New("team has no free member slot")

type Team struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"team_name"`
	Code          string                `json:"team_code"`
	LeaderID      uuid.UUID             `json:"leader_user_id"`
	Category      ParticipationCategory `json:"participation_category"`
	IsKietian     bool                  `json:"is_kietian"`
	Department    string                `json:"department"`
	Size          int                   `json:"team_size"`
	IsCompleted   bool                  `json:"is_completed"`
	RequestsCount int                   `json:"requests_count"`
	Project       ProjectBinding        `json:"-"`

	// Members holds slots 1..4 in order; uuid.Nil marks an empty slot.
	Members [MaxMembers]uuid.UUID `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Capacity is the number of member slots the declared size opens.
func (t *Team) Capacity() int {
	c := t.Size - 1
	if c > MaxMembers {
		return MaxMembers
	}
	if c < 0 {
		return 0
	}
	return c
}

func (t *Team) FilledCount() int {
	n := 0
	for _, id := range t.Members {
		if id != uuid.Nil {
			n++
		}
	}
	return n
}

// Slot returns the occupant of a 1-based slot.
func (t *Team) Slot(n int) uuid.UUID {
	if n < 1 || n > MaxMembers {
		return uuid.Nil
	}
	return t.Members[n-1]
}

// SetSlot places a member loaded from the store into a 1-based slot.
func (t *Team) SetSlot(n int, userID uuid.UUID) error {
	if n < 1 || n > MaxMembers {
		return fmt.Errorf("slot %d out of range", n)
	}
	t.Members[n-1] = userID
	return nil
}

// FillNextSlot seats userID in the first empty slot and returns its 1-based number.
func (t *Team) FillNextSlot(userID uuid.UUID) (int, error) {
	for i := 0; i < t.Capacity(); i++ {
		if t.Members[i] == uuid.Nil {
			t.Members[i] = userID
			return i + 1, nil
		}
	}
	return 0, ErrNoFreeSlot
}

// RecomputeCompletion marks the team complete once every slot is filled.
// It reports whether the flag flipped; a completed team never reverts.
func (t *Team) RecomputeCompletion() bool {
	if t.IsCompleted {
		return false
	}
	if t.FilledCount()+1 == t.Size {
		t.IsCompleted = true
		return true
	}
	return false
}

func (t *Team) HasSeat(userID uuid.UUID) bool {
	if userID == t.LeaderID {
		return true
	}
	for _, id := range t.Members {
		if id != uuid.Nil && id == userID {
			return true
		}
	}
	return false
}

func (t *Team) MemberIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, MaxMembers)
	for _, id := range t.Members {
		if id != uuid.Nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// TeamDetails is a team together with the people around it.
type TeamDetails struct {
	Team     *Team
	Leader   *User
	Members  []User
	Requests []TeamRequest
}

func TeamCodePrefix(c ParticipationCategory) string {
	switch c {
	case CategorySchool:
		return "SH"
	case CategoryCollege:
		return "CL"
	case CategoryResearcher:
		return "Rh"
	case CategoryStartup:
		return "SU"
	default:
		return "TM"
	}
}

// NewTeamCode returns a display code such as CL-4821. Codes are not unique by construction.
func NewTeamCode(c ParticipationCategory) (string, error) {
	head, err := gonanoid.Generate("123456789", 1)
	if err != nil {
		return "", fmt.Errorf("failed to generate team code: %w", err)
	}
	tail, err := gonanoid.Generate("0123456789", 3)
	if err != nil {
		return "", fmt.Errorf("failed to generate team code: %w", err)
	}
	return TeamCodePrefix(c) + "-" + head + tail, nil
}
