package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type ParticipationCategory string

const (
	CategorySchool     ParticipationCategory = "school"
	CategoryCollege    ParticipationCategory = "college"
	CategoryResearcher ParticipationCategory = "researcher"
	CategoryStartup    ParticipationCategory = "startup"
)

func (c ParticipationCategory) Valid() bool {
	switch c {
	case CategorySchool, CategoryCollege, CategoryResearcher, CategoryStartup:
		return true
	}
	return false
}

type User struct {
	ID          uuid.UUID             `json:"id"`
	UserCode    string                `json:"user_code"`
	Email       string                `json:"email"`
	Name        string                `json:"name"`
	AvatarURL   *string               `json:"avatar_url,omitempty"`
	PhoneNumber *string               `json:"phone_number,omitempty"`
	Category    ParticipationCategory `json:"participation_category,omitempty"`
	IsKietian   bool                  `json:"is_kietian"`
	Provider    string                `json:"provider"`
	ProviderID  string                `json:"-"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// HasBasicProfile reports whether the user picked a category and left a phone number.
func (u *User) HasBasicProfile() bool {
	return u.Category != "" && u.PhoneNumber != nil && *u.PhoneNumber != ""
}

func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Category: u.Category, IsKietian: u.IsKietian}
}

// Principal is the authenticated caller as seen by the team workflow.
type Principal struct {
	ID        uuid.UUID
	Category  ParticipationCategory
	IsKietian bool
}

// NewUserCode returns a public user code such as INO482913.
func NewUserCode() (string, error) {
	head, err := gonanoid.Generate("123456789", 1)
	if err != nil {
		return "", fmt.Errorf("failed to generate user code: %w", err)
	}
	tail, err := gonanoid.Generate("0123456789", 5)
	if err != nil {
		return "", fmt.Errorf("failed to generate user code: %w", err)
	}
	return "INO" + head + tail, nil
}
