package middleware

import (
	"context"
	"errors"

	"github.com/dimitrije/hackteam-api/internal/models"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	PrincipalKey = "principal"
	UserKey      = "user"
)

// UserLookup loads the caller's user record.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RequireProfile runs after Auth. It loads the caller and stores the
// principal used by the team workflow; callers without a participation
// category are turned away.
func RequireProfile(users UserLookup) drift.HandlerFunc {
	return func(c *drift.Context) {
		userID := GetUserID(c)
		if userID == uuid.Nil {
			c.Unauthorized("not authenticated")
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if errors.Is(err, models.ErrNotFound) {
			c.Unauthorized("user not found")
			return
		}
		if err != nil {
			c.InternalServerError("failed to load user")
			return
		}

		if !user.Category.Valid() {
			c.BadRequest("please complete your profile")
			return
		}

		c.Set(UserKey, user)
		c.Set(PrincipalKey, user.Principal())

		c.Next()
	}
}

func GetPrincipal(c *drift.Context) (models.Principal, bool) {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(models.Principal); ok {
			return p, true
		}
	}
	return models.Principal{}, false
}

func GetUser(c *drift.Context) *models.User {
	if v, ok := c.Get(UserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
