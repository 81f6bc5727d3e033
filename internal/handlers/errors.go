package handlers

import (
	"errors"

	"github.com/dimitrije/hackteam-api/internal/models"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

// respondError maps a service error onto an HTTP status. Errors of no known
// kind are logged and answered with fallback so store details never leak.
func respondError(c *drift.Context, log logrus.FieldLogger, err error, fallback string) {
	msg := err.Error()
	var modelErr *models.Error
	if errors.As(err, &modelErr) {
		msg = modelErr.Message
	}

	var validationErr *models.ValidationError

	switch {
	case errors.As(err, &validationErr):
		_ = c.JSON(400, map[string]string{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
	case errors.Is(err, models.ErrNotFound):
		c.NotFound(msg)
	case errors.Is(err, models.ErrConflict):
		_ = c.JSON(409, map[string]string{"error": msg})
	case errors.Is(err, models.ErrConsistency):
		c.InternalServerError(fallback)
	default:
		log.WithError(err).Error(fallback)
		c.InternalServerError(fallback)
	}
}
