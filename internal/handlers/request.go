package handlers

import (
	"github.com/dimitrije/hackteam-api/internal/middleware"
	"github.com/dimitrije/hackteam-api/internal/models"
	"github.com/dimitrije/hackteam-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

type RequestHandler struct {
	requestService RequestServiceInterface
	log            logrus.FieldLogger
}

func NewRequestHandler(requestService RequestServiceInterface, log logrus.FieldLogger) *RequestHandler {
	return &RequestHandler{requestService: requestService, log: log}
}

func (h *RequestHandler) ListPending(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	requests, err := h.requestService.ListPending(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err, "failed to list requests")
		return
	}

	_ = c.JSON(200, dto.RequestsResponse{Requests: toRequestResponses(requests)})
}

func (h *RequestHandler) ListSent(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	requests, err := h.requestService.ListSent(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err, "failed to list requests")
		return
	}

	_ = c.JSON(200, dto.RequestsResponse{Requests: toRequestResponses(requests)})
}

func (h *RequestHandler) Respond(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		c.NotFound("request not found or already processed")
		return
	}

	var req dto.RespondRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.requestService.Respond(c.Request.Context(), requestID, userID, models.Decision(req.Action))
	if err != nil {
		respondError(c, h.log, err, "failed to respond to request")
		return
	}

	_ = c.JSON(200, dto.RequestEnvelope{Request: toRequestResponse(updated)})
}

func (h *RequestHandler) Cancel(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		c.NotFound("request not found or already processed")
		return
	}

	if err := h.requestService.Cancel(c.Request.Context(), requestID, userID); err != nil {
		respondError(c, h.log, err, "failed to cancel request")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "request cancelled"})
}
