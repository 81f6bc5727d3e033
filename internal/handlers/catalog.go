package handlers

import (
	"github.com/dimitrije/hackteam-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

type CatalogHandler struct {
	catalogService CatalogServiceInterface
	log            logrus.FieldLogger
}

func NewCatalogHandler(catalogService CatalogServiceInterface, log logrus.FieldLogger) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, log: log}
}

func (h *CatalogHandler) ListCategories(c *drift.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to list categories")
		return
	}

	resp := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, toCategoryResponse(&categories[i]))
	}
	_ = c.JSON(200, resp)
}

func (h *CatalogHandler) ListProblemStatements(c *drift.Context) {
	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		c.NotFound("category not found")
		return
	}

	statements, err := h.catalogService.ListProblemStatements(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, h.log, err, "failed to list problem statements")
		return
	}

	resp := make([]dto.ProblemStatementResponse, 0, len(statements))
	for _, ps := range statements {
		resp = append(resp, toProblemStatementResponse(ps))
	}
	_ = c.JSON(200, resp)
}
