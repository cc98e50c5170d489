package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uniquiz/uniquiz-backend/internal/apierr"
	"github.com/uniquiz/uniquiz-backend/internal/services"
)

type CategoryHandler struct {
	categoryService services.CategoryService
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (ch *CategoryHandler) ListDegrees(c *gin.Context) {
	degrees, err := ch.categoryService.ListDegrees(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, degrees)
}

func (ch *CategoryHandler) ListFields(c *gin.Context) {
	degreeID, err := strconv.ParseUint(c.Param("degree_id"), 10, 64)
	if err != nil {
		RespondServiceError(c, apierr.NotFound("degree"))
		return
	}
	fields, err := ch.categoryService.ListFields(c.Request.Context(), uint(degreeID))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, fields)
}
