package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uniquiz/uniquiz-backend/internal/apierr"
	"github.com/uniquiz/uniquiz-backend/internal/services"
)

type UploadHandler struct {
	importerService services.ImporterService
}

func NewUploadHandler(importerService services.ImporterService) *UploadHandler {
	return &UploadHandler{importerService: importerService}
}

func (uh *UploadHandler) UploadTests(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.PostForm("category_id"), 10, 64)
	if err != nil {
		RespondServiceError(c, apierr.NotFound("category"))
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not open uploaded file"})
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	result, err := uh.importerService.ImportText(c.Request.Context(), currentUserID(c), uint(categoryID), fileHeader.Filename, string(content))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"quiz_id": result.QuizID, "question_count": result.QuestionCount})
}
