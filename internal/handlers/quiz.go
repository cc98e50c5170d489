package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/uniquiz/uniquiz-backend/internal/apierr"
	"github.com/uniquiz/uniquiz-backend/internal/repos"
	"github.com/uniquiz/uniquiz-backend/internal/requestdata"
	"github.com/uniquiz/uniquiz-backend/internal/services"
)

type QuizHandler struct {
	quizService  services.QuizService
	orderService services.OrderService
}

func NewQuizHandler(quizService services.QuizService, orderService services.OrderService) *QuizHandler {
	return &QuizHandler{quizService: quizService, orderService: orderService}
}

func currentUserID(c *gin.Context) uuid.UUID {
	if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
		return rd.UserID
	}
	return uuid.Nil
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(value), true
}

func (qh *QuizHandler) List(c *gin.Context) {
	filter := repos.QuizFilter{
		ModeOfStudy: c.Query("mode_of_study"),
		Year:        c.Query("year"),
		FieldSlug:   c.Query("field"),
		DegreeSlug:  c.Query("degree"),
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		filter.Page = page
	}
	if pageSize, err := strconv.Atoi(c.Query("page_size")); err == nil {
		filter.PageSize = pageSize
	}
	listPage, err := qh.quizService.List(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, listPage)
}

func (qh *QuizHandler) Choices(c *gin.Context) {
	RespondOK(c, qh.quizService.Choices(c.Request.Context()))
}

func (qh *QuizHandler) Preview(c *gin.Context) {
	quizID, ok := parseUintParam(c, "quiz_id")
	if !ok {
		RespondServiceError(c, apierr.NotFound("quiz"))
		return
	}
	preview, err := qh.quizService.Preview(c.Request.Context(), currentUserID(c), quizID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, preview)
}

func (qh *QuizHandler) PlaceOrder(c *gin.Context) {
	quizID, ok := parseUintParam(c, "quiz_id")
	if !ok {
		RespondServiceError(c, apierr.NotFound("quiz"))
		return
	}
	order, err := qh.orderService.PlaceOrder(c.Request.Context(), currentUserID(c), quizID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"order_id": order.ID, "quiz_id": order.QuizID})
}
