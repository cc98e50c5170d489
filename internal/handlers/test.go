package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uniquiz/uniquiz-backend/internal/apierr"
	"github.com/uniquiz/uniquiz-backend/internal/services"
)

type TestHandler struct {
	testService services.TestService
}

func NewTestHandler(testService services.TestService) *TestHandler {
	return &TestHandler{testService: testService}
}

// Step dispatches on the start/next/back query flags so a single
// endpoint drives the whole walk through a test session.
func (th *TestHandler) Step(c *gin.Context) {
	quizID, ok := parseUintParam(c, "quiz_id")
	if !ok {
		RespondServiceError(c, apierr.NotFound("quiz"))
		return
	}
	userID := currentUserID(c)
	ctx := c.Request.Context()

	switch {
	case c.Query("start") != "":
		step, err := th.testService.Start(ctx, userID, quizID)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, step)
	case c.Query("next") != "":
		step, err := th.testService.Forward(ctx, userID, quizID)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, step)
	case c.Query("back") != "":
		questionID, err := strconv.ParseUint(c.Query("question_id"), 10, 64)
		if err != nil {
			RespondServiceError(c, apierr.NotFound("question"))
			return
		}
		back, berr := th.testService.Backward(ctx, userID, quizID, uint(questionID))
		if berr != nil {
			RespondServiceError(c, berr)
			return
		}
		RespondOK(c, back)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected one of start, next or back"})
	}
}

func (th *TestHandler) Check(c *gin.Context) {
	optionID, ok := parseUintParam(c, "option_id")
	if !ok {
		RespondServiceError(c, apierr.NotFound("option"))
		return
	}
	result, err := th.testService.Check(c.Request.Context(), currentUserID(c), optionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (th *TestHandler) Finish(c *gin.Context) {
	result, err := th.testService.Finish(c.Request.Context(), currentUserID(c))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}
