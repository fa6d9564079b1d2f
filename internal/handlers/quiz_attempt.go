package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/requestdata"
	"github.com/openlms/backend/internal/services"
)

type QuizAttemptHandler struct {
	attemptService services.QuizAttemptService
}

func NewQuizAttemptHandler(attemptService services.QuizAttemptService) *QuizAttemptHandler {
	return &QuizAttemptHandler{attemptService: attemptService}
}

func (qh *QuizAttemptHandler) Start(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	attempt, err := qh.attemptService.Start(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, attempt)
}

func (qh *QuizAttemptHandler) Submit(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req struct {
		Answers map[string]int `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	attempt, err := qh.attemptService.Submit(c.Request.Context(), actor, c.Param("attemptId"), req.Answers)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, attempt)
}

func (qh *QuizAttemptHandler) ListMine(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	attempts, err := qh.attemptService.ListMine(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, attempts)
}

func (qh *QuizAttemptHandler) ListForModule(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	attempts, err := qh.attemptService.ListForModule(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, attempts)
}
