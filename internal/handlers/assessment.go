package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/requestdata"
	"github.com/openlms/backend/internal/services"
)

type AssessmentHandler struct {
	assessmentService services.AssessmentService
}

func NewAssessmentHandler(assessmentService services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService}
}

func (ah *AssessmentHandler) List(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	assessments, err := ah.assessmentService.List(c.Request.Context(), actor)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, assessments)
}

func (ah *AssessmentHandler) Get(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	assessment, err := ah.assessmentService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, assessment)
}

func (ah *AssessmentHandler) Create(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.AssessmentCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	assessment, err := ah.assessmentService.Create(c.Request.Context(), actor, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, assessment)
}

func (ah *AssessmentHandler) Update(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.AssessmentUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	assessment, err := ah.assessmentService.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, assessment)
}

func (ah *AssessmentHandler) Delete(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	if err := ah.assessmentService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}

func (ah *AssessmentHandler) Submit(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.AssessmentSubmit
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	submission, err := ah.assessmentService.Submit(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, submission)
}

func (ah *AssessmentHandler) ListSubmissions(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	submissions, err := ah.assessmentService.ListSubmissions(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, submissions)
}

func (ah *AssessmentHandler) AddQuestion(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.AssessmentQuestionCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	question, err := ah.assessmentService.AddQuestion(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, question)
}

func (ah *AssessmentHandler) ListQuestions(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	questions, err := ah.assessmentService.ListQuestions(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, questions)
}
