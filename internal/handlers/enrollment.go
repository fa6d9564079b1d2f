package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/requestdata"
	"github.com/openlms/backend/internal/services"
)

type EnrollmentHandler struct {
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

func (eh *EnrollmentHandler) List(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var userID *string
	if v := c.Query("user_id"); v != "" {
		userID = &v
	}
	enrollments, err := eh.enrollmentService.List(c.Request.Context(), actor, userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, enrollments)
}

func (eh *EnrollmentHandler) Assign(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req struct {
		CourseID string `json:"course_id"`
		UserID   string `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	enrollment, err := eh.enrollmentService.Assign(c.Request.Context(), actor, req.CourseID, req.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, enrollment)
}

func (eh *EnrollmentHandler) SelfEnroll(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	enrollment, err := eh.enrollmentService.SelfEnroll(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, enrollment)
}

func (eh *EnrollmentHandler) Unenroll(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	if err := eh.enrollmentService.Unenroll(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "unenrolled"})
}
