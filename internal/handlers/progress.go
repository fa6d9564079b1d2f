package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/requestdata"
	"github.com/openlms/backend/internal/services"
)

type CourseProgressHandler struct {
	progressService services.CourseProgressService
}

func NewCourseProgressHandler(progressService services.CourseProgressService) *CourseProgressHandler {
	return &CourseProgressHandler{progressService: progressService}
}

func (ph *CourseProgressHandler) List(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var userID *string
	if v := c.Query("user_id"); v != "" {
		userID = &v
	}
	rows, err := ph.progressService.List(c.Request.Context(), actor, userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, rows)
}

func (ph *CourseProgressHandler) Get(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	progress, err := ph.progressService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, progress)
}

func (ph *CourseProgressHandler) Upsert(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.ProgressUpsert
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	progress, err := ph.progressService.Upsert(c.Request.Context(), actor, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, progress)
}

func (ph *CourseProgressHandler) Update(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.ProgressUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	progress, err := ph.progressService.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, progress)
}

func (ph *CourseProgressHandler) Delete(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	if err := ph.progressService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
