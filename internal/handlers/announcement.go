package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/requestdata"
	"github.com/openlms/backend/internal/services"
)

type AnnouncementHandler struct {
	announcementService services.AnnouncementService
}

func NewAnnouncementHandler(announcementService services.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementService: announcementService}
}

func (ah *AnnouncementHandler) List(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var courseID *string
	if v := c.Query("course_id"); v != "" {
		courseID = &v
	}
	announcements, err := ah.announcementService.List(c.Request.Context(), actor, courseID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, announcements)
}

func (ah *AnnouncementHandler) Create(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.AnnouncementCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	announcement, err := ah.announcementService.Create(c.Request.Context(), actor, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, announcement)
}

func (ah *AnnouncementHandler) Update(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.AnnouncementUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	announcement, err := ah.announcementService.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, announcement)
}

func (ah *AnnouncementHandler) Delete(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	if err := ah.announcementService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
