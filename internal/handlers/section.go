package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/requestdata"
	"github.com/openlms/backend/internal/services"
)

type SectionHandler struct {
	sectionService services.SectionService
}

func NewSectionHandler(sectionService services.SectionService) *SectionHandler {
	return &SectionHandler{sectionService: sectionService}
}

func (sh *SectionHandler) ListByCourse(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	courseID := c.Query("course_id")
	if courseID == "" {
		RespondError(c, apierr.InvalidState("course_id is required"))
		return
	}
	sections, err := sh.sectionService.ListByCourse(c.Request.Context(), actor, courseID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, sections)
}

func (sh *SectionHandler) Get(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	section, err := sh.sectionService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, section)
}

func (sh *SectionHandler) Create(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.SectionCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	section, err := sh.sectionService.Create(c.Request.Context(), actor, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, section)
}

func (sh *SectionHandler) Update(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.SectionUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	section, err := sh.sectionService.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, section)
}

func (sh *SectionHandler) Delete(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	if err := sh.sectionService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
