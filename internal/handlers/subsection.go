package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/requestdata"
	"github.com/openlms/backend/internal/services"
)

type SubSectionHandler struct {
	subSectionService services.SubSectionService
}

func NewSubSectionHandler(subSectionService services.SubSectionService) *SubSectionHandler {
	return &SubSectionHandler{subSectionService: subSectionService}
}

func (sh *SubSectionHandler) ListBySection(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	sectionID := c.Query("section_id")
	if sectionID == "" {
		RespondError(c, apierr.InvalidState("section_id is required"))
		return
	}
	subSections, err := sh.subSectionService.ListBySection(c.Request.Context(), actor, sectionID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, subSections)
}

func (sh *SubSectionHandler) Get(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	subSection, err := sh.subSectionService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, subSection)
}

func (sh *SubSectionHandler) Create(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.SubSectionCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	subSection, err := sh.subSectionService.Create(c.Request.Context(), actor, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, subSection)
}

func (sh *SubSectionHandler) Update(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.SubSectionUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	subSection, err := sh.subSectionService.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, subSection)
}

func (sh *SubSectionHandler) Delete(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	if err := sh.subSectionService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
