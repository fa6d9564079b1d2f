package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/requestdata"
	"github.com/openlms/backend/internal/services"
)

type ModuleHandler struct {
	moduleService services.ModuleService
}

func NewModuleHandler(moduleService services.ModuleService) *ModuleHandler {
	return &ModuleHandler{moduleService: moduleService}
}

func (mh *ModuleHandler) List(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	if subSectionID := c.Query("sub_section_id"); subSectionID != "" {
		modules, err := mh.moduleService.ListBySubSection(c.Request.Context(), actor, subSectionID)
		if err != nil {
			RespondError(c, err)
			return
		}
		RespondOK(c, modules)
		return
	}
	sectionID := c.Query("section_id")
	if sectionID == "" {
		RespondError(c, apierr.InvalidState("section_id or sub_section_id is required"))
		return
	}
	modules, err := mh.moduleService.ListBySection(c.Request.Context(), actor, sectionID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, modules)
}

func (mh *ModuleHandler) Get(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	module, err := mh.moduleService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, module)
}

func (mh *ModuleHandler) Create(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.ModuleCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	module, err := mh.moduleService.Create(c.Request.Context(), actor, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, module)
}

func (mh *ModuleHandler) Update(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.ModuleUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	module, err := mh.moduleService.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, module)
}

func (mh *ModuleHandler) Delete(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	if err := mh.moduleService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
