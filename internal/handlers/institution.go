package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/requestdata"
	"github.com/openlms/backend/internal/services"
)

type InstitutionHandler struct {
	institutionService services.InstitutionService
}

func NewInstitutionHandler(institutionService services.InstitutionService) *InstitutionHandler {
	return &InstitutionHandler{institutionService: institutionService}
}

func (ih *InstitutionHandler) List(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	institutions, err := ih.institutionService.List(c.Request.Context(), actor)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, institutions)
}

func (ih *InstitutionHandler) Get(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	institution, err := ih.institutionService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, institution)
}

func (ih *InstitutionHandler) Create(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.InstitutionCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	institution, err := ih.institutionService.Create(c.Request.Context(), actor, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, institution)
}

func (ih *InstitutionHandler) Update(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.InstitutionUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	institution, err := ih.institutionService.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, institution)
}

func (ih *InstitutionHandler) Delete(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	if err := ih.institutionService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
