package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/requestdata"
	"github.com/openlms/backend/internal/services"
)

type AssessmentAccessHandler struct {
	accessService services.AssessmentAccessService
}

func NewAssessmentAccessHandler(accessService services.AssessmentAccessService) *AssessmentAccessHandler {
	return &AssessmentAccessHandler{accessService: accessService}
}

func (ah *AssessmentAccessHandler) List(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	grants, err := ah.accessService.List(c.Request.Context(), actor)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, grants)
}

func (ah *AssessmentAccessHandler) Grant(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.AccessGrant
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	grant, err := ah.accessService.Grant(c.Request.Context(), actor, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, grant)
}

func (ah *AssessmentAccessHandler) BulkGrant(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.AccessBulkGrant
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	result, err := ah.accessService.BulkGrant(c.Request.Context(), actor, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (ah *AssessmentAccessHandler) Update(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.AccessUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	grant, err := ah.accessService.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, grant)
}

func (ah *AssessmentAccessHandler) Revoke(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	if err := ah.accessService.Revoke(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "revoked"})
}
