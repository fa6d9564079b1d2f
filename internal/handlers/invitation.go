package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/requestdata"
	"github.com/openlms/backend/internal/services"
)

type InvitationHandler struct {
	invitationService services.InvitationService
}

func NewInvitationHandler(invitationService services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

func (ih *InvitationHandler) List(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var courseID, status *string
	if v := c.Query("course_id"); v != "" {
		courseID = &v
	}
	if v := c.Query("status"); v != "" {
		status = &v
	}
	invitations, err := ih.invitationService.List(c.Request.Context(), actor, courseID, status)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, invitations)
}

func (ih *InvitationHandler) Create(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.InvitationCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	invitation, err := ih.invitationService.Create(c.Request.Context(), actor, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, invitation)
}

func (ih *InvitationHandler) Update(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.InvitationUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	invitation, err := ih.invitationService.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, invitation)
}

func (ih *InvitationHandler) Delete(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	if err := ih.invitationService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
