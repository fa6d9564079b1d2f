package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/requestdata"
	"github.com/openlms/backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) List(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var filter services.UserListFilter
	if v := c.Query("role"); v != "" {
		filter.Role = &v
	}
	if v := c.Query("ids"); v != "" {
		filter.IDs = strings.Split(v, ",")
	}
	users, err := uh.userService.List(c.Request.Context(), actor, filter)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, users)
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	RespondOK(c, actor)
}

func (uh *UserHandler) UpdateMe(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	user, err := uh.userService.UpdateMe(c.Request.Context(), actor, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, user)
}

func (uh *UserHandler) Get(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	user, err := uh.userService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, user)
}

func (uh *UserHandler) Update(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	user, err := uh.userService.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, user)
}

func (uh *UserHandler) Delete(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	if err := uh.userService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}

func (uh *UserHandler) Provision(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.ProvisionUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	user, err := uh.userService.Provision(c.Request.Context(), actor, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, user)
}
