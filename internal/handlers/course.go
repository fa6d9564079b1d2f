package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/requestdata"
	"github.com/openlms/backend/internal/services"
)

type CourseHandler struct {
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

func (ch *CourseHandler) List(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	courses, err := ch.courseService.List(c.Request.Context(), actor)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, courses)
}

func (ch *CourseHandler) Get(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	course, err := ch.courseService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, course)
}

func (ch *CourseHandler) Create(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.CourseCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	course, err := ch.courseService.Create(c.Request.Context(), actor, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, course)
}

func (ch *CourseHandler) Update(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.CourseUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	course, err := ch.courseService.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, course)
}

func (ch *CourseHandler) Delete(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	if err := ch.courseService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
