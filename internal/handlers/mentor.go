package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/requestdata"
	"github.com/openlms/backend/internal/services"
)

type MentorHandler struct {
	mentorService services.MentorService
}

func NewMentorHandler(mentorService services.MentorService) *MentorHandler {
	return &MentorHandler{mentorService: mentorService}
}

func (mh *MentorHandler) ListAssignments(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	assignments, err := mh.mentorService.ListAssignments(c.Request.Context(), actor)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, assignments)
}

func (mh *MentorHandler) Assign(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.MentorAssignmentCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	assignment, err := mh.mentorService.Assign(c.Request.Context(), actor, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, assignment)
}

func (mh *MentorHandler) UpdateAssignment(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.MentorAssignmentUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	assignment, err := mh.mentorService.UpdateAssignment(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, assignment)
}

func (mh *MentorHandler) Unassign(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	assignment, err := mh.mentorService.Unassign(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, assignment)
}

func (mh *MentorHandler) DeleteAssignment(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	if err := mh.mentorService.DeleteAssignment(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}

func (mh *MentorHandler) ListCourseAssignments(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var filter services.MentorCourseFilter
	if v := c.Query("mentor_id"); v != "" {
		filter.MentorID = &v
	}
	if v := c.Query("course_id"); v != "" {
		filter.CourseID = &v
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}
	assignments, err := mh.mentorService.ListCourseAssignments(c.Request.Context(), actor, filter)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, assignments)
}

func (mh *MentorHandler) AssignCourse(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.MentorCourseAssignmentCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	assignment, err := mh.mentorService.AssignCourse(c.Request.Context(), actor, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, assignment)
}

func (mh *MentorHandler) UpdateCourseAssignment(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	var req services.MentorCourseAssignmentUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.InvalidState("invalid request body"))
		return
	}
	assignment, err := mh.mentorService.UpdateCourseAssignment(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, assignment)
}

func (mh *MentorHandler) DeleteCourseAssignment(c *gin.Context) {
	actor := requestdata.GetActor(c.Request.Context())
	if err := mh.mentorService.DeleteCourseAssignment(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
