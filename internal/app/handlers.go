package app

import (
	"github.com/openlms/backend/internal/handlers"
	"github.com/openlms/backend/internal/logger"
)

type Handlers struct {
	Auth             *handlers.AuthHandler
	User             *handlers.UserHandler
	Course           *handlers.CourseHandler
	Section          *handlers.SectionHandler
	SubSection       *handlers.SubSectionHandler
	Module           *handlers.ModuleHandler
	QuizAttempt      *handlers.QuizAttemptHandler
	Enrollment       *handlers.EnrollmentHandler
	Invitation       *handlers.InvitationHandler
	Mentor           *handlers.MentorHandler
	Assessment       *handlers.AssessmentHandler
	AssessmentAccess *handlers.AssessmentAccessHandler
	Announcement     *handlers.AnnouncementHandler
	Institution      *handlers.InstitutionHandler
	CourseProgress   *handlers.CourseProgressHandler
	Analytics        *handlers.AnalyticsHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:             handlers.NewAuthHandler(s.Auth),
		User:             handlers.NewUserHandler(s.User),
		Course:           handlers.NewCourseHandler(s.Course),
		Section:          handlers.NewSectionHandler(s.Section),
		SubSection:       handlers.NewSubSectionHandler(s.SubSection),
		Module:           handlers.NewModuleHandler(s.Module),
		QuizAttempt:      handlers.NewQuizAttemptHandler(s.QuizAttempt),
		Enrollment:       handlers.NewEnrollmentHandler(s.Enrollment),
		Invitation:       handlers.NewInvitationHandler(s.Invitation),
		Mentor:           handlers.NewMentorHandler(s.Mentor),
		Assessment:       handlers.NewAssessmentHandler(s.Assessment),
		AssessmentAccess: handlers.NewAssessmentAccessHandler(s.AssessmentAccess),
		Announcement:     handlers.NewAnnouncementHandler(s.Announcement),
		Institution:      handlers.NewInstitutionHandler(s.Institution),
		CourseProgress:   handlers.NewCourseProgressHandler(s.CourseProgress),
		Analytics:        handlers.NewAnalyticsHandler(s.Analytics, s.AuditLog),
	}
}
