package app

import (
	"github.com/gin-gonic/gin"

	"github.com/openlms/backend/internal/server"
)

func wireRouter(cfg Config, h Handlers, m Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AllowedOrigins:      server.SplitOrigins(cfg.AllowedOrigins),
		AuthMiddleware:      m.Auth,
		AuthHandler:         h.Auth,
		UserHandler:         h.User,
		CourseHandler:       h.Course,
		SectionHandler:      h.Section,
		SubSectionHandler:   h.SubSection,
		ModuleHandler:       h.Module,
		QuizAttemptHandler:  h.QuizAttempt,
		EnrollmentHandler:   h.Enrollment,
		InvitationHandler:   h.Invitation,
		MentorHandler:       h.Mentor,
		AssessmentHandler:   h.Assessment,
		AccessHandler:       h.AssessmentAccess,
		AnnouncementHandler: h.Announcement,
		InstitutionHandler:  h.Institution,
		ProgressHandler:     h.CourseProgress,
		AnalyticsHandler:    h.Analytics,
	})
}
