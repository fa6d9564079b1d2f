package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/openlms/backend/internal/handlers"
	"github.com/openlms/backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string

	AuthMiddleware *middleware.AuthMiddleware

	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	CourseHandler       *handlers.CourseHandler
	SectionHandler      *handlers.SectionHandler
	SubSectionHandler   *handlers.SubSectionHandler
	ModuleHandler       *handlers.ModuleHandler
	QuizAttemptHandler  *handlers.QuizAttemptHandler
	EnrollmentHandler   *handlers.EnrollmentHandler
	InvitationHandler   *handlers.InvitationHandler
	MentorHandler       *handlers.MentorHandler
	AssessmentHandler   *handlers.AssessmentHandler
	AccessHandler       *handlers.AssessmentAccessHandler
	AnnouncementHandler *handlers.AnnouncementHandler
	InstitutionHandler  *handlers.InstitutionHandler
	ProgressHandler     *handlers.CourseProgressHandler
	AnalyticsHandler    *handlers.AnalyticsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("openlms-backend"))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/auth/login", cfg.AuthHandler.Login)
	router.POST("/auth/refresh", cfg.AuthHandler.Refresh)
	router.POST("/auth/bootstrap-signup", cfg.AuthHandler.BootstrapSignup)
	router.POST("/auth/set-password", cfg.AuthHandler.SetPassword)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Users
	protected.GET("/users", cfg.UserHandler.List)
	protected.GET("/users/me", cfg.UserHandler.GetMe)
	protected.PATCH("/users/me", cfg.UserHandler.UpdateMe)
	protected.POST("/users/provision", cfg.UserHandler.Provision)
	protected.GET("/users/:id", cfg.UserHandler.Get)
	protected.PATCH("/users/:id", cfg.UserHandler.Update)
	protected.DELETE("/users/:id", cfg.UserHandler.Delete)

	// Courses
	protected.GET("/courses", cfg.CourseHandler.List)
	protected.POST("/courses", cfg.CourseHandler.Create)
	protected.GET("/courses/:id", cfg.CourseHandler.Get)
	protected.PATCH("/courses/:id", cfg.CourseHandler.Update)
	protected.DELETE("/courses/:id", cfg.CourseHandler.Delete)
	protected.POST("/courses/:id/enroll", cfg.EnrollmentHandler.SelfEnroll)
	protected.POST("/courses/:id/unenroll", cfg.EnrollmentHandler.Unenroll)

	// Course structure
	protected.GET("/sections", cfg.SectionHandler.ListByCourse)
	protected.POST("/sections", cfg.SectionHandler.Create)
	protected.GET("/sections/:id", cfg.SectionHandler.Get)
	protected.PATCH("/sections/:id", cfg.SectionHandler.Update)
	protected.DELETE("/sections/:id", cfg.SectionHandler.Delete)

	protected.GET("/subsections", cfg.SubSectionHandler.ListBySection)
	protected.POST("/subsections", cfg.SubSectionHandler.Create)
	protected.GET("/subsections/:id", cfg.SubSectionHandler.Get)
	protected.PATCH("/subsections/:id", cfg.SubSectionHandler.Update)
	protected.DELETE("/subsections/:id", cfg.SubSectionHandler.Delete)

	protected.GET("/modules", cfg.ModuleHandler.List)
	protected.POST("/modules", cfg.ModuleHandler.Create)
	protected.GET("/modules/:id", cfg.ModuleHandler.Get)
	protected.PATCH("/modules/:id", cfg.ModuleHandler.Update)
	protected.DELETE("/modules/:id", cfg.ModuleHandler.Delete)

	// Quiz attempts
	protected.POST("/modules/:id/attempts", cfg.QuizAttemptHandler.Start)
	protected.GET("/modules/:id/attempts/mine", cfg.QuizAttemptHandler.ListMine)
	protected.GET("/modules/:id/attempts", cfg.QuizAttemptHandler.ListForModule)
	protected.POST("/quiz-attempts/:attemptId/submit", cfg.QuizAttemptHandler.Submit)

	// Enrollments
	protected.GET("/enrollments", cfg.EnrollmentHandler.List)
	protected.POST("/enrollments", cfg.EnrollmentHandler.Assign)

	// Invitations
	protected.GET("/invitations", cfg.InvitationHandler.List)
	protected.POST("/invitations", cfg.InvitationHandler.Create)
	protected.PATCH("/invitations/:id", cfg.InvitationHandler.Update)
	protected.DELETE("/invitations/:id", cfg.InvitationHandler.Delete)

	// Mentor assignments
	protected.GET("/mentor-assignments", cfg.MentorHandler.ListAssignments)
	protected.POST("/mentor-assignments", cfg.MentorHandler.Assign)
	protected.PATCH("/mentor-assignments/:id", cfg.MentorHandler.UpdateAssignment)
	protected.POST("/mentor-assignments/:id/unassign", cfg.MentorHandler.Unassign)
	protected.DELETE("/mentor-assignments/:id", cfg.MentorHandler.DeleteAssignment)

	protected.GET("/mentor-course-assignments", cfg.MentorHandler.ListCourseAssignments)
	protected.POST("/mentor-course-assignments", cfg.MentorHandler.AssignCourse)
	protected.PATCH("/mentor-course-assignments/:id", cfg.MentorHandler.UpdateCourseAssignment)
	protected.DELETE("/mentor-course-assignments/:id", cfg.MentorHandler.DeleteCourseAssignment)

	// Assessments
	protected.GET("/assessments", cfg.AssessmentHandler.List)
	protected.POST("/assessments", cfg.AssessmentHandler.Create)
	protected.GET("/assessments/:id", cfg.AssessmentHandler.Get)
	protected.PATCH("/assessments/:id", cfg.AssessmentHandler.Update)
	protected.DELETE("/assessments/:id", cfg.AssessmentHandler.Delete)
	protected.POST("/assessments/:id/submit", cfg.AssessmentHandler.Submit)
	protected.GET("/assessments/:id/submissions", cfg.AssessmentHandler.ListSubmissions)
	protected.POST("/assessments/:id/questions", cfg.AssessmentHandler.AddQuestion)
	protected.GET("/assessments/:id/questions", cfg.AssessmentHandler.ListQuestions)

	// Assessment access
	protected.GET("/assessment-access", cfg.AccessHandler.List)
	protected.POST("/assessment-access", cfg.AccessHandler.Grant)
	protected.POST("/assessment-access/bulk-grant", cfg.AccessHandler.BulkGrant)
	protected.PATCH("/assessment-access/:id", cfg.AccessHandler.Update)
	protected.DELETE("/assessment-access/:id", cfg.AccessHandler.Revoke)

	// Announcements
	protected.GET("/announcements", cfg.AnnouncementHandler.List)
	protected.POST("/announcements", cfg.AnnouncementHandler.Create)
	protected.PATCH("/announcements/:id", cfg.AnnouncementHandler.Update)
	protected.DELETE("/announcements/:id", cfg.AnnouncementHandler.Delete)

	// Institutions
	protected.GET("/institutions", cfg.InstitutionHandler.List)
	protected.POST("/institutions", cfg.InstitutionHandler.Create)
	protected.GET("/institutions/:id", cfg.InstitutionHandler.Get)
	protected.PATCH("/institutions/:id", cfg.InstitutionHandler.Update)
	protected.DELETE("/institutions/:id", cfg.InstitutionHandler.Delete)

	// Progress
	protected.GET("/course-progress", cfg.ProgressHandler.List)
	protected.POST("/course-progress", cfg.ProgressHandler.Upsert)
	protected.GET("/course-progress/:id", cfg.ProgressHandler.Get)
	protected.PATCH("/course-progress/:id", cfg.ProgressHandler.Update)
	protected.DELETE("/course-progress/:id", cfg.ProgressHandler.Delete)

	// Analytics
	protected.GET("/analytics/dashboard", cfg.AnalyticsHandler.Dashboard)
	protected.GET("/audit-logs", cfg.AnalyticsHandler.AuditLogs)

	return router
}

// SplitOrigins parses a comma separated origin list from config.
func SplitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
