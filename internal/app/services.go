package app

import (
	"gorm.io/gorm"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/mail"
	"github.com/openlms/backend/internal/services"
)

type Services struct {
	Auth             services.AuthService
	User             services.UserService
	Institution      services.InstitutionService
	Course           services.CourseService
	Section          services.SectionService
	SubSection       services.SubSectionService
	Module           services.ModuleService
	QuizAttempt      services.QuizAttemptService
	Enrollment       services.EnrollmentService
	Invitation       services.InvitationService
	Mentor           services.MentorService
	Assessment       services.AssessmentService
	AssessmentAccess services.AssessmentAccessService
	Announcement     services.AnnouncementService
	CourseProgress   services.CourseProgressService
	Analytics        services.AnalyticsService
	AuditLog         services.AuditLogService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, mailClient mail.Client) Services {
	log.Info("Wiring services...")
	authCfg := services.AuthConfig{
		JWTSecret:             cfg.JWTSecretKey,
		AccessTTL:             cfg.AccessTokenTTL,
		RefreshTTL:            cfg.RefreshTokenTTL,
		BootstrapAdminEnabled: cfg.BootstrapAdminEnabled,
		BootstrapAdminEmail:   cfg.BootstrapAdminEmail,
	}
	return Services{
		Auth: services.NewAuthService(db, authCfg, r.User, r.PasswordSetupToken, log),
		User: services.NewUserService(
			db,
			r.User,
			r.PasswordSetupToken,
			r.Course,
			r.Enrollment,
			r.CoInstructor,
			r.Invitation,
			r.MentorAssignment,
			r.MentorCourse,
			r.AssessmentAccess,
			r.Assessment,
			r.QuizAttempt,
			r.CourseProgress,
			r.AuditLog,
			mailClient,
			cfg.FrontendBaseURL,
			log,
		),
		Institution: services.NewInstitutionService(db, r.Institution, log),
		Course: services.NewCourseService(
			db,
			r.Course,
			r.Section,
			r.SubSection,
			r.Module,
			r.QuizAttempt,
			r.Assessment,
			r.AssessmentAccess,
			r.Enrollment,
			r.CoInstructor,
			r.Invitation,
			r.MentorCourse,
			r.Announcement,
			r.CourseProgress,
			log,
		),
		Section:          services.NewSectionService(db, r.Course, r.Section, r.SubSection, r.Module, r.QuizAttempt, r.CoInstructor, r.Enrollment, log),
		SubSection:       services.NewSubSectionService(db, r.Course, r.Section, r.SubSection, r.Module, r.QuizAttempt, r.CoInstructor, r.Enrollment, log),
		Module:           services.NewModuleService(db, r.Course, r.Section, r.SubSection, r.Module, r.QuizAttempt, r.CoInstructor, r.Enrollment, log),
		QuizAttempt:      services.NewQuizAttemptService(db, r.Course, r.Section, r.Module, r.QuizAttempt, r.CoInstructor, r.Enrollment, log),
		Enrollment:       services.NewEnrollmentService(db, r.Course, r.User, r.Enrollment, log),
		Invitation:       services.NewInvitationService(db, r.Course, r.Invitation, r.CoInstructor, r.Enrollment, log),
		Mentor:           services.NewMentorService(db, r.User, r.Course, r.MentorAssignment, r.MentorCourse, log),
		Assessment:       services.NewAssessmentService(db, r.Course, r.Assessment, r.AssessmentAccess, log),
		AssessmentAccess: services.NewAssessmentAccessService(db, r.User, r.Assessment, r.AssessmentAccess, log),
		Announcement:     services.NewAnnouncementService(db, r.Course, r.Announcement, log),
		CourseProgress:   services.NewCourseProgressService(db, r.Course, r.Section, r.Module, r.Enrollment, r.CourseProgress, log),
		Analytics:        services.NewAnalyticsService(db, r.User, r.Course, r.Enrollment, log),
		AuditLog:         services.NewAuditLogService(db, r.AuditLog, log),
	}
}
