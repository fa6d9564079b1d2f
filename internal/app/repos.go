package app

import (
	"gorm.io/gorm"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/repos"
)

type Repos struct {
	User               repos.UserRepo
	PasswordSetupToken repos.PasswordSetupTokenRepo
	Institution        repos.InstitutionRepo
	Course             repos.CourseRepo
	Section            repos.SectionRepo
	SubSection         repos.SubSectionRepo
	Module             repos.ModuleRepo
	QuizAttempt        repos.QuizAttemptRepo
	Enrollment         repos.EnrollmentRepo
	CoInstructor       repos.CoInstructorRepo
	Invitation         repos.InvitationRepo
	MentorAssignment   repos.MentorAssignmentRepo
	MentorCourse       repos.MentorCourseAssignmentRepo
	Assessment         repos.AssessmentRepo
	AssessmentAccess   repos.AssessmentAccessRepo
	Announcement       repos.AnnouncementRepo
	CourseProgress     repos.CourseProgressRepo
	AuditLog           repos.AuditLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:               repos.NewUserRepo(db, log),
		PasswordSetupToken: repos.NewPasswordSetupTokenRepo(db, log),
		Institution:        repos.NewInstitutionRepo(db, log),
		Course:             repos.NewCourseRepo(db, log),
		Section:            repos.NewSectionRepo(db, log),
		SubSection:         repos.NewSubSectionRepo(db, log),
		Module:             repos.NewModuleRepo(db, log),
		QuizAttempt:        repos.NewQuizAttemptRepo(db, log),
		Enrollment:         repos.NewEnrollmentRepo(db, log),
		CoInstructor:       repos.NewCoInstructorRepo(db, log),
		Invitation:         repos.NewInvitationRepo(db, log),
		MentorAssignment:   repos.NewMentorAssignmentRepo(db, log),
		MentorCourse:       repos.NewMentorCourseAssignmentRepo(db, log),
		Assessment:         repos.NewAssessmentRepo(db, log),
		AssessmentAccess:   repos.NewAssessmentAccessRepo(db, log),
		Announcement:       repos.NewAnnouncementRepo(db, log),
		CourseProgress:     repos.NewCourseProgressRepo(db, log),
		AuditLog:           repos.NewAuditLogRepo(db, log),
	}
}
