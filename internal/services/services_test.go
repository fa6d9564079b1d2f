package services

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/openlms/backend/internal/db"
	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/mail"
	"github.com/openlms/backend/internal/repos"
	"github.com/openlms/backend/internal/types"
)

// testEnv wires every service against a fresh in-memory database.
type testEnv struct {
	db   *gorm.DB
	mail *mail.FakeClient

	userRepo         repos.UserRepo
	tokenRepo        repos.PasswordSetupTokenRepo
	courseRepo       repos.CourseRepo
	sectionRepo      repos.SectionRepo
	subSectionRepo   repos.SubSectionRepo
	moduleRepo       repos.ModuleRepo
	attemptRepo      repos.QuizAttemptRepo
	enrollmentRepo   repos.EnrollmentRepo
	coInstructorRepo repos.CoInstructorRepo
	invitationRepo   repos.InvitationRepo
	mentorRepo       repos.MentorAssignmentRepo
	mentorCourseRepo repos.MentorCourseAssignmentRepo
	assessmentRepo   repos.AssessmentRepo
	accessRepo       repos.AssessmentAccessRepo
	announcementRepo repos.AnnouncementRepo
	institutionRepo  repos.InstitutionRepo
	progressRepo     repos.CourseProgressRepo
	auditRepo        repos.AuditLogRepo

	auth         AuthService
	users        UserService
	courses      CourseService
	sections     SectionService
	modules      ModuleService
	attempts     QuizAttemptService
	enroll       EnrollmentService
	invites      InvitationService
	mentors      MentorService
	assessments  AssessmentService
	access       AssessmentAccessService
	progress     CourseProgressService
	analytics    AnalyticsService
	announcing   AnnouncementService
	institutions InstitutionService
	audits       AuditLogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := db.NewMemoryDB()
	if err != nil {
		t.Fatalf("NewMemoryDB: %v", err)
	}
	log := logger.Nop()
	env := &testEnv{
		db:   gdb,
		mail: &mail.FakeClient{},

		userRepo:         repos.NewUserRepo(gdb, log),
		tokenRepo:        repos.NewPasswordSetupTokenRepo(gdb, log),
		courseRepo:       repos.NewCourseRepo(gdb, log),
		sectionRepo:      repos.NewSectionRepo(gdb, log),
		subSectionRepo:   repos.NewSubSectionRepo(gdb, log),
		moduleRepo:       repos.NewModuleRepo(gdb, log),
		attemptRepo:      repos.NewQuizAttemptRepo(gdb, log),
		enrollmentRepo:   repos.NewEnrollmentRepo(gdb, log),
		coInstructorRepo: repos.NewCoInstructorRepo(gdb, log),
		invitationRepo:   repos.NewInvitationRepo(gdb, log),
		mentorRepo:       repos.NewMentorAssignmentRepo(gdb, log),
		mentorCourseRepo: repos.NewMentorCourseAssignmentRepo(gdb, log),
		assessmentRepo:   repos.NewAssessmentRepo(gdb, log),
		accessRepo:       repos.NewAssessmentAccessRepo(gdb, log),
		announcementRepo: repos.NewAnnouncementRepo(gdb, log),
		institutionRepo:  repos.NewInstitutionRepo(gdb, log),
		progressRepo:     repos.NewCourseProgressRepo(gdb, log),
		auditRepo:        repos.NewAuditLogRepo(gdb, log),
	}

	authCfg := AuthConfig{
		JWTSecret:             "testsecret",
		AccessTTL:             time.Hour,
		RefreshTTL:            24 * time.Hour,
		BootstrapAdminEnabled: true,
	}
	env.auth = NewAuthService(gdb, authCfg, env.userRepo, env.tokenRepo, log)
	env.users = NewUserService(
		gdb,
		env.userRepo,
		env.tokenRepo,
		env.courseRepo,
		env.enrollmentRepo,
		env.coInstructorRepo,
		env.invitationRepo,
		env.mentorRepo,
		env.mentorCourseRepo,
		env.accessRepo,
		env.assessmentRepo,
		env.attemptRepo,
		env.progressRepo,
		env.auditRepo,
		env.mail,
		"http://localhost:3000",
		log,
	)
	env.courses = NewCourseService(
		gdb,
		env.courseRepo,
		env.sectionRepo,
		env.subSectionRepo,
		env.moduleRepo,
		env.attemptRepo,
		env.assessmentRepo,
		env.accessRepo,
		env.enrollmentRepo,
		env.coInstructorRepo,
		env.invitationRepo,
		env.mentorCourseRepo,
		env.announcementRepo,
		env.progressRepo,
		log,
	)
	env.sections = NewSectionService(gdb, env.courseRepo, env.sectionRepo, env.subSectionRepo, env.moduleRepo, env.attemptRepo, env.coInstructorRepo, env.enrollmentRepo, log)
	env.modules = NewModuleService(gdb, env.courseRepo, env.sectionRepo, env.subSectionRepo, env.moduleRepo, env.attemptRepo, env.coInstructorRepo, env.enrollmentRepo, log)
	env.attempts = NewQuizAttemptService(gdb, env.courseRepo, env.sectionRepo, env.moduleRepo, env.attemptRepo, env.coInstructorRepo, env.enrollmentRepo, log)
	env.enroll = NewEnrollmentService(gdb, env.courseRepo, env.userRepo, env.enrollmentRepo, log)
	env.invites = NewInvitationService(gdb, env.courseRepo, env.invitationRepo, env.coInstructorRepo, env.enrollmentRepo, log)
	env.mentors = NewMentorService(gdb, env.userRepo, env.courseRepo, env.mentorRepo, env.mentorCourseRepo, log)
	env.assessments = NewAssessmentService(gdb, env.courseRepo, env.assessmentRepo, env.accessRepo, log)
	env.access = NewAssessmentAccessService(gdb, env.userRepo, env.assessmentRepo, env.accessRepo, log)
	env.progress = NewCourseProgressService(gdb, env.courseRepo, env.sectionRepo, env.moduleRepo, env.enrollmentRepo, env.progressRepo, log)
	env.analytics = NewAnalyticsService(gdb, env.userRepo, env.courseRepo, env.enrollmentRepo, log)
	env.announcing = NewAnnouncementService(gdb, env.courseRepo, env.announcementRepo, log)
	env.institutions = NewInstitutionService(gdb, env.institutionRepo, log)
	env.audits = NewAuditLogService(gdb, env.auditRepo, log)
	return env
}

func (env *testEnv) seedUser(t *testing.T, email, role string) *types.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user := &types.User{
		Email:          email,
		HashedPassword: string(hashed),
		Role:           role,
		Status:         types.StatusActive,
		Name:           strp("Test " + role),
	}
	if _, err := env.userRepo.Create(context.Background(), nil, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func (env *testEnv) seedCourse(t *testing.T, owner *types.User, status string) *types.Course {
	t.Helper()
	course := &types.Course{
		Title:          "Course by " + owner.Email,
		InstructorID:   owner.ID,
		InstructorName: owner.Name,
		Status:         status,
	}
	if _, err := env.courseRepo.Create(context.Background(), nil, course); err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return course
}

func (env *testEnv) seedSection(t *testing.T, course *types.Course) *types.Section {
	t.Helper()
	section := &types.Section{CourseID: course.ID, Title: "Section 1"}
	if _, err := env.sectionRepo.Create(context.Background(), nil, section); err != nil {
		t.Fatalf("seed section: %v", err)
	}
	return section
}

func (env *testEnv) seedQuizModule(t *testing.T, section *types.Section, limitSeconds *int) *types.Module {
	t.Helper()
	zero := 0
	one := 1
	module := &types.Module{
		SectionID: section.ID,
		Title:     strp("Checkpoint quiz"),
		Type:      types.ModuleTypeQuiz,
		QuizData: datatypes.NewJSONSlice([]types.QuizQuestion{
			{Prompt: "2+2?", Options: []string{"3", "4"}, CorrectOption: &one, Points: 2},
			{Prompt: "1+1?", Options: []string{"2", "3"}, CorrectOption: &zero, Points: 1},
		}),
		TimeLimitSeconds: limitSeconds,
	}
	if _, err := env.moduleRepo.Create(context.Background(), nil, module); err != nil {
		t.Fatalf("seed module: %v", err)
	}
	return module
}

func (env *testEnv) seedEnrollment(t *testing.T, course *types.Course, user *types.User) {
	t.Helper()
	if _, err := env.enrollmentRepo.Create(context.Background(), nil, &types.Enrollment{CourseID: course.ID, UserID: user.ID}); err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
}

func (env *testEnv) seedAssessment(t *testing.T, course *types.Course, creator *types.User) *types.Assessment {
	t.Helper()
	assessment := &types.Assessment{
		CourseID:     course.ID,
		Title:        "Midterm",
		CreatedBy:    strp(creator.ID),
		InstructorID: strp(course.InstructorID),
		Status:       strp("draft"),
	}
	if _, err := env.assessmentRepo.Create(context.Background(), nil, assessment); err != nil {
		t.Fatalf("seed assessment: %v", err)
	}
	return assessment
}
