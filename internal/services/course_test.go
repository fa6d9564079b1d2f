package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/repos"
	"github.com/openlms/backend/internal/types"
)

func TestLearnerCannotSeeDraftCourse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)
	draft := env.seedCourse(t, instructor, types.CourseDraft)

	if _, err := env.courses.Get(ctx, student, draft.ID); !apierr.IsForbidden(err) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if _, err := env.courses.Get(ctx, instructor, draft.ID); err != nil {
		t.Fatalf("owner get: %v", err)
	}
}

func TestStudentCannotCreateCourse(t *testing.T) {
	env := newTestEnv(t)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)

	_, err := env.courses.Create(context.Background(), student, CourseCreate{Title: "Nope"})
	if !apierr.IsForbidden(err) {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestBannedCoursesHiddenFromList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)
	visible := env.seedCourse(t, instructor, types.CoursePublished)
	banned := env.seedCourse(t, instructor, types.CoursePublished)
	env.seedEnrollment(t, visible, student)
	env.seedEnrollment(t, banned, student)

	student.BannedFrom = []string{banned.ID}
	if err := env.userRepo.Update(ctx, nil, student); err != nil {
		t.Fatalf("update user: %v", err)
	}

	courses, err := env.courses.List(ctx, student)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, c := range courses {
		if c.ID == banned.ID {
			t.Fatal("banned course returned in listing")
		}
	}
	found := false
	for _, c := range courses {
		found = found || c.ID == visible.ID
	}
	if !found {
		t.Fatal("visible course missing from listing")
	}
}

func TestCourseDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)
	course := env.seedCourse(t, instructor, types.CoursePublished)
	section := env.seedSection(t, course)
	module := env.seedQuizModule(t, section, nil)
	env.seedEnrollment(t, course, student)
	assessment := env.seedAssessment(t, course, instructor)

	if _, err := env.attemptRepo.Create(ctx, nil, &types.ModuleQuizAttempt{
		ModuleID: module.ID,
		UserID:   student.ID,
	}); err != nil {
		t.Fatalf("seed attempt: %v", err)
	}
	if _, err := env.assessmentRepo.CreateQuestion(ctx, nil, &types.AssessmentQuestion{
		AssessmentID: assessment.ID,
		Prompt:       "Define a closure",
	}); err != nil {
		t.Fatalf("seed question: %v", err)
	}
	if _, err := env.accessRepo.Create(ctx, nil, &types.AssessmentAccess{
		StudentID:    student.ID,
		AssessmentID: assessment.ID,
		Status:       types.EdgeActive,
	}); err != nil {
		t.Fatalf("seed access: %v", err)
	}
	if _, err := env.announcementRepo.Create(ctx, nil, &types.Announcement{
		Title:    "Welcome",
		Body:     "First week notes",
		AuthorID: instructor.ID,
		CourseID: &course.ID,
	}); err != nil {
		t.Fatalf("seed announcement: %v", err)
	}

	if err := env.courses.Delete(ctx, instructor, course.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := env.courseRepo.GetByID(ctx, nil, course.ID); err == nil {
		t.Fatal("course row still present")
	}
	sectionIDs, err := env.sectionRepo.ListIDsByCourse(ctx, nil, course.ID)
	if err != nil {
		t.Fatalf("section ids: %v", err)
	}
	if len(sectionIDs) != 0 {
		t.Fatalf("%d sections survived", len(sectionIDs))
	}
	if _, err := env.moduleRepo.GetByID(ctx, nil, module.ID); err == nil {
		t.Fatal("module row still present")
	}
	attempts, err := env.attemptRepo.ListByModule(ctx, nil, module.ID)
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 0 {
		t.Fatalf("%d attempts survived", len(attempts))
	}
	if ok, err := env.enrollmentRepo.Exists(ctx, nil, course.ID, student.ID); err != nil || ok {
		t.Fatalf("enrollment exists=%v err=%v, want gone", ok, err)
	}
	assessmentIDs, err := env.assessmentRepo.ListIDsByCourse(ctx, nil, course.ID)
	if err != nil {
		t.Fatalf("assessment ids: %v", err)
	}
	if len(assessmentIDs) != 0 {
		t.Fatalf("%d assessments survived", len(assessmentIDs))
	}
}

// stuckAnnouncementRepo fails the announcement purge step of a course delete.
type stuckAnnouncementRepo struct {
	repos.AnnouncementRepo
}

func (stuckAnnouncementRepo) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	return errors.New("announcement purge failed")
}

func TestCourseDeleteRollsBackWhenCascadeFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)
	course := env.seedCourse(t, instructor, types.CoursePublished)
	section := env.seedSection(t, course)
	module := env.seedQuizModule(t, section, nil)
	env.seedEnrollment(t, course, student)

	courses := NewCourseService(
		env.db,
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
		stuckAnnouncementRepo{env.announcementRepo},
		env.progressRepo,
		logger.Nop(),
	)

	if err := courses.Delete(ctx, instructor, course.ID); err == nil {
		t.Fatal("delete succeeded despite failing cascade step")
	}

	if _, err := env.courseRepo.GetByID(ctx, nil, course.ID); err != nil {
		t.Fatalf("course row gone after failed delete: %v", err)
	}
	if _, err := env.sectionRepo.GetByID(ctx, nil, section.ID); err != nil {
		t.Fatalf("section row gone after failed delete: %v", err)
	}
	if _, err := env.moduleRepo.GetByID(ctx, nil, module.ID); err != nil {
		t.Fatalf("module row gone after failed delete: %v", err)
	}
	if ok, err := env.enrollmentRepo.Exists(ctx, nil, course.ID, student.ID); err != nil || !ok {
		t.Fatalf("enrollment exists=%v err=%v, want intact", ok, err)
	}
}

func TestCoInstructorCannotDeleteCourse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner@example.com", types.RoleInstructor)
	helper := env.seedUser(t, "helper@example.com", types.RoleInstructor)
	course := env.seedCourse(t, owner, types.CoursePublished)
	if _, err := env.coInstructorRepo.Create(ctx, nil, &types.CourseCoInstructor{
		CourseID: course.ID,
		UserID:   helper.ID,
		Status:   types.EdgeActive,
	}); err != nil {
		t.Fatalf("seed co-instructor: %v", err)
	}

	if err := env.courses.Delete(ctx, helper, course.ID); !apierr.IsForbidden(err) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if _, err := env.courses.Update(ctx, helper, course.ID, CourseUpdate{Title: strp("Renamed")}); err != nil {
		t.Fatalf("co-instructor update: %v", err)
	}
}
