package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/types"
)

func TestMentorAssignmentReactivation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", types.RoleAdmin)
	mentor := env.seedUser(t, "mentor@example.com", types.RolePartnerInstructor)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)

	first, err := env.mentors.Assign(ctx, admin, MentorAssignmentCreate{
		StudentID: student.ID,
		MentorID:  mentor.ID,
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	unassigned, err := env.mentors.Unassign(ctx, admin, first.ID)
	if err != nil {
		t.Fatalf("unassign: %v", err)
	}
	if unassigned.Status != types.EdgeInactive {
		t.Fatalf("status = %q, want inactive", unassigned.Status)
	}
	if unassigned.UnassignedAt == nil {
		t.Fatal("unassigned_at not stamped")
	}

	again, err := env.mentors.Assign(ctx, admin, MentorAssignmentCreate{
		StudentID: student.ID,
		MentorID:  mentor.ID,
	})
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("reassign created new row %q, want reuse of %q", again.ID, first.ID)
	}
	if again.Status != types.EdgeActive {
		t.Fatalf("status = %q, want active", again.Status)
	}
	if again.UnassignedAt != nil {
		t.Fatal("unassigned_at not cleared on reactivation")
	}
}

func TestMentorAssignmentRolePairing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", types.RoleAdmin)
	mentor := env.seedUser(t, "mentor@example.com", types.RolePartnerInstructor)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)

	// mentor seat must hold a mentor role
	_, err := env.mentors.Assign(ctx, admin, MentorAssignmentCreate{
		StudentID: student.ID,
		MentorID:  student.ID,
	})
	if apierr.StatusOf(err) != http.StatusUnprocessableEntity {
		t.Fatalf("learner-as-mentor status = %d, want 422", apierr.StatusOf(err))
	}

	// student seat must hold a learner role
	_, err = env.mentors.Assign(ctx, admin, MentorAssignmentCreate{
		StudentID: mentor.ID,
		MentorID:  mentor.ID,
	})
	if apierr.StatusOf(err) != http.StatusUnprocessableEntity {
		t.Fatalf("mentor-as-student status = %d, want 422", apierr.StatusOf(err))
	}
}

func TestMentorAssignmentVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", types.RoleAdmin)
	mentorA := env.seedUser(t, "a@example.com", types.RolePartnerInstructor)
	mentorB := env.seedUser(t, "b@example.com", types.RolePartnerInstructor)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)

	if _, err := env.mentors.Assign(ctx, admin, MentorAssignmentCreate{StudentID: student.ID, MentorID: mentorA.ID}); err != nil {
		t.Fatalf("assign a: %v", err)
	}
	if _, err := env.mentors.Assign(ctx, admin, MentorAssignmentCreate{StudentID: student.ID, MentorID: mentorB.ID}); err != nil {
		t.Fatalf("assign b: %v", err)
	}

	mine, err := env.mentors.ListAssignments(ctx, mentorA)
	if err != nil {
		t.Fatalf("list as partner: %v", err)
	}
	if len(mine) != 1 || mine[0].MentorID != mentorA.ID {
		t.Fatalf("partner sees %d rows, want only their own", len(mine))
	}

	all, err := env.mentors.ListAssignments(ctx, admin)
	if err != nil {
		t.Fatalf("list as admin: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin sees %d rows, want 2", len(all))
	}
}

func TestMentorCourseAssignmentReactivation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", types.RoleAdmin)
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	mentor := env.seedUser(t, "mentor@example.com", types.RolePartnerInstructor)
	course := env.seedCourse(t, instructor, types.CoursePublished)

	first, err := env.mentors.AssignCourse(ctx, admin, MentorCourseAssignmentCreate{
		MentorID: mentor.ID,
		CourseID: course.ID,
	})
	if err != nil {
		t.Fatalf("assign course: %v", err)
	}

	inactive := types.EdgeInactive
	if _, err := env.mentors.UpdateCourseAssignment(ctx, admin, first.ID, MentorCourseAssignmentUpdate{Status: &inactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	again, err := env.mentors.AssignCourse(ctx, admin, MentorCourseAssignmentCreate{
		MentorID: mentor.ID,
		CourseID: course.ID,
	})
	if err != nil {
		t.Fatalf("reassign course: %v", err)
	}
	if again.ID != first.ID || again.Status != types.EdgeActive || again.UnassignedAt != nil {
		t.Fatalf("reactivation wrong: id=%q status=%q unassigned=%v", again.ID, again.Status, again.UnassignedAt)
	}
}

func TestMentorCourseAssignmentInstitutionMatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", types.RoleAdmin)
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	mentor := env.seedUser(t, "mentor@example.com", types.RolePartnerInstructor)

	inst := "inst-1"
	mentor.InstitutionID = &inst
	if err := env.userRepo.Update(ctx, nil, mentor); err != nil {
		t.Fatalf("update mentor: %v", err)
	}
	course := env.seedCourse(t, instructor, types.CoursePublished)
	course.InstitutionID = &inst
	if err := env.courseRepo.Update(ctx, nil, course); err != nil {
		t.Fatalf("update course: %v", err)
	}

	assignment, err := env.mentors.AssignCourse(ctx, admin, MentorCourseAssignmentCreate{
		MentorID: mentor.ID,
		CourseID: course.ID,
	})
	if err != nil {
		t.Fatalf("assign course: %v", err)
	}
	if assignment.InstitutionMatch == nil || !*assignment.InstitutionMatch {
		t.Fatalf("institution_match = %v, want true", assignment.InstitutionMatch)
	}
}

func TestMentorCourseAssignmentListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", types.RoleAdmin)
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	mentorA := env.seedUser(t, "a@example.com", types.RolePartnerInstructor)
	mentorB := env.seedUser(t, "b@example.com", types.RolePartnerInstructor)
	first := env.seedCourse(t, instructor, types.CoursePublished)
	second := env.seedCourse(t, instructor, types.CoursePublished)

	if _, err := env.mentors.AssignCourse(ctx, admin, MentorCourseAssignmentCreate{MentorID: mentorA.ID, CourseID: first.ID}); err != nil {
		t.Fatalf("assign a/first: %v", err)
	}
	dormant, err := env.mentors.AssignCourse(ctx, admin, MentorCourseAssignmentCreate{MentorID: mentorA.ID, CourseID: second.ID})
	if err != nil {
		t.Fatalf("assign a/second: %v", err)
	}
	if _, err := env.mentors.AssignCourse(ctx, admin, MentorCourseAssignmentCreate{MentorID: mentorB.ID, CourseID: first.ID}); err != nil {
		t.Fatalf("assign b/first: %v", err)
	}
	inactive := types.EdgeInactive
	if _, err := env.mentors.UpdateCourseAssignment(ctx, admin, dormant.ID, MentorCourseAssignmentUpdate{Status: &inactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	byCourse, err := env.mentors.ListCourseAssignments(ctx, admin, MentorCourseFilter{CourseID: &first.ID})
	if err != nil {
		t.Fatalf("list by course: %v", err)
	}
	if len(byCourse) != 2 {
		t.Fatalf("course filter returned %d rows, want 2", len(byCourse))
	}

	byMentor, err := env.mentors.ListCourseAssignments(ctx, admin, MentorCourseFilter{MentorID: &mentorA.ID})
	if err != nil {
		t.Fatalf("list by mentor: %v", err)
	}
	if len(byMentor) != 2 {
		t.Fatalf("mentor filter returned %d rows, want 2", len(byMentor))
	}

	dormantOnly, err := env.mentors.ListCourseAssignments(ctx, admin, MentorCourseFilter{Status: &inactive})
	if err != nil {
		t.Fatalf("list inactive: %v", err)
	}
	if len(dormantOnly) != 1 || dormantOnly[0].ID != dormant.ID {
		t.Fatalf("status filter returned %d rows, want only the deactivated edge", len(dormantOnly))
	}

	// partners cannot widen scope past their own edges
	asPartner, err := env.mentors.ListCourseAssignments(ctx, mentorB, MentorCourseFilter{MentorID: &mentorA.ID})
	if err != nil {
		t.Fatalf("list as partner: %v", err)
	}
	if len(asPartner) != 1 || asPartner[0].MentorID != mentorB.ID {
		t.Fatalf("partner sees %d rows, want only their own", len(asPartner))
	}
}

func TestStudentCannotManageMentorAssignments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.seedUser(t, "student@example.com", types.RoleStudent)
	mentor := env.seedUser(t, "mentor@example.com", types.RolePartnerInstructor)

	_, err := env.mentors.Assign(ctx, student, MentorAssignmentCreate{
		StudentID: student.ID,
		MentorID:  mentor.ID,
	})
	if !apierr.IsForbidden(err) {
		t.Fatalf("err = %v, want forbidden", err)
	}
}
