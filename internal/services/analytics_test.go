package services

import (
	"context"
	"testing"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/types"
)

func TestDashboardAdminTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", types.RoleAdmin)
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	env.seedUser(t, "partner@example.com", types.RolePartnerInstructor)
	alice := env.seedUser(t, "alice@example.com", types.RoleStudent)
	bob := env.seedUser(t, "bob@example.com", types.RoleStudent)

	course := env.seedCourse(t, instructor, types.CoursePublished)
	env.seedEnrollment(t, course, alice)
	env.seedEnrollment(t, course, bob)

	stats, err := env.analytics.Dashboard(ctx, admin)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalStudents != 2 {
		t.Fatalf("students = %d, want 2", stats.TotalStudents)
	}
	if stats.TotalInstructors != 2 {
		t.Fatalf("instructors = %d, want 2 (instructor + partner)", stats.TotalInstructors)
	}
	if stats.TotalCourses != 1 {
		t.Fatalf("courses = %d, want 1", stats.TotalCourses)
	}
	if stats.TotalEnrollments != 2 {
		t.Fatalf("enrollments = %d, want 2", stats.TotalEnrollments)
	}
}

func TestDashboardInstructorScopedToOwnCourses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	other := env.seedUser(t, "other@example.com", types.RoleInstructor)
	alice := env.seedUser(t, "alice@example.com", types.RoleStudent)
	bob := env.seedUser(t, "bob@example.com", types.RoleStudent)

	mine := env.seedCourse(t, instructor, types.CoursePublished)
	foreign := env.seedCourse(t, other, types.CoursePublished)
	env.seedEnrollment(t, mine, alice)
	env.seedEnrollment(t, foreign, alice)
	env.seedEnrollment(t, foreign, bob)

	stats, err := env.analytics.Dashboard(ctx, instructor)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalCourses != 1 {
		t.Fatalf("courses = %d, want 1", stats.TotalCourses)
	}
	if stats.TotalStudents != 1 {
		t.Fatalf("students = %d, want 1", stats.TotalStudents)
	}
	if stats.TotalEnrollments != 1 {
		t.Fatalf("enrollments = %d, want 1", stats.TotalEnrollments)
	}
}

func TestDashboardGuestAndStudent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	guest := env.seedUser(t, "guest@example.com", types.RoleGuest)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)

	stats, err := env.analytics.Dashboard(ctx, guest)
	if err != nil {
		t.Fatalf("guest dashboard: %v", err)
	}
	if *stats != (DashboardStats{}) {
		t.Fatalf("guest stats = %+v, want zero struct", *stats)
	}

	if _, err := env.analytics.Dashboard(ctx, student); !apierr.IsForbidden(err) {
		t.Fatalf("student err = %v, want forbidden", err)
	}
}

func TestAuditLogsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", types.RoleAdmin)
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)

	role := types.RoleGuest
	if _, err := env.users.Update(ctx, admin, student.ID, UserUpdate{Role: &role}); err != nil {
		t.Fatalf("role change: %v", err)
	}

	if _, err := env.audits.List(ctx, instructor); !apierr.IsForbidden(err) {
		t.Fatalf("instructor err = %v, want forbidden", err)
	}
	logs, err := env.audits.List(ctx, admin)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("%d entries, want 1", len(logs))
	}
}
