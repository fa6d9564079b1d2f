package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/types"
)

func TestProvisionRollsBackOnMailFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", types.RoleAdmin)

	env.mail.Err = errors.New("sendgrid down")
	_, err := env.users.Provision(ctx, admin, ProvisionUserRequest{
		Email: "ghost@example.com",
		Role:  types.RoleStudent,
	})
	if apierr.StatusOf(err) != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", apierr.StatusOf(err))
	}
	if _, err := env.userRepo.GetByEmail(ctx, nil, "ghost@example.com"); err == nil {
		t.Fatal("user row survived the rolled-back provision")
	}
}

func TestProvisionDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", types.RoleAdmin)
	env.seedUser(t, "taken@example.com", types.RoleStudent)

	_, err := env.users.Provision(ctx, admin, ProvisionUserRequest{
		Email: "taken@example.com",
		Role:  types.RoleStudent,
	})
	if !apierr.IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestListUsersFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", types.RoleAdmin)
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	alice := env.seedUser(t, "alice@example.com", types.RoleStudent)
	bob := env.seedUser(t, "bob@example.com", types.RoleStudent)

	all, err := env.users.List(ctx, admin, UserListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("%d users, want 4", len(all))
	}

	role := types.RoleStudent
	students, err := env.users.List(ctx, admin, UserListFilter{Role: &role})
	if err != nil {
		t.Fatalf("list by role: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("%d students, want 2", len(students))
	}
	for _, u := range students {
		if u.Role != types.RoleStudent {
			t.Fatalf("role = %q, want student", u.Role)
		}
	}

	picked, err := env.users.List(ctx, admin, UserListFilter{IDs: []string{instructor.ID, bob.ID}})
	if err != nil {
		t.Fatalf("list by ids: %v", err)
	}
	if len(picked) != 2 {
		t.Fatalf("%d users, want 2", len(picked))
	}
	for _, u := range picked {
		if u.ID != instructor.ID && u.ID != bob.ID {
			t.Fatalf("unexpected user %s in id-filtered listing", u.Email)
		}
	}

	both, err := env.users.List(ctx, admin, UserListFilter{Role: &role, IDs: []string{alice.ID, instructor.ID}})
	if err != nil {
		t.Fatalf("list by role and ids: %v", err)
	}
	if len(both) != 1 || both[0].ID != alice.ID {
		t.Fatalf("combined filter returned %d users, want only alice", len(both))
	}

	if _, err := env.users.List(ctx, alice, UserListFilter{}); !apierr.IsForbidden(err) {
		t.Fatalf("student list err = %v, want forbidden", err)
	}
}

func TestDeleteUserBlockedByOwnedCourses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", types.RoleAdmin)
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	env.seedCourse(t, instructor, types.CoursePublished)

	err := env.users.Delete(ctx, admin, instructor.ID)
	if !apierr.IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", types.RoleAdmin)
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)
	course := env.seedCourse(t, instructor, types.CoursePublished)
	section := env.seedSection(t, course)
	module := env.seedQuizModule(t, section, nil)
	env.seedEnrollment(t, course, student)

	if _, err := env.attemptRepo.Create(ctx, nil, &types.ModuleQuizAttempt{
		ModuleID: module.ID,
		UserID:   student.ID,
	}); err != nil {
		t.Fatalf("seed attempt: %v", err)
	}

	if err := env.users.Delete(ctx, admin, student.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := env.userRepo.GetByID(ctx, nil, student.ID); err == nil {
		t.Fatal("user row still present")
	}
	if ok, err := env.enrollmentRepo.Exists(ctx, nil, course.ID, student.ID); err != nil || ok {
		t.Fatalf("enrollment exists=%v err=%v, want gone", ok, err)
	}
	attempts, err := env.attemptRepo.ListByModuleAndUser(ctx, nil, module.ID, student.ID)
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 0 {
		t.Fatalf("%d attempts survived, want 0", len(attempts))
	}
}

func TestInstructorBanAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	other := env.seedUser(t, "other@example.com", types.RoleInstructor)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)
	owned := env.seedCourse(t, instructor, types.CoursePublished)
	foreign := env.seedCourse(t, other, types.CoursePublished)
	env.seedEnrollment(t, owned, student)
	env.seedEnrollment(t, foreign, student)

	// owned course, enrolled student: allowed
	updated, err := env.users.Update(ctx, instructor, student.ID, UserUpdate{
		BannedFrom: &[]string{owned.ID},
	})
	if err != nil {
		t.Fatalf("ban from owned course: %v", err)
	}
	if len(updated.BannedFrom) != 1 || updated.BannedFrom[0] != owned.ID {
		t.Fatalf("banned_from = %v, want [%s]", updated.BannedFrom, owned.ID)
	}

	// list containing a course the actor does not own: rejected outright
	_, err = env.users.Update(ctx, instructor, student.ID, UserUpdate{
		BannedFrom: &[]string{owned.ID, foreign.ID},
	})
	if !apierr.IsForbidden(err) {
		t.Fatalf("foreign course err = %v, want forbidden", err)
	}

	// owned course the student is not enrolled in: state error
	second := env.seedCourse(t, instructor, types.CoursePublished)
	_, err = env.users.Update(ctx, instructor, student.ID, UserUpdate{
		BannedFrom: &[]string{second.ID},
	})
	if apierr.StatusOf(err) != http.StatusUnprocessableEntity {
		t.Fatalf("not-enrolled status = %d, want 422", apierr.StatusOf(err))
	}
}

func TestInstructorCannotBanNonLearner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	peer := env.seedUser(t, "peer@example.com", types.RoleInstructor)

	_, err := env.users.Update(ctx, instructor, peer.ID, UserUpdate{
		BannedFrom: &[]string{"any"},
	})
	if apierr.StatusOf(err) != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", apierr.StatusOf(err))
	}
}

func TestAdminRoleChangeWritesAuditLog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", types.RoleAdmin)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)

	role := types.RoleInstructor
	reason := "promoted after onboarding"
	if _, err := env.users.Update(ctx, admin, student.ID, UserUpdate{Role: &role, Reason: &reason}); err != nil {
		t.Fatalf("update: %v", err)
	}

	logs, err := env.auditRepo.List(ctx, nil)
	if err != nil {
		t.Fatalf("list audit logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("%d audit entries, want 1", len(logs))
	}
	entry := logs[0]
	if entry.Type != "role_change" {
		t.Fatalf("type = %q", entry.Type)
	}
	if entry.OldRole == nil || *entry.OldRole != types.RoleStudent {
		t.Fatalf("old role = %v, want student", entry.OldRole)
	}
	if entry.NewRole == nil || *entry.NewRole != types.RoleInstructor {
		t.Fatalf("new role = %v, want instructor", entry.NewRole)
	}
}
