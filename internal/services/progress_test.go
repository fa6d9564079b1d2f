package services

import (
	"context"
	"testing"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/types"
)

func TestProgressUpsertAutoEnrolls(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)
	course := env.seedCourse(t, instructor, types.CoursePublished)
	section := env.seedSection(t, course)
	module := env.seedQuizModule(t, section, nil)

	progress, err := env.progress.Upsert(ctx, student, ProgressUpsert{
		CourseID:         course.ID,
		CompletedModules: &[]string{module.ID},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if progress.EnrolledAt == nil {
		t.Fatal("enrolled_at not stamped on first touch")
	}
	if progress.LastAccessed == nil {
		t.Fatal("last_accessed not stamped")
	}
	if ok, err := env.enrollmentRepo.Exists(ctx, nil, course.ID, student.ID); err != nil || !ok {
		t.Fatalf("enrollment exists=%v err=%v, want auto-created", ok, err)
	}
	if progress.CompletedModuleCount != 1 {
		t.Fatalf("completed module count = %d, want 1", progress.CompletedModuleCount)
	}
	if progress.ModuleProgressPercentage != 100 {
		t.Fatalf("module percentage = %v, want 100", progress.ModuleProgressPercentage)
	}
}

func TestProgressUpsertMergesModules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)
	course := env.seedCourse(t, instructor, types.CoursePublished)
	section := env.seedSection(t, course)
	first := env.seedQuizModule(t, section, nil)
	second := env.seedQuizModule(t, section, nil)

	if _, err := env.progress.Upsert(ctx, student, ProgressUpsert{
		CourseID:         course.ID,
		CompletedModules: &[]string{first.ID},
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	progress, err := env.progress.Upsert(ctx, student, ProgressUpsert{
		CourseID:         course.ID,
		CompletedModules: &[]string{first.ID, second.ID},
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if progress.CompletedModuleCount != 2 {
		t.Fatalf("completed module count = %d, want 2", progress.CompletedModuleCount)
	}
	if progress.ModuleProgressPercentage != 100 {
		t.Fatalf("module percentage = %v, want 100", progress.ModuleProgressPercentage)
	}

	rows, err := env.progressRepo.ListByUser(ctx, nil, student.ID)
	if err != nil {
		t.Fatalf("list progress: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("%d progress rows, want a single upserted row", len(rows))
	}
}

func TestProgressForAnotherUserRequiresStaff(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)
	other := env.seedUser(t, "other@example.com", types.RoleStudent)
	course := env.seedCourse(t, instructor, types.CoursePublished)

	_, err := env.progress.Upsert(ctx, student, ProgressUpsert{
		UserID:   &other.ID,
		CourseID: course.ID,
	})
	if !apierr.IsForbidden(err) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if _, err := env.progress.Upsert(ctx, instructor, ProgressUpsert{
		UserID:   &other.ID,
		CourseID: course.ID,
	}); err != nil {
		t.Fatalf("instructor upsert for student: %v", err)
	}
}

func TestProgressGetVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)
	other := env.seedUser(t, "other@example.com", types.RoleStudent)
	course := env.seedCourse(t, instructor, types.CoursePublished)

	progress, err := env.progress.Upsert(ctx, student, ProgressUpsert{CourseID: course.ID})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if _, err := env.progress.Get(ctx, other, progress.ID); !apierr.IsForbidden(err) {
		t.Fatalf("peer read err = %v, want forbidden", err)
	}
	if _, err := env.progress.Get(ctx, student, progress.ID); err != nil {
		t.Fatalf("own read: %v", err)
	}
	if _, err := env.progress.Get(ctx, instructor, progress.ID); err != nil {
		t.Fatalf("instructor read: %v", err)
	}
}

func TestProgressDeleteAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", types.RoleAdmin)
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)
	course := env.seedCourse(t, instructor, types.CoursePublished)

	progress, err := env.progress.Upsert(ctx, student, ProgressUpsert{CourseID: course.ID})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := env.progress.Delete(ctx, student, progress.ID); !apierr.IsForbidden(err) {
		t.Fatalf("student delete err = %v, want forbidden", err)
	}
	if err := env.progress.Delete(ctx, admin, progress.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}
