package services

import (
	"context"
	"testing"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/types"
)

func TestAnnouncementAuthorOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	other := env.seedUser(t, "other@example.com", types.RoleInstructor)
	admin := env.seedUser(t, "admin@example.com", types.RoleAdmin)
	course := env.seedCourse(t, instructor, types.CoursePublished)

	created, err := env.announcing.Create(ctx, instructor, AnnouncementCreate{
		Title:    "Week 1",
		Body:     "Read chapters 1-3",
		CourseID: &course.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "Week 1 (updated)"
	if _, err := env.announcing.Update(ctx, other, created.ID, AnnouncementUpdate{Title: &title}); !apierr.IsForbidden(err) {
		t.Fatalf("non-author update err = %v, want forbidden", err)
	}
	if _, err := env.announcing.Update(ctx, instructor, created.ID, AnnouncementUpdate{Title: &title}); err != nil {
		t.Fatalf("author update: %v", err)
	}
	if err := env.announcing.Delete(ctx, admin, created.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestAnnouncementCourseScopedCreation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	other := env.seedUser(t, "other@example.com", types.RoleInstructor)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)
	course := env.seedCourse(t, instructor, types.CoursePublished)

	_, err := env.announcing.Create(ctx, other, AnnouncementCreate{
		Title:    "Not mine",
		Body:     "x",
		CourseID: &course.ID,
	})
	if !apierr.IsForbidden(err) {
		t.Fatalf("non-owner course post err = %v, want forbidden", err)
	}

	_, err = env.announcing.Create(ctx, student, AnnouncementCreate{Title: "Hi", Body: "x"})
	if !apierr.IsForbidden(err) {
		t.Fatalf("student post err = %v, want forbidden", err)
	}

	_, err = env.announcing.Create(ctx, instructor, AnnouncementCreate{
		Title:    "Unknown course",
		Body:     "x",
		CourseID: strp("no-such-course"),
	})
	if !apierr.IsNotFound(err) {
		t.Fatalf("unknown course err = %v, want not found", err)
	}
}

func TestAnnouncementListFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	student := env.seedUser(t, "student@example.com", types.RoleStudent)
	course := env.seedCourse(t, instructor, types.CoursePublished)

	if _, err := env.announcing.Create(ctx, instructor, AnnouncementCreate{Title: "Global", Body: "x"}); err != nil {
		t.Fatalf("create global: %v", err)
	}
	if _, err := env.announcing.Create(ctx, instructor, AnnouncementCreate{Title: "Scoped", Body: "x", CourseID: &course.ID}); err != nil {
		t.Fatalf("create scoped: %v", err)
	}

	scoped, err := env.announcing.List(ctx, student, &course.ID)
	if err != nil {
		t.Fatalf("scoped list: %v", err)
	}
	if len(scoped) != 1 || scoped[0].Title != "Scoped" {
		t.Fatalf("scoped list = %d rows, want the course announcement only", len(scoped))
	}
	all, err := env.announcing.List(ctx, student, nil)
	if err != nil {
		t.Fatalf("full list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("full list = %d rows, want 2", len(all))
	}
}

func TestInstitutionAdminOnlyWrites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", types.RoleAdmin)
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)

	if _, err := env.institutions.Create(ctx, instructor, InstitutionCreate{Name: "Nope U"}); !apierr.IsForbidden(err) {
		t.Fatalf("instructor create err = %v, want forbidden", err)
	}

	created, err := env.institutions.Create(ctx, admin, InstitutionCreate{Name: "Example University"})
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}
	if created.CreatedBy == nil || *created.CreatedBy != admin.ID {
		t.Fatalf("created_by = %v, want admin", created.CreatedBy)
	}

	// reads are open to any authenticated user
	if _, err := env.institutions.Get(ctx, instructor, created.ID); err != nil {
		t.Fatalf("instructor get: %v", err)
	}
	if err := env.institutions.Delete(ctx, instructor, created.ID); !apierr.IsForbidden(err) {
		t.Fatalf("instructor delete err = %v, want forbidden", err)
	}
	if err := env.institutions.Delete(ctx, admin, created.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}
