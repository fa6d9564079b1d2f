package services

import (
	"context"
	"testing"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/types"
)

func TestInvitationPendingDedupe(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	course := env.seedCourse(t, instructor, types.CoursePublished)

	first, err := env.invites.Create(ctx, instructor, InvitationCreate{
		CourseID:     course.ID,
		InviteeEmail: "helper@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := env.invites.Create(ctx, instructor, InvitationCreate{
		CourseID:     course.ID,
		InviteeEmail: "helper@example.com",
	})
	if err != nil {
		t.Fatalf("repeat create: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("duplicate invitation created: %q vs %q", second.ID, first.ID)
	}
}

func TestInvitationAcceptanceCreatesCoInstructorEdge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	helper := env.seedUser(t, "helper@example.com", types.RoleInstructor)
	course := env.seedCourse(t, instructor, types.CoursePublished)

	role := "assistant"
	invitation, err := env.invites.Create(ctx, instructor, InvitationCreate{
		CourseID:     course.ID,
		InviteeEmail: helper.Email,
		Role:         &role,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	accepted := types.InvitationAccepted
	updated, err := env.invites.Update(ctx, helper, invitation.ID, InvitationUpdate{Status: &accepted})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if updated.Status != types.InvitationAccepted {
		t.Fatalf("status = %q, want accepted", updated.Status)
	}

	edge, err := env.coInstructorRepo.GetByCourseAndUser(ctx, nil, course.ID, helper.ID)
	if err != nil {
		t.Fatalf("load edge: %v", err)
	}
	if edge.Status != types.EdgeActive {
		t.Fatalf("edge status = %q, want active", edge.Status)
	}
	if edge.AddedBy == nil || *edge.AddedBy != instructor.ID {
		t.Fatalf("added_by = %v, want inviter", edge.AddedBy)
	}
	if edge.Role == nil || *edge.Role != role {
		t.Fatalf("edge role = %v, want %q", edge.Role, role)
	}
}

func TestInvitationAcceptanceReactivatesEdge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	helper := env.seedUser(t, "helper@example.com", types.RoleInstructor)
	course := env.seedCourse(t, instructor, types.CoursePublished)

	if _, err := env.coInstructorRepo.Create(ctx, nil, &types.CourseCoInstructor{
		CourseID: course.ID,
		UserID:   helper.ID,
		Status:   types.EdgeInactive,
	}); err != nil {
		t.Fatalf("seed edge: %v", err)
	}

	invitation, err := env.invites.Create(ctx, instructor, InvitationCreate{
		CourseID:     course.ID,
		InviteeEmail: helper.Email,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	accepted := types.InvitationAccepted
	if _, err := env.invites.Update(ctx, helper, invitation.ID, InvitationUpdate{Status: &accepted}); err != nil {
		t.Fatalf("accept: %v", err)
	}

	edge, err := env.coInstructorRepo.GetByCourseAndUser(ctx, nil, course.ID, helper.ID)
	if err != nil {
		t.Fatalf("load edge: %v", err)
	}
	if edge.Status != types.EdgeActive {
		t.Fatalf("edge status = %q, want reactivated", edge.Status)
	}
}

func TestInvitationListStatusFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	helper := env.seedUser(t, "helper@example.com", types.RoleInstructor)
	course := env.seedCourse(t, instructor, types.CoursePublished)

	first, err := env.invites.Create(ctx, instructor, InvitationCreate{
		CourseID:     course.ID,
		InviteeEmail: helper.Email,
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := env.invites.Create(ctx, instructor, InvitationCreate{
		CourseID:     course.ID,
		InviteeEmail: "pending@example.com",
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	accepted := types.InvitationAccepted
	if _, err := env.invites.Update(ctx, helper, first.ID, InvitationUpdate{Status: &accepted}); err != nil {
		t.Fatalf("accept: %v", err)
	}

	all, err := env.invites.List(ctx, instructor, &course.ID, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("%d invitations, want 2", len(all))
	}

	pending := types.InvitationPending
	open, err := env.invites.List(ctx, instructor, &course.ID, &pending)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(open) != 1 || open[0].ID != second.ID {
		t.Fatalf("pending filter returned %d rows, want only the open invitation", len(open))
	}

	done, err := env.invites.List(ctx, instructor, &course.ID, &accepted)
	if err != nil {
		t.Fatalf("list accepted: %v", err)
	}
	if len(done) != 1 || done[0].ID != first.ID {
		t.Fatalf("accepted filter returned %d rows, want only the accepted invitation", len(done))
	}
}

func TestStrangerCannotAcceptInvitation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	stranger := env.seedUser(t, "stranger@example.com", types.RoleInstructor)
	course := env.seedCourse(t, instructor, types.CoursePublished)

	invitation, err := env.invites.Create(ctx, instructor, InvitationCreate{
		CourseID:     course.ID,
		InviteeEmail: "helper@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	accepted := types.InvitationAccepted
	_, err = env.invites.Update(ctx, stranger, invitation.ID, InvitationUpdate{Status: &accepted})
	if !apierr.IsForbidden(err) {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestNonOwnerCannotInvite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.seedUser(t, "teach@example.com", types.RoleInstructor)
	other := env.seedUser(t, "other@example.com", types.RoleInstructor)
	course := env.seedCourse(t, instructor, types.CoursePublished)

	_, err := env.invites.Create(ctx, other, InvitationCreate{
		CourseID:     course.ID,
		InviteeEmail: "helper@example.com",
	})
	if !apierr.IsForbidden(err) {
		t.Fatalf("err = %v, want forbidden", err)
	}
}
