package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/policy"
	"github.com/openlms/backend/internal/repos"
	"github.com/openlms/backend/internal/types"
)

type InvitationCreate struct {
	CourseID     string  `json:"course_id"`
	InviteeEmail string  `json:"invitee_email"`
	InviteeID    *string `json:"invitee_id,omitempty"`
	Role         *string `json:"role,omitempty"`
}

type InvitationUpdate struct {
	InviteeID *string `json:"invitee_id,omitempty"`
	Role      *string `json:"role,omitempty"`
	Status    *string `json:"status,omitempty"`
}

type InvitationService interface {
	List(ctx context.Context, actor *types.User, courseID, status *string) ([]*types.Invitation, error)
	Create(ctx context.Context, actor *types.User, req InvitationCreate) (*types.Invitation, error)
	Update(ctx context.Context, actor *types.User, id string, req InvitationUpdate) (*types.Invitation, error)
	Delete(ctx context.Context, actor *types.User, id string) error
}

type invitationService struct {
	db               *gorm.DB
	courseRepo       repos.CourseRepo
	invitationRepo   repos.InvitationRepo
	coInstructorRepo repos.CoInstructorRepo
	enrollmentRepo   repos.EnrollmentRepo
	log              *logger.Logger
}

func NewInvitationService(
	db *gorm.DB,
	courseRepo repos.CourseRepo,
	invitationRepo repos.InvitationRepo,
	coInstructorRepo repos.CoInstructorRepo,
	enrollmentRepo repos.EnrollmentRepo,
	baseLog *logger.Logger,
) InvitationService {
	return &invitationService{
		db:               db,
		courseRepo:       courseRepo,
		invitationRepo:   invitationRepo,
		coInstructorRepo: coInstructorRepo,
		enrollmentRepo:   enrollmentRepo,
		log:              baseLog.With("service", "InvitationService"),
	}
}

func (s *invitationService) List(ctx context.Context, actor *types.User, courseID, status *string) ([]*types.Invitation, error) {
	if courseID != nil {
		course, err := s.courseRepo.GetByID(ctx, nil, *courseID)
		if err != nil {
			return nil, notFoundOr(err, "course")
		}
		snap, err := courseSnapshot(ctx, nil, actor, course, s.coInstructorRepo, s.enrollmentRepo)
		if err != nil {
			return nil, err
		}
		if d := policy.CanManageCourse(actor, snap); !d.Allowed {
			return nil, forbidden(d)
		}
		rows, err := s.invitationRepo.ListByCourse(ctx, nil, *courseID, status)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		return rows, nil
	}
	if policy.IsAdmin(actor) {
		rows, err := s.invitationRepo.List(ctx, nil, status)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		return rows, nil
	}
	rows, err := s.invitationRepo.ListForUser(ctx, nil, actor.ID, actor.Email, status)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return rows, nil
}

// Create invites a co-instructor onto a course. A pending invitation for the
// same (course, email) pair is returned as-is instead of duplicated.
func (s *invitationService) Create(ctx context.Context, actor *types.User, req InvitationCreate) (*types.Invitation, error) {
	if d := policy.CanCreateInvitation(actor); !d.Allowed {
		return nil, forbidden(d)
	}
	course, err := s.courseRepo.GetByID(ctx, nil, req.CourseID)
	if err != nil {
		return nil, notFoundOr(err, "course")
	}
	snap, err := courseSnapshot(ctx, nil, actor, course, s.coInstructorRepo, s.enrollmentRepo)
	if err != nil {
		return nil, err
	}
	if d := policy.CanManageCourse(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	existing, err := s.invitationRepo.GetPendingByCourseAndEmail(ctx, nil, req.CourseID, req.InviteeEmail)
	if err == nil {
		return existing, nil
	}
	if !repos.IsNotFound(err) {
		return nil, apierr.Internal(err)
	}
	invitation := &types.Invitation{
		CourseID:     req.CourseID,
		InviterID:    actor.ID,
		InviteeID:    req.InviteeID,
		InviteeEmail: req.InviteeEmail,
		Role:         req.Role,
		Status:       types.InvitationPending,
	}
	if _, err := s.invitationRepo.Create(ctx, nil, invitation); err != nil {
		return nil, apierr.Internal(err)
	}
	s.log.Info("Invitation created", "invitation_id", invitation.ID, "course_id", req.CourseID)
	return invitation, nil
}

// Update applies an invitation change; acceptance upserts the co-instructor
// edge in the same transaction.
func (s *invitationService) Update(ctx context.Context, actor *types.User, id string, req InvitationUpdate) (*types.Invitation, error) {
	var updated *types.Invitation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invitation, err := s.invitationRepo.GetByID(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "invitation")
		}
		snap := policy.InvitationSnapshot{
			InviterID:    invitation.InviterID,
			InviteeID:    invitation.InviteeID,
			InviteeEmail: invitation.InviteeEmail,
		}
		fields := policy.InvitationUpdateFields{
			InviteeID: req.InviteeID != nil,
			Role:      req.Role != nil,
			Status:    req.Status != nil,
		}
		if req.Status != nil {
			fields.NewStatus = *req.Status
		}
		if d := policy.CanUpdateInvitation(actor, snap, fields); !d.Allowed {
			return forbidden(d)
		}

		if req.InviteeID != nil {
			invitation.InviteeID = req.InviteeID
		}
		if req.Role != nil {
			invitation.Role = req.Role
		}
		if req.Status != nil {
			invitation.Status = *req.Status
		}
		if err := s.invitationRepo.Update(ctx, tx, invitation); err != nil {
			return apierr.Internal(err)
		}

		if req.Status != nil && *req.Status == types.InvitationAccepted {
			inviteeID := actor.ID
			if invitation.InviteeID != nil {
				inviteeID = *invitation.InviteeID
			}
			if err := s.upsertCoInstructor(ctx, tx, invitation, inviteeID); err != nil {
				return err
			}
		}
		updated = invitation
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *invitationService) upsertCoInstructor(ctx context.Context, tx *gorm.DB, invitation *types.Invitation, inviteeID string) error {
	edge, err := s.coInstructorRepo.GetByCourseAndUser(ctx, tx, invitation.CourseID, inviteeID)
	if err == nil {
		edge.Status = types.EdgeActive
		edge.Role = invitation.Role
		edge.AddedBy = strp(invitation.InviterID)
		if err := s.coInstructorRepo.Update(ctx, tx, edge); err != nil {
			return apierr.Internal(err)
		}
		return nil
	}
	if !repos.IsNotFound(err) {
		return apierr.Internal(err)
	}
	edge = &types.CourseCoInstructor{
		CourseID: invitation.CourseID,
		UserID:   inviteeID,
		Role:     invitation.Role,
		Status:   types.EdgeActive,
		AddedBy:  strp(invitation.InviterID),
	}
	if _, err := s.coInstructorRepo.Create(ctx, tx, edge); err != nil {
		if repos.IsUniqueViolation(err) {
			return apierr.Conflict("co-instructor edge already exists")
		}
		return apierr.Internal(err)
	}
	return nil
}

func (s *invitationService) Delete(ctx context.Context, actor *types.User, id string) error {
	invitation, err := s.invitationRepo.GetByID(ctx, nil, id)
	if err != nil {
		return notFoundOr(err, "invitation")
	}
	snap := policy.InvitationSnapshot{
		InviterID:    invitation.InviterID,
		InviteeID:    invitation.InviteeID,
		InviteeEmail: invitation.InviteeEmail,
	}
	if d := policy.CanDeleteInvitation(actor, snap); !d.Allowed {
		return forbidden(d)
	}
	if err := s.invitationRepo.Delete(ctx, nil, id); err != nil {
		return apierr.Internal(err)
	}
	return nil
}
