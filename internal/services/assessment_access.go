package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/policy"
	"github.com/openlms/backend/internal/repos"
	"github.com/openlms/backend/internal/types"
)

type AccessGrant struct {
	StudentID    string     `json:"student_id"`
	AssessmentID string     `json:"assessment_id"`
	MentorID     *string    `json:"mentor_id,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

type AccessBulkGrant struct {
	StudentIDs    []string   `json:"student_ids"`
	AssessmentIDs []string   `json:"assessment_ids"`
	MentorID      *string    `json:"mentor_id,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

type AccessBulkGrantResult struct {
	Status  string `json:"status"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
}

type AccessUpdate struct {
	Status    *string    `json:"status,omitempty"`
	MentorID  *string    `json:"mentor_id,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type AssessmentAccessService interface {
	List(ctx context.Context, actor *types.User) ([]*types.AssessmentAccess, error)
	Grant(ctx context.Context, actor *types.User, req AccessGrant) (*types.AssessmentAccess, error)
	BulkGrant(ctx context.Context, actor *types.User, req AccessBulkGrant) (*AccessBulkGrantResult, error)
	Update(ctx context.Context, actor *types.User, id string, req AccessUpdate) (*types.AssessmentAccess, error)
	Revoke(ctx context.Context, actor *types.User, id string) error
}

type assessmentAccessService struct {
	db             *gorm.DB
	userRepo       repos.UserRepo
	assessmentRepo repos.AssessmentRepo
	accessRepo     repos.AssessmentAccessRepo
	log            *logger.Logger
}

func NewAssessmentAccessService(
	db *gorm.DB,
	userRepo repos.UserRepo,
	assessmentRepo repos.AssessmentRepo,
	accessRepo repos.AssessmentAccessRepo,
	baseLog *logger.Logger,
) AssessmentAccessService {
	return &assessmentAccessService{
		db:             db,
		userRepo:       userRepo,
		assessmentRepo: assessmentRepo,
		accessRepo:     accessRepo,
		log:            baseLog.With("service", "AssessmentAccessService"),
	}
}

func (s *assessmentAccessService) List(ctx context.Context, actor *types.User) ([]*types.AssessmentAccess, error) {
	var (
		rows []*types.AssessmentAccess
		err  error
	)
	switch {
	case policy.IsAdmin(actor) || actor.Role == types.RoleInstructor:
		rows, err = s.accessRepo.List(ctx, nil)
	case actor.Role == types.RolePartnerInstructor:
		rows, err = s.accessRepo.ListByMentorOrGranter(ctx, nil, actor.ID)
	default:
		rows, err = s.accessRepo.ListByStudent(ctx, nil, actor.ID)
	}
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return rows, nil
}

// effectiveMentor pins the mentor attribution to the acting partner,
// whatever the payload claims.
func effectiveMentor(actor *types.User, requested *string) *string {
	if actor.Role == types.RolePartnerInstructor {
		id := actor.ID
		return &id
	}
	return requested
}

func (s *assessmentAccessService) Grant(ctx context.Context, actor *types.User, req AccessGrant) (*types.AssessmentAccess, error) {
	if d := policy.CanGrantAssessmentAccess(actor); !d.Allowed {
		return nil, forbidden(d)
	}
	var result *types.AssessmentAccess
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		student, err := s.userRepo.GetByID(ctx, tx, req.StudentID)
		if err != nil {
			return notFoundOr(err, "student")
		}
		assessment, err := s.assessmentRepo.GetByID(ctx, tx, req.AssessmentID)
		if err != nil {
			return notFoundOr(err, "assessment")
		}
		if !types.IsLearnerRole(student.Role) {
			return apierr.InvalidState("access can only be granted to students or guests")
		}
		granted, err := s.upsertGrant(ctx, tx, actor, student.ID, assessment, req.MentorID, req.ExpiresAt)
		if err != nil {
			return err
		}
		result = granted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BulkGrant applies the cross product of students and assessments. Missing
// assessments are skipped; the result reports how many rows were created
// versus reactivated.
func (s *assessmentAccessService) BulkGrant(ctx context.Context, actor *types.User, req AccessBulkGrant) (*AccessBulkGrantResult, error) {
	if d := policy.CanGrantAssessmentAccess(actor); !d.Allowed {
		return nil, forbidden(d)
	}
	if len(req.StudentIDs) == 0 || len(req.AssessmentIDs) == 0 {
		return nil, apierr.InvalidState("student_ids and assessment_ids must be non-empty")
	}
	result := &AccessBulkGrantResult{Status: "ok"}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, studentID := range req.StudentIDs {
			student, err := s.userRepo.GetByID(ctx, tx, studentID)
			if err != nil {
				return notFoundOr(err, "student")
			}
			if !types.IsLearnerRole(student.Role) {
				return apierr.InvalidState("access can only be granted to students or guests")
			}
			for _, assessmentID := range req.AssessmentIDs {
				assessment, err := s.assessmentRepo.GetByID(ctx, tx, assessmentID)
				if err != nil {
					if repos.IsNotFound(err) {
						continue
					}
					return apierr.Internal(err)
				}
				existing, err := s.accessRepo.GetByStudentAndAssessment(ctx, tx, studentID, assessmentID)
				if err == nil {
					if err := s.reactivate(ctx, tx, actor, existing, req.MentorID, req.ExpiresAt); err != nil {
						return err
					}
					result.Updated++
					continue
				}
				if !repos.IsNotFound(err) {
					return apierr.Internal(err)
				}
				if err := s.createGrant(ctx, tx, actor, studentID, assessment, req.MentorID, req.ExpiresAt); err != nil {
					return err
				}
				result.Created++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Bulk access grant", "created", result.Created, "updated", result.Updated, "granted_by", actor.ID)
	return result, nil
}

func (s *assessmentAccessService) upsertGrant(ctx context.Context, tx *gorm.DB, actor *types.User, studentID string, assessment *types.Assessment, mentorID *string, expiresAt *time.Time) (*types.AssessmentAccess, error) {
	existing, err := s.accessRepo.GetByStudentAndAssessment(ctx, tx, studentID, assessment.ID)
	if err == nil {
		if err := s.reactivate(ctx, tx, actor, existing, mentorID, expiresAt); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !repos.IsNotFound(err) {
		return nil, apierr.Internal(err)
	}
	access, err := s.newGrant(actor, studentID, assessment, mentorID, expiresAt)
	if err != nil {
		return nil, err
	}
	if _, err := s.accessRepo.Create(ctx, tx, access); err != nil {
		if repos.IsUniqueViolation(err) {
			return nil, apierr.Conflict("access grant already exists")
		}
		return nil, apierr.Internal(err)
	}
	return access, nil
}

func (s *assessmentAccessService) createGrant(ctx context.Context, tx *gorm.DB, actor *types.User, studentID string, assessment *types.Assessment, mentorID *string, expiresAt *time.Time) error {
	access, err := s.newGrant(actor, studentID, assessment, mentorID, expiresAt)
	if err != nil {
		return err
	}
	if _, err := s.accessRepo.Create(ctx, tx, access); err != nil {
		if repos.IsUniqueViolation(err) {
			return apierr.Conflict("access grant already exists")
		}
		return apierr.Internal(err)
	}
	return nil
}

func (s *assessmentAccessService) newGrant(actor *types.User, studentID string, assessment *types.Assessment, mentorID *string, expiresAt *time.Time) (*types.AssessmentAccess, error) {
	now := time.Now()
	return &types.AssessmentAccess{
		StudentID:       studentID,
		AssessmentID:    assessment.ID,
		MentorID:        effectiveMentor(actor, mentorID),
		GrantedBy:       strp(actor.ID),
		GrantedByName:   actor.Name,
		AssessmentTitle: strp(assessment.Title),
		Status:          types.EdgeActive,
		GrantedAt:       &now,
		ExpiresAt:       expiresAt,
	}, nil
}

func (s *assessmentAccessService) reactivate(ctx context.Context, tx *gorm.DB, actor *types.User, access *types.AssessmentAccess, mentorID *string, expiresAt *time.Time) error {
	access.Status = types.EdgeActive
	access.MentorID = effectiveMentor(actor, mentorID)
	if expiresAt != nil {
		access.ExpiresAt = expiresAt
	}
	now := time.Now()
	access.GrantedAt = &now
	access.GrantedBy = strp(actor.ID)
	access.GrantedByName = actor.Name
	if err := s.accessRepo.Update(ctx, tx, access); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

func (s *assessmentAccessService) Update(ctx context.Context, actor *types.User, id string, req AccessUpdate) (*types.AssessmentAccess, error) {
	access, err := s.accessRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "access grant")
	}
	snap := policy.AccessSnapshot{MentorID: access.MentorID, GrantedBy: access.GrantedBy}
	if d := policy.CanModifyAssessmentAccess(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	if req.Status != nil {
		access.Status = *req.Status
	}
	if req.MentorID != nil {
		access.MentorID = effectiveMentor(actor, req.MentorID)
	}
	if req.ExpiresAt != nil {
		access.ExpiresAt = req.ExpiresAt
	}
	if err := s.accessRepo.Update(ctx, nil, access); err != nil {
		return nil, apierr.Internal(err)
	}
	return access, nil
}

func (s *assessmentAccessService) Revoke(ctx context.Context, actor *types.User, id string) error {
	access, err := s.accessRepo.GetByID(ctx, nil, id)
	if err != nil {
		return notFoundOr(err, "access grant")
	}
	snap := policy.AccessSnapshot{MentorID: access.MentorID, GrantedBy: access.GrantedBy}
	if d := policy.CanModifyAssessmentAccess(actor, snap); !d.Allowed {
		return forbidden(d)
	}
	if err := s.accessRepo.Delete(ctx, nil, id); err != nil {
		return apierr.Internal(err)
	}
	return nil
}
