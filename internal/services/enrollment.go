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

type EnrollmentService interface {
	List(ctx context.Context, actor *types.User, userID *string) ([]*types.Enrollment, error)
	Assign(ctx context.Context, actor *types.User, courseID, userID string) (*types.Enrollment, error)
	SelfEnroll(ctx context.Context, actor *types.User, courseID string) (*types.Enrollment, error)
	Unenroll(ctx context.Context, actor *types.User, courseID string) error
}

type enrollmentService struct {
	db             *gorm.DB
	courseRepo     repos.CourseRepo
	userRepo       repos.UserRepo
	enrollmentRepo repos.EnrollmentRepo
	log            *logger.Logger
}

func NewEnrollmentService(
	db *gorm.DB,
	courseRepo repos.CourseRepo,
	userRepo repos.UserRepo,
	enrollmentRepo repos.EnrollmentRepo,
	baseLog *logger.Logger,
) EnrollmentService {
	return &enrollmentService{
		db:             db,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		enrollmentRepo: enrollmentRepo,
		log:            baseLog.With("service", "EnrollmentService"),
	}
}

func (s *enrollmentService) List(ctx context.Context, actor *types.User, userID *string) ([]*types.Enrollment, error) {
	if userID != nil {
		if d := policy.CanListEnrollmentsFor(actor, *userID); !d.Allowed {
			return nil, forbidden(d)
		}
		rows, err := s.enrollmentRepo.ListByUser(ctx, nil, *userID)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		return rows, nil
	}
	var (
		rows []*types.Enrollment
		err  error
	)
	switch {
	case policy.IsAdmin(actor):
		rows, err = s.enrollmentRepo.List(ctx, nil)
	case actor.Role == types.RoleInstructor:
		rows, err = s.enrollmentRepo.ListByCourseOwner(ctx, nil, actor.ID)
	default:
		rows, err = s.enrollmentRepo.ListByUser(ctx, nil, actor.ID)
	}
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return rows, nil
}

// Assign places any user on a course roster. Idempotent: re-assigning an
// existing pair returns the existing row.
func (s *enrollmentService) Assign(ctx context.Context, actor *types.User, courseID, userID string) (*types.Enrollment, error) {
	if d := policy.CanAssignEnrollment(actor); !d.Allowed {
		return nil, forbidden(d)
	}
	if _, err := s.courseRepo.GetByID(ctx, nil, courseID); err != nil {
		return nil, notFoundOr(err, "course")
	}
	if _, err := s.userRepo.GetByID(ctx, nil, userID); err != nil {
		return nil, notFoundOr(err, "user")
	}
	return s.enroll(ctx, courseID, userID)
}

func (s *enrollmentService) SelfEnroll(ctx context.Context, actor *types.User, courseID string) (*types.Enrollment, error) {
	if _, err := s.courseRepo.GetByID(ctx, nil, courseID); err != nil {
		return nil, notFoundOr(err, "course")
	}
	if d := policy.CanSelfEnroll(actor, courseID); !d.Allowed {
		return nil, forbidden(d)
	}
	return s.enroll(ctx, courseID, actor.ID)
}

func (s *enrollmentService) enroll(ctx context.Context, courseID, userID string) (*types.Enrollment, error) {
	existing, err := s.enrollmentRepo.GetByCourseAndUser(ctx, nil, courseID, userID)
	if err == nil {
		return existing, nil
	}
	if !repos.IsNotFound(err) {
		return nil, apierr.Internal(err)
	}
	row := &types.Enrollment{CourseID: courseID, UserID: userID}
	if _, err := s.enrollmentRepo.Create(ctx, nil, row); err != nil {
		// concurrent enroll lost the race; the winning row is the answer
		if repos.IsUniqueViolation(err) {
			return s.enrollmentRepo.GetByCourseAndUser(ctx, nil, courseID, userID)
		}
		return nil, apierr.Internal(err)
	}
	s.log.Info("Enrollment created", "course_id", courseID, "user_id", userID)
	return row, nil
}

// Unenroll removes the actor's own enrollment. Idempotent.
func (s *enrollmentService) Unenroll(ctx context.Context, actor *types.User, courseID string) error {
	if _, err := s.courseRepo.GetByID(ctx, nil, courseID); err != nil {
		return notFoundOr(err, "course")
	}
	if err := s.enrollmentRepo.DeleteByCourseAndUser(ctx, nil, courseID, actor.ID); err != nil {
		return apierr.Internal(err)
	}
	return nil
}
