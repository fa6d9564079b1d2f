package services

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/policy"
	"github.com/openlms/backend/internal/repos"
	"github.com/openlms/backend/internal/types"
)

type ProgressUpsert struct {
	UserID            *string    `json:"user_id,omitempty"`
	CourseID          string     `json:"course_id"`
	CompletedModules  *[]string  `json:"completed_modules,omitempty"`
	CompletedSections *[]string  `json:"completed_sections,omitempty"`
	LastAccessed      *time.Time `json:"last_accessed,omitempty"`
}

type ProgressUpdate struct {
	CompletedModules  *[]string  `json:"completed_modules,omitempty"`
	CompletedSections *[]string  `json:"completed_sections,omitempty"`
	LastAccessed      *time.Time `json:"last_accessed,omitempty"`
}

type CourseProgressService interface {
	List(ctx context.Context, actor *types.User, userID *string) ([]*types.CourseProgress, error)
	Get(ctx context.Context, actor *types.User, id string) (*types.CourseProgress, error)
	Upsert(ctx context.Context, actor *types.User, req ProgressUpsert) (*types.CourseProgress, error)
	Update(ctx context.Context, actor *types.User, id string, req ProgressUpdate) (*types.CourseProgress, error)
	Delete(ctx context.Context, actor *types.User, id string) error
}

type courseProgressService struct {
	db             *gorm.DB
	courseRepo     repos.CourseRepo
	sectionRepo    repos.SectionRepo
	moduleRepo     repos.ModuleRepo
	enrollmentRepo repos.EnrollmentRepo
	progressRepo   repos.CourseProgressRepo
	log            *logger.Logger
}

func NewCourseProgressService(
	db *gorm.DB,
	courseRepo repos.CourseRepo,
	sectionRepo repos.SectionRepo,
	moduleRepo repos.ModuleRepo,
	enrollmentRepo repos.EnrollmentRepo,
	progressRepo repos.CourseProgressRepo,
	baseLog *logger.Logger,
) CourseProgressService {
	return &courseProgressService{
		db:             db,
		courseRepo:     courseRepo,
		sectionRepo:    sectionRepo,
		moduleRepo:     moduleRepo,
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
		log:            baseLog.With("service", "CourseProgressService"),
	}
}

func (s *courseProgressService) List(ctx context.Context, actor *types.User, userID *string) ([]*types.CourseProgress, error) {
	if userID != nil {
		if d := policy.CanAccessProgress(actor, *userID); !d.Allowed {
			return nil, forbidden(d)
		}
		rows, err := s.progressRepo.ListByUser(ctx, nil, *userID)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		return rows, nil
	}
	var (
		rows []*types.CourseProgress
		err  error
	)
	switch {
	case policy.IsAdmin(actor):
		rows, err = s.progressRepo.List(ctx, nil)
	case types.IsInstructorRole(actor.Role):
		rows, err = s.progressRepo.ListByCourseOwner(ctx, nil, actor.ID)
	default:
		rows, err = s.progressRepo.ListByUser(ctx, nil, actor.ID)
	}
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return rows, nil
}

func (s *courseProgressService) Get(ctx context.Context, actor *types.User, id string) (*types.CourseProgress, error) {
	progress, err := s.progressRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "progress record")
	}
	if d := policy.CanAccessProgress(actor, progress.UserID); !d.Allowed {
		return nil, forbidden(d)
	}
	return progress, nil
}

// Upsert records progress for (user, course), creating the row and the
// backing enrollment on first touch. Learners may only write their own rows.
func (s *courseProgressService) Upsert(ctx context.Context, actor *types.User, req ProgressUpsert) (*types.CourseProgress, error) {
	userID := actor.ID
	if req.UserID != nil {
		userID = *req.UserID
	}
	if userID != actor.ID && !policy.IsAdmin(actor) && !types.IsInstructorRole(actor.Role) {
		return nil, apierr.Forbidden("cannot record progress for another user")
	}
	var result *types.CourseProgress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := s.courseRepo.GetByID(ctx, tx, req.CourseID)
		if err != nil {
			return notFoundOr(err, "course")
		}
		enrolled, err := s.enrollmentRepo.Exists(ctx, tx, course.ID, userID)
		if err != nil {
			return apierr.Internal(err)
		}
		if !enrolled {
			if _, err := s.enrollmentRepo.Create(ctx, tx, &types.Enrollment{CourseID: course.ID, UserID: userID}); err != nil {
				if !repos.IsUniqueViolation(err) {
					return apierr.Internal(err)
				}
			}
		}
		progress, err := s.progressRepo.GetByUserAndCourse(ctx, tx, userID, course.ID)
		if err != nil {
			if !repos.IsNotFound(err) {
				return apierr.Internal(err)
			}
			now := time.Now()
			progress = &types.CourseProgress{
				UserID:     userID,
				CourseID:   course.ID,
				EnrolledAt: &now,
			}
			if _, err := s.progressRepo.Create(ctx, tx, progress); err != nil {
				return apierr.Internal(err)
			}
		}
		if err := s.apply(ctx, tx, progress, req.CompletedModules, req.CompletedSections, req.LastAccessed); err != nil {
			return err
		}
		result = progress
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *courseProgressService) Update(ctx context.Context, actor *types.User, id string, req ProgressUpdate) (*types.CourseProgress, error) {
	progress, err := s.progressRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "progress record")
	}
	if progress.UserID != actor.ID && !policy.IsAdmin(actor) && !types.IsInstructorRole(actor.Role) {
		return nil, apierr.Forbidden("cannot update another user's progress")
	}
	if err := s.apply(ctx, nil, progress, req.CompletedModules, req.CompletedSections, req.LastAccessed); err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *courseProgressService) Delete(ctx context.Context, actor *types.User, id string) error {
	if !policy.IsAdmin(actor) {
		return apierr.Forbidden("only admins can delete progress records")
	}
	if _, err := s.progressRepo.GetByID(ctx, nil, id); err != nil {
		return notFoundOr(err, "progress record")
	}
	if err := s.progressRepo.Delete(ctx, nil, id); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

// apply merges the requested completion lists, recomputes the derived
// percentages from the course's current structure, and saves the row.
func (s *courseProgressService) apply(ctx context.Context, tx *gorm.DB, progress *types.CourseProgress, modules, sections *[]string, lastAccessed *time.Time) error {
	if modules != nil {
		progress.CompletedModules = datatypes.NewJSONSlice(uniqueStrings(*modules))
	}
	if sections != nil {
		progress.CompletedSections = datatypes.NewJSONSlice(uniqueStrings(*sections))
	}
	if lastAccessed != nil {
		progress.LastAccessed = lastAccessed
	} else {
		now := time.Now()
		progress.LastAccessed = &now
	}
	progress.CompletedModuleCount = len(progress.CompletedModules)
	progress.CompletedSectionCount = len(progress.CompletedSections)

	sectionIDs, err := s.sectionRepo.ListIDsByCourse(ctx, tx, progress.CourseID)
	if err != nil {
		return apierr.Internal(err)
	}
	moduleIDs, err := s.moduleRepo.ListIDsBySections(ctx, tx, sectionIDs)
	if err != nil {
		return apierr.Internal(err)
	}
	progress.ModuleProgressPercentage = percentage(progress.CompletedModuleCount, len(moduleIDs))
	progress.SectionProgressPercentage = percentage(progress.CompletedSectionCount, len(sectionIDs))

	if err := s.progressRepo.Update(ctx, tx, progress); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

func percentage(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(done) / float64(total) * 100
	if p > 100 {
		return 100
	}
	return p
}
