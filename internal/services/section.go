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

type SectionCreate struct {
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
	Order    *int   `json:"order,omitempty"`
}

type SectionUpdate struct {
	Title *string `json:"title,omitempty"`
	Order *int    `json:"order,omitempty"`
}

type SectionService interface {
	ListByCourse(ctx context.Context, actor *types.User, courseID string) ([]*types.Section, error)
	Get(ctx context.Context, actor *types.User, id string) (*types.Section, error)
	Create(ctx context.Context, actor *types.User, req SectionCreate) (*types.Section, error)
	Update(ctx context.Context, actor *types.User, id string, req SectionUpdate) (*types.Section, error)
	Delete(ctx context.Context, actor *types.User, id string) error
}

type sectionService struct {
	db               *gorm.DB
	courseRepo       repos.CourseRepo
	sectionRepo      repos.SectionRepo
	subSectionRepo   repos.SubSectionRepo
	moduleRepo       repos.ModuleRepo
	attemptRepo      repos.QuizAttemptRepo
	coInstructorRepo repos.CoInstructorRepo
	enrollmentRepo   repos.EnrollmentRepo
	log              *logger.Logger
}

func NewSectionService(
	db *gorm.DB,
	courseRepo repos.CourseRepo,
	sectionRepo repos.SectionRepo,
	subSectionRepo repos.SubSectionRepo,
	moduleRepo repos.ModuleRepo,
	attemptRepo repos.QuizAttemptRepo,
	coInstructorRepo repos.CoInstructorRepo,
	enrollmentRepo repos.EnrollmentRepo,
	baseLog *logger.Logger,
) SectionService {
	return &sectionService{
		db:               db,
		courseRepo:       courseRepo,
		sectionRepo:      sectionRepo,
		subSectionRepo:   subSectionRepo,
		moduleRepo:       moduleRepo,
		attemptRepo:      attemptRepo,
		coInstructorRepo: coInstructorRepo,
		enrollmentRepo:   enrollmentRepo,
		log:              baseLog.With("service", "SectionService"),
	}
}

// courseFor resolves the owning course of a section id, 404-ing the missing
// link rather than reporting a permission problem.
func (s *sectionService) courseFor(ctx context.Context, tx *gorm.DB, sectionID string) (*types.Section, *types.Course, error) {
	section, err := s.sectionRepo.GetByID(ctx, tx, sectionID)
	if err != nil {
		return nil, nil, notFoundOr(err, "section")
	}
	course, err := s.courseRepo.GetByID(ctx, tx, section.CourseID)
	if err != nil {
		return nil, nil, notFoundOr(err, "course")
	}
	return section, course, nil
}

func (s *sectionService) ListByCourse(ctx context.Context, actor *types.User, courseID string) ([]*types.Section, error) {
	course, err := s.courseRepo.GetByID(ctx, nil, courseID)
	if err != nil {
		return nil, notFoundOr(err, "course")
	}
	snap, err := courseSnapshot(ctx, nil, actor, course, s.coInstructorRepo, s.enrollmentRepo)
	if err != nil {
		return nil, err
	}
	if d := policy.CanViewCourseContent(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	sections, err := s.sectionRepo.ListByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return sections, nil
}

func (s *sectionService) Get(ctx context.Context, actor *types.User, id string) (*types.Section, error) {
	section, course, err := s.courseFor(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	snap, err := courseSnapshot(ctx, nil, actor, course, s.coInstructorRepo, s.enrollmentRepo)
	if err != nil {
		return nil, err
	}
	if d := policy.CanViewCourseContent(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	return section, nil
}

func (s *sectionService) Create(ctx context.Context, actor *types.User, req SectionCreate) (*types.Section, error) {
	course, err := s.courseRepo.GetByID(ctx, nil, req.CourseID)
	if err != nil {
		return nil, notFoundOr(err, "course")
	}
	snap := policy.CourseSnapshot{ID: course.ID, OwnerID: course.InstructorID, Status: course.Status}
	if d := policy.CanManageCourseContent(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	section := &types.Section{CourseID: course.ID, Title: req.Title}
	if req.Order != nil {
		section.Order = *req.Order
	}
	if _, err := s.sectionRepo.Create(ctx, nil, section); err != nil {
		return nil, apierr.Internal(err)
	}
	return section, nil
}

func (s *sectionService) Update(ctx context.Context, actor *types.User, id string, req SectionUpdate) (*types.Section, error) {
	section, course, err := s.courseFor(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	snap := policy.CourseSnapshot{ID: course.ID, OwnerID: course.InstructorID, Status: course.Status}
	if d := policy.CanManageCourseContent(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	if req.Title != nil {
		section.Title = *req.Title
	}
	if req.Order != nil {
		section.Order = *req.Order
	}
	if err := s.sectionRepo.Update(ctx, nil, section); err != nil {
		return nil, apierr.Internal(err)
	}
	return section, nil
}

// Delete removes the section subtree: attempts of its modules, the modules,
// its sub-sections, then the section row.
func (s *sectionService) Delete(ctx context.Context, actor *types.User, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		section, course, err := s.courseFor(ctx, tx, id)
		if err != nil {
			return err
		}
		snap := policy.CourseSnapshot{ID: course.ID, OwnerID: course.InstructorID, Status: course.Status}
		if d := policy.CanManageCourseContent(actor, snap); !d.Allowed {
			return forbidden(d)
		}
		sectionIDs := []string{section.ID}
		moduleIDs, err := s.moduleRepo.ListIDsBySections(ctx, tx, sectionIDs)
		if err != nil {
			return apierr.Internal(err)
		}
		if err := s.attemptRepo.DeleteByModules(ctx, tx, moduleIDs); err != nil {
			return apierr.Internal(err)
		}
		if err := s.moduleRepo.DeleteBySections(ctx, tx, sectionIDs); err != nil {
			return apierr.Internal(err)
		}
		if err := s.subSectionRepo.DeleteBySections(ctx, tx, sectionIDs); err != nil {
			return apierr.Internal(err)
		}
		if err := s.sectionRepo.Delete(ctx, tx, section.ID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
}
