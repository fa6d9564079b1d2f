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

type SubSectionCreate struct {
	SectionID   string  `json:"section_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Objectives  *string `json:"objectives,omitempty"`
	Duration    *string `json:"duration,omitempty"`
	Order       *int    `json:"order,omitempty"`
}

type SubSectionUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Objectives  *string `json:"objectives,omitempty"`
	Duration    *string `json:"duration,omitempty"`
	Order       *int    `json:"order,omitempty"`
}

type SubSectionService interface {
	ListBySection(ctx context.Context, actor *types.User, sectionID string) ([]*types.SubSection, error)
	Get(ctx context.Context, actor *types.User, id string) (*types.SubSection, error)
	Create(ctx context.Context, actor *types.User, req SubSectionCreate) (*types.SubSection, error)
	Update(ctx context.Context, actor *types.User, id string, req SubSectionUpdate) (*types.SubSection, error)
	Delete(ctx context.Context, actor *types.User, id string) error
}

type subSectionService struct {
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

func NewSubSectionService(
	db *gorm.DB,
	courseRepo repos.CourseRepo,
	sectionRepo repos.SectionRepo,
	subSectionRepo repos.SubSectionRepo,
	moduleRepo repos.ModuleRepo,
	attemptRepo repos.QuizAttemptRepo,
	coInstructorRepo repos.CoInstructorRepo,
	enrollmentRepo repos.EnrollmentRepo,
	baseLog *logger.Logger,
) SubSectionService {
	return &subSectionService{
		db:               db,
		courseRepo:       courseRepo,
		sectionRepo:      sectionRepo,
		subSectionRepo:   subSectionRepo,
		moduleRepo:       moduleRepo,
		attemptRepo:      attemptRepo,
		coInstructorRepo: coInstructorRepo,
		enrollmentRepo:   enrollmentRepo,
		log:              baseLog.With("service", "SubSectionService"),
	}
}

func (s *subSectionService) courseFor(ctx context.Context, tx *gorm.DB, subSectionID string) (*types.SubSection, *types.Course, error) {
	subSection, err := s.subSectionRepo.GetByID(ctx, tx, subSectionID)
	if err != nil {
		return nil, nil, notFoundOr(err, "sub-section")
	}
	section, err := s.sectionRepo.GetByID(ctx, tx, subSection.SectionID)
	if err != nil {
		return nil, nil, notFoundOr(err, "section")
	}
	course, err := s.courseRepo.GetByID(ctx, tx, section.CourseID)
	if err != nil {
		return nil, nil, notFoundOr(err, "course")
	}
	return subSection, course, nil
}

func (s *subSectionService) ListBySection(ctx context.Context, actor *types.User, sectionID string) ([]*types.SubSection, error) {
	section, err := s.sectionRepo.GetByID(ctx, nil, sectionID)
	if err != nil {
		return nil, notFoundOr(err, "section")
	}
	course, err := s.courseRepo.GetByID(ctx, nil, section.CourseID)
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
	subSections, err := s.subSectionRepo.ListBySection(ctx, nil, sectionID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return subSections, nil
}

func (s *subSectionService) Get(ctx context.Context, actor *types.User, id string) (*types.SubSection, error) {
	subSection, course, err := s.courseFor(ctx, nil, id)
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
	return subSection, nil
}

func (s *subSectionService) Create(ctx context.Context, actor *types.User, req SubSectionCreate) (*types.SubSection, error) {
	section, err := s.sectionRepo.GetByID(ctx, nil, req.SectionID)
	if err != nil {
		return nil, notFoundOr(err, "section")
	}
	course, err := s.courseRepo.GetByID(ctx, nil, section.CourseID)
	if err != nil {
		return nil, notFoundOr(err, "course")
	}
	snap := policy.CourseSnapshot{ID: course.ID, OwnerID: course.InstructorID, Status: course.Status}
	if d := policy.CanManageCourseContent(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	subSection := &types.SubSection{
		SectionID:   section.ID,
		Title:       req.Title,
		Description: req.Description,
		Objectives:  req.Objectives,
		Duration:    req.Duration,
	}
	if req.Order != nil {
		subSection.Order = *req.Order
	}
	if _, err := s.subSectionRepo.Create(ctx, nil, subSection); err != nil {
		return nil, apierr.Internal(err)
	}
	return subSection, nil
}

func (s *subSectionService) Update(ctx context.Context, actor *types.User, id string, req SubSectionUpdate) (*types.SubSection, error) {
	subSection, course, err := s.courseFor(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	snap := policy.CourseSnapshot{ID: course.ID, OwnerID: course.InstructorID, Status: course.Status}
	if d := policy.CanManageCourseContent(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	if req.Title != nil {
		subSection.Title = *req.Title
	}
	if req.Description != nil {
		subSection.Description = req.Description
	}
	if req.Objectives != nil {
		subSection.Objectives = req.Objectives
	}
	if req.Duration != nil {
		subSection.Duration = req.Duration
	}
	if req.Order != nil {
		subSection.Order = *req.Order
	}
	if err := s.subSectionRepo.Update(ctx, nil, subSection); err != nil {
		return nil, apierr.Internal(err)
	}
	return subSection, nil
}

// Delete removes the sub-section and its modules (with their attempts).
func (s *subSectionService) Delete(ctx context.Context, actor *types.User, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subSection, course, err := s.courseFor(ctx, tx, id)
		if err != nil {
			return err
		}
		snap := policy.CourseSnapshot{ID: course.ID, OwnerID: course.InstructorID, Status: course.Status}
		if d := policy.CanManageCourseContent(actor, snap); !d.Allowed {
			return forbidden(d)
		}
		modules, err := s.moduleRepo.ListBySubSection(ctx, tx, subSection.ID)
		if err != nil {
			return apierr.Internal(err)
		}
		moduleIDs := make([]string, 0, len(modules))
		for _, m := range modules {
			moduleIDs = append(moduleIDs, m.ID)
		}
		if err := s.attemptRepo.DeleteByModules(ctx, tx, moduleIDs); err != nil {
			return apierr.Internal(err)
		}
		if err := s.moduleRepo.DeleteBySubSections(ctx, tx, []string{subSection.ID}); err != nil {
			return apierr.Internal(err)
		}
		if err := s.subSectionRepo.Delete(ctx, tx, subSection.ID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
}
