package services

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/policy"
	"github.com/openlms/backend/internal/quiz"
	"github.com/openlms/backend/internal/repos"
	"github.com/openlms/backend/internal/types"
)

type ModuleCreate struct {
	SectionID        string               `json:"section_id"`
	SubSectionID     *string              `json:"sub_section_id,omitempty"`
	Title            *string              `json:"title,omitempty"`
	Type             string               `json:"type"`
	Content          *string              `json:"content,omitempty"`
	QuizData         []types.QuizQuestion `json:"quiz_data,omitempty"`
	TimeLimitSeconds *int                 `json:"time_limit_seconds,omitempty"`
	Order            *int                 `json:"order,omitempty"`
}

type ModuleUpdate struct {
	SubSectionID     *string               `json:"sub_section_id,omitempty"`
	Title            *string               `json:"title,omitempty"`
	Type             *string               `json:"type,omitempty"`
	Content          *string               `json:"content,omitempty"`
	QuizData         *[]types.QuizQuestion `json:"quiz_data,omitempty"`
	TimeLimitSeconds *int                  `json:"time_limit_seconds,omitempty"`
	Order            *int                  `json:"order,omitempty"`
}

type ModuleService interface {
	ListBySection(ctx context.Context, actor *types.User, sectionID string) ([]*types.Module, error)
	ListBySubSection(ctx context.Context, actor *types.User, subSectionID string) ([]*types.Module, error)
	Get(ctx context.Context, actor *types.User, id string) (*types.Module, error)
	Create(ctx context.Context, actor *types.User, req ModuleCreate) (*types.Module, error)
	Update(ctx context.Context, actor *types.User, id string, req ModuleUpdate) (*types.Module, error)
	Delete(ctx context.Context, actor *types.User, id string) error
}

type moduleService struct {
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

func NewModuleService(
	db *gorm.DB,
	courseRepo repos.CourseRepo,
	sectionRepo repos.SectionRepo,
	subSectionRepo repos.SubSectionRepo,
	moduleRepo repos.ModuleRepo,
	attemptRepo repos.QuizAttemptRepo,
	coInstructorRepo repos.CoInstructorRepo,
	enrollmentRepo repos.EnrollmentRepo,
	baseLog *logger.Logger,
) ModuleService {
	return &moduleService{
		db:               db,
		courseRepo:       courseRepo,
		sectionRepo:      sectionRepo,
		subSectionRepo:   subSectionRepo,
		moduleRepo:       moduleRepo,
		attemptRepo:      attemptRepo,
		coInstructorRepo: coInstructorRepo,
		enrollmentRepo:   enrollmentRepo,
		log:              baseLog.With("service", "ModuleService"),
	}
}

func (s *moduleService) courseForSection(ctx context.Context, tx *gorm.DB, sectionID string) (*types.Course, error) {
	section, err := s.sectionRepo.GetByID(ctx, tx, sectionID)
	if err != nil {
		return nil, notFoundOr(err, "section")
	}
	course, err := s.courseRepo.GetByID(ctx, tx, section.CourseID)
	if err != nil {
		return nil, notFoundOr(err, "course")
	}
	return course, nil
}

// sanitizeForActor hides answer keys from anyone without teaching access to
// the course. The stored row is never mutated.
func sanitizeForActor(actor *types.User, snap policy.CourseSnapshot, module *types.Module) *types.Module {
	if policy.SeesCorrectAnswers(actor, snap) || len(module.QuizData) == 0 {
		return module
	}
	clean := *module
	clean.QuizData = datatypes.JSONSlice[types.QuizQuestion](quiz.StripAnswers(module.QuizData))
	return &clean
}

func (s *moduleService) ListBySection(ctx context.Context, actor *types.User, sectionID string) ([]*types.Module, error) {
	course, err := s.courseForSection(ctx, nil, sectionID)
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
	modules, err := s.moduleRepo.ListBySection(ctx, nil, sectionID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	out := make([]*types.Module, len(modules))
	for i, m := range modules {
		out[i] = sanitizeForActor(actor, snap, m)
	}
	return out, nil
}

func (s *moduleService) ListBySubSection(ctx context.Context, actor *types.User, subSectionID string) ([]*types.Module, error) {
	subSection, err := s.subSectionRepo.GetByID(ctx, nil, subSectionID)
	if err != nil {
		return nil, notFoundOr(err, "sub-section")
	}
	course, err := s.courseForSection(ctx, nil, subSection.SectionID)
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
	modules, err := s.moduleRepo.ListBySubSection(ctx, nil, subSectionID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	out := make([]*types.Module, len(modules))
	for i, m := range modules {
		out[i] = sanitizeForActor(actor, snap, m)
	}
	return out, nil
}

func (s *moduleService) Get(ctx context.Context, actor *types.User, id string) (*types.Module, error) {
	module, err := s.moduleRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "module")
	}
	course, err := s.courseForSection(ctx, nil, module.SectionID)
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
	return sanitizeForActor(actor, snap, module), nil
}

func (s *moduleService) Create(ctx context.Context, actor *types.User, req ModuleCreate) (*types.Module, error) {
	course, err := s.courseForSection(ctx, nil, req.SectionID)
	if err != nil {
		return nil, err
	}
	snap := policy.CourseSnapshot{ID: course.ID, OwnerID: course.InstructorID, Status: course.Status}
	if d := policy.CanManageCourseContent(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	if req.SubSectionID != nil {
		subSection, err := s.subSectionRepo.GetByID(ctx, nil, *req.SubSectionID)
		if err != nil {
			return nil, notFoundOr(err, "sub-section")
		}
		if subSection.SectionID != req.SectionID {
			return nil, apierr.InvalidState("sub-section does not belong to the section")
		}
	}
	module := &types.Module{
		SectionID:        req.SectionID,
		SubSectionID:     req.SubSectionID,
		Title:            req.Title,
		Type:             req.Type,
		Content:          req.Content,
		QuizData:         datatypes.JSONSlice[types.QuizQuestion](quiz.Normalize(req.QuizData)),
		TimeLimitSeconds: req.TimeLimitSeconds,
	}
	if req.Order != nil {
		module.Order = *req.Order
	}
	if _, err := s.moduleRepo.Create(ctx, nil, module); err != nil {
		return nil, apierr.Internal(err)
	}
	return module, nil
}

func (s *moduleService) Update(ctx context.Context, actor *types.User, id string, req ModuleUpdate) (*types.Module, error) {
	module, err := s.moduleRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "module")
	}
	course, err := s.courseForSection(ctx, nil, module.SectionID)
	if err != nil {
		return nil, err
	}
	snap := policy.CourseSnapshot{ID: course.ID, OwnerID: course.InstructorID, Status: course.Status}
	if d := policy.CanManageCourseContent(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	if req.SubSectionID != nil {
		subSection, err := s.subSectionRepo.GetByID(ctx, nil, *req.SubSectionID)
		if err != nil {
			return nil, notFoundOr(err, "sub-section")
		}
		if subSection.SectionID != module.SectionID {
			return nil, apierr.InvalidState("sub-section does not belong to the section")
		}
		module.SubSectionID = req.SubSectionID
	}
	if req.Title != nil {
		module.Title = req.Title
	}
	if req.Type != nil {
		module.Type = *req.Type
	}
	if req.Content != nil {
		module.Content = req.Content
	}
	if req.QuizData != nil {
		module.QuizData = datatypes.JSONSlice[types.QuizQuestion](quiz.Normalize(*req.QuizData))
	}
	if req.TimeLimitSeconds != nil {
		module.TimeLimitSeconds = req.TimeLimitSeconds
	}
	if req.Order != nil {
		module.Order = *req.Order
	}
	if err := s.moduleRepo.Update(ctx, nil, module); err != nil {
		return nil, apierr.Internal(err)
	}
	return module, nil
}

func (s *moduleService) Delete(ctx context.Context, actor *types.User, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		module, err := s.moduleRepo.GetByID(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "module")
		}
		course, err := s.courseForSection(ctx, tx, module.SectionID)
		if err != nil {
			return err
		}
		snap := policy.CourseSnapshot{ID: course.ID, OwnerID: course.InstructorID, Status: course.Status}
		if d := policy.CanManageCourseContent(actor, snap); !d.Allowed {
			return forbidden(d)
		}
		if err := s.attemptRepo.DeleteByModules(ctx, tx, []string{module.ID}); err != nil {
			return apierr.Internal(err)
		}
		if err := s.moduleRepo.Delete(ctx, tx, module.ID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
}
