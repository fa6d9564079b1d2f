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

type CourseCreate struct {
	Title         string  `json:"title"`
	Description   *string `json:"description,omitempty"`
	ThumbnailURL  *string `json:"thumbnail_url,omitempty"`
	InstitutionID *string `json:"institution_id,omitempty"`
	Status        *string `json:"status,omitempty"`
}

type CourseUpdate struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	ThumbnailURL  *string `json:"thumbnail_url,omitempty"`
	InstitutionID *string `json:"institution_id,omitempty"`
	Status        *string `json:"status,omitempty"`
}

type CourseService interface {
	List(ctx context.Context, actor *types.User) ([]*types.Course, error)
	Get(ctx context.Context, actor *types.User, id string) (*types.Course, error)
	Create(ctx context.Context, actor *types.User, req CourseCreate) (*types.Course, error)
	Update(ctx context.Context, actor *types.User, id string, req CourseUpdate) (*types.Course, error)
	Delete(ctx context.Context, actor *types.User, id string) error
}

type courseService struct {
	db               *gorm.DB
	courseRepo       repos.CourseRepo
	sectionRepo      repos.SectionRepo
	subSectionRepo   repos.SubSectionRepo
	moduleRepo       repos.ModuleRepo
	attemptRepo      repos.QuizAttemptRepo
	assessmentRepo   repos.AssessmentRepo
	accessRepo       repos.AssessmentAccessRepo
	enrollmentRepo   repos.EnrollmentRepo
	coInstructorRepo repos.CoInstructorRepo
	invitationRepo   repos.InvitationRepo
	mentorCourseRepo repos.MentorCourseAssignmentRepo
	announcementRepo repos.AnnouncementRepo
	progressRepo     repos.CourseProgressRepo
	log              *logger.Logger
}

func NewCourseService(
	db *gorm.DB,
	courseRepo repos.CourseRepo,
	sectionRepo repos.SectionRepo,
	subSectionRepo repos.SubSectionRepo,
	moduleRepo repos.ModuleRepo,
	attemptRepo repos.QuizAttemptRepo,
	assessmentRepo repos.AssessmentRepo,
	accessRepo repos.AssessmentAccessRepo,
	enrollmentRepo repos.EnrollmentRepo,
	coInstructorRepo repos.CoInstructorRepo,
	invitationRepo repos.InvitationRepo,
	mentorCourseRepo repos.MentorCourseAssignmentRepo,
	announcementRepo repos.AnnouncementRepo,
	progressRepo repos.CourseProgressRepo,
	baseLog *logger.Logger,
) CourseService {
	return &courseService{
		db:               db,
		courseRepo:       courseRepo,
		sectionRepo:      sectionRepo,
		subSectionRepo:   subSectionRepo,
		moduleRepo:       moduleRepo,
		attemptRepo:      attemptRepo,
		assessmentRepo:   assessmentRepo,
		accessRepo:       accessRepo,
		enrollmentRepo:   enrollmentRepo,
		coInstructorRepo: coInstructorRepo,
		invitationRepo:   invitationRepo,
		mentorCourseRepo: mentorCourseRepo,
		announcementRepo: announcementRepo,
		progressRepo:     progressRepo,
		log:              baseLog.With("service", "CourseService"),
	}
}

func (s *courseService) List(ctx context.Context, actor *types.User) ([]*types.Course, error) {
	var (
		courses []*types.Course
		err     error
	)
	switch {
	case policy.IsAdmin(actor):
		courses, err = s.courseRepo.List(ctx, nil)
	case types.IsInstructorRole(actor.Role):
		courses, err = s.courseRepo.ListForInstructor(ctx, nil, actor.ID)
	default:
		courses, err = s.courseRepo.ListForLearner(ctx, nil, actor.ID)
	}
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if types.IsLearnerRole(actor.Role) && len(actor.BannedFrom) > 0 {
		courses = filterBanned(actor, courses)
	}
	return courses, nil
}

func filterBanned(actor *types.User, courses []*types.Course) []*types.Course {
	banned := make(map[string]struct{}, len(actor.BannedFrom))
	for _, id := range actor.BannedFrom {
		banned[id] = struct{}{}
	}
	out := courses[:0]
	for _, c := range courses {
		if _, ok := banned[c.ID]; !ok {
			out = append(out, c)
		}
	}
	return out
}

func (s *courseService) Get(ctx context.Context, actor *types.User, id string) (*types.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "course")
	}
	snap, err := courseSnapshot(ctx, nil, actor, course, s.coInstructorRepo, s.enrollmentRepo)
	if err != nil {
		return nil, err
	}
	if d := policy.CanViewCourse(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	return course, nil
}

func (s *courseService) Create(ctx context.Context, actor *types.User, req CourseCreate) (*types.Course, error) {
	if !policy.IsAdmin(actor) && actor.Role != types.RoleInstructor {
		return nil, apierr.Forbidden("only admins and instructors can create courses")
	}
	course := &types.Course{
		Title:          req.Title,
		Description:    req.Description,
		ThumbnailURL:   req.ThumbnailURL,
		InstructorID:   actor.ID,
		InstitutionID:  req.InstitutionID,
		InstructorName: actor.Name,
		Status:         types.CourseDraft,
	}
	if req.Status != nil {
		course.Status = *req.Status
	}
	if _, err := s.courseRepo.Create(ctx, nil, course); err != nil {
		return nil, apierr.Internal(err)
	}
	s.log.Info("Course created", "course_id", course.ID, "instructor_id", actor.ID)
	return course, nil
}

func (s *courseService) Update(ctx context.Context, actor *types.User, id string, req CourseUpdate) (*types.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "course")
	}
	snap, err := courseSnapshot(ctx, nil, actor, course, s.coInstructorRepo, s.enrollmentRepo)
	if err != nil {
		return nil, err
	}
	if d := policy.CanUpdateCourse(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.ThumbnailURL != nil {
		course.ThumbnailURL = req.ThumbnailURL
	}
	if req.InstitutionID != nil {
		course.InstitutionID = req.InstitutionID
	}
	if req.Status != nil {
		course.Status = *req.Status
	}
	if err := s.courseRepo.Update(ctx, nil, course); err != nil {
		return nil, apierr.Internal(err)
	}
	return course, nil
}

// Delete tears down a course and everything under it in one transaction,
// children before parents: attempts, modules, sub-sections, sections, then
// the assessment tree, then the edges, then the course row itself.
func (s *courseService) Delete(ctx context.Context, actor *types.User, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := s.courseRepo.GetByID(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "course")
		}
		snap := policy.CourseSnapshot{ID: course.ID, OwnerID: course.InstructorID, Status: course.Status}
		if d := policy.CanDeleteCourse(actor, snap); !d.Allowed {
			return forbidden(d)
		}

		sectionIDs, err := s.sectionRepo.ListIDsByCourse(ctx, tx, course.ID)
		if err != nil {
			return apierr.Internal(err)
		}
		subSectionIDs, err := s.subSectionRepo.ListIDsBySections(ctx, tx, sectionIDs)
		if err != nil {
			return apierr.Internal(err)
		}
		moduleIDs, err := s.moduleRepo.ListIDsBySections(ctx, tx, sectionIDs)
		if err != nil {
			return apierr.Internal(err)
		}
		if err := s.attemptRepo.DeleteByModules(ctx, tx, moduleIDs); err != nil {
			return apierr.Internal(err)
		}
		if err := s.moduleRepo.DeleteBySubSections(ctx, tx, subSectionIDs); err != nil {
			return apierr.Internal(err)
		}
		if err := s.moduleRepo.DeleteBySections(ctx, tx, sectionIDs); err != nil {
			return apierr.Internal(err)
		}
		if err := s.subSectionRepo.DeleteBySections(ctx, tx, sectionIDs); err != nil {
			return apierr.Internal(err)
		}
		if err := s.sectionRepo.DeleteByIDs(ctx, tx, sectionIDs); err != nil {
			return apierr.Internal(err)
		}

		assessmentIDs, err := s.assessmentRepo.ListIDsByCourse(ctx, tx, course.ID)
		if err != nil {
			return apierr.Internal(err)
		}
		if err := s.assessmentRepo.DeleteSubmissionsByAssessments(ctx, tx, assessmentIDs); err != nil {
			return apierr.Internal(err)
		}
		if err := s.assessmentRepo.DeleteQuestionsByAssessments(ctx, tx, assessmentIDs); err != nil {
			return apierr.Internal(err)
		}
		if err := s.accessRepo.DeleteByAssessments(ctx, tx, assessmentIDs); err != nil {
			return apierr.Internal(err)
		}
		if err := s.assessmentRepo.DeleteByIDs(ctx, tx, assessmentIDs); err != nil {
			return apierr.Internal(err)
		}

		if err := s.enrollmentRepo.DeleteByCourse(ctx, tx, course.ID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.coInstructorRepo.DeleteByCourse(ctx, tx, course.ID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.invitationRepo.DeleteByCourse(ctx, tx, course.ID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.mentorCourseRepo.DeleteByCourse(ctx, tx, course.ID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.announcementRepo.DeleteByCourse(ctx, tx, course.ID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.progressRepo.DeleteByCourse(ctx, tx, course.ID); err != nil {
			return apierr.Internal(err)
		}

		if err := s.courseRepo.Delete(ctx, tx, course.ID); err != nil {
			return apierr.Internal(err)
		}
		s.log.Info("Course deleted", "course_id", course.ID, "deleted_by", actor.ID)
		return nil
	})
}
