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

type MentorAssignmentCreate struct {
	StudentID string  `json:"student_id"`
	MentorID  string  `json:"mentor_id"`
	College   *string `json:"college,omitempty"`
}

type MentorAssignmentUpdate struct {
	Status  *string `json:"status,omitempty"`
	College *string `json:"college,omitempty"`
}

type MentorCourseAssignmentCreate struct {
	MentorID         string `json:"mentor_id"`
	CourseID         string `json:"course_id"`
	InstitutionMatch *bool  `json:"institution_match,omitempty"`
}

type MentorCourseAssignmentUpdate struct {
	Status           *string `json:"status,omitempty"`
	InstitutionMatch *bool   `json:"institution_match,omitempty"`
}

type MentorCourseFilter struct {
	MentorID *string
	CourseID *string
	Status   *string
}

type MentorService interface {
	ListAssignments(ctx context.Context, actor *types.User) ([]*types.MentorAssignment, error)
	Assign(ctx context.Context, actor *types.User, req MentorAssignmentCreate) (*types.MentorAssignment, error)
	UpdateAssignment(ctx context.Context, actor *types.User, id string, req MentorAssignmentUpdate) (*types.MentorAssignment, error)
	Unassign(ctx context.Context, actor *types.User, id string) (*types.MentorAssignment, error)
	DeleteAssignment(ctx context.Context, actor *types.User, id string) error

	ListCourseAssignments(ctx context.Context, actor *types.User, filter MentorCourseFilter) ([]*types.MentorCourseAssignment, error)
	AssignCourse(ctx context.Context, actor *types.User, req MentorCourseAssignmentCreate) (*types.MentorCourseAssignment, error)
	UpdateCourseAssignment(ctx context.Context, actor *types.User, id string, req MentorCourseAssignmentUpdate) (*types.MentorCourseAssignment, error)
	DeleteCourseAssignment(ctx context.Context, actor *types.User, id string) error
}

type mentorService struct {
	db               *gorm.DB
	userRepo         repos.UserRepo
	courseRepo       repos.CourseRepo
	mentorRepo       repos.MentorAssignmentRepo
	mentorCourseRepo repos.MentorCourseAssignmentRepo
	log              *logger.Logger
}

func NewMentorService(
	db *gorm.DB,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	mentorRepo repos.MentorAssignmentRepo,
	mentorCourseRepo repos.MentorCourseAssignmentRepo,
	baseLog *logger.Logger,
) MentorService {
	return &mentorService{
		db:               db,
		userRepo:         userRepo,
		courseRepo:       courseRepo,
		mentorRepo:       mentorRepo,
		mentorCourseRepo: mentorCourseRepo,
		log:              baseLog.With("service", "MentorService"),
	}
}

func (s *mentorService) ListAssignments(ctx context.Context, actor *types.User) ([]*types.MentorAssignment, error) {
	var (
		rows []*types.MentorAssignment
		err  error
	)
	switch {
	case policy.IsAdmin(actor) || actor.Role == types.RoleInstructor:
		rows, err = s.mentorRepo.List(ctx, nil)
	case actor.Role == types.RolePartnerInstructor:
		rows, err = s.mentorRepo.ListByMentor(ctx, nil, actor.ID)
	default:
		rows, err = s.mentorRepo.ListByStudent(ctx, nil, actor.ID)
	}
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return rows, nil
}

// Assign pairs a learner with a mentor. An existing (student, mentor) edge is
// reactivated instead of duplicated, clearing any unassignment stamp.
func (s *mentorService) Assign(ctx context.Context, actor *types.User, req MentorAssignmentCreate) (*types.MentorAssignment, error) {
	if d := policy.CanManageMentorAssignments(actor); !d.Allowed {
		return nil, forbidden(d)
	}
	var result *types.MentorAssignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		student, err := s.userRepo.GetByID(ctx, tx, req.StudentID)
		if err != nil {
			return notFoundOr(err, "student")
		}
		mentor, err := s.userRepo.GetByID(ctx, tx, req.MentorID)
		if err != nil {
			return notFoundOr(err, "mentor")
		}
		if !types.IsLearnerRole(student.Role) {
			return apierr.InvalidState("student must hold a learner role")
		}
		if !types.IsMentorRole(mentor.Role) {
			return apierr.InvalidState("mentor must be an instructor or partner instructor")
		}

		existing, err := s.mentorRepo.GetByStudentAndMentor(ctx, tx, req.StudentID, req.MentorID)
		if err == nil {
			existing.Status = types.EdgeActive
			existing.UnassignedAt = nil
			if req.College != nil {
				existing.College = req.College
			}
			if err := s.mentorRepo.Update(ctx, tx, existing); err != nil {
				return apierr.Internal(err)
			}
			result = existing
			return nil
		}
		if !repos.IsNotFound(err) {
			return apierr.Internal(err)
		}

		assignment := &types.MentorAssignment{
			StudentID:  req.StudentID,
			MentorID:   req.MentorID,
			AssignedBy: strp(actor.ID),
			Status:     types.EdgeActive,
			College:    req.College,
			AssignedAt: time.Now(),
		}
		if _, err := s.mentorRepo.Create(ctx, tx, assignment); err != nil {
			if repos.IsUniqueViolation(err) {
				return apierr.Conflict("mentor assignment already exists")
			}
			return apierr.Internal(err)
		}
		result = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Mentor assigned", "assignment_id", result.ID, "student_id", req.StudentID, "mentor_id", req.MentorID)
	return result, nil
}

func (s *mentorService) UpdateAssignment(ctx context.Context, actor *types.User, id string, req MentorAssignmentUpdate) (*types.MentorAssignment, error) {
	assignment, err := s.mentorRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "mentor assignment")
	}
	if d := policy.CanUpdateMentorAssignment(actor, assignment.MentorID); !d.Allowed {
		return nil, forbidden(d)
	}
	if req.Status != nil {
		assignment.Status = *req.Status
	}
	if req.College != nil {
		assignment.College = req.College
	}
	if assignment.Status != types.EdgeActive && assignment.UnassignedAt == nil {
		now := time.Now()
		assignment.UnassignedAt = &now
	}
	if err := s.mentorRepo.Update(ctx, nil, assignment); err != nil {
		return nil, apierr.Internal(err)
	}
	return assignment, nil
}

// Unassign deactivates an edge without deleting its history.
func (s *mentorService) Unassign(ctx context.Context, actor *types.User, id string) (*types.MentorAssignment, error) {
	return s.UpdateAssignment(ctx, actor, id, MentorAssignmentUpdate{Status: strp(types.EdgeInactive)})
}

func (s *mentorService) DeleteAssignment(ctx context.Context, actor *types.User, id string) error {
	if d := policy.CanManageMentorAssignments(actor); !d.Allowed {
		return forbidden(d)
	}
	if _, err := s.mentorRepo.GetByID(ctx, nil, id); err != nil {
		return notFoundOr(err, "mentor assignment")
	}
	if err := s.mentorRepo.Delete(ctx, nil, id); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

// ListCourseAssignments applies the caller's filters on top of role scoping:
// partners only ever see their own edges, learners only active ones.
func (s *mentorService) ListCourseAssignments(ctx context.Context, actor *types.User, filter MentorCourseFilter) ([]*types.MentorCourseAssignment, error) {
	switch {
	case policy.IsAdmin(actor) || actor.Role == types.RoleInstructor:
	case actor.Role == types.RolePartnerInstructor:
		filter.MentorID = strp(actor.ID)
	default:
		filter.Status = strp(types.EdgeActive)
	}
	rows, err := s.mentorCourseRepo.List(ctx, nil, filter.MentorID, filter.CourseID, filter.Status)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return rows, nil
}

// AssignCourse scopes a mentor to one course. InstitutionMatch defaults to
// comparing the mentor's and course's institutions when both are set.
func (s *mentorService) AssignCourse(ctx context.Context, actor *types.User, req MentorCourseAssignmentCreate) (*types.MentorCourseAssignment, error) {
	var result *types.MentorCourseAssignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mentor, err := s.userRepo.GetByID(ctx, tx, req.MentorID)
		if err != nil {
			return notFoundOr(err, "mentor")
		}
		course, err := s.courseRepo.GetByID(ctx, tx, req.CourseID)
		if err != nil {
			return notFoundOr(err, "course")
		}
		if !types.IsMentorRole(mentor.Role) {
			return apierr.InvalidState("mentor must be an instructor or partner instructor")
		}
		snap := policy.CourseSnapshot{ID: course.ID, OwnerID: course.InstructorID, Status: course.Status}
		if d := policy.CanManageMentorCourseAssignment(actor, snap); !d.Allowed {
			return forbidden(d)
		}

		match := req.InstitutionMatch
		if match == nil && mentor.InstitutionID != nil && course.InstitutionID != nil {
			v := *mentor.InstitutionID == *course.InstitutionID
			match = &v
		}

		existing, err := s.mentorCourseRepo.GetByMentorAndCourse(ctx, tx, req.MentorID, req.CourseID)
		if err == nil {
			existing.Status = types.EdgeActive
			existing.UnassignedAt = nil
			if match != nil {
				existing.InstitutionMatch = match
			}
			if err := s.mentorCourseRepo.Update(ctx, tx, existing); err != nil {
				return apierr.Internal(err)
			}
			result = existing
			return nil
		}
		if !repos.IsNotFound(err) {
			return apierr.Internal(err)
		}

		assignment := &types.MentorCourseAssignment{
			MentorID:         req.MentorID,
			CourseID:         req.CourseID,
			AssignedBy:       strp(actor.ID),
			Status:           types.EdgeActive,
			InstitutionMatch: match,
			AssignedAt:       time.Now(),
		}
		if _, err := s.mentorCourseRepo.Create(ctx, tx, assignment); err != nil {
			if repos.IsUniqueViolation(err) {
				return apierr.Conflict("mentor course assignment already exists")
			}
			return apierr.Internal(err)
		}
		result = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *mentorService) UpdateCourseAssignment(ctx context.Context, actor *types.User, id string, req MentorCourseAssignmentUpdate) (*types.MentorCourseAssignment, error) {
	assignment, err := s.mentorCourseRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "mentor course assignment")
	}
	course, err := s.courseRepo.GetByID(ctx, nil, assignment.CourseID)
	if err != nil {
		return nil, notFoundOr(err, "course")
	}
	snap := policy.CourseSnapshot{ID: course.ID, OwnerID: course.InstructorID, Status: course.Status}
	if d := policy.CanManageMentorCourseAssignment(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	if req.Status != nil {
		assignment.Status = *req.Status
	}
	if req.InstitutionMatch != nil {
		assignment.InstitutionMatch = req.InstitutionMatch
	}
	if assignment.Status != types.EdgeActive && assignment.UnassignedAt == nil {
		now := time.Now()
		assignment.UnassignedAt = &now
	}
	if err := s.mentorCourseRepo.Update(ctx, nil, assignment); err != nil {
		return nil, apierr.Internal(err)
	}
	return assignment, nil
}

func (s *mentorService) DeleteCourseAssignment(ctx context.Context, actor *types.User, id string) error {
	assignment, err := s.mentorCourseRepo.GetByID(ctx, nil, id)
	if err != nil {
		return notFoundOr(err, "mentor course assignment")
	}
	course, err := s.courseRepo.GetByID(ctx, nil, assignment.CourseID)
	if err != nil {
		return notFoundOr(err, "course")
	}
	snap := policy.CourseSnapshot{ID: course.ID, OwnerID: course.InstructorID, Status: course.Status}
	if d := policy.CanManageMentorCourseAssignment(actor, snap); !d.Allowed {
		return forbidden(d)
	}
	if err := s.mentorCourseRepo.Delete(ctx, nil, id); err != nil {
		return apierr.Internal(err)
	}
	return nil
}
