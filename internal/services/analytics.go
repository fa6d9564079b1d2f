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

// DashboardStats is the role-scoped summary behind the dashboard endpoint.
// Admins see platform totals, instructors see totals for their own courses,
// and guests get a fixed zero struct.
type DashboardStats struct {
	TotalStudents    int64   `json:"total_students"`
	TotalInstructors int64   `json:"total_instructors"`
	TotalCourses     int64   `json:"total_courses"`
	TotalEnrollments int64   `json:"total_enrollments"`
	AvgCompletion    float64 `json:"avg_completion"`
}

type AnalyticsService interface {
	Dashboard(ctx context.Context, actor *types.User) (*DashboardStats, error)
}

type analyticsService struct {
	db             *gorm.DB
	userRepo       repos.UserRepo
	courseRepo     repos.CourseRepo
	enrollmentRepo repos.EnrollmentRepo
	log            *logger.Logger
}

func NewAnalyticsService(
	db *gorm.DB,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	enrollmentRepo repos.EnrollmentRepo,
	baseLog *logger.Logger,
) AnalyticsService {
	return &analyticsService{
		db:             db,
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		log:            baseLog.With("service", "AnalyticsService"),
	}
}

func (s *analyticsService) Dashboard(ctx context.Context, actor *types.User) (*DashboardStats, error) {
	switch {
	case policy.IsAdmin(actor):
		return s.adminStats(ctx)
	case types.IsInstructorRole(actor.Role):
		return s.instructorStats(ctx, actor)
	case actor.Role == types.RoleGuest:
		return &DashboardStats{}, nil
	default:
		return nil, apierr.Forbidden("not authorized to view analytics")
	}
}

func (s *analyticsService) adminStats(ctx context.Context) (*DashboardStats, error) {
	students, err := s.userRepo.CountByRoles(ctx, nil, types.RoleStudent)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	instructors, err := s.userRepo.CountByRoles(ctx, nil, types.RoleInstructor, types.RolePartnerInstructor)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	courses, err := s.courseRepo.Count(ctx, nil)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	enrollments, err := s.enrollmentRepo.Count(ctx, nil)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return &DashboardStats{
		TotalStudents:    students,
		TotalInstructors: instructors,
		TotalCourses:     courses,
		TotalEnrollments: enrollments,
	}, nil
}

func (s *analyticsService) instructorStats(ctx context.Context, actor *types.User) (*DashboardStats, error) {
	courses, err := s.courseRepo.CountOwnedBy(ctx, nil, actor.ID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	students, err := s.enrollmentRepo.CountDistinctUsersByCourseOwner(ctx, nil, actor.ID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	enrollments, err := s.enrollmentRepo.CountByCourseOwner(ctx, nil, actor.ID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return &DashboardStats{
		TotalStudents:    students,
		TotalCourses:     courses,
		TotalEnrollments: enrollments,
	}, nil
}
