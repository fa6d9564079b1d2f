// Package services implements the application operations on top of the repos
// layer. Every method takes the authenticated actor explicitly; the policy
// package decides, services load state and enforce.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/policy"
	"github.com/openlms/backend/internal/repos"
	"github.com/openlms/backend/internal/types"
)

// notFoundOr converts a repo lookup failure into the API error taxonomy.
// Missing rows become NotFound before any policy check runs.
func notFoundOr(err error, what string) error {
	if repos.IsNotFound(err) {
		return apierr.NotFound(what)
	}
	return apierr.Internal(err)
}

// forbidden converts a policy denial into its API error.
func forbidden(d policy.Decision) error {
	return apierr.Forbidden(d.Reason)
}

func strp(s string) *string { return &s }

// courseSnapshot assembles the policy view of a course for one actor, loading
// only the edges the actor's role can depend on.
func courseSnapshot(
	ctx context.Context,
	tx *gorm.DB,
	actor *types.User,
	course *types.Course,
	coInstructorRepo repos.CoInstructorRepo,
	enrollmentRepo repos.EnrollmentRepo,
) (policy.CourseSnapshot, error) {
	snap := policy.CourseSnapshot{
		ID:      course.ID,
		OwnerID: course.InstructorID,
		Status:  course.Status,
	}
	if types.IsInstructorRole(actor.Role) && actor.ID != course.InstructorID {
		active, err := coInstructorRepo.HasActive(ctx, tx, course.ID, actor.ID)
		if err != nil {
			return snap, apierr.Internal(err)
		}
		snap.ActiveCoInstructor = active
	}
	if types.IsLearnerRole(actor.Role) {
		enrolled, err := enrollmentRepo.Exists(ctx, tx, course.ID, actor.ID)
		if err != nil {
			return snap, apierr.Internal(err)
		}
		snap.Enrolled = enrolled
	}
	return snap, nil
}
