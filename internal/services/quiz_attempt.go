package services

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/policy"
	"github.com/openlms/backend/internal/quiz"
	"github.com/openlms/backend/internal/repos"
	"github.com/openlms/backend/internal/types"
)

type QuizAttemptService interface {
	Start(ctx context.Context, actor *types.User, moduleID string) (*types.ModuleQuizAttempt, error)
	Submit(ctx context.Context, actor *types.User, attemptID string, answers map[string]int) (*types.ModuleQuizAttempt, error)
	ListMine(ctx context.Context, actor *types.User, moduleID string) ([]*types.ModuleQuizAttempt, error)
	ListForModule(ctx context.Context, actor *types.User, moduleID string) ([]*types.ModuleQuizAttempt, error)
}

type quizAttemptService struct {
	db               *gorm.DB
	courseRepo       repos.CourseRepo
	sectionRepo      repos.SectionRepo
	moduleRepo       repos.ModuleRepo
	attemptRepo      repos.QuizAttemptRepo
	coInstructorRepo repos.CoInstructorRepo
	enrollmentRepo   repos.EnrollmentRepo
	log              *logger.Logger
}

func NewQuizAttemptService(
	db *gorm.DB,
	courseRepo repos.CourseRepo,
	sectionRepo repos.SectionRepo,
	moduleRepo repos.ModuleRepo,
	attemptRepo repos.QuizAttemptRepo,
	coInstructorRepo repos.CoInstructorRepo,
	enrollmentRepo repos.EnrollmentRepo,
	baseLog *logger.Logger,
) QuizAttemptService {
	return &quizAttemptService{
		db:               db,
		courseRepo:       courseRepo,
		sectionRepo:      sectionRepo,
		moduleRepo:       moduleRepo,
		attemptRepo:      attemptRepo,
		coInstructorRepo: coInstructorRepo,
		enrollmentRepo:   enrollmentRepo,
		log:              baseLog.With("service", "QuizAttemptService"),
	}
}

func (s *quizAttemptService) resolveModule(ctx context.Context, tx *gorm.DB, moduleID string) (*types.Module, *types.Course, error) {
	module, err := s.moduleRepo.GetByID(ctx, tx, moduleID)
	if err != nil {
		return nil, nil, notFoundOr(err, "module")
	}
	section, err := s.sectionRepo.GetByID(ctx, tx, module.SectionID)
	if err != nil {
		return nil, nil, notFoundOr(err, "section")
	}
	course, err := s.courseRepo.GetByID(ctx, tx, section.CourseID)
	if err != nil {
		return nil, nil, notFoundOr(err, "course")
	}
	return module, course, nil
}

// Start opens a fresh attempt. Multiple unsubmitted attempts per module and
// user are allowed; each submission closes exactly one of them.
func (s *quizAttemptService) Start(ctx context.Context, actor *types.User, moduleID string) (*types.ModuleQuizAttempt, error) {
	module, course, err := s.resolveModule(ctx, nil, moduleID)
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
	if module.Type != types.ModuleTypeQuiz {
		return nil, apierr.InvalidState("module is not a quiz")
	}
	attempt := &types.ModuleQuizAttempt{
		ModuleID:  module.ID,
		UserID:    actor.ID,
		StartedAt: time.Now(),
	}
	if _, err := s.attemptRepo.Create(ctx, nil, attempt); err != nil {
		return nil, apierr.Internal(err)
	}
	s.log.Info("Quiz attempt started", "attempt_id", attempt.ID, "module_id", module.ID, "user_id", actor.ID)
	return attempt, nil
}

// Submit grades and closes an attempt. Owner-only; a second submission or one
// past the deadline is a Conflict, leaving the stored result untouched.
func (s *quizAttemptService) Submit(ctx context.Context, actor *types.User, attemptID string, answers map[string]int) (*types.ModuleQuizAttempt, error) {
	var submitted *types.ModuleQuizAttempt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempt, err := s.attemptRepo.GetByID(ctx, tx, attemptID)
		if err != nil {
			return notFoundOr(err, "attempt")
		}
		if attempt.UserID != actor.ID {
			return apierr.Forbidden("not your attempt")
		}
		if attempt.Submitted() {
			return apierr.Conflict("attempt already submitted")
		}
		module, _, err := s.resolveModule(ctx, tx, attempt.ModuleID)
		if err != nil {
			return err
		}
		now := time.Now()
		if deadline, ok := quiz.Deadline(attempt.StartedAt, module.TimeLimitSeconds); ok && now.After(deadline) {
			return apierr.Conflict("time limit exceeded")
		}
		score, maxScore := quiz.Score(module.QuizData, answers)
		attempt.Answers = datatypes.NewJSONType(answers)
		attempt.Score = &score
		attempt.MaxScore = &maxScore
		attempt.SubmittedAt = &now
		if err := s.attemptRepo.Update(ctx, tx, attempt); err != nil {
			return apierr.Internal(err)
		}
		submitted = attempt
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Quiz attempt submitted", "attempt_id", submitted.ID, "score", *submitted.Score, "max_score", *submitted.MaxScore)
	return submitted, nil
}

func (s *quizAttemptService) ListMine(ctx context.Context, actor *types.User, moduleID string) ([]*types.ModuleQuizAttempt, error) {
	_, course, err := s.resolveModule(ctx, nil, moduleID)
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
	attempts, err := s.attemptRepo.ListByModuleAndUser(ctx, nil, moduleID, actor.ID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return attempts, nil
}

// ListForModule is the instructor-side report across all learners.
func (s *quizAttemptService) ListForModule(ctx context.Context, actor *types.User, moduleID string) ([]*types.ModuleQuizAttempt, error) {
	_, course, err := s.resolveModule(ctx, nil, moduleID)
	if err != nil {
		return nil, err
	}
	snap, err := courseSnapshot(ctx, nil, actor, course, s.coInstructorRepo, s.enrollmentRepo)
	if err != nil {
		return nil, err
	}
	if !policy.SeesCorrectAnswers(actor, snap) {
		return nil, apierr.Forbidden("not an instructor of this course")
	}
	attempts, err := s.attemptRepo.ListByModule(ctx, nil, moduleID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return attempts, nil
}
