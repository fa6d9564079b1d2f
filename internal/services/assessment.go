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

type AssessmentCreate struct {
	CourseID    string         `json:"course_id"`
	Title       string         `json:"title"`
	Description *string        `json:"description,omitempty"`
	AccessCode  *string        `json:"access_code,omitempty"`
	TimeLimit   *int           `json:"time_limit,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	Difficulty  *string        `json:"difficulty,omitempty"`
	TotalPoints *int           `json:"total_points,omitempty"`
	Questions   datatypes.JSON `json:"questions,omitempty"`
}

type AssessmentUpdate struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	AccessCode  *string        `json:"access_code,omitempty"`
	Status      *string        `json:"status,omitempty"`
	TimeLimit   *int           `json:"time_limit,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	Difficulty  *string        `json:"difficulty,omitempty"`
	TotalPoints *int           `json:"total_points,omitempty"`
	Questions   datatypes.JSON `json:"questions,omitempty"`
}

type AssessmentQuestionCreate struct {
	Prompt  string         `json:"prompt"`
	Options datatypes.JSON `json:"options,omitempty"`
	Answer  *string        `json:"answer,omitempty"`
}

type AssessmentSubmit struct {
	Answers datatypes.JSON `json:"answers"`
}

type AssessmentService interface {
	List(ctx context.Context, actor *types.User) ([]*types.Assessment, error)
	Get(ctx context.Context, actor *types.User, id string) (*types.Assessment, error)
	Create(ctx context.Context, actor *types.User, req AssessmentCreate) (*types.Assessment, error)
	Update(ctx context.Context, actor *types.User, id string, req AssessmentUpdate) (*types.Assessment, error)
	Delete(ctx context.Context, actor *types.User, id string) error
	Submit(ctx context.Context, actor *types.User, id string, req AssessmentSubmit) (*types.AssessmentSubmission, error)
	ListSubmissions(ctx context.Context, actor *types.User, id string) ([]*types.AssessmentSubmission, error)
	AddQuestion(ctx context.Context, actor *types.User, id string, req AssessmentQuestionCreate) (*types.AssessmentQuestion, error)
	ListQuestions(ctx context.Context, actor *types.User, id string) ([]*types.AssessmentQuestion, error)
}

type assessmentService struct {
	db             *gorm.DB
	courseRepo     repos.CourseRepo
	assessmentRepo repos.AssessmentRepo
	accessRepo     repos.AssessmentAccessRepo
	log            *logger.Logger
}

func NewAssessmentService(
	db *gorm.DB,
	courseRepo repos.CourseRepo,
	assessmentRepo repos.AssessmentRepo,
	accessRepo repos.AssessmentAccessRepo,
	baseLog *logger.Logger,
) AssessmentService {
	return &assessmentService{
		db:             db,
		courseRepo:     courseRepo,
		assessmentRepo: assessmentRepo,
		accessRepo:     accessRepo,
		log:            baseLog.With("service", "AssessmentService"),
	}
}

func (s *assessmentService) List(ctx context.Context, actor *types.User) ([]*types.Assessment, error) {
	var (
		rows []*types.Assessment
		err  error
	)
	switch actor.Role {
	case types.RoleAdmin:
		rows, err = s.assessmentRepo.List(ctx, nil)
	case types.RoleInstructor:
		rows, err = s.assessmentRepo.ListByInstructor(ctx, nil, actor.ID)
	case types.RolePartnerInstructor:
		rows, err = s.assessmentRepo.ListByCreator(ctx, nil, actor.ID)
	default:
		rows, err = s.assessmentRepo.ListForStudent(ctx, nil, actor.ID)
	}
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return rows, nil
}

func (s *assessmentService) snapshot(ctx context.Context, actor *types.User, assessment *types.Assessment) (policy.AssessmentSnapshot, error) {
	snap := policy.AssessmentSnapshot{
		CreatedBy:    assessment.CreatedBy,
		InstructorID: assessment.InstructorID,
	}
	if types.IsLearnerRole(actor.Role) {
		active, err := s.accessRepo.HasActive(ctx, nil, actor.ID, assessment.ID)
		if err != nil {
			return snap, apierr.Internal(err)
		}
		snap.HasActiveAccess = active
	}
	return snap, nil
}

func (s *assessmentService) Get(ctx context.Context, actor *types.User, id string) (*types.Assessment, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "assessment")
	}
	snap, err := s.snapshot(ctx, actor, assessment)
	if err != nil {
		return nil, err
	}
	if d := policy.CanViewAssessment(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	return assessment, nil
}

func (s *assessmentService) Create(ctx context.Context, actor *types.User, req AssessmentCreate) (*types.Assessment, error) {
	course, err := s.courseRepo.GetByID(ctx, nil, req.CourseID)
	if err != nil {
		return nil, notFoundOr(err, "course")
	}
	snap := policy.CourseSnapshot{ID: course.ID, OwnerID: course.InstructorID, Status: course.Status}
	if d := policy.CanCreateAssessment(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	assessment := &types.Assessment{
		CourseID:       req.CourseID,
		Title:          req.Title,
		Description:    req.Description,
		AccessCode:     req.AccessCode,
		InstructorID:   strp(actor.ID),
		InstructorName: actor.Name,
		CreatedBy:      strp(actor.ID),
		CourseTitle:    strp(course.Title),
		Status:         strp("draft"),
		TimeLimit:      req.TimeLimit,
		DueDate:        req.DueDate,
		Difficulty:     req.Difficulty,
		TotalPoints:    req.TotalPoints,
		Questions:      req.Questions,
	}
	if _, err := s.assessmentRepo.Create(ctx, nil, assessment); err != nil {
		return nil, apierr.Internal(err)
	}
	s.log.Info("Assessment created", "assessment_id", assessment.ID, "course_id", course.ID)
	return assessment, nil
}

func (s *assessmentService) Update(ctx context.Context, actor *types.User, id string, req AssessmentUpdate) (*types.Assessment, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "assessment")
	}
	snap := policy.AssessmentSnapshot{CreatedBy: assessment.CreatedBy, InstructorID: assessment.InstructorID}
	if d := policy.CanUpdateAssessment(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	if req.Title != nil {
		assessment.Title = *req.Title
	}
	if req.Description != nil {
		assessment.Description = req.Description
	}
	if req.AccessCode != nil {
		assessment.AccessCode = req.AccessCode
	}
	if req.Status != nil {
		assessment.Status = req.Status
	}
	if req.TimeLimit != nil {
		assessment.TimeLimit = req.TimeLimit
	}
	if req.DueDate != nil {
		assessment.DueDate = req.DueDate
	}
	if req.Difficulty != nil {
		assessment.Difficulty = req.Difficulty
	}
	if req.TotalPoints != nil {
		assessment.TotalPoints = req.TotalPoints
	}
	if req.Questions != nil {
		assessment.Questions = req.Questions
	}
	if err := s.assessmentRepo.Update(ctx, nil, assessment); err != nil {
		return nil, apierr.Internal(err)
	}
	return assessment, nil
}

// Delete removes the assessment with its submissions, questions and grants.
func (s *assessmentService) Delete(ctx context.Context, actor *types.User, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assessment, err := s.assessmentRepo.GetByID(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "assessment")
		}
		snap := policy.AssessmentSnapshot{CreatedBy: assessment.CreatedBy, InstructorID: assessment.InstructorID}
		if d := policy.CanUpdateAssessment(actor, snap); !d.Allowed {
			return forbidden(d)
		}
		ids := []string{assessment.ID}
		if err := s.assessmentRepo.DeleteSubmissionsByAssessments(ctx, tx, ids); err != nil {
			return apierr.Internal(err)
		}
		if err := s.assessmentRepo.DeleteQuestionsByAssessments(ctx, tx, ids); err != nil {
			return apierr.Internal(err)
		}
		if err := s.accessRepo.DeleteByAssessments(ctx, tx, ids); err != nil {
			return apierr.Internal(err)
		}
		if err := s.assessmentRepo.Delete(ctx, tx, assessment.ID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
}

func (s *assessmentService) Submit(ctx context.Context, actor *types.User, id string, req AssessmentSubmit) (*types.AssessmentSubmission, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "assessment")
	}
	snap, err := s.snapshot(ctx, actor, assessment)
	if err != nil {
		return nil, err
	}
	if d := policy.CanSubmitAssessment(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	now := time.Now()
	submission := &types.AssessmentSubmission{
		AssessmentID: assessment.ID,
		UserID:       actor.ID,
		StudentEmail: strp(actor.Email),
		StudentName:  actor.Name,
		Answers:      req.Answers,
		SubmittedAt:  &now,
	}
	if _, err := s.assessmentRepo.CreateSubmission(ctx, nil, submission); err != nil {
		return nil, apierr.Internal(err)
	}
	s.log.Info("Assessment submitted", "assessment_id", assessment.ID, "user_id", actor.ID)
	return submission, nil
}

func (s *assessmentService) ListSubmissions(ctx context.Context, actor *types.User, id string) ([]*types.AssessmentSubmission, error) {
	if d := policy.CanReviewAssessment(actor); !d.Allowed {
		return nil, forbidden(d)
	}
	if _, err := s.assessmentRepo.GetByID(ctx, nil, id); err != nil {
		return nil, notFoundOr(err, "assessment")
	}
	rows, err := s.assessmentRepo.ListSubmissions(ctx, nil, id)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return rows, nil
}

func (s *assessmentService) AddQuestion(ctx context.Context, actor *types.User, id string, req AssessmentQuestionCreate) (*types.AssessmentQuestion, error) {
	if d := policy.CanReviewAssessment(actor); !d.Allowed {
		return nil, forbidden(d)
	}
	if _, err := s.assessmentRepo.GetByID(ctx, nil, id); err != nil {
		return nil, notFoundOr(err, "assessment")
	}
	question := &types.AssessmentQuestion{
		AssessmentID: id,
		Prompt:       req.Prompt,
		Options:      req.Options,
		Answer:       req.Answer,
	}
	if _, err := s.assessmentRepo.CreateQuestion(ctx, nil, question); err != nil {
		return nil, apierr.Internal(err)
	}
	return question, nil
}

func (s *assessmentService) ListQuestions(ctx context.Context, actor *types.User, id string) ([]*types.AssessmentQuestion, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "assessment")
	}
	snap, err := s.snapshot(ctx, actor, assessment)
	if err != nil {
		return nil, err
	}
	if d := policy.CanViewAssessment(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	rows, err := s.assessmentRepo.ListQuestions(ctx, nil, id)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	// learners never see answer keys
	if types.IsLearnerRole(actor.Role) {
		for _, q := range rows {
			q.Answer = nil
		}
	}
	return rows, nil
}
