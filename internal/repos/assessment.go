package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/types"
)

type AssessmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) (*types.Assessment, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Assessment, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Assessment, error)
	ListByInstructor(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Assessment, error)
	ListByCreator(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Assessment, error)
	ListForStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*types.Assessment, error)
	ListIDsByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]string, error)
	Update(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error

	CreateQuestion(ctx context.Context, tx *gorm.DB, question *types.AssessmentQuestion) (*types.AssessmentQuestion, error)
	ListQuestions(ctx context.Context, tx *gorm.DB, assessmentID string) ([]*types.AssessmentQuestion, error)
	DeleteQuestionsByAssessments(ctx context.Context, tx *gorm.DB, assessmentIDs []string) error

	CreateSubmission(ctx context.Context, tx *gorm.DB, submission *types.AssessmentSubmission) (*types.AssessmentSubmission, error)
	ListSubmissions(ctx context.Context, tx *gorm.DB, assessmentID string) ([]*types.AssessmentSubmission, error)
	DeleteSubmissionsByAssessments(ctx context.Context, tx *gorm.DB, assessmentIDs []string) error
	DeleteSubmissionsByUser(ctx context.Context, tx *gorm.DB, userID string) error
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return &assessmentRepo{db: db, log: baseLog.With("repo", "AssessmentRepo")}
}

func (ar *assessmentRepo) Create(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if err := transaction.WithContext(ctx).Create(assessment).Error; err != nil {
		return nil, err
	}
	return assessment, nil
}

func (ar *assessmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var result types.Assessment
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *assessmentRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.Assessment
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListByInstructor returns assessments the user created or is the named
// instructor on.
func (ar *assessmentRepo) ListByInstructor(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.Assessment
	if err := transaction.WithContext(ctx).
		Where("created_by = ? OR instructor_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *assessmentRepo) ListByCreator(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.Assessment
	if err := transaction.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListForStudent joins against active access grants.
func (ar *assessmentRepo) ListForStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.Assessment
	if err := transaction.WithContext(ctx).
		Joins("JOIN assessment_access ON assessment_access.assessment_id = assessments.id").
		Where("assessment_access.student_id = ? AND assessment_access.status = ?", studentID, types.EdgeActive).
		Order("assessments.created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *assessmentRepo) ListIDsByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var ids []string
	if err := transaction.WithContext(ctx).
		Model(&types.Assessment{}).
		Where("course_id = ?", courseID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (ar *assessmentRepo) Update(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Save(assessment).Error
}

func (ar *assessmentRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Assessment{}).Error
}

func (ar *assessmentRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Assessment{}).Error
}

func (ar *assessmentRepo) CreateQuestion(ctx context.Context, tx *gorm.DB, question *types.AssessmentQuestion) (*types.AssessmentQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if err := transaction.WithContext(ctx).Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (ar *assessmentRepo) ListQuestions(ctx context.Context, tx *gorm.DB, assessmentID string) ([]*types.AssessmentQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.AssessmentQuestion
	if err := transaction.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *assessmentRepo) DeleteQuestionsByAssessments(ctx context.Context, tx *gorm.DB, assessmentIDs []string) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(assessmentIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("assessment_id IN ?", assessmentIDs).
		Delete(&types.AssessmentQuestion{}).Error
}

func (ar *assessmentRepo) CreateSubmission(ctx context.Context, tx *gorm.DB, submission *types.AssessmentSubmission) (*types.AssessmentSubmission, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if err := transaction.WithContext(ctx).Create(submission).Error; err != nil {
		return nil, err
	}
	return submission, nil
}

func (ar *assessmentRepo) ListSubmissions(ctx context.Context, tx *gorm.DB, assessmentID string) ([]*types.AssessmentSubmission, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.AssessmentSubmission
	if err := transaction.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *assessmentRepo) DeleteSubmissionsByAssessments(ctx context.Context, tx *gorm.DB, assessmentIDs []string) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(assessmentIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("assessment_id IN ?", assessmentIDs).
		Delete(&types.AssessmentSubmission{}).Error
}

func (ar *assessmentRepo) DeleteSubmissionsByUser(ctx context.Context, tx *gorm.DB, userID string) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.AssessmentSubmission{}).Error
}
