package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/types"
)

type AssessmentAccessRepo interface {
	Create(ctx context.Context, tx *gorm.DB, access *types.AssessmentAccess) (*types.AssessmentAccess, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.AssessmentAccess, error)
	GetByStudentAndAssessment(ctx context.Context, tx *gorm.DB, studentID, assessmentID string) (*types.AssessmentAccess, error)
	HasActive(ctx context.Context, tx *gorm.DB, studentID, assessmentID string) (bool, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.AssessmentAccess, error)
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*types.AssessmentAccess, error)
	ListByMentorOrGranter(ctx context.Context, tx *gorm.DB, userID string) ([]*types.AssessmentAccess, error)
	Update(ctx context.Context, tx *gorm.DB, access *types.AssessmentAccess) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	DeleteByAssessments(ctx context.Context, tx *gorm.DB, assessmentIDs []string) error
	DeleteByStudent(ctx context.Context, tx *gorm.DB, studentID string) error
	ClearGrantedBy(ctx context.Context, tx *gorm.DB, userID string) error
}

type assessmentAccessRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentAccessRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentAccessRepo {
	return &assessmentAccessRepo{db: db, log: baseLog.With("repo", "AssessmentAccessRepo")}
}

func (ar *assessmentAccessRepo) Create(ctx context.Context, tx *gorm.DB, access *types.AssessmentAccess) (*types.AssessmentAccess, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if err := transaction.WithContext(ctx).Create(access).Error; err != nil {
		return nil, err
	}
	return access, nil
}

func (ar *assessmentAccessRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.AssessmentAccess, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var result types.AssessmentAccess
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *assessmentAccessRepo) GetByStudentAndAssessment(ctx context.Context, tx *gorm.DB, studentID, assessmentID string) (*types.AssessmentAccess, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var result types.AssessmentAccess
	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND assessment_id = ?", studentID, assessmentID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *assessmentAccessRepo) HasActive(ctx context.Context, tx *gorm.DB, studentID, assessmentID string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.AssessmentAccess{}).
		Where("student_id = ? AND assessment_id = ? AND status = ?", studentID, assessmentID, types.EdgeActive).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ar *assessmentAccessRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.AssessmentAccess, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.AssessmentAccess
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *assessmentAccessRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*types.AssessmentAccess, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.AssessmentAccess
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *assessmentAccessRepo) ListByMentorOrGranter(ctx context.Context, tx *gorm.DB, userID string) ([]*types.AssessmentAccess, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.AssessmentAccess
	if err := transaction.WithContext(ctx).
		Where("mentor_id = ? OR granted_by = ?", userID, userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *assessmentAccessRepo) Update(ctx context.Context, tx *gorm.DB, access *types.AssessmentAccess) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Save(access).Error
}

func (ar *assessmentAccessRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.AssessmentAccess{}).Error
}

func (ar *assessmentAccessRepo) DeleteByAssessments(ctx context.Context, tx *gorm.DB, assessmentIDs []string) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(assessmentIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("assessment_id IN ?", assessmentIDs).
		Delete(&types.AssessmentAccess{}).Error
}

func (ar *assessmentAccessRepo) DeleteByStudent(ctx context.Context, tx *gorm.DB, studentID string) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&types.AssessmentAccess{}).Error
}

func (ar *assessmentAccessRepo) ClearGrantedBy(ctx context.Context, tx *gorm.DB, userID string) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Model(&types.AssessmentAccess{}).
		Where("granted_by = ?", userID).
		Update("granted_by", nil).Error
}
