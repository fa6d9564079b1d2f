package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/types"
)

type CoInstructorRepo interface {
	Create(ctx context.Context, tx *gorm.DB, edge *types.CourseCoInstructor) (*types.CourseCoInstructor, error)
	GetByCourseAndUser(ctx context.Context, tx *gorm.DB, courseID, userID string) (*types.CourseCoInstructor, error)
	HasActive(ctx context.Context, tx *gorm.DB, courseID, userID string) (bool, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*types.CourseCoInstructor, error)
	Update(ctx context.Context, tx *gorm.DB, edge *types.CourseCoInstructor) error
	DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error
	ClearAddedBy(ctx context.Context, tx *gorm.DB, userID string) error
}

type coInstructorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCoInstructorRepo(db *gorm.DB, baseLog *logger.Logger) CoInstructorRepo {
	return &coInstructorRepo{db: db, log: baseLog.With("repo", "CoInstructorRepo")}
}

func (cr *coInstructorRepo) Create(ctx context.Context, tx *gorm.DB, edge *types.CourseCoInstructor) (*types.CourseCoInstructor, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if err := transaction.WithContext(ctx).Create(edge).Error; err != nil {
		return nil, err
	}
	return edge, nil
}

func (cr *coInstructorRepo) GetByCourseAndUser(ctx context.Context, tx *gorm.DB, courseID, userID string) (*types.CourseCoInstructor, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.CourseCoInstructor
	if err := transaction.WithContext(ctx).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *coInstructorRepo) HasActive(ctx context.Context, tx *gorm.DB, courseID, userID string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.CourseCoInstructor{}).
		Where("course_id = ? AND user_id = ? AND status = ?", courseID, userID, types.EdgeActive).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (cr *coInstructorRepo) ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*types.CourseCoInstructor, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.CourseCoInstructor
	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *coInstructorRepo) Update(ctx context.Context, tx *gorm.DB, edge *types.CourseCoInstructor) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).Save(edge).Error
}

func (cr *coInstructorRepo) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&types.CourseCoInstructor{}).Error
}

func (cr *coInstructorRepo) DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.CourseCoInstructor{}).Error
}

func (cr *coInstructorRepo) ClearAddedBy(ctx context.Context, tx *gorm.DB, userID string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.CourseCoInstructor{}).
		Where("added_by = ?", userID).
		Update("added_by", nil).Error
}
