package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/types"
)

type CourseProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, progress *types.CourseProgress) (*types.CourseProgress, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.CourseProgress, error)
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID string) (*types.CourseProgress, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.CourseProgress, error)
	ListByCourseOwner(ctx context.Context, tx *gorm.DB, instructorID string) ([]*types.CourseProgress, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.CourseProgress, error)
	Update(ctx context.Context, tx *gorm.DB, progress *types.CourseProgress) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error
}

type courseProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseProgressRepo(db *gorm.DB, baseLog *logger.Logger) CourseProgressRepo {
	return &courseProgressRepo{db: db, log: baseLog.With("repo", "CourseProgressRepo")}
}

func (pr *courseProgressRepo) Create(ctx context.Context, tx *gorm.DB, progress *types.CourseProgress) (*types.CourseProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).Create(progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

func (pr *courseProgressRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.CourseProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result types.CourseProgress
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *courseProgressRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID string) (*types.CourseProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result types.CourseProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *courseProgressRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.CourseProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.CourseProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *courseProgressRepo) ListByCourseOwner(ctx context.Context, tx *gorm.DB, instructorID string) ([]*types.CourseProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.CourseProgress
	if err := transaction.WithContext(ctx).
		Joins("JOIN courses ON courses.id = course_progress.course_id").
		Where("courses.instructor_id = ?", instructorID).
		Order("course_progress.updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *courseProgressRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.CourseProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.CourseProgress
	if err := transaction.WithContext(ctx).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *courseProgressRepo) Update(ctx context.Context, tx *gorm.DB, progress *types.CourseProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).Save(progress).Error
}

func (pr *courseProgressRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.CourseProgress{}).Error
}

func (pr *courseProgressRepo) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&types.CourseProgress{}).Error
}

func (pr *courseProgressRepo) DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.CourseProgress{}).Error
}
