package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/types"
)

type EnrollmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) (*types.Enrollment, error)
	GetByCourseAndUser(ctx context.Context, tx *gorm.DB, courseID, userID string) (*types.Enrollment, error)
	Exists(ctx context.Context, tx *gorm.DB, courseID, userID string) (bool, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Enrollment, error)
	ListByCourseOwner(ctx context.Context, tx *gorm.DB, instructorID string) ([]*types.Enrollment, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Enrollment, error)
	DeleteByCourseAndUser(ctx context.Context, tx *gorm.DB, courseID, userID string) error
	DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	CountByCourseOwner(ctx context.Context, tx *gorm.DB, instructorID string) (int64, error)
	CountDistinctUsersByCourseOwner(ctx context.Context, tx *gorm.DB, instructorID string) (int64, error)
	CourseIDsWithUser(ctx context.Context, tx *gorm.DB, userID string, courseIDs []string) ([]string, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (er *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	if err := transaction.WithContext(ctx).Create(enrollment).Error; err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (er *enrollmentRepo) GetByCourseAndUser(ctx context.Context, tx *gorm.DB, courseID, userID string) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var result types.Enrollment
	if err := transaction.WithContext(ctx).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (er *enrollmentRepo) Exists(ctx context.Context, tx *gorm.DB, courseID, userID string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Enrollment{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (er *enrollmentRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var results []*types.Enrollment
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *enrollmentRepo) ListByCourseOwner(ctx context.Context, tx *gorm.DB, instructorID string) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var results []*types.Enrollment
	if err := transaction.WithContext(ctx).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.instructor_id = ?", instructorID).
		Order("enrollments.created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *enrollmentRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var results []*types.Enrollment
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *enrollmentRepo) DeleteByCourseAndUser(ctx context.Context, tx *gorm.DB, courseID, userID string) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	return transaction.WithContext(ctx).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Delete(&types.Enrollment{}).Error
}

func (er *enrollmentRepo) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	return transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&types.Enrollment{}).Error
}

func (er *enrollmentRepo) DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.Enrollment{}).Error
}

func (er *enrollmentRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Enrollment{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (er *enrollmentRepo) CountByCourseOwner(ctx context.Context, tx *gorm.DB, instructorID string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.instructor_id = ?", instructorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (er *enrollmentRepo) CountDistinctUsersByCourseOwner(ctx context.Context, tx *gorm.DB, instructorID string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Enrollment{}).
		Distinct("enrollments.user_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.instructor_id = ?", instructorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CourseIDsWithUser returns the subset of courseIDs the user is enrolled in.
func (er *enrollmentRepo) CourseIDsWithUser(ctx context.Context, tx *gorm.DB, userID string, courseIDs []string) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var ids []string
	if len(courseIDs) == 0 {
		return ids, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Enrollment{}).
		Where("user_id = ? AND course_id IN ?", userID, courseIDs).
		Pluck("course_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
