package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/types"
)

type CourseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, course *types.Course) (*types.Course, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Course, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Course, error)
	ListForInstructor(ctx context.Context, tx *gorm.DB, instructorID string) ([]*types.Course, error)
	ListForLearner(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *types.Course) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	CountOwnedBy(ctx context.Context, tx *gorm.DB, instructorID string) (int64, error)
	GetOwnedByIn(ctx context.Context, tx *gorm.DB, instructorID string, courseIDs []string) ([]*types.Course, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (cr *courseRepo) Create(ctx context.Context, tx *gorm.DB, course *types.Course) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if err := transaction.WithContext(ctx).Create(course).Error; err != nil {
		return nil, err
	}
	return course, nil
}

func (cr *courseRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.Course
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *courseRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Course
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListForInstructor returns courses the instructor owns plus courses they
// actively co-instruct.
func (cr *courseRepo) ListForInstructor(ctx context.Context, tx *gorm.DB, instructorID string) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Course
	if err := transaction.WithContext(ctx).
		Distinct("courses.*").
		Joins("LEFT JOIN course_co_instructors ON course_co_instructors.course_id = courses.id AND course_co_instructors.user_id = ? AND course_co_instructors.status = ?", instructorID, types.EdgeActive).
		Where("courses.instructor_id = ? OR course_co_instructors.id IS NOT NULL", instructorID).
		Order("courses.created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListForLearner returns published courses plus courses the learner is
// enrolled in, whatever their status.
func (cr *courseRepo) ListForLearner(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Course
	if err := transaction.WithContext(ctx).
		Distinct("courses.*").
		Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id AND enrollments.user_id = ?", userID).
		Where("courses.status = ? OR enrollments.id IS NOT NULL", types.CoursePublished).
		Order("courses.created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *courseRepo) Update(ctx context.Context, tx *gorm.DB, course *types.Course) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).Save(course).Error
}

func (cr *courseRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Course{}).Error
}

func (cr *courseRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Course{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (cr *courseRepo) CountOwnedBy(ctx context.Context, tx *gorm.DB, instructorID string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Course{}).
		Where("instructor_id = ?", instructorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (cr *courseRepo) GetOwnedByIn(ctx context.Context, tx *gorm.DB, instructorID string, courseIDs []string) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Course
	if len(courseIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("instructor_id = ? AND id IN ?", instructorID, courseIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
