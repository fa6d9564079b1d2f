package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/types"
)

type MentorCourseAssignmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assignment *types.MentorCourseAssignment) (*types.MentorCourseAssignment, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.MentorCourseAssignment, error)
	GetByMentorAndCourse(ctx context.Context, tx *gorm.DB, mentorID, courseID string) (*types.MentorCourseAssignment, error)
	List(ctx context.Context, tx *gorm.DB, mentorID, courseID, status *string) ([]*types.MentorCourseAssignment, error)
	Update(ctx context.Context, tx *gorm.DB, assignment *types.MentorCourseAssignment) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error
	DeleteByMentor(ctx context.Context, tx *gorm.DB, mentorID string) error
	ClearAssignedBy(ctx context.Context, tx *gorm.DB, userID string) error
}

type mentorCourseAssignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMentorCourseAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) MentorCourseAssignmentRepo {
	return &mentorCourseAssignmentRepo{db: db, log: baseLog.With("repo", "MentorCourseAssignmentRepo")}
}

func (mr *mentorCourseAssignmentRepo) Create(ctx context.Context, tx *gorm.DB, assignment *types.MentorCourseAssignment) (*types.MentorCourseAssignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if err := transaction.WithContext(ctx).Create(assignment).Error; err != nil {
		return nil, err
	}
	return assignment, nil
}

func (mr *mentorCourseAssignmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.MentorCourseAssignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var result types.MentorCourseAssignment
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (mr *mentorCourseAssignmentRepo) GetByMentorAndCourse(ctx context.Context, tx *gorm.DB, mentorID, courseID string) (*types.MentorCourseAssignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var result types.MentorCourseAssignment
	if err := transaction.WithContext(ctx).
		Where("mentor_id = ? AND course_id = ?", mentorID, courseID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (mr *mentorCourseAssignmentRepo) List(ctx context.Context, tx *gorm.DB, mentorID, courseID, status *string) ([]*types.MentorCourseAssignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	query := transaction.WithContext(ctx).Order("assigned_at DESC")
	if mentorID != nil {
		query = query.Where("mentor_id = ?", *mentorID)
	}
	if courseID != nil {
		query = query.Where("course_id = ?", *courseID)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var results []*types.MentorCourseAssignment
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *mentorCourseAssignmentRepo) Update(ctx context.Context, tx *gorm.DB, assignment *types.MentorCourseAssignment) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).Save(assignment).Error
}

func (mr *mentorCourseAssignmentRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.MentorCourseAssignment{}).Error
}

func (mr *mentorCourseAssignmentRepo) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&types.MentorCourseAssignment{}).Error
}

func (mr *mentorCourseAssignmentRepo) DeleteByMentor(ctx context.Context, tx *gorm.DB, mentorID string) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Where("mentor_id = ?", mentorID).
		Delete(&types.MentorCourseAssignment{}).Error
}

func (mr *mentorCourseAssignmentRepo) ClearAssignedBy(ctx context.Context, tx *gorm.DB, userID string) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.MentorCourseAssignment{}).
		Where("assigned_by = ?", userID).
		Update("assigned_by", nil).Error
}
