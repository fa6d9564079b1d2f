package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/types"
)

type MentorAssignmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assignment *types.MentorAssignment) (*types.MentorAssignment, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.MentorAssignment, error)
	GetByStudentAndMentor(ctx context.Context, tx *gorm.DB, studentID, mentorID string) (*types.MentorAssignment, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.MentorAssignment, error)
	ListByMentor(ctx context.Context, tx *gorm.DB, mentorID string) ([]*types.MentorAssignment, error)
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*types.MentorAssignment, error)
	Update(ctx context.Context, tx *gorm.DB, assignment *types.MentorAssignment) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error
	ClearAssignedBy(ctx context.Context, tx *gorm.DB, userID string) error
}

type mentorAssignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMentorAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) MentorAssignmentRepo {
	return &mentorAssignmentRepo{db: db, log: baseLog.With("repo", "MentorAssignmentRepo")}
}

func (mr *mentorAssignmentRepo) Create(ctx context.Context, tx *gorm.DB, assignment *types.MentorAssignment) (*types.MentorAssignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if err := transaction.WithContext(ctx).Create(assignment).Error; err != nil {
		return nil, err
	}
	return assignment, nil
}

func (mr *mentorAssignmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.MentorAssignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var result types.MentorAssignment
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (mr *mentorAssignmentRepo) GetByStudentAndMentor(ctx context.Context, tx *gorm.DB, studentID, mentorID string) (*types.MentorAssignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var result types.MentorAssignment
	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND mentor_id = ?", studentID, mentorID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (mr *mentorAssignmentRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.MentorAssignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.MentorAssignment
	if err := transaction.WithContext(ctx).
		Order("assigned_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *mentorAssignmentRepo) ListByMentor(ctx context.Context, tx *gorm.DB, mentorID string) ([]*types.MentorAssignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.MentorAssignment
	if err := transaction.WithContext(ctx).
		Where("mentor_id = ?", mentorID).
		Order("assigned_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *mentorAssignmentRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*types.MentorAssignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.MentorAssignment
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("assigned_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *mentorAssignmentRepo) Update(ctx context.Context, tx *gorm.DB, assignment *types.MentorAssignment) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).Save(assignment).Error
}

func (mr *mentorAssignmentRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.MentorAssignment{}).Error
}

func (mr *mentorAssignmentRepo) DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Where("student_id = ? OR mentor_id = ?", userID, userID).
		Delete(&types.MentorAssignment{}).Error
}

func (mr *mentorAssignmentRepo) ClearAssignedBy(ctx context.Context, tx *gorm.DB, userID string) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.MentorAssignment{}).
		Where("assigned_by = ?", userID).
		Update("assigned_by", nil).Error
}
