package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/types"
)

type QuizAttemptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, attempt *types.ModuleQuizAttempt) (*types.ModuleQuizAttempt, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.ModuleQuizAttempt, error)
	Update(ctx context.Context, tx *gorm.DB, attempt *types.ModuleQuizAttempt) error
	ListByModuleAndUser(ctx context.Context, tx *gorm.DB, moduleID, userID string) ([]*types.ModuleQuizAttempt, error)
	ListByModule(ctx context.Context, tx *gorm.DB, moduleID string) ([]*types.ModuleQuizAttempt, error)
	DeleteByModules(ctx context.Context, tx *gorm.DB, moduleIDs []string) error
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error
}

type quizAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return &quizAttemptRepo{db: db, log: baseLog.With("repo", "QuizAttemptRepo")}
}

func (qr *quizAttemptRepo) Create(ctx context.Context, tx *gorm.DB, attempt *types.ModuleQuizAttempt) (*types.ModuleQuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	if err := transaction.WithContext(ctx).Create(attempt).Error; err != nil {
		return nil, err
	}
	return attempt, nil
}

func (qr *quizAttemptRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.ModuleQuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var result types.ModuleQuizAttempt
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (qr *quizAttemptRepo) Update(ctx context.Context, tx *gorm.DB, attempt *types.ModuleQuizAttempt) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	return transaction.WithContext(ctx).Save(attempt).Error
}

func (qr *quizAttemptRepo) ListByModuleAndUser(ctx context.Context, tx *gorm.DB, moduleID, userID string) ([]*types.ModuleQuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var results []*types.ModuleQuizAttempt
	if err := transaction.WithContext(ctx).
		Where("module_id = ? AND user_id = ?", moduleID, userID).
		Order("started_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *quizAttemptRepo) ListByModule(ctx context.Context, tx *gorm.DB, moduleID string) ([]*types.ModuleQuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var results []*types.ModuleQuizAttempt
	if err := transaction.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("started_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *quizAttemptRepo) DeleteByModules(ctx context.Context, tx *gorm.DB, moduleIDs []string) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	if len(moduleIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("module_id IN ?", moduleIDs).
		Delete(&types.ModuleQuizAttempt{}).Error
}

func (qr *quizAttemptRepo) DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.ModuleQuizAttempt{}).Error
}
