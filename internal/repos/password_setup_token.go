package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/types"
)

type PasswordSetupTokenRepo interface {
	Create(ctx context.Context, tx *gorm.DB, token *types.PasswordSetupToken) (*types.PasswordSetupToken, error)
	GetByHash(ctx context.Context, tx *gorm.DB, tokenHash string) (*types.PasswordSetupToken, error)
	MarkUsed(ctx context.Context, tx *gorm.DB, id string, usedAt time.Time) error
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error
}

type passwordSetupTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPasswordSetupTokenRepo(db *gorm.DB, baseLog *logger.Logger) PasswordSetupTokenRepo {
	return &passwordSetupTokenRepo{db: db, log: baseLog.With("repo", "PasswordSetupTokenRepo")}
}

func (pr *passwordSetupTokenRepo) Create(ctx context.Context, tx *gorm.DB, token *types.PasswordSetupToken) (*types.PasswordSetupToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

func (pr *passwordSetupTokenRepo) GetByHash(ctx context.Context, tx *gorm.DB, tokenHash string) (*types.PasswordSetupToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result types.PasswordSetupToken
	if err := transaction.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *passwordSetupTokenRepo) MarkUsed(ctx context.Context, tx *gorm.DB, id string, usedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.PasswordSetupToken{}).
		Where("id = ?", id).
		Update("used_at", usedAt).Error
}

func (pr *passwordSetupTokenRepo) DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.PasswordSetupToken{}).Error
}
