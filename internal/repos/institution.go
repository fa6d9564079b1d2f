package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/types"
)

type InstitutionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, institution *types.Institution) (*types.Institution, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Institution, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Institution, error)
	Update(ctx context.Context, tx *gorm.DB, institution *types.Institution) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
}

type institutionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInstitutionRepo(db *gorm.DB, baseLog *logger.Logger) InstitutionRepo {
	return &institutionRepo{db: db, log: baseLog.With("repo", "InstitutionRepo")}
}

func (ir *institutionRepo) Create(ctx context.Context, tx *gorm.DB, institution *types.Institution) (*types.Institution, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if err := transaction.WithContext(ctx).Create(institution).Error; err != nil {
		return nil, err
	}
	return institution, nil
}

func (ir *institutionRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Institution, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var result types.Institution
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ir *institutionRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Institution, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.Institution
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *institutionRepo) Update(ctx context.Context, tx *gorm.DB, institution *types.Institution) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	return transaction.WithContext(ctx).Save(institution).Error
}

func (ir *institutionRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Institution{}).Error
}
