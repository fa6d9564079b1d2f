package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/types"
)

type ModuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, module *types.Module) (*types.Module, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Module, error)
	ListBySection(ctx context.Context, tx *gorm.DB, sectionID string) ([]*types.Module, error)
	ListBySubSection(ctx context.Context, tx *gorm.DB, subSectionID string) ([]*types.Module, error)
	ListIDsBySections(ctx context.Context, tx *gorm.DB, sectionIDs []string) ([]string, error)
	Update(ctx context.Context, tx *gorm.DB, module *types.Module) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	DeleteBySections(ctx context.Context, tx *gorm.DB, sectionIDs []string) error
	DeleteBySubSections(ctx context.Context, tx *gorm.DB, subSectionIDs []string) error
}

type moduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleRepo(db *gorm.DB, baseLog *logger.Logger) ModuleRepo {
	return &moduleRepo{db: db, log: baseLog.With("repo", "ModuleRepo")}
}

func (mr *moduleRepo) Create(ctx context.Context, tx *gorm.DB, module *types.Module) (*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if err := transaction.WithContext(ctx).Create(module).Error; err != nil {
		return nil, err
	}
	return module, nil
}

func (mr *moduleRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var result types.Module
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (mr *moduleRepo) ListBySection(ctx context.Context, tx *gorm.DB, sectionID string) ([]*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.Module
	if err := transaction.WithContext(ctx).
		Where("section_id = ?", sectionID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *moduleRepo) ListBySubSection(ctx context.Context, tx *gorm.DB, subSectionID string) ([]*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.Module
	if err := transaction.WithContext(ctx).
		Where("sub_section_id = ?", subSectionID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *moduleRepo) ListIDsBySections(ctx context.Context, tx *gorm.DB, sectionIDs []string) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var ids []string
	if len(sectionIDs) == 0 {
		return ids, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Module{}).
		Where("section_id IN ?", sectionIDs).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (mr *moduleRepo) Update(ctx context.Context, tx *gorm.DB, module *types.Module) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).Save(module).Error
}

func (mr *moduleRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Module{}).Error
}

func (mr *moduleRepo) DeleteBySections(ctx context.Context, tx *gorm.DB, sectionIDs []string) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(sectionIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("section_id IN ?", sectionIDs).
		Delete(&types.Module{}).Error
}

func (mr *moduleRepo) DeleteBySubSections(ctx context.Context, tx *gorm.DB, subSectionIDs []string) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(subSectionIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("sub_section_id IN ?", subSectionIDs).
		Delete(&types.Module{}).Error
}
