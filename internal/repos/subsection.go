package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/types"
)

type SubSectionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, subSection *types.SubSection) (*types.SubSection, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.SubSection, error)
	ListBySection(ctx context.Context, tx *gorm.DB, sectionID string) ([]*types.SubSection, error)
	ListIDsBySections(ctx context.Context, tx *gorm.DB, sectionIDs []string) ([]string, error)
	Update(ctx context.Context, tx *gorm.DB, subSection *types.SubSection) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	DeleteBySections(ctx context.Context, tx *gorm.DB, sectionIDs []string) error
}

type subSectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubSectionRepo(db *gorm.DB, baseLog *logger.Logger) SubSectionRepo {
	return &subSectionRepo{db: db, log: baseLog.With("repo", "SubSectionRepo")}
}

func (sr *subSectionRepo) Create(ctx context.Context, tx *gorm.DB, subSection *types.SubSection) (*types.SubSection, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if err := transaction.WithContext(ctx).Create(subSection).Error; err != nil {
		return nil, err
	}
	return subSection, nil
}

func (sr *subSectionRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.SubSection, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result types.SubSection
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *subSectionRepo) ListBySection(ctx context.Context, tx *gorm.DB, sectionID string) ([]*types.SubSection, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.SubSection
	if err := transaction.WithContext(ctx).
		Where("section_id = ?", sectionID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *subSectionRepo) ListIDsBySections(ctx context.Context, tx *gorm.DB, sectionIDs []string) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var ids []string
	if len(sectionIDs) == 0 {
		return ids, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.SubSection{}).
		Where("section_id IN ?", sectionIDs).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (sr *subSectionRepo) Update(ctx context.Context, tx *gorm.DB, subSection *types.SubSection) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).Save(subSection).Error
}

func (sr *subSectionRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.SubSection{}).Error
}

func (sr *subSectionRepo) DeleteBySections(ctx context.Context, tx *gorm.DB, sectionIDs []string) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(sectionIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("section_id IN ?", sectionIDs).
		Delete(&types.SubSection{}).Error
}
