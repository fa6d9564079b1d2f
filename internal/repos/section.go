package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/types"
)

type SectionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, section *types.Section) (*types.Section, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Section, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*types.Section, error)
	ListIDsByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]string, error)
	Update(ctx context.Context, tx *gorm.DB, section *types.Section) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error
}

type sectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionRepo(db *gorm.DB, baseLog *logger.Logger) SectionRepo {
	return &sectionRepo{db: db, log: baseLog.With("repo", "SectionRepo")}
}

func (sr *sectionRepo) Create(ctx context.Context, tx *gorm.DB, section *types.Section) (*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if err := transaction.WithContext(ctx).Create(section).Error; err != nil {
		return nil, err
	}
	return section, nil
}

func (sr *sectionRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result types.Section
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *sectionRepo) ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Section
	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *sectionRepo) ListIDsByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var ids []string
	if err := transaction.WithContext(ctx).
		Model(&types.Section{}).
		Where("course_id = ?", courseID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (sr *sectionRepo) Update(ctx context.Context, tx *gorm.DB, section *types.Section) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).Save(section).Error
}

func (sr *sectionRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Section{}).Error
}

func (sr *sectionRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Section{}).Error
}
