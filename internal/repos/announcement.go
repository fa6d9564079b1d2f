package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/types"
)

type AnnouncementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, announcement *types.Announcement) (*types.Announcement, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Announcement, error)
	List(ctx context.Context, tx *gorm.DB, courseID *string) ([]*types.Announcement, error)
	Update(ctx context.Context, tx *gorm.DB, announcement *types.Announcement) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error
}

type announcementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnnouncementRepo(db *gorm.DB, baseLog *logger.Logger) AnnouncementRepo {
	return &announcementRepo{db: db, log: baseLog.With("repo", "AnnouncementRepo")}
}

func (ar *announcementRepo) Create(ctx context.Context, tx *gorm.DB, announcement *types.Announcement) (*types.Announcement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if err := transaction.WithContext(ctx).Create(announcement).Error; err != nil {
		return nil, err
	}
	return announcement, nil
}

func (ar *announcementRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Announcement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var result types.Announcement
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *announcementRepo) List(ctx context.Context, tx *gorm.DB, courseID *string) ([]*types.Announcement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	query := transaction.WithContext(ctx).Order("created_at DESC")
	if courseID != nil {
		query = query.Where("course_id = ?", *courseID)
	}
	var results []*types.Announcement
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *announcementRepo) Update(ctx context.Context, tx *gorm.DB, announcement *types.Announcement) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Save(announcement).Error
}

func (ar *announcementRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Announcement{}).Error
}

func (ar *announcementRepo) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&types.Announcement{}).Error
}
