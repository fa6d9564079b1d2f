package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/types"
)

type InvitationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, invitation *types.Invitation) (*types.Invitation, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Invitation, error)
	GetPendingByCourseAndEmail(ctx context.Context, tx *gorm.DB, courseID, email string) (*types.Invitation, error)
	List(ctx context.Context, tx *gorm.DB, status *string) ([]*types.Invitation, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID string, status *string) ([]*types.Invitation, error)
	ListForUser(ctx context.Context, tx *gorm.DB, userID, email string, status *string) ([]*types.Invitation, error)
	Update(ctx context.Context, tx *gorm.DB, invitation *types.Invitation) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error
	ClearInvitee(ctx context.Context, tx *gorm.DB, userID string) error
}

type invitationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInvitationRepo(db *gorm.DB, baseLog *logger.Logger) InvitationRepo {
	return &invitationRepo{db: db, log: baseLog.With("repo", "InvitationRepo")}
}

func (ir *invitationRepo) Create(ctx context.Context, tx *gorm.DB, invitation *types.Invitation) (*types.Invitation, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if err := transaction.WithContext(ctx).Create(invitation).Error; err != nil {
		return nil, err
	}
	return invitation, nil
}

func (ir *invitationRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Invitation, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var result types.Invitation
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ir *invitationRepo) GetPendingByCourseAndEmail(ctx context.Context, tx *gorm.DB, courseID, email string) (*types.Invitation, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var result types.Invitation
	if err := transaction.WithContext(ctx).
		Where("course_id = ? AND invitee_email = ? AND status = ?", courseID, email, types.InvitationPending).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ir *invitationRepo) List(ctx context.Context, tx *gorm.DB, status *string) ([]*types.Invitation, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	query := transaction.WithContext(ctx).Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var results []*types.Invitation
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *invitationRepo) ListByCourse(ctx context.Context, tx *gorm.DB, courseID string, status *string) ([]*types.Invitation, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	query := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var results []*types.Invitation
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListForUser returns invitations the user sent plus invitations addressed to
// them by id or email.
func (ir *invitationRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID, email string, status *string) ([]*types.Invitation, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	query := transaction.WithContext(ctx).
		Where("inviter_id = ? OR invitee_id = ? OR invitee_email = ?", userID, userID, email).
		Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var results []*types.Invitation
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *invitationRepo) Update(ctx context.Context, tx *gorm.DB, invitation *types.Invitation) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	return transaction.WithContext(ctx).Save(invitation).Error
}

func (ir *invitationRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Invitation{}).Error
}

func (ir *invitationRepo) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	return transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&types.Invitation{}).Error
}

func (ir *invitationRepo) ClearInvitee(ctx context.Context, tx *gorm.DB, userID string) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Invitation{}).
		Where("invitee_id = ?", userID).
		Update("invitee_id", nil).Error
}
