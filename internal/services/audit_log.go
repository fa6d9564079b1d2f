package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/policy"
	"github.com/openlms/backend/internal/repos"
	"github.com/openlms/backend/internal/types"
)

type AuditLogService interface {
	List(ctx context.Context, actor *types.User) ([]*types.AuditLog, error)
}

type auditLogService struct {
	db           *gorm.DB
	auditLogRepo repos.AuditLogRepo
	log          *logger.Logger
}

func NewAuditLogService(db *gorm.DB, auditLogRepo repos.AuditLogRepo, baseLog *logger.Logger) AuditLogService {
	return &auditLogService{
		db:           db,
		auditLogRepo: auditLogRepo,
		log:          baseLog.With("service", "AuditLogService"),
	}
}

func (s *auditLogService) List(ctx context.Context, actor *types.User) ([]*types.AuditLog, error) {
	if !policy.IsAdmin(actor) {
		return nil, apierr.Forbidden("only admins can view audit logs")
	}
	rows, err := s.auditLogRepo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return rows, nil
}
