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

type InstitutionCreate struct {
	Name         string `json:"name"`
	Location     string `json:"location"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
}

type InstitutionUpdate struct {
	Name         *string `json:"name,omitempty"`
	Location     *string `json:"location,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`
}

type InstitutionService interface {
	List(ctx context.Context, actor *types.User) ([]*types.Institution, error)
	Get(ctx context.Context, actor *types.User, id string) (*types.Institution, error)
	Create(ctx context.Context, actor *types.User, req InstitutionCreate) (*types.Institution, error)
	Update(ctx context.Context, actor *types.User, id string, req InstitutionUpdate) (*types.Institution, error)
	Delete(ctx context.Context, actor *types.User, id string) error
}

type institutionService struct {
	db              *gorm.DB
	institutionRepo repos.InstitutionRepo
	log             *logger.Logger
}

func NewInstitutionService(db *gorm.DB, institutionRepo repos.InstitutionRepo, baseLog *logger.Logger) InstitutionService {
	return &institutionService{
		db:              db,
		institutionRepo: institutionRepo,
		log:             baseLog.With("service", "InstitutionService"),
	}
}

func (s *institutionService) List(ctx context.Context, actor *types.User) ([]*types.Institution, error) {
	rows, err := s.institutionRepo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return rows, nil
}

func (s *institutionService) Get(ctx context.Context, actor *types.User, id string) (*types.Institution, error) {
	row, err := s.institutionRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "institution")
	}
	return row, nil
}

func (s *institutionService) Create(ctx context.Context, actor *types.User, req InstitutionCreate) (*types.Institution, error) {
	if !policy.IsAdmin(actor) {
		return nil, apierr.Forbidden("only admins can create institutions")
	}
	institution := &types.Institution{
		Name:         req.Name,
		Location:     req.Location,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		CreatedBy:    strp(actor.ID),
	}
	if _, err := s.institutionRepo.Create(ctx, nil, institution); err != nil {
		return nil, apierr.Internal(err)
	}
	return institution, nil
}

func (s *institutionService) Update(ctx context.Context, actor *types.User, id string, req InstitutionUpdate) (*types.Institution, error) {
	if !policy.IsAdmin(actor) {
		return nil, apierr.Forbidden("only admins can update institutions")
	}
	institution, err := s.institutionRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "institution")
	}
	if req.Name != nil {
		institution.Name = *req.Name
	}
	if req.Location != nil {
		institution.Location = *req.Location
	}
	if req.ContactEmail != nil {
		institution.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		institution.ContactPhone = *req.ContactPhone
	}
	if err := s.institutionRepo.Update(ctx, nil, institution); err != nil {
		return nil, apierr.Internal(err)
	}
	return institution, nil
}

func (s *institutionService) Delete(ctx context.Context, actor *types.User, id string) error {
	if !policy.IsAdmin(actor) {
		return apierr.Forbidden("only admins can delete institutions")
	}
	if _, err := s.institutionRepo.GetByID(ctx, nil, id); err != nil {
		return notFoundOr(err, "institution")
	}
	if err := s.institutionRepo.Delete(ctx, nil, id); err != nil {
		return apierr.Internal(err)
	}
	return nil
}
