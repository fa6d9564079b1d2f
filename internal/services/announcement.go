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

type AnnouncementCreate struct {
	Title    string  `json:"title"`
	Body     string  `json:"body"`
	CourseID *string `json:"course_id,omitempty"`
}

type AnnouncementUpdate struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
}

type AnnouncementService interface {
	List(ctx context.Context, actor *types.User, courseID *string) ([]*types.Announcement, error)
	Create(ctx context.Context, actor *types.User, req AnnouncementCreate) (*types.Announcement, error)
	Update(ctx context.Context, actor *types.User, id string, req AnnouncementUpdate) (*types.Announcement, error)
	Delete(ctx context.Context, actor *types.User, id string) error
}

type announcementService struct {
	db               *gorm.DB
	courseRepo       repos.CourseRepo
	announcementRepo repos.AnnouncementRepo
	log              *logger.Logger
}

func NewAnnouncementService(
	db *gorm.DB,
	courseRepo repos.CourseRepo,
	announcementRepo repos.AnnouncementRepo,
	baseLog *logger.Logger,
) AnnouncementService {
	return &announcementService{
		db:               db,
		courseRepo:       courseRepo,
		announcementRepo: announcementRepo,
		log:              baseLog.With("service", "AnnouncementService"),
	}
}

func (s *announcementService) List(ctx context.Context, actor *types.User, courseID *string) ([]*types.Announcement, error) {
	rows, err := s.announcementRepo.List(ctx, nil, courseID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return rows, nil
}

func (s *announcementService) Create(ctx context.Context, actor *types.User, req AnnouncementCreate) (*types.Announcement, error) {
	var snap *policy.CourseSnapshot
	if req.CourseID != nil {
		course, err := s.courseRepo.GetByID(ctx, nil, *req.CourseID)
		if err != nil {
			return nil, notFoundOr(err, "course")
		}
		snap = &policy.CourseSnapshot{ID: course.ID, OwnerID: course.InstructorID, Status: course.Status}
	}
	if d := policy.CanCreateAnnouncement(actor, snap); !d.Allowed {
		return nil, forbidden(d)
	}
	announcement := &types.Announcement{
		Title:    req.Title,
		Body:     req.Body,
		CourseID: req.CourseID,
		AuthorID: actor.ID,
	}
	if _, err := s.announcementRepo.Create(ctx, nil, announcement); err != nil {
		return nil, apierr.Internal(err)
	}
	return announcement, nil
}

func (s *announcementService) Update(ctx context.Context, actor *types.User, id string, req AnnouncementUpdate) (*types.Announcement, error) {
	announcement, err := s.announcementRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "announcement")
	}
	if d := policy.CanModifyAnnouncement(actor, announcement.AuthorID); !d.Allowed {
		return nil, forbidden(d)
	}
	if req.Title != nil {
		announcement.Title = *req.Title
	}
	if req.Body != nil {
		announcement.Body = *req.Body
	}
	if err := s.announcementRepo.Update(ctx, nil, announcement); err != nil {
		return nil, apierr.Internal(err)
	}
	return announcement, nil
}

func (s *announcementService) Delete(ctx context.Context, actor *types.User, id string) error {
	announcement, err := s.announcementRepo.GetByID(ctx, nil, id)
	if err != nil {
		return notFoundOr(err, "announcement")
	}
	if d := policy.CanModifyAnnouncement(actor, announcement.AuthorID); !d.Allowed {
		return forbidden(d)
	}
	if err := s.announcementRepo.Delete(ctx, nil, id); err != nil {
		return apierr.Internal(err)
	}
	return nil
}
