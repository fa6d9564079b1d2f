package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/mail"
	"github.com/openlms/backend/internal/policy"
	"github.com/openlms/backend/internal/repos"
	"github.com/openlms/backend/internal/types"
)

const setupTokenTTL = 48 * time.Hour

type UserUpdate struct {
	Name          *string   `json:"name,omitempty"`
	Role          *string   `json:"role,omitempty"`
	Status        *string   `json:"status,omitempty"`
	InstitutionID *string   `json:"institution_id,omitempty"`
	MentorID      *string   `json:"mentor_id,omitempty"`
	BannedFrom    *[]string `json:"banned_from,omitempty"`
	Reason        *string   `json:"reason,omitempty"`
}

type UserListFilter struct {
	Role *string
	IDs  []string
}

type ProvisionUserRequest struct {
	Email         string  `json:"email"`
	Name          *string `json:"name,omitempty"`
	Role          string  `json:"role"`
	InstitutionID *string `json:"institution_id,omitempty"`
	MentorID      *string `json:"mentor_id,omitempty"`
}

type UserService interface {
	List(ctx context.Context, actor *types.User, filter UserListFilter) ([]*types.User, error)
	Get(ctx context.Context, actor *types.User, id string) (*types.User, error)
	UpdateMe(ctx context.Context, actor *types.User, update UserUpdate) (*types.User, error)
	Update(ctx context.Context, actor *types.User, id string, update UserUpdate) (*types.User, error)
	Delete(ctx context.Context, actor *types.User, id string) error
	Provision(ctx context.Context, actor *types.User, req ProvisionUserRequest) (*types.User, error)
}

type userService struct {
	db               *gorm.DB
	userRepo         repos.UserRepo
	tokenRepo        repos.PasswordSetupTokenRepo
	courseRepo       repos.CourseRepo
	enrollmentRepo   repos.EnrollmentRepo
	coInstructorRepo repos.CoInstructorRepo
	invitationRepo   repos.InvitationRepo
	mentorRepo       repos.MentorAssignmentRepo
	mentorCourseRepo repos.MentorCourseAssignmentRepo
	accessRepo       repos.AssessmentAccessRepo
	assessmentRepo   repos.AssessmentRepo
	attemptRepo      repos.QuizAttemptRepo
	progressRepo     repos.CourseProgressRepo
	auditRepo        repos.AuditLogRepo
	mailClient       mail.Client
	frontendBaseURL  string
	log              *logger.Logger
}

func NewUserService(
	db *gorm.DB,
	userRepo repos.UserRepo,
	tokenRepo repos.PasswordSetupTokenRepo,
	courseRepo repos.CourseRepo,
	enrollmentRepo repos.EnrollmentRepo,
	coInstructorRepo repos.CoInstructorRepo,
	invitationRepo repos.InvitationRepo,
	mentorRepo repos.MentorAssignmentRepo,
	mentorCourseRepo repos.MentorCourseAssignmentRepo,
	accessRepo repos.AssessmentAccessRepo,
	assessmentRepo repos.AssessmentRepo,
	attemptRepo repos.QuizAttemptRepo,
	progressRepo repos.CourseProgressRepo,
	auditRepo repos.AuditLogRepo,
	mailClient mail.Client,
	frontendBaseURL string,
	baseLog *logger.Logger,
) UserService {
	return &userService{
		db:               db,
		userRepo:         userRepo,
		tokenRepo:        tokenRepo,
		courseRepo:       courseRepo,
		enrollmentRepo:   enrollmentRepo,
		coInstructorRepo: coInstructorRepo,
		invitationRepo:   invitationRepo,
		mentorRepo:       mentorRepo,
		mentorCourseRepo: mentorCourseRepo,
		accessRepo:       accessRepo,
		assessmentRepo:   assessmentRepo,
		attemptRepo:      attemptRepo,
		progressRepo:     progressRepo,
		auditRepo:        auditRepo,
		mailClient:       mailClient,
		frontendBaseURL:  frontendBaseURL,
		log:              baseLog.With("service", "UserService"),
	}
}

func (s *userService) List(ctx context.Context, actor *types.User, filter UserListFilter) ([]*types.User, error) {
	if !policy.IsAdmin(actor) && !types.IsInstructorRole(actor.Role) {
		return nil, apierr.Forbidden("not authorized to list users")
	}
	users, err := s.userRepo.List(ctx, nil, filter.Role, filter.IDs)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, actor *types.User, id string) (*types.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	if d := policy.CanViewUser(actor, id); !d.Allowed {
		return nil, forbidden(d)
	}
	return user, nil
}

func (s *userService) UpdateMe(ctx context.Context, actor *types.User, update UserUpdate) (*types.User, error) {
	if d := policy.CanUpdateSelf(updateFields(update)); !d.Allowed {
		return nil, forbidden(d)
	}
	user, err := s.userRepo.GetByID(ctx, nil, actor.ID)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	if update.Name != nil {
		user.Name = update.Name
	}
	if update.InstitutionID != nil {
		user.InstitutionID = update.InstitutionID
	}
	if err := s.userRepo.Update(ctx, nil, user); err != nil {
		return nil, apierr.Internal(err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, actor *types.User, id string, update UserUpdate) (*types.User, error) {
	var updated *types.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := s.userRepo.GetByID(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "user")
		}
		fields := updateFields(update)
		// a well-formed ban request against a non-learner is a state error,
		// not a permission one
		if !policy.IsAdmin(actor) && actor.Role == types.RoleInstructor &&
			fields.BannedFrom && !fields.Role && !fields.Status && !fields.Other &&
			!types.IsLearnerRole(target.Role) {
			return apierr.InvalidState("can only ban students or guests")
		}
		if d := policy.CanUpdateUser(actor, target, fields); !d.Allowed {
			return forbidden(d)
		}

		if update.BannedFrom != nil && !policy.IsAdmin(actor) {
			if err := s.validateBanList(ctx, tx, actor, target, *update.BannedFrom); err != nil {
				return err
			}
		}

		oldRole := target.Role
		if update.Name != nil {
			target.Name = update.Name
		}
		if update.Role != nil {
			target.Role = *update.Role
		}
		if update.Status != nil {
			target.Status = *update.Status
		}
		if update.InstitutionID != nil {
			target.InstitutionID = update.InstitutionID
		}
		if update.MentorID != nil {
			target.MentorID = update.MentorID
		}
		if update.BannedFrom != nil {
			target.BannedFrom = datatypes.JSONSlice[string](*update.BannedFrom)
		}
		if err := s.userRepo.Update(ctx, tx, target); err != nil {
			return apierr.Internal(err)
		}

		if update.Role != nil && *update.Role != oldRole && policy.IsAdmin(actor) {
			entry := &types.AuditLog{
				Type:            "role_change",
				AdminEmail:      strp(actor.Email),
				TargetUserEmail: strp(target.Email),
				OldRole:         strp(oldRole),
				NewRole:         strp(target.Role),
				Reason:          update.Reason,
			}
			if _, err := s.auditRepo.Create(ctx, tx, entry); err != nil {
				return apierr.Internal(err)
			}
		}
		updated = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// validateBanList enforces the all-or-nothing ban contract: every course must
// be owned by the acting instructor and the target must be enrolled in each.
func (s *userService) validateBanList(ctx context.Context, tx *gorm.DB, actor, target *types.User, courseIDs []string) error {
	if len(courseIDs) == 0 {
		return nil
	}
	owned, err := s.courseRepo.GetOwnedByIn(ctx, tx, actor.ID, courseIDs)
	if err != nil {
		return apierr.Internal(err)
	}
	if len(owned) != len(uniqueStrings(courseIDs)) {
		return apierr.Forbidden("can only ban students from your own courses")
	}
	enrolledIn, err := s.enrollmentRepo.CourseIDsWithUser(ctx, tx, target.ID, courseIDs)
	if err != nil {
		return apierr.Internal(err)
	}
	if len(enrolledIn) != len(uniqueStrings(courseIDs)) {
		return apierr.InvalidState("student is not enrolled in one or more courses")
	}
	return nil
}

// Delete removes a user and every row that depends on them. A user who still
// owns courses cannot be deleted; attribution fields elsewhere are nulled
// rather than cascaded.
func (s *userService) Delete(ctx context.Context, actor *types.User, id string) error {
	if d := policy.CanDeleteUser(actor); !d.Allowed {
		return forbidden(d)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := s.userRepo.GetByID(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "user")
		}
		owned, err := s.courseRepo.CountOwnedBy(ctx, tx, target.ID)
		if err != nil {
			return apierr.Internal(err)
		}
		if owned > 0 {
			return apierr.Conflict("user still owns courses; reassign or delete them first")
		}

		if err := s.enrollmentRepo.DeleteByUser(ctx, tx, target.ID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.attemptRepo.DeleteByUser(ctx, tx, target.ID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.progressRepo.DeleteByUser(ctx, tx, target.ID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.accessRepo.DeleteByStudent(ctx, tx, target.ID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.assessmentRepo.DeleteSubmissionsByUser(ctx, tx, target.ID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.coInstructorRepo.DeleteByUser(ctx, tx, target.ID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.mentorRepo.DeleteByUser(ctx, tx, target.ID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.mentorCourseRepo.DeleteByMentor(ctx, tx, target.ID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.tokenRepo.DeleteByUser(ctx, tx, target.ID); err != nil {
			return apierr.Internal(err)
		}

		// null out references that merely attribute an action to this user
		if err := s.userRepo.ClearMentor(ctx, tx, target.ID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.mentorRepo.ClearAssignedBy(ctx, tx, target.ID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.mentorCourseRepo.ClearAssignedBy(ctx, tx, target.ID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.accessRepo.ClearGrantedBy(ctx, tx, target.ID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.coInstructorRepo.ClearAddedBy(ctx, tx, target.ID); err != nil {
			return apierr.Internal(err)
		}
		if err := s.invitationRepo.ClearInvitee(ctx, tx, target.ID); err != nil {
			return apierr.Internal(err)
		}

		if err := s.userRepo.Delete(ctx, tx, target.ID); err != nil {
			return apierr.Internal(err)
		}
		s.log.Info("User deleted", "user_id", target.ID, "deleted_by", actor.ID)
		return nil
	})
}

// Provision creates an account with a random placeholder password and mails a
// single-use setup link. A failed dispatch rolls back the user and token.
func (s *userService) Provision(ctx context.Context, actor *types.User, req ProvisionUserRequest) (*types.User, error) {
	if d := policy.CanProvisionUser(actor); !d.Allowed {
		return nil, forbidden(d)
	}
	var created *types.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.userRepo.EmailExists(ctx, tx, req.Email)
		if err != nil {
			return apierr.Internal(err)
		}
		if exists {
			return apierr.Conflict("email already registered")
		}

		placeholder, err := randomToken()
		if err != nil {
			return apierr.Internal(err)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(placeholder), bcrypt.DefaultCost)
		if err != nil {
			return apierr.Internal(err)
		}
		user := &types.User{
			Email:                  req.Email,
			HashedPassword:         string(hashed),
			Role:                   req.Role,
			Status:                 types.StatusActive,
			Name:                   req.Name,
			InstitutionID:          req.InstitutionID,
			MentorID:               req.MentorID,
			PasswordSetupCompleted: false,
		}
		if _, err := s.userRepo.Create(ctx, tx, user); err != nil {
			if repos.IsUniqueViolation(err) {
				return apierr.Conflict("email already registered")
			}
			return apierr.Internal(err)
		}

		rawToken, err := randomToken()
		if err != nil {
			return apierr.Internal(err)
		}
		record := &types.PasswordSetupToken{
			UserID:    user.ID,
			TokenHash: HashSetupToken(rawToken),
			ExpiresAt: time.Now().Add(setupTokenTTL),
		}
		if _, err := s.tokenRepo.Create(ctx, tx, record); err != nil {
			return apierr.Internal(err)
		}

		name := ""
		if req.Name != nil {
			name = *req.Name
		}
		setupLink := fmt.Sprintf("%s/set-password?token=%s", s.frontendBaseURL, rawToken)
		if err := s.mailClient.SendPasswordSetup(ctx, req.Email, name, setupLink); err != nil {
			// returning the error aborts the transaction, undoing the user and token
			return apierr.Upstream("password setup email", err)
		}
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("User provisioned", "user_id", created.ID, "role", created.Role, "provisioned_by", actor.ID)
	return created, nil
}

func updateFields(update UserUpdate) policy.UserUpdateFields {
	return policy.UserUpdateFields{
		Role:       update.Role != nil,
		Status:     update.Status != nil,
		BannedFrom: update.BannedFrom != nil,
		Other:      update.Name != nil || update.InstitutionID != nil || update.MentorID != nil,
	}
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
