package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/openlms/backend/internal/apierr"
	"github.com/openlms/backend/internal/logger"
	"github.com/openlms/backend/internal/repos"
	"github.com/openlms/backend/internal/types"
)

const minPasswordLength = 8

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type BootstrapSignupRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
	Role     string  `json:"role"`
}

type AuthConfig struct {
	JWTSecret             string
	AccessTTL             time.Duration
	RefreshTTL            time.Duration
	BootstrapAdminEnabled bool
	BootstrapAdminEmail   string
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Authenticate(ctx context.Context, tokenString string) (*types.User, error)
	BootstrapSignup(ctx context.Context, req BootstrapSignupRequest) (*types.User, error)
	SetPassword(ctx context.Context, token, newPassword string) error
}

type authService struct {
	db        *gorm.DB
	cfg       AuthConfig
	userRepo  repos.UserRepo
	tokenRepo repos.PasswordSetupTokenRepo
	log       *logger.Logger
}

func NewAuthService(db *gorm.DB, cfg AuthConfig, userRepo repos.UserRepo, tokenRepo repos.PasswordSetupTokenRepo, baseLog *logger.Logger) AuthService {
	return &authService{
		db:        db,
		cfg:       cfg,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		log:       baseLog.With("service", "AuthService"),
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.Unauthorized("invalid credentials")
		}
		return nil, apierr.Internal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return nil, apierr.Unauthorized("invalid credentials")
	}
	if user.Status != types.StatusActive {
		return nil, apierr.Forbidden("account suspended")
	}
	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	s.log.Info("User logged in", "user_id", user.ID)
	return pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.parseToken(refreshToken, "refresh")
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.Unauthorized("user not found")
		}
		return nil, apierr.Internal(err)
	}
	if user.Status != types.StatusActive {
		return nil, apierr.Forbidden("account suspended")
	}
	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return pair, nil
}

// Authenticate resolves a bearer token into an active user. Token and user
// failures are Unauthorized; a suspended account is Forbidden.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*types.User, error) {
	userID, err := s.parseToken(tokenString, "access")
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.Unauthorized("user not found")
		}
		return nil, apierr.Internal(err)
	}
	if user.Status != types.StatusActive {
		return nil, apierr.Forbidden("account suspended")
	}
	return user, nil
}

// BootstrapSignup creates the first admin account. Closed once any admin
// exists, and optionally pinned to a single allowed email.
func (s *authService) BootstrapSignup(ctx context.Context, req BootstrapSignupRequest) (*types.User, error) {
	if !s.cfg.BootstrapAdminEnabled {
		return nil, apierr.Forbidden("bootstrap signup is disabled")
	}
	if req.Role != types.RoleAdmin {
		return nil, apierr.InvalidState("bootstrap signup only creates admin accounts")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apierr.InvalidState(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if s.cfg.BootstrapAdminEmail != "" && req.Email != s.cfg.BootstrapAdminEmail {
		return nil, apierr.Forbidden("email not allowed for bootstrap signup")
	}

	var created *types.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		adminCount, err := s.userRepo.CountByRoles(ctx, tx, types.RoleAdmin)
		if err != nil {
			return apierr.Internal(err)
		}
		if adminCount > 0 {
			return apierr.Forbidden("an admin account already exists")
		}
		exists, err := s.userRepo.EmailExists(ctx, tx, req.Email)
		if err != nil {
			return apierr.Internal(err)
		}
		if exists {
			return apierr.Conflict("email already registered")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return apierr.Internal(err)
		}
		user := &types.User{
			Email:                  req.Email,
			HashedPassword:         string(hashed),
			Role:                   types.RoleAdmin,
			Status:                 types.StatusActive,
			Name:                   req.Name,
			PasswordSetupCompleted: true,
		}
		if _, err := s.userRepo.Create(ctx, tx, user); err != nil {
			if repos.IsUniqueViolation(err) {
				return apierr.Conflict("email already registered")
			}
			return apierr.Internal(err)
		}
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Bootstrap admin created", "user_id", created.ID)
	return created, nil
}

// SetPassword consumes a single-use setup token mailed at provisioning time.
func (s *authService) SetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apierr.InvalidState(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.tokenRepo.GetByHash(ctx, tx, HashSetupToken(token))
		if err != nil {
			if repos.IsNotFound(err) {
				return apierr.InvalidState("invalid setup token")
			}
			return apierr.Internal(err)
		}
		if record.UsedAt != nil {
			return apierr.InvalidState("setup token already used")
		}
		if time.Now().After(record.ExpiresAt) {
			return apierr.InvalidState("setup token expired")
		}
		user, err := s.userRepo.GetByID(ctx, tx, record.UserID)
		if err != nil {
			return notFoundOr(err, "user")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return apierr.Internal(err)
		}
		user.HashedPassword = string(hashed)
		user.PasswordSetupCompleted = true
		if err := s.userRepo.Update(ctx, tx, user); err != nil {
			return apierr.Internal(err)
		}
		if err := s.tokenRepo.MarkUsed(ctx, tx, record.ID, time.Now()); err != nil {
			return apierr.Internal(err)
		}
		s.log.Info("Password setup completed", "user_id", user.ID)
		return nil
	})
}

func (s *authService) issuePair(userID string) (*TokenPair, error) {
	access, err := s.signToken(userID, "access", s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(userID, "refresh", s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (s *authService) signToken(userID, tokenType string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"type": tokenType,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) parseToken(tokenString, wantType string) (string, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return "", apierr.Unauthorized("invalid token")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", apierr.Unauthorized("invalid token claims")
	}
	if tokenType, _ := claims["type"].(string); tokenType != wantType {
		return "", apierr.Unauthorized("wrong token type")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", apierr.Unauthorized("missing subject")
	}
	return sub, nil
}

// HashSetupToken is the storage form of a password setup token. The raw token
// only ever exists inside the mailed link.
func HashSetupToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
