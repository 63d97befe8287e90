package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vterekhov/procurement-backend/internal/config"
	"github.com/vterekhov/procurement-backend/internal/model"
	"github.com/vterekhov/procurement-backend/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minPasswordLen  = 8
	confirmTokenTTL = 48 * time.Hour
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Company   string
	Position  string
	Role      model.UserRole
}

type ProfileInput struct {
	FirstName string
	LastName  string
	Company   string
	Position  string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	ConfirmEmail(ctx context.Context, token string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint64, in ProfileInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	// ResolveExternal maps a verified OAuth identity to a local user,
	// creating an active account on first login.
	ResolveExternal(ctx context.Context, provider, subjectID, email, firstName, lastName string) (string, *model.User, error)
	GetUser(ctx context.Context, id uint64) (*model.User, error)
	IssueToken(user *model.User) (string, error)
}

type authService struct {
	users  repository.UserRepository
	notify NotificationService
	cfg    *config.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, notify NotificationService, cfg *config.Config, log *zap.Logger) AuthService {
	return &authService{users: users, notify: notify, cfg: cfg, log: log, now: time.Now}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, validationf("invalid email address")
	}
	if len(in.Password) < minPasswordLen {
		return nil, validationf("password must be at least %d characters", minPasswordLen)
	}
	switch in.Role {
	case "", model.RoleBuyer:
		in.Role = model.RoleBuyer
	case model.RolePartner:
	default:
		return nil, validationf("unknown role %q", in.Role)
	}

	taken, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, validationf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Company:      in.Company,
		Position:     in.Position,
		Role:         in.Role,
		IsActive:     s.cfg.AuthAutoActivate,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if !user.IsActive {
		token := &model.EmailConfirmToken{
			UserID:    user.ID,
			Token:     uuid.NewString(),
			ExpiresAt: s.now().Add(confirmTokenTTL),
		}
		if err := s.users.CreateConfirmToken(ctx, token); err != nil {
			return nil, err
		}
		confirmURL := fmt.Sprintf("%s/api/v1/auth/confirm-email?token=%s", s.cfg.BaseURL, token.Token)
		s.notify.ConfirmRegistration(ctx, user, confirmURL)
	}

	return user, nil
}

func (s *authService) ConfirmEmail(ctx context.Context, token string) (*model.User, error) {
	t, err := s.users.FindConfirmToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if t.Expired(s.now()) {
		_ = s.users.DeleteConfirmToken(ctx, t.ID)
		return nil, validationf("confirmation token expired")
	}

	user, err := s.users.FindByID(ctx, t.UserID)
	if err != nil {
		return nil, err
	}
	user.IsActive = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := s.users.DeleteConfirmToken(ctx, t.ID); err != nil {
		s.log.Warn("delete confirm token", zap.Uint64("token_id", t.ID), zap.Error(err))
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uint64, in ProfileInput) (*model.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Company = in.Company
	user.Position = in.Position
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrAuthentication
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrAuthentication
	}
	if !user.IsActive {
		return "", nil, fmt.Errorf("%w: account is not confirmed", ErrAuthentication)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) ResolveExternal(ctx context.Context, provider, subjectID, email, firstName, lastName string) (string, *model.User, error) {
	if provider == "" || subjectID == "" {
		return "", nil, validationf("provider and subject are required")
	}

	ident, err := s.users.FindIdentity(ctx, provider, subjectID)
	if err != nil {
		return "", nil, err
	}

	var user *model.User
	switch {
	case ident != nil:
		user, err = s.users.FindByID(ctx, ident.UserID)
		if err != nil {
			return "", nil, err
		}
	default:
		// Link to an existing account with the same email, or create one.
		user, err = s.users.FindByEmail(ctx, email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, err
		}
		if user == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			if _, mailErr := mail.ParseAddress(email); mailErr != nil {
				return "", nil, validationf("provider returned no usable email")
			}
			user = &model.User{
				Email:     email,
				FirstName: firstName,
				LastName:  lastName,
				Role:      model.RoleBuyer,
				IsActive:  true,
			}
			if err := s.users.Create(ctx, user); err != nil {
				return "", nil, err
			}
		}
		if err := s.users.CreateIdentity(ctx, &model.ExternalIdentity{
			UserID:    user.ID,
			Provider:  provider,
			SubjectID: subjectID,
		}); err != nil {
			return "", nil, err
		}
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) GetUser(ctx context.Context, id uint64) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) IssueToken(user *model.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(user.ID, 10),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(time.Duration(s.cfg.JWTTTLHours) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
