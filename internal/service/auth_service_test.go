package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vterekhov/procurement-backend/internal/config"
	"github.com/vterekhov/procurement-backend/internal/model"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:   "test-secret",
		JWTTTLHours: 1,
		BaseURL:     "http://localhost:8080",
	}
}

func newUserStore() (*mockUserRepo, *[]model.User, *[]model.EmailConfirmToken) {
	users := &[]model.User{}
	tokens := &[]model.EmailConfirmToken{}
	repo := &mockUserRepo{
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			for _, u := range *users {
				if u.Email == email {
					return true, nil
				}
			}
			return false, nil
		},
		createFn: func(ctx context.Context, u *model.User) error {
			u.ID = uint64(len(*users) + 1)
			*users = append(*users, *u)
			return nil
		},
		createConfirmFn: func(ctx context.Context, t *model.EmailConfirmToken) error {
			t.ID = uint64(len(*tokens) + 1)
			*tokens = append(*tokens, *t)
			return nil
		},
	}
	return repo, users, tokens
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"bad email", RegisterInput{Email: "not-an-email", Password: "long-enough-pw"}},
		{"short password", RegisterInput{Email: "a@example.com", Password: "short"}},
		{"admin role", RegisterInput{Email: "a@example.com", Password: "long-enough-pw", Role: model.RoleAdmin}},
		{"unknown role", RegisterInput{Email: "a@example.com", Password: "long-enough-pw", Role: "reseller"}},
	}

	repo, _, _ := newUserStore()
	svc := NewAuthService(repo, &mockNotifier{}, testConfig(), zap.NewNop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tt.input); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestRegisterCreatesInactiveUserWithToken(t *testing.T) {
	repo, users, tokens := newUserStore()
	notify := &mockNotifier{}
	svc := NewAuthService(repo, notify, testConfig(), zap.NewNop())

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:     "buyer@example.com",
		Password:  "long-enough-pw",
		FirstName: "Иван",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.IsActive {
		t.Error("user should start inactive")
	}
	if user.Role != model.RoleBuyer {
		t.Errorf("role = %q, want buyer", user.Role)
	}
	if len(*users) != 1 {
		t.Fatalf("users stored = %d, want 1", len(*users))
	}
	if len(*tokens) != 1 {
		t.Fatalf("confirm tokens stored = %d, want 1", len(*tokens))
	}
	if len(notify.confirmed) != 1 {
		t.Fatalf("confirmation emails queued = %d, want 1", len(notify.confirmed))
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("long-enough-pw")) != nil {
		t.Error("password hash does not verify")
	}
}

func TestRegisterAutoActivate(t *testing.T) {
	repo, _, tokens := newUserStore()
	cfg := testConfig()
	cfg.AuthAutoActivate = true
	notify := &mockNotifier{}
	svc := NewAuthService(repo, notify, cfg, zap.NewNop())

	user, err := svc.Register(context.Background(), RegisterInput{Email: "b@example.com", Password: "long-enough-pw"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !user.IsActive {
		t.Error("user should be active")
	}
	if len(*tokens) != 0 || len(notify.confirmed) != 0 {
		t.Error("no confirmation flow expected when auto-activate is on")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo, users, _ := newUserStore()
	*users = append(*users, model.User{ID: 1, Email: "taken@example.com"})
	svc := NewAuthService(repo, &mockNotifier{}, testConfig(), zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterInput{Email: "taken@example.com", Password: "long-enough-pw"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func loginRepo(t *testing.T, active bool) *mockUserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email != "user@example.com" {
				return nil, gorm.ErrRecordNotFound
			}
			return &model.User{
				ID:           1,
				Email:        email,
				PasswordHash: string(hash),
				Role:         model.RoleBuyer,
				IsActive:     active,
			}, nil
		},
	}
}

func TestLogin(t *testing.T) {
	svc := NewAuthService(loginRepo(t, true), &mockNotifier{}, testConfig(), zap.NewNop())

	token, user, err := svc.Login(context.Background(), "user@example.com", "correct-password")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("user id = %d, want 1", user.ID)
	}

	parsed, err := jwt.Parse(token, func(tk *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "1" || claims["role"] != "buyer" {
		t.Errorf("unexpected claims: %v", claims)
	}
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name     string
		active   bool
		email    string
		password string
	}{
		{"wrong password", true, "user@example.com", "wrong"},
		{"unknown email", true, "ghost@example.com", "correct-password"},
		{"inactive account", false, "user@example.com", "correct-password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthService(loginRepo(t, tt.active), &mockNotifier{}, testConfig(), zap.NewNop())
			if _, _, err := svc.Login(context.Background(), tt.email, tt.password); !errors.Is(err, ErrAuthentication) {
				t.Fatalf("expected ErrAuthentication, got %v", err)
			}
		})
	}
}

func TestConfirmEmailExpiredToken(t *testing.T) {
	deleted := false
	repo := &mockUserRepo{
		findConfirmFn: func(ctx context.Context, token string) (*model.EmailConfirmToken, error) {
			return &model.EmailConfirmToken{
				ID:        1,
				UserID:    1,
				Token:     token,
				ExpiresAt: time.Now().Add(-time.Hour),
			}, nil
		},
		deleteConfirmFn: func(ctx context.Context, id uint64) error {
			deleted = true
			return nil
		},
	}
	svc := NewAuthService(repo, &mockNotifier{}, testConfig(), zap.NewNop())

	_, err := svc.ConfirmEmail(context.Background(), "stale")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !deleted {
		t.Error("expired token should be removed")
	}
}

func TestUpdateProfile(t *testing.T) {
	var saved *model.User
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id uint64) (*model.User, error) {
			return &model.User{ID: id, Email: "user@example.com", FirstName: "Old"}, nil
		},
		updateFn: func(ctx context.Context, u *model.User) error {
			saved = u
			return nil
		},
	}
	svc := NewAuthService(repo, &mockNotifier{}, testConfig(), zap.NewNop())

	user, err := svc.UpdateProfile(context.Background(), 1, ProfileInput{
		FirstName: "Иван",
		LastName:  "Петров",
		Company:   "ООО Ромашка",
		Position:  "закупщик",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if user.FirstName != "Иван" || user.Company != "ООО Ромашка" {
		t.Errorf("profile not applied: %+v", user)
	}
	if saved == nil || saved.Email != "user@example.com" {
		t.Errorf("email must survive a profile update: %+v", saved)
	}
}

func TestResolveExternalCreatesAccount(t *testing.T) {
	repo, users, _ := newUserStore()
	var identities []model.ExternalIdentity
	repo.findIdentityFn = func(ctx context.Context, provider, subjectID string) (*model.ExternalIdentity, error) {
		return nil, nil
	}
	repo.findByEmailFn = func(ctx context.Context, email string) (*model.User, error) {
		return nil, gorm.ErrRecordNotFound
	}
	repo.createIdentityFn = func(ctx context.Context, ident *model.ExternalIdentity) error {
		identities = append(identities, *ident)
		return nil
	}
	svc := NewAuthService(repo, &mockNotifier{}, testConfig(), zap.NewNop())

	token, user, err := svc.ResolveExternal(context.Background(), "google", "sub-123", "new@example.com", "Анна", "Иванова")
	if err != nil {
		t.Fatalf("ResolveExternal: %v", err)
	}
	if token == "" {
		t.Error("expected a token")
	}
	if !user.IsActive {
		t.Error("social accounts should be active immediately")
	}
	if len(*users) != 1 || len(identities) != 1 {
		t.Errorf("users = %d identities = %d, want 1 and 1", len(*users), len(identities))
	}
	if identities[0].Provider != "google" || identities[0].SubjectID != "sub-123" {
		t.Errorf("unexpected identity: %+v", identities[0])
	}
}
