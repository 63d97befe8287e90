package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/vterekhov/procurement-backend/internal/config"
	"github.com/vterekhov/procurement-backend/internal/model"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type SocialService interface {
	Providers() []string
	AuthURL(provider, state string) (string, error)
	// HandleCallback exchanges the authorization code, reads the
	// provider profile and resolves it to a local account.
	HandleCallback(ctx context.Context, provider, code string) (string, *model.User, error)
}

type socialService struct {
	configs map[string]*oauth2.Config
	auth    AuthService
	log     *zap.Logger
}

func NewSocialService(cfg *config.Config, auth AuthService, log *zap.Logger) SocialService {
	configs := make(map[string]*oauth2.Config)
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		configs["google"] = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.BaseURL + "/api/v1/social/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}
	return &socialService{configs: configs, auth: auth, log: log}
}

func (s *socialService) Providers() []string {
	names := make([]string, 0, len(s.configs))
	for name := range s.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *socialService) AuthURL(provider, state string) (string, error) {
	cfg, ok := s.configs[provider]
	if !ok {
		return "", ErrNotFound
	}
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

type googleProfile struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

func (s *socialService) HandleCallback(ctx context.Context, provider, code string) (string, *model.User, error) {
	cfg, ok := s.configs[provider]
	if !ok {
		return "", nil, ErrNotFound
	}
	if code == "" {
		return "", nil, validationf("authorization code is required")
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("%w: code exchange failed", ErrAuthentication)
	}

	profile, err := s.fetchProfile(ctx, cfg, token)
	if err != nil {
		return "", nil, err
	}

	jwtToken, user, err := s.auth.ResolveExternal(ctx, provider, profile.ID, profile.Email, profile.GivenName, profile.FamilyName)
	if err != nil {
		return "", nil, err
	}
	s.log.Info("social login", zap.String("provider", provider), zap.Uint64("user_id", user.ID))
	return jwtToken, user, nil
}

func (s *socialService) fetchProfile(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) (*googleProfile, error) {
	client := cfg.Client(ctx, token)
	resp, err := client.Get(googleUserinfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo returned %d", ErrAuthentication, resp.StatusCode)
	}
	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("%w: userinfo has no subject id", ErrAuthentication)
	}
	return &profile, nil
}
