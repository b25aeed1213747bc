package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/config"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type OAuthService interface {
	// AuthURL returns the Google consent URL for the given anti-CSRF state.
	AuthURL(state string) string
	// HandleCallback exchanges the code, fetches the profile, and signs
	// the user in (creating the account on first login).
	HandleCallback(ctx context.Context, code string) (*AuthResponse, error)
}

type googleOAuthService struct {
	oauthConfig *oauth2.Config
	authService AuthService
}

func NewGoogleOAuthService(cfg *config.GoogleConfig, authService AuthService) OAuthService {
	return &googleOAuthService{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		authService: authService,
	}
}

func (s *googleOAuthService) AuthURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (s *googleOAuthService) HandleCallback(ctx context.Context, code string) (*AuthResponse, error) {
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, apperrors.AuthInvalid("failed to exchange authorization code")
	}

	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.AuthInvalid("google rejected the access token")
	}

	var profile struct {
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode google profile: %w", err)
	}
	if profile.Email == "" || !profile.VerifiedEmail {
		return nil, apperrors.AuthInvalid("google account has no verified email")
	}

	return s.authService.UpsertOAuthUser(ctx, profile.Email, profile.Name)
}
