package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"myjourney-be/internal/dto"
	"myjourney-be/internal/entity"
	"myjourney-be/internal/pkg/logger"
	"myjourney-be/internal/repository/specification"
	"myjourney-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var ErrOAuthNotConfigured = errors.New("oauth is not configured")

type IOAuthService interface {
	GetLoginURL(provider string) (string, error)
	HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error)
}

type oauthService struct {
	uowFactory unitofwork.RepositoryFactory
	googleConf *oauth2.Config
	logger     logger.ILogger
}

func NewOAuthService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory: uowFactory,
		googleConf: conf,
		logger:     log,
	}
}

func (s *oauthService) GetLoginURL(provider string) (string, error) {
	if provider != "google" {
		return "", errors.New("unsupported provider")
	}
	if s.googleConf.ClientID == "" || s.googleConf.ClientSecret == "" {
		return "", ErrOAuthNotConfigured
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.URLEncoding.EncodeToString(b)

	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error) {
	if provider != "google" {
		return nil, errors.New("unsupported provider")
	}
	if s.googleConf.ClientID == "" || s.googleConf.ClientSecret == "" {
		return nil, ErrOAuthNotConfigured
	}

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("OAuthService", "Code exchange failed", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("code exchange failed: %v", err)
	}

	googleUser, err := s.fetchGoogleUser(token.AccessToken)
	if err != nil {
		s.logger.Error("OAuthService", "Failed to fetch Google user info", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: googleUser.Email})
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &entity.User{
			Id:        uuid.New(),
			Email:     googleUser.Email,
			FullName:  googleUser.Name,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if googleUser.Picture != "" {
			pic := googleUser.Picture
			user.AvatarURL = &pic
		}

		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			uow.Rollback()
			s.logger.Error("OAuthService", "Failed to create user", map[string]interface{}{"error": err.Error()})
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}

		s.logger.Info("OAuthService", "New user created", map[string]interface{}{"user_id": user.Id})
	}

	// Link the provider account on first login with it.
	existing, err := uow.UserProviderRepository().FindOne(ctx, specification.ByProviderAccount{
		ProviderName:   "google",
		ProviderUserId: googleUser.ID,
	})
	if err != nil {
		return nil, err
	}
	if existing == nil {
		userProvider := &entity.UserProvider{
			Id:             uuid.New(),
			UserId:         user.Id,
			ProviderName:   "google",
			ProviderUserId: googleUser.ID,
			AvatarURL:      googleUser.Picture,
			CreatedAt:      time.Now(),
		}
		if err := uow.UserProviderRepository().Create(ctx, userProvider); err != nil {
			s.logger.Error("OAuthService", "Failed to save provider info", map[string]interface{}{"error": err.Error()})
			return nil, fmt.Errorf("failed to save provider info: %v", err)
		}
	}

	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	}
	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := jwtToken.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return nil, err
	}

	res := &dto.LoginResponse{
		AccessToken: signedToken,
		User: dto.UserDTO{
			Id:       user.Id,
			Email:    user.Email,
			FullName: user.FullName,
		},
	}
	if user.AvatarURL != nil {
		res.User.AvatarURL = *user.AvatarURL
	}

	s.logger.Info("OAuthService", "Login completed", map[string]interface{}{"user_id": user.Id})
	return res, nil
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (s *oauthService) fetchGoogleUser(accessToken string) (*googleUserInfo, error) {
	userInfoURL := "https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + accessToken

	resp, err := http.Get(userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %v", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading response: %v", err)
	}

	var info googleUserInfo
	if err := json.Unmarshal(content, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
