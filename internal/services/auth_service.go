package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tivastore/internal/middleware"
	"tivastore/internal/models"
	"tivastore/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

type RegisterInput struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Phone     *string `json:"phone"`
	StoreName string  `json:"store_name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult carries the signed token and the profile returned by register
// and login.
type AuthResult struct {
	Token string                 `json:"token"`
	User  map[string]interface{} `json:"user"`
}

type AuthService struct {
	users     repositories.UserRepository
	stores    repositories.StoreRepository
	storeSvc  *StoreService
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(users repositories.UserRepository, stores repositories.StoreRepository, storeSvc *StoreService, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		stores:    stores,
		storeSvc:  storeSvc,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Register creates the owner account and its store in one step. The store's
// catalog id is derived from the store name at this moment and never changes
// afterwards.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.StoreName = strings.TrimSpace(input.StoreName)

	if input.Name == "" || input.Email == "" || input.Password == "" || input.StoreName == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Name, email, password and store name are required")
	}
	if len(input.Password) < 6 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 6 characters")
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "User already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Phone:        input.Phone,
		Role:         models.RoleOwner,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	store, err := s.storeSvc.CreateForOwner(ctx, user.ID, input.StoreName)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetStoreID(ctx, user.ID, store.ID); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}
	user.StoreID = &store.ID

	token, err := middleware.SignToken(s.jwtSecret, user.ID, user.StoreID, user.Role, s.jwtExpiry)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	profile := user.PublicProfile()
	profile["store"] = store.PublicProfile()
	return &AuthResult{Token: token, User: profile}, nil
}

// Login authenticates by email and password. All failure modes collapse to
// one generic message so the response never reveals whether the email
// exists.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLogin = &now

	token, err := middleware.SignToken(s.jwtSecret, user.ID, user.StoreID, user.Role, s.jwtExpiry)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{Token: token, User: user.PublicProfile()}, nil
}

// Me returns the authenticated user's profile with the store attached.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (map[string]interface{}, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return nil, err
	}
	profile := user.PublicProfile()
	if user.StoreID != nil {
		store, err := s.stores.GetByID(ctx, *user.StoreID)
		if err == nil {
			profile["store"] = store
		}
	}
	return profile, nil
}
