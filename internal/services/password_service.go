package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"tivastore/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = time.Hour

// forgotMessage is returned whether or not the email exists, so the
// endpoint cannot be used to enumerate accounts.
const forgotMessage = "If an account with that email exists, a reset link has been sent"

type PasswordService struct {
	users       repositories.UserRepository
	mailer      Mailer
	frontendURL string
}

func NewPasswordService(users repositories.UserRepository, mailer Mailer, frontendURL string) *PasswordService {
	return &PasswordService{users: users, mailer: mailer, frontendURL: frontendURL}
}

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Forgot issues a reset token and emails the reset link. If the email send
// fails the token is cleared again so a half-delivered reset cannot be
// replayed later.
func (s *PasswordService) Forgot(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return forgotMessage, nil
		}
		return "", err
	}

	token, err := generateResetToken()
	if err != nil {
		return "", err
	}
	if err := s.users.SetResetToken(ctx, user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(s.frontendURL, "/"), token)
	if err := s.mailer.SendPasswordReset(user.Email, user.Name, resetURL); err != nil {
		log.Printf("reset email failed for user %s: %v", user.ID, err)
		if clearErr := s.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			log.Printf("reset token cleanup failed for user %s: %v", user.ID, clearErr)
		}
		return "", echo.NewHTTPError(http.StatusInternalServerError, "Email could not be sent")
	}

	return forgotMessage, nil
}

// Verify reports whether a reset token is valid and unexpired.
func (s *PasswordService) Verify(ctx context.Context, token string) error {
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Token is required")
	}
	if _, err := s.users.GetByResetToken(ctx, token); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired reset token")
		}
		return err
	}
	return nil
}

// Reset consumes a valid token and sets the new password.
func (s *PasswordService) Reset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Token is required")
	}
	if len(newPassword) < 6 {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 6 characters")
	}

	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired reset token")
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.users.ClearResetToken(ctx, user.ID); err != nil {
		return fmt.Errorf("clear reset token: %w", err)
	}
	return nil
}

// Change updates the password for an authenticated user after verifying the
// current one.
func (s *PasswordService) Change(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 6 characters")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
