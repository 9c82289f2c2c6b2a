package auth

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"

	"suntrack/models"
	"suntrack/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	hasUpper  = regexp.MustCompile(`[A-Z]`)
	hasLower  = regexp.MustCompile(`[a-z]`)
	hasNumber = regexp.MustCompile(`[0-9]`)
)

// verifyPasswordComplexity checks the password against the advertised
// limits: length bounds plus at least one uppercase letter, one
// lowercase letter and one digit.
func verifyPasswordComplexity(pw string) error {
	if len(pw) < utils.PasswordMinLength || len(pw) > utils.PasswordMaxLength {
		return utils.NewBadRequest(utils.CodeWeakPassword,
			fmt.Sprintf("password must be between %d and %d characters", utils.PasswordMinLength, utils.PasswordMaxLength))
	}
	if !hasUpper.MatchString(pw) || !hasLower.MatchString(pw) || !hasNumber.MatchString(pw) {
		return utils.NewBadRequest(utils.CodeWeakPassword,
			"password must include at least one uppercase letter, one lowercase letter and one number")
	}
	return nil
}

func validateSignupFields(username, email, password string) error {
	if len(username) < utils.UsernameMinLength || len(username) > utils.UsernameMaxLength {
		return utils.NewBadRequest(utils.CodeTooShortUsername,
			fmt.Sprintf("username must be between %d and %d characters", utils.UsernameMinLength, utils.UsernameMaxLength))
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return utils.NewBadRequest(utils.CodeInvalidEmailFormat, "invalid email address")
	}
	return verifyPasswordComplexity(password)
}

// GetLimits reports credential constraints for client-side validation.
func (s *DefaultAuthService) GetLimits() Limits {
	return Limits{
		UsernameMinLength:    utils.UsernameMinLength,
		UsernameMaxLength:    utils.UsernameMaxLength,
		PasswordMinLength:    utils.PasswordMinLength,
		PasswordMaxLength:    utils.PasswordMaxLength,
		PasswordMinNumbers:   1,
		PasswordMinLowercase: 1,
		PasswordMinUppercase: 1,
	}
}

// Signup registers a new user. The user insert and the refresh-token
// hash persist happen in one transaction: an abort leaves no partial
// user behind.
func (s *DefaultAuthService) Signup(ctx context.Context, username, email, password, fcmToken string) (*AuthResponse, error) {
	if err := validateSignupFields(username, email, password); err != nil {
		return nil, err
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		utils.GetLogger().Error("Signup: failed to check for existing user", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again: %w", err)
	}
	if existing != nil {
		return nil, utils.NewConflict(utils.CodeEmailAlreadyUsed, "a user with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("Signup: failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again: %w", err)
	}

	user := models.User{
		ID:              uuid.New().String(),
		Username:        username,
		Email:           email,
		PasswordHash:    string(hashedPassword),
		FCMTokens:       []string{fcmToken},
		Locations:       []string{},
		HwNotifications: []models.HwNotification{},
		Invitations:     []models.Invitation{},
	}

	tokens, err := utils.GenerateTokenPair(user.ID, fcmToken)
	if err != nil {
		utils.GetLogger().Error("Signup: failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again: %w", err)
	}

	err = s.Txn.RunTransaction(ctx, func(ctx context.Context) error {
		if err := s.Repo.Create(ctx, &user); err != nil {
			return err
		}
		modified, err := s.Repo.SetRefreshTokenHash(ctx, user.ID, utils.HashToken(tokens.RefreshToken))
		if err != nil {
			return err
		}
		if modified == 0 {
			return utils.NewInternal("failed to persist refresh token")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user.Brief(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Signin verifies credentials and returns a fresh token pair. A missing
// email and a wrong password produce the same response shape.
func (s *DefaultAuthService) Signin(ctx context.Context, email, password, fcmToken string) (*AuthResponse, error) {
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		utils.GetLogger().Error("Signin: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again: %w", err)
	}
	if user == nil {
		return nil, utils.NewUnauthorized(utils.CodeInvalidCredentials, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, utils.NewUnauthorized(utils.CodeInvalidCredentials, "invalid email or password")
	}

	tokens, err := utils.GenerateTokenPair(user.ID, fcmToken)
	if err != nil {
		utils.GetLogger().Error("Signin: failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again: %w", err)
	}

	err = s.Txn.RunTransaction(ctx, func(ctx context.Context) error {
		// $addToSet: signing in twice with the same token keeps one copy.
		if _, err := s.Repo.AddFCMToken(ctx, user.ID, fcmToken); err != nil {
			return err
		}
		modified, err := s.Repo.SetRefreshTokenHash(ctx, user.ID, utils.HashToken(tokens.RefreshToken))
		if err != nil {
			return err
		}
		if modified == 0 {
			return utils.NewInternal("failed to persist refresh token")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user.Brief(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Signout removes the device token. When it was the user's last device,
// the stored refresh-token hash is cleared so no refresh is possible
// until the next signin.
func (s *DefaultAuthService) Signout(ctx context.Context, userID, fcmToken string) error {
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("signout failed: %w", err)
	}
	if user == nil {
		return utils.NewNotFound("user not found")
	}

	lastDevice := len(user.FCMTokens) == 1 && user.HasFCMToken(fcmToken)

	return s.Txn.RunTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.Repo.RemoveFCMToken(ctx, userID, fcmToken); err != nil {
			return err
		}
		if lastDevice {
			if _, err := s.Repo.SetRefreshTokenHash(ctx, userID, ""); err != nil {
				return err
			}
		}
		return nil
	})
}

// Refresh validates the presented refresh token against the stored hash
// and rotates the pair; the old refresh token is invalid immediately.
func (s *DefaultAuthService) Refresh(ctx context.Context, userID, fcmToken, refreshToken string) (*utils.TokenPair, error) {
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("refresh failed: %w", err)
	}
	if user == nil || user.RefreshTokenHash == "" {
		return nil, utils.NewForbidden(utils.CodeInvalidRefreshToken, "invalid refresh token")
	}

	if utils.HashToken(refreshToken) != user.RefreshTokenHash {
		return nil, utils.NewForbidden(utils.CodeInvalidRefreshToken, "invalid refresh token")
	}

	tokens, err := utils.GenerateTokenPair(userID, fcmToken)
	if err != nil {
		utils.GetLogger().Error("Refresh: failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("refresh failed, please try again: %w", err)
	}

	modified, err := s.Repo.SetRefreshTokenHash(ctx, userID, utils.HashToken(tokens.RefreshToken))
	if err != nil {
		return nil, err
	}
	if modified == 0 {
		return nil, utils.NewInternal("failed to rotate refresh token")
	}

	return tokens, nil
}
