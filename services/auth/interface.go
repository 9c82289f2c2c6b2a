package auth

import (
	"context"

	"suntrack/database"
	userRepo "suntrack/database/repository/user"
	"suntrack/models"
	"suntrack/utils"
)

// AuthResponse is returned by signup and signin: the user's public
// profile plus a fresh token pair.
type AuthResponse struct {
	User         models.BriefUserInfo `json:"user"`
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
}

// Limits describes credential constraints for client-side validation.
type Limits struct {
	UsernameMinLength    int `json:"usernameMinLength"`
	UsernameMaxLength    int `json:"usernameMaxLength"`
	PasswordMinLength    int `json:"passwordMinLength"`
	PasswordMaxLength    int `json:"passwordMaxLength"`
	PasswordMinNumbers   int `json:"passwordMinNumbers"`
	PasswordMinLowercase int `json:"passwordMinLowercase"`
	PasswordMinUppercase int `json:"passwordMinUppercase"`
}

// AuthService owns password hashing, token issuance and session
// lifecycle. Refresh tokens rotate on every use and are validated
// against the per-user stored hash, never on claims alone.
type AuthService interface {
	// Signup registers a new user on the device identified by fcmToken.
	Signup(ctx context.Context, username, email, password, fcmToken string) (*AuthResponse, error)
	// Signin authenticates credentials and registers the device token.
	Signin(ctx context.Context, email, password, fcmToken string) (*AuthResponse, error)
	// Signout removes exactly one device token; removing the last one
	// ends the refresh session.
	Signout(ctx context.Context, userID, fcmToken string) error
	// Refresh rotates the token pair after validating the presented
	// refresh token against the stored hash.
	Refresh(ctx context.Context, userID, fcmToken, refreshToken string) (*utils.TokenPair, error)
	// GetLimits reports credential constraints.
	GetLimits() Limits
}

// DefaultAuthService is the production implementation.
type DefaultAuthService struct {
	Repo userRepo.UserRepository
	Txn  database.TxnRunner
}
