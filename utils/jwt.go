package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"suntrack/config"

	"github.com/golang-jwt/jwt"
)

// TokenPair holds a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// GenerateTokenPair signs an access token and a refresh token for the
// given user and device token. Both carry the same claims; the refresh
// token uses its own secret and the long TTL.
func GenerateTokenPair(userID, fcmToken string) (*TokenPair, error) {
	access, err := signToken(userID, fcmToken, config.AppConfig.AccessTokenSecret, config.AppConfig.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := signToken(userID, fcmToken, config.AppConfig.RefreshTokenSecret, config.AppConfig.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func signToken(userID, fcmToken, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":      userID,
		"fcmToken": fcmToken,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// HashToken computes a SHA-256 hash of the token string. The hash of the
// most recently issued refresh token is what gets persisted on the user
// record; the raw token is never stored.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateAccessToken parses an access token and returns its claims.
func ValidateAccessToken(tokenString string) (userID, fcmToken string, err error) {
	return validateToken(tokenString, config.AppConfig.AccessTokenSecret)
}

// ValidateRefreshToken parses a refresh token and returns its claims.
// The caller must still compare the token hash against the stored one;
// a refresh token is never trusted on its claims alone.
func ValidateRefreshToken(tokenString string) (userID, fcmToken string, err error) {
	return validateToken(tokenString, config.AppConfig.RefreshTokenSecret)
}

func validateToken(tokenString, secret string) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", errors.New("token does not contain a valid 'sub' claim")
	}
	fcmToken, ok := claims["fcmToken"].(string)
	if !ok || fcmToken == "" {
		return "", "", errors.New("token does not contain a valid 'fcmToken' claim")
	}

	return sub, fcmToken, nil
}
