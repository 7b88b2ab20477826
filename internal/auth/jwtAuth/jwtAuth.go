// Package jwtAuth verifies bearer tokens issued elsewhere and resolves the journal user.
package jwtAuth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KotFed0t/trade_journal/config"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type JWTAuth struct {
	secret []byte
	issuer string
}

func New(cfg *config.Config) *JWTAuth {
	return &JWTAuth{secret: []byte(cfg.Auth.JWTSecret), issuer: cfg.Auth.Issuer}
}

// UserID validates an HS256 token and returns its subject.
func (a *JWTAuth) UserID(token string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
