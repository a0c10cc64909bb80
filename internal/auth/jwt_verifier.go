package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"sheetfeed/internal/domain"
)

// JWTVerifier implements ActorVerifier using a JWKS endpoint.
type JWTVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewJWTVerifier creates a verifier that fetches public keys from the given
// JWKS endpoint. Keys are cached and refreshed based on HTTP cache headers.
func NewJWTVerifier(jwksURL string, logger *slog.Logger) (*JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx := context.Background()
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	return &JWTVerifier{jwks: jwks, logger: logger}, nil
}

// VerifyToken validates a JWT and returns its subject, which is stamped into
// audit fields on every write of the import job.
func (v *JWTVerifier) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, v.jwks.Keyfunc)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return "", fmt.Errorf("parse token: %w", domain.ErrForbidden)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token: %w", domain.ErrForbidden)
	}

	// Prevent algorithm confusion attacks - allow only RS256 or ES256
	switch token.Method.Alg() {
	case "RS256", "ES256":
	default:
		v.logger.Warn("token uses unexpected algorithm", "algorithm", token.Method.Alg())
		return "", fmt.Errorf("unexpected signing algorithm: %w", domain.ErrForbidden)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("token missing subject: %w", domain.ErrForbidden)
	}

	return claims.Subject, nil
}

// Close releases resources held by the verifier. keyfunc v3 manages its own
// lifecycle, so this only exists to satisfy ActorVerifier.
func (v *JWTVerifier) Close() error {
	return nil
}
