package services

import (
	"context"
	"time"

	"spark-chat/config"
	"spark-chat/internal/identity"
	spark_errors "spark-chat/pkg/errors"
	"spark-chat/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService verifies bearer tokens issued by the identity provider.
type AuthService struct {
	jwtSecret []byte
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{jwtSecret: []byte(cfg.JWTSecret)}
}

type AccessClaims struct {
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// ResolvedUserID returns the user the token was issued to.
func (c AccessClaims) ResolvedUserID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.RegisteredClaims.Subject
}

func (s *AuthService) ParseAccessToken(tokenString string) (AccessClaims, error) {
	if tokenString == "" {
		return AccessClaims{}, spark_errors.ErrUnauthenticated
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, spark_errors.ErrUnauthenticated
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return AccessClaims{}, spark_errors.ErrUnauthenticated
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return AccessClaims{}, spark_errors.ErrUnauthenticated
	}

	return *claims, nil
}

// Authenticate returns the user id carried by a valid token.
func (s *AuthService) Authenticate(tokenString string) (string, error) {
	claims, err := s.ParseAccessToken(tokenString)
	if err != nil {
		return "", err
	}
	userID := claims.ResolvedUserID()
	if identity.ValidateUserID(userID) != nil {
		return "", spark_errors.ErrUnauthenticated
	}
	return userID, nil
}

// IssueAccessToken signs a token for userID. Real tokens come from the
// identity provider; this is for local tooling and tests.
func (s *AuthService) IssueAccessToken(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

type ctxKey string

var userIDKey ctxKey = "user_id"

// WithUserContext stores the authenticated user, also for log fields.
func WithUserContext(ctx context.Context, userID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, logger.UserIdKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
