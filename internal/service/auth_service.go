package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/gradeview-api/internal/models"
	"github.com/noah-isme/gradeview-api/internal/portal"
	appErrors "github.com/noah-isme/gradeview-api/pkg/errors"
)

type portalAuthenticator interface {
	Login(ctx context.Context, creds portal.Credentials) (*portal.Session, error)
}

type sessionStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	TokenSecret     string
	TokenExpiration time.Duration
	SessionTTL      time.Duration
	Issuer          string
}

// LoginRequest carries portal credentials for a login attempt.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued API token and student identity.
type LoginResponse struct {
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	SchoolName  string    `json:"school_name"`
}

// AuthService exchanges portal credentials for API sessions. The
// portal does the actual authentication; this service only keeps the
// resulting portal token alive in Redis and signs JWTs that point at
// it. Credentials are used for one round-trip and discarded.
type AuthService struct {
	portal    portalAuthenticator
	sessions  sessionStore
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(portalClient portalAuthenticator, sessions sessionStore, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TokenExpiration <= 0 {
		config.TokenExpiration = 12 * time.Hour
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = config.TokenExpiration
	}
	if config.Issuer == "" {
		config.Issuer = "gradeview-api"
	}
	return &AuthService{portal: portalClient, sessions: sessions, validator: validate, logger: logger, config: config}
}

// Login authenticates against the portal and issues an API token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	portalSession, err := s.portal.Login(ctx, portal.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		return nil, err
	}

	session := models.Session{
		ID:          uuid.NewString(),
		StudentID:   portalSession.StudentID,
		StudentName: portalSession.StudentName,
		SchoolName:  portalSession.SchoolName,
		PortalToken: portalSession.AccessToken,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.sessions.Set(ctx, sessionKey(session.ID), session, s.config.SessionTTL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store session")
	}

	expiresAt := time.Now().Add(s.config.TokenExpiration)
	token, err := s.signToken(session, expiresAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	s.logger.Info("student logged in",
		zap.String("student_id", session.StudentID),
		zap.String("session_id", session.ID),
	)

	return &LoginResponse{
		Token:       token,
		ExpiresAt:   expiresAt,
		StudentID:   session.StudentID,
		StudentName: session.StudentName,
		SchoolName:  session.SchoolName,
	}, nil
}

// ValidateToken parses and verifies an API token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrSessionExpired, "token expired")
		}
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	if !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return claims, nil
}

// Session loads the live session referenced by validated claims. A
// missing session means the Redis TTL lapsed before the JWT did.
func (s *AuthService) Session(ctx context.Context, claims *models.JWTClaims) (*models.Session, error) {
	var session models.Session
	if err := s.sessions.Get(ctx, sessionKey(claims.SessionID), &session); err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.Clone(appErrors.ErrSessionExpired, "session expired, log in again")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return &session, nil
}

// Logout drops the session and every cache entry scoped to it.
func (s *AuthService) Logout(ctx context.Context, claims *models.JWTClaims) error {
	if err := s.sessions.Delete(ctx, sessionKey(claims.SessionID)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to drop session")
	}
	if err := s.sessions.DeleteByPattern(ctx, fmt.Sprintf("gradebook:%s:*", claims.SessionID)); err != nil {
		s.logger.Warn("failed to drop gradebook cache on logout", zap.Error(err))
	}
	if err := s.sessions.DeleteByPattern(ctx, fmt.Sprintf("whatif:%s:*", claims.SessionID)); err != nil {
		s.logger.Warn("failed to drop what-if state on logout", zap.Error(err))
	}
	return nil
}

func (s *AuthService) signToken(session models.Session, expiresAt time.Time) (string, error) {
	claims := models.JWTClaims{
		SessionID: session.ID,
		StudentID: session.StudentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   session.StudentID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.TokenSecret))
}

func sessionKey(id string) string {
	return "session:" + id
}
