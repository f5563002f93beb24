package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/internal/domain/repository"
	"github.com/oksasatya/go-blog-api/pkg/apperror"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
)

// AuthState is the terminal state of one authentication attempt.
type AuthState string

const (
	AuthResolved         AuthState = "resolved"
	AuthDegradedResolved AuthState = "degraded"
	AuthNoToken          AuthState = "no_token"
	AuthInvalidToken     AuthState = "invalid_token"
	AuthTokenExpired     AuthState = "token_expired"
	AuthUnknownUser      AuthState = "unknown_user"
	AuthLookupFailed     AuthState = "lookup_failed"
)

// Continues reports whether the request may proceed with an identity.
func (s AuthState) Continues() bool {
	return s == AuthResolved || s == AuthDegradedResolved
}

var (
	ErrAccessTokenRequired = apperror.Unauthenticated("access token required")
	ErrInvalidToken        = apperror.New(apperror.KindInvalidToken, "malformed or invalid access token")
	ErrTokenExpired        = apperror.New(apperror.KindTokenExpired, "access token has expired, please login again")
	ErrUserInactive        = apperror.Unauthenticated("user account not found or inactive")
	ErrAuthRequired        = apperror.Unauthenticated("authentication required")
	ErrAdminRequired       = apperror.Forbidden("admin role required to access this resource")
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	ParseAccessToken(token string) (*helpers.Claims, error)
}

// AuthService turns an Authorization header into an Identity.
type AuthService struct {
	Tokens  TokenVerifier
	Users   repository.UserDirectory
	Logger  *logrus.Logger
	Timeout time.Duration
	// DegradeOnLookupError keeps requests flowing with claims-only identities while
	// the user directory is failing. Deactivated users keep access until it recovers.
	DegradeOnLookupError bool
}

func NewAuthService(tokens TokenVerifier, users repository.UserDirectory, logger *logrus.Logger, timeout time.Duration, degrade bool) *AuthService {
	return &AuthService{Tokens: tokens, Users: users, Logger: logger, Timeout: timeout, DegradeOnLookupError: degrade}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// Authenticate runs extraction, verification and directory lookup. On success the
// state is AuthResolved or AuthDegradedResolved and the identity is non-nil; on
// failure the returned error is a tagged *apperror.Error.
func (s *AuthService) Authenticate(ctx context.Context, authorization string) (*entity.Identity, AuthState, error) {
	id, state, err := s.authenticate(ctx, authorization)
	authOutcomes.Add(string(state), 1)
	return id, state, err
}

func (s *AuthService) authenticate(ctx context.Context, authorization string) (*entity.Identity, AuthState, error) {
	token, ok := BearerToken(authorization)
	if !ok {
		return nil, AuthNoToken, ErrAccessTokenRequired
	}

	claims, err := s.Tokens.ParseAccessToken(token)
	if err != nil {
		if errors.Is(err, helpers.ErrTokenExpired) {
			s.debug("token expired", logrus.Fields{"error": err.Error()})
			return nil, AuthTokenExpired, ErrTokenExpired
		}
		s.debug("token rejected", logrus.Fields{"error": err.Error()})
		return nil, AuthInvalidToken, ErrInvalidToken
	}

	lookupCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	u, err := s.Users.FindActiveByID(lookupCtx, claims.UserID)
	switch {
	case err == nil:
		return &entity.Identity{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}, AuthResolved, nil
	case errors.Is(err, repository.ErrNotFound):
		s.warn("user not found or inactive", logrus.Fields{"user_id": claims.UserID})
		return nil, AuthUnknownUser, ErrUserInactive
	case s.DegradeOnLookupError:
		s.warn("user lookup failed, continuing with token claims", logrus.Fields{"user_id": claims.UserID, "error": err.Error()})
		return &entity.Identity{ID: claims.UserID, Email: claims.Email, Degraded: true}, AuthDegradedResolved, nil
	default:
		s.warn("user lookup failed", logrus.Fields{"user_id": claims.UserID, "error": err.Error()})
		return nil, AuthLookupFailed, apperror.Internal("authentication failed", err)
	}
}

// AuthenticateOptional never fails: anything short of a fully resolved identity
// (including a degraded one) yields nil.
func (s *AuthService) AuthenticateOptional(ctx context.Context, authorization string) *entity.Identity {
	if strings.TrimSpace(authorization) == "" {
		return nil
	}
	id, state, err := s.Authenticate(ctx, authorization)
	if err != nil || state != AuthResolved {
		return nil
	}
	return id
}

// RequireAdmin is the admin gate; it must run after authentication.
func RequireAdmin(id *entity.Identity) error {
	if id == nil {
		return ErrAuthRequired
	}
	if !id.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}

func (s *AuthService) warn(msg string, fields logrus.Fields) {
	if s.Logger != nil {
		s.Logger.WithFields(fields).Warn(msg)
	}
}

func (s *AuthService) debug(msg string, fields logrus.Fields) {
	if s.Logger != nil {
		s.Logger.WithFields(fields).Debug(msg)
	}
}
