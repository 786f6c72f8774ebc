// Package auth implements token issuance and validation: short JWTs carrying
// identity claims, bound to server-side Redis sessions so revocation and
// hijack detection work without waiting for token expiry.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/restbase/internal/domain"
	"github.com/simp-lee/restbase/internal/session"
	"github.com/simp-lee/restbase/internal/store"
)

// Claims is the JWT payload. The token proves identity; authorization state
// (revocation, device binding) lives in the session record.
type Claims struct {
	UserID uint   `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service defines the authentication operations.
type Service interface {
	Login(ctx context.Context, email, password, userAgent, ip string) (*TokenResponse, error)
	Register(ctx context.Context, req *RegisterRequest, userAgent, ip string) (*TokenResponse, error)
	Validate(ctx context.Context, token, userAgent, ip string) (*domain.User, *Claims, error)
	Revoke(ctx context.Context, token string) error
	RevokeAll(ctx context.Context, userID uint) error
}

type authService struct {
	secret      []byte
	users       *store.Store[domain.User]
	sessions    *session.Store
	tokenExpiry time.Duration
	logger      *slog.Logger
}

// NewService creates an auth Service signing tokens with secret and binding
// them to sessions in the given store.
func NewService(secret string, users *store.Store[domain.User], sessions *session.Store, tokenExpiry time.Duration, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if tokenExpiry <= 0 {
		tokenExpiry = session.DefaultTTL
	}
	return &authService{
		secret:      []byte(secret),
		users:       users,
		sessions:    sessions,
		tokenExpiry: tokenExpiry,
		logger:      logger,
	}
}

// Login authenticates by email and password and issues a session-backed token.
// Unknown email and wrong password produce the same error, so the response
// never reveals whether the account exists.
func (s *authService) Login(ctx context.Context, email, password, userAgent, ip string) (*TokenResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.Read(ctx, map[string]any{"email": email})
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.ErrWrongLogin
		}
		return nil, err
	}
	if !user.IsExists || !user.IsActive {
		return nil, domain.ErrWrongLogin
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrWrongLogin
	}

	return s.issue(ctx, user, userAgent, ip)
}

// Register creates a new user account and logs it in. The role is always
// forced to the regular user role.
func (s *authService) Register(ctx context.Context, req *RegisterRequest, userAgent, ip string) (*TokenResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, err)
	}

	lang := req.SystemLanguage
	if lang == "" {
		lang = domain.LanguageEN
	}

	user := domain.User{
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Phone:          strings.TrimSpace(req.Phone),
		Role:           domain.RoleUser,
		SystemLanguage: lang,
		PasswordHash:   string(hash),
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}

	return s.issue(ctx, &user, userAgent, ip)
}

// issue signs a token for user and creates the backing session record.
func (s *authService) issue(ctx context.Context, user *domain.User, userAgent, ip string) (*TokenResponse, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenExpiry)

	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, err)
	}

	err = s.sessions.Create(ctx, token, session.Data{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		UserAgent:    userAgent,
		IP:           ip,
		CreatedAt:    now,
		LastActivity: now,
		IsActive:     true,
	})
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, err)
	}

	return &TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      user,
	}, nil
}

// Validate verifies the token signature, checks the backing session, and
// enforces device binding. A user-agent change is treated as hijacking: the
// session is revoked immediately. An IP change is logged but tolerated,
// since mobile clients hop networks routinely.
func (s *authService) Validate(ctx context.Context, token, userAgent, ip string) (*domain.User, *Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, nil, domain.NewAppError(domain.CodeWrongToken, err)
	}

	data, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, nil, domain.NewAppError(domain.CodeInternal, err)
	}
	if data == nil || !data.IsActive {
		return nil, nil, domain.ErrWrongToken
	}

	if data.UserAgent != userAgent {
		s.logger.WarnContext(ctx, "session user-agent mismatch, revoking",
			slog.Uint64("user_id", uint64(data.UserID)),
			slog.String("expected", data.UserAgent),
			slog.String("got", userAgent),
		)
		if err := s.sessions.Invalidate(ctx, token); err != nil {
			s.logger.ErrorContext(ctx, "failed to revoke hijacked session", slog.Any("error", err))
		}
		return nil, nil, domain.ErrWrongToken
	}

	if data.IP != ip {
		s.logger.InfoContext(ctx, "session ip changed",
			slog.Uint64("user_id", uint64(data.UserID)),
			slog.String("expected", data.IP),
			slog.String("got", ip),
		)
	}

	if err := s.sessions.Touch(ctx, token); err != nil {
		s.logger.WarnContext(ctx, "failed to refresh session activity", slog.Any("error", err))
	}

	user, err := s.users.Read(ctx, map[string]any{"id": claims.UserID})
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, nil, domain.ErrWrongToken
		}
		return nil, nil, err
	}
	if !user.IsExists || !user.IsActive {
		return nil, nil, domain.ErrWrongToken
	}

	return user, claims, nil
}

// Revoke invalidates the session behind token. Revoking an unknown or
// already-revoked token succeeds silently.
func (s *authService) Revoke(ctx context.Context, token string) error {
	if err := s.sessions.Invalidate(ctx, token); err != nil {
		return domain.NewAppError(domain.CodeInternal, err)
	}
	return nil
}

// RevokeAll invalidates every session the user holds.
func (s *authService) RevokeAll(ctx context.Context, userID uint) error {
	if err := s.sessions.InvalidateUser(ctx, userID); err != nil {
		return domain.NewAppError(domain.CodeInternal, err)
	}
	return nil
}
