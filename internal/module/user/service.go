// Package user implements the user resource: admin CRUD over the user
// collection plus password management.
package user

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/restbase/internal/domain"
	"github.com/simp-lee/restbase/internal/listquery"
	"github.com/simp-lee/restbase/internal/store"
)

// Service defines the user resource operations.
type Service interface {
	List(ctx context.Context, q *listquery.Query) (*listquery.Result[domain.User], error)
	Create(ctx context.Context, req *CreateUserRequest, byUserID *uint) (*domain.User, error)
	Get(ctx context.Context, id uint) (*domain.User, error)
	Update(ctx context.Context, id uint, req *UpdateUserRequest, byUserID *uint) (*domain.User, error)
	Remove(ctx context.Context, id uint, byUserID *uint) (*domain.User, error)
	ChangePassword(ctx context.Context, user *domain.User, current, next string) error
}

type userService struct {
	users    *store.Store[domain.User]
	sessions sessionRevoker
}

// sessionRevoker is the slice of the session store the user service needs:
// a password change logs the user out everywhere.
type sessionRevoker interface {
	InvalidateUser(ctx context.Context, userID uint) error
}

// NewService creates a user Service over the given store.
func NewService(users *store.Store[domain.User], sessions sessionRevoker) Service {
	return &userService{users: users, sessions: sessions}
}

func (s *userService) List(ctx context.Context, q *listquery.Query) (*listquery.Result[domain.User], error) {
	return s.users.List(ctx, q)
}

func (s *userService) Create(ctx context.Context, req *CreateUserRequest, byUserID *uint) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, err)
	}

	role := req.Role
	if role == "" {
		role = domain.RoleUser
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
		Role:           role,
		SystemLanguage: lang,
		PasswordHash:   string(hash),
	}
	user.CreatedByUserID = byUserID

	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) Get(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.Read(ctx, map[string]any{"id": id})
}

func (s *userService) Update(ctx context.Context, id uint, req *UpdateUserRequest, byUserID *uint) (*domain.User, error) {
	patch := req.patch()
	if len(patch) == 0 {
		return s.Get(ctx, id)
	}
	return s.users.Update(ctx, id, patch, byUserID)
}

func (s *userService) Remove(ctx context.Context, id uint, byUserID *uint) (*domain.User, error) {
	user, err := s.users.Remove(ctx, id, byUserID)
	if err != nil {
		return nil, err
	}

	// A removed user must not keep working with live tokens.
	if err := s.sessions.InvalidateUser(ctx, id); err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, err)
	}
	return user, nil
}

// ChangePassword verifies the current password, stores the new hash, and
// revokes every session so stolen tokens die with the old password.
func (s *userService) ChangePassword(ctx context.Context, user *domain.User, current, next string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return domain.ErrWrongLogin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return domain.NewAppError(domain.CodeInternal, err)
	}

	// password_hash is a protected column, so the write goes through the
	// trusted patch path that bypasses the client-facing merge.
	if _, err := s.users.UpdateTrusted(ctx, user.ID, map[string]any{"password_hash": string(hash)}, &user.ID); err != nil {
		return err
	}

	if err := s.sessions.InvalidateUser(ctx, user.ID); err != nil {
		return domain.NewAppError(domain.CodeInternal, err)
	}
	return nil
}
