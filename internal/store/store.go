// Package store implements the generic record store adapter: uniform CRUD
// with audit-field stamping and soft-delete conventions over typed GORM
// collections, driven by a declarative resource descriptor.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/simp-lee/restbase/internal/domain"
	"github.com/simp-lee/restbase/internal/listquery"
	"github.com/simp-lee/restbase/internal/pkg"
)

// protectedColumns can never be written through a partial update; the
// adapter owns them.
var protectedColumns = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"is_exists":          true,
	"deleted_at":         true,
	"created_by_user_id": true,
	"updated_by_user_id": true,
	"deleted_by_user_id": true,
	"password_hash":      true,
}

// Store provides list/create/read/update/remove for one record collection.
type Store[T any] struct {
	db   *gorm.DB
	desc domain.Descriptor
}

// New creates a Store for the collection described by desc.
func New[T any](db *gorm.DB, desc domain.Descriptor) *Store[T] {
	return &Store[T]{db: db, desc: desc}
}

// Descriptor returns the resource descriptor the store was built with.
func (s *Store[T]) Descriptor() domain.Descriptor {
	return s.desc
}

// List executes the parsed query: count under the resolved filter, clamp the
// page, fetch with projection, joins, sort and pagination, and package the
// result envelope.
func (s *Store[T]) List(ctx context.Context, q *listquery.Query) (*listquery.Result[T], error) {
	var total int64
	count := s.db.WithContext(ctx).Model(new(T)).
		Scopes(listquery.Filter(q, s.desc.StrictVisibility))
	if err := count.Count(&total).Error; err != nil {
		return nil, mapError(err)
	}

	totalPages := q.Clamp(total)

	fetch := s.db.WithContext(ctx).Scopes(
		listquery.Filter(q, s.desc.StrictVisibility),
		listquery.Project(q),
		listquery.Sort(q),
		listquery.Paginate(q),
	)
	for _, join := range s.desc.ListJoins {
		fetch = fetch.Preload(join)
	}

	var records []T
	if err := fetch.Find(&records).Error; err != nil {
		return nil, mapError(err)
	}

	return listquery.NewResult(q, total, totalPages, records), nil
}

// Create inserts a new record. Audit defaults (created_at, is_exists,
// can_update, can_delete, is_active) are stamped by the Base create hook.
func (s *Store[T]) Create(ctx context.Context, record *T) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// Read returns the first record matching the given column conditions, with
// the descriptor's read joins expanded. No implicit is_exists restriction is
// applied at this layer; callers that need visible-only semantics include the
// flag in their conditions.
func (s *Store[T]) Read(ctx context.Context, conds map[string]any) (*T, error) {
	tx := s.db.WithContext(ctx)
	for _, join := range s.desc.ReadJoins {
		tx = tx.Preload(join)
	}

	var record T
	if err := tx.Where(conds).First(&record).Error; err != nil {
		return nil, mapError(err)
	}
	return &record, nil
}

// Update applies a partial column merge to the record with the given id and
// returns the new state. Protected audit columns in data are discarded.
func (s *Store[T]) Update(ctx context.Context, id uint, data map[string]any, byUserID *uint) (*T, error) {
	patch := make(map[string]any, len(data)+2)
	for key, value := range data {
		column := strings.ToLower(strings.TrimSpace(key))
		if column == "" || protectedColumns[column] {
			continue
		}
		patch[column] = value
	}
	patch["updated_at"] = time.Now()
	if byUserID != nil {
		patch["updated_by_user_id"] = *byUserID
	}

	return s.applyPatch(ctx, id, patch)
}

// UpdateTrusted applies a column patch bypassing the protected column
// filter. It exists for internal writes (password hashes, storage keys);
// never route client-supplied field names through it.
func (s *Store[T]) UpdateTrusted(ctx context.Context, id uint, data map[string]any, byUserID *uint) (*T, error) {
	patch := make(map[string]any, len(data)+2)
	for column, value := range data {
		patch[column] = value
	}
	patch["updated_at"] = time.Now()
	if byUserID != nil {
		patch["updated_by_user_id"] = *byUserID
	}

	return s.applyPatch(ctx, id, patch)
}

// Remove performs a soft delete: the record stays in the collection with
// is_exists cleared and deleted_at set, and is returned in its final state.
func (s *Store[T]) Remove(ctx context.Context, id uint, byUserID *uint) (*T, error) {
	patch := map[string]any{
		"is_exists":  false,
		"deleted_at": time.Now(),
	}
	if byUserID != nil {
		patch["deleted_by_user_id"] = *byUserID
	}

	return s.applyPatch(ctx, id, patch)
}

// applyPatch runs the existence check, the column update, and the read-back
// in one transaction, so the returned state is exactly what the patch
// produced and a failed write leaves the record untouched.
func (s *Store[T]) applyPatch(ctx context.Context, id uint, patch map[string]any) (*T, error) {
	var record T
	err := pkg.WithTx(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		if err := tx.Model(new(T)).Where("id = ?", id).Updates(patch).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&record).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &record, nil
}

// mapError converts GORM errors to domain errors. Errors already carrying a
// domain code pass through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
		return domain.NewAppError(domain.CodeDuplicate, err)
	}
	return domain.NewAppError(domain.CodeInternal, err)
}

// isDuplicateKeyError detects unique constraint violations by examining the
// error message. Not all GORM dialectors translate driver-level errors to
// gorm.ErrDuplicatedKey (e.g. the pure-Go SQLite driver).
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
