package domain

import (
	"time"

	"gorm.io/gorm"
)

// Base is the common audit envelope embedded by every record type.
// It deliberately avoids gorm.DeletedAt so GORM never applies its implicit
// soft-delete behavior; deletion is always the explicit is_exists flip
// performed by the store adapter.
type Base struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	Notes      string     `gorm:"size:500" json:"notes,omitempty"`
	SortNumber int        `json:"sort_number"`
	IsActive   bool       `json:"is_active"`
	IsExists   bool       `json:"is_exists"`
	CanUpdate  bool       `json:"can_update"`
	CanDelete  bool       `json:"can_delete"`

	// Weak back-references; relation and lookup only.
	CreatedByUserID *uint `json:"created_by_user_id,omitempty"`
	UpdatedByUserID *uint `json:"updated_by_user_id,omitempty"`
	DeletedByUserID *uint `json:"deleted_by_user_id,omitempty"`
}

// BeforeCreate stamps the audit defaults every new record carries:
// visible, active, updatable, deletable. Records never enter the store
// pre-deleted through the normal create path.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	b.IsActive = true
	b.IsExists = true
	b.CanUpdate = true
	b.CanDelete = true
	b.DeletedAt = nil
	return nil
}

// Descriptor declares how a resource collection behaves in the generic store:
// its display name, the related-record expansions applied on list/read, and
// its visibility rule.
type Descriptor struct {
	// Name is the human-readable resource name used in messages.
	Name string

	// ListJoins and ReadJoins name associations preloaded on list and read.
	ListJoins []string
	ReadJoins []string

	// StrictVisibility forces the default visibility filter
	// (is_exists, is_active, deleted_at IS NULL) to be ANDed with any
	// explicit filter. When false, supplying any explicit filter replaces
	// the default entirely; this mirrors the historical behavior and is
	// the default pending stakeholder confirmation.
	StrictVisibility bool
}
