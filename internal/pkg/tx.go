package pkg

import "gorm.io/gorm"

// WithTx runs fn inside a transaction on db, committing when fn returns nil.
// A non-nil error or a panic rolls the transaction back; panics are re-raised
// after the rollback so callers still see them.
func WithTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
