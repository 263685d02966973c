package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WithTransaction runs fn in a transaction, committing when it returns nil and
// rolling back on error or panic. op names the operation in the returned error.
func (db *DB) WithTransaction(ctx context.Context, op string, fn func(*gorm.DB) error) error {
	return db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fn(tx); err != nil {
			return fmt.Errorf("%s transaction: %w", op, err)
		}
		return nil
	})
}
