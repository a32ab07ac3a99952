package repository

import (
	"errors"
	"fmt"

	"soufra_admin/internal/models"

	"gorm.io/gorm"
)

// wrapErr maps a gorm error onto the service error taxonomy.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return &models.PersistenceError{Op: op, Err: err}
}
