package utils

import (
	"errors"

	"gorm.io/gorm"
)

// IsUniqueViolation reports whether err is a store uniqueness-constraint
// failure. Detection relies on gorm's structured error translation rather
// than message matching; both the mysql and sqlite drivers translate their
// duplicate-key errors to gorm.ErrDuplicatedKey.
func IsUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
