package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Substrings the supported drivers put into unique-violation errors.
// gorm's TranslateError covers most cases; the raw driver strings remain
// as a fallback for errors that bypass translation.
var duplicateKeyMarkers = []string{
	"duplicate key value violates unique constraint", // postgres 23505
	"Error 1062",               // mysql
	"UNIQUE constraint failed", // sqlite 2067
}

// IsDuplicateKeyErr reports whether err is a unique-constraint violation.
// The commission number allocator relies on this to detect a concurrent
// insert of the same (group, year, month) key.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	for _, marker := range duplicateKeyMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
