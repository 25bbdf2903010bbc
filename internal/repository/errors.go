package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrProviderIDTaken = errors.New("provider account already linked to another user")
	ErrEntryNotFound   = errors.New("journal entry not found")
)

const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// duplicateError names which unique constraint a failed insert or update hit.
func duplicateError(err error) error {
	constraint := violatedConstraint(err)
	if strings.Contains(constraint, "google_id") || strings.Contains(constraint, "github_id") {
		return ErrProviderIDTaken
	}
	return ErrDuplicateEmail
}

const (
	mysqlKeyMarker     = " for key '"
	sqliteUniqueMarker = "UNIQUE constraint failed: "
)

// violatedConstraint extracts the index (MySQL) or column list (SQLite) from a
// unique violation. The duplicated value itself is never part of the result.
func violatedConstraint(err error) string {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		i := strings.LastIndex(myErr.Message, mysqlKeyMarker)
		if i < 0 {
			return ""
		}
		return strings.TrimSuffix(myErr.Message[i+len(mysqlKeyMarker):], "'")
	}

	msg := err.Error()
	i := strings.LastIndex(msg, sqliteUniqueMarker)
	if i < 0 {
		return ""
	}
	return msg[i+len(sqliteUniqueMarker):]
}
