package pool

import (
	"errors"
	"fmt"
	"strings"

	"reelpool/internal/services"
)

var (
	// ErrSlotTaken is returned by Bind when another video already holds the slot.
	ErrSlotTaken = fmt.Errorf("%w: slot already bound", services.ErrConflict)
	// ErrClaimLost is returned by Bind when the claim token no longer matches.
	ErrClaimLost = fmt.Errorf("%w: claim no longer held", services.ErrConflict)
)

const (
	sqliteBusyCode             = 5
	sqliteConstraintUniqueCode = 2067
	sqliteConstraintPKCode     = 1555
)

func sqliteCode(err error) (int, bool) {
	var coder interface{ Code() int }
	if errors.As(err, &coder) {
		return coder.Code(), true
	}
	return 0, false
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := sqliteCode(err); ok && code == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := sqliteCode(err); ok && (code == sqliteConstraintUniqueCode || code == sqliteConstraintPKCode) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
