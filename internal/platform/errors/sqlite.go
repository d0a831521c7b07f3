package errors

// SQLite-specific helpers for mapping driver errors to project ErrorCode and retry semantics

import (
	"context"
	stderrs "errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ExtractSQLiteError returns (*sqlite.Error, true) if the root cause is a driver error
func ExtractSQLiteError(err error) (*sqlite.Error, bool) {
	var se *sqlite.Error
	if stderrs.As(Root(err), &se) {
		return se, true
	}
	return nil, false
}

// primary strips extended result code bits
func primary(code int) int { return code & 0xff }

// IsSQLiteCode reports whether err is a driver error whose primary result code is code
func IsSQLiteCode(err error, code int) bool {
	se, ok := ExtractSQLiteError(err)
	return ok && primary(se.Code()) == code
}

// IsBusy reports whether the database file was busy or a table was locked
func IsBusy(err error) bool {
	return IsSQLiteCode(err, sqlite3.SQLITE_BUSY) || IsSQLiteCode(err, sqlite3.SQLITE_LOCKED)
}

// DBErrorCode maps a driver error to an ErrorCode with an ok flag
// !ok means err wasn't a sqlite error; caller may fall back to generic handling
func DBErrorCode(err error) (ErrorCode, bool) {
	se, ok := ExtractSQLiteError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch primary(se.Code()) {
	case sqlite3.SQLITE_CONSTRAINT:
		return ErrorCodeConflict, true
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return ErrorCodeUnavailable, true
	case sqlite3.SQLITE_READONLY, sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_FULL:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromSQLite wraps a driver error with a mapped ErrorCode and message.
// If err is nil, returns nil
func FromSQLite(err error, msg string) error {
	if err == nil {
		return nil
	}
	if code, ok := DBErrorCode(err); ok {
		return Wrap(err, code, msg)
	}
	return Wrap(err, ErrorCodeDB, msg)
}

// IsRetryable reports whether a storage error is a transient lock condition worth retrying
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if IsBusy(err) {
		return true
	}
	if _, ok := ExtractSQLiteError(err); ok {
		return false
	}
	// text fallback for errors that lost their type on the way up
	s := strings.ToLower(Root(err).Error())
	return strings.Contains(s, "database is locked") || strings.Contains(s, "database table is locked")
}
