// Package apierr defines the typed errors surfaced by the HTTP API. Every
// expected failure carries an HTTP status and a stable machine-readable
// code that callers can branch on.
package apierr

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// Stable error codes of the external contract.
const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeRiderNotFound          = "RIDER_NOT_FOUND"
	CodeClientNotFound         = "CLIENT_NOT_FOUND"
	CodeMappingNotFound        = "MAPPING_NOT_FOUND"
	CodeCityNotFound           = "CITY_NOT_FOUND"
	CodeDuplicateClientRider   = "DUPLICATE_CLIENT_RIDER_ID"
	CodeDuplicatePlatformRider = "DUPLICATE_PLATFORM_RIDER"
	CodeInternal               = "INTERNAL_ERROR"
)

// Error is an API-visible failure.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an API error with an explicit status.
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Validation builds a 400 with the validation code.
func Validation(message string) *Error {
	return New(http.StatusBadRequest, CodeValidation, message)
}

// NotFound builds a 404 with the given code.
func NotFound(code, message string) *Error {
	return New(http.StatusNotFound, code, message)
}

// Conflict builds a 409 with the given code.
func Conflict(code, message string) *Error {
	return New(http.StatusConflict, code, message)
}

// From classifies an arbitrary error. API errors pass through; driver
// constraint violations map to the conflict/validation statuses they
// represent; everything else becomes a 500 with the message suppressed.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		return NotFound(CodeMappingNotFound, "record not found")
	}
	if IsUniqueViolation(err) {
		return Conflict(CodeDuplicateClientRider, "duplicate value violates a unique constraint")
	}
	if IsForeignKeyViolation(err) {
		return New(http.StatusBadRequest, CodeValidation, "referenced record does not exist")
	}
	return New(http.StatusInternalServerError, CodeInternal, "internal server error")
}

// IsUniqueViolation reports whether err is a unique-constraint violation
// from either supported driver.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// IsForeignKeyViolation reports whether err is a foreign-key violation
// from either supported driver.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
