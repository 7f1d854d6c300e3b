package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error kinds. Match them with errors.Is; the concrete types below carry the
// details and unwrap to the driver error.
var (
	// ErrConfiguration is returned when a pool cannot be configured, e.g.
	// user, password or database is missing after all sources are merged.
	ErrConfiguration = errors.New("database improperly configured")

	// ErrStatement is returned when the database rejects a statement.
	ErrStatement = errors.New("statement failed")

	// ErrTransaction is returned when a transaction was rolled back.
	ErrTransaction = errors.New("transaction rolled back")

	// ErrInvalidInput is returned when request validation fails.
	ErrInvalidInput = errors.New("invalid input")
)

// ConfigurationError lists the required settings that are still empty.
type ConfigurationError struct {
	Missing []string
	Err     error
}

func (e *ConfigurationError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("%s: missing %s", ErrConfiguration, strings.Join(e.Missing, ", "))
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", ErrConfiguration, e.Err)
	default:
		return ErrConfiguration.Error()
	}
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// StatementError wraps the driver error for a rejected statement.
type StatementError struct {
	// Index is the position of the statement in its transaction, or 0 for
	// a single statement.
	Index int

	// Text is the statement text as sent, after placeholder resolution.
	Text string

	// SQLState is the server error code when the server reported one.
	SQLState string

	Err error
}

// NewStatementError wraps err and extracts the SQLSTATE from a server error.
func NewStatementError(index int, text string, err error) *StatementError {
	se := &StatementError{Index: index, Text: text, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		se.SQLState = pgErr.Code
	}
	return se
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement %d: %v", e.Index, e.Err)
}

func (e *StatementError) Is(target error) bool {
	return target == ErrStatement
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// TransactionError is returned after a rollback. Err is the error that
// aborted the transaction, usually a *StatementError.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: %v", ErrTransaction, e.Err)
}

func (e *TransactionError) Is(target error) bool {
	return target == ErrTransaction
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// ValidationError wraps ErrInvalidInput with the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", ErrInvalidInput, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a validation error for a specific field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsConfiguration checks if an error is a configuration error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsStatement checks if an error is, or wraps, a statement error.
func IsStatement(err error) bool {
	return errors.Is(err, ErrStatement)
}

// IsTransaction checks if an error is a rolled back transaction.
func IsTransaction(err error) bool {
	return errors.Is(err, ErrTransaction)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
