// Package apperror normalizes heterogeneous failures (store errors, binding
// errors, auth failures) into a small closed taxonomy and decides what is
// safe to expose to callers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Kind tags an error with its place in the taxonomy. Classification and
// control flow key off the tag, never off runtime introspection of the
// wrapped error.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindDuplicateKey Kind = "duplicate_key"
	KindCastOrType   Kind = "cast_or_type"
	KindNotFound     Kind = "not_found"
	KindAuthMissing  Kind = "auth_missing"
	KindAuthInvalid  Kind = "auth_invalid"
	KindAuthExpired  Kind = "auth_expired"
	KindAuthStale    Kind = "auth_stale"
	KindForbidden    Kind = "forbidden"
	KindResetToken   Kind = "reset_token_invalid_or_expired"
	KindUnknown      Kind = "unknown"
)

// Error is a classified failure carrying an explicit kind, a caller-facing
// message and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the kind to its HTTP status class.
func (e *Error) Status() int {
	switch e.Kind {
	case KindAuthMissing, KindAuthInvalid, KindAuthExpired, KindAuthStale:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindDuplicateKey, KindCastOrType, KindResetToken:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Operational reports whether the error is an expected outcome of valid
// inputs under valid conditions, i.e. safe to surface with its message.
func (e *Error) Operational() bool { return e.Kind != KindUnknown }

// New builds a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds a classified error around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Postgres error codes worth distinguishing.
// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation   = "23505"
	pgNotNullViolation  = "23502"
	pgCheckViolation    = "23514"
	pgFKViolation       = "23503"
	pgInvalidTextRep    = "22P02"
	pgNumericOutOfRange = "22003"
	pgUndefinedFunction = "42883" // operator/type mismatch from a bad filter value
)

// Classify maps an arbitrary error into the taxonomy. Already-classified
// errors pass through unchanged.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return Wrap(KindNotFound, "No document found with that ID", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return Wrap(KindDuplicateKey, duplicateMessage(pgErr), err)
		case pgNotNullViolation, pgCheckViolation, pgFKViolation:
			return Wrap(KindValidation, "Invalid input data. "+pgErr.Message, err)
		case pgInvalidTextRep, pgNumericOutOfRange, pgUndefinedFunction:
			return Wrap(KindCastOrType, "Invalid value: "+pgErr.Message, err)
		}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Field()+" failed on "+fe.Tag())
		}
		return Wrap(KindValidation, "Invalid input data. "+strings.Join(msgs, ". "), err)
	}

	return Wrap(KindUnknown, "Something went very wrong!", err)
}

func duplicateMessage(pgErr *pgconn.PgError) string {
	// Detail looks like: Key (email)=(a@b.c) already exists.
	if pgErr.Detail != "" {
		return fmt.Sprintf("Duplicate field value: %s Please use another value!", pgErr.Detail)
	}
	return "Duplicate field value. Please use another value!"
}
