package infra

import (
	"errors"
	"strings"

	"rfq-market/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type RepositoryErrorKind string

// Closed taxonomy for storage failures. Serialization conflicts never appear
// here: they are retried inside the pg helpers and are invisible to callers.
const (
	KindNotFound          RepositoryErrorKind = "NOT_FOUND"
	KindDuplicateKey      RepositoryErrorKind = "DUPLICATE_KEY"
	KindInvalidParams     RepositoryErrorKind = "INVALID_PARAMS"
	KindConnectionFailure RepositoryErrorKind = "CONNECTION_FAILURE"
	KindDBFailure         RepositoryErrorKind = "DB_FAILURE"
)

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// WrapRepoErr wraps a low-level storage error with a taxonomy kind.
// When no explicit kind is given the kind is derived from the underlying
// postgres error class, falling back to KindDBFailure.
func WrapRepoErr(msg string, err error, kinds ...RepositoryErrorKind) error {
	var kind RepositoryErrorKind
	if len(kinds) > 0 {
		kind = kinds[0]
	} else {
		kind = classifyErr(err)
	}

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return RepositoryError{Kind: kind, msg: msg, err: err}
}

func classifyErr(err error) RepositoryErrorKind {
	if errors.Is(err, pgx.ErrNoRows) {
		return KindNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return KindDuplicateKey
		case strings.HasPrefix(pgErr.Code, "22"), strings.HasPrefix(pgErr.Code, "23"):
			return KindInvalidParams
		case strings.HasPrefix(pgErr.Code, "08"):
			return KindConnectionFailure
		}
	}

	return KindDBFailure
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
