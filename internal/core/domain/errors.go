package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a ledger failure.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindPersistence Kind = "persistence"
)

// Error is the typed failure returned by every ledger operation.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Kind sentinels, usable with errors.Is.
var (
	ErrValidation  = &Error{Kind: KindValidation}
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrPersistence = &Error{Kind: KindPersistence}
)

var (
	ErrInvalidWallet      = errors.New("wallet address must be a 56 character G... account id")
	ErrInvalidCredentials = errors.New("invalid email or PIN")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSelfVote           = errors.New("voting on your own post is disabled")
	ErrInvalidPeriod      = errors.New("period must be one of all-time, last-7-days, last-30-days")
	ErrUserNotFound       = errors.New("user not found")
	ErrAmbassadorNotFound = errors.New("ambassador not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrNoSession          = errors.New("no user is logged in")
	ErrRecordNotFound     = errors.New("record not found")
)

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	case e.Message != "":
		return e.Message
	case e.Cause != nil:
		return e.Cause.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches kind sentinels (an *Error with no message and no cause) by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" || t.Cause != nil {
		return false
	}
	return t.Kind == e.Kind
}

// ValidationError reports malformed input. It is always recoverable.
func ValidationError(message string, cause error) *Error {
	return &Error{Kind: KindValidation, Message: message, Cause: cause}
}

// NotFoundError reports a reference to a missing entity.
func NotFoundError(cause error) *Error {
	return &Error{Kind: KindNotFound, Cause: cause}
}

// PersistenceError reports a record store failure. The in-memory state and
// the durable state may disagree after one.
func PersistenceError(message string, cause error) *Error {
	return &Error{Kind: KindPersistence, Message: message, Cause: cause}
}
