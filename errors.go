package relstore

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common operations.
var (
	// ErrNotFound is returned when a requested entity does not exist in storage.
	ErrNotFound = errors.New("relstore: entity not found")

	// ErrConflict is returned when putting an entity whose identity already
	// exists in storage.
	ErrConflict = errors.New("relstore: entity already exists")
)

// NotFoundError represents an error when an entity is not found.
type NotFoundError struct {
	label string
	id    any // Optional: the identity that was searched for
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.id != nil {
		return fmt.Sprintf("relstore: %s not found (id=%v)", e.label, e.id)
	}
	return fmt.Sprintf("relstore: %s not found", e.label)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the entity label.
func (e *NotFoundError) Label() string {
	return e.label
}

// ID returns the identity that was searched for, if available.
func (e *NotFoundError) ID() any {
	return e.id
}

// NewNotFoundError returns a new NotFoundError for the given entity type.
func NewNotFoundError(label string) *NotFoundError {
	return &NotFoundError{label: label}
}

// NewNotFoundErrorWithID returns a new NotFoundError with the identity that was
// searched for.
func NewNotFoundErrorWithID(label string, id any) *NotFoundError {
	return &NotFoundError{label: label, id: id}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// ConflictError represents an error when putting an entity whose identity is
// already present in storage.
type ConflictError struct {
	label string
	id    any // Optional: the identity that collided
}

// Error returns the error string.
func (e *ConflictError) Error() string {
	if e.id != nil {
		return fmt.Sprintf("relstore: %s already exists (id=%v)", e.label, e.id)
	}
	return fmt.Sprintf("relstore: %s already exists", e.label)
}

// Is reports whether the target error matches ConflictError.
// This allows errors.Is(conflictErr, ErrConflict) to return true.
func (e *ConflictError) Is(err error) bool {
	return err == ErrConflict
}

// Label returns the entity label.
func (e *ConflictError) Label() string {
	return e.label
}

// ID returns the identity that collided, if available.
func (e *ConflictError) ID() any {
	return e.id
}

// NewConflictError returns a new ConflictError for the given entity type.
func NewConflictError(label string) *ConflictError {
	return &ConflictError{label: label}
}

// NewConflictErrorWithID returns a new ConflictError with the colliding identity.
func NewConflictErrorWithID(label string, id any) *ConflictError {
	return &ConflictError{label: label, id: id}
}

// IsConflict returns true if the error is a ConflictError.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	var e *ConflictError
	return errors.As(err, &e) || errors.Is(err, ErrConflict)
}

// UnknownOrderByError represents an order_by token that has no configured
// sort attribute. The whole order_by value is rejected when it is returned.
type UnknownOrderByError struct {
	Token string // The offending token, without its direction prefix
}

// Error returns the error string.
func (e *UnknownOrderByError) Error() string {
	return fmt.Sprintf("relstore: unknown order_by attribute %q", e.Token)
}

// NewUnknownOrderByError returns a new UnknownOrderByError for the given token.
func NewUnknownOrderByError(token string) *UnknownOrderByError {
	return &UnknownOrderByError{Token: token}
}

// IsUnknownOrderBy returns true if the error is an UnknownOrderByError.
func IsUnknownOrderBy(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownOrderByError
	return errors.As(err, &e)
}

// InvalidFilterError represents a filter parameter whose value is outside the
// set of values the mapping recognizes.
type InvalidFilterError struct {
	Key   string // The parameter name
	Value any    // The offending value
}

// Error returns the error string.
func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("relstore: invalid filter value %q for %q", fmt.Sprint(e.Value), e.Key)
}

// NewInvalidFilterError returns a new InvalidFilterError for the given
// parameter and value.
func NewInvalidFilterError(key string, value any) *InvalidFilterError {
	return &InvalidFilterError{Key: key, Value: value}
}

// IsInvalidFilter returns true if the error is an InvalidFilterError.
func IsInvalidFilter(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidFilterError
	return errors.As(err, &e)
}

// ResolveError represents a dotted attribute path that could not be resolved
// against a namespace. It is only returned at configuration time: mapping
// constructors resolve every configured path up front, never at request time.
type ResolveError struct {
	Path    string // The full dotted path, e.g. "Game.played_on"
	Segment string // The segment that failed to resolve
}

// Error returns the error string.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("relstore: cannot resolve %q: unknown segment %q", e.Path, e.Segment)
}

// NewResolveError returns a new ResolveError for the given path and segment.
func NewResolveError(path, segment string) *ResolveError {
	return &ResolveError{Path: path, Segment: segment}
}

// IsResolve returns true if the error is a ResolveError.
func IsResolve(err error) bool {
	if err == nil {
		return false
	}
	var e *ResolveError
	return errors.As(err, &e)
}

// ConstraintError represents a database constraint violation error.
type ConstraintError struct {
	msg  string
	wrap error
}

// Error returns the error string.
func (e ConstraintError) Error() string {
	return fmt.Sprintf("relstore: constraint failed: %s", e.msg)
}

// Unwrap returns the underlying error.
func (e ConstraintError) Unwrap() error {
	return e.wrap
}

// NewConstraintError returns a new ConstraintError with the given message.
func NewConstraintError(msg string, wrap error) error {
	return ConstraintError{msg: msg, wrap: wrap}
}

// IsConstraintError returns true if the error is a ConstraintError.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e ConstraintError
	return errors.As(err, &e)
}
