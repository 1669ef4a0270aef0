// Package apperr holds the error taxonomy shared by repositories, services
// and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenNotFound      = errors.New("refresh token not found")
	ErrTokenInvalid       = errors.New("refresh token invalid")
	ErrArgumentNull       = errors.New("argument is null")
)

// EntityNotFound reports an id lookup miss against live rows.
type EntityNotFound struct {
	Entity string
	ID     int64
}

func NotFound(entity string, id int64) *EntityNotFound {
	return &EntityNotFound{Entity: entity, ID: id}
}

func (e *EntityNotFound) Error() string {
	return fmt.Sprintf("The Id '%d' for Entity '%s' is invalid.", e.ID, e.Entity)
}

func (e *EntityNotFound) Is(target error) bool { return target == ErrNotFound }

// ValidationResult maps a field name to the rule keys it violated.
type ValidationResult map[string][]string

func (r ValidationResult) Set(field, msg string) {
	for _, m := range r[field] {
		if m == msg {
			return
		}
	}
	r[field] = append(r[field], msg)
}

func (r ValidationResult) HasErrors() bool { return len(r) > 0 }

func (r ValidationResult) Fields() []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type ValidationFailure struct {
	Entity string
	ID     int64
	Errors ValidationResult
}

func (e *ValidationFailure) Error() string {
	return fmt.Sprintf("Entity '%s (%d)' has validation problems.", e.Entity, e.ID)
}

func (e *ValidationFailure) Is(target error) bool { return target == ErrValidation }

// WithID returns a copy carrying a different entity id.
func (e *ValidationFailure) WithID(id int64) *ValidationFailure {
	return &ValidationFailure{Entity: e.Entity, ID: id, Errors: e.Errors}
}

// Check returns a ValidationFailure when res holds errors, nil otherwise.
func Check(entity string, id int64, res ValidationResult) error {
	if !res.HasErrors() {
		return nil
	}
	return &ValidationFailure{Entity: entity, ID: id, Errors: res}
}
