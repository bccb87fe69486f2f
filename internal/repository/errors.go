// Package repository defines the persistence interfaces the handlers depend
// on, their MySQL implementations, and sentinel error values shared across
// repositories. Sentinels let the handler layer translate persistence
// failures into the domain error taxonomy without inspecting driver errors.
package repository

import "errors"

// ErrEmailExists is returned when an insert collides with the unique email
// index. Handlers translate this into the duplicate-registration error.
var ErrEmailExists = errors.New("email already exists")

// ErrNoAuthMethod is returned when a user row would be created with neither
// a password hash nor an OAuth identity. Such a row could never
// authenticate, so the invariant is enforced at the lowest write path.
var ErrNoAuthMethod = errors.New("user has no authentication method")
