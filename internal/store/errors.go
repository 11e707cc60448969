package store

import "errors"

var (
	// ErrDuplicateUser is returned when a signup hits the username or email
	// uniqueness constraint. Callers must not reveal which field collided.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrInvalidCredentials covers both "no such email" and "wrong password"
	// so a login response never discloses whether the account exists.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSessionInvalid means a session carried a user id that no longer
	// resolves to a user row. Callers treat the session as anonymous.
	ErrSessionInvalid = errors.New("session references unknown user")
)
