package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrPasswordNotFound indicates that a live password record does not exist
	// for the given (id, user_id) pair. Намеренно не различает "нет такой
	// записи" и "запись принадлежит другому пользователю" - это защита
	// от перебора чужих идентификаторов.
	ErrPasswordNotFound = errors.New("password not found")

	// ErrQuotaExceeded indicates that the account already holds the maximum
	// number of live password records for its plan
	ErrQuotaExceeded = errors.New("password limit reached")
)
