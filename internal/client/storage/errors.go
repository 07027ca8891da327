package storage

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сохраненной сессии нет
	ErrSessionNotFound = errors.New("session not found")
)
