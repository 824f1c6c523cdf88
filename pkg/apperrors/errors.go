package apperrors

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrDialectNotRegistered = errors.New("dialect not registered")
	ErrVersionNotFound      = errors.New("version not found")
	ErrObjectNotTracked     = errors.New("object not tracked")
	ErrInvalidSnapshot      = errors.New("invalid snapshot file")
)
