package service

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("duplicate unique field")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAdminNotAllowed    = errors.New("admin registration not allowed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRefreshNotFound    = errors.New("refresh token not persisted")
)
