package service

import (
	"github.com/pkg/errors"
)

// Sentinel errors for the HTTP layer to translate. Handlers never build
// status codes from raw gorm or provider errors.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("not authorized to access this resource")
	ErrDuplicate          = errors.New("resource already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrUpstream           = errors.New("upstream service error")
	ErrUpstreamConfig     = errors.New("upstream service is not configured")
)
