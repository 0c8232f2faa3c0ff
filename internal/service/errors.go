package service

import "errors"

// Sentinel errors recovered at the request boundary and mapped onto HTTP
// status categories by the handlers.
var (
	ErrNotFound        = errors.New("not found")
	ErrExpired         = errors.New("link expired")
	ErrLimitReached    = errors.New("limit reached")
	ErrPasswordInvalid = errors.New("password invalid")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("invalid input")
	ErrSizeExceeded    = errors.New("size limit exceeded")
	ErrStorage         = errors.New("storage failure")
	ErrSMTPUnavailable = errors.New("smtp not configured")
)
