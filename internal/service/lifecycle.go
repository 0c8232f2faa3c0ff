package service

import (
	"SendBay/utils"
	"time"
)

// GateStatus is the outcome of evaluating a share or upload request against
// its expiry and usage limit.
type GateStatus int

const (
	GateOK GateStatus = iota
	GateExpired
	GateLimitReached
)

// EvaluateGate applies the lifecycle gates in order: expiry first, then the
// usage counter. Expiry is a strict comparison; an entity whose expiresAt
// equals now is still valid. Both states are terminal: counters never
// decrease and time never runs backwards.
func EvaluateGate(expiresAt *time.Time, count int, limit *int, now time.Time) GateStatus {
	if expiresAt != nil && expiresAt.Before(now) {
		return GateExpired
	}
	if limit != nil && count >= *limit {
		return GateLimitReached
	}
	return GateOK
}

// GateError maps a gate status onto the service error taxonomy.
func GateError(status GateStatus) error {
	switch status {
	case GateExpired:
		return ErrExpired
	case GateLimitReached:
		return ErrLimitReached
	default:
		return nil
	}
}

// CheckGatePassword verifies an optional password gate. It runs only after
// every other gate has passed; callers streaming multipart bodies must delay
// it until the whole body is consumed, since the password field's position
// in the stream is not guaranteed.
func CheckGatePassword(hash, plain string) error {
	if hash == "" {
		return nil
	}
	if !utils.CheckPwd(plain, hash) {
		return ErrPasswordInvalid
	}
	return nil
}
