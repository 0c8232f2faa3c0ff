package service

import (
	"SendBay/utils"
	"errors"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func timePtr(v time.Time) *time.Time { return &v }

// TestEvaluateGateNoConstraints tests an unconstrained entity.
func TestEvaluateGateNoConstraints(t *testing.T) {
	now := time.Now()
	if status := EvaluateGate(nil, 100, nil, now); status != GateOK {
		t.Fatalf("expected GateOK, got %v", status)
	}
}

// TestEvaluateGateExpiry tests the strict expiry comparison.
func TestEvaluateGateExpiry(t *testing.T) {
	now := time.Now()

	if status := EvaluateGate(timePtr(now.Add(-time.Second)), 0, nil, now); status != GateExpired {
		t.Fatalf("past expiry: expected GateExpired, got %v", status)
	}
	if status := EvaluateGate(timePtr(now.Add(time.Hour)), 0, nil, now); status != GateOK {
		t.Fatalf("future expiry: expected GateOK, got %v", status)
	}
	// boundary: expiry equal to now is still valid
	if status := EvaluateGate(timePtr(now), 0, nil, now); status != GateOK {
		t.Fatalf("expiry == now: expected GateOK, got %v", status)
	}
}

// TestEvaluateGateLimit tests the usage counter gate.
func TestEvaluateGateLimit(t *testing.T) {
	now := time.Now()

	if status := EvaluateGate(nil, 2, intPtr(3), now); status != GateOK {
		t.Fatalf("under limit: expected GateOK, got %v", status)
	}
	if status := EvaluateGate(nil, 3, intPtr(3), now); status != GateLimitReached {
		t.Fatalf("at limit: expected GateLimitReached, got %v", status)
	}
	if status := EvaluateGate(nil, 4, intPtr(3), now); status != GateLimitReached {
		t.Fatalf("over limit: expected GateLimitReached, got %v", status)
	}
}

// TestEvaluateGateOrder tests that expiry wins over an exhausted limit.
func TestEvaluateGateOrder(t *testing.T) {
	now := time.Now()
	status := EvaluateGate(timePtr(now.Add(-time.Minute)), 5, intPtr(3), now)
	if status != GateExpired {
		t.Fatalf("expected GateExpired before GateLimitReached, got %v", status)
	}
}

// TestGateError tests the status-to-error mapping.
func TestGateError(t *testing.T) {
	if err := GateError(GateOK); err != nil {
		t.Fatalf("GateOK should map to nil, got %v", err)
	}
	if err := GateError(GateExpired); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
	if err := GateError(GateLimitReached); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}
}

// TestCheckGatePassword tests the optional password gate.
func TestCheckGatePassword(t *testing.T) {
	if err := CheckGatePassword("", "anything"); err != nil {
		t.Fatalf("no hash should pass any password, got %v", err)
	}
	if err := CheckGatePassword("", ""); err != nil {
		t.Fatalf("no hash should pass empty password, got %v", err)
	}

	hash, err := utils.GetPwd("secret")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	if err := CheckGatePassword(hash, "secret"); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}
	if err := CheckGatePassword(hash, "wrong"); !errors.Is(err, ErrPasswordInvalid) {
		t.Fatalf("expected ErrPasswordInvalid, got %v", err)
	}
	if err := CheckGatePassword(hash, ""); !errors.Is(err, ErrPasswordInvalid) {
		t.Fatalf("absent password: expected ErrPasswordInvalid, got %v", err)
	}
}
