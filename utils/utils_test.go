package utils

import (
	"SendBay/config"
	"strings"
	"testing"
)

// TestGetPwd tests password hashing and verification.
func TestGetPwd(t *testing.T) {
	hash, err := GetPwd("s3cret-pass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("password stored in plain text")
	}
	if !CheckPwd("s3cret-pass", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPwd("wrong", hash) {
		t.Fatal("wrong password accepted")
	}
}

// TestGetToken tests token shape and uniqueness.
func TestGetToken(t *testing.T) {
	a := GetToken()
	b := GetToken()
	if a == b {
		t.Fatal("tokens should be unique")
	}
	if strings.Contains(a, "-") {
		t.Fatalf("token should carry no hyphens: %q", a)
	}
	if len(a) != 32 {
		t.Fatalf("token length: got %d", len(a))
	}
}

// TestNewBlobName tests that blob names keep the file extension.
func TestNewBlobName(t *testing.T) {
	name := NewBlobName(".png")
	if !strings.HasSuffix(name, ".png") {
		t.Fatalf("extension lost: %q", name)
	}
	if NewBlobName(".png") == name {
		t.Fatal("blob names should be unique")
	}
}

// TestSanitizeHeaderFilename tests header-safe filename cleaning.
func TestSanitizeHeaderFilename(t *testing.T) {
	if got := SanitizeHeaderFilename("report.pdf"); got != "report.pdf" {
		t.Fatalf("plain name changed: %q", got)
	}
	if got := SanitizeHeaderFilename("evil\r\nSet-Cookie: x\"y"); got != "evilSet-Cookie: xy" {
		t.Fatalf("unsafe characters kept: %q", got)
	}
	if got := SanitizeHeaderFilename("   "); got != "download" {
		t.Fatalf("blank name: got %q", got)
	}
	if got := SanitizeHeaderFilename("../../etc/passwd"); got != "passwd" {
		t.Fatalf("path components kept: %q", got)
	}
	if got := SanitizeHeaderFilename(`dir\sub\report.pdf`); got != "report.pdf" {
		t.Fatalf("backslash path kept: %q", got)
	}
	if got := SanitizeHeaderFilename("trailing/"); got != "download" {
		t.Fatalf("empty basename: got %q", got)
	}
}

// TestTokenRoundTrip tests JWT generation and verification.
func TestTokenRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateToken(42, "user@example.com", "ADMIN")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	claims, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.UserId != 42 || claims.Email != "user@example.com" || claims.Role != "ADMIN" {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	if _, err := VerifyToken(token + "tampered"); err == nil {
		t.Fatal("tampered token accepted")
	}
}
