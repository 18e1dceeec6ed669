package id

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	a, b := New(), New()
	if a == b {
		t.Errorf("New() returned %q twice", a)
	}
	if !Valid(a) {
		t.Errorf("Valid(%q) = false, want true", a)
	}
}

func TestNewUser(t *testing.T) {
	u := NewUser()
	if !strings.HasPrefix(u, "anon-") {
		t.Errorf("NewUser() = %q, want anon- prefix", u)
	}
	if !Valid(strings.TrimPrefix(u, "anon-")) {
		t.Errorf("NewUser() = %q, want UUID suffix", u)
	}
}

func TestValid(t *testing.T) {
	if Valid("not-a-uuid") {
		t.Error("Valid(not-a-uuid) = true, want false")
	}
}
