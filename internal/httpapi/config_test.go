package httpapi

import (
	"testing"
	"time"
)

func TestSetMaxBodyBytes_DefaultWhenNonPositive(t *testing.T) {
	SetMaxBodyBytes(-1)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB, got %d", maxBodyBytes)
	}
	SetMaxBodyBytes(0)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB on zero, got %d", maxBodyBytes)
	}
}

func TestSetMaxBodyBytes_PositiveSetsValue(t *testing.T) {
	SetMaxBodyBytes(1234)
	defer SetMaxBodyBytes(0)
	if maxBodyBytes != 1234 {
		t.Fatalf("expected 1234, got %d", maxBodyBytes)
	}
}

func TestSetEvaluateTimeout_NormalizesNegativeToZero(t *testing.T) {
	SetEvaluateTimeout(-5 * time.Second)
	if evaluateTimeout != 0 {
		t.Fatalf("expected 0, got %v", evaluateTimeout)
	}
	SetEvaluateTimeout(3 * time.Second)
	defer SetEvaluateTimeout(0)
	if evaluateTimeout != 3*time.Second {
		t.Fatalf("expected 3s, got %v", evaluateTimeout)
	}
}

func TestSetCORSOrigins_Copies(t *testing.T) {
	in := []string{"http://a"}
	SetCORSOrigins(in)
	defer SetCORSOrigins(nil)
	in[0] = "http://b"
	if corsOrigins[0] != "http://a" {
		t.Fatalf("origins aliased caller slice: %v", corsOrigins)
	}
}
