package config

import (
	"net/http"
	"testing"
	"time"
)

func TestParseSameSite(t *testing.T) {
	if parseSameSite("None") != http.SameSiteNoneMode {
		t.Fatal("expected none mode")
	}
	if parseSameSite("strict") != http.SameSiteStrictMode {
		t.Fatal("expected strict mode")
	}
	if parseSameSite("") != http.SameSiteLaxMode || parseSameSite("bogus") != http.SameSiteLaxMode {
		t.Fatal("expected lax fallback")
	}
}

func TestGetDurationEnv(t *testing.T) {
	t.Setenv("SESSION_TTL_TEST", "30")
	if got := getDurationEnv("SESSION_TTL_TEST", 15, time.Minute); got != 30*time.Minute {
		t.Fatalf("expected 30m, got %v", got)
	}

	t.Setenv("SESSION_TTL_TEST", "not-a-number")
	if got := getDurationEnv("SESSION_TTL_TEST", 15, time.Minute); got != 15*time.Minute {
		t.Fatalf("expected 15m default, got %v", got)
	}
}
