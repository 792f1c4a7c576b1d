package locale

import (
	"testing"

	"jarvis/internal/domain"
)

var allKinds = []domain.ErrorKind{
	domain.KindBadRequest,
	domain.KindServiceUnavailable,
	domain.KindRateLimited,
	domain.KindUnauthorized,
	domain.KindContentBlocked,
	domain.KindEmptyResponse,
	domain.KindUnknown,
}

func TestNewBundle_LoadsAllLanguages(t *testing.T) {
	bundle, err := NewBundle("ar")
	if err != nil {
		t.Fatalf("NewBundle failed: %v", err)
	}

	for _, lang := range bundle.Supported() {
		for _, kind := range allKinds {
			if msg := bundle.ErrorMessage(lang, kind); msg == "" {
				t.Errorf("missing %s message for kind %s", lang, kind)
			}
		}
		if bundle.AttachmentFallback(lang) == "" {
			t.Errorf("missing %s attachment fallback", lang)
		}
	}
}

func TestNewBundle_RejectsUnsupportedDefault(t *testing.T) {
	if _, err := NewBundle("de"); err == nil {
		t.Error("expected an error for an unsupported default language")
	}
}

func TestNormalize(t *testing.T) {
	bundle, err := NewBundle("ar")
	if err != nil {
		t.Fatalf("NewBundle failed: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"ar", "ar"},
		{"en", "en"},
		{"fr", "fr"},
		{"de", "ar"},
		{"", "ar"},
		{"AR", "ar"}, // codes are case-sensitive; unknown casing falls back
	}
	for _, tt := range tests {
		if got := bundle.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestErrorMessage_UnknownLanguageFallsBack(t *testing.T) {
	bundle, err := NewBundle("en")
	if err != nil {
		t.Fatalf("NewBundle failed: %v", err)
	}

	want := bundle.ErrorMessage("en", domain.KindRateLimited)
	if got := bundle.ErrorMessage("xx", domain.KindRateLimited); got != want {
		t.Errorf("unknown language returned %q, want the en message %q", got, want)
	}
}

func TestErrorMessage_KindsAreDistinct(t *testing.T) {
	bundle, err := NewBundle("ar")
	if err != nil {
		t.Fatalf("NewBundle failed: %v", err)
	}

	for _, lang := range bundle.Supported() {
		seen := make(map[string]domain.ErrorKind)
		for _, kind := range allKinds {
			msg := bundle.ErrorMessage(lang, kind)
			if prev, dup := seen[msg]; dup {
				t.Errorf("%s: kinds %s and %s share the message %q", lang, prev, kind, msg)
			}
			seen[msg] = kind
		}
	}
}
