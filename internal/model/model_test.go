package model

import (
	"strings"
	"testing"
)

// TestDocumentTypeIsValid tests document type validation.
func TestDocumentTypeIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		docType DocumentType
		want    bool
	}{
		{"privacy is valid", DocTypePrivacy, true},
		{"tos is valid", DocTypeTOS, true},
		{"terms_and_conditions is valid", DocTypeTermsAndConditions, true},
		{"terms_of_use is valid", DocTypeTermsOfUse, true},
		{"empty is invalid", DocumentType(""), false},
		{"unknown is invalid", DocumentType("cookie_policy"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.docType.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestAllDocumentTypes tests that the fixed ordering covers every type.
func TestAllDocumentTypes(t *testing.T) {
	t.Parallel()

	types := AllDocumentTypes()
	if len(types) != 4 {
		t.Fatalf("expected 4 document types, got %d", len(types))
	}
	if types[0] != DocTypePrivacy {
		t.Errorf("expected privacy first, got %s", types[0])
	}
	for _, dt := range types {
		if !dt.IsValid() {
			t.Errorf("AllDocumentTypes returned invalid type %q", dt)
		}
	}
}

// TestDocumentTypeDisplayName tests human-readable labels.
func TestDocumentTypeDisplayName(t *testing.T) {
	t.Parallel()

	if got := DocTypePrivacy.DisplayName(); got != "Privacy Policy" {
		t.Errorf("expected 'Privacy Policy', got %q", got)
	}
	// Unknown types fall back to the raw value.
	if got := DocumentType("custom").DisplayName(); got != "custom" {
		t.Errorf("expected raw value fallback, got %q", got)
	}
}

// TestSessionStatusTransitions tests terminal state detection.
func TestSessionStatusTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   SessionStatus
		valid    bool
		terminal bool
	}{
		{"pending", SessionPending, true, false},
		{"processing", SessionProcessing, true, false},
		{"completed", SessionCompleted, true, true},
		{"failed", SessionFailed, true, true},
		{"unknown", SessionStatus("cancelled"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.status.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
			if got := tt.status.IsTerminal(); got != tt.terminal {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.terminal)
			}
		})
	}
}

// TestTruncateError tests error message truncation.
func TestTruncateError(t *testing.T) {
	t.Parallel()

	t.Run("short message unchanged", func(t *testing.T) {
		t.Parallel()

		msg := "connection refused"
		if got := TruncateError(msg); got != msg {
			t.Errorf("expected unchanged message, got %q", got)
		}
	})

	t.Run("long message truncated", func(t *testing.T) {
		t.Parallel()

		msg := strings.Repeat("x", MaxErrorMessageLength+100)
		got := TruncateError(msg)
		if len([]rune(got)) != MaxErrorMessageLength {
			t.Errorf("expected %d runes, got %d", MaxErrorMessageLength, len([]rune(got)))
		}
	})

	t.Run("multibyte message not split mid-rune", func(t *testing.T) {
		t.Parallel()

		msg := strings.Repeat("é", MaxErrorMessageLength+1)
		got := TruncateError(msg)
		if strings.Contains(got, "�") {
			t.Error("truncation produced an invalid rune")
		}
	})
}

// TestDocumentStatusIsValid tests document status validation.
func TestDocumentStatusIsValid(t *testing.T) {
	t.Parallel()

	valid := []DocumentStatus{DocumentFresh, DocumentStale, DocumentFailed}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if DocumentStatus("expired").IsValid() {
		t.Error("expected 'expired' to be invalid")
	}
}
