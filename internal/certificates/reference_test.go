package certificates_test

import (
	"testing"

	"github.com/yephonekyaw/sit-cert-server/internal/certificates"
)

func TestFormatPDFDate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		wantErr  bool
	}{
		{"full timestamp", "D:20250114031902-05'00'", "14-Jan-2025", false},
		{"date only", "D:20241231", "31-Dec-2024", false},
		{"no prefix", "20250601120000", "01-Jun-2025", false},
		{"too short", "D:2025", "", true},
		{"non-numeric", "D:2025AB14031902", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := certificates.FormatPDFDate(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatPDFDateIdempotent(t *testing.T) {
	raw := "D:20250114031902-05'00'"

	first, err := certificates.FormatPDFDate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := certificates.FormatPDFDate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Errorf("repeated formatting diverged: %q vs %q", first, second)
	}
}

func TestReferenceCheck(t *testing.T) {
	check := certificates.NewReferenceCheck("www.citiprogram.org")

	const validURL = "https://www.citiprogram.org/verify/?wa1b2c3d4-e5f6-7890-abcd-ef0123456789-20250114"

	tests := []struct {
		name     string
		url      string
		recordID string
		expected bool
	}{
		{"valid with scheme", validURL, "20250114", true},
		{"valid without scheme", "www.citiprogram.org/verify/?wa1b2c3d4-e5f6-7890-abcd-ef0123456789-20250114", "20250114", true},
		{"surrounding whitespace", "  " + validURL + "  ", "20250114", true},
		{"record id mismatch", validURL, "20250115", false},
		{"wrong host", "https://www.example.org/verify/?wa1b2c3d4-e5f6-7890-abcd-ef0123456789-20250114", "20250114", false},
		{"missing uuid token", "https://www.citiprogram.org/verify/?w20250114", "20250114", false},
		{"trailing garbage", validURL + "x", "20250114", false},
		{"empty", "", "20250114", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := check(tt.url, tt.recordID); got != tt.expected {
				t.Errorf("check(%q, %q) = %v, want %v", tt.url, tt.recordID, got, tt.expected)
			}
		})
	}
}
