package certificates_test

import (
	"slices"
	"testing"

	"github.com/yephonekyaw/sit-cert-server/internal/certificates"
)

func baseRecord() certificates.Record {
	return certificates.Record{
		StudentName:        "Jane Doe",
		RecordID:           "20250114",
		VerificationURL:    "https://www.citiprogram.org/verify/?wa1b2c3d4-e5f6-7890-abcd-ef0123456789-20250114",
		ExpirationDate:     "13-Jan-2028",
		CurriculumGroup:    "Human Subjects Research",
		CourseLearnerGroup: "Social Behavioral Research",
		UniversityName:     "King Mongkut's University of Technology Thonburi",
		GeneratedOn:        "14-Jan-2025",
	}
}

func TestCrossCheckMatch(t *testing.T) {
	first := baseRecord()
	second := baseRecord()

	if mismatched := certificates.CrossCheck(&first, &second); len(mismatched) != 0 {
		t.Errorf("expected no mismatches, got %v", mismatched)
	}
}

func TestCrossCheckNormalization(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*certificates.Record)
	}{
		{"case difference", func(r *certificates.Record) {
			r.StudentName = "JANE DOE"
		}},
		{"interior whitespace", func(r *certificates.Record) {
			r.UniversityName = "King Mongkut's  University of Technology   Thonburi"
		}},
		{"parenthetical annotation", func(r *certificates.Record) {
			r.CurriculumGroup = "Human Subjects Research (Curriculum Group)"
		}},
		{"generated on ignored", func(r *certificates.Record) {
			r.GeneratedOn = "01-Feb-2025"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := baseRecord()
			second := baseRecord()
			tt.mutate(&second)

			if mismatched := certificates.CrossCheck(&first, &second); len(mismatched) != 0 {
				t.Errorf("expected no mismatches, got %v", mismatched)
			}
		})
	}
}

func TestCrossCheckMismatch(t *testing.T) {
	first := baseRecord()
	second := baseRecord()
	second.UniversityName = "Another University"

	mismatched := certificates.CrossCheck(&first, &second)
	expected := []string{"University Name"}

	if !slices.Equal(mismatched, expected) {
		t.Errorf("got %v, want %v", mismatched, expected)
	}
}

func TestCrossCheckMultipleMismatches(t *testing.T) {
	first := baseRecord()
	second := baseRecord()
	second.StudentName = "John Doe"
	second.RecordID = "20250115"

	mismatched := certificates.CrossCheck(&first, &second)
	expected := []string{"Student Name", "Record Id"}

	if !slices.Equal(mismatched, expected) {
		t.Errorf("got %v, want %v", mismatched, expected)
	}
}
