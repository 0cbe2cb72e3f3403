package certificates_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/yephonekyaw/sit-cert-server/internal/certificates"
	"github.com/yephonekyaw/sit-cert-server/internal/extraction"
)

type fakeExtractor struct {
	record *certificates.Record
	err    error
	calls  int
}

func (f *fakeExtractor) ExtractFields(_ context.Context, _ string, _ certificates.ExtractOptions) (*certificates.Record, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	record := *f.record
	return &record, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validExtraction() *extraction.Result {
	confidence := 99.0
	return &extraction.Result{
		Method:     extraction.MethodDigital,
		Pages:      1,
		Text:       "certificate text",
		Confidence: &confidence,
		Metadata: &extraction.Metadata{
			Producer:     "iText",
			CreationDate: "D:20250114031902-05'00'",
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	record := baseRecord()
	extractor := &fakeExtractor{record: &record}
	validator := certificates.NewValidator(extractor, "www.citiprogram.org", discardLogger())

	got, err := validator.Validate(context.Background(), "Jane Doe", validExtraction())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if got.RecordID != record.RecordID {
		t.Errorf("got record id %q, want %q", got.RecordID, record.RecordID)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name          string
		submitterName string
		mutateResult  func(*extraction.Result)
		mutateRecord  func(*certificates.Record)
	}{
		{"missing metadata", "Jane Doe", func(r *extraction.Result) {
			r.Metadata = nil
		}, nil},
		{"generated on mismatch", "Jane Doe", nil, func(r *certificates.Record) {
			r.GeneratedOn = "15-Jan-2025"
		}},
		{"name mismatch", "John Doe", nil, nil},
		{"record id mismatch", "Jane Doe", nil, func(r *certificates.Record) {
			r.RecordID = "20250115"
		}},
		{"invalid reference url", "Jane Doe", nil, func(r *certificates.Record) {
			r.VerificationURL = "https://www.example.org/verify/?w123"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := baseRecord()
			if tt.mutateRecord != nil {
				tt.mutateRecord(&record)
			}

			result := validExtraction()
			if tt.mutateResult != nil {
				tt.mutateResult(result)
			}

			extractor := &fakeExtractor{record: &record}
			validator := certificates.NewValidator(extractor, "www.citiprogram.org", discardLogger())

			got, err := validator.Validate(context.Background(), tt.submitterName, result)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != nil {
				t.Errorf("expected rejection, got record %+v", got)
			}
		})
	}
}

func TestValidateNameNormalization(t *testing.T) {
	record := baseRecord()
	extractor := &fakeExtractor{record: &record}
	validator := certificates.NewValidator(extractor, "www.citiprogram.org", discardLogger())

	got, err := validator.Validate(context.Background(), "  jane   DOE ", validExtraction())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Error("expected record, got rejection")
	}
}

func TestValidateMalformedDate(t *testing.T) {
	record := baseRecord()
	extractor := &fakeExtractor{record: &record}
	validator := certificates.NewValidator(extractor, "www.citiprogram.org", discardLogger())

	result := validExtraction()
	result.Metadata.CreationDate = "D:garbage"

	_, err := validator.Validate(context.Background(), "Jane Doe", result)
	if !errors.Is(err, certificates.ErrMetadataDate) {
		t.Errorf("got %v, want ErrMetadataDate", err)
	}
}

func TestValidateExtractorFailure(t *testing.T) {
	extractor := &fakeExtractor{err: certificates.ErrModelExtraction}
	validator := certificates.NewValidator(extractor, "www.citiprogram.org", discardLogger())

	_, err := validator.Validate(context.Background(), "Jane Doe", validExtraction())
	if !errors.Is(err, certificates.ErrModelExtraction) {
		t.Errorf("got %v, want ErrModelExtraction", err)
	}
}

func TestValidateSkipsExtractionWithoutMetadata(t *testing.T) {
	record := baseRecord()
	extractor := &fakeExtractor{record: &record}
	validator := certificates.NewValidator(extractor, "www.citiprogram.org", discardLogger())

	result := validExtraction()
	result.Metadata = nil

	if _, err := validator.Validate(context.Background(), "Jane Doe", result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if extractor.calls != 0 {
		t.Errorf("extractor called %d times, want 0", extractor.calls)
	}
}
