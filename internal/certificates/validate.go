package certificates

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yephonekyaw/sit-cert-server/internal/extraction"
)

// Validator applies authenticity rules to the first extraction pass. Every
// rule fails closed: a nil record with a nil error means the document was
// rejected, never partially accepted.
type Validator struct {
	extractor FieldExtractor
	reference ReferenceCheck
	logger    *slog.Logger
}

// NewValidator creates a Validator bound to the issuer verification host.
func NewValidator(extractor FieldExtractor, verifyHost string, logger *slog.Logger) *Validator {
	return &Validator{
		extractor: extractor,
		reference: NewReferenceCheck(verifyHost),
		logger:    logger.With("system", "certificates"),
	}
}

// Validate runs field extraction over the submitted document text and gates
// the result on metadata consistency, submitter identity, and the issuer
// reference format. A nil, nil return rejects the document for cross-check.
// Errors are reserved for exceptional conditions such as inference failure
// or malformed metadata dates.
func (v *Validator) Validate(ctx context.Context, submitterName string, result *extraction.Result) (*Record, error) {
	if result.Metadata == nil {
		v.logger.Info("document has no metadata, rejecting")
		return nil, nil
	}

	record, err := v.extractor.ExtractFields(ctx, result.Text, ExtractOptions{})
	if err != nil {
		return nil, err
	}

	created, err := FormatPDFDate(result.Metadata.CreationDate)
	if err != nil {
		return nil, fmt.Errorf("creation date: %w", err)
	}
	if created != record.GeneratedOn {
		v.logger.Info("generated-on date mismatch", "metadata", created, "extracted", record.GeneratedOn)
		return nil, nil
	}

	if normalizeName(submitterName) != normalizeName(record.StudentName) {
		v.logger.Info("student name mismatch")
		return nil, nil
	}

	if !v.reference(record.VerificationURL, record.RecordID) {
		v.logger.Info("verification reference rejected", "record_id", record.RecordID)
		return nil, nil
	}

	return record, nil
}

// normalizeName removes all whitespace and lower-cases the result.
func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}
