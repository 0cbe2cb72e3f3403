package certificates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	pdfDatePrefix = "D:"
	pdfDateLayout = "20060102"
	// displayDateLayout matches the generated-on date printed on issuer
	// certificates, e.g. "14-Jan-2025".
	displayDateLayout = "02-Jan-2006"
)

// ReferenceCheck reports whether a verification URL is a valid issuer
// reference for the given record id. Isolating the predicate keeps the URL
// format out of pipeline logic.
type ReferenceCheck func(url, recordID string) bool

// NewReferenceCheck builds a ReferenceCheck for the issuer verification
// host. The reference must carry a UUID token followed by an 8-digit code
// equal to the record id.
func NewReferenceCheck(host string) ReferenceCheck {
	pattern := regexp.MustCompile(
		`^(?:https://)?` + regexp.QuoteMeta(host) +
			`/verify/\?w[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}-(\d{8})$`,
	)

	return func(url, recordID string) bool {
		matches := pattern.FindStringSubmatch(strings.TrimSpace(url))
		if len(matches) != 2 {
			return false
		}
		return matches[1] == recordID
	}
}

// FormatPDFDate converts a document-metadata timestamp in the issuer format
// D:YYYYMMDDhhmmss... to the display form printed on certificates.
func FormatPDFDate(raw string) (string, error) {
	value := strings.TrimPrefix(strings.TrimSpace(raw), pdfDatePrefix)
	if len(value) < len(pdfDateLayout) {
		return "", fmt.Errorf("%w: %q", ErrMetadataDate, raw)
	}

	parsed, err := time.Parse(pdfDateLayout, value[:len(pdfDateLayout)])
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrMetadataDate, raw, err)
	}

	return parsed.Format(displayDateLayout), nil
}
