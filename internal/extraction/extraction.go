// Package extraction converts raw certificate documents into text and
// document metadata. Digital PDFs are read directly from their embedded text
// layer; scanned PDFs fall back to optical recognition of the first page.
package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Method identifies which extraction path produced a Result.
type Method string

// Extraction methods.
const (
	MethodDigital Method = "DIGITAL"
	MethodOCR     Method = "OCR"
)

// digitalTextThreshold is the minimum embedded-text length below which a
// document is treated as scanned and routed to optical recognition.
const digitalTextThreshold = 50

// Metadata carries the document information dictionary. Date fields retain
// the raw PDF format (D:YYYYMMDDhhmmss...).
type Metadata struct {
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Keywords     string `json:"keywords,omitempty"`
	Creator      string `json:"creator,omitempty"`
	Producer     string `json:"producer,omitempty"`
	CreationDate string `json:"creation_date,omitempty"`
	ModDate      string `json:"mod_date,omitempty"`
}

// Result is the immutable outcome of one extraction.
type Result struct {
	Method     Method    `json:"method"`
	Pages      int       `json:"pages"`
	Text       string    `json:"text"`
	Confidence *float64  `json:"confidence,omitempty"`
	Metadata   *Metadata `json:"metadata,omitempty"`
}

// Engine extracts text and metadata from document bytes.
type Engine interface {
	Extract(ctx context.Context, data []byte, filename string) (*Result, error)
}

type engine struct {
	digital    func(ctx context.Context, data []byte) (*Result, error)
	render     func(data []byte) ([]byte, error)
	recognizer Recognizer
	logger     *slog.Logger
}

// New creates an extraction engine backed by Tesseract optical recognition.
func New(logger *slog.Logger) Engine {
	return NewWithRecognizer(tesseractRecognizer{}, logger)
}

// NewWithRecognizer creates an engine with a custom optical recognizer.
func NewWithRecognizer(recognizer Recognizer, logger *slog.Logger) Engine {
	e := &engine{
		recognizer: recognizer,
		logger:     logger.With("system", "extraction"),
	}
	e.digital = e.extractDigital
	e.render = renderFirstPage
	return e
}

func (e *engine) Extract(ctx context.Context, data []byte, filename string) (*Result, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext != "pdf" {
		return nil, fmt.Errorf("%w: .%s", ErrUnsupportedFormat, ext)
	}

	result, err := e.digital(ctx, data)
	if err != nil {
		return nil, err
	}

	if !needsFallback(result.Text) {
		e.logger.Debug("digital extraction complete", "pages", result.Pages, "chars", len(result.Text))
		return result, nil
	}

	ocr, err := e.extractOCR(ctx, data)
	if err != nil {
		return nil, err
	}

	// Metadata is path-independent; reuse the digital parse rather than
	// reopening the document.
	ocr.Metadata = result.Metadata

	e.logger.Debug("optical extraction complete", "confidence", ocr.Confidence, "chars", len(ocr.Text))
	return ocr, nil
}

// needsFallback reports whether the embedded text layer is too sparse to
// trust, indicating a scanned document.
func needsFallback(text string) bool {
	return len(strings.TrimSpace(text)) <= digitalTextThreshold
}

// cleanText collapses runs of whitespace and trims the result.
func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
