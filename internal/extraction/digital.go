package extraction

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

const digitalConfidence = 99.0

// extractDigital reads the embedded text layer of every page and the document
// information dictionary. Page count comes from pdfcpu, which validates the
// cross-reference table more strictly than the text reader.
func (e *engine) extractDigital(ctx context.Context, data []byte) (*Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: open document: %w", ErrExtraction, err)
	}

	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		e.logger.Warn("page count failed, using reader value", "error", err)
		pages = reader.NumPage()
	}

	sections := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d text: %w", ErrExtraction, i, err)
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			sections = append(sections, trimmed)
		}
	}

	text := cleanText(strings.Join(sections, "\n\n"))

	confidence := digitalConfidence
	if text == "" {
		confidence = 0
	}

	return &Result{
		Method:     MethodDigital,
		Pages:      pages,
		Text:       text,
		Confidence: &confidence,
		Metadata:   readMetadata(reader),
	}, nil
}

func readMetadata(reader *pdf.Reader) *Metadata {
	info := reader.Trailer().Key("Info")
	if info.IsNull() {
		return nil
	}

	return &Metadata{
		Title:        info.Key("Title").Text(),
		Author:       info.Key("Author").Text(),
		Subject:      info.Key("Subject").Text(),
		Keywords:     info.Key("Keywords").Text(),
		Creator:      info.Key("Creator").Text(),
		Producer:     info.Key("Producer").Text(),
		CreationDate: info.Key("CreationDate").RawString(),
		ModDate:      info.Key("ModDate").RawString(),
	}
}
