package extraction

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	dcconfig "github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/image"

	"github.com/otiai10/gosseract/v2"
)

const (
	// ocrDPI is the render resolution for the recognition pass.
	ocrDPI = 300
	// minTokenConfidence is the per-token floor below which recognized
	// tokens are discarded entirely.
	minTokenConfidence = 70.0

	sourcePDF = "source.pdf"
)

// Word is a single recognized token with its confidence score.
type Word struct {
	Text       string
	Confidence float64
}

// Recognizer performs optical character recognition on a rendered page image.
type Recognizer interface {
	Recognize(ctx context.Context, img []byte) ([]Word, error)
}

type tesseractRecognizer struct{}

func (tesseractRecognizer) Recognize(_ context.Context, img []byte) ([]Word, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(img); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		words = append(words, Word{
			Text:       strings.TrimSpace(box.Word),
			Confidence: box.Confidence,
		})
	}
	return words, nil
}

// extractOCR renders only the first page at high resolution and recognizes
// it. Scanned certificates are single-page; later pages carry no signal worth
// the render cost.
func (e *engine) extractOCR(ctx context.Context, data []byte) (*Result, error) {
	img, err := e.render(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	words, err := e.recognizer.Recognize(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	text, confidence := assembleWords(words)

	return &Result{
		Method:     MethodOCR,
		Pages:      1,
		Text:       cleanText(text),
		Confidence: &confidence,
	}, nil
}

// assembleWords drops tokens at or below the confidence floor and returns the
// joined text with the mean confidence of the tokens that survived.
func assembleWords(words []Word) (string, float64) {
	kept := make([]string, 0, len(words))
	var total float64

	for _, w := range words {
		if w.Confidence <= minTokenConfidence || w.Text == "" {
			continue
		}
		kept = append(kept, w.Text)
		total += w.Confidence
	}

	if len(kept) == 0 {
		return "", 0
	}

	mean := math.Round(total/float64(len(kept))*100) / 100
	return strings.Join(kept, " "), mean
}

func renderFirstPage(data []byte) ([]byte, error) {
	tempDir, err := os.MkdirTemp("", "sitcert-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	pdfPath := filepath.Join(tempDir, sourcePDF)
	if err := os.WriteFile(pdfPath, data, 0600); err != nil {
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}

	pdfDoc, err := document.OpenPDF(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer pdfDoc.Close()

	page, err := pdfDoc.ExtractPage(1)
	if err != nil {
		return nil, fmt.Errorf("extract page 1: %w", err)
	}

	renderer, err := image.NewImageMagickRenderer(dcconfig.ImageConfig{
		Format: "png",
		DPI:    ocrDPI,
		Options: map[string]any{
			"background": "white",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	img, err := page.ToImage(renderer, nil)
	if err != nil {
		return nil, fmt.Errorf("render page 1: %w", err)
	}

	return img, nil
}
