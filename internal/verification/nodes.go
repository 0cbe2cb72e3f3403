package verification

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/yephonekyaw/sit-cert-server/internal/certificates"
	"github.com/yephonekyaw/sit-cert-server/internal/extraction"
	"github.com/yephonekyaw/sit-cert-server/internal/submissions"
)

// FetchNode downloads the submitted document bytes from object storage.
func FetchNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		detail, err := stateValue[*submissions.Detail](s, KeySubmission)
		if err != nil {
			return s, fmt.Errorf("fetch: %w", err)
		}

		reader, err := rt.Storage.Download(ctx, detail.FileKey)
		if err != nil {
			return s, fmt.Errorf("fetch: download %s: %w", detail.FileKey, err)
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			return s, fmt.Errorf("fetch: read %s: %w", detail.FileKey, err)
		}

		return s.Set(KeyDocument, data), nil
	})
}

// ExtractNode runs text extraction over the submitted document.
func ExtractNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		detail, err := stateValue[*submissions.Detail](s, KeySubmission)
		if err != nil {
			return s, fmt.Errorf("extract: %w", err)
		}

		data, err := stateValue[[]byte](s, KeyDocument)
		if err != nil {
			return s, fmt.Errorf("extract: %w", err)
		}

		result, err := rt.Engine.Extract(ctx, data, detail.Filename)
		if err != nil {
			return s, fmt.Errorf("extract: %w", err)
		}

		rt.Logger.Info("submitted document extracted",
			"submission_id", detail.ID,
			"method", result.Method,
			"pages", result.Pages,
		)
		return s.Set(KeyExtraction, result), nil
	})
}

// ValidateNode gates the first extraction on authenticity rules. A rejected
// document sets the tamper verdict and short-circuits to resolution.
func ValidateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		detail, err := stateValue[*submissions.Detail](s, KeySubmission)
		if err != nil {
			return s, fmt.Errorf("validate: %w", err)
		}

		result, err := stateValue[*extraction.Result](s, KeyExtraction)
		if err != nil {
			return s, fmt.Errorf("validate: %w", err)
		}

		record, err := rt.Validator.Validate(ctx, detail.StudentFullName, result)
		if err != nil {
			return s, fmt.Errorf("validate: %w", err)
		}

		if record == nil {
			rt.Logger.Info("validation rejected submission", "submission_id", detail.ID)
			return s.Set(KeyVerdict, Tampered()), nil
		}

		return s.Set(KeyRecord, record), nil
	})
}

// RetrieveNode captures the authoritative document from the issuer portal
// and archives a copy. Archive failures are logged, not fatal; the captured
// bytes stay in pipeline state either way.
func RetrieveNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		detail, err := stateValue[*submissions.Detail](s, KeySubmission)
		if err != nil {
			return s, fmt.Errorf("retrieve: %w", err)
		}

		record, err := stateValue[*certificates.Record](s, KeyRecord)
		if err != nil {
			return s, fmt.Errorf("retrieve: %w", err)
		}

		document, err := rt.Retriever.Fetch(ctx, absoluteURL(record.VerificationURL))
		if err != nil {
			return s, fmt.Errorf("retrieve: %w", err)
		}

		key := fmt.Sprintf("%s/%s.pdf", rt.ArchivePrefix, detail.ID)
		if err := rt.Storage.Upload(ctx, key, bytes.NewReader(document), "application/pdf"); err != nil {
			rt.Logger.Warn("archive upload failed", "key", key, "error", err)
		}

		return s.Set(KeyDocument, document), nil
	})
}

// absoluteURL ensures the navigation target carries a scheme. Certificates
// print the verification URL without one, and the browser requires it.
func absoluteURL(raw string) string {
	if strings.HasPrefix(raw, "https://") || strings.HasPrefix(raw, "http://") {
		return raw
	}
	return "https://" + raw
}

// ReextractNode extracts text from the authoritative document and runs the
// deterministic field-extraction pass over it.
func ReextractNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		data, err := stateValue[[]byte](s, KeyDocument)
		if err != nil {
			return s, fmt.Errorf("reextract: %w", err)
		}

		result, err := rt.Engine.Extract(ctx, data, "authoritative.pdf")
		if err != nil {
			return s, fmt.Errorf("reextract: %w", err)
		}

		record, err := rt.Extractor.ExtractFields(ctx, result.Text, certificates.ExtractOptions{
			Deterministic: true,
		})
		if err != nil {
			return s, fmt.Errorf("reextract: %w", err)
		}

		return s.Set(KeyAuthoritative, record), nil
	})
}

// CrossCheckNode compares the two records field by field and sets the final
// verdict.
func CrossCheckNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		record, err := stateValue[*certificates.Record](s, KeyRecord)
		if err != nil {
			return s, fmt.Errorf("crosscheck: %w", err)
		}

		authoritative, err := stateValue[*certificates.Record](s, KeyAuthoritative)
		if err != nil {
			return s, fmt.Errorf("crosscheck: %w", err)
		}

		mismatched := certificates.CrossCheck(record, authoritative)
		if len(mismatched) > 0 {
			rt.Logger.Info("cross-check mismatch", "fields", mismatched)
			return s.Set(KeyVerdict, Mismatched(mismatched)), nil
		}

		return s.Set(KeyVerdict, Approved()), nil
	})
}

// ResolveNode is the terminal node. Every path into it must carry a verdict;
// a missing verdict here is a pipeline defect and resolves to the generic
// rejection.
func ResolveNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		if decided(s) {
			return s, nil
		}

		rt.Logger.Error("pipeline reached resolution without a verdict")
		return s.Set(KeyVerdict, Failed()), nil
	})
}
