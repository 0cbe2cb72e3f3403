package verification

import (
	"context"
	"fmt"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/yephonekyaw/sit-cert-server/internal/submissions"
)

// State keys threaded through the pipeline graph.
const (
	KeySubmission    = "submission"
	KeyDocument      = "document"
	KeyExtraction    = "extraction"
	KeyRecord        = "record"
	KeyAuthoritative = "authoritative_record"
	KeyVerdict       = "verdict"
)

// run executes the pipeline graph for one located submission and returns its
// verdict. The graph rejects early (validation failure, cross-check
// mismatch) by setting the verdict and skipping directly to resolution; a
// graph error means no verdict could be produced and the caller falls back
// to the generic rejection.
func run(ctx context.Context, rt *Runtime, detail *submissions.Detail) (Verdict, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return Verdict{}, fmt.Errorf("build graph: %w", err)
	}

	initial := state.New(nil).Set(KeySubmission, detail)

	final, err := graph.Execute(ctx, initial)
	if err != nil {
		return Verdict{}, fmt.Errorf("execute graph: %w", err)
	}

	verdict, err := verdictFrom(final)
	if err != nil {
		return Verdict{}, err
	}
	return verdict, nil
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("certificate-verification")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("fetch", FetchNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("extract", ExtractNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("validate", ValidateNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("retrieve", RetrieveNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("reextract", ReextractNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("crosscheck", CrossCheckNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("resolve", ResolveNode(rt)); err != nil {
		return nil, err
	}

	// fetch → extract → validate (unconditional)
	if err := graph.AddEdge("fetch", "extract", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("extract", "validate", nil); err != nil {
		return nil, err
	}

	// validate → resolve (validation rejected, verdict already set)
	if err := graph.AddEdge("validate", "resolve", decided); err != nil {
		return nil, err
	}

	// validate → retrieve (validation accepted)
	if err := graph.AddEdge("validate", "retrieve", state.Not(decided)); err != nil {
		return nil, err
	}

	// retrieve → reextract → crosscheck → resolve (unconditional)
	if err := graph.AddEdge("retrieve", "reextract", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("reextract", "crosscheck", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("crosscheck", "resolve", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("fetch"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("resolve"); err != nil {
		return nil, err
	}

	return graph, nil
}

// decided reports whether a verdict has already been set.
func decided(s state.State) bool {
	_, ok := s.Get(KeyVerdict)
	return ok
}

func verdictFrom(s state.State) (Verdict, error) {
	val, ok := s.Get(KeyVerdict)
	if !ok {
		return Verdict{}, fmt.Errorf("%w: %s", ErrMissingState, KeyVerdict)
	}

	verdict, ok := val.(Verdict)
	if !ok {
		return Verdict{}, fmt.Errorf("%w: %s is not Verdict", ErrMissingState, KeyVerdict)
	}
	return verdict, nil
}

func stateValue[T any](s state.State, key string) (T, error) {
	var zero T

	val, ok := s.Get(key)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrMissingState, key)
	}

	typed, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s has unexpected type", ErrMissingState, key)
	}
	return typed, nil
}
