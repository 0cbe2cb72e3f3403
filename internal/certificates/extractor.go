package certificates

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/yephonekyaw/sit-cert-server/pkg/formatting"
)

// defaultSystemPrompt binds the inference call to the Record schema.
const defaultSystemPrompt = `You extract fields from training certificate text.
Respond with only a JSON object containing these keys, each a string
("" when the value is not present in the text):
student_name, record_id, verification_url, expiration_date,
curriculum_group, course_learner_group, university_name, generated_on.
Copy values exactly as they appear. Do not add commentary.`

// ExtractOptions tunes a single field-extraction call. Deterministic forces
// zero sampling variance and is used for the authoritative-document pass so
// that repeated runs over the same text yield the same record.
type ExtractOptions struct {
	Deterministic bool
	SystemPrompt  string
}

// FieldExtractor converts free certificate text into a Record.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string, opts ExtractOptions) (*Record, error)
}

type fieldExtractor struct {
	config gaconfig.AgentConfig
	logger *slog.Logger
}

// NewFieldExtractor creates a FieldExtractor backed by the configured
// inference agent. The agent itself is constructed per call; the extractor
// holds no mutable state across calls.
func NewFieldExtractor(config gaconfig.AgentConfig, logger *slog.Logger) FieldExtractor {
	return &fieldExtractor{
		config: config,
		logger: logger.With("system", "certificates"),
	}
}

func (f *fieldExtractor) ExtractFields(ctx context.Context, text string, opts ExtractOptions) (*Record, error) {
	cfg := f.agentConfig(opts.Deterministic)

	a, err := agent.New(&cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create agent: %w", ErrModelExtraction, err)
	}

	system := opts.SystemPrompt
	if system == "" {
		system = defaultSystemPrompt
	}

	prompt := fmt.Sprintf("%s\n\nCertificate text:\n%s", system, text)

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: chat call: %w", ErrModelExtraction, err)
	}

	record, err := formatting.Parse[Record](resp.Content())
	if err != nil {
		return nil, fmt.Errorf("%w: parse response: %w", ErrModelExtraction, err)
	}

	f.logger.Debug("fields extracted", "deterministic", opts.Deterministic, "record_id", record.RecordID)
	return &record, nil
}

// agentConfig clones the base configuration so per-call sampling options
// never leak between deterministic and default passes.
func (f *fieldExtractor) agentConfig(deterministic bool) gaconfig.AgentConfig {
	cfg := f.config

	provider := *cfg.Provider
	provider.Options = maps.Clone(cfg.Provider.Options)
	if provider.Options == nil {
		provider.Options = make(map[string]any)
	}
	if deterministic {
		provider.Options["temperature"] = 0.0
	}
	cfg.Provider = &provider

	model := *cfg.Model
	cfg.Model = &model

	return cfg
}
