// Package notifications publishes verification outcome events to the
// notification topic. Delivery is fire and forget from the pipeline's point
// of view; a failed publish is logged, never surfaced as a run failure.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"github.com/yephonekyaw/sit-cert-server/internal/config"
	"github.com/yephonekyaw/sit-cert-server/pkg/lifecycle"
)

// Notification codes keyed by verification decision.
const (
	CodeVerify  = "certificate_submission_verify"
	CodeReject  = "certificate_submission_reject"
	CodeRequest = "certificate_submission_request"
)

// ActorSystem marks events produced by automated verification.
const ActorSystem = "system"

// Event is one notification published for downstream dispatch channels.
type Event struct {
	RequestID    string      `json:"request_id"`
	Code         string      `json:"code"`
	EntityID     uuid.UUID   `json:"entity_id"`
	ActorType    string      `json:"actor_type"`
	RecipientIDs []uuid.UUID `json:"recipient_ids"`
	InApp        bool        `json:"in_app"`
	LineApp      bool        `json:"line_app"`
}

// System defines the public contract for notification publishing.
type System interface {
	Enqueue(ctx context.Context, event Event) error
	Start(lc *lifecycle.Coordinator) error
}

type producer struct {
	sync   sarama.SyncProducer
	topic  string
	logger *slog.Logger
}

// New creates a notification publisher backed by a Kafka sync producer.
func New(cfg *config.BrokerConfig, logger *slog.Logger) (System, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal

	sync, err := sarama.NewSyncProducer(cfg.Addrs, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create producer: %w", err)
	}

	return &producer{
		sync:   sync,
		topic:  cfg.Topic,
		logger: logger.With("system", "notifications"),
	}, nil
}

func (p *producer) Enqueue(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	partition, offset, err := p.sync.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.EntityID.String()),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	p.logger.Debug("notification published",
		"code", event.Code,
		"entity_id", event.EntityID,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (p *producer) Start(lc *lifecycle.Coordinator) error {
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		p.logger.Info("closing notification producer")

		if err := p.sync.Close(); err != nil {
			p.logger.Error("producer close failed", "error", err)
			return
		}

		p.logger.Info("notification producer closed")
	})

	return nil
}
