package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/gildedlane/catalog-sync/pkg/model"
)

// Subjects for catalog sync events.
const (
	SubjectSyncCompleted = "evt.catalog.sync.completed.v1"
)

// Publisher wraps a NATS connection and publishes canonical sync events.
type Publisher struct {
	logger  *zap.Logger
	nc      *nats.Conn
	js      nats.JetStreamContext
	service string
}

// New creates a Publisher with JetStream enabled.
func New(logger *zap.Logger, nc *nats.Conn, service string) (*Publisher, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	return &Publisher{
		logger:  logger,
		nc:      nc,
		js:      js,
		service: service,
	}, nil
}

// PublishSyncCompleted emits a catalog.sync.completed event for downstream
// consumers (cache invalidation, deploy hooks).
func (p *Publisher) PublishSyncCompleted(ctx context.Context, summary model.SyncSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	env := model.Envelope{
		ID:            uuid.New(),
		CorrelationID: summary.RunID,
		Topic:         SubjectSyncCompleted,
		EventType:     "catalog.sync.completed",
		Version:       "1.0.0",
		Timestamp:     time.Now().UTC(),
		Payload:       payload,
	}

	data, err := json.Marshal(env)
	if err != nil {
		return err
	}

	msg := &nats.Msg{
		Subject: SubjectSyncCompleted,
		Data:    data,
		Header: nats.Header{
			"event_type":     []string{env.EventType},
			"correlation_id": []string{env.CorrelationID.String()},
			"service":        []string{p.service},
			"content_type":   []string{"application/json"},
		},
	}

	if _, err := p.js.PublishMsg(msg); err != nil {
		p.logger.Error("publisher.publish_failed",
			zap.String("subject", SubjectSyncCompleted),
			zap.Error(err))
		return err
	}

	p.logger.Info("publisher.publish_success",
		zap.String("subject", SubjectSyncCompleted),
		zap.Int("products", summary.Products))
	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil && p.nc.IsConnected() {
		p.nc.Close()
	}
}
