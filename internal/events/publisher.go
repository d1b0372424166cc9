package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/swiftride/dispatch/pkg/logger"
)

// Event types published to the lifecycle topic
const (
	TypeRequestCreated = "request_created"
	TypeRideMatched    = "ride_matched"
	TypeRideCompleted  = "ride_completed"
	TypeRideCancelled  = "ride_cancelled"
)

// Event is a ride lifecycle record for downstream consumers (analytics,
// settlement). Delivery is best-effort; the dispatch path never blocks on it.
type Event struct {
	Type       string    `json:"type"`
	RequestID  string    `json:"request_id,omitempty"`
	RideID     string    `json:"ride_id,omitempty"`
	RiderID    string    `json:"rider_id,omitempty"`
	DriverID   string    `json:"driver_id,omitempty"`
	Fare       int       `json:"fare,omitempty"`
	DistanceKM float64   `json:"distance_km,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher writes lifecycle events to Kafka. A nil Publisher is valid and
// drops everything, which is how the service runs without a broker configured.
type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

// NewPublisher creates a Kafka-backed publisher, or nil when no brokers are configured
func NewPublisher(brokers []string, topic string, log *logger.Logger) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &Publisher{writer: w, logger: log}
}

// Publish sends one event, keyed by request id for per-request ordering.
// Failures are logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, ev Event) {
	if p == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	b, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("Failed to marshal lifecycle event", logger.Err(err))
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(ev.RequestID),
		Value: b,
	}); err != nil {
		p.logger.Warn("Failed to publish lifecycle event",
			logger.String("type", ev.Type),
			logger.Err(err),
		)
	}
}

// Close flushes and closes the underlying writer
func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
