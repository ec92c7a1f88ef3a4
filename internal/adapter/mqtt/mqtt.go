// Package mqtt publishes per-spot assessments to an MQTT broker as retained
// messages, so a subscriber always sees the latest conditions for a spot.
package mqtt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/surf-conditions-service/internal/domain"
)

// Delivery settings for assessment messages.
const (
	QoS      byte = 1
	Retained      = true
)

// Publisher publishes payloads to MQTT topics.
type Publisher interface {
	// Publish sends a payload to topic. Errors should not crash the process.
	Publish(topic string, payload []byte) error

	// Close disconnects from the broker.
	Close() error
}

// TopicFor returns the topic carrying a spot's assessments, e.g.
// "surf/conditions/la-torche".
func TopicFor(prefix, slug string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + slug
}

// StatusTopic returns the topic carrying the service's online/offline status.
func StatusTopic(prefix string) string {
	return strings.TrimSuffix(prefix, "/") + "/status"
}

// Sink adapts a Publisher to pipeline.BatchLoader, routing each event to its
// spot topic.
type Sink struct {
	pub    Publisher
	prefix string
	logger *slog.Logger
}

// NewSink creates a Sink publishing under prefix.
func NewSink(pub Publisher, prefix string, logger *slog.Logger) *Sink {
	return &Sink{pub: pub, prefix: prefix, logger: logger}
}

// LoadBatch publishes every event. Events without a spot header are skipped;
// publish failures are collected and returned together.
func (s *Sink) LoadBatch(_ context.Context, events []domain.OutputEvent) error {
	var errs []error
	for _, e := range events {
		slug := e.Headers["spot"]
		if slug == "" {
			s.logger.Warn("assessment without spot header, not published", "key", string(e.Key))
			continue
		}
		if err := s.pub.Publish(TopicFor(s.prefix, slug), e.Value); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", slug, err))
		}
	}
	return errors.Join(errs...)
}
