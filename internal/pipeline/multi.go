package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/surf-conditions-service/internal/domain"
)

// MultiLoader fans a batch out to a primary loader and any number of
// secondary loaders. Only the primary decides success: secondary failures are
// logged and the batch is still committed.
type MultiLoader struct {
	primary     BatchLoader
	secondaries []namedLoader
	logger      *slog.Logger
}

type namedLoader struct {
	name   string
	loader BatchLoader
}

// NewMultiLoader wraps primary. Attach optional sinks with With.
func NewMultiLoader(primary BatchLoader, logger *slog.Logger) *MultiLoader {
	return &MultiLoader{primary: primary, logger: logger}
}

// With registers a secondary loader under name, used in log lines.
func (m *MultiLoader) With(name string, l BatchLoader) *MultiLoader {
	m.secondaries = append(m.secondaries, namedLoader{name: name, loader: l})
	return m
}

func (m *MultiLoader) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	if err := m.primary.LoadBatch(ctx, events); err != nil {
		return err
	}
	for _, s := range m.secondaries {
		if err := s.loader.LoadBatch(ctx, events); err != nil {
			m.logger.Warn("secondary sink failed", "sink", s.name, "error", err, "batch_size", len(events))
		}
	}
	return nil
}
