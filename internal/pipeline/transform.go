package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/surf-conditions-service/internal/domain"
	"github.com/couchcryptid/surf-conditions-service/internal/observability"
)

// ConditionTransformer implements Transformer by parsing a spot reading,
// assessing it, and serializing the assessment for the sinks.
type ConditionTransformer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a ConditionTransformer. metrics may be nil.
func NewTransformer(logger *slog.Logger, metrics *observability.Metrics) *ConditionTransformer {
	return &ConditionTransformer{
		logger:  logger,
		metrics: metrics,
	}
}

func (t *ConditionTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	rec, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	a := domain.AssessReading(rec)

	if a.SpotName == "" {
		t.logger.Debug("reading for spot outside the catalog", "spot", a.Spot)
	}
	if t.metrics != nil {
		t.metrics.Assessments.WithLabelValues(string(a.Result.Quality)).Inc()
	}

	return domain.SerializeAssessment(a)
}
