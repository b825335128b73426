package api

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	boardEventName   = "board.fetch"
	boardEventDomain = "boardd"
)

// boardRequestMetrics collects per-request measurements for the board fetch
// path and emits them both as a trace span and a structured log event.
type boardRequestMetrics struct {
	logger       *log.Logger
	span         trace.Span
	start        time.Time
	readDuration time.Duration
	cardsCount   int
	materialized bool
	errorStage   string
}

func newBoardRequestMetrics(ctx context.Context, logger *log.Logger) (*boardRequestMetrics, context.Context) {
	m := &boardRequestMetrics{logger: logger, start: time.Now()}
	tracer := otel.Tracer("boardd/api")
	spanCtx, span := tracer.Start(ctx, boardEventName)
	m.span = span
	return m, spanCtx
}

func (m *boardRequestMetrics) ObserveRead(duration time.Duration) {
	if duration > 0 {
		m.readDuration = duration
	}
}

func (m *boardRequestMetrics) SetCardsReturned(count int) {
	if count < 0 {
		count = 0
	}
	m.cardsCount = count
}

func (m *boardRequestMetrics) SetMaterialized(materialized bool) {
	m.materialized = materialized
}

func (m *boardRequestMetrics) SetErrorStage(stage string) {
	if stage != "" {
		m.errorStage = stage
	}
}

func (m *boardRequestMetrics) Log(status int, err error) {
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("http.route", "/api/board"),
		attribute.Int("http.status_code", status),
		attribute.Int("board.cards_returned", m.cardsCount),
		attribute.Bool("board.materialized", m.materialized),
	}
	if m.errorStage != "" {
		attrs = append(attrs, attribute.String("error.stage", m.errorStage))
	}
	if m.span != nil {
		m.span.SetAttributes(attrs...)
		if err != nil {
			m.span.RecordError(err)
			m.span.SetStatus(codes.Error, err.Error())
		}
		m.span.End()
	}

	if m.logger == nil {
		return
	}
	fields := log.Fields{
		"event.name":     boardEventName,
		"event.domain":   boardEventDomain,
		"status":         status,
		"total_ms":       durationToMillis(time.Since(m.start)),
		"cards_returned": m.cardsCount,
		"materialized":   m.materialized,
	}
	if m.readDuration > 0 {
		fields["read_ms"] = durationToMillis(m.readDuration)
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	m.logger.WithFields(fields).Info("board.request.metrics")
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
