package api

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName         = "prism-board/api"
	observabilityName  = "observability.event"
	requestEventName   = "board.request"
	requestEventDomain = "prism-board"
)

// requestMetrics times one board request and reports it as a span plus a
// structured log entry.
type requestMetrics struct {
	logger *log.Logger
	span   trace.Span
	route  string
	start  time.Time

	authDuration     time.Duration
	dispatchDuration time.Duration
	namespace        string
	eventsReceived   int
	eventsProcessed  int
	duplicate        bool
	errorStage       string
}

func newRequestMetrics(ctx context.Context, logger *log.Logger, route string) (*requestMetrics, context.Context) {
	spanCtx, span := otel.Tracer(tracerName).Start(ctx, requestEventName, trace.WithSpanKind(trace.SpanKindServer))
	return &requestMetrics{
		logger: logger,
		span:   span,
		route:  route,
		start:  time.Now(),
	}, spanCtx
}

func (m *requestMetrics) ObserveAuth(d time.Duration) {
	if d > 0 {
		m.authDuration = d
	}
}

func (m *requestMetrics) ObserveDispatch(d time.Duration) {
	if d > 0 {
		m.dispatchDuration = d
	}
}

func (m *requestMetrics) SetNamespace(ns string) { m.namespace = ns }

func (m *requestMetrics) SetEvents(received, processed int) {
	m.eventsReceived = received
	m.eventsProcessed = processed
}

func (m *requestMetrics) SetDuplicate(dup bool) { m.duplicate = dup }

func (m *requestMetrics) SetErrorStage(stage string) {
	if stage != "" {
		m.errorStage = stage
	}
}

func (m *requestMetrics) attributes(status int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("http.route", m.route),
		attribute.Int("http.status_code", status),
		attribute.Float64("prism.board.total_ms", durationToMillis(time.Since(m.start))),
		attribute.Int("prism.board.events_received", m.eventsReceived),
		attribute.Int("prism.board.events_processed", m.eventsProcessed),
		attribute.Bool("prism.board.duplicate", m.duplicate),
	}
	if m.namespace != "" {
		attrs = append(attrs, attribute.String("prism.board.namespace", m.namespace))
	}
	if m.authDuration > 0 {
		attrs = append(attrs, attribute.Float64("prism.board.auth_ms", durationToMillis(m.authDuration)))
	}
	if m.dispatchDuration > 0 {
		attrs = append(attrs, attribute.Float64("prism.board.dispatch_ms", durationToMillis(m.dispatchDuration)))
	}
	if m.errorStage != "" {
		attrs = append(attrs, attribute.String("prism.board.error_stage", m.errorStage))
	}
	return attrs
}

// Log ends the span and writes the observability event.
func (m *requestMetrics) Log(status int, err error) {
	if m == nil {
		return
	}
	defer m.span.End()

	attrs := m.attributes(status)
	severityText, severityNumber := severityForStatus(status, err)

	eventAttrs := append([]attribute.KeyValue{
		attribute.String("event.name", requestEventName),
		attribute.String("event.domain", requestEventDomain),
		attribute.String("severity_text", severityText),
		attribute.Int("severity_number", severityNumber),
	}, attrs...)
	if err != nil {
		eventAttrs = append(eventAttrs, attribute.String("error.message", err.Error()))
	}

	m.span.SetAttributes(attrs...)
	m.span.AddEvent(observabilityName, trace.WithAttributes(eventAttrs...))
	if err != nil || status >= http.StatusInternalServerError {
		desc := http.StatusText(status)
		if err != nil {
			m.span.RecordError(err)
			desc = err.Error()
		}
		m.span.SetStatus(codes.Error, desc)
	} else {
		m.span.SetStatus(codes.Ok, "")
	}

	if m.logger == nil {
		return
	}
	fields := log.Fields{
		"event.name":      requestEventName,
		"event.domain":    requestEventDomain,
		"severity_text":   severityText,
		"severity_number": severityNumber,
		"attributes":      attributesToMap(attrs),
	}
	if sc := m.span.SpanContext(); sc.IsValid() {
		fields["trace_id"] = sc.TraceID().String()
		fields["span_id"] = sc.SpanID().String()
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	entry := m.logger.WithFields(fields)
	switch severityText {
	case "ERROR":
		entry.Error(observabilityName)
	case "WARN":
		entry.Warn(observabilityName)
	default:
		entry.Info(observabilityName)
	}
}

// severityForStatus maps a response to OpenTelemetry log severity text and number.
func severityForStatus(status int, err error) (string, int) {
	switch {
	case status >= http.StatusInternalServerError, status == 0 && err != nil:
		return "ERROR", 17
	case status >= http.StatusBadRequest:
		return "WARN", 13
	default:
		return "INFO", 9
	}
}

func attributesToMap(attrs []attribute.KeyValue) map[string]any {
	out := make(map[string]any, len(attrs))
	for _, kv := range attrs {
		out[string(kv.Key)] = kv.Value.AsInterface()
	}
	return out
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
