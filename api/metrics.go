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
	tracerName        = "project-board/api"
	submitSpanName    = "POST /api/projects"
	submitEventName   = "project_submitted"
	submitEventDomain = "board"
)

// submitMetrics collects per-stage timings for one submission request and
// emits a single structured observability event when the request finishes.
type submitMetrics struct {
	logger *log.Logger
	span   trace.Span
	start  time.Time

	validateDuration time.Duration
	addDuration      time.Duration
	duplicate        bool
	projectID        string
	errorStage       string
}

func newSubmitMetrics(ctx context.Context, logger *log.Logger) (*submitMetrics, context.Context) {
	spanCtx, span := otel.Tracer(tracerName).Start(ctx, submitSpanName)
	return &submitMetrics{logger: logger, span: span, start: time.Now()}, spanCtx
}

func (m *submitMetrics) ObserveValidate(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.validateDuration = duration
}

func (m *submitMetrics) ObserveAdd(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.addDuration = duration
}

func (m *submitMetrics) SetDuplicate(duplicate bool) {
	m.duplicate = duplicate
}

func (m *submitMetrics) SetProjectID(id string) {
	if id == "" {
		return
	}
	m.projectID = id
}

func (m *submitMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

// Log finalizes the span and writes the observability event. It must run
// exactly once, after the response status is known.
func (m *submitMetrics) Log(status int, err error) {
	if m == nil {
		return
	}

	attrs := map[string]any{
		"http.route":             "/api/projects",
		"http.status_code":       status,
		"board.submit.duplicate": m.duplicate,
		"total_ms":               durationToMillis(time.Since(m.start)),
	}
	if m.validateDuration > 0 {
		attrs["validate_ms"] = durationToMillis(m.validateDuration)
	}
	if m.addDuration > 0 {
		attrs["add_ms"] = durationToMillis(m.addDuration)
	}
	if m.projectID != "" {
		attrs["board.project.id"] = m.projectID
	}
	if m.errorStage != "" {
		attrs["error.stage"] = m.errorStage
	}

	if m.span != nil {
		m.span.SetAttributes(attributesFromMap(attrs)...)
		if err != nil || status >= http.StatusInternalServerError {
			m.span.SetStatus(codes.Error, "submit failed")
			if err != nil {
				m.span.RecordError(err)
			}
		} else {
			m.span.SetStatus(codes.Ok, "")
		}
		m.span.End()
	}

	if m.logger == nil {
		return
	}
	severityText, severityNumber := severityForStatus(status, err)
	fields := log.Fields{
		"event.name":      submitEventName,
		"event.domain":    submitEventDomain,
		"severity.text":   severityText,
		"severity.number": severityNumber,
		"attributes":      attrs,
	}
	if m.span != nil {
		sc := m.span.SpanContext()
		if sc.HasTraceID() {
			fields["trace_id"] = sc.TraceID().String()
		}
		if sc.HasSpanID() {
			fields["span_id"] = sc.SpanID().String()
		}
	}
	entry := m.logger.WithFields(fields)
	switch {
	case severityNumber >= 17:
		entry.Error("observability.event")
	case severityNumber >= 13:
		entry.Warn("observability.event")
	default:
		entry.Info("observability.event")
	}
}

// severityForStatus maps the response outcome to OTel log severity.
func severityForStatus(status int, err error) (string, int) {
	switch {
	case err != nil || status >= http.StatusInternalServerError:
		return "ERROR", 17
	case status >= http.StatusBadRequest:
		return "WARN", 13
	default:
		return "INFO", 9
	}
}

func attributesFromMap(attrs map[string]any) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		switch val := v.(type) {
		case string:
			out = append(out, attribute.String(k, val))
		case bool:
			out = append(out, attribute.Bool(k, val))
		case int:
			out = append(out, attribute.Int(k, val))
		case float64:
			out = append(out, attribute.Float64(k, val))
		}
	}
	return out
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
