package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const ReportFileName = "performance-report.json"

var (
	tracer       trace.Tracer
	spanRecorder *SpanRecorder
	outputDir    string
)

// SpanRecorder records ended spans for the performance report.
// The two diff branches end spans concurrently.
type SpanRecorder struct {
	mu    sync.Mutex
	spans []spanRecord
}

type spanRecord struct {
	Name       string
	Duration   time.Duration
	Start      time.Time
	End        time.Time
	ParentID   string
	SpanID     string
	Attributes map[string]string
}

// ReportSpan is one node of the span tree in the performance report
type ReportSpan struct {
	Name       string            `json:"name"`
	DurationMs float64           `json:"durationMs"`
	Start      string            `json:"start"`
	End        string            `json:"end"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Children   []ReportSpan      `json:"children,omitempty"`
}

// Report is the content of performance-report.json. WallClockMs spans the
// earliest start to the latest end, so parallel branches are not double counted.
type Report struct {
	Spans       []ReportSpan `json:"spans"`
	WallClockMs float64      `json:"wallClockMs"`
	GeneratedAt string       `json:"generatedAt"`
}

// InitTracer initializes OpenTelemetry tracing. When disabled, spans are no-ops
// and the returned shutdown does nothing.
func InitTracer(serviceName string, enabled bool, outDir string) (func(), error) {
	if !enabled {
		return func() {}, nil
	}

	spanRecorder = &SpanRecorder{}
	outputDir = outDir

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(&recordingSpanProcessor{recorder: spanRecorder}),
	)

	otel.SetTracerProvider(tp)
	tracer = tp.Tracer("attrdiff")

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
		_ = ExportReport()
		tracer = nil
		spanRecorder = nil
	}

	return shutdown, nil
}

// StartSpan starts a new span
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}

// recordingSpanProcessor records spans for the performance report
type recordingSpanProcessor struct {
	recorder *SpanRecorder
}

func (p *recordingSpanProcessor) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {}

func (p *recordingSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if p.recorder == nil {
		return
	}
	parentID := ""
	if s.Parent().IsValid() {
		parentID = s.Parent().SpanID().String()
	}
	var attrs map[string]string
	if kvs := s.Attributes(); len(kvs) > 0 {
		attrs = make(map[string]string, len(kvs))
		for _, kv := range kvs {
			attrs[string(kv.Key)] = kv.Value.Emit()
		}
	}

	p.recorder.mu.Lock()
	defer p.recorder.mu.Unlock()
	p.recorder.spans = append(p.recorder.spans, spanRecord{
		Name:       s.Name(),
		Duration:   s.EndTime().Sub(s.StartTime()),
		Start:      s.StartTime(),
		End:        s.EndTime(),
		SpanID:     s.SpanContext().SpanID().String(),
		ParentID:   parentID,
		Attributes: attrs,
	})
}

func (p *recordingSpanProcessor) Shutdown(ctx context.Context) error   { return nil }
func (p *recordingSpanProcessor) ForceFlush(ctx context.Context) error { return nil }

// ExportReport writes the performance report to the output directory.
// Nothing is written when tracing is disabled or no span ended.
func ExportReport() error {
	if spanRecorder == nil || outputDir == "" {
		return nil
	}
	report, ok := spanRecorder.Report(time.Now())
	if !ok {
		return nil
	}
	return writeReport(filepath.Join(outputDir, ReportFileName), report)
}

// Report snapshots the recorded spans as a span tree
func (r *SpanRecorder) Report(now time.Time) (Report, bool) {
	r.mu.Lock()
	records := append([]spanRecord(nil), r.spans...)
	r.mu.Unlock()
	if len(records) == 0 {
		return Report{}, false
	}

	first, last := records[0].Start, records[0].End
	for _, record := range records[1:] {
		if record.Start.Before(first) {
			first = record.Start
		}
		if record.End.After(last) {
			last = record.End
		}
	}

	return Report{
		Spans:       buildHierarchy(records),
		WallClockMs: millis(last.Sub(first)),
		GeneratedAt: now.Format(time.RFC3339Nano),
	}, true
}

func writeReport(path string, report Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return f.Close()
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

// buildHierarchy converts flat span records into a tree ordered by start time.
// A span whose parent was not recorded becomes a root.
func buildHierarchy(records []spanRecord) []ReportSpan {
	byID := make(map[string]spanRecord, len(records))
	children := make(map[string][]string)
	var roots []string

	for _, record := range records {
		byID[record.SpanID] = record
	}
	for _, record := range records {
		if _, ok := byID[record.ParentID]; record.ParentID == "" || !ok {
			roots = append(roots, record.SpanID)
			continue
		}
		children[record.ParentID] = append(children[record.ParentID], record.SpanID)
	}

	var build func(ids []string) []ReportSpan
	build = func(ids []string) []ReportSpan {
		sort.Slice(ids, func(i, j int) bool {
			return byID[ids[i]].Start.Before(byID[ids[j]].Start)
		})
		infos := make([]ReportSpan, 0, len(ids))
		for _, id := range ids {
			record := byID[id]
			infos = append(infos, ReportSpan{
				Name:       record.Name,
				DurationMs: millis(record.Duration),
				Start:      record.Start.Format(time.RFC3339Nano),
				End:        record.End.Format(time.RFC3339Nano),
				Attributes: record.Attributes,
				Children:   build(children[id]),
			})
		}
		return infos
	}

	return build(roots)
}
