package core

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
)

type capturedCounter struct {
	name  string
	value int64
	tags  map[string]string
}

type capturedHistogram struct {
	name  string
	value float64
	tags  map[string]string
}

type captureMetricsRecorder struct {
	mu         sync.Mutex
	counters   []capturedCounter
	histograms []capturedHistogram
}

func (m *captureMetricsRecorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, capturedCounter{name: name, value: value, tags: cloneTags(tags)})
}

func (m *captureMetricsRecorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms = append(m.histograms, capturedHistogram{name: name, value: value, tags: cloneTags(tags)})
}

type capturedLog struct {
	level  string
	msg    string
	fields map[string]any
}

type captureLogger struct {
	mu       *sync.Mutex
	records  *[]capturedLog
	defaults map[string]any
}

func newCaptureLogger() *captureLogger {
	records := []capturedLog{}
	return &captureLogger{mu: &sync.Mutex{}, records: &records, defaults: map[string]any{}}
}

func (l *captureLogger) WithFields(fields map[string]any) Logger {
	merged := cloneFields(l.defaults)
	for key, value := range fields {
		merged[key] = value
	}
	return &captureLogger{mu: l.mu, records: l.records, defaults: merged}
}

func (l *captureLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *captureLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *captureLogger) WithContext(context.Context) Logger {
	return &captureLogger{mu: l.mu, records: l.records, defaults: cloneFields(l.defaults)}
}

func (l *captureLogger) record(level string, msg string, args ...any) {
	fields := cloneFields(l.defaults)
	for index := 0; index+1 < len(args); index += 2 {
		key, ok := args[index].(string)
		if !ok {
			continue
		}
		fields[key] = args[index+1]
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.records = append(*l.records, capturedLog{level: level, msg: msg, fields: fields})
}

func (l *captureLogger) snapshot() []capturedLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := *l.records
	out := make([]capturedLog, len(items))
	copy(out, items)
	return out
}

func TestClientObservability_LookupSuccess(t *testing.T) {
	metrics := &captureMetricsRecorder{}
	logger := newCaptureLogger()
	transport := (&scriptedTransport{}).respond(http.StatusOK, `{"exists": false}`)
	client := newTestClient(t, transport, WithMetricsRecorder(metrics), WithLogger(logger))

	if _, err := client.LookupConsumerSession(context.Background(), LookupRequest{
		Email:          "jane@example.com",
		RequestSurface: testSurface,
	}, testOptions()); err != nil {
		t.Fatalf("lookup: %v", err)
	}

	if !hasCounter(metrics.counters, "consumers.lookup_consumer_session.total", "success") {
		t.Fatalf("expected success counter, got %#v", metrics.counters)
	}
	if !hasHistogram(metrics.histograms, "consumers.lookup_consumer_session.duration_ms") {
		t.Fatalf("expected duration histogram, got %#v", metrics.histograms)
	}
	if !hasLog(logger.snapshot(), "info", "lookup_consumer_session succeeded", "lookup_consumer_session") {
		t.Fatalf("expected success log, got %#v", logger.snapshot())
	}
}

func TestClientObservability_FailureFieldsAreEnriched(t *testing.T) {
	metrics := &captureMetricsRecorder{}
	logger := newCaptureLogger()
	transport := (&scriptedTransport{}).fail(errors.New("connection reset"))
	client := newTestClient(t, transport, WithMetricsRecorder(metrics), WithLogger(logger))

	_, err := client.ConfirmConsumerVerification(context.Background(), ConfirmVerificationRequest{
		ConsumerSessionClientSecret: testClientSecret,
		VerificationCode:            "123456",
		RequestSurface:              testSurface,
		Type:                        VerificationTypeSMS,
	}, testOptions())
	if err == nil {
		t.Fatalf("expected transport error")
	}

	if !hasCounter(metrics.counters, "consumers.confirm_consumer_verification.total", "failure") {
		t.Fatalf("expected failure counter, got %#v", metrics.counters)
	}
	if metrics.counters[len(metrics.counters)-1].tags["error_kind"] != string(ErrorKindTransport) {
		t.Fatalf("expected transport error_kind tag, got %#v", metrics.counters[len(metrics.counters)-1].tags)
	}

	logs := logger.snapshot()
	if !hasLog(logs, "error", "confirm_consumer_verification failed", "confirm_consumer_verification") {
		t.Fatalf("expected failure log, got %#v", logs)
	}
	last := logs[len(logs)-1]
	if last.fields["error_category"] != "external" {
		t.Fatalf("expected error_category external, got %#v", last.fields["error_category"])
	}
	if last.fields["error_text_code"] != ConsumersErrorTransportFailure {
		t.Fatalf("expected transport text code, got %#v", last.fields["error_text_code"])
	}
	if _, ok := last.fields["error_metadata"].(map[string]any); !ok {
		t.Fatalf("expected error_metadata map, got %#v", last.fields["error_metadata"])
	}
}

func TestClientObservability_SignUpLogsAreRedacted(t *testing.T) {
	logger := newCaptureLogger()
	transport := (&scriptedTransport{}).respond(http.StatusOK, `{"consumer_session": `+sessionJSON+`}`)
	client := newTestClient(t, transport, WithLogger(logger))

	result := client.SignUp(context.Background(), SignUpRequest{
		Email:          "jane@example.com",
		PhoneNumber:    "+15555555555",
		Country:        "US",
		RequestSurface: testSurface,
		ConsentAction:  ConsentActionCheckbox,
	}, testOptions())
	if !result.Succeeded() {
		t.Fatalf("expected signup success, got %v", result.Err())
	}
	for _, record := range logger.snapshot() {
		for _, value := range record.fields {
			if value == "jane@example.com" || value == "+15555555555" || value == testAPIKey {
				t.Fatalf("expected no consumer contact details in logs, got %#v", record.fields)
			}
		}
	}
}

func hasCounter(items []capturedCounter, name string, status string) bool {
	for _, item := range items {
		if item.name == name && item.tags["status"] == status {
			return true
		}
	}
	return false
}

func hasHistogram(items []capturedHistogram, name string) bool {
	for _, item := range items {
		if item.name == name {
			return true
		}
	}
	return false
}

func hasLog(items []capturedLog, level string, message string, eventType string) bool {
	for _, item := range items {
		if item.level == level && item.msg == message && item.fields["event_type"] == eventType {
			return true
		}
	}
	return false
}
