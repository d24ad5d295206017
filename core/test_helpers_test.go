package core

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
)

const (
	testAPIKey       = "pk_test_123"
	testClientSecret = "cs_secret_1"
	testSurface      = "android_payment_element"

	sessionJSON = `{
		"client_secret": "cs_secret_1",
		"email_address": "jane@example.com",
		"redacted_formatted_phone_number": "(***) *** **55",
		"redacted_phone_number": "+1******55",
		"phone_number_country": "US",
		"verification_sessions": [
			{"type": "SMS", "state": "verified"},
			{"type": "EMAIL", "state": "started"}
		],
		"unknown_field": 42
	}`
)

type scriptedResponse struct {
	response TransportResponse
	err      error
}

// scriptedTransport replays queued responses and records every request.
type scriptedTransport struct {
	mu        sync.Mutex
	responses []scriptedResponse
	requests  []TransportRequest
	onDo      func(ctx context.Context)
}

func (s *scriptedTransport) Kind() string { return "scripted" }

func (s *scriptedTransport) Do(ctx context.Context, req TransportRequest) (TransportResponse, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	var next scriptedResponse
	if len(s.responses) > 0 {
		next = s.responses[0]
		s.responses = s.responses[1:]
	} else {
		next = scriptedResponse{response: TransportResponse{StatusCode: http.StatusOK, Body: []byte(`{}`)}}
	}
	hook := s.onDo
	s.mu.Unlock()
	if hook != nil {
		hook(ctx)
	}
	return next.response, next.err
}

func (s *scriptedTransport) respond(status int, body string) *scriptedTransport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, scriptedResponse{response: TransportResponse{
		StatusCode: status,
		Headers:    map[string]string{HeaderRequestID: "req_test_1"},
		Body:       []byte(body),
	}})
	return s
}

func (s *scriptedTransport) fail(err error) *scriptedTransport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, scriptedResponse{err: err})
	return s
}

func (s *scriptedTransport) calls() []TransportRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TransportRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// httpTransport is a minimal net/http executor for httptest round trips.
type httpTransport struct{}

func (httpTransport) Kind() string { return "http" }

func (httpTransport) Do(ctx context.Context, req TransportRequest) (TransportResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return TransportResponse{}, err
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	res, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return TransportResponse{}, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return TransportResponse{}, err
	}
	headers := map[string]string{}
	for key := range res.Header {
		headers[key] = res.Header.Get(key)
	}
	return TransportResponse{StatusCode: res.StatusCode, Headers: headers, Body: body}, nil
}

func newTestClient(t *testing.T, transport TransportAdapter, opts ...Option) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.APIHost = "https://api.example.test"
	return newTestClientWithConfig(t, cfg, transport, opts...)
}

func newTestClientWithConfig(t *testing.T, cfg Config, transport TransportAdapter, opts ...Option) *Client {
	t.Helper()
	all := append([]Option{WithTransport(transport)}, opts...)
	client, err := NewClient(cfg, all...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func testOptions() RequestOptions {
	return RequestOptions{APIKey: testAPIKey}
}

func strPtr(value string) *string {
	return &value
}
