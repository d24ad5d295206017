package transport

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-consumers/core"
	"github.com/sony/gobreaker"
)

type stubAdapter struct {
	mu       sync.Mutex
	calls    int
	response core.TransportResponse
	err      error
}

func (s *stubAdapter) Kind() string { return "stub" }

func (s *stubAdapter) Do(context.Context, core.TransportRequest) (core.TransportResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.response, s.err
}

func (s *stubAdapter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testBreakerConfig() core.BreakerConfig {
	return core.BreakerConfig{
		Enabled:             core.Bool(true),
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             time.Minute,
		ConsecutiveFailures: 3,
	}
}

func TestBreakerAdapter_OpensAfterConsecutiveTransportFailures(t *testing.T) {
	next := &stubAdapter{err: errors.New("dial tcp: timeout")}
	adapter, err := NewBreakerAdapter(next, testBreakerConfig(), nil)
	if err != nil {
		t.Fatalf("new breaker: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := adapter.Do(context.Background(), core.TransportRequest{}); err == nil {
			t.Fatalf("attempt %d: expected transport error", i)
		}
	}
	if adapter.State() != "open" {
		t.Fatalf("expected open breaker, got %q", adapter.State())
	}

	_, err = adapter.Do(context.Background(), core.TransportRequest{})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open state error, got %v", err)
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.Category != goerrors.CategoryExternal || rich.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected external envelope, got %v", err)
	}
	if next.callCount() != 3 {
		t.Fatalf("expected open breaker to skip the network, got %d calls", next.callCount())
	}
}

func TestBreakerAdapter_IgnoresClientErrors(t *testing.T) {
	next := &stubAdapter{response: core.TransportResponse{StatusCode: http.StatusBadRequest, Body: []byte(`{}`)}}
	adapter, err := NewBreakerAdapter(next, testBreakerConfig(), nil)
	if err != nil {
		t.Fatalf("new breaker: %v", err)
	}
	for i := 0; i < 5; i++ {
		response, err := adapter.Do(context.Background(), core.TransportRequest{})
		if err != nil {
			t.Fatalf("expected response, got %v", err)
		}
		if response.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 passthrough, got %d", response.StatusCode)
		}
	}
	if adapter.State() != "closed" {
		t.Fatalf("expected closed breaker, got %q", adapter.State())
	}
}

func TestBreakerAdapter_ServerErrorsTripButPassThrough(t *testing.T) {
	next := &stubAdapter{response: core.TransportResponse{StatusCode: http.StatusBadGateway, Body: []byte("oops")}}
	adapter, err := NewBreakerAdapter(next, testBreakerConfig(), nil)
	if err != nil {
		t.Fatalf("new breaker: %v", err)
	}
	for i := 0; i < 3; i++ {
		response, err := adapter.Do(context.Background(), core.TransportRequest{})
		if err != nil {
			t.Fatalf("expected 5xx response to pass through, got %v", err)
		}
		if response.StatusCode != http.StatusBadGateway || string(response.Body) != "oops" {
			t.Fatalf("unexpected response %#v", response)
		}
	}
	if adapter.State() != "open" {
		t.Fatalf("expected breaker to open on server errors, got %q", adapter.State())
	}
}

func TestBreakerAdapter_CancellationDoesNotTrip(t *testing.T) {
	next := &stubAdapter{err: context.Canceled}
	adapter, err := NewBreakerAdapter(next, testBreakerConfig(), nil)
	if err != nil {
		t.Fatalf("new breaker: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := adapter.Do(context.Background(), core.TransportRequest{}); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected cancellation error, got %v", err)
		}
	}
	if adapter.State() != "closed" {
		t.Fatalf("expected closed breaker, got %q", adapter.State())
	}
}

func TestNewBreakerAdapter_Validation(t *testing.T) {
	if _, err := NewBreakerAdapter(nil, testBreakerConfig(), nil); err == nil {
		t.Fatalf("expected error without wrapped adapter")
	}
	if _, err := NewBreakerAdapter(&stubAdapter{}, core.BreakerConfig{}, nil); err == nil {
		t.Fatalf("expected error without failure threshold")
	}
	adapter, err := NewBreakerAdapter(&stubAdapter{}, testBreakerConfig(), nil)
	if err != nil {
		t.Fatalf("new breaker: %v", err)
	}
	if adapter.Kind() != "breaker+stub" {
		t.Fatalf("unexpected kind %q", adapter.Kind())
	}
}
