package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-consumers/core"
	"github.com/sony/gobreaker"
)

const KindBreaker = "breaker"

// serverStatusError marks a 5xx response inside the breaker so it counts as a
// failure; the response itself is still handed back to the caller.
type serverStatusError struct {
	response core.TransportResponse
}

func (e *serverStatusError) Error() string {
	return fmt.Sprintf("transport: upstream status %d", e.response.StatusCode)
}

// BreakerAdapter guards another adapter with a circuit breaker. Transport
// failures and 5xx responses trip it; 4xx responses and caller cancellation
// do not. Requests are never repeated.
type BreakerAdapter struct {
	next    core.TransportAdapter
	breaker *gobreaker.CircuitBreaker
	logger  core.Logger
}

func NewBreakerAdapter(next core.TransportAdapter, cfg core.BreakerConfig, logger core.Logger) (*BreakerAdapter, error) {
	if next == nil {
		return nil, transportError(
			"transport: breaker requires a wrapped adapter",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			map[string]any{"adapter": KindBreaker},
		)
	}
	if cfg.ConsecutiveFailures == 0 {
		return nil, transportError(
			"transport: breaker consecutive_failures must be positive",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			map[string]any{"adapter": KindBreaker},
		)
	}
	logger = glog.Ensure(logger)
	adapter := &BreakerAdapter{next: next, logger: logger}
	threshold := cfg.ConsecutiveFailures
	adapter.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "consumers-" + strings.TrimSpace(next.Kind()),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return adapter, nil
}

func (a *BreakerAdapter) Kind() string {
	if a == nil || a.next == nil {
		return KindBreaker
	}
	return KindBreaker + "+" + a.next.Kind()
}

// State reports the breaker state: closed, half-open or open.
func (a *BreakerAdapter) State() string {
	if a == nil || a.breaker == nil {
		return ""
	}
	return a.breaker.State().String()
}

func (a *BreakerAdapter) Do(ctx context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	if a == nil || a.breaker == nil {
		return core.TransportResponse{}, transportError(
			"transport: breaker adapter is not initialized",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			map[string]any{"adapter": KindBreaker},
		)
	}
	result, err := a.breaker.Execute(func() (interface{}, error) {
		response, err := a.next.Do(ctx, req)
		if err != nil {
			return nil, err
		}
		if response.StatusCode >= http.StatusInternalServerError {
			return nil, &serverStatusError{response: response}
		}
		return response, nil
	})

	var statusErr *serverStatusError
	switch {
	case err == nil:
		response, _ := result.(core.TransportResponse)
		return response, nil
	case errors.As(err, &statusErr):
		return statusErr.response, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return core.TransportResponse{}, transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: circuit breaker rejected request",
			http.StatusServiceUnavailable,
			map[string]any{
				"adapter":   KindBreaker,
				"state":     a.breaker.State().String(),
				"operation": operationOf(req),
			},
		)
	default:
		return core.TransportResponse{}, err
	}
}

var _ core.TransportAdapter = (*BreakerAdapter)(nil)
