package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type TransportRequest struct {
	Method               string
	URL                  string
	Headers              map[string]string
	Body                 []byte
	Metadata             map[string]any
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

// TransportAdapter executes a prepared request. Implementations own timeouts,
// connection reuse and TLS; the client never retries through them.
type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

// RequestFactory turns an endpoint URL, caller options and a compacted
// parameter map into an executable, authenticated request.
type RequestFactory interface {
	CreatePost(url string, options RequestOptions, params Params) (TransportRequest, error)
}

// ErrorParser decodes a failure body. It never fails: a body it cannot read
// still produces an APIError describing the malformed response.
type ErrorParser interface {
	Parse(statusCode int, body []byte) *APIError
}

// ModelParser decodes a success body into one typed result.
type ModelParser[T any] func(body []byte) (T, error)

type ConsumersAPI interface {
	SignUp(ctx context.Context, req SignUpRequest, options RequestOptions) SignupResult
	LookupConsumerSession(
		ctx context.Context,
		req LookupRequest,
		options RequestOptions,
	) (ConsumerSessionLookup, error)
	StartConsumerVerification(
		ctx context.Context,
		req StartVerificationRequest,
		options RequestOptions,
	) (ConsumerSession, error)
	ConfirmConsumerVerification(
		ctx context.Context,
		req ConfirmVerificationRequest,
		options RequestOptions,
	) (ConsumerSession, error)
	AttachLinkConsumerToLinkAccountSession(
		ctx context.Context,
		req AttachLinkAccountSessionRequest,
		options RequestOptions,
	) (AttachConsumerToLinkAccountSession, error)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
