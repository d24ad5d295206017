package consumertest

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-consumers/core"
)

const KindFake = "fake"

type Script struct {
	Response core.TransportResponse
	Err      error
}

// JSON scripts a response with the given status and body.
func JSON(status int, body string) Script {
	return Script{Response: core.TransportResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":       "application/json",
			core.HeaderRequestID: "req_fake",
		},
		Body: []byte(body),
	}}
}

// Fail scripts a transport-level failure.
func Fail(err error) Script {
	return Script{Err: err}
}

// FakeTransport replays scripts in order and repeats the last one once they
// run out. Every request is recorded.
type FakeTransport struct {
	mu       sync.Mutex
	scripts  []Script
	requests []core.TransportRequest
}

func NewFakeTransport(scripts ...Script) *FakeTransport {
	return &FakeTransport{scripts: append([]Script(nil), scripts...)}
}

func (*FakeTransport) Kind() string {
	return KindFake
}

func (f *FakeTransport) Do(ctx context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	if f == nil {
		return core.TransportResponse{}, goerrors.New("consumertest: fake transport is nil", goerrors.CategoryInternal).
			WithCode(http.StatusInternalServerError).
			WithTextCode(core.ConsumersErrorInternal)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, cloneRequest(req))
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return core.TransportResponse{}, err
		}
	}
	index := len(f.requests) - 1
	switch {
	case index < len(f.scripts):
		script := f.scripts[index]
		return cloneResponse(script.Response), script.Err
	case len(f.scripts) > 0:
		last := f.scripts[len(f.scripts)-1]
		return cloneResponse(last.Response), last.Err
	default:
		return JSON(http.StatusOK, `{}`).Response, nil
	}
}

func (f *FakeTransport) Requests() []core.TransportRequest {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]core.TransportRequest, 0, len(f.requests))
	for _, item := range f.requests {
		out = append(out, cloneRequest(item))
	}
	return out
}

// LastForm decodes the form body of the most recent request.
func (f *FakeTransport) LastForm() (url.Values, bool) {
	requests := f.Requests()
	if len(requests) == 0 {
		return nil, false
	}
	values, err := url.ParseQuery(string(requests[len(requests)-1].Body))
	if err != nil {
		return nil, false
	}
	return values, true
}

// LastPath returns the URL path of the most recent request.
func (f *FakeTransport) LastPath() string {
	requests := f.Requests()
	if len(requests) == 0 {
		return ""
	}
	parsed, err := url.Parse(requests[len(requests)-1].URL)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(parsed.Path)
}

func cloneRequest(in core.TransportRequest) core.TransportRequest {
	out := core.TransportRequest{
		Method:               in.Method,
		URL:                  in.URL,
		Headers:              map[string]string{},
		Body:                 append([]byte(nil), in.Body...),
		Metadata:             map[string]any{},
		Timeout:              in.Timeout,
		MaxResponseBodyBytes: in.MaxResponseBodyBytes,
	}
	for key, value := range in.Headers {
		out.Headers[key] = value
	}
	for key, value := range in.Metadata {
		out.Metadata[key] = value
	}
	return out
}

func cloneResponse(in core.TransportResponse) core.TransportResponse {
	out := core.TransportResponse{
		StatusCode: in.StatusCode,
		Headers:    map[string]string{},
		Body:       append([]byte(nil), in.Body...),
		Metadata:   map[string]any{},
	}
	for key, value := range in.Headers {
		out.Headers[key] = value
	}
	for key, value := range in.Metadata {
		out.Metadata[key] = value
	}
	return out
}

var _ core.TransportAdapter = (*FakeTransport)(nil)
