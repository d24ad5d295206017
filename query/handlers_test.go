package query

import (
	"context"
	"errors"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-consumers/core"
)

type stubSessionReader struct {
	lookupFn func(context.Context, core.LookupRequest, core.RequestOptions) (core.ConsumerSessionLookup, error)
}

func (s stubSessionReader) LookupConsumerSession(
	ctx context.Context,
	req core.LookupRequest,
	options core.RequestOptions,
) (core.ConsumerSessionLookup, error) {
	return s.lookupFn(ctx, req, options)
}

func TestLookupConsumerSessionQuery_Delegates(t *testing.T) {
	reader := stubSessionReader{
		lookupFn: func(_ context.Context, req core.LookupRequest, options core.RequestOptions) (core.ConsumerSessionLookup, error) {
			if req.Email != "jane@example.com" || options.APIKey != "pk_test" {
				t.Fatalf("unexpected lookup payload %#v %#v", req, options)
			}
			return core.ConsumerSessionLookup{Exists: true, PublishableKey: "pk_consumer"}, nil
		},
	}
	out, err := NewLookupConsumerSessionQuery(reader).Query(context.Background(), LookupConsumerSessionMessage{
		Request: core.LookupRequest{Email: "jane@example.com", RequestSurface: "web"},
		Options: core.RequestOptions{APIKey: "pk_test"},
	})
	if err != nil {
		t.Fatalf("query lookup: %v", err)
	}
	if !out.Exists || out.PublishableKey != "pk_consumer" {
		t.Fatalf("unexpected lookup %#v", out)
	}
}

func TestLookupConsumerSessionQuery_PropagatesError(t *testing.T) {
	cause := errors.New("unauthorized")
	reader := stubSessionReader{
		lookupFn: func(context.Context, core.LookupRequest, core.RequestOptions) (core.ConsumerSessionLookup, error) {
			return core.ConsumerSessionLookup{}, cause
		},
	}
	if _, err := NewLookupConsumerSessionQuery(reader).Query(context.Background(), LookupConsumerSessionMessage{}); !errors.Is(err, cause) {
		t.Fatalf("expected reader error, got %v", err)
	}
}

func TestLookupConsumerSessionMessage_ValidateReturnsRichError(t *testing.T) {
	err := LookupConsumerSessionMessage{Options: core.RequestOptions{APIKey: "pk_test"}}.Validate()
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryValidation {
		t.Fatalf("expected validation category, got %q", rich.Category)
	}
	if rich.Code != http.StatusBadRequest {
		t.Fatalf("expected %d code, got %d", http.StatusBadRequest, rich.Code)
	}
	validation := rich.AllValidationErrors()
	if len(validation) == 0 || validation[0].Field != "email" {
		t.Fatalf("expected email validation field, got %#v", validation)
	}
}

func TestLookupConsumerSessionQuery_NilReaderReturnsRichError(t *testing.T) {
	var q *LookupConsumerSessionQuery
	_, err := q.Query(context.Background(), LookupConsumerSessionMessage{})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal || rich.TextCode != core.ConsumersErrorInternal {
		t.Fatalf("unexpected envelope %q/%q", rich.Category, rich.TextCode)
	}
}
