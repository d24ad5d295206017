package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ConsumersErrorBadInput         = "CONSUMERS_BAD_INPUT"
	ConsumersErrorUnauthorized     = "CONSUMERS_UNAUTHORIZED"
	ConsumersErrorForbidden        = "CONSUMERS_FORBIDDEN"
	ConsumersErrorRateLimited      = "CONSUMERS_RATE_LIMITED"
	ConsumersErrorTransportFailure = "CONSUMERS_TRANSPORT_FAILURE"
	ConsumersErrorAPIFailure       = "CONSUMERS_API_ERROR"
	ConsumersErrorDecodeFailure    = "CONSUMERS_DECODE_FAILURE"
	ConsumersErrorInternal         = "CONSUMERS_INTERNAL_ERROR"
)

type ErrorKind string

const (
	ErrorKindNone      ErrorKind = ""
	ErrorKindTransport ErrorKind = "transport"
	ErrorKindAPI       ErrorKind = "api"
	ErrorKindDecode    ErrorKind = "decode"
	ErrorKindBadInput  ErrorKind = "bad_input"
	ErrorKindInternal  ErrorKind = "internal"
)

const improperlyFormattedErrorMessage = "an improperly formatted error response was found"

// APIError is a well-formed error body returned with a non-success status.
type APIError struct {
	StatusCode  int
	RequestID   string
	Type        string
	Code        string
	Message     string
	Param       string
	DeclineCode string
	DocURL      string
}

func (e *APIError) Error() string {
	if e == nil {
		return "core: api error"
	}
	message := strings.TrimSpace(e.Message)
	if message == "" {
		message = http.StatusText(e.StatusCode)
	}
	if code := strings.TrimSpace(e.Code); code != "" {
		return fmt.Sprintf("core: api error %d (%s): %s", e.StatusCode, code, message)
	}
	return fmt.Sprintf("core: api error %d: %s", e.StatusCode, message)
}

// DecodeError reports a success body that does not match the shape expected
// for its operation.
type DecodeError struct {
	Field  string
	Reason string
	Cause  error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "core: decode error"
	}
	var b strings.Builder
	b.WriteString("core: decode response")
	if e.Field != "" {
		b.WriteString(": field ")
		b.WriteString(e.Field)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ErrorKindOf classifies an error returned by the client.
func ErrorKindOf(err error) ErrorKind {
	if err == nil {
		return ErrorKindNone
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		switch rich.TextCode {
		case ConsumersErrorTransportFailure:
			return ErrorKindTransport
		case ConsumersErrorAPIFailure:
			return ErrorKindAPI
		case ConsumersErrorDecodeFailure:
			return ErrorKindDecode
		case ConsumersErrorBadInput:
			return ErrorKindBadInput
		}
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return ErrorKindAPI
	}
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return ErrorKindDecode
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindTransport
	}
	return ErrorKindInternal
}

func transportFailure(operation Operation, cause error) error {
	return goerrors.Wrap(cause, goerrors.CategoryExternal, fmt.Sprintf("core: %s request failed", operation)).
		WithCode(http.StatusBadGateway).
		WithTextCode(ConsumersErrorTransportFailure).
		WithMetadata(map[string]any{
			"operation":  operation.String(),
			"error_kind": string(ErrorKindTransport),
		})
}

func apiFailure(operation Operation, apiErr *APIError) error {
	metadata := map[string]any{
		"operation":   operation.String(),
		"error_kind":  string(ErrorKindAPI),
		"status_code": apiErr.StatusCode,
	}
	if apiErr.Code != "" {
		metadata["api_code"] = apiErr.Code
	}
	if apiErr.Type != "" {
		metadata["api_type"] = apiErr.Type
	}
	if apiErr.Param != "" {
		metadata["api_param"] = apiErr.Param
	}
	if apiErr.RequestID != "" {
		metadata["request_id"] = apiErr.RequestID
	}
	return goerrors.Wrap(apiErr, categoryForStatus(apiErr.StatusCode), apiErr.Error()).
		WithCode(apiErr.StatusCode).
		WithTextCode(ConsumersErrorAPIFailure).
		WithMetadata(metadata)
}

func decodeFailure(operation Operation, statusCode int, cause error) error {
	return goerrors.Wrap(cause, goerrors.CategoryOperation, fmt.Sprintf("core: decode %s response", operation)).
		WithCode(http.StatusBadGateway).
		WithTextCode(ConsumersErrorDecodeFailure).
		WithMetadata(map[string]any{
			"operation":   operation.String(),
			"error_kind":  string(ErrorKindDecode),
			"status_code": statusCode,
		})
}

// badInput omits the operation metadata when operation is empty, as for
// errors raised by a request factory used on its own.
func badInput(operation Operation, message string) error {
	metadata := map[string]any{"error_kind": string(ErrorKindBadInput)}
	if operation != "" {
		metadata["operation"] = operation.String()
	}
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(ConsumersErrorBadInput).
		WithMetadata(metadata)
}

func internalError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ConsumersErrorInternal)
}

func categoryForStatus(statusCode int) goerrors.Category {
	switch statusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return goerrors.CategoryBadInput
	case http.StatusUnauthorized:
		return goerrors.CategoryAuth
	case http.StatusForbidden:
		return goerrors.CategoryAuthz
	case http.StatusNotFound:
		return goerrors.CategoryNotFound
	case http.StatusConflict:
		return goerrors.CategoryConflict
	case http.StatusTooManyRequests:
		return goerrors.CategoryRateLimit
	default:
		return goerrors.CategoryExternal
	}
}
