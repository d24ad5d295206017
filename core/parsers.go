package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	fieldConsumerSession              = "consumer_session"
	fieldClientSecret                 = "client_secret"
	fieldEmailAddress                 = "email_address"
	fieldRedactedFormattedPhoneNumber = "redacted_formatted_phone_number"
	fieldRedactedPhoneNumber          = "redacted_phone_number"
	fieldUnredactedPhoneNumber        = "unredacted_phone_number"
	fieldPhoneNumberCountry           = "phone_number_country"
	fieldVerificationSessions         = "verification_sessions"
	fieldType                         = "type"
	fieldState                        = "state"
	fieldExists                       = "exists"
	fieldErrorMessage                 = "error_message"
	fieldPublishableKey               = "publishable_key"
	fieldID                           = "id"
	fieldError                        = "error"
)

var (
	_ ModelParser[ConsumerSessionLookup]              = ParseConsumerSessionLookup
	_ ModelParser[ConsumerSession]                    = ParseConsumerSession
	_ ModelParser[ConsumerSessionSignup]              = ParseConsumerSessionSignup
	_ ModelParser[AttachConsumerToLinkAccountSession] = ParseAttachConsumerToLinkAccountSession
)

// ParseConsumerSessionLookup accepts bodies without a session: a consumer
// that does not exist is a valid lookup result.
func ParseConsumerSessionLookup(body []byte) (ConsumerSessionLookup, error) {
	root, err := decodeObject(body)
	if err != nil {
		return ConsumerSessionLookup{}, err
	}
	exists, err := requireBool(root, fieldExists)
	if err != nil {
		return ConsumerSessionLookup{}, err
	}
	lookup := ConsumerSessionLookup{Exists: exists}
	sessionObj, ok, err := optionalObject(root, fieldConsumerSession)
	if err != nil {
		return ConsumerSessionLookup{}, err
	}
	if ok {
		session, err := parseConsumerSessionObject(sessionObj, fieldConsumerSession+".")
		if err != nil {
			return ConsumerSessionLookup{}, err
		}
		lookup.ConsumerSession = &session
	}
	if lookup.ErrorMessage, err = optionalString(root, fieldErrorMessage); err != nil {
		return ConsumerSessionLookup{}, err
	}
	if lookup.PublishableKey, err = optionalString(root, fieldPublishableKey); err != nil {
		return ConsumerSessionLookup{}, err
	}
	return lookup, nil
}

func ParseConsumerSession(body []byte) (ConsumerSession, error) {
	root, err := decodeObject(body)
	if err != nil {
		return ConsumerSession{}, err
	}
	sessionObj, err := requireObject(root, fieldConsumerSession)
	if err != nil {
		return ConsumerSession{}, err
	}
	return parseConsumerSessionObject(sessionObj, fieldConsumerSession+".")
}

func ParseConsumerSessionSignup(body []byte) (ConsumerSessionSignup, error) {
	root, err := decodeObject(body)
	if err != nil {
		return ConsumerSessionSignup{}, err
	}
	sessionObj, err := requireObject(root, fieldConsumerSession)
	if err != nil {
		return ConsumerSessionSignup{}, err
	}
	session, err := parseConsumerSessionObject(sessionObj, fieldConsumerSession+".")
	if err != nil {
		return ConsumerSessionSignup{}, err
	}
	publishableKey, err := optionalString(root, fieldPublishableKey)
	if err != nil {
		return ConsumerSessionSignup{}, err
	}
	return ConsumerSessionSignup{
		ConsumerSession: session,
		PublishableKey:  publishableKey,
	}, nil
}

func ParseAttachConsumerToLinkAccountSession(body []byte) (AttachConsumerToLinkAccountSession, error) {
	root, err := decodeObject(body)
	if err != nil {
		return AttachConsumerToLinkAccountSession{}, err
	}
	id, err := requireString(root, fieldID)
	if err != nil {
		return AttachConsumerToLinkAccountSession{}, err
	}
	clientSecret, err := requireString(root, fieldClientSecret)
	if err != nil {
		return AttachConsumerToLinkAccountSession{}, err
	}
	return AttachConsumerToLinkAccountSession{
		ID:           id,
		ClientSecret: clientSecret,
	}, nil
}

func parseConsumerSessionObject(obj map[string]any, prefix string) (ConsumerSession, error) {
	var (
		session ConsumerSession
		err     error
	)
	if session.ClientSecret, err = requireString(obj, fieldClientSecret); err != nil {
		return ConsumerSession{}, prefixField(err, prefix)
	}
	if session.EmailAddress, err = requireString(obj, fieldEmailAddress); err != nil {
		return ConsumerSession{}, prefixField(err, prefix)
	}
	if session.RedactedFormattedPhoneNumber, err = requireString(obj, fieldRedactedFormattedPhoneNumber); err != nil {
		return ConsumerSession{}, prefixField(err, prefix)
	}
	if session.RedactedPhoneNumber, err = optionalString(obj, fieldRedactedPhoneNumber); err != nil {
		return ConsumerSession{}, prefixField(err, prefix)
	}
	if session.UnredactedPhoneNumber, err = optionalString(obj, fieldUnredactedPhoneNumber); err != nil {
		return ConsumerSession{}, prefixField(err, prefix)
	}
	if session.PhoneNumberCountry, err = optionalString(obj, fieldPhoneNumberCountry); err != nil {
		return ConsumerSession{}, prefixField(err, prefix)
	}

	session.VerificationSessions = []VerificationSession{}
	raw, ok := obj[fieldVerificationSessions]
	if !ok || raw == nil {
		return session, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return ConsumerSession{}, &DecodeError{Field: prefix + fieldVerificationSessions, Reason: "expected array"}
	}
	for i, item := range items {
		itemObj, ok := item.(map[string]any)
		if !ok {
			return ConsumerSession{}, &DecodeError{
				Field:  fmt.Sprintf("%s%s[%d]", prefix, fieldVerificationSessions, i),
				Reason: "expected object",
			}
		}
		sessionType, err := optionalString(itemObj, fieldType)
		if err != nil {
			return ConsumerSession{}, prefixField(err, fmt.Sprintf("%s%s[%d].", prefix, fieldVerificationSessions, i))
		}
		state, err := optionalString(itemObj, fieldState)
		if err != nil {
			return ConsumerSession{}, prefixField(err, fmt.Sprintf("%s%s[%d].", prefix, fieldVerificationSessions, i))
		}
		session.VerificationSessions = append(session.VerificationSessions, VerificationSession{
			Type:  ParseVerificationSessionType(sessionType),
			State: ParseVerificationSessionState(state),
		})
	}
	return session, nil
}

// ErrorJSONParser reads the {"error": {...}} envelope of failed calls.
type ErrorJSONParser struct{}

func (ErrorJSONParser) Parse(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	root, err := decodeObject(body)
	if err != nil {
		apiErr.Message = improperlyFormattedErrorMessage
		return apiErr
	}
	errorObj, ok := root[fieldError].(map[string]any)
	if !ok {
		apiErr.Message = improperlyFormattedErrorMessage
		return apiErr
	}
	apiErr.Type = looseString(errorObj["type"])
	apiErr.Code = looseString(errorObj["code"])
	apiErr.Message = looseString(errorObj["message"])
	apiErr.Param = looseString(errorObj["param"])
	apiErr.DeclineCode = looseString(errorObj["decline_code"])
	apiErr.DocURL = looseString(errorObj["doc_url"])
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(statusCode)
	}
	return apiErr
}

func decodeObject(body []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &DecodeError{Reason: "empty response body"}
	}
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	var root any
	if err := decoder.Decode(&root); err != nil {
		return nil, &DecodeError{Reason: "invalid json", Cause: err}
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, &DecodeError{Reason: "trailing data after json value", Cause: err}
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, &DecodeError{Reason: "expected json object"}
	}
	return obj, nil
}

func requireObject(obj map[string]any, field string) (map[string]any, error) {
	raw, ok := obj[field]
	if !ok || raw == nil {
		return nil, &DecodeError{Field: field, Reason: "required field is missing"}
	}
	typed, ok := raw.(map[string]any)
	if !ok {
		return nil, &DecodeError{Field: field, Reason: "expected object"}
	}
	return typed, nil
}

func optionalObject(obj map[string]any, field string) (map[string]any, bool, error) {
	raw, ok := obj[field]
	if !ok || raw == nil {
		return nil, false, nil
	}
	typed, ok := raw.(map[string]any)
	if !ok {
		return nil, false, &DecodeError{Field: field, Reason: "expected object"}
	}
	return typed, true, nil
}

func requireString(obj map[string]any, field string) (string, error) {
	raw, ok := obj[field]
	if !ok || raw == nil {
		return "", &DecodeError{Field: field, Reason: "required field is missing"}
	}
	typed, ok := raw.(string)
	if !ok {
		return "", &DecodeError{Field: field, Reason: "expected string"}
	}
	return typed, nil
}

func optionalString(obj map[string]any, field string) (string, error) {
	raw, ok := obj[field]
	if !ok || raw == nil {
		return "", nil
	}
	typed, ok := raw.(string)
	if !ok {
		return "", &DecodeError{Field: field, Reason: "expected string"}
	}
	return typed, nil
}

func requireBool(obj map[string]any, field string) (bool, error) {
	raw, ok := obj[field]
	if !ok || raw == nil {
		return false, &DecodeError{Field: field, Reason: "required field is missing"}
	}
	typed, ok := raw.(bool)
	if !ok {
		return false, &DecodeError{Field: field, Reason: "expected boolean"}
	}
	return typed, nil
}

func looseString(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return typed.String()
	default:
		return strings.TrimSpace(fmt.Sprint(typed))
	}
}

func prefixField(err error, prefix string) error {
	decodeErr, ok := err.(*DecodeError)
	if !ok || prefix == "" {
		return err
	}
	return &DecodeError{
		Field:  prefix + decodeErr.Field,
		Reason: decodeErr.Reason,
		Cause:  decodeErr.Cause,
	}
}

var _ ErrorParser = ErrorJSONParser{}
