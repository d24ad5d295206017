package consumertest

import "fmt"

const (
	ClientSecret   = "cs_test_secret"
	Email          = "jane@example.com"
	PublishableKey = "pk_test_consumer"
)

// SessionJSON is a complete consumer_session object with one verified SMS
// session.
const SessionJSON = `{
	"client_secret": "` + ClientSecret + `",
	"email_address": "` + Email + `",
	"redacted_formatted_phone_number": "(***) *** **55",
	"redacted_phone_number": "+1******55",
	"phone_number_country": "US",
	"verification_sessions": [{"type": "SMS", "state": "verified"}]
}`

func SessionBody() string {
	return `{"consumer_session": ` + SessionJSON + `}`
}

func SignupBody() string {
	return fmt.Sprintf(`{"consumer_session": %s, "publishable_key": %q}`, SessionJSON, PublishableKey)
}

func LookupBody(exists bool) string {
	if !exists {
		return `{"exists": false}`
	}
	return fmt.Sprintf(`{"exists": true, "consumer_session": %s, "publishable_key": %q}`, SessionJSON, PublishableKey)
}

func AttachBody(id string, clientSecret string) string {
	return fmt.Sprintf(`{"id": %q, "client_secret": %q}`, id, clientSecret)
}

func ErrorBody(code string, message string) string {
	return fmt.Sprintf(`{"error": {"type": "invalid_request_error", "code": %q, "message": %q}}`, code, message)
}
