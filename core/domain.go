package core

import (
	"strings"

	"golang.org/x/text/language"
)

type Operation string

const (
	OperationSignUp                   Operation = "sign_up"
	OperationLookupSession            Operation = "lookup_consumer_session"
	OperationStartVerification        Operation = "start_consumer_verification"
	OperationConfirmVerification      Operation = "confirm_consumer_verification"
	OperationAttachLinkAccountSession Operation = "attach_link_consumer_to_link_account_session"
)

func (o Operation) String() string {
	return string(o)
}

type VerificationType string

const (
	VerificationTypeSMS   VerificationType = "SMS"
	VerificationTypeEmail VerificationType = "EMAIL"
)

type CustomEmailType string

const (
	CustomEmailTypeNetworkedConnectionsOTPEmail CustomEmailType = "NETWORKED_CONNECTIONS_OTP_EMAIL"
)

type ConsentAction string

const (
	ConsentActionCheckbox                           ConsentAction = "checkbox_v0"
	ConsentActionCheckboxWithPrefilledEmail         ConsentAction = "checkbox_v0_0"
	ConsentActionCheckboxWithPrefilledEmailAndPhone ConsentAction = "checkbox_v0_1"
	ConsentActionImplied                            ConsentAction = "implied_v0"
	ConsentActionImpliedWithPrefilledEmail          ConsentAction = "implied_v0_0"
)

type VerificationSessionType string

const (
	VerificationSessionTypeSignUp  VerificationSessionType = "SIGNUP"
	VerificationSessionTypeEmail   VerificationSessionType = "EMAIL"
	VerificationSessionTypeSMS     VerificationSessionType = "SMS"
	VerificationSessionTypeUnknown VerificationSessionType = "UNKNOWN"
)

func ParseVerificationSessionType(value string) VerificationSessionType {
	switch VerificationSessionType(strings.ToUpper(strings.TrimSpace(value))) {
	case VerificationSessionTypeSignUp:
		return VerificationSessionTypeSignUp
	case VerificationSessionTypeEmail:
		return VerificationSessionTypeEmail
	case VerificationSessionTypeSMS:
		return VerificationSessionTypeSMS
	default:
		return VerificationSessionTypeUnknown
	}
}

type VerificationSessionState string

const (
	VerificationSessionStateStarted  VerificationSessionState = "started"
	VerificationSessionStateFailed   VerificationSessionState = "failed"
	VerificationSessionStateVerified VerificationSessionState = "verified"
	VerificationSessionStateCanceled VerificationSessionState = "canceled"
	VerificationSessionStateExpired  VerificationSessionState = "expired"
	VerificationSessionStateUnknown  VerificationSessionState = "unknown"
)

func ParseVerificationSessionState(value string) VerificationSessionState {
	switch VerificationSessionState(strings.ToLower(strings.TrimSpace(value))) {
	case VerificationSessionStateStarted:
		return VerificationSessionStateStarted
	case VerificationSessionStateFailed:
		return VerificationSessionStateFailed
	case VerificationSessionStateVerified:
		return VerificationSessionStateVerified
	case VerificationSessionStateCanceled:
		return VerificationSessionStateCanceled
	case VerificationSessionStateExpired:
		return VerificationSessionStateExpired
	default:
		return VerificationSessionStateUnknown
	}
}

type VerificationSession struct {
	Type  VerificationSessionType
	State VerificationSessionState
}

// ConsumerSession is keyed by its client secret and is never mutated after
// decoding.
type ConsumerSession struct {
	ClientSecret                 string
	EmailAddress                 string
	RedactedFormattedPhoneNumber string
	RedactedPhoneNumber          string
	UnredactedPhoneNumber        string
	PhoneNumberCountry           string
	VerificationSessions         []VerificationSession
}

// IsVerified reports whether any verification session reached the verified
// state.
func (s ConsumerSession) IsVerified() bool {
	for _, session := range s.VerificationSessions {
		if session.State == VerificationSessionStateVerified {
			return true
		}
	}
	return false
}

type ConsumerSessionLookup struct {
	Exists          bool
	ConsumerSession *ConsumerSession
	ErrorMessage    string
	PublishableKey  string
}

type ConsumerSessionSignup struct {
	ConsumerSession ConsumerSession
	PublishableKey  string
}

type AttachConsumerToLinkAccountSession struct {
	ID           string
	ClientSecret string
}

// RequestOptions carry per-call authentication. APIKey is the publishable key
// and is always required.
type RequestOptions struct {
	APIKey         string
	StripeAccount  string
	IdempotencyKey string
}

type SignUpRequest struct {
	Email          string
	PhoneNumber    string
	Country        string
	Name           *string
	Locale         *language.Tag
	RequestSurface string
	ConsentAction  ConsentAction
}

type LookupRequest struct {
	Email          string
	RequestSurface string
}

type StartVerificationRequest struct {
	ConsumerSessionClientSecret string
	Locale                      language.Tag
	RequestSurface              string
	Type                        VerificationType
	CustomEmailType             *CustomEmailType
	ConnectionsMerchantName     *string
}

type ConfirmVerificationRequest struct {
	ConsumerSessionClientSecret string
	VerificationCode            string
	RequestSurface              string
	Type                        VerificationType
}

type AttachLinkAccountSessionRequest struct {
	ConsumerSessionClientSecret    string
	LinkAccountSessionClientSecret string
	RequestSurface                 string
}
