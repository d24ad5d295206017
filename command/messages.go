package command

import (
	"strings"

	"github.com/goliatone/go-consumers/core"
)

const (
	TypeSignUp                   = "consumers.command.sign_up"
	TypeStartVerification        = "consumers.command.verification.start"
	TypeConfirmVerification      = "consumers.command.verification.confirm"
	TypeAttachLinkAccountSession = "consumers.command.link_account_session.attach"
)

// Validate methods only check presence. Value formats are left to the API.

type SignUpMessage struct {
	Request core.SignUpRequest
	Options core.RequestOptions
}

func (SignUpMessage) Type() string { return TypeSignUp }

func (m SignUpMessage) Validate() error {
	if err := validateOptions(m.Options); err != nil {
		return err
	}
	if strings.TrimSpace(m.Request.Email) == "" {
		return commandValidationError("email", "email is required")
	}
	if strings.TrimSpace(m.Request.PhoneNumber) == "" {
		return commandValidationError("phone_number", "phone number is required")
	}
	if strings.TrimSpace(m.Request.Country) == "" {
		return commandValidationError("country", "country is required")
	}
	if strings.TrimSpace(string(m.Request.ConsentAction)) == "" {
		return commandValidationError("consent_action", "consent action is required")
	}
	return validateSurface(m.Request.RequestSurface)
}

type StartVerificationMessage struct {
	Request core.StartVerificationRequest
	Options core.RequestOptions
}

func (StartVerificationMessage) Type() string { return TypeStartVerification }

func (m StartVerificationMessage) Validate() error {
	if err := validateOptions(m.Options); err != nil {
		return err
	}
	if err := validateClientSecret(m.Request.ConsumerSessionClientSecret); err != nil {
		return err
	}
	if err := validateVerificationType(m.Request.Type); err != nil {
		return err
	}
	return validateSurface(m.Request.RequestSurface)
}

type ConfirmVerificationMessage struct {
	Request core.ConfirmVerificationRequest
	Options core.RequestOptions
}

func (ConfirmVerificationMessage) Type() string { return TypeConfirmVerification }

func (m ConfirmVerificationMessage) Validate() error {
	if err := validateOptions(m.Options); err != nil {
		return err
	}
	if err := validateClientSecret(m.Request.ConsumerSessionClientSecret); err != nil {
		return err
	}
	if strings.TrimSpace(m.Request.VerificationCode) == "" {
		return commandValidationError("verification_code", "verification code is required")
	}
	if err := validateVerificationType(m.Request.Type); err != nil {
		return err
	}
	return validateSurface(m.Request.RequestSurface)
}

type AttachLinkAccountSessionMessage struct {
	Request core.AttachLinkAccountSessionRequest
	Options core.RequestOptions
}

func (AttachLinkAccountSessionMessage) Type() string { return TypeAttachLinkAccountSession }

func (m AttachLinkAccountSessionMessage) Validate() error {
	if err := validateOptions(m.Options); err != nil {
		return err
	}
	if err := validateClientSecret(m.Request.ConsumerSessionClientSecret); err != nil {
		return err
	}
	if strings.TrimSpace(m.Request.LinkAccountSessionClientSecret) == "" {
		return commandValidationError("link_account_session_client_secret", "link account session client secret is required")
	}
	return validateSurface(m.Request.RequestSurface)
}

func validateOptions(options core.RequestOptions) error {
	if strings.TrimSpace(options.APIKey) == "" {
		return commandValidationError("api_key", "api key is required")
	}
	return nil
}

func validateClientSecret(secret string) error {
	if strings.TrimSpace(secret) == "" {
		return commandValidationError("consumer_session_client_secret", "consumer session client secret is required")
	}
	return nil
}

func validateSurface(surface string) error {
	if strings.TrimSpace(surface) == "" {
		return commandValidationError("request_surface", "request surface is required")
	}
	return nil
}

func validateVerificationType(value core.VerificationType) error {
	switch value {
	case core.VerificationTypeSMS, core.VerificationTypeEmail:
		return nil
	case "":
		return commandValidationError("type", "verification type is required")
	default:
		return commandValidationError("type", "verification type must be SMS or EMAIL")
	}
}
