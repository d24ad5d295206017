package query

import (
	"strings"

	"github.com/goliatone/go-consumers/core"
)

const TypeLookupConsumerSession = "consumers.query.session.lookup"

type LookupConsumerSessionMessage struct {
	Request core.LookupRequest
	Options core.RequestOptions
}

func (LookupConsumerSessionMessage) Type() string { return TypeLookupConsumerSession }

func (m LookupConsumerSessionMessage) Validate() error {
	if strings.TrimSpace(m.Options.APIKey) == "" {
		return queryValidationError("api_key", "api key is required")
	}
	if strings.TrimSpace(m.Request.Email) == "" {
		return queryValidationError("email", "email is required")
	}
	if strings.TrimSpace(m.Request.RequestSurface) == "" {
		return queryValidationError("request_surface", "request surface is required")
	}
	return nil
}
