package core

import (
	"fmt"
	"strings"
	"sync"
)

const DefaultAPIHost = "https://api.stripe.com"

const (
	pathSignUp                   = "consumers/accounts/sign_up"
	pathLookupSession            = "consumers/sessions/lookup"
	pathStartVerification        = "consumers/sessions/start_verification"
	pathConfirmVerification      = "consumers/sessions/confirm_verification"
	pathAttachLinkAccountSession = "consumers/attach_link_consumer_to_link_account_session"
)

// Endpoints holds the absolute URL of every consumer operation. Values are
// fixed at construction.
type Endpoints struct {
	SignUp                   string
	LookupSession            string
	StartVerification        string
	ConfirmVerification      string
	AttachLinkAccountSession string
}

var defaultEndpoints = sync.OnceValue(func() Endpoints {
	return NewEndpoints(DefaultAPIHost)
})

// DefaultEndpoints returns the registry for DefaultAPIHost, built on first use.
func DefaultEndpoints() Endpoints {
	return defaultEndpoints()
}

func NewEndpoints(apiHost string) Endpoints {
	host := strings.TrimRight(strings.TrimSpace(apiHost), "/")
	if host == "" {
		host = DefaultAPIHost
	}
	return Endpoints{
		SignUp:                   apiURL(host, pathSignUp),
		LookupSession:            apiURL(host, pathLookupSession),
		StartVerification:        apiURL(host, pathStartVerification),
		ConfirmVerification:      apiURL(host, pathConfirmVerification),
		AttachLinkAccountSession: apiURL(host, pathAttachLinkAccountSession),
	}
}

func (e Endpoints) URL(operation Operation) (string, error) {
	switch operation {
	case OperationSignUp:
		return e.SignUp, nil
	case OperationLookupSession:
		return e.LookupSession, nil
	case OperationStartVerification:
		return e.StartVerification, nil
	case OperationConfirmVerification:
		return e.ConfirmVerification, nil
	case OperationAttachLinkAccountSession:
		return e.AttachLinkAccountSession, nil
	default:
		return "", fmt.Errorf("core: unknown operation %q", operation)
	}
}

func apiURL(host string, path string) string {
	return host + "/v1/" + path
}
