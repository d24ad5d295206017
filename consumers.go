// Package consumers is the entry point for the consumer session client: it
// composes core.Client over the REST transport and exposes command and
// query handlers for go-command.
package consumers

import (
	"github.com/goliatone/go-consumers/core"
	"github.com/goliatone/go-consumers/transport"
	glog "github.com/goliatone/go-logger/glog"
)

type Config = core.Config
type Option = core.Option
type Client = core.Client
type ConsumersAPI = core.ConsumersAPI

type RequestOptions = core.RequestOptions
type SignUpRequest = core.SignUpRequest
type LookupRequest = core.LookupRequest
type StartVerificationRequest = core.StartVerificationRequest
type ConfirmVerificationRequest = core.ConfirmVerificationRequest
type AttachLinkAccountSessionRequest = core.AttachLinkAccountSessionRequest

type ConsumerSession = core.ConsumerSession
type ConsumerSessionLookup = core.ConsumerSessionLookup
type ConsumerSessionSignup = core.ConsumerSessionSignup
type SignupResult = core.SignupResult
type AttachConsumerToLinkAccountSession = core.AttachConsumerToLinkAccountSession

var (
	WithLogger           = core.WithLogger
	WithLoggerProvider   = core.WithLoggerProvider
	WithMetricsRecorder  = core.WithMetricsRecorder
	WithTransport        = core.WithTransport
	WithTransportFactory = core.WithTransportFactory
	WithRequestFactory   = core.WithRequestFactory
	WithErrorParser      = core.WithErrorParser
	WithConfigProvider   = core.WithConfigProvider
	WithOptionsResolver  = core.WithOptionsResolver
)

// Bool sets the optional switches in Config.
func Bool(v bool) *bool {
	return core.Bool(v)
}

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// NewClient builds a client over the default REST transport, wrapped in a
// circuit breaker when the resolved config enables one. A WithTransport
// option replaces the default transport entirely.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	all := make([]Option, 0, len(opts)+1)
	all = append(all, core.WithTransportFactory(newTransport))
	all = append(all, opts...)
	return core.NewClient(cfg, all...)
}

// NewTransport composes the transport stack described by cfg.Transport.
func NewTransport(cfg Config) (core.TransportAdapter, error) {
	_, logger := glog.Resolve(cfg.ClientName+".transport", nil, nil)
	return newTransport(cfg, logger)
}

func newTransport(cfg Config, logger core.Logger) (core.TransportAdapter, error) {
	var adapter core.TransportAdapter = transport.NewRESTAdapterFromConfig(cfg.Transport)
	if !cfg.Transport.Breaker.IsEnabled() {
		return adapter, nil
	}
	return transport.NewBreakerAdapter(adapter, cfg.Transport.Breaker, logger)
}
