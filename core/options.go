package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	glog "github.com/goliatone/go-logger/glog"
	opts "github.com/goliatone/go-options"
)

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

type clientBuilder struct {
	runtimeConfig   Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	transport       TransportAdapter
	transportMaker  TransportFactory
	requestFactory  RequestFactory
	errorParser     ErrorParser
	configProvider  ConfigProvider
	optionsResolver OptionsResolver
}

type Option func(*clientBuilder)

// TransportFactory builds the transport from the resolved config. It runs
// only when no WithTransport option supplied one.
type TransportFactory func(cfg Config, logger Logger) (TransportAdapter, error)

func WithLogger(logger Logger) Option {
	return func(b *clientBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider LoggerProvider) Option {
	return func(b *clientBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(b *clientBuilder) {
		b.metricsRecorder = recorder
	}
}

func WithTransport(transport TransportAdapter) Option {
	return func(b *clientBuilder) {
		b.transport = transport
	}
}

func WithTransportFactory(factory TransportFactory) Option {
	return func(b *clientBuilder) {
		b.transportMaker = factory
	}
}

func WithRequestFactory(factory RequestFactory) Option {
	return func(b *clientBuilder) {
		b.requestFactory = factory
	}
}

func WithErrorParser(parser ErrorParser) Option {
	return func(b *clientBuilder) {
		b.errorParser = parser
	}
}

func WithConfigProvider(provider ConfigProvider) Option {
	return func(b *clientBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver OptionsResolver) Option {
	return func(b *clientBuilder) {
		b.optionsResolver = resolver
	}
}

func defaultClientBuilder(runtime Config) clientBuilder {
	loggerProvider, logger := glog.Resolve("consumers", nil, nil)
	return clientBuilder{
		runtimeConfig:   runtime,
		loggerProvider:  loggerProvider,
		logger:          logger,
		metricsRecorder: NopMetricsRecorder{},
		errorParser:     ErrorJSONParser{},
		configProvider:  NewCfgxConfigProvider(nil),
		optionsResolver: GoOptionsResolver{},
	}
}

// ResolveConfig runs the default < loaded < runtime precedence without
// building a client. Composition roots use it to size the transport before
// the client exists.
func ResolveConfig(ctx context.Context, runtime Config, provider ConfigProvider, resolver OptionsResolver) (Config, error) {
	if provider == nil {
		provider = NewCfgxConfigProvider(nil)
	}
	if resolver == nil {
		resolver = GoOptionsResolver{}
	}
	defaults := DefaultConfig()
	loaded, err := provider.Load(ctx, defaults)
	if err != nil {
		return Config{}, err
	}
	return resolver.Resolve(defaults, loaded, runtime)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

// NewStaticConfigLoader serves a fixed raw map, mostly for embedding config
// that was parsed elsewhere.
func NewStaticConfigLoader(values map[string]any) RawConfigLoader {
	return staticRawConfigLoader{Values: values}
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults.clone()),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	defaultLayer := configToLayerMap(defaults, true)
	loadedLayer := configToLayerMap(loaded, false)
	runtimeLayer := configToLayerMap(runtime, false)

	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			defaultLayer,
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			loadedLayer,
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			runtimeLayer,
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults.clone()),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

// configToLayerMap only emits non-zero values for upper layers, so a layer
// can never reset a lower layer's value back to zero. The optional switches
// are the exception: a non-nil pointer is emitted even when false.
func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	setString := func(target map[string]any, key string, value string) {
		if includeZero || strings.TrimSpace(value) != "" {
			target[key] = strings.TrimSpace(value)
		}
	}

	setString(layer, "client_name", cfg.ClientName)
	setString(layer, "api_host", cfg.APIHost)
	setString(layer, "api_version", cfg.APIVersion)
	setString(layer, "sdk_version", cfg.SDKVersion)
	setSwitch(layer, "idempotency_keys", cfg.IdempotencyKeys, includeZero)

	appInfo := map[string]any{}
	setString(appInfo, "name", cfg.AppInfo.Name)
	setString(appInfo, "version", cfg.AppInfo.Version)
	setString(appInfo, "url", cfg.AppInfo.URL)
	setString(appInfo, "partner_id", cfg.AppInfo.PartnerID)
	if len(appInfo) > 0 {
		layer["app_info"] = appInfo
	}

	transport := map[string]any{}
	if includeZero || cfg.Transport.Timeout > 0 {
		transport["timeout"] = cfg.Transport.Timeout
	}
	if includeZero || cfg.Transport.MaxResponseBodyBytes > 0 {
		transport["max_response_body_bytes"] = cfg.Transport.MaxResponseBodyBytes
	}
	breaker := map[string]any{}
	setSwitch(breaker, "enabled", cfg.Transport.Breaker.Enabled, includeZero)
	if includeZero || cfg.Transport.Breaker.MaxRequests > 0 {
		breaker["max_requests"] = cfg.Transport.Breaker.MaxRequests
	}
	if includeZero || cfg.Transport.Breaker.Interval > 0 {
		breaker["interval"] = cfg.Transport.Breaker.Interval
	}
	if includeZero || cfg.Transport.Breaker.Timeout > 0 {
		breaker["timeout"] = cfg.Transport.Breaker.Timeout
	}
	if includeZero || cfg.Transport.Breaker.ConsecutiveFailures > 0 {
		breaker["consecutive_failures"] = cfg.Transport.Breaker.ConsecutiveFailures
	}
	if len(breaker) > 0 {
		transport["breaker"] = breaker
	}
	if len(transport) > 0 {
		layer["transport"] = transport
	}
	return layer
}

func setSwitch(target map[string]any, key string, value *bool, includeZero bool) {
	switch {
	case value != nil:
		target[key] = *value
	case includeZero:
		target[key] = false
	}
}
