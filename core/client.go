package core

import (
	"context"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// Client dispatches the consumer session operations. It holds only
// immutable collaborators and is safe for concurrent use.
type Client struct {
	config          Config
	endpoints       Endpoints
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	transport       TransportAdapter
	requestFactory  RequestFactory
	errorParser     ErrorParser
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	builder := defaultClientBuilder(cfg)
	for _, opt := range opts {
		if opt != nil {
			opt(&builder)
		}
	}

	resolved, err := ResolveConfig(context.Background(), builder.runtimeConfig, builder.configProvider, builder.optionsResolver)
	if err != nil {
		return nil, err
	}
	loggerProvider, logger := glog.Resolve(resolved.ClientName, builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)

	transport := builder.transport
	if transport == nil && builder.transportMaker != nil {
		transport, err = builder.transportMaker(resolved, logger)
		if err != nil {
			return nil, err
		}
	}
	if transport == nil {
		return nil, internalError("core: transport adapter is required")
	}

	metricsRecorder := builder.metricsRecorder
	if metricsRecorder == nil {
		metricsRecorder = NopMetricsRecorder{}
	}
	requestFactory := builder.requestFactory
	if requestFactory == nil {
		requestFactory = NewAPIRequestFactory(resolved)
	}
	errorParser := builder.errorParser
	if errorParser == nil {
		errorParser = ErrorJSONParser{}
	}

	return &Client{
		config:          resolved,
		endpoints:       NewEndpoints(resolved.APIHost),
		logger:          logger,
		loggerProvider:  loggerProvider,
		metricsRecorder: metricsRecorder,
		transport:       transport,
		requestFactory:  requestFactory,
		errorParser:     errorParser,
	}, nil
}

func (c *Client) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.config
}

func (c *Client) Endpoints() Endpoints {
	if c == nil {
		return Endpoints{}
	}
	return c.endpoints
}

func (c *Client) LoggerProvider() LoggerProvider {
	if c == nil {
		return nil
	}
	return c.loggerProvider
}

// SignUp never returns a bare error: every failure lands in the result.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest, options RequestOptions) SignupResult {
	startedAt := time.Now()
	signup, err := executeModel(ctx, c, OperationSignUp, options, SignUpParams(req), ParseConsumerSessionSignup)
	c.observeOperation(ctx, startedAt, OperationSignUp, err, map[string]any{
		"request_surface": req.RequestSurface,
		"consent_action":  string(req.ConsentAction),
		"country":         req.Country,
	})
	if err != nil {
		return SignupFailed(err)
	}
	return SignupSucceeded(signup)
}

func (c *Client) LookupConsumerSession(
	ctx context.Context,
	req LookupRequest,
	options RequestOptions,
) (lookup ConsumerSessionLookup, err error) {
	startedAt := time.Now()
	defer func() {
		c.observeOperation(ctx, startedAt, OperationLookupSession, err, map[string]any{
			"request_surface": req.RequestSurface,
			"exists":          lookup.Exists,
		})
	}()
	return executeModel(ctx, c, OperationLookupSession, options, LookupParams(req), ParseConsumerSessionLookup)
}

func (c *Client) StartConsumerVerification(
	ctx context.Context,
	req StartVerificationRequest,
	options RequestOptions,
) (session ConsumerSession, err error) {
	startedAt := time.Now()
	defer func() {
		c.observeOperation(ctx, startedAt, OperationStartVerification, err, map[string]any{
			"request_surface":   req.RequestSurface,
			"verification_type": string(req.Type),
		})
	}()
	return executeModel(ctx, c, OperationStartVerification, options, StartVerificationParams(req), ParseConsumerSession)
}

func (c *Client) ConfirmConsumerVerification(
	ctx context.Context,
	req ConfirmVerificationRequest,
	options RequestOptions,
) (session ConsumerSession, err error) {
	startedAt := time.Now()
	defer func() {
		c.observeOperation(ctx, startedAt, OperationConfirmVerification, err, map[string]any{
			"request_surface":   req.RequestSurface,
			"verification_type": string(req.Type),
		})
	}()
	return executeModel(ctx, c, OperationConfirmVerification, options, ConfirmVerificationParams(req), ParseConsumerSession)
}

func (c *Client) AttachLinkConsumerToLinkAccountSession(
	ctx context.Context,
	req AttachLinkAccountSessionRequest,
	options RequestOptions,
) (attached AttachConsumerToLinkAccountSession, err error) {
	startedAt := time.Now()
	defer func() {
		c.observeOperation(ctx, startedAt, OperationAttachLinkAccountSession, err, map[string]any{
			"request_surface": req.RequestSurface,
		})
	}()
	return executeModel(
		ctx,
		c,
		OperationAttachLinkAccountSession,
		options,
		AttachLinkAccountSessionParams(req),
		ParseAttachConsumerToLinkAccountSession,
	)
}

// executeModel runs one request and decodes a 2xx body with parse. No partial
// value is returned on any failure path.
func executeModel[T any](
	ctx context.Context,
	c *Client,
	operation Operation,
	options RequestOptions,
	params Params,
	parse ModelParser[T],
) (T, error) {
	var zero T
	if c == nil {
		return zero, internalError("core: client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return zero, transportFailure(operation, err)
	}
	if strings.TrimSpace(options.APIKey) == "" {
		return zero, badInput(operation, "core: api key is required")
	}

	endpoint, err := c.endpoints.URL(operation)
	if err != nil {
		return zero, internalError(err.Error())
	}
	request, err := c.requestFactory.CreatePost(endpoint, options, params)
	if err != nil {
		return zero, err
	}
	if request.Metadata == nil {
		request.Metadata = map[string]any{}
	}
	request.Metadata["operation"] = operation.String()
	if request.Timeout == 0 {
		request.Timeout = c.config.Transport.Timeout
	}
	if request.MaxResponseBodyBytes == 0 {
		request.MaxResponseBodyBytes = c.config.Transport.MaxResponseBodyBytes
	}

	response, err := c.transport.Do(ctx, request)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return zero, transportFailure(operation, ctxErr)
	}
	if err != nil {
		return zero, transportFailure(operation, err)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		apiErr := c.errorParser.Parse(response.StatusCode, response.Body)
		if apiErr == nil {
			apiErr = &APIError{StatusCode: response.StatusCode, Message: improperlyFormattedErrorMessage}
		}
		apiErr.StatusCode = response.StatusCode
		if apiErr.RequestID == "" {
			apiErr.RequestID = headerValue(response.Headers, HeaderRequestID)
		}
		return zero, apiFailure(operation, apiErr)
	}

	value, err := parse(response.Body)
	if err != nil {
		return zero, decodeFailure(operation, response.StatusCode, err)
	}
	return value, nil
}

func headerValue(headers map[string]string, name string) string {
	if value, ok := headers[name]; ok {
		return strings.TrimSpace(value)
	}
	for key, value := range headers {
		if strings.EqualFold(key, name) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
