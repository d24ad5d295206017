package core

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	HeaderAccept          = "Accept"
	HeaderAcceptCharset   = "Accept-Charset"
	HeaderAuthorization   = "Authorization"
	HeaderContentType     = "Content-Type"
	HeaderAPIVersion      = "Stripe-Version"
	HeaderAccount         = "Stripe-Account"
	HeaderIdempotencyKey  = "Idempotency-Key"
	HeaderUserAgent       = "User-Agent"
	HeaderClientUserAgent = "X-Stripe-Client-User-Agent"
	HeaderRequestID       = "Request-Id"

	formContentType = "application/x-www-form-urlencoded; charset=UTF-8"
	bindingsLang    = "go"
	bindingsOwner   = "goliatone"
)

// APIRequestFactory builds authenticated, versioned POST requests with a
// form-encoded body.
type APIRequestFactory struct {
	APIVersion      string
	SDKVersion      string
	AppInfo         AppInfoConfig
	IdempotencyKeys bool
	NewID           func() string
}

func NewAPIRequestFactory(cfg Config) *APIRequestFactory {
	return &APIRequestFactory{
		APIVersion:      strings.TrimSpace(cfg.APIVersion),
		SDKVersion:      strings.TrimSpace(cfg.SDKVersion),
		AppInfo:         cfg.AppInfo,
		IdempotencyKeys: cfg.IdempotencyKeysEnabled(),
		NewID:           uuid.NewString,
	}
}

func (f *APIRequestFactory) CreatePost(endpoint string, options RequestOptions, params Params) (TransportRequest, error) {
	if f == nil {
		return TransportRequest{}, internalError("core: request factory is nil")
	}
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return TransportRequest{}, badInput("", "core: request url is required")
	}
	apiKey := strings.TrimSpace(options.APIKey)
	if apiKey == "" {
		return TransportRequest{}, badInput("", "core: api key is required")
	}

	headers := map[string]string{
		HeaderAccept:          "application/json",
		HeaderAcceptCharset:   "UTF-8",
		HeaderAuthorization:   "Bearer " + apiKey,
		HeaderContentType:     formContentType,
		HeaderUserAgent:       f.userAgent(),
		HeaderClientUserAgent: f.clientUserAgent(),
	}
	if version := strings.TrimSpace(f.APIVersion); version != "" {
		headers[HeaderAPIVersion] = version
	}
	if account := strings.TrimSpace(options.StripeAccount); account != "" {
		headers[HeaderAccount] = account
	}
	if key := f.idempotencyKey(options); key != "" {
		headers[HeaderIdempotencyKey] = key
	}

	return TransportRequest{
		Method:  http.MethodPost,
		URL:     endpoint,
		Headers: headers,
		Body:    []byte(EncodeForm(params)),
	}, nil
}

func (f *APIRequestFactory) idempotencyKey(options RequestOptions) string {
	if key := strings.TrimSpace(options.IdempotencyKey); key != "" {
		return key
	}
	if !f.IdempotencyKeys {
		return ""
	}
	newID := f.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return newID()
}

func (f *APIRequestFactory) userAgent() string {
	return "Stripe/v1 GoBindings/" + f.SDKVersion
}

func (f *APIRequestFactory) clientUserAgent() string {
	payload := map[string]any{
		"bindings_version": f.SDKVersion,
		"lang":             bindingsLang,
		"publisher":        bindingsOwner,
	}
	if !f.AppInfo.IsZero() {
		application := map[string]any{}
		if name := strings.TrimSpace(f.AppInfo.Name); name != "" {
			application["name"] = name
		}
		if version := strings.TrimSpace(f.AppInfo.Version); version != "" {
			application["version"] = version
		}
		if appURL := strings.TrimSpace(f.AppInfo.URL); appURL != "" {
			application["url"] = appURL
		}
		if partnerID := strings.TrimSpace(f.AppInfo.PartnerID); partnerID != "" {
			application["partner_id"] = partnerID
		}
		payload["application"] = application
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

// EncodeForm flattens nested params into parent[child] keys. Output is sorted
// by key so identical params always produce identical bytes.
func EncodeForm(params Params) string {
	values := url.Values{}
	flattenForm(values, "", params)
	return values.Encode()
}

func flattenForm(values url.Values, prefix string, value any) {
	switch typed := value.(type) {
	case nil:
		return
	case Params:
		flattenFormMap(values, prefix, typed)
	case map[string]any:
		flattenFormMap(values, prefix, typed)
	case []any:
		for i, item := range typed {
			flattenForm(values, fmt.Sprintf("%s[%d]", prefix, i), item)
		}
	case []string:
		for i, item := range typed {
			values.Add(fmt.Sprintf("%s[%d]", prefix, i), item)
		}
	case string:
		values.Add(prefix, typed)
	case fmt.Stringer:
		values.Add(prefix, typed.String())
	default:
		values.Add(prefix, fmt.Sprint(typed))
	}
}

func flattenFormMap(values url.Values, prefix string, params map[string]any) {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		name := key
		if prefix != "" {
			name = prefix + "[" + key + "]"
		}
		flattenForm(values, name, params[key])
	}
}

var _ RequestFactory = (*APIRequestFactory)(nil)
