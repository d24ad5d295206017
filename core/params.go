package core

import (
	"strings"

	"golang.org/x/text/language"
)

const countryInferringMethodPhoneNumber = "PHONE_NUMBER"

const (
	ParamRequestSurface              = "request_surface"
	ParamEmailAddress                = "email_address"
	ParamPhoneNumber                 = "phone_number"
	ParamCountry                     = "country"
	ParamCountryInferringMethod      = "country_inferring_method"
	ParamConsentAction               = "consent_action"
	ParamLocale                      = "locale"
	ParamLegalName                   = "legal_name"
	ParamCredentials                 = "credentials"
	ParamConsumerSessionClientSecret = "consumer_session_client_secret"
	ParamType                        = "type"
	ParamCustomEmailType             = "custom_email_type"
	ParamConnectionsMerchantName     = "connections_merchant_name"
	ParamCode                        = "code"
	ParamLinkAccountSession          = "link_account_session"
)

// Params maps wire field names to scalars or nested Params. A nil value marks
// an absent optional and is removed by CompactParams.
type Params map[string]any

// CompactParams returns a copy without nil entries at any depth. Nested
// parameter maps left empty by compaction are dropped as well.
func CompactParams(params Params) Params {
	out := Params{}
	for key, value := range params {
		switch typed := value.(type) {
		case nil:
			continue
		case Params:
			nested := CompactParams(typed)
			if len(nested) == 0 {
				continue
			}
			out[key] = nested
		case map[string]any:
			nested := CompactParams(Params(typed))
			if len(nested) == 0 {
				continue
			}
			out[key] = nested
		default:
			out[key] = value
		}
	}
	return out
}

func SignUpParams(req SignUpRequest) Params {
	return CompactParams(Params{
		ParamEmailAddress:           NormalizeEmail(req.Email),
		ParamPhoneNumber:            req.PhoneNumber,
		ParamCountry:                req.Country,
		ParamCountryInferringMethod: countryInferringMethodPhoneNumber,
		ParamConsentAction:          string(req.ConsentAction),
		ParamRequestSurface:         req.RequestSurface,
		ParamLocale:                 optionalLanguageTag(req.Locale),
		ParamLegalName:              optionalParam(req.Name),
	})
}

func LookupParams(req LookupRequest) Params {
	return CompactParams(Params{
		ParamRequestSurface: req.RequestSurface,
		ParamEmailAddress:   NormalizeEmail(req.Email),
	})
}

func StartVerificationParams(req StartVerificationRequest) Params {
	var customEmailType any
	if req.CustomEmailType != nil {
		customEmailType = string(*req.CustomEmailType)
	}
	return CompactParams(Params{
		ParamRequestSurface:          req.RequestSurface,
		ParamCredentials:             credentialParams(req.ConsumerSessionClientSecret),
		ParamType:                    string(req.Type),
		ParamCustomEmailType:         customEmailType,
		ParamConnectionsMerchantName: optionalParam(req.ConnectionsMerchantName),
		ParamLocale:                  req.Locale.String(),
	})
}

func ConfirmVerificationParams(req ConfirmVerificationRequest) Params {
	return CompactParams(Params{
		ParamRequestSurface: req.RequestSurface,
		ParamCredentials:    credentialParams(req.ConsumerSessionClientSecret),
		ParamType:           string(req.Type),
		ParamCode:           req.VerificationCode,
	})
}

func AttachLinkAccountSessionParams(req AttachLinkAccountSessionRequest) Params {
	return CompactParams(Params{
		ParamRequestSurface:     req.RequestSurface,
		ParamCredentials:        credentialParams(req.ConsumerSessionClientSecret),
		ParamLinkAccountSession: req.LinkAccountSessionClientSecret,
	})
}

// NormalizeEmail only folds case; address syntax is the caller's concern.
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}

func credentialParams(clientSecret string) Params {
	return Params{ParamConsumerSessionClientSecret: clientSecret}
}

func optionalParam(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func optionalLanguageTag(tag *language.Tag) any {
	if tag == nil {
		return nil
	}
	return tag.String()
}
