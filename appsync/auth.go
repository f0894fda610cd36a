package appsync

import (
	"fmt"
	"time"
)

// AuthorizationType is an AppSync authentication mode.
type AuthorizationType string

const (
	AuthorizationTypeAPIKey   AuthorizationType = "API_KEY"
	AuthorizationTypeIAM      AuthorizationType = "AWS_IAM"
	AuthorizationTypeUserPool AuthorizationType = "AMAZON_COGNITO_USER_POOLS"
	AuthorizationTypeOIDC     AuthorizationType = "OPENID_CONNECT"
	AuthorizationTypeLambda   AuthorizationType = "AWS_LAMBDA"
)

// UserPoolDefaultAction is what happens to a user pool request that matches
// no directive.
type UserPoolDefaultAction string

const (
	UserPoolDefaultActionAllow UserPoolDefaultAction = "ALLOW"
	UserPoolDefaultActionDeny  UserPoolDefaultAction = "DENY"
)

// AuthorizationMode is one way of authorizing requests.
type AuthorizationMode struct {
	AuthorizationType      AuthorizationType
	UserPoolConfig         *UserPoolConfig
	APIKeyConfig           *APIKeyConfig
	OpenIDConnectConfig    *OpenIDConnectConfig
	LambdaAuthorizerConfig *LambdaAuthorizerConfig
}

// UserPoolConfig configures Cognito user pool authorization.
type UserPoolConfig struct {
	UserPool         UserPool
	AppIDClientRegex string
	// DefaultAction applies to the default mode only and defaults to ALLOW.
	DefaultAction UserPoolDefaultAction
}

// APIKeyConfig configures the generated API key.
type APIKeyConfig struct {
	// Name prefixes the key's logical ID, "Default" when empty.
	Name        string
	Description string
	// Expires must be between 1 and 365 days from now. Zero uses the
	// AppSync default of seven days.
	Expires time.Time
}

// OpenIDConnectConfig configures OIDC authorization.
type OpenIDConnectConfig struct {
	OidcProvider string
	ClientID     string
	// TokenExpiryFromAuth and TokenExpiryFromIssue are in milliseconds.
	TokenExpiryFromAuth  int64
	TokenExpiryFromIssue int64
}

// LambdaAuthorizerConfig configures Lambda authorization.
type LambdaAuthorizerConfig struct {
	Handler         Function
	ResultsCacheTTL time.Duration
	ValidationRegex string
}

// AuthorizationConfig lists the modes of an API. The default mode is
// API_KEY when DefaultAuthorization is nil.
type AuthorizationConfig struct {
	DefaultAuthorization         *AuthorizationMode
	AdditionalAuthorizationModes []AuthorizationMode
}

// modes returns the default mode followed by the additional ones.
func (c *AuthorizationConfig) modes() []AuthorizationMode {
	def := AuthorizationMode{AuthorizationType: AuthorizationTypeAPIKey}
	var additional []AuthorizationMode
	if c != nil {
		if c.DefaultAuthorization != nil {
			def = *c.DefaultAuthorization
		}
		additional = c.AdditionalAuthorizationModes
	}
	return append([]AuthorizationMode{def}, additional...)
}

func validateAuthorizationModes(modes []AuthorizationMode, now time.Time) error {
	counts := make(map[AuthorizationType]int)
	for _, m := range modes {
		counts[m.AuthorizationType]++
		switch m.AuthorizationType {
		case AuthorizationTypeOIDC:
			if m.OpenIDConnectConfig == nil {
				return fmt.Errorf("%w: missing OIDC configuration", ErrInvalidAuthorization)
			}
		case AuthorizationTypeUserPool:
			if m.UserPoolConfig == nil {
				return fmt.Errorf("%w: missing user pool configuration", ErrInvalidAuthorization)
			}
		case AuthorizationTypeLambda:
			if m.LambdaAuthorizerConfig == nil {
				return fmt.Errorf("%w: missing Lambda configuration", ErrInvalidAuthorization)
			}
			if ttl := m.LambdaAuthorizerConfig.ResultsCacheTTL; ttl < 0 || ttl > time.Hour {
				return fmt.Errorf("%w: Lambda authorizer cache TTL must be between 0 and 3600 seconds, got %s", ErrInvalidAuthorization, ttl)
			}
		case AuthorizationTypeAPIKey:
			if m.APIKeyConfig != nil && !m.APIKeyConfig.Expires.IsZero() {
				exp := m.APIKeyConfig.Expires
				if exp.Before(now.Add(24*time.Hour)) || exp.After(now.Add(365*24*time.Hour)) {
					return fmt.Errorf("%w: API key expiration must be between 1 and 365 days", ErrInvalidAuthorization)
				}
			}
		case AuthorizationTypeIAM:
		default:
			return fmt.Errorf("%w: unknown authorization type %q", ErrInvalidAuthorization, m.AuthorizationType)
		}
	}
	if counts[AuthorizationTypeLambda] > 1 {
		return fmt.Errorf("%w: only a single AWS Lambda function can authorize the API", ErrInvalidAuthorization)
	}
	if counts[AuthorizationTypeAPIKey] > 1 {
		return fmt.Errorf("%w: API_KEY configuration cannot be duplicated", ErrInvalidAuthorization)
	}
	if counts[AuthorizationTypeIAM] > 1 {
		return fmt.Errorf("%w: IAM configuration cannot be duplicated", ErrInvalidAuthorization)
	}
	return nil
}

// FieldLogLevel controls resolver field logging.
type FieldLogLevel string

const (
	FieldLogLevelNone  FieldLogLevel = "NONE"
	FieldLogLevelError FieldLogLevel = "ERROR"
	FieldLogLevelAll   FieldLogLevel = "ALL"
)

// LogConfig enables CloudWatch logging. A role allowed to push logs is
// created unless Role is set.
type LogConfig struct {
	ExcludeVerboseContent bool
	FieldLogLevel         FieldLogLevel
	Role                  *Role
}

// DomainOptions attaches a custom domain name to the API.
type DomainOptions struct {
	Certificate Certificate
	DomainName  string
}

// CacheType is the instance size of an API cache.
type CacheType string

const (
	CacheTypeSmall   CacheType = "SMALL"
	CacheTypeMedium  CacheType = "MEDIUM"
	CacheTypeLarge   CacheType = "LARGE"
	CacheTypeXLarge  CacheType = "XLARGE"
	CacheTypeLarge2X CacheType = "LARGE_2X"
)

// CachingBehavior selects which resolvers are cached.
type CachingBehavior string

const (
	CachingBehaviorFullRequest CachingBehavior = "FULL_REQUEST_CACHING"
	CachingBehaviorPerResolver CachingBehavior = "PER_RESOLVER_CACHING"
)

// CacheConfig provisions a server-side cache.
type CacheConfig struct {
	Type                     CacheType
	Behavior                 CachingBehavior
	TTL                      time.Duration
	AtRestEncryptionEnabled  bool
	TransitEncryptionEnabled bool
}

func (c *CacheConfig) validate() error {
	if c.Type == "" {
		return missingField("cache", "Type")
	}
	if c.Behavior == "" {
		return missingField("cache", "Behavior")
	}
	if c.TTL < time.Second || c.TTL > time.Hour {
		return fmt.Errorf("cache TTL must be between 1 and 3600 seconds, got %s", c.TTL)
	}
	return nil
}
