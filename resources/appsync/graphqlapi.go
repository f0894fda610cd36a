// Package appsync contains the CloudFormation resource types of the AWS::AppSync service.
//
// These are the raw (L1) resources synthesized by the construct library in
// the top-level appsync package. They can also be used directly:
//
//	api := appsync.GraphQLApi{
//	    Name:               "demo",
//	    AuthenticationType: "API_KEY",
//	}
package appsync

// GraphQLApi represents AWS::AppSync::GraphQLApi.
type GraphQLApi struct {
	Name                              any                                           `json:"Name,omitempty"`
	AuthenticationType                any                                           `json:"AuthenticationType,omitempty"`
	AdditionalAuthenticationProviders []GraphQLApi_AdditionalAuthenticationProvider `json:"AdditionalAuthenticationProviders,omitempty"`
	ApiType                           any                                           `json:"ApiType,omitempty"`
	IntrospectionConfig               any                                           `json:"IntrospectionConfig,omitempty"`
	LambdaAuthorizerConfig            *GraphQLApi_LambdaAuthorizerConfig            `json:"LambdaAuthorizerConfig,omitempty"`
	LogConfig                         *GraphQLApi_LogConfig                         `json:"LogConfig,omitempty"`
	OpenIDConnectConfig               *GraphQLApi_OpenIDConnectConfig               `json:"OpenIDConnectConfig,omitempty"`
	QueryDepthLimit                   any                                           `json:"QueryDepthLimit,omitempty"`
	ResolverCountLimit                any                                           `json:"ResolverCountLimit,omitempty"`
	UserPoolConfig                    *GraphQLApi_UserPoolConfig                    `json:"UserPoolConfig,omitempty"`
	Visibility                        any                                           `json:"Visibility,omitempty"`
	XrayEnabled                       any                                           `json:"XrayEnabled,omitempty"`
	Tags                              []Tag                                         `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r GraphQLApi) ResourceType() string {
	return "AWS::AppSync::GraphQLApi"
}

// GraphQLApi_AdditionalAuthenticationProvider is an authorization mode beyond the default one.
type GraphQLApi_AdditionalAuthenticationProvider struct {
	AuthenticationType     any                                `json:"AuthenticationType,omitempty"`
	LambdaAuthorizerConfig *GraphQLApi_LambdaAuthorizerConfig `json:"LambdaAuthorizerConfig,omitempty"`
	OpenIDConnectConfig    *GraphQLApi_OpenIDConnectConfig    `json:"OpenIDConnectConfig,omitempty"`
	UserPoolConfig         *GraphQLApi_CognitoUserPoolConfig  `json:"UserPoolConfig,omitempty"`
}

// GraphQLApi_CognitoUserPoolConfig configures a user pool used as an additional provider.
type GraphQLApi_CognitoUserPoolConfig struct {
	AppIdClientRegex any `json:"AppIdClientRegex,omitempty"`
	AwsRegion        any `json:"AwsRegion,omitempty"`
	UserPoolId       any `json:"UserPoolId,omitempty"`
}

// GraphQLApi_UserPoolConfig configures the default user pool provider.
type GraphQLApi_UserPoolConfig struct {
	AppIdClientRegex any `json:"AppIdClientRegex,omitempty"`
	AwsRegion        any `json:"AwsRegion,omitempty"`
	DefaultAction    any `json:"DefaultAction,omitempty"`
	UserPoolId       any `json:"UserPoolId,omitempty"`
}

// GraphQLApi_OpenIDConnectConfig configures an OIDC provider.
type GraphQLApi_OpenIDConnectConfig struct {
	AuthTTL  any `json:"AuthTTL,omitempty"`
	ClientId any `json:"ClientId,omitempty"`
	IatTTL   any `json:"IatTTL,omitempty"`
	Issuer   any `json:"Issuer,omitempty"`
}

// GraphQLApi_LambdaAuthorizerConfig configures a Lambda authorizer.
type GraphQLApi_LambdaAuthorizerConfig struct {
	AuthorizerResultTtlInSeconds any `json:"AuthorizerResultTtlInSeconds,omitempty"`
	AuthorizerUri                any `json:"AuthorizerUri,omitempty"`
	IdentityValidationExpression any `json:"IdentityValidationExpression,omitempty"`
}

// GraphQLApi_LogConfig configures CloudWatch field logging.
type GraphQLApi_LogConfig struct {
	CloudWatchLogsRoleArn any `json:"CloudWatchLogsRoleArn,omitempty"`
	ExcludeVerboseContent any `json:"ExcludeVerboseContent,omitempty"`
	FieldLogLevel         any `json:"FieldLogLevel,omitempty"`
}

// Tag is a resource tag.
type Tag struct {
	Key   any `json:"Key"`
	Value any `json:"Value"`
}

// GraphQLSchema represents AWS::AppSync::GraphQLSchema.
type GraphQLSchema struct {
	ApiId                any `json:"ApiId,omitempty"`
	Definition           any `json:"Definition,omitempty"`
	DefinitionS3Location any `json:"DefinitionS3Location,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r GraphQLSchema) ResourceType() string {
	return "AWS::AppSync::GraphQLSchema"
}

// ApiKey represents AWS::AppSync::ApiKey.
type ApiKey struct {
	ApiId       any `json:"ApiId,omitempty"`
	Description any `json:"Description,omitempty"`
	Expires     any `json:"Expires,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r ApiKey) ResourceType() string {
	return "AWS::AppSync::ApiKey"
}

// ApiCache represents AWS::AppSync::ApiCache.
type ApiCache struct {
	ApiId                    any `json:"ApiId,omitempty"`
	ApiCachingBehavior       any `json:"ApiCachingBehavior,omitempty"`
	AtRestEncryptionEnabled  any `json:"AtRestEncryptionEnabled,omitempty"`
	TransitEncryptionEnabled any `json:"TransitEncryptionEnabled,omitempty"`
	Ttl                      any `json:"Ttl,omitempty"`
	Type                     any `json:"Type,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r ApiCache) ResourceType() string {
	return "AWS::AppSync::ApiCache"
}

// DomainName represents AWS::AppSync::DomainName.
type DomainName struct {
	CertificateArn any `json:"CertificateArn,omitempty"`
	Description    any `json:"Description,omitempty"`
	DomainName     any `json:"DomainName,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r DomainName) ResourceType() string {
	return "AWS::AppSync::DomainName"
}

// DomainNameApiAssociation represents AWS::AppSync::DomainNameApiAssociation.
type DomainNameApiAssociation struct {
	ApiId      any `json:"ApiId,omitempty"`
	DomainName any `json:"DomainName,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r DomainNameApiAssociation) ResourceType() string {
	return "AWS::AppSync::DomainNameApiAssociation"
}
