package appsync

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	wetwire "github.com/lex00/wetwire-appsync-go"
	"github.com/lex00/wetwire-appsync-go/intrinsics"
	cfn "github.com/lex00/wetwire-appsync-go/resources/appsync"
	"github.com/lex00/wetwire-appsync-go/resources/lambda"
)

const logsManagedPolicy = "arn:${AWS::Partition}:iam::aws:policy/service-role/AWSAppSyncPushToCloudWatchLogs"

// IGraphqlApi is an AppSync API that data sources, resolvers and grants can
// be attached to, either created in this stack or imported.
type IGraphqlApi interface {
	ApiID() any
	// Arn is the API ARN, in Fn::Sub syntax for an API created in this stack.
	Arn() string
	// Modes lists the configured authorization types, nil when unknown.
	Modes() []AuthorizationType
	Stack() *Stack

	AddNoneDataSource(id string, opts DataSourceOptions) (*NoneDataSource, error)
	AddDynamoDbDataSource(id string, table Table, opts DynamoDbDataSourceOptions) (*DynamoDbDataSource, error)
	AddLambdaDataSource(id string, fn Function, opts BackedDataSourceOptions) (*LambdaDataSource, error)
	AddHttpDataSource(id, endpoint string, opts HttpDataSourceOptions) (*HttpDataSource, error)
	AddRdsDataSource(id string, cluster ServerlessCluster, secret Secret, opts RdsDataSourceOptions) (*RdsDataSource, error)
	AddOpenSearchDataSource(id string, domain OpenSearchDomain, opts BackedDataSourceOptions) (*OpenSearchDataSource, error)
	AddElasticsearchDataSource(id string, domain OpenSearchDomain, opts BackedDataSourceOptions) (*ElasticsearchDataSource, error)
	CreateResolver(props ResolverProps) (*Resolver, error)

	Grant(grantee IGrantable, resources IamResource, actions ...string) (*Grant, error)
	GrantQuery(grantee IGrantable, fields ...string) (*Grant, error)
	GrantMutation(grantee IGrantable, fields ...string) (*Grant, error)
	GrantSubscription(grantee IGrantable, fields ...string) (*Grant, error)
}

// GraphqlApiBase implements IGraphqlApi for created and imported APIs.
type GraphqlApiBase struct {
	stack           *Stack
	logicalID       string
	apiID           any
	arn             string
	schemaID        string
	modes           []AuthorizationType
	dataSourceNames map[string]bool
}

func (b *GraphqlApiBase) ApiID() any                 { return b.apiID }
func (b *GraphqlApiBase) Arn() string                { return b.arn }
func (b *GraphqlApiBase) Stack() *Stack              { return b.stack }
func (b *GraphqlApiBase) LogicalID() string          { return b.logicalID }
func (b *GraphqlApiBase) Modes() []AuthorizationType { return b.modes }

// CreateResolver attaches a resolver to a field of this API.
func (b *GraphqlApiBase) CreateResolver(props ResolverProps) (*Resolver, error) {
	return newResolver(b, props)
}

// Grant allows grantee to perform actions on the selected parts of the API.
func (b *GraphqlApiBase) Grant(grantee IGrantable, resources IamResource, actions ...string) (*Grant, error) {
	if isNilGrantee(grantee) {
		return nil, errors.New("grant: grantee is nil")
	}
	if len(actions) == 0 {
		return nil, fmt.Errorf("grant: %w: actions", ErrMissingRequiredField)
	}
	arns := resources.ResourceArns(b)
	values := make([]any, len(arns))
	for i, arn := range arns {
		values[i] = arn
	}
	return addToPrincipal(b.stack.logger, grantee, actions, values), nil
}

// GrantQuery allows grantee to run the given queries, or all of them.
func (b *GraphqlApiBase) GrantQuery(grantee IGrantable, fields ...string) (*Grant, error) {
	return b.Grant(grantee, IamResourceOfType("Query", fields...), "appsync:GraphQL")
}

// GrantMutation allows grantee to run the given mutations, or all of them.
func (b *GraphqlApiBase) GrantMutation(grantee IGrantable, fields ...string) (*Grant, error) {
	return b.Grant(grantee, IamResourceOfType("Mutation", fields...), "appsync:GraphQL")
}

// GrantSubscription allows grantee to run the given subscriptions, or all of them.
func (b *GraphqlApiBase) GrantSubscription(grantee IGrantable, fields ...string) (*Grant, error) {
	return b.Grant(grantee, IamResourceOfType("Subscription", fields...), "appsync:GraphQL")
}

// GraphqlApiAttributes identify an existing API.
type GraphqlApiAttributes struct {
	GraphqlApiID string
	// GraphqlApiArn defaults to the ARN of GraphqlApiID in the stack's account and region.
	GraphqlApiArn string
}

// ImportGraphqlApi references an API created elsewhere. It can host data
// sources and resolvers but has no schema.
func ImportGraphqlApi(stack *Stack, id string, attrs GraphqlApiAttributes) (IGraphqlApi, error) {
	if attrs.GraphqlApiID == "" {
		return nil, missingField("imported graphql api "+id, "GraphqlApiID")
	}
	lid, err := stack.allocateID(id)
	if err != nil {
		return nil, err
	}
	arn := attrs.GraphqlApiArn
	if arn == "" {
		arn = "arn:${AWS::Partition}:appsync:${AWS::Region}:${AWS::AccountId}:apis/" + attrs.GraphqlApiID
	}
	return &GraphqlApiBase{
		stack:           stack,
		logicalID:       lid,
		apiID:           attrs.GraphqlApiID,
		arn:             arn,
		dataSourceNames: make(map[string]bool),
	}, nil
}

// GraphqlApiProps configures NewGraphqlApi.
type GraphqlApiProps struct {
	Name string
	// Schema defaults to an empty code-first schema.
	Schema *Schema
	// AuthorizationConfig defaults to API_KEY authorization.
	AuthorizationConfig *AuthorizationConfig
	LogConfig           *LogConfig
	XrayEnabled         bool
	DomainName          *DomainOptions
	Cache               *CacheConfig
}

// GraphqlApi is an AppSync GraphQL API owning its schema.
type GraphqlApi struct {
	*GraphqlApiBase
	name     string
	schema   *Schema
	apiKeyID string
	domainID string
}

// NewGraphqlApi declares an API, its schema and the supporting API key,
// logging role, domain and cache resources.
func NewGraphqlApi(stack *Stack, id string, props GraphqlApiProps) (*GraphqlApi, error) {
	if props.Name == "" {
		return nil, missingField("graphql api "+id, "Name")
	}
	modes := props.AuthorizationConfig.modes()
	if err := validateAuthorizationModes(modes, stack.now()); err != nil {
		return nil, err
	}
	if props.DomainName != nil && (props.DomainName.DomainName == "" || props.DomainName.Certificate.CertificateArn == nil) {
		return nil, missingField("graphql api "+id, "DomainName and Certificate")
	}
	if props.Cache != nil {
		if err := props.Cache.validate(); err != nil {
			return nil, err
		}
	}

	// A new API only takes a schema no other API has bound.
	if props.Schema != nil {
		if err := props.Schema.checkBind(nil); err != nil {
			return nil, err
		}
	}

	cp := stack.checkpoint()
	lid, err := stack.allocateID(id)
	if err != nil {
		return nil, err
	}
	schemaID, err := stack.allocateID(lid, "Schema")
	if err != nil {
		stack.rollback(cp)
		return nil, err
	}
	types := make([]AuthorizationType, len(modes))
	for i, m := range modes {
		types[i] = m.AuthorizationType
	}

	api := &GraphqlApi{
		GraphqlApiBase: &GraphqlApiBase{
			stack:           stack,
			logicalID:       lid,
			apiID:           wetwire.AttrRef{Resource: lid, Attribute: "ApiId"},
			arn:             "${" + lid + ".Arn}",
			schemaID:        schemaID,
			modes:           types,
			dataSourceNames: make(map[string]bool),
		},
		name:   props.Name,
		schema: props.Schema,
	}
	if api.schema == nil {
		api.schema = NewSchema()
	}

	res := cfn.GraphQLApi{
		Name:               props.Name,
		AuthenticationType: string(modes[0].AuthorizationType),
		XrayEnabled:        optionalBool(props.XrayEnabled),
	}
	setDefaultMode(&res, modes[0])
	for _, m := range modes[1:] {
		res.AdditionalAuthenticationProviders = append(res.AdditionalAuthenticationProviders, additionalProvider(m))
	}
	if props.LogConfig != nil {
		res.LogConfig = api.logConfig(props.LogConfig)
	}
	stack.declare(lid, func() (wetwire.Resource, []string, error) {
		return res, nil, nil
	})
	stack.declare(schemaID, func() (wetwire.Resource, []string, error) {
		return cfn.GraphQLSchema{ApiId: api.apiID, Definition: api.schema.Definition()}, nil, nil
	})

	if err := api.addAPIKey(modes); err != nil {
		stack.rollback(cp)
		return nil, err
	}
	api.addLambdaAuthorizerPermission(modes)
	if props.DomainName != nil {
		api.addDomain(props.DomainName)
	}
	if props.Cache != nil {
		api.addCache(props.Cache)
	}

	if err := api.schema.bind(api); err != nil {
		stack.rollback(cp)
		return nil, err
	}
	stack.logger.Debug("created graphql api",
		zap.String("logicalId", lid),
		zap.String("name", props.Name),
		zap.Int("authorizationModes", len(modes)))
	return api, nil
}

func setDefaultMode(res *cfn.GraphQLApi, m AuthorizationMode) {
	switch m.AuthorizationType {
	case AuthorizationTypeUserPool:
		c := m.UserPoolConfig
		action := c.DefaultAction
		if action == "" {
			action = UserPoolDefaultActionAllow
		}
		res.UserPoolConfig = &cfn.GraphQLApi_UserPoolConfig{
			AppIdClientRegex: optional(c.AppIDClientRegex),
			AwsRegion:        userPoolRegion(c.UserPool),
			DefaultAction:    string(action),
			UserPoolId:       c.UserPool.UserPoolID,
		}
	case AuthorizationTypeOIDC:
		res.OpenIDConnectConfig = oidcConfig(m.OpenIDConnectConfig)
	case AuthorizationTypeLambda:
		res.LambdaAuthorizerConfig = lambdaAuthorizerConfig(m.LambdaAuthorizerConfig)
	}
}

func additionalProvider(m AuthorizationMode) cfn.GraphQLApi_AdditionalAuthenticationProvider {
	p := cfn.GraphQLApi_AdditionalAuthenticationProvider{AuthenticationType: string(m.AuthorizationType)}
	switch m.AuthorizationType {
	case AuthorizationTypeUserPool:
		c := m.UserPoolConfig
		p.UserPoolConfig = &cfn.GraphQLApi_CognitoUserPoolConfig{
			AppIdClientRegex: optional(c.AppIDClientRegex),
			AwsRegion:        userPoolRegion(c.UserPool),
			UserPoolId:       c.UserPool.UserPoolID,
		}
	case AuthorizationTypeOIDC:
		p.OpenIDConnectConfig = oidcConfig(m.OpenIDConnectConfig)
	case AuthorizationTypeLambda:
		p.LambdaAuthorizerConfig = lambdaAuthorizerConfig(m.LambdaAuthorizerConfig)
	}
	return p
}

func userPoolRegion(pool UserPool) any {
	if pool.Region != nil {
		return pool.Region
	}
	return intrinsics.AWS_REGION
}

func oidcConfig(c *OpenIDConnectConfig) *cfn.GraphQLApi_OpenIDConnectConfig {
	out := &cfn.GraphQLApi_OpenIDConnectConfig{
		ClientId: optional(c.ClientID),
		Issuer:   c.OidcProvider,
	}
	if c.TokenExpiryFromAuth > 0 {
		out.AuthTTL = c.TokenExpiryFromAuth
	}
	if c.TokenExpiryFromIssue > 0 {
		out.IatTTL = c.TokenExpiryFromIssue
	}
	return out
}

func lambdaAuthorizerConfig(c *LambdaAuthorizerConfig) *cfn.GraphQLApi_LambdaAuthorizerConfig {
	out := &cfn.GraphQLApi_LambdaAuthorizerConfig{
		AuthorizerUri:                c.Handler.FunctionArn,
		IdentityValidationExpression: optional(c.ValidationRegex),
	}
	if c.ResultsCacheTTL > 0 {
		out.AuthorizerResultTtlInSeconds = int64(c.ResultsCacheTTL.Seconds())
	}
	return out
}

func (a *GraphqlApi) logConfig(c *LogConfig) *cfn.GraphQLApi_LogConfig {
	role := c.Role
	if role == nil {
		role = newRole(a.stack, a.stack.uniqueID(a.logicalID, "ApiLogsRole"), RoleProps{
			AssumedBy:         appsyncServicePrincipal,
			ManagedPolicyArns: []any{logsManagedPolicy},
		})
	}
	out := &cfn.GraphQLApi_LogConfig{
		CloudWatchLogsRoleArn: role.Arn(),
		ExcludeVerboseContent: optionalBool(c.ExcludeVerboseContent),
	}
	if c.FieldLogLevel != "" {
		out.FieldLogLevel = string(c.FieldLogLevel)
	}
	return out
}

// addAPIKey declares the API key when API_KEY is one of the modes. The
// first mode carrying an APIKeyConfig configures it.
func (a *GraphqlApi) addAPIKey(modes []AuthorizationMode) error {
	var config *APIKeyConfig
	found := false
	for _, m := range modes {
		if m.AuthorizationType != AuthorizationTypeAPIKey {
			continue
		}
		found = true
		if m.APIKeyConfig != nil {
			config = m.APIKeyConfig
			break
		}
	}
	if !found {
		return nil
	}
	name := "Default"
	key := cfn.ApiKey{ApiId: a.apiID}
	if config != nil {
		if config.Name != "" {
			name = config.Name
		}
		key.Description = optional(config.Description)
		if !config.Expires.IsZero() {
			key.Expires = config.Expires.Unix()
		}
	}
	id, err := a.stack.allocateID(a.logicalID, name, "ApiKey")
	if err != nil {
		return err
	}
	a.apiKeyID = id
	a.stack.declare(id, func() (wetwire.Resource, []string, error) {
		return key, []string{a.schemaID}, nil
	})
	return nil
}

func (a *GraphqlApi) addLambdaAuthorizerPermission(modes []AuthorizationMode) {
	for _, m := range modes {
		if m.AuthorizationType != AuthorizationTypeLambda || m.LambdaAuthorizerConfig == nil {
			continue
		}
		handler := m.LambdaAuthorizerConfig.Handler
		id := a.stack.uniqueID(a.logicalID, "LambdaAuthorizerPermission")
		a.stack.declare(id, func() (wetwire.Resource, []string, error) {
			return lambda.Permission{
				Action:       "lambda:InvokeFunction",
				FunctionName: handler.FunctionArn,
				Principal:    appsyncServicePrincipal,
			}, nil, nil
		})
		return
	}
}

func (a *GraphqlApi) addDomain(d *DomainOptions) {
	a.domainID = a.stack.uniqueID(a.logicalID, "DomainName")
	a.stack.declare(a.domainID, func() (wetwire.Resource, []string, error) {
		return cfn.DomainName{
			CertificateArn: d.Certificate.CertificateArn,
			Description:    intrinsics.Sub{String: fmt.Sprintf("domain for %s at ${%s.GraphQLUrl}", a.name, a.logicalID)},
			DomainName:     d.DomainName,
		}, nil, nil
	})
	assocID := a.stack.uniqueID(a.logicalID, "DomainAssociation")
	a.stack.declare(assocID, func() (wetwire.Resource, []string, error) {
		return cfn.DomainNameApiAssociation{ApiId: a.apiID, DomainName: d.DomainName}, []string{a.domainID}, nil
	})
}

func (a *GraphqlApi) addCache(c *CacheConfig) {
	id := a.stack.uniqueID(a.logicalID, "Cache")
	a.stack.declare(id, func() (wetwire.Resource, []string, error) {
		return cfn.ApiCache{
			ApiId:                    a.apiID,
			ApiCachingBehavior:       string(c.Behavior),
			AtRestEncryptionEnabled:  optionalBool(c.AtRestEncryptionEnabled),
			TransitEncryptionEnabled: optionalBool(c.TransitEncryptionEnabled),
			Ttl:                      int64(c.TTL.Seconds()),
			Type:                     string(c.Type),
		}, []string{a.schemaID}, nil
	})
}

// Name is the API name.
func (a *GraphqlApi) Name() string { return a.name }

// Schema is the schema owned by the API.
func (a *GraphqlApi) Schema() *Schema { return a.schema }

// SchemaLogicalID is the logical ID of the schema resource.
func (a *GraphqlApi) SchemaLogicalID() string { return a.schemaID }

// GraphqlURL references the GraphQL endpoint.
func (a *GraphqlApi) GraphqlURL() wetwire.AttrRef {
	return wetwire.AttrRef{Resource: a.logicalID, Attribute: "GraphQLUrl"}
}

// ApiKey references the generated API key, or is nil when API_KEY is not
// one of the modes.
func (a *GraphqlApi) ApiKey() any {
	if a.apiKeyID == "" {
		return nil
	}
	return wetwire.AttrRef{Resource: a.apiKeyID, Attribute: "ApiKey"}
}

// AppSyncDomainName references the CloudFront domain of the custom domain,
// or is nil without one.
func (a *GraphqlApi) AppSyncDomainName() any {
	if a.domainID == "" {
		return nil
	}
	return wetwire.AttrRef{Resource: a.domainID, Attribute: "AppSyncDomainName"}
}

// AddType adds a type to the schema.
func (a *GraphqlApi) AddType(t IIntermediateType) (IIntermediateType, error) {
	return a.schema.AddType(t)
}

// AddQuery adds a root query field.
func (a *GraphqlApi) AddQuery(fieldName string, field IField) (*ObjectType, error) {
	return a.schema.AddQuery(fieldName, field)
}

// AddMutation adds a root mutation field.
func (a *GraphqlApi) AddMutation(fieldName string, field IField) (*ObjectType, error) {
	return a.schema.AddMutation(fieldName, field)
}

// AddSubscription adds a root subscription field.
func (a *GraphqlApi) AddSubscription(fieldName string, field IField) (*ObjectType, error) {
	return a.schema.AddSubscription(fieldName, field)
}

// AddToSchema appends raw SDL to the schema.
func (a *GraphqlApi) AddToSchema(text, delimiter string) {
	a.schema.AddToSchema(text, delimiter)
}
