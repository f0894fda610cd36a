package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lex00/wetwire-appsync-go/appsync"
	"github.com/lex00/wetwire-appsync-go/intrinsics"
)

// Build declares the project on a new stack. The returned stack is ready to
// synthesize.
func (p *Project) Build(logger *zap.Logger) (*appsync.Stack, error) {
	stack := appsync.NewStack(p.Stack.Name, appsync.StackProps{
		Description: p.Stack.Description,
		Logger:      logger,
	})

	api, owned, err := p.buildAPI(stack)
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}

	dataSources := make(map[string]appsync.IDataSource, len(p.DataSources))
	for i, cfg := range p.DataSources {
		ds, err := p.buildDataSource(stack, api, cfg)
		if err != nil {
			return nil, fmt.Errorf("dataSources[%d] (%s): %w", i, cfg.ID, err)
		}
		dataSources[cfg.ID] = ds
	}

	functions := make(map[string]appsync.IAppsyncFunction, len(p.Functions))
	for i, cfg := range p.Functions {
		props := appsync.AppsyncFunctionProps{
			Name:         cfg.Name,
			Description:  cfg.Description,
			MaxBatchSize: cfg.MaxBatchSize,
		}
		if props.RequestMappingTemplate, err = p.mappingTemplate(cfg.Request); err != nil {
			return nil, fmt.Errorf("functions[%d] (%s): request: %w", i, cfg.Name, err)
		}
		if props.ResponseMappingTemplate, err = p.mappingTemplate(cfg.Response); err != nil {
			return nil, fmt.Errorf("functions[%d] (%s): response: %w", i, cfg.Name, err)
		}
		fn, err := dataSources[cfg.DataSource].CreateFunction(props)
		if err != nil {
			return nil, fmt.Errorf("functions[%d] (%s): %w", i, cfg.Name, err)
		}
		functions[cfg.Name] = fn
	}

	for i, cfg := range p.Resolvers {
		props := appsync.ResolverProps{
			TypeName:     cfg.Type,
			FieldName:    cfg.Field,
			MaxBatchSize: cfg.MaxBatchSize,
		}
		if cfg.DataSource != "" {
			props.DataSource = dataSources[cfg.DataSource]
		}
		for _, name := range cfg.Pipeline {
			props.PipelineConfig = append(props.PipelineConfig, functions[name])
		}
		if cfg.Caching != nil {
			props.CachingConfig = &appsync.CachingConfig{TTL: cfg.Caching.TTL, CachingKeys: cfg.Caching.Keys}
		}
		if props.RequestMappingTemplate, err = p.mappingTemplate(cfg.Request); err != nil {
			return nil, fmt.Errorf("resolvers[%d] (%s.%s): request: %w", i, cfg.Type, cfg.Field, err)
		}
		if props.ResponseMappingTemplate, err = p.mappingTemplate(cfg.Response); err != nil {
			return nil, fmt.Errorf("resolvers[%d] (%s.%s): response: %w", i, cfg.Type, cfg.Field, err)
		}
		if _, err := api.CreateResolver(props); err != nil {
			return nil, fmt.Errorf("resolvers[%d] (%s.%s): %w", i, cfg.Type, cfg.Field, err)
		}
	}

	for _, out := range p.Outputs {
		value, err := outputValue(api, owned, out.Value)
		if err != nil {
			return nil, fmt.Errorf("outputs (%s): %w", out.Name, err)
		}
		if err := stack.AddOutput(out.Name, value, out.Description); err != nil {
			return nil, fmt.Errorf("outputs (%s): %w", out.Name, err)
		}
	}
	return stack, nil
}

// buildAPI returns the API as an IGraphqlApi, plus the owned *GraphqlApi
// when the project declares one rather than importing it.
func (p *Project) buildAPI(stack *appsync.Stack) (appsync.IGraphqlApi, *appsync.GraphqlApi, error) {
	cfg := p.API
	id := cfg.ID
	if id == "" {
		id = "Api"
	}
	if cfg.ImportID != "" {
		api, err := appsync.ImportGraphqlApi(stack, id, appsync.GraphqlApiAttributes{
			GraphqlApiID:  cfg.ImportID,
			GraphqlApiArn: cfg.ImportArn,
		})
		return api, nil, err
	}

	props := appsync.GraphqlApiProps{
		Name:        cfg.Name,
		XrayEnabled: cfg.XrayEnabled,
	}
	if cfg.SchemaFile != "" {
		schema, err := appsync.SchemaFromAsset(p.Path(cfg.SchemaFile))
		if err != nil {
			return nil, nil, err
		}
		props.Schema = schema
	}
	if cfg.Auth != nil {
		auth := &appsync.AuthorizationConfig{}
		if cfg.Auth.Default != nil {
			mode, err := authorizationMode(*cfg.Auth.Default)
			if err != nil {
				return nil, nil, err
			}
			auth.DefaultAuthorization = &mode
		}
		for _, m := range cfg.Auth.Additional {
			mode, err := authorizationMode(m)
			if err != nil {
				return nil, nil, err
			}
			auth.AdditionalAuthorizationModes = append(auth.AdditionalAuthorizationModes, mode)
		}
		props.AuthorizationConfig = auth
	}
	if cfg.Log != nil {
		props.LogConfig = &appsync.LogConfig{
			FieldLogLevel:         appsync.FieldLogLevel(strings.ToUpper(cfg.Log.FieldLogLevel)),
			ExcludeVerboseContent: cfg.Log.ExcludeVerboseContent,
		}
		if cfg.Log.RoleName != "" {
			role, err := appsync.ImportRole(stack, id+"LogsRole", cfg.Log.RoleName)
			if err != nil {
				return nil, nil, err
			}
			props.LogConfig.Role = role
		}
	}
	if cfg.Cache != nil {
		props.Cache = &appsync.CacheConfig{
			Type:                     appsync.CacheType(strings.ToUpper(cfg.Cache.Type)),
			Behavior:                 appsync.CachingBehavior(strings.ToUpper(cfg.Cache.Behavior)),
			TTL:                      cfg.Cache.TTL,
			AtRestEncryptionEnabled:  cfg.Cache.AtRestEncryptionEnabled,
			TransitEncryptionEnabled: cfg.Cache.TransitEncryptionEnabled,
		}
	}
	if cfg.Domain != nil {
		props.DomainName = &appsync.DomainOptions{
			DomainName:  cfg.Domain.Name,
			Certificate: appsync.Certificate{CertificateArn: nilIfEmpty(cfg.Domain.CertificateArn)},
		}
	}

	api, err := appsync.NewGraphqlApi(stack, id, props)
	if err != nil {
		return nil, nil, err
	}
	return api, api, nil
}

func authorizationMode(cfg ModeConfig) (appsync.AuthorizationMode, error) {
	mode := appsync.AuthorizationMode{AuthorizationType: appsync.AuthorizationType(strings.ToUpper(cfg.Type))}
	switch mode.AuthorizationType {
	case appsync.AuthorizationTypeAPIKey:
		if cfg.APIKey != nil {
			mode.APIKeyConfig = &appsync.APIKeyConfig{
				Name:        cfg.APIKey.Name,
				Description: cfg.APIKey.Description,
				Expires:     cfg.APIKey.Expires,
			}
		}
	case appsync.AuthorizationTypeIAM:
	case appsync.AuthorizationTypeUserPool:
		if cfg.UserPool != nil {
			pool := appsync.UserPool{UserPoolID: nilIfEmpty(cfg.UserPool.UserPoolID)}
			if cfg.UserPool.Region != "" {
				pool.Region = cfg.UserPool.Region
			}
			mode.UserPoolConfig = &appsync.UserPoolConfig{
				UserPool:         pool,
				AppIDClientRegex: cfg.UserPool.AppIDClientRegex,
				DefaultAction:    appsync.UserPoolDefaultAction(strings.ToUpper(cfg.UserPool.DefaultAction)),
			}
		}
	case appsync.AuthorizationTypeOIDC:
		if cfg.OIDC != nil {
			mode.OpenIDConnectConfig = &appsync.OpenIDConnectConfig{
				OidcProvider:         cfg.OIDC.Provider,
				ClientID:             cfg.OIDC.ClientID,
				TokenExpiryFromAuth:  cfg.OIDC.TokenExpiryFromAuth,
				TokenExpiryFromIssue: cfg.OIDC.TokenExpiryFromIssue,
			}
		}
	case appsync.AuthorizationTypeLambda:
		if cfg.Lambda != nil {
			mode.LambdaAuthorizerConfig = &appsync.LambdaAuthorizerConfig{
				Handler:         appsync.Function{FunctionArn: nilIfEmpty(cfg.Lambda.FunctionArn)},
				ResultsCacheTTL: cfg.Lambda.ResultsCacheTTL,
				ValidationRegex: cfg.Lambda.ValidationRegex,
			}
		}
	default:
		return mode, fmt.Errorf("%w: unknown authorization type %q", appsync.ErrInvalidAuthorization, cfg.Type)
	}
	return mode, nil
}

func (p *Project) buildDataSource(stack *appsync.Stack, api appsync.IGraphqlApi, cfg DataSourceConfig) (appsync.IDataSource, error) {
	base := appsync.DataSourceOptions{Name: cfg.Name, Description: cfg.Description}
	backed := appsync.BackedDataSourceOptions{DataSourceOptions: base}
	if cfg.ServiceRole != "" {
		role, err := appsync.ImportRole(stack, cfg.ID+"Role", cfg.ServiceRole)
		if err != nil {
			return nil, err
		}
		backed.ServiceRole = role
	}

	switch strings.ToLower(cfg.Type) {
	case "none":
		return api.AddNoneDataSource(cfg.ID, base)
	case "dynamodb":
		table := appsync.Table{TableName: nilIfEmpty(cfg.TableName)}
		if cfg.TableArn != "" {
			table.TableArn = cfg.TableArn
		} else if cfg.TableName != "" {
			table.TableArn = "arn:${AWS::Partition}:dynamodb:${AWS::Region}:${AWS::AccountId}:table/" + cfg.TableName
		}
		return api.AddDynamoDbDataSource(cfg.ID, table, appsync.DynamoDbDataSourceOptions{
			BackedDataSourceOptions: backed,
			ReadOnlyAccess:          cfg.ReadOnly,
			UseCallerCredentials:    cfg.UseCallerCredentials,
		})
	case "lambda":
		return api.AddLambdaDataSource(cfg.ID, appsync.Function{FunctionArn: nilIfEmpty(cfg.FunctionArn)}, backed)
	case "http":
		opts := appsync.HttpDataSourceOptions{BackedDataSourceOptions: backed}
		if cfg.SigningRegion != "" || cfg.SigningServiceName != "" {
			opts.AuthorizationConfig = &appsync.AwsIamConfig{
				SigningRegion:      cfg.SigningRegion,
				SigningServiceName: cfg.SigningServiceName,
			}
		}
		return api.AddHttpDataSource(cfg.ID, cfg.Endpoint, opts)
	case "rds":
		return api.AddRdsDataSource(cfg.ID,
			appsync.ServerlessCluster{ClusterArn: nilIfEmpty(cfg.ClusterArn)},
			appsync.Secret{SecretArn: nilIfEmpty(cfg.SecretArn)},
			appsync.RdsDataSourceOptions{BackedDataSourceOptions: backed, DatabaseName: cfg.DatabaseName})
	case "opensearch":
		return api.AddOpenSearchDataSource(cfg.ID, searchDomain(cfg), backed)
	case "elasticsearch":
		return api.AddElasticsearchDataSource(cfg.ID, searchDomain(cfg), backed)
	default:
		return nil, fmt.Errorf("unknown data source type %q", cfg.Type)
	}
}

func searchDomain(cfg DataSourceConfig) appsync.OpenSearchDomain {
	return appsync.OpenSearchDomain{
		DomainArn:      nilIfEmpty(cfg.DomainArn),
		DomainEndpoint: nilIfEmpty(cfg.DomainEndpoint),
	}
}

// nilIfEmpty keeps an unset string from satisfying a required handle.
func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// mappingTemplate resolves a template reference. A nil reference yields no
// template.
func (p *Project) mappingTemplate(cfg *TemplateConfig) (appsync.MappingTemplate, error) {
	if cfg == nil {
		return nil, nil
	}
	set := 0
	for _, s := range []string{cfg.Inline, cfg.File, cfg.Builtin} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of inline, file and builtin is required")
	}

	switch {
	case cfg.Inline != "":
		return appsync.MappingTemplateFromString(cfg.Inline), nil
	case cfg.File != "":
		return appsync.MappingTemplateFromFile(p.Path(cfg.File))
	}

	switch cfg.Builtin {
	case "dynamoDbScanTable":
		return appsync.DynamoDbScanTable(cfg.ConsistentRead), nil
	case "dynamoDbQuery":
		if cfg.Key == "" || cfg.Arg == "" {
			return nil, fmt.Errorf("builtin %s needs key and arg", cfg.Builtin)
		}
		return appsync.DynamoDbQuery(appsync.KeyConditionEq(cfg.Key, cfg.Arg), cfg.Index, cfg.ConsistentRead), nil
	case "dynamoDbGetItem":
		if cfg.Key == "" || cfg.Arg == "" {
			return nil, fmt.Errorf("builtin %s needs key and arg", cfg.Builtin)
		}
		return appsync.DynamoDbGetItem(cfg.Key, cfg.Arg, cfg.ConsistentRead), nil
	case "dynamoDbDeleteItem":
		if cfg.Key == "" || cfg.Arg == "" {
			return nil, fmt.Errorf("builtin %s needs key and arg", cfg.Builtin)
		}
		return appsync.DynamoDbDeleteItem(cfg.Key, cfg.Arg), nil
	case "dynamoDbPutItem":
		if cfg.Key == "" {
			return nil, fmt.Errorf("builtin %s needs key", cfg.Builtin)
		}
		key := appsync.Partition(cfg.Key).Auto()
		if cfg.Arg != "" {
			key = appsync.Partition(cfg.Key).Is(cfg.Arg)
		}
		return appsync.DynamoDbPutItem(key, appsync.ValuesProjecting("")), nil
	case "dynamoDbResultList":
		return appsync.DynamoDbResultList(), nil
	case "dynamoDbResultItem":
		return appsync.DynamoDbResultItem(), nil
	case "lambdaRequest":
		return appsync.LambdaRequest("", ""), nil
	case "lambdaResult":
		return appsync.LambdaResult(), nil
	default:
		return nil, fmt.Errorf("unknown builtin template %q", cfg.Builtin)
	}
}

func outputValue(api appsync.IGraphqlApi, owned *appsync.GraphqlApi, value string) (any, error) {
	switch value {
	case "apiId":
		return api.ApiID(), nil
	case "arn":
		return intrinsics.SubIfTemplated(api.Arn()), nil
	case "graphqlUrl":
		if owned == nil {
			return nil, fmt.Errorf("graphqlUrl is not available on an imported api")
		}
		return owned.GraphqlURL(), nil
	case "apiKey":
		if owned == nil || owned.ApiKey() == nil {
			return nil, fmt.Errorf("the api has no API key")
		}
		return owned.ApiKey(), nil
	default:
		return nil, fmt.Errorf("unknown output value %q", value)
	}
}
