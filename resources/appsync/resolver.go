package appsync

// Resolver represents AWS::AppSync::Resolver.
type Resolver struct {
	ApiId                   any                      `json:"ApiId,omitempty"`
	TypeName                any                      `json:"TypeName,omitempty"`
	FieldName               any                      `json:"FieldName,omitempty"`
	DataSourceName          any                      `json:"DataSourceName,omitempty"`
	Kind                    any                      `json:"Kind,omitempty"`
	PipelineConfig          *Resolver_PipelineConfig `json:"PipelineConfig,omitempty"`
	RequestMappingTemplate  any                      `json:"RequestMappingTemplate,omitempty"`
	ResponseMappingTemplate any                      `json:"ResponseMappingTemplate,omitempty"`
	CachingConfig           *Resolver_CachingConfig  `json:"CachingConfig,omitempty"`
	MaxBatchSize            any                      `json:"MaxBatchSize,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r Resolver) ResourceType() string {
	return "AWS::AppSync::Resolver"
}

// Resolver_PipelineConfig lists the functions of a pipeline resolver, in order.
type Resolver_PipelineConfig struct {
	Functions []any `json:"Functions,omitempty"`
}

// Resolver_CachingConfig enables per-resolver caching.
type Resolver_CachingConfig struct {
	Ttl         any   `json:"Ttl,omitempty"`
	CachingKeys []any `json:"CachingKeys,omitempty"`
}

// FunctionConfiguration represents AWS::AppSync::FunctionConfiguration.
type FunctionConfiguration struct {
	ApiId                   any `json:"ApiId,omitempty"`
	Name                    any `json:"Name,omitempty"`
	DataSourceName          any `json:"DataSourceName,omitempty"`
	Description             any `json:"Description,omitempty"`
	FunctionVersion         any `json:"FunctionVersion,omitempty"`
	RequestMappingTemplate  any `json:"RequestMappingTemplate,omitempty"`
	ResponseMappingTemplate any `json:"ResponseMappingTemplate,omitempty"`
	MaxBatchSize            any `json:"MaxBatchSize,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r FunctionConfiguration) ResourceType() string {
	return "AWS::AppSync::FunctionConfiguration"
}
