// Package lambda contains the CloudFormation Lambda resource types used by
// AppSync Lambda authorizers.
package lambda

// Permission represents AWS::Lambda::Permission.
type Permission struct {
	Action        any `json:"Action,omitempty"`
	FunctionName  any `json:"FunctionName,omitempty"`
	Principal     any `json:"Principal,omitempty"`
	SourceAccount any `json:"SourceAccount,omitempty"`
	SourceArn     any `json:"SourceArn,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r Permission) ResourceType() string {
	return "AWS::Lambda::Permission"
}
