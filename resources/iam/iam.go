// Package iam contains the CloudFormation IAM resource types used for
// AppSync service roles and grants.
package iam

// Role represents AWS::IAM::Role.
type Role struct {
	AssumeRolePolicyDocument any           `json:"AssumeRolePolicyDocument,omitempty"`
	Description              any           `json:"Description,omitempty"`
	ManagedPolicyArns        []any         `json:"ManagedPolicyArns,omitempty"`
	Path                     any           `json:"Path,omitempty"`
	Policies                 []Role_Policy `json:"Policies,omitempty"`
	RoleName                 any           `json:"RoleName,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r Role) ResourceType() string {
	return "AWS::IAM::Role"
}

// Role_Policy is an inline policy embedded in a role.
type Role_Policy struct {
	PolicyDocument any `json:"PolicyDocument,omitempty"`
	PolicyName     any `json:"PolicyName,omitempty"`
}

// Policy represents AWS::IAM::Policy.
type Policy struct {
	PolicyDocument any   `json:"PolicyDocument,omitempty"`
	PolicyName     any   `json:"PolicyName,omitempty"`
	Roles          []any `json:"Roles,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r Policy) ResourceType() string {
	return "AWS::IAM::Policy"
}
