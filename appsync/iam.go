package appsync

import (
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/zap"

	wetwire "github.com/lex00/wetwire-appsync-go"
	"github.com/lex00/wetwire-appsync-go/intrinsics"
	"github.com/lex00/wetwire-appsync-go/resources/iam"
)

const appsyncServicePrincipal = "appsync.amazonaws.com"

// IGrantable is a principal that policy statements can be attached to.
type IGrantable interface {
	AddToPrincipalPolicy(statement intrinsics.PolicyStatement)
}

// RoleProps configures NewRole.
type RoleProps struct {
	// AssumedBy is the service principal allowed to assume the role.
	AssumedBy         string
	Description       string
	ManagedPolicyArns []any
}

// Role is an IAM role. Statements added through grants are collected in a
// default policy attached to the role.
type Role struct {
	stack      *Stack
	logicalID  string
	policyID   string
	roleName   any
	statements []intrinsics.PolicyStatement
}

// NewRole declares an IAM role.
func NewRole(stack *Stack, id string, props RoleProps) (*Role, error) {
	if props.AssumedBy == "" {
		return nil, missingField("role "+id, "AssumedBy")
	}
	lid, err := stack.allocateID(id)
	if err != nil {
		return nil, err
	}
	return newRole(stack, lid, props), nil
}

func newRole(stack *Stack, logicalID string, props RoleProps) *Role {
	r := &Role{stack: stack, logicalID: logicalID}
	r.policyID = stack.uniqueID(logicalID, "DefaultPolicy")

	managed := make([]any, len(props.ManagedPolicyArns))
	for i, arn := range props.ManagedPolicyArns {
		managed[i] = intrinsics.SubIfTemplated(arn)
	}
	stack.declare(logicalID, func() (wetwire.Resource, []string, error) {
		return iam.Role{
			AssumeRolePolicyDocument: intrinsics.AssumeRolePolicy(props.AssumedBy),
			Description:              props.Description,
			ManagedPolicyArns:        managed,
		}, nil, nil
	})
	stack.declare(r.policyID, r.renderPolicy)
	return r
}

// ImportRole wraps an existing role by name. Grants on it produce a policy
// attached to that role.
func ImportRole(stack *Stack, id string, roleName string) (*Role, error) {
	if roleName == "" {
		return nil, missingField("role "+id, "roleName")
	}
	lid, err := stack.allocateID(id)
	if err != nil {
		return nil, err
	}
	r := &Role{stack: stack, roleName: roleName}
	r.policyID = stack.uniqueID(lid, "Policy")
	stack.declare(r.policyID, r.renderPolicy)
	return r, nil
}

// LogicalID is the role's logical ID, or "" for an imported role.
func (r *Role) LogicalID() string { return r.logicalID }

// RoleName references the role by name.
func (r *Role) RoleName() any {
	if r.roleName != nil {
		return r.roleName
	}
	return intrinsics.Ref{LogicalName: r.logicalID}
}

// Arn references the role's ARN.
func (r *Role) Arn() any {
	if r.roleName != nil {
		return intrinsics.Sub{String: fmt.Sprintf("arn:${AWS::Partition}:iam::${AWS::AccountId}:role/%s", r.roleName)}
	}
	return wetwire.AttrRef{Resource: r.logicalID, Attribute: "Arn"}
}

// AddToPrincipalPolicy appends a statement to the role's default policy.
func (r *Role) AddToPrincipalPolicy(statement intrinsics.PolicyStatement) {
	r.statements = append(r.statements, statement)
}

// Statements returns the statements granted so far.
func (r *Role) Statements() []intrinsics.PolicyStatement {
	return slices.Clone(r.statements)
}

func (r *Role) renderPolicy() (wetwire.Resource, []string, error) {
	if len(r.statements) == 0 {
		return nil, nil, nil
	}
	statements := make([]any, len(r.statements))
	for i, st := range r.statements {
		statements[i] = st
	}
	return iam.Policy{
		PolicyDocument: intrinsics.NewPolicyDocument(statements...),
		PolicyName:     r.policyID,
		Roles:          []any{r.RoleName()},
	}, nil, nil
}

// isNilGrantee also catches typed nil pointers such as (*Role)(nil).
func isNilGrantee(g IGrantable) bool {
	switch v := g.(type) {
	case nil:
		return true
	case *Role:
		return v == nil
	}
	rv := reflect.ValueOf(g)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Grant is the result of granting actions on resources to a principal.
type Grant struct {
	Grantee      IGrantable
	Actions      []string
	ResourceArns []any
}

// addToPrincipal attaches an Allow statement for actions on resources.
// Resource ARNs with ${...} placeholders are wrapped in Fn::Sub.
func addToPrincipal(logger *zap.Logger, grantee IGrantable, actions []string, resources []any) *Grant {
	arns := make([]any, len(resources))
	for i, res := range resources {
		arns[i] = intrinsics.SubIfTemplated(res)
	}
	grantee.AddToPrincipalPolicy(intrinsics.AllowStatement(actions, arns))
	logger.Debug("granted", zap.Strings("actions", actions), zap.Int("resources", len(arns)))
	return &Grant{Grantee: grantee, Actions: slices.Clone(actions), ResourceArns: arns}
}

// IamResource selects the parts of an API a grant applies to.
type IamResource struct {
	arns   []string
	custom bool
}

// IamResourceAll selects every type and field of the API.
func IamResourceAll() IamResource {
	return IamResource{arns: []string{"*"}}
}

// IamResourceOfType selects every field of a type, or only the given fields.
func IamResourceOfType(typeName string, fields ...string) IamResource {
	if len(fields) == 0 {
		return IamResource{arns: []string{"types/" + typeName + "/*"}}
	}
	arns := make([]string, len(fields))
	for i, f := range fields {
		arns[i] = "types/" + typeName + "/fields/" + f
	}
	return IamResource{arns: arns}
}

// IamResourceCustom uses fully qualified ARNs as given.
func IamResourceCustom(arns ...string) (IamResource, error) {
	if len(arns) == 0 {
		return IamResource{}, fmt.Errorf("%w: at least one custom ARN", ErrMissingRequiredField)
	}
	return IamResource{arns: slices.Clone(arns), custom: true}, nil
}

// ResourceArns resolves the selection against api.
func (r IamResource) ResourceArns(api IGraphqlApi) []string {
	if r.custom {
		return slices.Clone(r.arns)
	}
	arns := make([]string, len(r.arns))
	for i, suffix := range r.arns {
		arns[i] = api.Arn() + "/" + suffix
	}
	return arns
}
