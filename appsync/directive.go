package appsync

import (
	"fmt"
	"slices"
	"strings"
)

// Directive is an SDL annotation on a type or field. Authorization
// directives are tied to the authorization mode they require.
type Directive struct {
	statement      string
	mode           AuthorizationType
	mutationFields []string
}

// DirectiveIAM allows access through IAM authorization.
func DirectiveIAM() Directive {
	return Directive{statement: "@aws_iam", mode: AuthorizationTypeIAM}
}

// DirectiveOIDC allows access through OpenID Connect authorization.
func DirectiveOIDC() Directive {
	return Directive{statement: "@aws_oidc", mode: AuthorizationTypeOIDC}
}

// DirectiveAPIKey allows access through API key authorization.
func DirectiveAPIKey() Directive {
	return Directive{statement: "@aws_api_key", mode: AuthorizationTypeAPIKey}
}

// DirectiveLambda allows access through Lambda authorization.
func DirectiveLambda() Directive {
	return Directive{statement: "@aws_lambda", mode: AuthorizationTypeLambda}
}

// DirectiveCognito allows access to members of the given Cognito groups.
func DirectiveCognito(groups ...string) (Directive, error) {
	if len(groups) == 0 {
		return Directive{}, fmt.Errorf("cognito directive: %w: at least one group", ErrMissingRequiredField)
	}
	return Directive{
		statement: fmt.Sprintf("@aws_auth(cognito_groups: [%s])", quoteList(groups)),
		mode:      AuthorizationTypeUserPool,
	}, nil
}

// DirectiveSubscribe makes a subscription field fire on the given mutations.
func DirectiveSubscribe(mutations ...string) (Directive, error) {
	if len(mutations) == 0 {
		return Directive{}, fmt.Errorf("subscribe directive: %w: at least one mutation", ErrMissingRequiredField)
	}
	return Directive{
		statement:      fmt.Sprintf("@aws_subscribe(mutations: [%s])", quoteList(mutations)),
		mutationFields: slices.Clone(mutations),
	}, nil
}

// DirectiveCustom renders statement verbatim.
func DirectiveCustom(statement string) Directive {
	return Directive{statement: statement}
}

// Statement is the directive as written when no modes apply.
func (d Directive) Statement() string { return d.statement }

// Mode is the authorization mode the directive requires, or "".
func (d Directive) Mode() AuthorizationType { return d.mode }

// MutationFields lists the mutations a subscribe directive listens to.
func (d Directive) MutationFields() []string { return slices.Clone(d.mutationFields) }

// render returns the statement for an API configured with modes. ok is false
// when the directive's mode is not configured; nil modes means unbound.
func (d Directive) render(modes []AuthorizationType) (string, bool) {
	if modes == nil {
		return d.statement, true
	}
	if d.mode != "" && !slices.Contains(modes, d.mode) {
		return "", false
	}
	if d.mode == AuthorizationTypeUserPool && len(modes) > 1 {
		return strings.Replace(d.statement, "@aws_auth", "@aws_cognito_user_pools", 1), true
	}
	return d.statement, true
}

func directivesToString(directives []Directive, modes []AuthorizationType) string {
	parts := make([]string, 0, len(directives))
	for _, d := range directives {
		if s, ok := d.render(modes); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = `"` + item + `"`
	}
	return strings.Join(quoted, ", ")
}
