// Package intrinsics provides the CloudFormation intrinsic functions used by
// AppSync constructs.
//
// The core intrinsic types are re-exported from cloudformation-schema-go:
//
//	Ref{"DemoApi"} → {"Ref": "DemoApi"}
//	Sub{"${DemoApi.Arn}/*"} → {"Fn::Sub": "${DemoApi.Arn}/*"}
//	Join{"", []any{tableArn, "/index/*"}} → {"Fn::Join": ["", [..., "/index/*"]]}
//
// Pseudo-parameters:
//
//	AWS_REGION, AWS_ACCOUNT_ID, AWS_PARTITION, etc.
package intrinsics

import (
	"strings"

	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

type (
	// Ref represents a CloudFormation Ref intrinsic function.
	Ref = intrinsics.Ref

	// GetAtt represents a CloudFormation Fn::GetAtt intrinsic function.
	GetAtt = intrinsics.GetAtt

	// Sub represents a CloudFormation Fn::Sub intrinsic function.
	Sub = intrinsics.Sub

	// SubWithMap is Fn::Sub with a variable map.
	SubWithMap = intrinsics.SubWithMap

	// Join represents a CloudFormation Fn::Join intrinsic function.
	Join = intrinsics.Join

	// Select represents a CloudFormation Fn::Select intrinsic function.
	Select = intrinsics.Select

	// Split represents a CloudFormation Fn::Split intrinsic function.
	Split = intrinsics.Split

	// ImportValue represents a CloudFormation Fn::ImportValue intrinsic function.
	ImportValue = intrinsics.ImportValue
)

// SubIfTemplated wraps s in Fn::Sub when it carries ${...} placeholders and
// returns any other value unchanged.
//
// Constructs express ARNs of resources in the same stack as Sub strings
// ("${DemoApi.Arn}/types/Query/*"); this keeps literal ARNs literal.
func SubIfTemplated(v any) any {
	s, ok := v.(string)
	if !ok || !strings.Contains(s, "${") {
		return v
	}
	return Sub{String: s}
}
