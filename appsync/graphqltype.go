package appsync

import (
	"fmt"
)

// Type is the kind of value a GraphqlType holds.
type Type string

const (
	TypeID      Type = "ID"
	TypeString  Type = "String"
	TypeInt     Type = "Int"
	TypeFloat   Type = "Float"
	TypeBoolean Type = "Boolean"

	TypeAWSDate      Type = "AWSDate"
	TypeAWSTime      Type = "AWSTime"
	TypeAWSDateTime  Type = "AWSDateTime"
	TypeAWSTimestamp Type = "AWSTimestamp"
	TypeAWSEmail     Type = "AWSEmail"
	TypeAWSJSON      Type = "AWSJSON"
	TypeAWSURL       Type = "AWSURL"
	TypeAWSPhone     Type = "AWSPhone"
	TypeAWSIPAddress Type = "AWSIPAddress"

	// TypeIntermediate refers to a user-defined intermediate type by name.
	TypeIntermediate Type = "INTERMEDIATE"
)

// BaseTypeOptions are the list and nullability modifiers of a type reference.
type BaseTypeOptions struct {
	// IsList renders the type as [T].
	IsList bool
	// IsRequired renders the element as T!.
	IsRequired bool
	// IsRequiredList renders the list as [T]! and implies IsList.
	IsRequiredList bool
}

// GraphqlTypeOptions configures NewGraphqlType.
type GraphqlTypeOptions struct {
	BaseTypeOptions
	// IntermediateType is required when the type is TypeIntermediate.
	IntermediateType IIntermediateType
}

// IField is a typed reference with list and nullability modifiers, usable as
// a field return type or an argument type.
type IField interface {
	Type() Type
	IsList() bool
	IsRequired() bool
	IsRequiredList() bool
	IntermediateType() IIntermediateType
	String() string
	ArgsToString() string
	DirectivesToString(modes []AuthorizationType) string
	FieldOptions() *ResolvableFieldOptions
}

// GraphqlType is a reference to a scalar or intermediate type. It is an
// immutable value.
type GraphqlType struct {
	typ              Type
	isList           bool
	isRequired       bool
	isRequiredList   bool
	intermediateType IIntermediateType
}

// NewGraphqlType returns a type reference. It fails when t is TypeIntermediate
// and no intermediate type is given.
func NewGraphqlType(t Type, opts GraphqlTypeOptions) (GraphqlType, error) {
	if t == TypeIntermediate && isNilType(opts.IntermediateType) {
		return GraphqlType{}, ErrMissingIntermediateType
	}
	if t == "" {
		return GraphqlType{}, fmt.Errorf("graphql type: %w: type", ErrMissingRequiredField)
	}
	return GraphqlType{
		typ:              t,
		isList:           opts.IsList || opts.IsRequiredList,
		isRequired:       opts.IsRequired,
		isRequiredList:   opts.IsRequiredList,
		intermediateType: opts.IntermediateType,
	}, nil
}

func scalar(t Type, opts []BaseTypeOptions) GraphqlType {
	var o BaseTypeOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return GraphqlType{
		typ:            t,
		isList:         o.IsList || o.IsRequiredList,
		isRequired:     o.IsRequired,
		isRequiredList: o.IsRequiredList,
	}
}

// ID is a unique identifier scalar.
func ID(opts ...BaseTypeOptions) GraphqlType { return scalar(TypeID, opts) }

// String is a UTF-8 character sequence.
func String(opts ...BaseTypeOptions) GraphqlType { return scalar(TypeString, opts) }

// Int is a signed 32-bit integer.
func Int(opts ...BaseTypeOptions) GraphqlType { return scalar(TypeInt, opts) }

// Float is a signed double-precision value.
func Float(opts ...BaseTypeOptions) GraphqlType { return scalar(TypeFloat, opts) }

// Boolean is true or false.
func Boolean(opts ...BaseTypeOptions) GraphqlType { return scalar(TypeBoolean, opts) }

// AWSDate is an extended ISO 8601 date, YYYY-MM-DD.
func AWSDate(opts ...BaseTypeOptions) GraphqlType { return scalar(TypeAWSDate, opts) }

// AWSTime is an extended ISO 8601 time, hh:mm:ss.sss.
func AWSTime(opts ...BaseTypeOptions) GraphqlType { return scalar(TypeAWSTime, opts) }

// AWSDateTime is an extended ISO 8601 date and time.
func AWSDateTime(opts ...BaseTypeOptions) GraphqlType { return scalar(TypeAWSDateTime, opts) }

// AWSTimestamp is the number of seconds since the Unix epoch.
func AWSTimestamp(opts ...BaseTypeOptions) GraphqlType { return scalar(TypeAWSTimestamp, opts) }

// AWSEmail is an RFC 822 email address.
func AWSEmail(opts ...BaseTypeOptions) GraphqlType { return scalar(TypeAWSEmail, opts) }

// AWSJSON is a JSON string.
func AWSJSON(opts ...BaseTypeOptions) GraphqlType { return scalar(TypeAWSJSON, opts) }

// AWSURL is an RFC 1738 URL.
func AWSURL(opts ...BaseTypeOptions) GraphqlType { return scalar(TypeAWSURL, opts) }

// AWSPhone is a phone number.
func AWSPhone(opts ...BaseTypeOptions) GraphqlType { return scalar(TypeAWSPhone, opts) }

// AWSIPAddress is an IPv4 or IPv6 address.
func AWSIPAddress(opts ...BaseTypeOptions) GraphqlType { return scalar(TypeAWSIPAddress, opts) }

// Intermediate references a user-defined type.
func Intermediate(t IIntermediateType, opts ...BaseTypeOptions) (GraphqlType, error) {
	var o BaseTypeOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return NewGraphqlType(TypeIntermediate, GraphqlTypeOptions{BaseTypeOptions: o, IntermediateType: t})
}

func (g GraphqlType) Type() Type                          { return g.typ }
func (g GraphqlType) IsList() bool                        { return g.isList }
func (g GraphqlType) IsRequired() bool                    { return g.isRequired }
func (g GraphqlType) IsRequiredList() bool                { return g.isRequiredList }
func (g GraphqlType) IntermediateType() IIntermediateType { return g.intermediateType }

// String renders the type reference, e.g. "[Demo!]!".
func (g GraphqlType) String() string {
	name := string(g.typ)
	if g.typ == TypeIntermediate && g.intermediateType != nil {
		name = g.intermediateType.Name()
	}
	if g.isRequired {
		name += "!"
	}
	if g.isList || g.isRequiredList {
		name = "[" + name + "]"
	}
	if g.isRequiredList {
		name += "!"
	}
	return name
}

// ArgsToString is empty: a bare type reference has no arguments.
func (g GraphqlType) ArgsToString() string { return "" }

// DirectivesToString is empty: a bare type reference has no directives.
func (g GraphqlType) DirectivesToString([]AuthorizationType) string { return "" }

// FieldOptions is nil for a bare type reference.
func (g GraphqlType) FieldOptions() *ResolvableFieldOptions { return nil }
