package appsync

import (
	"fmt"
	"slices"
	"strings"
)

type keyCondition interface {
	condition() string
	keyNames() []string
	args() []string
}

type binaryCondition struct {
	key, op, arg string
}

func (c binaryCondition) condition() string  { return fmt.Sprintf("#%s %s :%s", c.key, c.op, c.arg) }
func (c binaryCondition) keyNames() []string { return []string{c.key} }
func (c binaryCondition) args() []string     { return []string{c.arg} }

type beginsWith struct {
	key, arg string
}

func (c beginsWith) condition() string  { return fmt.Sprintf("begins_with(#%s, :%s)", c.key, c.arg) }
func (c beginsWith) keyNames() []string { return []string{c.key} }
func (c beginsWith) args() []string     { return []string{c.arg} }

type between struct {
	key, arg1, arg2 string
}

func (c between) condition() string {
	return fmt.Sprintf("#%s BETWEEN :%s AND :%s", c.key, c.arg1, c.arg2)
}
func (c between) keyNames() []string { return []string{c.key} }
func (c between) args() []string     { return []string{c.arg1, c.arg2} }

type and struct {
	left, right keyCondition
}

func (c and) condition() string {
	return c.left.condition() + " AND " + c.right.condition()
}
func (c and) keyNames() []string { return dedupeStrings(append(c.left.keyNames(), c.right.keyNames()...)) }
func (c and) args() []string     { return dedupeStrings(append(c.left.args(), c.right.args()...)) }

// KeyCondition is a DynamoDB key condition over Query arguments.
type KeyCondition struct {
	cond keyCondition
}

// KeyConditionEq matches keyName = arg.
func KeyConditionEq(keyName, arg string) KeyCondition {
	return KeyCondition{binaryCondition{keyName, "=", arg}}
}

// KeyConditionLt matches keyName < arg.
func KeyConditionLt(keyName, arg string) KeyCondition {
	return KeyCondition{binaryCondition{keyName, "<", arg}}
}

// KeyConditionLe matches keyName <= arg.
func KeyConditionLe(keyName, arg string) KeyCondition {
	return KeyCondition{binaryCondition{keyName, "<=", arg}}
}

// KeyConditionGt matches keyName > arg.
func KeyConditionGt(keyName, arg string) KeyCondition {
	return KeyCondition{binaryCondition{keyName, ">", arg}}
}

// KeyConditionGe matches keyName >= arg.
func KeyConditionGe(keyName, arg string) KeyCondition {
	return KeyCondition{binaryCondition{keyName, ">=", arg}}
}

// KeyConditionBeginsWith matches keys starting with arg.
func KeyConditionBeginsWith(keyName, arg string) KeyCondition {
	return KeyCondition{beginsWith{keyName, arg}}
}

// KeyConditionBetween matches arg1 <= keyName <= arg2.
func KeyConditionBetween(keyName, arg1, arg2 string) KeyCondition {
	return KeyCondition{between{keyName, arg1, arg2}}
}

// And conjoins k and other, left to right. A zero side is dropped.
func (k KeyCondition) And(other KeyCondition) KeyCondition {
	if k.cond == nil {
		return other
	}
	if other.cond == nil {
		return k
	}
	return KeyCondition{and{k.cond, other.cond}}
}

// RenderTemplate renders the "query" member of a Query request.
func (k KeyCondition) RenderTemplate() string {
	if k.cond == nil {
		return ""
	}
	names := k.cond.keyNames()
	exprNames := make([]string, len(names))
	for i, n := range names {
		exprNames[i] = fmt.Sprintf(`"#%s" : "%s"`, n, n)
	}
	args := k.cond.args()
	exprValues := make([]string, len(args))
	for i, a := range args {
		exprValues[i] = fmt.Sprintf(`":%s" : $util.dynamodb.toDynamoDBJson($ctx.args.%s)`, a, a)
	}
	return fmt.Sprintf(`"query" : {
    "expression" : "%s",
    "expressionNames" : {
      %s
    },
    "expressionValues" : {
      %s
    }
  }`, k.cond.condition(), strings.Join(exprNames, ", "), strings.Join(exprValues, ", "))
}

// Assign sets an attribute to a VTL value.
type Assign struct {
	attr string
	arg  string
}

// NewAssign assigns the VTL expression arg to attr.
func NewAssign(attr, arg string) Assign {
	return Assign{attr: attr, arg: arg}
}

// PutInMap renders the assignment as a put into the VTL map named m.
func (a Assign) PutInMap(m string) string {
	return fmt.Sprintf(`$util.qr($%s.put("%s", %s))`, m, a.attr, a.arg)
}

// RenderAsAssignment renders the assignment as a JSON member.
func (a Assign) RenderAsAssignment() string {
	return fmt.Sprintf(`"%s" : $util.dynamodb.toDynamoDBJson(%s)`, a.attr, a.arg)
}

// PartitionKeyStep picks the value of a partition key.
type PartitionKeyStep struct {
	key string
}

// Partition starts a primary key on the given partition key.
func Partition(key string) PartitionKeyStep {
	return PartitionKeyStep{key: key}
}

// Is assigns the partition key from a Query argument.
func (s PartitionKeyStep) Is(arg string) PrimaryKey {
	return PrimaryKey{pkey: NewAssign(s.key, "$ctx.args."+arg)}
}

// Auto assigns a generated ID.
func (s PartitionKeyStep) Auto() PrimaryKey {
	return PrimaryKey{pkey: NewAssign(s.key, "$util.autoId()")}
}

// SortKeyStep picks the value of a sort key.
type SortKeyStep struct {
	pkey Assign
	key  string
}

// Is assigns the sort key from a Query argument.
func (s SortKeyStep) Is(arg string) PrimaryKey {
	skey := NewAssign(s.key, "$ctx.args."+arg)
	return PrimaryKey{pkey: s.pkey, skey: &skey}
}

// Auto assigns a generated ID.
func (s SortKeyStep) Auto() PrimaryKey {
	skey := NewAssign(s.key, "$util.autoId()")
	return PrimaryKey{pkey: s.pkey, skey: &skey}
}

// PrimaryKey is a partition key and an optional sort key.
type PrimaryKey struct {
	pkey Assign
	skey *Assign
}

// Sort adds a sort key, replacing any existing one.
func (k PrimaryKey) Sort(key string) SortKeyStep {
	return SortKeyStep{pkey: k.pkey, key: key}
}

// RenderTemplate renders the "key" member of a request.
func (k PrimaryKey) RenderTemplate() string {
	assignments := []string{k.pkey.RenderAsAssignment()}
	if k.skey != nil {
		assignments = append(assignments, k.skey.RenderAsAssignment())
	}
	return fmt.Sprintf("\"key\" : {\n    %s\n  }", strings.Join(assignments, ",\n    "))
}

// AttributeValues is the set of non-key attributes written by PutItem. It
// is immutable; every Is returns a new value. The zero value projects all
// arguments.
type AttributeValues struct {
	container   string
	assignments []Assign
}

// ValuesProjecting writes every member of the arg argument, or of all
// arguments when arg is "".
func ValuesProjecting(arg string) AttributeValues {
	container := "$ctx.args"
	if arg != "" {
		container += "." + arg
	}
	return AttributeValues{container: container}
}

// ValuesAttribute starts from an empty map and assigns attr.
func ValuesAttribute(attr string) AttributeValueStep {
	return AttributeValues{container: "{}"}.Attribute(attr)
}

// Attribute adds an assignment to attr.
func (v AttributeValues) Attribute(attr string) AttributeValueStep {
	return AttributeValueStep{attr: attr, values: v}
}

// RenderVariables renders the VTL that builds $input.
func (v AttributeValues) RenderVariables() string {
	container := v.container
	if container == "" {
		container = "$ctx.args"
	}
	lines := []string{fmt.Sprintf("#set($input = %s)", container)}
	for _, a := range v.assignments {
		lines = append(lines, a.PutInMap("input"))
	}
	return strings.Join(lines, "\n")
}

// RenderTemplate renders the "attributeValues" member of a request.
func (v AttributeValues) RenderTemplate() string {
	return `"attributeValues": $util.dynamodb.toMapValuesJson($input)`
}

// AttributeValueStep picks the value of one attribute.
type AttributeValueStep struct {
	attr   string
	values AttributeValues
}

// Is assigns the VTL expression val, e.g. "$ctx.args.name".
func (s AttributeValueStep) Is(val string) AttributeValues {
	assignments := slices.Clone(s.values.assignments)
	assignments = append(assignments, NewAssign(s.attr, val))
	return AttributeValues{container: s.values.container, assignments: assignments}
}

func dedupeStrings(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
