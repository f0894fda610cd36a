package appsync

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDefinition matches every *InvalidDefinitionError.
	ErrInvalidDefinition = errors.New("invalid definition")

	// ErrMissingIntermediateType is returned when an INTERMEDIATE GraphqlType has no intermediate type.
	ErrMissingIntermediateType = errors.New("intermediate type is required for INTERMEDIATE graphql types")

	// ErrMissingRequiredField is returned when a required construct property is absent.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidAuthorization is returned for an inconsistent authorization configuration.
	ErrInvalidAuthorization = errors.New("invalid authorization config")

	// ErrInvalidResolver is returned for resolver or function settings AppSync rejects.
	ErrInvalidResolver = errors.New("invalid resolver")

	// ErrDuplicateID is returned when two constructs claim the same logical ID.
	ErrDuplicateID = errors.New("duplicate construct id")
)

// InvalidDefinitionError reports an intermediate type or field that violates
// the contract of its variant.
type InvalidDefinitionError struct {
	TypeName  string
	FieldName string
	Reason    string
}

func (e *InvalidDefinitionError) Error() string {
	if e.FieldName != "" {
		return fmt.Sprintf("invalid definition of %s.%s: %s", e.TypeName, e.FieldName, e.Reason)
	}
	return fmt.Sprintf("invalid definition of %s: %s", e.TypeName, e.Reason)
}

// Is reports whether target is ErrInvalidDefinition.
func (e *InvalidDefinitionError) Is(target error) bool {
	return target == ErrInvalidDefinition
}

func invalidDefinition(typeName, fieldName, format string, args ...any) error {
	return &InvalidDefinitionError{
		TypeName:  typeName,
		FieldName: fieldName,
		Reason:    fmt.Sprintf(format, args...),
	}
}

func missingField(construct, field string) error {
	return fmt.Errorf("%s: %w: %s", construct, ErrMissingRequiredField, field)
}
