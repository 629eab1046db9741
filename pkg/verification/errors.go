package verification

import (
	"errors"
	"fmt"
	"strings"
)

// TypeErrorKind classifies construction and conversion failures.
type TypeErrorKind string

const (
	// UnbuildableRequest: the builder held no usable facet.
	UnbuildableRequest TypeErrorKind = "unbuildable_request"

	// UnbuildableAddressArray: an address was started but required fields are missing.
	UnbuildableAddressArray TypeErrorKind = "unbuildable_address_array"

	// AmbiguousTryFromValue: a bare string could not be classified.
	AmbiguousTryFromValue TypeErrorKind = "ambiguous_try_from_value"

	// InvalidDuration: a processing time was negative or not finite.
	InvalidDuration TypeErrorKind = "invalid_duration"
)

// Sentinels for errors.Is. A *TypeError matches the sentinel of its Kind.
var (
	ErrUnbuildableRequest = errors.New("no email, phone or buildable address provided")
	ErrUnbuildableAddress = errors.New("street address is missing required fields")
	ErrAmbiguousValue     = errors.New("value is not recognisably an email, phone number or request")
	ErrInvalidDuration    = errors.New("invalid processing duration")
	ErrNoMatchingShape    = errors.New("payload matches no known shape")
)

// TypeError reports a value that could not be turned into a verification type.
type TypeError struct {
	Kind TypeErrorKind
	// Value is the offending input, when there is a single one.
	Value string
	// Missing lists required address fields that were blank.
	Missing []string
}

func (e *TypeError) Error() string {
	switch e.Kind {
	case UnbuildableRequest:
		return ErrUnbuildableRequest.Error()
	case UnbuildableAddressArray:
		if len(e.Missing) == 0 {
			return ErrUnbuildableAddress.Error()
		}
		return fmt.Sprintf("%s: %s", ErrUnbuildableAddress, strings.Join(e.Missing, ", "))
	case AmbiguousTryFromValue:
		return fmt.Sprintf("%s: %q", ErrAmbiguousValue, e.Value)
	case InvalidDuration:
		return fmt.Sprintf("%s: %s", ErrInvalidDuration, e.Value)
	default:
		return fmt.Sprintf("verification type error [%s]", e.Kind)
	}
}

// Is lets errors.Is match a *TypeError against the sentinel for its kind.
func (e *TypeError) Is(target error) bool {
	switch target {
	case ErrUnbuildableRequest:
		return e.Kind == UnbuildableRequest
	case ErrUnbuildableAddress:
		return e.Kind == UnbuildableAddressArray
	case ErrAmbiguousValue:
		return e.Kind == AmbiguousTryFromValue
	case ErrInvalidDuration:
		return e.Kind == InvalidDuration
	}
	return false
}

func unbuildableRequest() *TypeError {
	return &TypeError{Kind: UnbuildableRequest}
}

func unbuildableAddress(missing []string) *TypeError {
	return &TypeError{Kind: UnbuildableAddressArray, Missing: missing}
}

func ambiguous(value string) *TypeError {
	return &TypeError{Kind: AmbiguousTryFromValue, Value: value}
}

// ShapeError reports a payload that conformed to no candidate shape.
type ShapeError struct {
	// Target names the union being decoded, e.g. "verification request".
	Target string
	// Attempts holds one failure per candidate whose keys were present.
	Attempts []error
}

func (e *ShapeError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("%s: %s", e.Target, ErrNoMatchingShape)
	}
	return fmt.Sprintf("%s: %s: %v", e.Target, ErrNoMatchingShape, errors.Join(e.Attempts...))
}

func (e *ShapeError) Unwrap() error {
	return ErrNoMatchingShape
}
