package propertypath

import "errors"

var (
	ErrArgumentRequired  = errors.New("argument required")
	ErrInvalidPathShape  = errors.New("not a property path selector")
	ErrNonPropertyMember = errors.New("path contains a non property member")
	ErrDepthOutOfRange   = errors.New("depth out of range")
	ErrIncompatibleValue = errors.New("value not assignable to property")
)
