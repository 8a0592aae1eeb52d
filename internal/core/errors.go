package core

import "errors"

// Error kinds shared across the module. Callers wrap them with fmt.Errorf("%w")
// and test with errors.Is.
var (
	// ErrDomain reports input outside the mathematical domain of an operation,
	// such as a flat elevation range or a world without plates.
	ErrDomain = errors.New("domain error")
	// ErrInvalidArgument reports malformed parameters such as an unknown view
	// mode or simulation kind.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrExternal wraps an opaque failure raised by the tectonics engine, the
	// finalization library or a simulation.
	ErrExternal = errors.New("external engine error")
)
