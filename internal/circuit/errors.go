package circuit

import "errors"

var (
	ErrOutOfRange       = errors.New("cell out of range")
	ErrMissingPairing   = errors.New("CNOT drop requires a control pairing")
	ErrColumnNotAllowed = errors.New("target must be in the control's column")
	ErrSameQubit        = errors.New("target must be on a different qubit than the control")
	ErrNoSelection      = errors.New("no CNOT control selected")
	ErrSelectionPending = errors.New("finish or cancel the CNOT target selection first")
	ErrOrphanTarget     = errors.New("CNOT target has no control in its column")
	ErrRunInProgress    = errors.New("simulation already running")
)
