package batch

import "errors"

// ErrInvalidCycle is returned when the cycle grade is unknown or is a junior
// grade. It is the only error that aborts a run; bad member data never does.
var ErrInvalidCycle = errors.New("invalid cycle")
