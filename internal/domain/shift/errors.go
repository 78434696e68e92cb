package shift

import "errors"

var (
	ErrShiftNotFound   = errors.New("shift not found")
	ErrShiftNameExists = errors.New("shift with this name already exists")
	ErrNoActiveShift   = errors.New("no active shift selected")
	ErrInvalidClock    = errors.New("invalid clock value, use HH:MM")
)
