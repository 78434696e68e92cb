package attendance

import "errors"

var (
	ErrDailyStatusNotFound = errors.New("daily work status not found")
	ErrResetNotConfirmed   = errors.New("reset must be explicitly confirmed")
	ErrStatusNotComputed   = errors.New("daily work status could not be computed")
	ErrInvalidRounding     = errors.New("penalty rounding minutes must be greater than zero")
)
