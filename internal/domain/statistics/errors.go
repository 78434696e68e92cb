package statistics

import "errors"

var (
	ErrRangeTooLong = errors.New("date range must not exceed 366 days")
)
