package backup

import "errors"

var (
	ErrInvalidBackup      = errors.New("invalid backup data")
	ErrUnsupportedVersion = errors.New("unsupported backup version")
)
