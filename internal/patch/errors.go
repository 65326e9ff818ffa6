package patch

import "errors"

// Error variables for patch operations.
var (
	ErrConfigParse      = errors.New("unable to parse config")
	ErrMissingInput     = errors.New("input does not exist")
	ErrSlotOutOfRange   = errors.New("preferred index out of range")
	ErrInvalidPageSize  = errors.New("page size must be positive")
	ErrNotADirectory    = errors.New("not a directory")
	ErrEmptyFullPath    = errors.New("full_path cannot be empty")
	ErrMissingField     = errors.New("missing required field")
	ErrDuplicateEntries = errors.New("duplicate full_path")
	ErrUnsafeName       = errors.New("not a plain file name")
)
