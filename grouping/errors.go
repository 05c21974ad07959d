package grouping

import "errors"

var (
	// ErrGroupNotFound indicates a group id that Assign did not produce.
	ErrGroupNotFound = errors.New("grouping: group not found")
	// ErrDataSetNil indicates a nil DataSet.
	ErrDataSetNil = errors.New("grouping: dataset is nil")
)
