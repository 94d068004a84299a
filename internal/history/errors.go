package history

import (
	"errors"
	"fmt"
)

// ErrNoValidData is returned when ingestion leaves zero usable records. It is
// fatal for the request: callers must stop and ask for a new upload.
var ErrNoValidData = errors.New("no valid listening-history files found")

// ErrEmptySelection marks a filter or selection that matched nothing. It is
// recoverable and scoped to the view that produced it.
var ErrEmptySelection = errors.New("no data for this selection")

// InvalidFileError describes a candidate file that was dropped from a batch.
type InvalidFileError struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

func (e *InvalidFileError) Error() string {
	return fmt.Sprintf("invalid history file %q: %s", e.File, e.Reason)
}

// MalformedTimestampError is fatal for the whole batch.
type MalformedTimestampError struct {
	Index int
	Value string
	Err   error
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("record %d: malformed timestamp %q: %v", e.Index, e.Value, e.Err)
}

func (e *MalformedTimestampError) Unwrap() error {
	return e.Err
}
