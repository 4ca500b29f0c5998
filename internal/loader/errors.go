package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRecords indicates a source produced neither ownerships nor parentships.
	ErrNoRecords = errors.New("source has no records")

	// ErrUnknownKind indicates a source kind with no implementation.
	ErrUnknownKind = errors.New("unknown source kind")

	// ErrInvalidRecord indicates a row that could not be turned into a record.
	ErrInvalidRecord = errors.New("invalid record")
)

// RecordError locates a bad row in a source.
type RecordError struct {
	Source string
	Line   int
	Err    error
}

func (e *RecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// IsRecordError reports whether err came from a malformed row.
func IsRecordError(err error) bool {
	var re *RecordError
	return errors.As(err, &re)
}
