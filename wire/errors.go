package wire

import (
	"errors"
	"fmt"
)

var (
	errNameOffset   = errors.New("name offset out of bounds")
	errNameLabel    = errors.New("name label out of bounds")
	errNamePointer  = errors.New("compression pointer out of range")
	errNameJumps    = errors.New("too many compression jumps")
	errShortRecord   = errors.New("record header out of bounds")
	errShortRData    = errors.New("rdata out of bounds")
	errShortQuestion = errors.New("question fixed fields out of bounds")
)

// HeaderError reports a message whose fixed 12 byte header could not be
// decoded.
type HeaderError struct {
	Size int
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("message too short for header, %d bytes", e.Size)
}

// CountMismatchError reports disagreement between the answer count the
// caller declared and the count the message header carries.
type CountMismatchError struct {
	Declared int
	Header   int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("declared answer count %d, header reports %d", e.Declared, e.Header)
}

// QuestionError reports a decode failure on the question entry at Index
// while walking to the answer section.
type QuestionError struct {
	Index int
	Err   error
}

func (e *QuestionError) Error() string {
	return fmt.Sprintf("question entry %d: %v", e.Index, e.Err)
}

func (e *QuestionError) Unwrap() error { return e.Err }

// RecordError reports a decode failure on the answer record at Index.
// The whole parse is abandoned, no partial record set is returned.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("answer record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
