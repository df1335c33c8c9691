// Package hostname checks candidate hostnames syntactically before any
// network call is made.
package hostname

import (
	"errors"
	"regexp"
)

// MaxLen is the longest hostname accepted, per RFC 1035 presentation limits.
const MaxLen = 253

var (
	ErrEmpty   = errors.New("hostname is empty")
	ErrTooLong = errors.New("hostname is too long")
	ErrInvalid = errors.New("hostname is invalid")
)

// one or more dot-separated labels of alphanumerics and hyphens, no label
// starting or ending with a hyphen, final label at least two letters
var pattern = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// Validate returns nil when name is a syntactically acceptable hostname.
func Validate(name string) error {
	if len(name) == 0 {
		return ErrEmpty
	}

	if len(name) > MaxLen {
		return ErrTooLong
	}

	if !pattern.MatchString(name) {
		return ErrInvalid
	}

	return nil
}
