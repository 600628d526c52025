package builder

import (
	"errors"

	"github.com/kjstillabower/msn-weather-cache/internal/skycode"
)

// Failure classes for a run. Every error returned by BuildCache or Run matches
// exactly one of these with errors.Is, and still wraps its underlying cause.
// A failure to encode the documents counts as a file write failure.
var (
	ErrRemoteFetch  = errors.New("remote fetch failed")
	ErrUnmappedCode = skycode.ErrUnmappedCode
	ErrDateParse    = errors.New("date parse failed")
	ErrFileWrite    = errors.New("file write failed")
)

// Category returns the runErrorsTotal label for err.
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRemoteFetch):
		return "remote_fetch"
	case errors.Is(err, ErrUnmappedCode):
		return "unmapped_code"
	case errors.Is(err, ErrDateParse):
		return "date_parse"
	case errors.Is(err, ErrFileWrite):
		return "file_write"
	default:
		return "unknown"
	}
}
