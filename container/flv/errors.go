package flv

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNeedMoreData is the suspend outcome: the current structure is
// incomplete but not malformed. Append more input and call Next again;
// no demuxer state is lost.
var ErrNeedMoreData = errors.New("flv: need more data")

// Fatal error kinds. A ParseError wraps exactly one of these, so
// callers can match with errors.Is or errors.Cause.
var (
	ErrMalformedHeader  = errors.New("flv: malformed file header")
	ErrUnknownTagType   = errors.New("flv: unknown tag type")
	ErrTruncatedPayload = errors.New("flv: truncated tag payload")
	ErrPayloadOverrun   = errors.New("flv: payload decoder overran data size")
	ErrAmfDecode        = errors.New("flv: script data decode error")

	// ErrPrevTagSize is only fatal under Options.StrictPrevTagSize;
	// otherwise a mismatched back-pointer is logged and skipped.
	ErrPrevTagSize = errors.New("flv: previous tag size mismatch")
)

// ParseError is the fatal outcome of a decode step. Once returned, the
// demuxer yields no further tags. Offset is the absolute byte offset at
// which the failing structure was found.
type ParseError struct {
	Kind   error
	Offset uint64
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v at offset %d: %s", e.Kind, e.Offset, e.Detail)
	}
	return fmt.Sprintf("%v at offset %d", e.Kind, e.Offset)
}

func (e *ParseError) Unwrap() error { return e.Kind }

// Cause implements the pkg/errors causer interface.
func (e *ParseError) Cause() error { return e.Kind }
