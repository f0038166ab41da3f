package homoglyph

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedEncoding is returned for an unknown bitmap encoding.
	ErrUnsupportedEncoding = errors.New("unsupported bitmap encoding")

	// ErrInvalidSize is returned when the render size is not positive.
	ErrInvalidSize = errors.New("render size must be positive")

	// ErrInvalidDomain is returned for a codepoint range outside the codespace.
	ErrInvalidDomain = errors.New("invalid codepoint domain")

	// ErrFinalized is returned when an aggregator is used after Finalize.
	ErrFinalized = errors.New("aggregator already finalized")

	// ErrDuplicateFont is returned when the same font is aggregated twice.
	ErrDuplicateFont = errors.New("font already aggregated")
)

// RenderError reports a single codepoint that could not be rendered. It is
// never fatal: the indexer counts it and treats the codepoint as empty.
//
// The underlying error (if any) can be accessed via errors.Unwrap.
type RenderError struct {
	Codepoint rune
	Font      string
	Size      int
	cause     error
}

// NewRenderError wraps cause for codepoint r of the named font.
func NewRenderError(font string, size int, r rune, cause error) *RenderError {
	return &RenderError{Codepoint: r, Font: font, Size: size, cause: cause}
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("render U+%04X with %s at size %d", e.Codepoint, e.Font, e.Size)
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *RenderError) Unwrap() error { return e.cause }

// AlignmentError reports a co-occurrence table whose labels cannot be
// reconciled with the canonical label set. It aborts aggregation.
//
// The underlying error (if any) can be accessed via errors.Unwrap.
type AlignmentError struct {
	Font   string
	Reason string
	cause  error
}

// NewAlignmentError builds an AlignmentError for the named font.
func NewAlignmentError(font, reason string, cause error) *AlignmentError {
	return &AlignmentError{Font: font, Reason: reason, cause: cause}
}

func (e *AlignmentError) Error() string {
	msg := fmt.Sprintf("align %s: %s", e.Font, e.Reason)
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *AlignmentError) Unwrap() error { return e.cause }
