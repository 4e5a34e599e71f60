package graphvalue

import (
	"errors"
	"fmt"
)

// ErrNoPayload indicates a GraphValue was built from an absent (NULL) payload.
var ErrNoPayload = errors.New("graphvalue: payload is absent")

const maxFragment = 64

// FormatError reports a payload whose shape does not match the requested type.
type FormatError struct {
	Target  string // requested shape, e.g. "vertex"
	Payload string // offending fragment of the raw text
	Offset  int    // byte offset of the failure in the raw text
	Reason  string
}

func (e *FormatError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("graphvalue: cannot decode %q as %s", e.Payload, e.Target)
	}
	return fmt.Sprintf("graphvalue: cannot decode %q as %s at offset %d: %s", e.Payload, e.Target, e.Offset, e.Reason)
}

func formatErr(target, raw string, offset int, reason string) *FormatError {
	return &FormatError{
		Target:  target,
		Payload: fragment(raw, offset),
		Offset:  offset,
		Reason:  reason,
	}
}

// mismatch reports a payload that decoded cleanly but to the wrong kind.
func mismatch(target, raw string, got Value) *FormatError {
	return formatErr(target, raw, 0, "payload is a "+got.Kind().String())
}

// fragment returns at most maxFragment bytes of raw centred on offset.
func fragment(raw string, offset int) string {
	if len(raw) <= maxFragment {
		return raw
	}
	start := offset - maxFragment/2
	if start < 0 {
		start = 0
	}
	end := start + maxFragment
	if end > len(raw) {
		end = len(raw)
		start = end - maxFragment
	}
	return raw[start:end]
}
