package documents

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/smartstock/smartstock/internal/platform/httpx"
)

var (
	// ErrValidation indicates invalid document input.
	ErrValidation = fmt.Errorf("documents: %w", httpx.ErrValidation)
	// ErrConflict indicates a document number already in use.
	ErrConflict = fmt.Errorf("documents: number %w", httpx.ErrConflict)
	// ErrNotFound indicates the document does not exist.
	ErrNotFound = fmt.Errorf("documents: %w", httpx.ErrNotFound)
	// ErrSequenceCorrupt indicates the latest number of a series cannot be parsed.
	ErrSequenceCorrupt = errors.New("documents: corrupt sequence number")
	// ErrSequenceExhausted indicates the series has no numbers left.
	ErrSequenceExhausted = fmt.Errorf("documents: sequence exhausted: %w", httpx.ErrConflict)
	// ErrUnknownKind indicates an unsupported document kind.
	ErrUnknownKind = fmt.Errorf("documents: unknown kind: %w", httpx.ErrValidation)
)

// ValidationError lists the offending fields of a rejected document.
type ValidationError struct {
	fields map[string]string
}

func (e *ValidationError) add(field, msg string) {
	if e.fields == nil {
		e.fields = make(map[string]string)
	}
	if _, ok := e.fields[field]; !ok {
		e.fields[field] = msg
	}
}

func (e *ValidationError) empty() bool {
	return e == nil || len(e.fields) == 0
}

func (e *ValidationError) orNil() error {
	if e.empty() {
		return nil
	}
	return e
}

// Fields returns field name to message pairs.
func (e *ValidationError) Fields() map[string]string {
	return e.fields
}

// Error implements error.
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.fields[k])
	}
	return "documents: validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes ErrValidation to errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
