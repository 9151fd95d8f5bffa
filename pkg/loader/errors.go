package loader

import (
	"fmt"
	"strings"
)

// SchemaError reports a file whose header matches neither known column layout.
type SchemaError struct {
	Path   string
	Header []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: unknown header [%s]", e.Path, strings.Join(e.Header, ","))
}

// RowError attaches file and line context to a row-level failure.
type RowError struct {
	Path string
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
