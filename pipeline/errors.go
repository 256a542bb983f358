package pipeline

import "fmt"

// IOError wraps a filesystem failure encountered by a pipeline operation.
// It is fatal to the operation that triggered it.
type IOError struct {
	Op   string // "read", "write", "mkdir", "stat", "remove"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("file operation failed: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
