package kernel

import "fmt"

// UnavailableError reports that the kernel binary could not be located or
// executed for the availability probe. Execute raises it before any file
// is written, so a failed probe leaves no partial side effects.
type UnavailableError struct {
	Bin string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("kernel %q not found: install gforth or set kernel.bin in striker.toml", e.Bin)
}

// ExecError reports a kernel process that failed to spawn or exited
// non-zero during a run. Detail carries the spawn diagnostic or the
// trimmed process output.
type ExecError struct {
	ExitCode int // -1 when the process never started
	Detail   string
}

func (e *ExecError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("kernel execution failed: %s", e.Detail)
	}
	if e.Detail == "" {
		return fmt.Sprintf("kernel exited with status %d", e.ExitCode)
	}
	return fmt.Sprintf("kernel exited with status %d: %s", e.ExitCode, e.Detail)
}

// TimedOutError reports a run terminated because its deadline passed.
type TimedOutError struct {
	Detail string
}

func (e *TimedOutError) Error() string {
	return fmt.Sprintf("kernel run timed out: %s", e.Detail)
}

// CancelledError reports a run terminated by caller cancellation.
type CancelledError struct {
	Detail string
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("kernel run cancelled: %s", e.Detail)
}
