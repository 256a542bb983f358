package constraint

import "fmt"

// OutOfRangeError reports a byte above the policy's maximum value.
type OutOfRangeError struct {
	Position int
	Value    byte
	Limit    byte
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("byte %d at position %d exceeds limit (%d)", e.Value, e.Position, e.Limit)
}

// ForbiddenByteError reports a byte matching a specifically banned value.
type ForbiddenByteError struct {
	Position    int
	Value       byte
	Description string
}

func (e *ForbiddenByteError) Error() string {
	return fmt.Sprintf("forbidden byte %d (0x%02X) at position %d: %s",
		e.Value, e.Value, e.Position, e.Description)
}

func describeOutOfRange(b, limit byte) string {
	return fmt.Sprintf("Non-ASCII (0x%02X > %d)", b, limit)
}
