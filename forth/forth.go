// Package forth encodes validated strike buffers as source text for the
// external Gforth striker kernel.
//
// Two artifacts make up an invocation: a data-definition fragment declaring
// the strike buffer as a kernel-level array, and a one-line execution
// directive passed to the interpreter with -e. The package is pure text
// generation; it performs no file I/O and spawns nothing.
package forth

import (
	"fmt"
	"strings"
)

// DataWord is the kernel-level name of the array declared by each fragment.
// The directive references it by this exact name.
const DataWord = "STRIKE-DATA"

// ProgramFile is the static protocol program the kernel directory must
// contain. It defines strike-init, strike-sequence and strike-close.
const ProgramFile = "striker.fth"

const fragmentHeader = `\ Auto-generated strike data`

// UnquotableDestinationError reports a destination path that cannot be
// embedded in the directive because it contains the s" string terminator.
type UnquotableDestinationError struct {
	Destination string
}

func (e *UnquotableDestinationError) Error() string {
	return fmt.Sprintf("destination %q contains a double quote and cannot be embedded in a Forth string literal", e.Destination)
}

// Fragment renders the data-definition source for buf: a comment marker
// line followed by one CREATE line appending each byte as a decimal literal.
// One declaration per invocation; fragments never accumulate state.
func Fragment(buf []byte) []byte {
	var b strings.Builder
	b.WriteString(fragmentHeader)
	b.WriteByte('\n')
	b.WriteString("CREATE " + DataWord + " ")
	for _, v := range buf {
		fmt.Fprintf(&b, "%d , ", v)
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// Directive renders the one-line execution program: open a string literal
// holding the destination, initialize the strike, execute the declared
// array for n bytes, close, and end the session.
//
// The destination is embedded inside an s" literal whose only terminator is
// the double quote, and Forth string literals have no escape syntax. Rather
// than guess an escaping scheme the encoder rejects destinations containing
// a double quote outright.
func Directive(dest string, n int) (string, error) {
	if strings.Contains(dest, `"`) {
		return "", &UnquotableDestinationError{Destination: dest}
	}
	return fmt.Sprintf(`s" %s" strike-init %s %d strike-sequence strike-close bye`,
		dest, DataWord, n), nil
}
