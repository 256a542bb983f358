// Package hexdump renders byte buffers in the canonical preview format.
//
// The same rendering is used before a strike (preview) and after one
// (verify), so the user can visually diff intent against what is physically
// present. The column layout is a locked contract: downstream tooling
// diff-compares rows byte for byte.
package hexdump

import (
	"fmt"
	"strings"
)

const bytesPerRow = 16

// hex field width: 16 two-digit pairs, 15 separators, plus the extra
// mid-row space = 48.
const hexFieldWidth = 48

// Dump formats buf as newline-joined rows of 16 bytes. Each row carries the
// zero-padded 8-digit offset of its first byte, the bytes as lowercase hex
// pairs with an extra space before the 9th, and a 16-character ASCII column
// between vertical bars. Bytes outside [32,126] and the unused tail of a
// partial final row render as '.'. Empty input yields the empty string.
func Dump(buf []byte) string {
	if len(buf) == 0 {
		return ""
	}

	var rows []string
	for off := 0; off < len(buf); off += bytesPerRow {
		end := off + bytesPerRow
		if end > len(buf) {
			end = len(buf)
		}
		rows = append(rows, formatRow(off, buf[off:end]))
	}
	return strings.Join(rows, "\n")
}

func formatRow(offset int, chunk []byte) string {
	var hex strings.Builder
	for j, b := range chunk {
		if j > 0 {
			hex.WriteByte(' ')
		}
		if j == 8 {
			hex.WriteByte(' ')
		}
		fmt.Fprintf(&hex, "%02x", b)
	}

	var ascii [bytesPerRow]byte
	for j := range ascii {
		ascii[j] = '.'
	}
	for j, b := range chunk {
		if b >= 32 && b <= 126 {
			ascii[j] = b
		}
	}

	return fmt.Sprintf("%08x  %-*s  |%s|", offset, hexFieldWidth, hex.String(), ascii[:])
}
