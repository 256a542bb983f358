package hexdump

import (
	"strings"
	"testing"
)

func TestDumpEmpty(t *testing.T) {
	if got := Dump(nil); got != "" {
		t.Errorf("Dump(nil) = %q, want empty", got)
	}
	if got := Dump([]byte{}); got != "" {
		t.Errorf("Dump([]) = %q, want empty", got)
	}
}

func TestDumpHelloRow(t *testing.T) {
	got := Dump([]byte("Hello"))
	want := "00000000  48 65 6c 6c 6f                                    |Hello...........|"
	if got != want {
		t.Errorf("Dump(Hello) =\n%q\nwant\n%q", got, want)
	}
}

func TestDumpFullRow(t *testing.T) {
	buf := make([]byte, 16)
	for i := range buf {
		buf[i] = byte(i)
	}
	got := Dump(buf)
	want := "00000000  00 01 02 03 04 05 06 07  08 09 0a 0b 0c 0d 0e 0f  |................|"
	if got != want {
		t.Errorf("Dump(0..15) =\n%q\nwant\n%q", got, want)
	}
}

func TestDumpRowCountAndOffsets(t *testing.T) {
	buf := make([]byte, 33)
	for i := range buf {
		buf[i] = 'A'
	}
	rows := strings.Split(Dump(buf), "\n")
	if len(rows) != 3 {
		t.Fatalf("row count = %d, want 3", len(rows))
	}
	if !strings.HasPrefix(rows[0], "00000000  ") {
		t.Errorf("row 0 = %q, want 00000000 offset", rows[0])
	}
	if !strings.HasPrefix(rows[1], "00000010  ") {
		t.Errorf("row 1 = %q, want 00000010 offset", rows[1])
	}
	if !strings.HasPrefix(rows[2], "00000020  ") {
		t.Errorf("row 2 = %q, want 00000020 offset", rows[2])
	}
	// The final partial row still aligns: hex field padded, ASCII padded.
	if rows[2] != "00000020  41                                                |A...............|" {
		t.Errorf("partial row = %q", rows[2])
	}
}

func TestDumpNonPrintable(t *testing.T) {
	got := Dump([]byte{31, 32, 126, 127})
	want := "00000000  1f 20 7e 7f                                       |. ~.............|"
	if got != want {
		t.Errorf("Dump boundary bytes =\n%q\nwant\n%q", got, want)
	}
}

func TestDumpAllByteValues(t *testing.T) {
	buf := make([]byte, 256)
	for i := range buf {
		buf[i] = byte(i)
	}
	rows := strings.Split(Dump(buf), "\n")
	if len(rows) != 16 {
		t.Fatalf("row count = %d, want 16", len(rows))
	}
	for i, row := range rows {
		// offset(8) + 2 + hex(48) + 2 + |ascii(16)| = 78
		if len(row) != 78 {
			t.Errorf("row %d length = %d, want 78: %q", i, len(row), row)
		}
	}
}

func TestDumpIdempotent(t *testing.T) {
	buf := []byte("The quick brown fox jumps over the lazy dog")
	if Dump(buf) != Dump(buf) {
		t.Error("Dump is not deterministic across calls")
	}
}
