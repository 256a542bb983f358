package forth

import (
	"errors"
	"testing"
)

func TestFragment(t *testing.T) {
	got := string(Fragment([]byte{72, 101, 108, 108, 111}))
	want := "\\ Auto-generated strike data\nCREATE STRIKE-DATA 72 , 101 , 108 , 108 , 111 , \n"
	if got != want {
		t.Errorf("Fragment =\n%q\nwant\n%q", got, want)
	}
}

func TestFragmentEmpty(t *testing.T) {
	got := string(Fragment(nil))
	want := "\\ Auto-generated strike data\nCREATE STRIKE-DATA \n"
	if got != want {
		t.Errorf("Fragment(empty) =\n%q\nwant\n%q", got, want)
	}
}

func TestDirective(t *testing.T) {
	got, err := Directive("dist/label.sub", 5)
	if err != nil {
		t.Fatalf("Directive: %v", err)
	}
	want := `s" dist/label.sub" strike-init STRIKE-DATA 5 strike-sequence strike-close bye`
	if got != want {
		t.Errorf("Directive =\n%q\nwant\n%q", got, want)
	}
}

func TestDirectiveZeroLength(t *testing.T) {
	got, err := Directive("out.sub", 0)
	if err != nil {
		t.Fatalf("Directive: %v", err)
	}
	want := `s" out.sub" strike-init STRIKE-DATA 0 strike-sequence strike-close bye`
	if got != want {
		t.Errorf("Directive = %q, want %q", got, want)
	}
}

// A destination containing the s" terminator cannot be embedded; the
// encoder rejects it rather than guessing an escaping scheme.
func TestDirectiveRejectsQuote(t *testing.T) {
	_, err := Directive(`evil" bye s" x`, 3)
	var uq *UnquotableDestinationError
	if !errors.As(err, &uq) {
		t.Fatalf("error = %T (%v), want *UnquotableDestinationError", err, err)
	}
	if uq.Destination != `evil" bye s" x` {
		t.Errorf("destination = %q", uq.Destination)
	}
}
