// Package constraint enforces the byte policy that gates strike operations.
//
// A Policy combines an inclusive maximum byte value with a set of
// individually forbidden values, each carrying a human-readable reason.
// Both rules apply to every byte. The forbidden set is consulted before the
// max-value rule, so a value that is both forbidden and above the maximum
// reports its specific reason rather than the generic range violation.
// Validate and Scan use identical ordering, so they always agree on whether
// a buffer passes; they differ only in how much they report.
package constraint

// Default constraint values for the striker mechanism. The physical head
// can only render 7-bit values; 160 and 194 are the two multi-byte text
// artifacts most commonly smuggled in by editors.
const (
	DefaultMaxByte = 127

	forbiddenNBSP byte = 160
	forbiddenUTF8 byte = 194
)

// Policy describes which byte values may be struck onto a substrate.
// A Policy is immutable after construction.
type Policy struct {
	maxValue  byte
	forbidden map[byte]string
}

// Contaminant records a single policy violation found by an exhaustive scan.
type Contaminant struct {
	Position    int
	Value       byte
	Description string
}

// New creates a Policy with the given maximum value and forbidden set.
// The forbidden map is copied; later mutation of the argument has no effect.
func New(maxValue byte, forbidden map[byte]string) *Policy {
	f := make(map[byte]string, len(forbidden))
	for v, reason := range forbidden {
		f[v] = reason
	}
	return &Policy{maxValue: maxValue, forbidden: f}
}

// Default returns the striker's stock policy: 7-bit ASCII only, with NBSP
// and the UTF-8 continuation marker called out by name.
func Default() *Policy {
	return New(DefaultMaxByte, map[byte]string{
		forbiddenNBSP: "NBSP (Non-Breaking Space)",
		forbiddenUTF8: "UTF-8 continuation marker",
	})
}

// MaxValue returns the inclusive upper bound for legal bytes.
func (p *Policy) MaxValue() byte { return p.maxValue }

// check applies the per-byte rules in their fixed order: forbidden set
// first, then the maximum. Returns nil for a legal byte.
func (p *Policy) check(b byte, pos int) error {
	if desc, ok := p.forbidden[b]; ok {
		return &ForbiddenByteError{Position: pos, Value: b, Description: desc}
	}
	if b > p.maxValue {
		return &OutOfRangeError{Position: pos, Value: b, Limit: p.maxValue}
	}
	return nil
}

// Validate scans the buffer in order and returns the first violation as a
// typed error, without scanning further. This is the gate used before any
// physical action is taken.
func (p *Policy) Validate(buf []byte) error {
	for i, b := range buf {
		if err := p.check(b, i); err != nil {
			return err
		}
	}
	return nil
}

// Scan examines every byte and returns all violations in ascending position
// order. It never stops early and never fails: contamination here is data
// for the caller to display, not an error.
func (p *Policy) Scan(buf []byte) []Contaminant {
	var found []Contaminant
	for i, b := range buf {
		if desc, ok := p.forbidden[b]; ok {
			found = append(found, Contaminant{Position: i, Value: b, Description: desc})
			continue
		}
		if b > p.maxValue {
			found = append(found, Contaminant{
				Position:    i,
				Value:       b,
				Description: describeOutOfRange(b, p.maxValue),
			})
		}
	}
	return found
}
