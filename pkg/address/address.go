// Package address implements the 20-byte SHA-1 content address used
// throughout the store: parsing and formatting its hex text form, and the
// validation rules every other package relies on to assume a well-formed
// Address in memory.
package address

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// Size is the length of an Address in bytes.
const Size = 20

// TextSize is the length of an Address's hex text form.
const TextSize = Size * 2

// ErrBadLength is returned by Parse/FromBytes when the input is not
// exactly the expected length (40 hex chars / 20 bytes).
var ErrBadLength = errors.New("address: wrong length")

// ErrBadChar is returned by Parse when the input contains a non-hex
// character.
var ErrBadChar = errors.New("address: invalid hex character")

// Zero is the all-zero address. It has no special meaning to the store
// itself (there is no object stored at Zero unless the all-zero-byte
// stream happens to hash to it, which it does not for SHA-1); it exists
// only as the default value of an Address variable.
var Zero Address

// Address is a 20-byte SHA-1 content digest. The zero value is the
// all-zero address. Every Address value that exists is well-formed:
// construction is the only place length is checked, so callers never
// need to re-validate one they already hold.
type Address [Size]byte

// Parse decodes a 40-character hex string (either case) into an Address.
func Parse(text string) (Address, error) {
	var a Address
	if len(text) != TextSize {
		return a, fmt.Errorf("%w: got %d chars, want %d", ErrBadLength, len(text), TextSize)
	}
	decoded, err := hex.DecodeString(text)
	if err != nil {
		return a, fmt.Errorf("%w: %v", ErrBadChar, err)
	}
	copy(a[:], decoded)
	return a, nil
}

// TryParse is the non-throwing variant of Parse.
func TryParse(text string) (Address, bool) {
	a, err := Parse(text)
	if err != nil {
		return Address{}, false
	}
	return a, true
}

// IsValidText reports whether text has the exact shape Parse requires:
// 40 characters, every one a hex digit. No leading/trailing whitespace is
// tolerated.
func IsValidText(text string) bool {
	if len(text) != TextSize {
		return false
	}
	for _, c := range text {
		if !isHexChar(c) {
			return false
		}
	}
	return true
}

// IsValidBytes reports whether b has the length required of an Address.
func IsValidBytes(b []byte) bool {
	return len(b) == Size
}

// FromBytes copies b into a new Address. b must be exactly Size bytes.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if !IsValidBytes(b) {
		return a, fmt.Errorf("%w: got %d bytes, want %d", ErrBadLength, len(b), Size)
	}
	copy(a[:], b)
	return a, nil
}

// String returns the upper-case hex text form of a, always exactly 40
// characters. Implements fmt.Stringer.
func (a Address) String() string {
	return fmt.Sprintf("%X", a[:])
}

// Bytes returns a's underlying bytes as a freshly allocated slice.
func (a Address) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, a[:])
	return b
}

// Equal reports whether a and other hold the same bytes.
func (a Address) Equal(other Address) bool {
	return a == other
}

// IsZero reports whether a is the all-zero address.
func (a Address) IsZero() bool {
	return a == Zero
}

// Hash returns a process-stable FNV-1a hash of a, suitable for use as a
// map key's secondary hash or in any context that wants an int-sized
// digest rather than the full 20 bytes. It is not a security primitive.
func (a Address) Hash() uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for _, b := range a {
		h ^= uint64(b)
		h *= prime64
	}
	return h
}

func isHexChar(c rune) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	default:
		return false
	}
}
