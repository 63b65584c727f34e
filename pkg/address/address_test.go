package address

import (
	"strings"
	"testing"

	"github.com/function61/gokit/assert"
)

func TestParseRoundTrip(t *testing.T) {
	a, err := Parse("40613A45BC715AE4A34895CBDD6122E982FE3DF5")
	assert.Ok(t, err)
	assert.EqualString(t, a.String(), "40613A45BC715AE4A34895CBDD6122E982FE3DF5")
}

func TestParseLowerCase(t *testing.T) {
	a, err := Parse("0a4d55a8d778e5022fab701977c5d840bbc486d0")
	assert.Ok(t, err)
	assert.EqualString(t, a.String(), "0A4D55A8D778E5022FAB701977C5D840BBC486D0")
}

func TestParseBadLength(t *testing.T) {
	_, err := Parse(strings.Repeat("a", 39))
	assert.Assert(t, err != nil)

	_, err = Parse(strings.Repeat("a", 41))
	assert.Assert(t, err != nil)
}

func TestParseBadChar(t *testing.T) {
	_, err := Parse(strings.Repeat("a", 39) + "x")
	assert.Assert(t, err != nil)
}

func TestTryParse(t *testing.T) {
	_, ok := TryParse(strings.Repeat("a", 40))
	assert.Assert(t, ok)

	_, ok = TryParse("not a hash")
	assert.Assert(t, !ok)
}

func TestIsValidText(t *testing.T) {
	cases := map[string]bool{
		strings.Repeat("A", 40):      true,
		strings.Repeat("a", 40):      true,
		strings.Repeat("0", 40):      true,
		strings.Repeat("a", 41):      false,
		strings.Repeat("a", 39):      false,
		strings.Repeat("a", 39) + "x": false,
		" " + strings.Repeat("a", 39): false,
		strings.Repeat("a", 39) + " ": false,
	}

	for text, want := range cases {
		if got := IsValidText(text); got != want {
			t.Errorf("IsValidText(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestIsValidBytes(t *testing.T) {
	assert.Assert(t, IsValidBytes(make([]byte, 20)))
	assert.Assert(t, !IsValidBytes(make([]byte, 19)))
	assert.Assert(t, !IsValidBytes(make([]byte, 21)))
}

func TestZeroAddress(t *testing.T) {
	var a Address
	assert.Assert(t, a.IsZero())
	assert.EqualString(t, a.String(), strings.Repeat("0", 40))
}

func TestEqual(t *testing.T) {
	a, _ := Parse(strings.Repeat("a", 40))
	b, _ := Parse(strings.Repeat("a", 40))
	c, _ := Parse(strings.Repeat("b", 40))

	assert.Assert(t, a.Equal(b))
	assert.Assert(t, !a.Equal(c))
}

func TestHashStable(t *testing.T) {
	a, _ := Parse(strings.Repeat("a", 40))
	if a.Hash() != a.Hash() {
		t.Fatal("Hash() is not stable across calls")
	}
}
