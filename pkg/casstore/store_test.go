package casstore

import (
	"os"
	"testing"

	"github.com/function61/gokit/assert"
)

func TestNewCreatesRoot(t *testing.T) {
	root := t.TempDir() + "/nested/store"

	s, err := New(root, nil)
	assert.Ok(t, err)
	assert.EqualString(t, s.Root(), root)

	info, err := os.Stat(root)
	assert.Ok(t, err)
	assert.Assert(t, info.IsDir())
}

func TestNewRejectsEmptyRoot(t *testing.T) {
	_, err := New("", nil)
	assert.Assert(t, err != nil)
}
