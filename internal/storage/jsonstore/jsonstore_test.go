package jsonstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetWritesOneFilePerKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := New(dir)

	require.NoError(t, s.Set("todoItems", "[]"))

	b, err := os.ReadFile(filepath.Join(dir, "todoItems.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestInvalidKeys(t *testing.T) {
	s := New(t.TempDir())
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, s.Set(key, "x"), "key %q", key)
		_, _, err := s.Get(key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestNewDefaultsToCurrentDir(t *testing.T) {
	assert.Equal(t, ".", New("").Dir)
}
