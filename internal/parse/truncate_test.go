package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEllipsize(t *testing.T) {
	assert.Equal(t, "short", Ellipsize("short", 10))
	assert.Equal(t, "exact", Ellipsize("exact", 5))
	assert.Equal(t, "abcdefg...", Ellipsize("abcdefghijk", 10))

	long := strings.Repeat("x", 2000)
	bounded := Ellipsize(long, ValueCap)
	assert.Len(t, []rune(bounded), ValueCap)
	assert.True(t, strings.HasSuffix(bounded, "..."))
}

func TestEllipsizeMultibyte(t *testing.T) {
	// rune-measured, so multi-byte text never splits mid-character
	s := strings.Repeat("日", 10)
	out := Ellipsize(s, 8)
	assert.Equal(t, strings.Repeat("日", 5)+"...", out)
}

func TestCleanPreview(t *testing.T) {
	out := CleanPreview("  line one\nline two  ")
	assert.Equal(t, "line one line two", out)

	long := strings.Repeat("a b\n", 100)
	assert.LessOrEqual(t, len([]rune(CleanPreview(long))), PreviewCap)
}

func TestTruncateRawJSON(t *testing.T) {
	assert.Equal(t, "null", truncateRawJSON(nil, 100))
	assert.Equal(t, `{"a":1}`, truncateRawJSON([]byte(`{ "a": 1 }`), 100))

	out := truncateRawJSON([]byte(`{"key":"`+strings.Repeat("v", 100)+`"}`), 20)
	assert.Len(t, []rune(out), 20)
	assert.True(t, strings.HasSuffix(out, "..."))
}
