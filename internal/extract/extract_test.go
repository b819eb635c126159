package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtractor_PlainText(t *testing.T) {
	path := writeTestFile(t, "doc.txt", "The quick brown fox jumps over the lazy dog")

	e := New(0)
	text, err := e.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "The quick brown fox jumps over the lazy dog", text)
}

func TestExtractor_SampleLimit(t *testing.T) {
	content := strings.Repeat("abcdefghij", 1000) // 10000 chars
	path := writeTestFile(t, "big.txt", content)

	e := New(5000)
	text, err := e.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, utf8.RuneCountInString(text))
	assert.True(t, strings.HasPrefix(content, text))
}

func TestExtractor_SampleLimitRunes(t *testing.T) {
	// Multi-byte characters count as one character each.
	content := strings.Repeat("é", 20)
	path := writeTestFile(t, "unicode.txt", content)

	e := New(10)
	text, err := e.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10, utf8.RuneCountInString(text))
}

func TestExtractor_EmptyFile(t *testing.T) {
	path := writeTestFile(t, "empty.txt", "")

	e := New(0)
	_, err := e.FromFile(path)
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtractor_WhitespaceOnly(t *testing.T) {
	path := writeTestFile(t, "blank.txt", "   \n\t  \n")

	e := New(0)
	_, err := e.FromFile(path)
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtractor_MissingFile(t *testing.T) {
	e := New(0)
	_, err := e.FromFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestExtractor_InvalidUTF8Sanitized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binaryish.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello \xff\xfe world"), 0644))

	e := New(0)
	text, err := e.FromFile(path)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(text))
	assert.Contains(t, text, "hello")
	assert.Contains(t, text, "world")
}

func TestExtractor_InvalidPDF(t *testing.T) {
	path := writeTestFile(t, "fake.pdf", "this is not a pdf")

	e := New(0)
	_, err := e.FromFile(path)
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestExtractor_FromReader(t *testing.T) {
	e := New(100)
	text, err := e.FromReader(strings.NewReader("reader content"))
	require.NoError(t, err)
	assert.Equal(t, "reader content", text)

	_, err = e.FromReader(strings.NewReader("  "))
	assert.ErrorIs(t, err, ErrNoText)
}

func TestNew_Defaults(t *testing.T) {
	assert.Equal(t, DefaultSampleLimit, New(0).SampleLimit)
	assert.Equal(t, 123, New(123).SampleLimit)
}
