// Package extract turns an uploaded file into a bounded plain-text sample for
// embedding. Plain files are read with the platform default encoding; PDFs go
// through a text extractor. The sample is capped so downstream token limits
// are never hit.
package extract

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	// ErrNoText indicates the file yielded no usable text content.
	ErrNoText = errors.New("no text content found in file")

	// ErrUnreadable indicates the file could not be read as text.
	ErrUnreadable = errors.New("file unreadable")
)

// DefaultSampleLimit caps the extracted sample at 5000 characters.
const DefaultSampleLimit = 5000

// Extractor produces bounded plain-text samples from files.
type Extractor struct {
	// SampleLimit is the maximum number of characters returned.
	SampleLimit int
}

// New creates an Extractor, filling a zero limit with the default.
func New(sampleLimit int) *Extractor {
	if sampleLimit <= 0 {
		sampleLimit = DefaultSampleLimit
	}
	return &Extractor{SampleLimit: sampleLimit}
}

// FromFile extracts a text sample from the file at path. PDF files are
// dispatched by extension; everything else is read as plain text. Returns
// ErrNoText when the result is empty or whitespace-only.
func (e *Extractor) FromFile(path string) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = e.fromPDF(path)
	default:
		text, err = e.fromPlain(path)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", ErrNoText, filepath.Base(path))
	}

	return text, nil
}

// FromReader extracts a plain-text sample from an arbitrary reader.
func (e *Extractor) FromReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	text := e.truncate(sanitizeUTF8(string(data)))
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}

	return text, nil
}

func (e *Extractor) fromPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return e.truncate(sanitizeUTF8(string(data))), nil
}

// truncate caps the sample at SampleLimit characters (runes, not bytes).
func (e *Extractor) truncate(s string) string {
	if utf8.RuneCountInString(s) <= e.SampleLimit {
		return s
	}
	runes := []rune(s)
	return string(runes[:e.SampleLimit])
}

// sanitizeUTF8 drops invalid byte sequences so the sample is always valid UTF-8.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	v := make([]rune, 0, len(s))
	for i, r := range s {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(s[i:])
			if size == 1 {
				continue
			}
		}
		v = append(v, r)
	}
	return string(v)
}
