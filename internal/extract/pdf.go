package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxPDFPages bounds how many pages are scanned for the sample. The sample
// cap is reached long before this on any text-bearing document.
const maxPDFPages = 100

func (e *Extractor) fromPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	totalPages := reader.NumPage()
	if totalPages == 0 {
		return "", fmt.Errorf("%w: PDF has no pages", ErrNoText)
	}
	if totalPages > maxPDFPages {
		totalPages = maxPDFPages
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Pages that fail extraction are skipped rather than failing
			// the whole document.
			continue
		}
		sb.WriteString(text)
		sb.WriteByte('\n')

		if sb.Len() >= e.SampleLimit*4 {
			break
		}
	}

	return e.truncate(sanitizeUTF8(sb.String())), nil
}
