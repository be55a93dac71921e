package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"boardgame-rules-be/internal/pkg/apperror"
)

// MaxFileSize is the upload ceiling, matching the client's own validation.
const MaxFileSize = 10 * 1024 * 1024 // 10MB

var pdfMagic = []byte("%PDF")

// Validate checks that the payload looks like a PDF and is within the size
// ceiling before any extraction work is attempted.
func Validate(fileBytes []byte) error {
	if len(fileBytes) > MaxFileSize {
		return apperror.Validation("file exceeds the %dMB limit", MaxFileSize/(1024*1024))
	}
	if len(fileBytes) < len(pdfMagic) || !bytes.Equal(fileBytes[:len(pdfMagic)], pdfMagic) {
		return apperror.Validation("file does not appear to be a valid PDF")
	}
	return nil
}

// ExtractText pulls plain text from a PDF, page order preserved. Returns a
// validation error when the document yields no extractable text (e.g. a
// scanned image-only PDF).
func ExtractText(fileBytes []byte) (string, error) {
	if err := Validate(fileBytes); err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		return "", apperror.Validation("failed to parse PDF: %v", err)
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single malformed page should not sink the whole document.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	extracted := sb.String()
	if strings.TrimSpace(extracted) == "" {
		return "", apperror.Validation("no extractable text found in PDF")
	}

	return extracted, nil
}

// GenerateFilename builds a game-scoped storage name for an uploaded PDF.
func GenerateFilename(gameId uuid.UUID) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("game_%s_%s.pdf", gameId, timestamp)
}
