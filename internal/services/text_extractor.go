package services

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv/v2"
	"github.com/ledongthuc/pdf"

	"alfredoptarigan/cv-coach/internal/models"
)

var ErrNoText = errors.New("no text content found in document")

// TextExtractor pulls plain text out of uploaded CVs.
type TextExtractor interface {
	ExtractText(r io.ReaderAt, size int64, fileType models.FileType) (string, error)
	ExtractFile(path string) (string, error)
}

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

// FileTypeFromName maps a file name to a supported CV format.
func FileTypeFromName(name string) (models.FileType, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return models.FileTypePDF, true
	case ".docx":
		return models.FileTypeDOCX, true
	default:
		return "", false
	}
}

func (t *textExtractor) ExtractText(r io.ReaderAt, size int64, fileType models.FileType) (string, error) {
	var (
		text string
		err  error
	)

	switch fileType {
	case models.FileTypePDF:
		text, err = extractPDF(r, size)
	case models.FileTypeDOCX:
		text, err = extractDOCX(r, size)
	default:
		return "", fmt.Errorf("unsupported file type: %s", fileType)
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func (t *textExtractor) ExtractFile(path string) (string, error) {
	fileType, ok := FileTypeFromName(path)
	if !ok {
		return "", fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return t.ExtractText(f, info.Size(), fileType)
}

func extractPDF(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// skip unreadable pages
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

// extractDOCX converts the main document part, plus headers and footers, to
// text. docconv expects a well-formed package, so the parts it dereferences
// are checked first.
func extractDOCX(r io.ReaderAt, size int64) (string, error) {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}

	parts := make(map[string]bool, len(archive.File))
	for _, f := range archive.File {
		parts[f.Name] = true
	}
	for _, required := range []string{"[Content_Types].xml", "word/document.xml"} {
		if !parts[required] {
			return "", fmt.Errorf("failed to open DOCX: %s not found", required)
		}
	}

	text, _, err := docconv.ConvertDocx(io.NewSectionReader(r, 0, size))
	if err != nil {
		return "", fmt.Errorf("failed to parse DOCX body: %w", err)
	}

	return text, nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(text, "\n")
	cleanedLines := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
