package services

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-coach/internal/models"
)

const docxBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Perfil Profesional</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">Desarrollador </w:t></w:r><w:r><w:t>backend</w:t></w:r></w:p>
    <w:p></w:p>
    <w:p><w:r><w:t>Go</w:t><w:tab/><w:t>SQL</w:t><w:br/><w:t>Docker</w:t></w:r></w:p>
  </w:body>
</w:document>`

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

// docxPackage wraps a document.xml body in a minimal OOXML package.
func docxPackage(t *testing.T, body string) []byte {
	t.Helper()
	return buildDOCX(t, map[string]string{
		"[Content_Types].xml": docxContentTypes,
		"word/document.xml":   body,
	})
}

func buildDOCX(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractText_DOCX(t *testing.T) {
	data := docxPackage(t, docxBody)

	text, err := NewTextExtractor().ExtractText(bytes.NewReader(data), int64(len(data)), models.FileTypeDOCX)
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	assert.Equal(t, "Perfil Profesional", lines[0])
	assert.Contains(t, lines, "Desarrollador backend")
	for _, word := range []string{"Go", "SQL", "Docker"} {
		assert.Contains(t, text, word)
	}
	assert.NotContains(t, text, "GoSQL", "tabs and breaks separate runs")
	assert.NotContains(t, text, "SQLDocker", "tabs and breaks separate runs")
}

func TestExtractText_DOCXWithoutBody(t *testing.T) {
	data := buildDOCX(t, map[string]string{
		"[Content_Types].xml": docxContentTypes,
		"word/styles.xml":     `<w:styles/>`,
	})

	_, err := NewTextExtractor().ExtractText(bytes.NewReader(data), int64(len(data)), models.FileTypeDOCX)
	assert.Error(t, err)
}

func TestExtractText_EmptyDOCX(t *testing.T) {
	data := docxPackage(t, `<w:document xmlns:w="x"><w:body><w:p></w:p></w:body></w:document>`)

	_, err := NewTextExtractor().ExtractText(bytes.NewReader(data), int64(len(data)), models.FileTypeDOCX)
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtractText_RejectsGarbage(t *testing.T) {
	garbage := []byte("definitely not a document")
	extractor := NewTextExtractor()

	_, err := extractor.ExtractText(bytes.NewReader(garbage), int64(len(garbage)), models.FileTypePDF)
	assert.Error(t, err)

	_, err = extractor.ExtractText(bytes.NewReader(garbage), int64(len(garbage)), models.FileTypeDOCX)
	assert.Error(t, err)

	_, err = extractor.ExtractText(bytes.NewReader(garbage), int64(len(garbage)), models.FileType("txt"))
	assert.Error(t, err)
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.docx")
	require.NoError(t, os.WriteFile(path, docxPackage(t, docxBody), 0o644))

	text, err := NewTextExtractor().ExtractFile(path)
	require.NoError(t, err)
	assert.Contains(t, text, "Perfil Profesional")

	_, err = NewTextExtractor().ExtractFile(filepath.Join(dir, "notes.txt"))
	assert.Error(t, err)
}

func TestFileTypeFromName(t *testing.T) {
	for name, want := range map[string]models.FileType{
		"cv.pdf":      models.FileTypePDF,
		"CV.PDF":      models.FileTypePDF,
		"resume.docx": models.FileTypeDOCX,
	} {
		got, ok := FileTypeFromName(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	for _, name := range []string{"cv.doc", "cv.txt", "cv"} {
		_, ok := FileTypeFromName(name)
		assert.False(t, ok, name)
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a\nb", CleanText("  a  \n\n\t\n b "))
}
