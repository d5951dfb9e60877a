package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPlainTextTrimsWhitespace(t *testing.T) {
	assert.Equal(t, "hello world", Text("notes.txt", []byte("  hello world \n")))
}

func TestTextUnknownExtensionTreatedAsText(t *testing.T) {
	assert.Equal(t, "some log line", Text("out.log", []byte("some log line")))
}

func TestTextExtensionCaseInsensitive(t *testing.T) {
	assert.Equal(t, "upper", Text("NOTES.TXT", []byte("upper")))
}

func TestTextInvalidUTF8ReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", Text("bin.txt", []byte{0xff, 0xfe, 0xfd}))
}

func TestTextEmptyData(t *testing.T) {
	assert.Equal(t, "", Text("empty.txt", nil))
}

func TestTextCorruptPDFReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", Text("broken.pdf", []byte("definitely not a pdf")))
}

func TestTextCorruptDocxReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", Text("broken.docx", []byte("not a zip archive")))
}

func TestTextCorruptMsgReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", Text("broken.msg", []byte("not an ole container")))
}

func TestTextDocxParagraphs(t *testing.T) {
	data := buildDocx(t, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Hello from Word</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	text := Text("report.docx", data)
	assert.Contains(t, text, "Hello from Word")
	assert.Contains(t, text, "Second paragraph")
}

func TestDecodeUTF16LE(t *testing.T) {
	// "Hi" as little-endian UTF-16.
	assert.Equal(t, "Hi", decodeUTF16LE([]byte{0x48, 0x00, 0x69, 0x00}))
}

func TestDecodeUTF16LEOddTrailingByteIgnored(t *testing.T) {
	assert.Equal(t, "H", decodeUTF16LE([]byte{0x48, 0x00, 0x69}))
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
