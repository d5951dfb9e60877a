// Package extract converts uploaded files into plain text for prompt
// assembly. Extraction is best-effort: any parse or decoding failure is
// logged and degrades to an empty result, never an error to the caller.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
	"github.com/richardlehane/mscfb"
	"github.com/sirupsen/logrus"
)

// Text dispatches on the case-insensitive filename suffix and returns the
// extracted plain text. Unknown suffixes are treated as UTF-8 text.
func Text(filename string, data []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{"file": filename, "panic": r}).Warn("text extraction panicked")
			text = ""
		}
	}()

	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = fromPDF(data)
	case ".docx":
		text, err = fromDocx(data)
	case ".msg":
		text, err = fromMsg(data)
	default:
		text, err = fromPlainText(data)
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{"file": filename}).WithError(err).Warn("text extraction failed")
		return ""
	}
	return text
}

// fromPDF concatenates the text of every page with a newline separator.
// Pages that fail to decode are skipped rather than failing the document.
func fromPDF(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf failed: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		pages = append(pages, pageText)
	}
	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}

// fromDocx extracts paragraph text and joins the non-empty paragraphs with
// newline separators.
func fromDocx(data []byte) (string, error) {
	body, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("convert docx failed: %w", err)
	}

	var paragraphs []string
	for _, line := range strings.Split(body, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}

// Outlook stores the message body of a .msg file in property-stream 1000 of
// the OLE compound document: 001F is UTF-16LE, 001E is the 8-bit fallback.
const (
	msgBodyStreamUnicode = "__substg1.0_1000001F"
	msgBodyStreamANSI    = "__substg1.0_1000001E"
)

// fromMsg parses the OLE container directly from memory; unlike file-path
// based .msg parsers this needs no temporary file.
func fromMsg(data []byte) (string, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open msg container failed: %w", err)
	}

	var ansiBody string
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		switch entry.Name {
		case msgBodyStreamUnicode:
			raw, readErr := io.ReadAll(entry)
			if readErr != nil {
				continue
			}
			return strings.TrimSpace(decodeUTF16LE(raw)), nil
		case msgBodyStreamANSI:
			if raw, readErr := io.ReadAll(entry); readErr == nil {
				ansiBody = string(raw)
			}
		}
	}
	return strings.TrimSpace(ansiBody), nil
}

// fromPlainText covers .txt and every unrecognized suffix.
func fromPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("content is not valid utf-8")
	}
	return strings.TrimSpace(string(data)), nil
}

func decodeUTF16LE(b []byte) string {
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])|uint16(b[i+1])<<8)
	}
	return string(utf16.Decode(units))
}
