// Package document turns uploaded resume files into plain text.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"
)

// Supported MIME types.
const (
	MIMEPlain = "text/plain"
	MIMEPDF   = "application/pdf"
	MIMEDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrUnreadableFormat is returned for documents whose text cannot be extracted.
var ErrUnreadableFormat = errors.New("unreadable document format")

// Detect returns the sniffed MIME type of data without parameters.
func Detect(data []byte) string {
	m := mimetype.Detect(data)
	for p := m; p != nil; p = p.Parent() {
		switch {
		case p.Is(MIMEPDF):
			return MIMEPDF
		case p.Is(MIMEDOCX):
			return MIMEDOCX
		case p.Is(MIMEPlain):
			return MIMEPlain
		}
	}
	mime, _, _ := strings.Cut(m.String(), ";")
	return mime
}

// Extract returns the text of a PDF, DOCX or plain text document. The format is
// sniffed from the content; name is only used in error messages.
func Extract(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%s: empty document: %w", name, ErrUnreadableFormat)
	}

	mime := Detect(data)
	switch mime {
	case MIMEPlain:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%s: text is not valid UTF-8: %w", name, ErrUnreadableFormat)
		}
		return string(data), nil
	case MIMEPDF:
		text, err := extractPDF(data)
		if err != nil {
			return "", fmt.Errorf("%s: %v: %w", name, err, ErrUnreadableFormat)
		}
		return text, nil
	case MIMEDOCX:
		text, err := extractDOCX(data)
		if err != nil {
			return "", fmt.Errorf("%s: %v: %w", name, err, ErrUnreadableFormat)
		}
		return text, nil
	}

	if strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%s: %s needs OCR which is not supported: %w", name, mime, ErrUnreadableFormat)
	}
	return "", fmt.Errorf("%s: unsupported file type %s: %w", name, mime, ErrUnreadableFormat)
}

// ExtractOrEmpty is Extract that degrades to empty text. The failure is logged.
func ExtractOrEmpty(name string, data []byte, logger *zap.Logger) string {
	text, err := Extract(name, data)
	if err != nil {
		if logger != nil {
			logger.Warn("could not extract document text", zap.String("document", name), zap.Error(err))
		}
		return ""
	}
	return text
}

func extractPDF(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	return paragraphs(doc.Editable().GetContent()), nil
}

// paragraphs converts the raw document XML into text with one line per paragraph.
func paragraphs(content string) string {
	var b strings.Builder
	inTag := false
	var tag strings.Builder

	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
			tag.Reset()
		case r == '>' && inTag:
			inTag = false
			name := tag.String()
			switch {
			case name == "/w:p", name == "w:br", name == "w:br/", strings.HasPrefix(name, "w:br "):
				b.WriteString("\n")
			case name == "w:tab", name == "w:tab/":
				b.WriteString("\t")
			}
		case inTag:
			tag.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}

	return unescapeXML(b.String())
}

var xmlUnescaper = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")

func unescapeXML(s string) string {
	return xmlUnescaper.Replace(s)
}

// ReadAll extracts text from r.
func ReadAll(name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return Extract(name, data)
}
