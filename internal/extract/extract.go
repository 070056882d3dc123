// Package extract turns uploaded resume files into plain text.
//
// Extraction is best effort by policy: a corrupt or unreadable file yields an
// empty string and a log line, never an error the handler has to deal with.
// Downstream stages are expected to tolerate empty text.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/unidoc/unioffice/document"

	"github.com/krifyhr/resume-converter/internal/cleaner"
)

var clean = cleaner.NewCleaner()

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Text extracts plain text from the file at path, picking the reader from the
// file extension. Anything that is not a PDF, HTML or plain-text file is
// treated as a word-processor document. On any failure it logs and returns "".
func (e *Extractor) Text(path string) string {
	text, err := e.extract(path)
	if err != nil {
		slog.Error("text extraction failed", "path", filepath.Base(path), "error", err)
		return ""
	}
	return strings.TrimSpace(text)
}

func (e *Extractor) extract(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".html", ".htm":
		return extractHTML(path)
	case ".txt":
		return extractPlain(path)
	default:
		return extractDocx(path)
	}
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var text strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			text.WriteString("\n")
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single bad page should not sink the whole document.
			pageText = ""
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}
	return text.String(), nil
}

func extractDocx(path string) (string, error) {
	doc, err := document.Open(path)
	if err != nil {
		// unioffice needs a license key at runtime; fall back to reading the
		// docx zip directly so extraction keeps working without one.
		slog.Debug("unioffice open failed, using zip fallback", "path", filepath.Base(path), "error", err)
		return extractDocxZip(path)
	}
	defer doc.Close()

	var text strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			text.WriteString(run.Text())
		}
		text.WriteString("\n")
	}
	return text.String(), nil
}

// extractDocxZip reads word/document.xml out of the docx archive and collects
// the contents of every <w:t> element, one paragraph per line.
func extractDocxZip(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}
	defer zr.Close()

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("word/document.xml not found in docx")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	var sb strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "t":
				var content string
				if err := decoder.DecodeElement(&content, &se); err == nil {
					sb.WriteString(content)
				}
			case "p":
				sb.WriteString("\n")
			}
		}
	}
	return sb.String(), nil
}

func extractHTML(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return clean.CleanHTML(string(data)), nil
}

func extractPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
