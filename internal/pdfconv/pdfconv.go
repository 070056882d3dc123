// Package pdfconv renders Word documents to PDF through an external converter.
package pdfconv

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Converter produces a PDF rendering of a source document, returning the path
// of the produced file. Tests substitute deterministic fakes.
type Converter interface {
	Convert(ctx context.Context, srcPath string) (string, error)
}

// LibreOffice shells out to soffice in headless mode. The PDF lands next to
// the source file with the extension swapped.
type LibreOffice struct {
	binary  string
	timeout time.Duration
}

func NewLibreOffice(binary string, timeout time.Duration) *LibreOffice {
	if binary == "" {
		binary = "soffice"
	}
	return &LibreOffice{binary: binary, timeout: timeout}
}

func (l *LibreOffice) Convert(ctx context.Context, srcPath string) (string, error) {
	outDir := filepath.Dir(srcPath)

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, l.binary, "--headless", "--convert-to", "pdf", "--outdir", outDir, srcPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s failed: %w, output: %s", l.binary, err, strings.TrimSpace(string(output)))
	}

	pdfPath := PDFPath(srcPath)
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("expected PDF not found at %s", pdfPath)
	}
	return pdfPath, nil
}

// ConvertBestEffort attempts the conversion and falls back to the original
// document on any failure. Conversion trouble is logged, never fatal.
func ConvertBestEffort(ctx context.Context, conv Converter, srcPath string) string {
	pdfPath, err := conv.Convert(ctx, srcPath)
	if err != nil {
		slog.Warn("PDF conversion failed, returning original document",
			"path", filepath.Base(srcPath), "error", err)
		return srcPath
	}
	return pdfPath
}

// PDFPath swaps the source extension for .pdf, keeping the base name.
func PDFPath(srcPath string) string {
	return strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + ".pdf"
}
