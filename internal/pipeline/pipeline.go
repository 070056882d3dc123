// Package pipeline runs the convert flow for one upload: save, extract text,
// ask the model for candidate fields, render the branded document, best-effort
// convert to PDF. Every file it creates lives in the temp dir and is removed
// by Artifact.Cleanup after the response is sent.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/krifyhr/resume-converter/internal/pdfconv"
	"github.com/krifyhr/resume-converter/pkg/types"
)

var unsafeNameRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// TextExtractor pulls plain text out of an uploaded file, best effort.
type TextExtractor interface {
	Text(path string) string
}

// CandidateExtractor asks the model for structured candidate fields.
type CandidateExtractor interface {
	ExtractCandidate(ctx context.Context, resumeText string) (*types.CandidateRecord, error)
}

// DocumentBuilder renders a candidate record to a Word document at outPath.
type DocumentBuilder interface {
	Build(rec types.CandidateRecord, outPath string) error
}

type Pipeline struct {
	extractor TextExtractor
	candidate CandidateExtractor
	builder   DocumentBuilder
	converter pdfconv.Converter
	tempDir   string
}

func New(extractor TextExtractor, candidate CandidateExtractor, builder DocumentBuilder, converter pdfconv.Converter, tempDir string) *Pipeline {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Pipeline{
		extractor: extractor,
		candidate: candidate,
		builder:   builder,
		converter: converter,
		tempDir:   tempDir,
	}
}

// Artifact is the finished download plus the temp files behind it.
type Artifact struct {
	Path         string
	DownloadName string

	tempFiles []string
}

// Cleanup removes every temp file the request created. Missing files are
// skipped, not errors.
func (a *Artifact) Cleanup() {
	for _, f := range a.tempFiles {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove temp file", "path", f, "error", err)
		}
	}
}

// Process runs the full convert flow for one uploaded resume. An LLM failure
// aborts; extraction and PDF conversion degrade instead of failing.
func (p *Pipeline) Process(ctx context.Context, uploadName string, upload io.Reader) (*Artifact, error) {
	logger := slog.With("component", "pipeline", "upload", uploadName)

	// Timestamp plus a short unique arm keeps concurrent requests from
	// colliding in the shared temp dir.
	stamp := time.Now().Format("20060102_150405") + "_" + uuid.New().String()[:8]

	inPath := filepath.Join(p.tempDir, fmt.Sprintf("in_%s_%s", stamp, filepath.Base(uploadName)))
	tempFiles := []string{inPath}
	if err := saveUpload(inPath, upload); err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}

	text := p.extractor.Text(inPath)
	logger.Info("extracted resume text", "length", len(text))

	rec, err := p.candidate.ExtractCandidate(ctx, text)
	if err != nil {
		cleanupFiles(tempFiles)
		return nil, err
	}

	outPath := filepath.Join(p.tempDir, fmt.Sprintf("Resume_%s_%s.docx", SafeName(rec.FullName), stamp))
	if err := p.builder.Build(*rec, outPath); err != nil {
		cleanupFiles(tempFiles)
		return nil, fmt.Errorf("document generation failed: %w", err)
	}
	tempFiles = append(tempFiles, outPath)

	finalPath := pdfconv.ConvertBestEffort(ctx, p.converter, outPath)
	if finalPath != outPath {
		tempFiles = append(tempFiles, finalPath)
	}
	logger.Info("resume converted", "artifact", filepath.Base(finalPath))

	return &Artifact{
		Path:         finalPath,
		DownloadName: filepath.Base(finalPath),
		tempFiles:    tempFiles,
	}, nil
}

// SafeName reduces a candidate name to a filesystem-safe fragment for the
// artifact filename: non-alphanumerics become underscores, capped at 30
// characters, with "Candidate" as the fallback for empty names.
func SafeName(fullName string) string {
	safe := unsafeNameRe.ReplaceAllString(fullName, "_")
	if len(safe) > 30 {
		safe = safe[:30]
	}
	if safe == "" {
		return "Candidate"
	}
	return safe
}

func saveUpload(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return err
	}
	return nil
}

func cleanupFiles(files []string) {
	(&Artifact{tempFiles: files}).Cleanup()
}
