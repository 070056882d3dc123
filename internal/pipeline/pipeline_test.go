package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krifyhr/resume-converter/internal/pdfconv"
	"github.com/krifyhr/resume-converter/pkg/types"
)

type fakeTextExtractor struct{ text string }

func (f *fakeTextExtractor) Text(path string) string { return f.text }

type fakeCandidateExtractor struct {
	rec *types.CandidateRecord
	err error
}

func (f *fakeCandidateExtractor) ExtractCandidate(ctx context.Context, resumeText string) (*types.CandidateRecord, error) {
	return f.rec, f.err
}

type fakeBuilder struct{}

func (f *fakeBuilder) Build(rec types.CandidateRecord, outPath string) error {
	return os.WriteFile(outPath, []byte("docx:"+rec.FullName), 0644)
}

type copyConverter struct{ fail bool }

func (c *copyConverter) Convert(ctx context.Context, srcPath string) (string, error) {
	if c.fail {
		return "", fmt.Errorf("converter unavailable")
	}
	pdfPath := pdfconv.PDFPath(srcPath)
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(pdfPath, data, 0644); err != nil {
		return "", err
	}
	return pdfPath, nil
}

func newTestPipeline(t *testing.T, cand *fakeCandidateExtractor, conv pdfconv.Converter) *Pipeline {
	t.Helper()
	return New(&fakeTextExtractor{text: "resume text"}, cand, &fakeBuilder{}, conv, t.TempDir())
}

func TestProcessProducesPDFArtifact(t *testing.T) {
	cand := &fakeCandidateExtractor{rec: &types.CandidateRecord{FullName: "John Smith"}}
	p := newTestPipeline(t, cand, &copyConverter{})

	artifact, err := p.Process(context.Background(), "cv.pdf", strings.NewReader("upload bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(artifact.DownloadName, "Resume_John_Smith_"), "got %q", artifact.DownloadName)
	assert.True(t, strings.HasSuffix(artifact.DownloadName, ".pdf"))

	data, err := os.ReadFile(artifact.Path)
	require.NoError(t, err)
	assert.Equal(t, "docx:John Smith", string(data))
}

func TestProcessConversionFailureFallsBackToDocx(t *testing.T) {
	cand := &fakeCandidateExtractor{rec: &types.CandidateRecord{FullName: "Jane"}}
	p := newTestPipeline(t, cand, &copyConverter{fail: true})

	artifact, err := p.Process(context.Background(), "cv.docx", strings.NewReader("upload"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(artifact.DownloadName, ".docx"))
}

func TestProcessAbortsOnAIFailure(t *testing.T) {
	cand := &fakeCandidateExtractor{err: fmt.Errorf("missing credentials")}
	dir := t.TempDir()
	p := New(&fakeTextExtractor{text: "x"}, cand, &fakeBuilder{}, &copyConverter{}, dir)

	artifact, err := p.Process(context.Background(), "cv.pdf", strings.NewReader("upload"))
	require.Error(t, err)
	assert.Nil(t, artifact)

	// The saved upload must not be left behind after an abort.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProcessCleanupRemovesAllTempFiles(t *testing.T) {
	cand := &fakeCandidateExtractor{rec: &types.CandidateRecord{FullName: "John Smith"}}
	dir := t.TempDir()
	p := New(&fakeTextExtractor{text: "x"}, cand, &fakeBuilder{}, &copyConverter{}, dir)

	artifact, err := p.Process(context.Background(), "cv.pdf", strings.NewReader("upload"))
	require.NoError(t, err)

	artifact.Cleanup()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Cleanup is idempotent; missing files are skipped.
	artifact.Cleanup()
}

func TestProcessUsesBaseOfUploadName(t *testing.T) {
	cand := &fakeCandidateExtractor{rec: &types.CandidateRecord{FullName: "X"}}
	p := newTestPipeline(t, cand, &copyConverter{})

	// Path separators in the client-supplied filename must not escape the temp dir.
	_, err := p.Process(context.Background(), "../../etc/cv.pdf", strings.NewReader("upload"))
	require.NoError(t, err)
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "John_Smith", SafeName("John Smith"))
	assert.Equal(t, "Candidate", SafeName(""))
	assert.Equal(t, "___", SafeName("!!!"))
	assert.Equal(t, strings.Repeat("a", 30), SafeName(strings.Repeat("a", 40)))
	assert.Equal(t, "O_Brien_Jos_", SafeName("O'Brien José"))
}

func TestArtifactCleanupSkipsMissing(t *testing.T) {
	a := &Artifact{tempFiles: []string{filepath.Join(t.TempDir(), "nope.docx")}}
	a.Cleanup()
}
