package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krifyhr/resume-converter/internal/pipeline"
	"github.com/krifyhr/resume-converter/pkg/types"
)

type stubTextExtractor struct{}

func (stubTextExtractor) Text(path string) string { return "resume text" }

type stubCandidateExtractor struct {
	rec *types.CandidateRecord
	err error
}

func (s stubCandidateExtractor) ExtractCandidate(ctx context.Context, resumeText string) (*types.CandidateRecord, error) {
	return s.rec, s.err
}

type stubBuilder struct{}

func (stubBuilder) Build(rec types.CandidateRecord, outPath string) error {
	return os.WriteFile(outPath, []byte("rendered "+rec.FullName), 0644)
}

type failingConverter struct{}

func (failingConverter) Convert(ctx context.Context, srcPath string) (string, error) {
	return "", fmt.Errorf("no converter in tests")
}

func newTestServer(t *testing.T, cand stubCandidateExtractor) *Server {
	t.Helper()
	p := pipeline.New(stubTextExtractor{}, cand, stubBuilder{}, failingConverter{}, t.TempDir())
	s, err := NewServer(0, p)
	require.NoError(t, err)
	return s
}

func uploadRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/convert", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t, stubCandidateExtractor{rec: &types.CandidateRecord{}})

	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "candidate_resume")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestConvertReturnsDownload(t *testing.T) {
	cand := stubCandidateExtractor{rec: &types.CandidateRecord{
		FullName:          "John Smith",
		ProfessionalTitle: "Java Developer",
	}}
	s := newTestServer(t, cand)

	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, uploadRequest(t, "candidate_resume", "cv.pdf", "raw pdf bytes"))

	assert.Equal(t, http.StatusOK, rr.Code)
	disposition := rr.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "attachment")
	assert.Contains(t, disposition, "Resume_John_Smith_")
	// The failing converter means the fallback docx artifact is served.
	assert.True(t, strings.HasSuffix(disposition, `.docx"`), "got %q", disposition)
	assert.Equal(t, "rendered John Smith", rr.Body.String())
}

func TestConvertMissingFileRedirects(t *testing.T) {
	s := newTestServer(t, stubCandidateExtractor{rec: &types.CandidateRecord{}})

	req := httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(""))
	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

func TestConvertAIFailureRedirects(t *testing.T) {
	s := newTestServer(t, stubCandidateExtractor{err: fmt.Errorf("model unavailable")})

	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, uploadRequest(t, "candidate_resume", "cv.pdf", "bytes"))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

func TestConvertWrongFieldNameRedirects(t *testing.T) {
	s := newTestServer(t, stubCandidateExtractor{rec: &types.CandidateRecord{}})

	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, uploadRequest(t, "wrong_field", "cv.pdf", "bytes"))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestConvertRejectsGet(t *testing.T) {
	s := newTestServer(t, stubCandidateExtractor{rec: &types.CandidateRecord{}})

	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/convert", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Contains(t, rr.Body.String(), "Method Not Allowed")
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, stubCandidateExtractor{rec: &types.CandidateRecord{}})

	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}
