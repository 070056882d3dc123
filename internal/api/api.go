// Package api exposes the web surface: the upload page and the convert
// endpoint. Pipeline failures never leak structured errors to the browser on
// the convert flow; the user is redirected back to the form instead.
package api

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"

	"github.com/krifyhr/resume-converter/internal/pipeline"
	"github.com/krifyhr/resume-converter/pkg/logger"
)

//go:embed templates/index.html
var templateFS embed.FS

const uploadField = "candidate_resume"

// Uploads above this are rejected before any processing.
const maxUploadBytes = 16 << 20

type Server struct {
	port     int
	pipeline *pipeline.Pipeline
	index    *template.Template
}

func NewServer(port int, p *pipeline.Pipeline) (*Server, error) {
	index, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse index template: %w", err)
	}
	return &Server{
		port:     port,
		pipeline: p,
		index:    index,
	}, nil
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("Starting resume converter server", "port", s.port)
	return http.ListenAndServe(addr, s.Routes())
}

func (s *Server) Routes() http.Handler {
	chain := func(h http.HandlerFunc, methods ...string) http.HandlerFunc {
		return RequestID(Logger(Recover(MethodChecker(methods...)(h))))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", chain(s.handleIndex, http.MethodGet))
	mux.HandleFunc("/convert", chain(s.handleConvert, http.MethodPost))
	mux.HandleFunc("/healthz", chain(s.handleHealth, http.MethodGet))
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.index.Execute(w, nil); err != nil {
		slog.Error("failed to render index page", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleConvert accepts the multipart upload and runs the pipeline. Any
// failure sends the user back to the form; only success returns a download.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		slog.Warn("no resume in upload", "error", err, "request_id", requestID)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	defer file.Close()

	artifact, err := s.pipeline.Process(r.Context(), header.Filename, file)
	if err != nil {
		slog.Error("convert request abandoned", "error", err, "request_id", requestID)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	defer artifact.Cleanup()

	f, err := os.Open(artifact.Path)
	if err != nil {
		slog.Error("artifact missing after pipeline", "error", err, "request_id", requestID)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		slog.Error("failed to stat artifact", "error", err, "request_id", requestID)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.DownloadName))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeContent(w, r, artifact.DownloadName, stat.ModTime(), f)
}

func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "err", err)
	}
}
