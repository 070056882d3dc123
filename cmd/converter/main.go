package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/unidoc/unioffice/common/license"

	"github.com/krifyhr/resume-converter/internal/api"
	"github.com/krifyhr/resume-converter/internal/config"
	"github.com/krifyhr/resume-converter/internal/docgen"
	"github.com/krifyhr/resume-converter/internal/extract"
	"github.com/krifyhr/resume-converter/internal/llm"
	"github.com/krifyhr/resume-converter/internal/pdfconv"
	"github.com/krifyhr/resume-converter/internal/pipeline"
	"github.com/krifyhr/resume-converter/pkg/logger"
)

func main() {
	logger.Setup()

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	configPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if cfg.UnidocLicenseKey != "" {
		if err := license.SetMeteredKey(cfg.UnidocLicenseKey); err != nil {
			slog.Error("Failed to set unidoc license key", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Warn("No unidoc license key configured; document generation may be watermarked or fail")
	}

	completer, closeFn, err := buildCompleter(cfg)
	if err != nil {
		slog.Error("Failed to create LLM client", "error", err)
		os.Exit(1)
	}
	if closeFn != nil {
		defer closeFn()
	}

	pipe := pipeline.New(
		extract.New(),
		llm.NewExtractor(completer, cfg.LLM.MaxPromptChars, cfg.LLM.Timeout.Std()),
		docgen.NewBuilder(cfg.StaticDir),
		pdfconv.NewLibreOffice(cfg.Converter.Binary, cfg.Converter.Timeout.Std()),
		cfg.TempDir,
	)

	server, err := api.NewServer(cfg.Port, pipe)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	slog.Info("Resume converter initialized",
		"port", cfg.Port,
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model)

	if err := server.Start(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func buildCompleter(cfg *config.Config) (llm.Completer, func(), error) {
	switch cfg.LLM.Provider {
	case "gemini":
		client, err := llm.NewGeminiClient(context.Background(), cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Temperature)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	default:
		return llm.NewGroqClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Temperature), nil, nil
	}
}
