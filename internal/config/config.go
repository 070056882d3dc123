package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults mirror the tool's original deployment.
const (
	DefaultPort           = 5003
	DefaultModel          = "llama-3.3-70b-versatile"
	DefaultGeminiModel    = "gemini-2.0-flash"
	DefaultTemperature    = 0.2
	DefaultMaxPromptChars = 4000
	DefaultLLMTimeout     = 60 * time.Second
	DefaultConvertTimeout = 90 * time.Second
)

// Duration wraps time.Duration so the YAML file can say "30s" or "2m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type LLMConfig struct {
	// Provider is "groq" or "gemini".
	Provider       string   `yaml:"provider"`
	APIKey         string   `yaml:"api_key"`
	Model          string   `yaml:"model"`
	Temperature    float32  `yaml:"temperature"`
	MaxPromptChars int      `yaml:"max_prompt_chars"`
	Timeout        Duration `yaml:"timeout"`
}

type ConverterConfig struct {
	// Binary is the LibreOffice executable used for PDF rendering.
	Binary  string   `yaml:"binary"`
	Timeout Duration `yaml:"timeout"`
}

type Config struct {
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
	TempDir   string `yaml:"temp_dir"`

	LLM       LLMConfig       `yaml:"llm"`
	Converter ConverterConfig `yaml:"converter"`

	UnidocLicenseKey string `yaml:"unidoc_license_key"`
}

// Load reads the optional YAML file at path and overlays environment
// variables on top. Environment always wins so deployments can keep secrets
// out of the file.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Port:      DefaultPort,
		StaticDir: "static",
		TempDir:   os.TempDir(),
		LLM: LLMConfig{
			Provider:       "groq",
			Model:          DefaultModel,
			Temperature:    DefaultTemperature,
			MaxPromptChars: DefaultMaxPromptChars,
			Timeout:        Duration(DefaultLLMTimeout),
		},
		Converter: ConverterConfig{
			Binary:  "soffice",
			Timeout: Duration(DefaultConvertTimeout),
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.LLM.Provider == "gemini" && cfg.LLM.Model == DefaultModel {
		cfg.LLM.Model = DefaultGeminiModel
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		c.StaticDir = v
	}
	if v := os.Getenv("TEMP_DIR"); v != "" {
		c.TempDir = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}

	switch c.LLM.Provider {
	case "gemini":
		if v := os.Getenv("GEMINI_KEY"); v != "" {
			c.LLM.APIKey = v
		}
	default:
		if v := os.Getenv("GROQ_API_KEY"); v != "" {
			c.LLM.APIKey = v
		}
	}

	if v := os.Getenv("SOFFICE_BINARY"); v != "" {
		c.Converter.Binary = v
	}
	if v := os.Getenv("UNIDOC_LICENSE_API_KEY"); v != "" {
		c.UnidocLicenseKey = v
	}
}

// Validate checks the parts that cannot degrade gracefully at runtime.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("missing LLM API key for provider %q", c.LLM.Provider)
	}
	if c.LLM.Provider != "groq" && c.LLM.Provider != "gemini" {
		return fmt.Errorf("unknown LLM provider %q", c.LLM.Provider)
	}
	return nil
}
