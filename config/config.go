// Package config holds the YAML configuration of the takeoff tool.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/mgmeyers/pdftakeoff/export"
	"github.com/mgmeyers/pdftakeoff/overlay"
	"github.com/mgmeyers/pdftakeoff/pdfutils"
	"github.com/mgmeyers/pdftakeoff/render"
	"github.com/mgmeyers/pdftakeoff/viewport"
)

// Config is the top-level configuration.
type Config struct {
	Render  RenderConfig        `yaml:"render"`
	Fit     viewport.FitOptions `yaml:"fit"`
	Export  export.Options      `yaml:"export"`
	Overlay overlay.Style       `yaml:"overlay"`
	Persist PersistConfig       `yaml:"persist"`
	Log     LogConfig           `yaml:"log"`
	OCR     pdfutils.Tesseract  `yaml:"ocr"`
}

// RenderConfig covers page decoding and image output.
type RenderConfig struct {
	Format       string               `yaml:"format"`
	Quality      int                  `yaml:"quality"`
	ProbeTimeout time.Duration        `yaml:"probe_timeout"`
	Queue        render.QueueOptions  `yaml:"queue"`
	Viewer       render.ViewerOptions `yaml:"viewer"`
}

// PersistConfig says where annotation sets live and how long updates are
// coalesced before a write.
type PersistConfig struct {
	Dir      string        `yaml:"dir"`
	Debounce time.Duration `yaml:"debounce"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Format:       "png",
			Quality:      90,
			ProbeTimeout: 5 * time.Second,
			Queue:        render.DefaultQueueOptions(),
			Viewer:       render.DefaultViewerOptions(),
		},
		Fit:     viewport.DefaultFitOptions(),
		Export:  export.DefaultOptions(),
		Overlay: overlay.DefaultStyle(),
		Persist: PersistConfig{
			Dir:      ".takeoff",
			Debounce: 500 * time.Millisecond,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		OCR: pdfutils.Tesseract{
			Path: "tesseract",
			Lang: "eng",
		},
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads path, or returns the defaults when path is empty or
// missing.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(path)
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects values the rest of the tool cannot work with.
func (c *Config) Validate() error {
	switch c.Render.Format {
	case "png", "jpg":
	default:
		return fmt.Errorf("invalid render format %q: expected png or jpg", c.Render.Format)
	}

	if c.Render.Quality < 1 || c.Render.Quality > 100 {
		return fmt.Errorf("invalid render quality %d: expected 1-100", c.Render.Quality)
	}

	if c.Render.Viewer.DPI <= 0 {
		return fmt.Errorf("invalid render dpi %v", c.Render.Viewer.DPI)
	}

	if c.Fit.MinZoom <= 0 || c.Fit.MaxZoom < c.Fit.MinZoom {
		return fmt.Errorf("invalid fit zoom range %v-%v", c.Fit.MinZoom, c.Fit.MaxZoom)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	return nil
}

// NewLogger builds a logrus logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)

	switch l.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", l.Format)
	}

	return log, nil
}
