package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	SourceFiles   = "files"
	SourceCatalog = "catalog"
)

type Config struct {
	Records struct {
		Dir    string `yaml:"dir"`
		Prefix string `yaml:"prefix"`
		Source string `yaml:"source"` // files or catalog
	} `yaml:"records"`
	Catalog struct {
		Path string `yaml:"path"`
	} `yaml:"catalog"`
	Output struct {
		Dir    string `yaml:"dir"`
		Text   string `yaml:"text"`
		Mirror string `yaml:"mirror"`
		HTML   string `yaml:"html"`
		Report string `yaml:"report"`
	} `yaml:"output"`
	Render struct {
		Concurrency int    `yaml:"concurrency"`
		HTMLTitle   string `yaml:"html_title"`
	} `yaml:"render"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Records.Dir = "records_yaml"
	cfg.Records.Prefix = "PT/"
	cfg.Records.Source = SourceFiles
	cfg.Catalog.Path = "fondstree.db"
	cfg.Output.Dir = "output"
	cfg.Output.Text = "archival_tree.txt"
	cfg.Output.Mirror = "arvore_diretorios"
	cfg.Output.HTML = filepath.Join("html_arvore", "index.html")
	cfg.Output.Report = "report.json"
	cfg.Render.Concurrency = 1
	return &cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config over the defaults
	cfg := Default()
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with Environment Variables if present
	if dir := os.Getenv("FONDSTREE_RECORDS_DIR"); dir != "" {
		cfg.Records.Dir = dir
	}
	if prefix := os.Getenv("FONDSTREE_PREFIX"); prefix != "" {
		cfg.Records.Prefix = prefix
	}
	if db := os.Getenv("FONDSTREE_DB"); db != "" {
		cfg.Catalog.Path = db
	}
	if out := os.Getenv("FONDSTREE_OUTPUT_DIR"); out != "" {
		cfg.Output.Dir = out
	}
	if n, err := strconv.Atoi(os.Getenv("FONDSTREE_CONCURRENCY")); err == nil {
		cfg.Render.Concurrency = n
	}

	if cfg.Render.Concurrency < 1 {
		cfg.Render.Concurrency = 1
	}
	return cfg, nil
}

func (c *Config) TextPath() string   { return c.outputPath(c.Output.Text) }
func (c *Config) MirrorPath() string { return c.outputPath(c.Output.Mirror) }
func (c *Config) HTMLPath() string   { return c.outputPath(c.Output.HTML) }
func (c *Config) ReportPath() string { return c.outputPath(c.Output.Report) }

// FromCatalog reports whether records are read from the SQLite catalog.
func (c *Config) FromCatalog() bool {
	return c.Records.Source == SourceCatalog
}

// outputPath resolves p against Output.Dir unless it is absolute.
func (c *Config) outputPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Output.Dir, p)
}
