// Package config loads the hopdb configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"hopdb/internal/aroma"
	"hopdb/pkg/utils"
)

// Source kinds.
const (
	KindBarthHaas    = "barthhaas"
	KindCrosby       = "crosby"
	KindHopsteiner   = "hopsteiner"
	KindYakimaValley = "yakimavalley"
	KindYakimaChief  = "yakimachief"
	KindMirror       = "mirror"
	KindCSV          = "csv"
)

// Configuration validation errors.
var (
	ErrNoSources            = errors.New("at least one source is required")
	ErrNoEnabledSources     = errors.New("at least one source must be enabled")
	ErrSourceMissingID      = errors.New("source id is required")
	ErrSourceMissingKind    = errors.New("source kind is required")
	ErrDuplicateSourceID    = errors.New("source id must be unique")
	ErrSourceMissingTarget  = errors.New("source needs a url or a file")
	ErrInvalidIndent        = errors.New("output.indent must be between 0 and 8")
	ErrMissingOutputPath    = errors.New("output.json_path is required")
	ErrInvalidTimeout       = errors.New("http.timeout_sec must be at least 1")
	ErrInvalidRetries       = errors.New("http.retries must be non-negative")
	ErrInvalidMaxWorkers    = errors.New("http.max_workers must be at least 1")
	ErrInvalidLogMode       = errors.New("logging.mode must be development or production")
	ErrInvalidTaxonomyLabel = errors.New("taxonomy label table is invalid")
)

// Config is the complete hopdb configuration.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
	HTTP     HTTPConfig     `yaml:"http"`
	Sources  []SourceConfig `yaml:"sources"`
	Taxonomy TaxonomyConfig `yaml:"taxonomy"`
	Mirror   MirrorConfig   `yaml:"mirror"`
}

// OutputConfig controls where a run writes its results.
type OutputConfig struct {
	JSONPath string `yaml:"json_path"`
	RawPath  string `yaml:"raw_path"`
	DBPath   string `yaml:"db_path"`
	Indent   int    `yaml:"indent"`
}

type LoggingConfig struct {
	Mode string `yaml:"mode"`
}

// HTTPConfig is shared by every network adapter.
type HTTPConfig struct {
	TimeoutSec  int    `yaml:"timeout_sec"`
	Retries     int    `yaml:"retries"`
	RetryWaitMs int    `yaml:"retry_wait_ms"`
	UserAgent   string `yaml:"user_agent"`
	MaxWorkers  int    `yaml:"max_workers"`
}

func (h HTTPConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSec) * time.Second
}

func (h HTTPConfig) RetryWait() time.Duration {
	return time.Duration(h.RetryWaitMs) * time.Millisecond
}

// SourceConfig describes one supplier. Kind selects the adapter.
type SourceConfig struct {
	ID       string   `yaml:"id"`
	Kind     string   `yaml:"kind"`
	Name     string   `yaml:"name"`
	URL      string   `yaml:"url"`
	URLs     []string `yaml:"urls"`
	File     string   `yaml:"file"`
	Vendor   string   `yaml:"vendor"`
	Disabled bool     `yaml:"disabled"`
}

// Enabled reports whether the source takes part in runs.
func (s SourceConfig) Enabled() bool { return !s.Disabled }

// Targets returns URL followed by URLs, skipping blanks.
func (s SourceConfig) Targets() []string {
	var out []string
	if s.URL != "" {
		out = append(out, s.URL)
	}
	for _, u := range s.URLs {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// TaxonomyConfig extends the built-in aroma and name tables.
type TaxonomyConfig struct {
	Aliases map[string]string   `yaml:"aliases"`
	Labels  []aroma.SourceTable `yaml:"labels"`
}

type MirrorConfig struct {
	Addr    string `yaml:"addr"`
	DataDir string `yaml:"data_dir"`
	BaseURL string `yaml:"base_url"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			JSONPath: "data/hops.json",
			RawPath:  "data/raw_hops.json",
			DBPath:   "data/hopdb.sqlite",
			Indent:   4,
		},
		Logging: LoggingConfig{Mode: "development"},
		HTTP: HTTPConfig{
			TimeoutSec:  30,
			Retries:     3,
			RetryWaitMs: 500,
			UserAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			MaxWorkers:  10,
		},
		Sources: []SourceConfig{
			{
				ID:   aroma.SourceYakimaChief,
				Kind: KindYakimaChief,
				Name: "Yakima Chief Hops",
				URLs: []string{
					"https://www.yakimachief.com/commercial/hop-varieties.html?product_list_limit=all",
					"https://www.yakimachief.eu/commercial/hop-varieties.html?product_list_limit=all",
				},
			},
			{
				ID:   aroma.SourceBarthHaas,
				Kind: KindBarthHaas,
				Name: "Barth Haas",
				URL:  "https://www.barthhaas.com/hops-and-products/hop-varieties-overview",
			},
			{
				ID:   aroma.SourceHopsteiner,
				Kind: KindHopsteiner,
				Name: "Hopsteiner",
				File: "data/hopsteiner_raw_data.json",
			},
			{
				ID:   aroma.SourceCrosby,
				Kind: KindCrosby,
				Name: "Crosby Hops",
				URL:  "https://www.crosbyhops.com/shop-hops/hop-catalog/",
			},
			{
				ID:     aroma.SourceYakimaValley,
				Kind:   KindYakimaValley,
				Name:   "Yakima Valley Hops",
				URL:    "https://lb19fj.a.searchspring.io/api/search/search.json",
				Vendor: "Yakima Valley Hops",
			},
		},
		Mirror: MirrorConfig{
			Addr:    ":9000",
			DataDir: "data/mirror",
		},
	}
}

// Load reads path, merges an optional "<name>.local.<ext>" file over it,
// applies environment overrides and defaults, then validates.
func Load(path string) (*Config, error) {
	cfg, err := readLayered(path)
	if err != nil {
		return nil, err
	}

	cfg.applyEnv(utils.LoadEnvOverrides())
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when neither the
// file nor its local override exists.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		cfg.applyEnv(utils.LoadEnvOverrides())
		cfg.applyDefaults()
		return cfg, cfg.Validate()
	}
	return cfg, err
}

func localPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

func readLayered(path string) (*Config, error) {
	var out Config
	found := false

	base, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(base) > 0 {
		if err := yaml.Unmarshal(base, &out); err != nil {
			return nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
		}
		found = true
	}

	local, err := os.ReadFile(localPath(path))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read local config file: %w", err)
	}
	if len(local) > 0 {
		var override Config
		if err := yaml.Unmarshal(local, &override); err != nil {
			return nil, fmt.Errorf("failed to parse YAML %s: %w", localPath(path), err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge local config: %w", err)
		}
		found = true
	}

	if !found {
		return nil, fmt.Errorf("config %s: %w", path, os.ErrNotExist)
	}
	return &out, nil
}

func (c *Config) applyEnv(env utils.EnvOverrides) {
	if env.DBPath != "" {
		c.Output.DBPath = env.DBPath
	}
	if env.OutputPath != "" {
		c.Output.JSONPath = env.OutputPath
	}
	if env.RawPath != "" {
		c.Output.RawPath = env.RawPath
	}
	if env.LogMode != "" {
		c.Logging.Mode = env.LogMode
	}
	if env.MirrorAddr != "" {
		c.Mirror.Addr = env.MirrorAddr
	}
	if env.MirrorDataDir != "" {
		c.Mirror.DataDir = env.MirrorDataDir
	}
	if env.MaxWorkers > 0 {
		c.HTTP.MaxWorkers = env.MaxWorkers
	}
}

// applyDefaults fills zero values from Default. Sources are left alone.
func (c *Config) applyDefaults() {
	d := Default()
	d.Sources = nil
	_ = mergo.Merge(c, d)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSources
	}

	seen := make(map[string]bool, len(c.Sources))
	enabled := 0
	for i, src := range c.Sources {
		if strings.TrimSpace(src.ID) == "" {
			return fmt.Errorf("%w: sources[%d]", ErrSourceMissingID, i)
		}
		if strings.TrimSpace(src.Kind) == "" {
			return fmt.Errorf("%w: sources[%d] (%s)", ErrSourceMissingKind, i, src.ID)
		}
		if seen[src.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateSourceID, src.ID)
		}
		seen[src.ID] = true
		if len(src.Targets()) == 0 && src.File == "" && src.Kind != KindMirror {
			return fmt.Errorf("%w: %s", ErrSourceMissingTarget, src.ID)
		}
		if src.Enabled() {
			enabled++
		}
	}
	if enabled == 0 {
		return ErrNoEnabledSources
	}

	if c.Output.JSONPath == "" {
		return ErrMissingOutputPath
	}
	if c.Output.Indent < 0 || c.Output.Indent > 8 {
		return ErrInvalidIndent
	}
	if c.HTTP.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}
	if c.HTTP.Retries < 0 {
		return ErrInvalidRetries
	}
	if c.HTTP.MaxWorkers < 1 {
		return ErrInvalidMaxWorkers
	}

	switch strings.ToLower(c.Logging.Mode) {
	case "dev", "development", "prod", "production":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogMode, c.Logging.Mode)
	}

	if _, err := c.Taxonomy.Build(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTaxonomyLabel, err)
	}
	return nil
}

// Build returns the built-in taxonomy extended with the configured labels.
func (t TaxonomyConfig) Build() (*aroma.Taxonomy, error) {
	base := aroma.Default()
	if len(t.Labels) == 0 {
		return base, nil
	}
	return base.Extend(t.Labels)
}

// Source returns the source with the given id.
func (c *Config) Source(id string) (SourceConfig, bool) {
	for _, s := range c.Sources {
		if s.ID == id {
			return s, true
		}
	}
	return SourceConfig{}, false
}
