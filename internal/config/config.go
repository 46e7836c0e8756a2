package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TimezoneEnv is the process-wide timezone setting consumed by components
// that need a timestamp context (feeds). The core render pass ignores it.
const TimezoneEnv = "RENDER_ENGINE_TIMEZONE"

// Config carries the site-wide settings. Each Site gets its own instance,
// constructed by Default and optionally overlaid from a YAML file.
type Config struct {
	Title        string `yaml:"title,omitempty"`
	URL          string `yaml:"url,omitempty"`
	OutputDir    string `yaml:"output_directory,omitempty"`
	StaticDir    string `yaml:"static_directory,omitempty"`
	TemplatesDir string `yaml:"templates_directory,omitempty"`
	CacheFile    string `yaml:"cache_file,omitempty"`
	Strict       bool   `yaml:"strict,omitempty"`
	Minify       bool   `yaml:"minify,omitempty"`
	Timezone     string `yaml:"timezone,omitempty"`

	Collections []CollectionConf `yaml:"collections,omitempty"`
}

// CollectionConf declares one collection in the site configuration file.
type CollectionConf struct {
	Title          string     `yaml:"title"`
	ContentPath    string     `yaml:"content_path,omitempty"`
	Includes       []string   `yaml:"includes,omitempty"`
	Template       string     `yaml:"template,omitempty"`
	Routes         []string   `yaml:"routes,omitempty"`
	HasArchive     bool       `yaml:"has_archive,omitempty"`
	ArchiveTmpl    string     `yaml:"archive_template,omitempty"`
	ArchiveSlug    string     `yaml:"archive_slug,omitempty"`
	ArchiveReverse bool       `yaml:"archive_reverse,omitempty"`
	Subcollections []string   `yaml:"subcollections,omitempty"`
	Feeds          []FeedConf `yaml:"feeds,omitempty"`
}

// FeedConf declares one feed attached to a collection.
type FeedConf struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
}

// Default returns a fresh configuration. Callers must not share the result
// across sites.
func Default() *Config {
	return &Config{
		Title:        "Untitled Site",
		URL:          "https://example.com",
		OutputDir:    "output",
		StaticDir:    "static",
		TemplatesDir: "templates",
		CacheFile:    ".routes_cache",
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment overrides, in that order. A missing file is not an error.
func Load(configpath string) (*Config, error) {
	cfg := Default()

	if configpath == "" {
		configpath = "renderengine.yaml"
	}

	if _, err := os.Stat(configpath); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("could not access configuration file %s: %w", configpath, err)
		}
	} else {
		f, err := os.Open(configpath)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("could not decode configuration file %s: %w", configpath, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("RENDER_ENGINE_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("RENDER_ENGINE_CACHE_FILE"); v != "" {
		cfg.CacheFile = v
	}
	if v := os.Getenv(TimezoneEnv); v != "" {
		cfg.Timezone = v
	}
}

// SetupTimezone publishes the effective timezone name process-wide,
// defaulting to the host's local zone when not configured.
func (c *Config) SetupTimezone() {
	tz := c.Timezone
	if tz == "" {
		tz = time.Now().Location().String()
	}
	os.Setenv(TimezoneEnv, tz)
}
