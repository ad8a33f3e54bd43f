// Package config resolves ocladmin settings from defaults, a YAML file and OCL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix = "OCL_"

	DefaultAPIURL  = "https://api.qa.openconceptlab.org"
	DefaultWebURL  = "https://qa.openconceptlab.org"
	DefaultTimeout = 30 * time.Second
)

type Config struct {
	APIURL         string        `yaml:"apiURL" env:"API_URL"`
	WebURL         string        `yaml:"webURL" env:"WEB_URL"`
	Timeout        time.Duration `yaml:"timeout" env:"TIMEOUT"`
	SessionFile    string        `yaml:"sessionFile" env:"SESSION_FILE"`
	AllowedSources []string      `yaml:"allowedSources" env:"ALLOWED_SOURCES" envSeparator:","`
	// MetricsFile, when set, receives the run's counters in the Prometheus text format.
	MetricsFile string `yaml:"metricsFile" env:"METRICS_FILE"`
}

func Default() Config {
	return Config{
		APIURL:         DefaultAPIURL,
		WebURL:         DefaultWebURL,
		Timeout:        DefaultTimeout,
		SessionFile:    defaultSessionFile(),
		AllowedSources: []string{"CIEL"},
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "ocladmin", "session.yaml")
}

// Load applies the file at path (optional) and then the environment on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// ParseEnv overlays OCL_* environment variables on target.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	for name, raw := range map[string]string{"api url": c.APIURL, "web url": c.WebURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s %q is not an absolute URL", name, raw))
		}
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if len(c.AllowedSources) == 0 {
		errs = append(errs, errors.New("at least one allowed source is required"))
	}
	if c.SessionFile == "" {
		errs = append(errs, errors.New("session file is required"))
	}
	return errors.Join(errs...)
}

// DictionaryURL is the web page of a dictionary given its API url.
func (c Config) DictionaryURL(apiPath string) string {
	base, err := url.Parse(c.WebURL)
	if err != nil {
		return apiPath
	}
	return base.JoinPath(apiPath).String()
}
