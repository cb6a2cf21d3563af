package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the config.yaml file.
// Settings here override the environment.
type YAMLConfig struct {
	Twitter  TwitterYAMLConfig  `yaml:"twitter"`
	Branding BrandingYAMLConfig `yaml:"branding"`
}

// TwitterYAMLConfig overrides search client settings. Credentials stay in the environment.
type TwitterYAMLConfig struct {
	BaseURL  string `yaml:"base_url,omitempty"`
	AuthMode string `yaml:"auth_mode,omitempty"` // "user" or "app"
	Timeout  string `yaml:"timeout,omitempty"`   // Go duration, e.g. "5s"
}

// BrandingYAMLConfig overrides site branding.
type BrandingYAMLConfig struct {
	Title   string `yaml:"title,omitempty"`
	Tagline string `yaml:"tagline,omitempty"`
	Footer  string `yaml:"footer,omitempty"`
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyYAML overrides fields set in the YAML file. A nil YAMLConfig is a no-op.
func (c *Config) ApplyYAML(y *YAMLConfig) error {
	if y == nil {
		return nil
	}

	if y.Twitter.BaseURL != "" {
		c.TwitterBaseURL = y.Twitter.BaseURL
	}
	if y.Twitter.AuthMode != "" {
		c.TwitterAuthMode = y.Twitter.AuthMode
	}
	if y.Twitter.Timeout != "" {
		d, err := time.ParseDuration(y.Twitter.Timeout)
		if err != nil {
			return err
		}
		c.TwitterTimeout = d
	}

	if y.Branding.Title != "" {
		c.SiteTitle = y.Branding.Title
	}
	if y.Branding.Tagline != "" {
		c.SiteTagline = y.Branding.Tagline
	}
	if y.Branding.Footer != "" {
		c.SiteFooter = y.Branding.Footer
	}
	return nil
}
