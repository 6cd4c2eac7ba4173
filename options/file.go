package options

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Argument name resolver names accepted in config files.
const (
	ArgumentNamesDeclared   = "declared"
	ArgumentNamesNormalized = "normalized"
)

// ConfigFile is the YAML form of a Config.
type ConfigFile struct {
	TrimInput     *bool  `yaml:"trim_input,omitempty"`
	MaxListIndex  *int   `yaml:"max_list_index,omitempty"`
	Locale        string `yaml:"locale,omitempty"`
	TokenTTL      string `yaml:"token_ttl,omitempty"`
	ArgumentNames string `yaml:"argument_names,omitempty"`
}

// LoadFile loads and parses a YAML config file from the given path.
func LoadFile(path string) (*ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a ConfigFile and checks its values.
func Parse(data []byte) (*ConfigFile, error) {
	var cf ConfigFile

	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if _, err := cf.Options(); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Options converts the file into options, to be passed to New before any programmatic ones.
func (cf *ConfigFile) Options() ([]Option, error) {
	if cf == nil {
		return nil, nil
	}

	var opts []Option

	if cf.TrimInput != nil {
		opts = append(opts, WithTrimInput(*cf.TrimInput))
	}

	if cf.MaxListIndex != nil {
		opts = append(opts, WithMaxListIndex(*cf.MaxListIndex))
	}

	if cf.Locale != "" {
		tag, err := language.Parse(cf.Locale)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", cf.Locale, err)
		}

		opts = append(opts, WithLocale(tag))
	}

	if cf.TokenTTL != "" {
		ttl, err := time.ParseDuration(cf.TokenTTL)
		if err != nil {
			return nil, fmt.Errorf("invalid token_ttl %q: %w", cf.TokenTTL, err)
		}

		opts = append(opts, WithTokenTTL(ttl))
	}

	switch cf.ArgumentNames {
	case "", ArgumentNamesDeclared:
	case ArgumentNamesNormalized:
		opts = append(opts, WithArgumentNames(NormalizedArgumentNames))
	default:
		return nil, fmt.Errorf("unknown argument_names %q", cf.ArgumentNames)
	}

	return opts, nil
}
