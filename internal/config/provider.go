// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath string
		// ConfigDirPath overrides the config directory lookup when set.
		ConfigDirPath string
		// BaseDir is searched for a local config.cue when the config directory has none.
		// Defaults to the process working directory.
		BaseDir string
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	// Source reports where a loaded configuration came from.
	Source struct {
		// Path is the config file that was read; empty when only defaults apply.
		Path string
	}

	fileProvider struct{}
)

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadWithSource reads configuration and reports which file it came from.
func LoadWithSource(ctx context.Context, opts LoadOptions) (*Config, Source, error) {
	cfg, path, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, Source{}, err
	}
	return cfg, Source{Path: path}, nil
}
