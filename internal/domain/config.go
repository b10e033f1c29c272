package domain

import (
	"fmt"
	"strconv"
)

const (
	DefaultContactThreshold = 4.5
	DefaultClashThreshold   = 2.0
	DefaultCoefficient      = "000"
	DefaultUniProtURL       = "https://rest.uniprot.org/uniprotkb"
	DefaultTopRows          = 20
	DefaultRemoteAlignment  = AlignmentECL1
)

// ValidationConfig carries every tunable of a validation run. It is passed
// explicitly to the validator and the batch driver.
type ValidationConfig struct {
	ContactThreshold   float64 `yaml:"contact_threshold"   json:"contact_threshold"`
	ClashThreshold     float64 `yaml:"clash_threshold"     json:"clash_threshold"`
	FindMinClash       bool    `yaml:"find_min_clash"      json:"find_min_clash"`
	NTerminalCutoff    int     `yaml:"n_terminal_cutoff"   json:"n_terminal_cutoff"`
	DefaultCoefficient string  `yaml:"default_coefficient" json:"default_coefficient"`
	AlignmentRegion    string  `yaml:"alignment_region"    json:"alignment_region,omitempty"`
	Workers            int     `yaml:"workers"             json:"workers"`
	Top                int     `yaml:"top"                 json:"top"`
}

// UniProtSettings configures the remote topology provider.
type UniProtSettings struct {
	BaseURL  string `yaml:"base_url"  json:"base_url"`
	CacheDir string `yaml:"cache_dir" json:"cache_dir,omitempty"`
	NoCache  bool   `yaml:"no_cache"  json:"no_cache,omitempty"`
}

// Settings is the full effective configuration of the tool.
type Settings struct {
	Validation ValidationConfig `yaml:"validation" json:"validation"`
	UniProt    UniProtSettings  `yaml:"uniprot"    json:"uniprot"`
}

// ConfigOverrides holds values read from .dockcheck.yaml.
// Pointer types distinguish "not specified" from zero values.
type ConfigOverrides struct {
	ContactThreshold   *float64 `yaml:"contact_threshold,omitempty"   json:"contact_threshold,omitempty"`
	ClashThreshold     *float64 `yaml:"clash_threshold,omitempty"     json:"clash_threshold,omitempty"`
	FindMinClash       *bool    `yaml:"find_min_clash,omitempty"      json:"find_min_clash,omitempty"`
	NTerminalCutoff    *int     `yaml:"n_terminal_cutoff,omitempty"   json:"n_terminal_cutoff,omitempty"`
	DefaultCoefficient *string  `yaml:"default_coefficient,omitempty" json:"default_coefficient,omitempty"`
	AlignmentRegion    *string  `yaml:"alignment_region,omitempty"    json:"alignment_region,omitempty"`
	Workers            *int     `yaml:"workers,omitempty"             json:"workers,omitempty"`
	Top                *int     `yaml:"top,omitempty"                 json:"top,omitempty"`
}

// DefaultConfig returns the thresholds and policies used when nothing is
// configured.
func DefaultConfig() ValidationConfig {
	return ValidationConfig{
		ContactThreshold:   DefaultContactThreshold,
		ClashThreshold:     DefaultClashThreshold,
		FindMinClash:       true,
		NTerminalCutoff:    DefaultNTerminalCutoff,
		DefaultCoefficient: DefaultCoefficient,
		Workers:            1,
		Top:                DefaultTopRows,
	}
}

// DefaultSettings returns DefaultConfig plus the public UniProt endpoint.
func DefaultSettings() Settings {
	return Settings{
		Validation: DefaultConfig(),
		UniProt:    UniProtSettings{BaseURL: DefaultUniProtURL},
	}
}

// Apply overlays explicit overrides on c. Explicit values always win.
func (c ValidationConfig) Apply(o ConfigOverrides) ValidationConfig {
	if o.ContactThreshold != nil {
		c.ContactThreshold = *o.ContactThreshold
	}
	if o.ClashThreshold != nil {
		c.ClashThreshold = *o.ClashThreshold
	}
	if o.FindMinClash != nil {
		c.FindMinClash = *o.FindMinClash
	}
	if o.NTerminalCutoff != nil {
		c.NTerminalCutoff = *o.NTerminalCutoff
	}
	if o.DefaultCoefficient != nil {
		c.DefaultCoefficient = *o.DefaultCoefficient
	}
	if o.AlignmentRegion != nil {
		c.AlignmentRegion = *o.AlignmentRegion
	}
	if o.Workers != nil {
		c.Workers = *o.Workers
	}
	if o.Top != nil {
		c.Top = *o.Top
	}
	return c
}

// SearchRadius is the widest distance any query must cover.
func (c ValidationConfig) SearchRadius() float64 {
	return max(c.ContactThreshold, c.ClashThreshold)
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ValidationConfig) Validate() error {
	if c.ContactThreshold <= 0 {
		return fmt.Errorf("%w: contact_threshold must be positive, got %g", ErrInvalidConfig, c.ContactThreshold)
	}
	if c.ClashThreshold <= 0 {
		return fmt.Errorf("%w: clash_threshold must be positive, got %g", ErrInvalidConfig, c.ClashThreshold)
	}
	if c.NTerminalCutoff < 0 {
		return fmt.Errorf("%w: n_terminal_cutoff must not be negative, got %d", ErrInvalidConfig, c.NTerminalCutoff)
	}
	if c.DefaultCoefficient == "" {
		return fmt.Errorf("%w: default_coefficient must not be empty", ErrInvalidConfig)
	}
	if _, err := strconv.Atoi(c.DefaultCoefficient); err != nil {
		return fmt.Errorf("%w: default_coefficient %q is not numeric", ErrInvalidConfig, c.DefaultCoefficient)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Top < 0 {
		return fmt.Errorf("%w: top must not be negative, got %d", ErrInvalidConfig, c.Top)
	}
	return nil
}
