package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dockcheck/dockcheck/internal/domain"
)

// FileName is the per-directory configuration file.
const FileName = ".dockcheck.yaml"

// Environment variables read after the config file.
const (
	EnvUniProtURL = "DOCKCHECK_UNIPROT_URL"
	EnvCacheDir   = "DOCKCHECK_CACHE_DIR"
)

// fileConfig mirrors .dockcheck.yaml. Pointer types distinguish "not
// specified" from zero values.
type fileConfig struct {
	Validation domain.ConfigOverrides `yaml:"validation"`
	UniProt    uniprotOverrides       `yaml:"uniprot"`
}

type uniprotOverrides struct {
	BaseURL  *string `yaml:"base_url"`
	CacheDir *string `yaml:"cache_dir"`
	NoCache  *bool   `yaml:"no_cache"`
}

// YAMLLoader implements domain.ConfigLoader by reading .dockcheck.yaml and
// the environment.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .dockcheck.yaml and .env from dir. A missing file yields the
// defaults. Values are layered defaults, then file, then environment.
func (l *YAMLLoader) Load(dir string) (domain.Settings, error) {
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return finish(domain.DefaultSettings(), FileName)
		}
		return domain.Settings{}, err
	}
	return decode(data, FileName)
}

// LoadFile reads an explicitly named config file, which must exist.
func (l *YAMLLoader) LoadFile(path string) (domain.Settings, error) {
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("reading config: %w", err)
	}
	return decode(data, filepath.Base(path))
}

func decode(data []byte, name string) (domain.Settings, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return domain.Settings{}, fmt.Errorf("parsing %s: %w", name, err)
	}

	s := domain.DefaultSettings()
	s.Validation = s.Validation.Apply(fc.Validation)
	if fc.UniProt.BaseURL != nil {
		s.UniProt.BaseURL = *fc.UniProt.BaseURL
	}
	if fc.UniProt.CacheDir != nil {
		s.UniProt.CacheDir = *fc.UniProt.CacheDir
	}
	if fc.UniProt.NoCache != nil {
		s.UniProt.NoCache = *fc.UniProt.NoCache
	}
	return finish(s, name)
}

func finish(s domain.Settings, name string) (domain.Settings, error) {
	if v := os.Getenv(EnvUniProtURL); v != "" {
		s.UniProt.BaseURL = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		s.UniProt.CacheDir = v
	}
	if err := s.Validation.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return s, nil
}

// Render produces a commented .dockcheck.yaml holding s.
func Render(s domain.Settings) ([]byte, error) {
	body, err := yaml.Marshal(s)
	if err != nil {
		return nil, err
	}
	header := "# dockcheck configuration\n" +
		"# Command-line flags override these values; " + EnvUniProtURL + " and " + EnvCacheDir + " override the uniprot section.\n\n"
	return append([]byte(header), body...), nil
}
