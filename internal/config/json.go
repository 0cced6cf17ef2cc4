package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/cardkeeper/internal/flagx"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
	"github.com/dmitrijs2005/cardkeeper/internal/timex"
)

type JsonS3 struct {
	Endpoint  string `json:"endpoint,omitempty"`
	Region    string `json:"region,omitempty"`
	Bucket    string `json:"bucket,omitempty"`
	AccessKey string `json:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty"`
	Prefix    string `json:"prefix,omitempty"`
}

// JsonConfig is the settings file layout. Absent keys keep the values of
// the earlier sources.
type JsonConfig struct {
	DataDir         string          `json:"data_dir,omitempty"`
	DefaultGame     string          `json:"default_game,omitempty"`
	DatabaseDriver  string          `json:"database_driver,omitempty"`
	DatabaseDSN     string          `json:"database_dsn,omitempty"`
	ImageStore      string          `json:"image_store,omitempty"`
	S3              *JsonS3         `json:"s3,omitempty"`
	HTTPTimeout     *timex.Duration `json:"http_timeout,omitempty"`
	PreviewCacheTTL *timex.Duration `json:"preview_cache_ttl,omitempty"`
	LogLevel        string          `json:"log_level,omitempty"`
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (jc JsonConfig) apply(cfg *Config) {
	setIf(&cfg.DataDir, jc.DataDir)
	if jc.DefaultGame != "" {
		cfg.DefaultGame = records.Game(jc.DefaultGame)
	}
	setIf(&cfg.DatabaseDriver, jc.DatabaseDriver)
	setIf(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setIf(&cfg.ImageStore, jc.ImageStore)
	if s := jc.S3; s != nil {
		setIf(&cfg.S3.Endpoint, s.Endpoint)
		setIf(&cfg.S3.Region, s.Region)
		setIf(&cfg.S3.Bucket, s.Bucket)
		setIf(&cfg.S3.AccessKey, s.AccessKey)
		setIf(&cfg.S3.SecretKey, s.SecretKey)
		setIf(&cfg.S3.Prefix, s.Prefix)
	}
	if jc.HTTPTimeout != nil {
		cfg.HTTPTimeout = jc.HTTPTimeout.Duration
	}
	if jc.PreviewCacheTTL != nil {
		cfg.PreviewCacheTTL = jc.PreviewCacheTTL.Duration
	}
	setIf(&cfg.LogLevel, jc.LogLevel)
}

// parseJson overlays cfg with the file named by -c/-config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}
	return cfg.LoadFile(path)
}

// LoadFile overlays c with the settings file at path.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	jc.apply(c)
	return nil
}

func toJson(c *Config) JsonConfig {
	jc := JsonConfig{
		DataDir:         c.DataDir,
		DefaultGame:     string(c.DefaultGame),
		DatabaseDriver:  c.DatabaseDriver,
		DatabaseDSN:     c.DatabaseDSN,
		ImageStore:      c.ImageStore,
		HTTPTimeout:     &timex.Duration{Duration: c.HTTPTimeout},
		PreviewCacheTTL: &timex.Duration{Duration: c.PreviewCacheTTL},
		LogLevel:        c.LogLevel,
	}
	if c.S3 != (S3{}) {
		s := JsonS3(c.S3)
		jc.S3 = &s
	}
	return jc
}

// Save writes c to path, creating the directory when needed.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(toJson(c), "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
