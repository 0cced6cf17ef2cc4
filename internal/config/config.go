package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/cardkeeper/internal/dbx"
	"github.com/dmitrijs2005/cardkeeper/internal/filex"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

const (
	ImageStoreLocal = "local"
	ImageStoreS3    = "s3"
)

// S3 addresses the bucket used when ImageStore is "s3".
type S3 struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Prefix    string
}

type Config struct {
	DataDir     string
	DefaultGame records.Game

	// DatabaseDriver is "sqlite" or "pgx". An empty DatabaseDSN with sqlite
	// means collection.db inside DataDir.
	DatabaseDriver string
	DatabaseDSN    string

	ImageStore string
	S3         S3

	HTTPTimeout     time.Duration
	PreviewCacheTTL time.Duration
	LogLevel        string
}

func (c *Config) LoadDefaults() {
	c.DataDir = "~/.cardkeeper"
	c.DefaultGame = records.GameMagic
	c.DatabaseDriver = string(dbx.DialectSQLite)
	c.ImageStore = ImageStoreLocal
	c.S3.Region = "us-east-1"
	c.HTTPTimeout = 15 * time.Second
	c.PreviewCacheTTL = time.Hour
	c.LogLevel = "info"
}

// LoadConfig applies defaults, the settings file and the flags found in
// args (the command line without the program name) and validates the
// result.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings and normalises the game name.
func (c *Config) Validate() error {
	var errs []error
	if g, err := records.ParseGame(string(c.DefaultGame)); err != nil {
		errs = append(errs, fmt.Errorf("default game: %w", err))
	} else {
		c.DefaultGame = g
	}
	if _, err := dbx.ParseDialect(c.DatabaseDriver); err != nil {
		errs = append(errs, fmt.Errorf("database driver: %w", err))
	}
	if c.DatabaseDriver != string(dbx.DialectSQLite) && c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database dsn is required for "+c.DatabaseDriver))
	}
	switch c.ImageStore {
	case ImageStoreLocal:
	case ImageStoreS3:
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("s3 bucket is required for the s3 image store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown image store %q", c.ImageStore))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ResolveDataDir expands a leading "~" in DataDir.
func (c *Config) ResolveDataDir() (string, error) {
	return filex.ExpandHome(c.DataDir)
}

// DSN returns the database source name, deriving the SQLite file from the
// data directory when none is configured.
func (c *Config) DSN() (string, error) {
	if c.DatabaseDSN != "" || c.DatabaseDriver != string(dbx.DialectSQLite) {
		return c.DatabaseDSN, nil
	}
	dir, err := c.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return "file:" + filepath.Join(dir, "collection.db") + "?_pragma=foreign_keys(1)", nil
}
