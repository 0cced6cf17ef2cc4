package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/cardkeeper/internal/flagx"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

// parseFlags overlays cfg with -d, -g, -s and -l from args. Other flags
// are left to their owners.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-d", "-g", "-s", "-l"})

	fs := flag.NewFlagSet("cardkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	game := string(cfg.DefaultGame)
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&game, "g", game, "game shown at start (magic, pokemon)")
	fs.StringVar(&cfg.ImageStore, "s", cfg.ImageStore, "image store (local, s3)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.DefaultGame = records.Game(game)
	return nil
}
