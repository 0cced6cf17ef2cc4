package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dmitrijs2005/cardkeeper/internal/backend"
	"github.com/dmitrijs2005/cardkeeper/internal/backend/images"
	"github.com/dmitrijs2005/cardkeeper/internal/backend/repositories/repomanager"
	"github.com/dmitrijs2005/cardkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/cardkeeper/internal/client/cli"
	"github.com/dmitrijs2005/cardkeeper/internal/config"
	"github.com/dmitrijs2005/cardkeeper/internal/filex"
	"github.com/dmitrijs2005/cardkeeper/internal/flagx"
	"github.com/dmitrijs2005/cardkeeper/internal/games"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
)

const settingsFile = "settings.json"

// settingsArgs adds "-c <data dir>/settings.json" when no settings file is
// named and the default one exists.
func settingsArgs(args []string) ([]string, string, error) {
	if p := flagx.ConfigPath(args); p != "" {
		return args, p, nil
	}
	var defaults config.Config
	defaults.LoadDefaults()
	dir, err := defaults.ResolveDataDir()
	if err != nil {
		return nil, "", err
	}
	p := filepath.Join(dir, settingsFile)
	ok, err := filex.Exists(p)
	if err != nil {
		return nil, "", err
	}
	if ok {
		args = append([]string{"-c", p}, args...)
	}
	return args, p, nil
}

func openImageStore(ctx context.Context, cfg *config.Config, dataDir string) (images.Store, error) {
	if cfg.ImageStore == config.ImageStoreS3 {
		return images.NewS3Store(ctx, images.S3Config(cfg.S3))
	}
	return images.NewLocalStore(dataDir), nil
}

func run(ctx context.Context) error {
	args, settingsPath, err := settingsArgs(os.Args[1:])
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}

	logger, err := logging.NewTextLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return err
	}
	if _, err := filex.EnsureDir(dataDir); err != nil {
		return err
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return err
	}

	repos, err := repomanager.New(ctx, cfg.DatabaseDriver, dsn)
	if err != nil {
		return err
	}
	defer repos.Close()

	store, err := openImageStore(ctx, cfg, dataDir)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: cfg.HTTPTimeout}
	svc := backend.NewService(repos.Records(), repos.Sets(), store,
		backend.WithLogger(logging.Scoped(logger, "backend", "")),
		backend.WithHTTPClient(client))
	previews := games.NewPreviewer(client, cfg.PreviewCacheTTL, games.WithPreviewLogger(logging.Scoped(logger, "preview", "")))

	app := cli.NewApp(cfg, svc, previews,
		cli.WithLogger(logger),
		cli.WithSettingsFile(settingsPath))
	return app.Run(ctx)
}

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		stop()
		log.Fatalf("cardkeeper: %v", err)
	}
}
