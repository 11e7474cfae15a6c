package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/dmitrijs2005/doccheck/internal/buildinfo"
	"github.com/dmitrijs2005/doccheck/internal/client/api"
	"github.com/dmitrijs2005/doccheck/internal/client/cli"
	"github.com/dmitrijs2005/doccheck/internal/client/config"
	"github.com/dmitrijs2005/doccheck/internal/client/session"
	"github.com/dmitrijs2005/doccheck/internal/client/storage"
	"github.com/dmitrijs2005/doccheck/internal/client/token"
	"github.com/dmitrijs2005/doccheck/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	if err := run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	if z, ok := logger.(*logging.ZapLogger); ok {
		defer z.Sync()
	}

	store, closeStore, err := storage.Open(ctx, cfg.StoragePath)
	if err != nil {
		return err
	}
	defer closeStore()

	tokens := token.NewStore(store)
	client := api.New(cfg.APIBaseURL, tokens,
		api.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		api.WithLogger(logger),
		api.WithUserFallback(cfg.UserFallback),
	)

	sess := session.New(ctx, tokens, store, client, logger)
	defer sess.Close()

	logger.Info(ctx, "client started", "api", client.BaseURL(), "storage", cfg.StoragePath)

	return cli.NewApp(cfg, client, sess, logger).Run(ctx)
}
