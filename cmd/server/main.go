package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/xemlock/thumbnail-endpoint/internal/envvar"
	"github.com/xemlock/thumbnail-endpoint/internal/host"
	"github.com/xemlock/thumbnail-endpoint/internal/rewrite"
	"github.com/xemlock/thumbnail-endpoint/internal/server"
	"github.com/xemlock/thumbnail-endpoint/internal/sizes"
	"github.com/xemlock/thumbnail-endpoint/internal/storage"
	"github.com/xemlock/thumbnail-endpoint/internal/thumbnail"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	}))

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file, using system environment")
	}

	envVar, err := envvar.New()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	ctx := context.Background()

	registry := sizes.Defaults()
	if envVar.SizesFile != "" {
		registry, err = sizes.Load(envVar.SizesFile)
		if err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
	}

	store, err := host.Open(ctx, envVar.DBPath)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer store.Close()

	var client storage.Client
	switch envVar.StorageBackend {
	case "gcs":
		client, err = storage.NewGCSClient(ctx, envVar.BucketName)
	default:
		client, err = storage.NewS3Client(ctx, envVar.BucketName)
	}
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	resolver := storage.NewObjectResolver(client, envVar.MediaFolder, registry)

	table := rewrite.NewTable()
	if thumbnail.Register(table, thumbnail.Prefix) {
		logger.Info("rewrite rules changed, rebuilding routing table")
	}
	if err := table.RebuildIfDirty(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	handler := thumbnail.NewHandler(logger, store, registry, resolver)
	srv := server.New(table, handler, nil)

	builder := thumbnail.Builder{
		BaseURL: envVar.BaseURL,
		Pretty:  envVar.PrettyPermalinks,
	}
	logger.Info("thumbnail endpoint ready",
		slog.String("structure", builder.Structure()),
		slog.String("example", builder.Build(1, "medium")),
	)

	s := http.Server{
		Handler: srv,
		Addr:    ":" + envVar.Port,
	}

	logger.Info("listening", slog.String("addr", s.Addr))
	if err := s.ListenAndServe(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
