package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"mediadepot/internal/archive"
	"mediadepot/internal/config"
	"mediadepot/internal/depot"
	"mediadepot/internal/ingest"
	"mediadepot/internal/jobs"
	"mediadepot/internal/logging"
	"mediadepot/internal/media"
	"mediadepot/internal/media/search"
	"mediadepot/internal/probe"
	"mediadepot/internal/server"
	"mediadepot/internal/session"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	resolver, err := depot.NewResolver(cfg.Paths.DepotRoot)
	if err != nil {
		log.Fatalf("depot root: %v", err)
	}

	mediaStore, err := media.Open(ctx, cfg.Paths.MediaDB)
	if err != nil {
		log.Fatalf("open media store: %v", err)
	}
	defer mediaStore.Close()

	jobStore, err := jobs.Open(ctx, cfg.Paths.JobsDB)
	if err != nil {
		log.Fatalf("open job store: %v", err)
	}
	defer jobStore.Close()

	ffmpeg := probe.NewFFmpeg()
	queue, err := ingest.NewQueue(ingest.Options{
		Store:     mediaStore,
		Resolver:  resolver,
		Extractor: ffmpeg,
		StateDir:  cfg.Paths.StateDir,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("restore ingest queue: %v", err)
	}

	srv := server.New(server.Options{
		Config:   cfg,
		Logger:   logger,
		Media:    mediaStore,
		Search:   search.New(mediaStore, resolver),
		Sessions: session.NewMemoryStore(),
		Queue:    queue,
		Jobs:     jobs.NewRegistry(jobStore, cfg.Jobs, resolver, logger),
		Migrator: archive.New(archive.Options{
			Store:      mediaStore,
			Resolver:   resolver,
			Transcoder: ffmpeg,
			Capturer:   ffmpeg,
			ArchiveDir: cfg.Paths.ArchiveDir,
			ThumbsDir:  cfg.Paths.ThumbsDir,
			Logger:     logger,
		}),
		Resolver: resolver,
	})

	if err := srv.Run(ctx); err != nil {
		logger.Error("api server failed", logging.Error(err))
	}
	logger.Info("mediadepotd shutting down")
}
