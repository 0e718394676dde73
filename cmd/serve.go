package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hlspack/hlspack/internal/api"
	"github.com/hlspack/hlspack/internal/cache"
	"github.com/hlspack/hlspack/internal/catalog"
	"github.com/hlspack/hlspack/internal/config"
	"github.com/hlspack/hlspack/internal/metrics"
	"github.com/hlspack/hlspack/internal/server"
	"github.com/hlspack/hlspack/internal/streaming"
	"github.com/hlspack/hlspack/internal/transcode"
)

func init() {
	serverConfig := &config.Server{}
	hlsConfig := &config.HLS{}

	command := &cobra.Command{
		Use:   "serve",
		Short: "serve the HLS packaging server",
		Long:  `serve the HLS packaging server`,
		Run: func(cmd *cobra.Command, args []string) {
			serve(serverConfig, hlsConfig)
		},
	}

	configs := []config.Config{serverConfig, hlsConfig}

	cobra.OnInitialize(func() {
		for _, cfg := range configs {
			cfg.Set()
		}
	})

	for _, cfg := range configs {
		if err := cfg.Init(command); err != nil {
			log.Panic().Err(err).Msg("unable to run serve command")
		}
	}

	rootCmd.AddCommand(command)
}

// serve wires the whole subsystem together once at process start; every
// dependency is passed explicitly, there is no ambient service state.
func serve(serverConfig *config.Server, hlsConfig *config.HLS) {
	logger := log.With().Str("service", "hlspack").Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider, err := catalog.NewFileProvider(hlsConfig.CatalogFile)
	if err != nil {
		logger.Panic().Err(err).Str("path", hlsConfig.CatalogFile).Msg("unable to load content catalog")
	}
	if err := provider.Watch(ctx); err != nil {
		logger.Warn().Err(err).Msg("catalog watch unavailable, changes require restart")
	}

	m := metrics.New()
	segmentCache := cache.New(hlsConfig.CacheDir)
	executor := transcode.New(hlsConfig.FFmpegBinary, hlsConfig.TranscodeTimeout)
	svc := streaming.New(provider, segmentCache, executor, m, hlsConfig.SegmentDuration)

	srv := server.New(serverConfig)
	srv.Mount(api.New(svc, m).Mount)
	srv.Start()

	logger.Info().
		Str("bind", serverConfig.Bind).
		Str("cache_dir", hlsConfig.CacheDir).
		Int("segment_duration", hlsConfig.SegmentDuration).
		Msg("hlspack ready")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	sig := <-quit

	logger.Warn().Msgf("received %s, attempting graceful shutdown", sig)

	if err := srv.Shutdown(); err != nil {
		logger.Err(err).Msg("server shutdown with an error")
	}
	logger.Info().Msg("shutdown complete")
}
