package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"github.com/edumarques81/stellar-artbridge/internal/domain/player"
	"github.com/edumarques81/stellar-artbridge/internal/infra/mpd"
	"github.com/edumarques81/stellar-artbridge/internal/transport/httpapi"
	"github.com/edumarques81/stellar-artbridge/internal/transport/socketio"
	"github.com/edumarques81/stellar-artbridge/internal/version"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Watch MPD and serve metadata and artwork",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Info().Msg("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Info().Msgf("  %s", version.GetInfo().String())
	log.Info().Msg("  Cover Art Resolver")
	log.Info().Msg("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.dao != nil {
		a.dao.LogCacheStats()
	}

	log.Info().
		Int("port", cfg.HTTPPort).
		Str("mpd_host", cfg.MPD.Host).
		Int("mpd_port", cfg.MPD.Port).
		Bool("password_set", cfg.MPD.Password != "").
		Str("music_dir", cfg.MusicDir).
		Str("cache_dir", a.cacheDir).
		Dur("retention", cfg.Retention()).
		Msg("Configuration")

	mpdClient := mpd.NewClient(cfg.MPD.Host, cfg.MPD.Port, cfg.MPD.Password)
	if err := mpdClient.Connect(); err != nil {
		return err
	}
	defer mpdClient.Close()

	if err := mpdClient.Ping(); err != nil {
		return err
	}
	log.Info().Msg("MPD connection verified")

	playerService := player.NewService(mpdClient, a.resolver, a.janitor, cfg.MusicDir)

	socketServer, err := socketio.NewServer(playerService, mpdClient, socketio.Options{
		DebounceWindow: cfg.DebounceWindow(),
		MaxRemote:      cfg.MaxRemoteClients,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := socketServer.StartMPDWatcher(ctx, mpd.MetadataSubsystems...); err != nil {
		socketServer.Close()
		return err
	}

	api := httpapi.NewServer(playerService, mpdClient, a.cacheDir)
	api.Handle("/socket.io/", socketServer)

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:      api,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	var (
		wg       conc.WaitGroup
		serveErr error
	)

	wg.Go(func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
			serveErr = err
			stop()
		}
	})

	wg.Go(func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
	})

	wg.Wait()

	socketServer.Close()

	report := playerService.Close()
	a.markSweep()
	log.Info().
		Int("scanned", report.Scanned).
		Int("removed", report.Removed).
		Int("failed", report.Failed).
		Msg("Cache sweep on shutdown")

	log.Info().Msg("Server stopped")
	return serveErr
}
