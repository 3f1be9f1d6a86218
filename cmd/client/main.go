package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/Channel/internal/adapters/http"
	"github.com/dkeye/Channel/internal/adapters/occupancy"
	"github.com/dkeye/Channel/internal/adapters/render"
	"github.com/dkeye/Channel/internal/adapters/rtc"
	sig "github.com/dkeye/Channel/internal/adapters/signal"
	"github.com/dkeye/Channel/internal/adapters/ui"
	"github.com/dkeye/Channel/internal/app"
	"github.com/dkeye/Channel/internal/app/orch"
	"github.com/dkeye/Channel/internal/app/poll"
	"github.com/dkeye/Channel/internal/config"
	"github.com/dkeye/Channel/internal/domain"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	surfaces := render.NewSurfaces(cfg.Slots)
	engine := rtc.NewEngine(rtc.Config{
		SignalURL: cfg.Engine.SignalURL,
		UID:       domain.ParticipantID(cfg.Engine.UID),
		WebRTC:    rtc.DefaultWebRTCConfig(cfg.Engine.ICEServers...),
		Signal: sig.Options{
			SendBuffer:   cfg.Engine.SendBuffer,
			PingInterval: cfg.Engine.PingInterval,
		},
		EventBuffer: cfg.Engine.EventBuffer,
	}, surfaces)
	defer engine.Close()

	tracker := app.NewTracker(cfg.Channel, engine, surfaces, app.SimplePolicy{}, cfg.Cooldown)
	source := occupancy.NewClient(
		cfg.Occupancy.BaseURL,
		cfg.Occupancy.AppID,
		cfg.Channel,
		cfg.Occupancy.CustomerID,
		cfg.Occupancy.CustomerSecret,
		cfg.Occupancy.Timeout,
	)
	poller := poll.NewPoller(source, cfg.Occupancy.Interval, cfg.Occupancy.MaxBackoff)
	panels := ui.NewPanels(cfg.NoticeDuration)
	o := orch.New(tracker, engine.Events(), panels, poller, cfg.TickInterval)

	r := router.SetupRouter(cfg, router.Deps{
		Controller: o,
		Panels:     panels,
		Surfaces:   surfaces,
	})
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return o.Run(gctx)
	})
	g.Go(func() error {
		poller.Start(gctx)
		<-gctx.Done()
		poller.Stop()
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", addr).Str("channel", cfg.Channel).Int("slots", cfg.Slots).Msg("Channel client started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("client stopped with error")
		return
	}
	log.Info().Msg("Client exited gracefully")
}
