package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aristath/marketcal/internal/di"
	"github.com/aristath/marketcal/internal/scheduler"
	"github.com/aristath/marketcal/internal/server"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar feed over HTTP and regenerate it on a schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Port = port
			}

			container, err := di.Wire(cmd.Context(), cfg, log)
			if err != nil {
				log.Error().Err(err).Msg("Failed to wire dependencies")
				return err
			}
			defer container.Close()

			sched := scheduler.New(log)
			jobs, err := di.RegisterJobs(container, cfg, sched, log)
			if err != nil {
				log.Error().Err(err).Msg("Failed to register jobs")
				return err
			}

			// Write the file once at startup so the feed and the file agree
			if err := sched.RunNow(jobs.RegenerateCalendar); err != nil {
				log.Warn().Err(err).Msg("Initial calendar generation failed")
			}

			srvCfg := server.Config{
				Log:      log,
				Port:     cfg.Port,
				DevMode:  cfg.DevMode,
				Renderer: container.GenerationService,
				DataDir:  cfg.DataDir,
			}
			if container.ArtifactRepo != nil {
				srvCfg.Archive = container.ArtifactRepo
			}
			srv := server.New(srvCfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			sched.Start()
			log.Info().Int("port", cfg.Port).Msg("Server started successfully")

			select {
			case <-ctx.Done():
				log.Info().Msg("Shutting down server...")
			case err := <-errCh:
				if err != nil {
					sched.Stop()
					log.Error().Err(err).Msg("Server failed")
					return err
				}
			}

			sched.Stop()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Server forced to shutdown")
				return err
			}

			log.Info().Msg("Server stopped")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (defaults to GO_PORT or 8001)")

	return cmd
}
