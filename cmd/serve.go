package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	config "task-tracker.com/task-tracker/internal/configs"
	httpapi "task-tracker.com/task-tracker/internal/http"
	"task-tracker.com/task-tracker/internal/remote"
	repository "task-tracker.com/task-tracker/internal/repositories"
	"task-tracker.com/task-tracker/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tracker API",
	Long:  "Starts the tracker API with local storage and best-effort sync to the remote API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()
		defaults, err := config.LoadSettingsDefaults(cfg.SettingsFile)
		if err != nil {
			return err
		}

		database := config.NewDatabaseClient(cfg.DatabaseDSN)
		storage := repository.NewStorageRepository(database)
		if cfg.RemoteURL == "" {
			log.Println("REMOTE_URL not set, running offline")
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sessions := services.NewSessionService(services.SessionConfig{
			Storage:  storage,
			Remote:   remote.NewClient(cfg.RemoteURL, cfg.RemoteTimeout),
			Grace:    cfg.UndoGrace,
			Debounce: cfg.SyncDebounce,
			Defaults: defaults,
		})
		if resumed, err := sessions.Restore(ctx); err != nil {
			log.Printf("could not resume previous session: %v", err)
		} else if resumed {
			log.Println("resumed previous session")
		}

		e := echo.New()
		e.HideBanner = true
		e.Use(middleware.Recover())
		e.Use(middleware.Logger())
		httpapi.Register(e, httpapi.NewHandler(sessions), cfg.RateLimit)

		go func() {
			log.Printf("tracker API listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		_ = e.Shutdown(shutdownCtx)

		sessions.Close(shutdownCtx)

		log.Println("tracker API shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
