package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"task-tracker.com/task-tracker/internal/auth"
	config "task-tracker.com/task-tracker/internal/configs"
	httpapi "task-tracker.com/task-tracker/internal/http"
	"task-tracker.com/task-tracker/internal/kv"
	repository "task-tracker.com/task-tracker/internal/repositories"
	"task-tracker.com/task-tracker/internal/services"
)

var inMemory bool

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the sync API",
	Long:  "Starts the remote sync API holding accounts and their data in Redis",
	RunE: func(cmd *cobra.Command, args []string) error {

		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()
		cfg.RequireSyncSecret()

		defaults, err := config.LoadSettingsDefaults(cfg.SettingsFile)
		if err != nil {
			return err
		}

		var store kv.Store
		if inMemory {
			log.Println("using in-memory store, data is lost on exit")
			store = kv.NewMemoryStore()
		} else {
			redisClient := config.NewRedisClient(cfg.RedisAddr)
			defer redisClient.Close()

			if err := redisClient.Do(context.Background(), redisClient.B().Ping().Build()).Error(); err != nil {
				log.Fatalf("failed to reach redis at %s: %v", cfg.RedisAddr, err)
			}
			store = kv.NewRedisStore(redisClient, cfg.RedisKeyPrefix)
		}

		issuer := auth.NewIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)
		accounts := services.NewAccountService(repository.NewAccountRepository(store), issuer, defaults)

		e := echo.New()
		e.HideBanner = true
		e.Use(middleware.Recover())
		e.Use(middleware.Logger())
		httpapi.RegisterSync(e, httpapi.NewSyncHandler(accounts), issuer.Parse, cfg.RateLimit)

		c := cors.New(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		})
		srv := &http.Server{
			Addr:    cfg.SyncURL,
			Handler: c.Handler(e),
		}

		go func() {
			log.Printf("sync API listening on %s", cfg.SyncURL)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("server stopped: %v", err)
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()

		_ = srv.Shutdown(ctx)

		log.Println("sync API shut down gracefully")
		return nil
	},
}

func init() {
	serverCmd.Flags().BoolVar(&inMemory, "memory", false, "keep accounts in memory instead of Redis")
	rootCmd.AddCommand(serverCmd)
}
