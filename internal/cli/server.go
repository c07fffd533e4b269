package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"dvg-portal/internal/app"
	"dvg-portal/internal/auth"
	"dvg-portal/internal/config"
	"dvg-portal/internal/infra/memory"
	pgstore "dvg-portal/internal/infra/postgres"
	redisstore "dvg-portal/internal/infra/redis"
	transport "dvg-portal/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the portal server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var (
		profiles app.ProfileStore    = memory.NewProfileStore()
		results  app.GameResultStore = memory.NewGameResultStore()
		accounts auth.Repository     = memory.NewAccountRepository()
	)
	if pool != nil {
		profiles = pgstore.NewProfileStore(pool)
		results = pgstore.NewGameResultStore(pool)
		accounts = pgstore.NewAccountRepository(pool)
	}

	leaderboardTTL := config.TTLDuration(cfg.Leaderboard.TTL, 15*time.Second)
	var board app.LeaderboardStore = memory.NewLeaderboard(leaderboardTTL)
	var revoker auth.Revoker = memory.NewRevoker()
	if redisClient != nil {
		board = redisstore.NewLeaderboard(redisClient)
		revoker = redisstore.NewRevoker(redisClient)
	}

	secret := cfg.Auth.Secret
	if secret == "" {
		secret = os.Getenv("AUTH_SECRET")
	}
	if secret == "" {
		secret = "dev-secret"
		log.Printf("auth secret not configured, using insecure development default")
	}
	tokenTTL := config.TTLDuration(cfg.Auth.TokenTTL, auth.DefaultTokenTTL)
	authSvc := auth.NewService(accounts, revoker, []byte(secret), auth.WithTokenTTL(tokenTTL))

	service := app.NewPortalService(profiles, results, board)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	transport.NewAuthHandler(authSvc).Register(mux)
	mux.HandleFunc("/ws", transport.NewWSHandler(service, authSvc).ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting portal on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
