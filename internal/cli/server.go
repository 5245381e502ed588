package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/app"
	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/config"
	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/infra/memory"
	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/infra/postgres"
	redisinfra "github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/infra/redis"
	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/scheduler"
	transport "github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the prediction pool server",
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
	if err := configureLogging(cfg.Log); err != nil {
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

	sets, err := questionCatalog(cfg.Questions.File)
	if err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(catalogByID(sets))
	var leagues app.LeagueStore = memory.NewLeagueStore()
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		pgLoader := postgres.NewQuestionLoader(pool)
		if err := pgLoader.SaveQuestionSets(ctx, sets); err != nil {
			return err
		}
		loader = pgLoader

		db := postgres.OpenDB(cfg.Postgres.URL)
		defer db.Close()
		leagues = postgres.NewLeagueStore(db)
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var questions app.QuestionRepository
	if redisClient != nil {
		questions = redisinfra.NewQuestionRepository(redisClient, loader, questionTTL)
	} else {
		questions = memory.NewQuestionRepository(loader, questionTTL)
	}

	opts := []app.Option{app.WithLogger(logrus.StandardLogger())}
	var sessions app.SessionRepository = memory.NewSessionStore()
	var toucher scheduler.Toucher
	if redisClient != nil {
		redisSessions := redisinfra.NewSessionStore(redisClient, redisTTL)
		sessions = redisSessions
		toucher = redisSessions
		snapshotTTL := config.TTLDuration(cfg.Redis.SnapshotTTL, 24*time.Hour)
		opts = append(opts, app.WithSnapshotStore(redisinfra.NewSnapshotStore(redisClient, snapshotTTL)))
	}
	service := app.NewLeagueService(leagues, questions, sessions, opts...)

	if cfg.Scheduler.Interval != "" {
		interval := config.TTLDuration(cfg.Scheduler.Interval, time.Minute)
		jobs, err := scheduler.NewScheduler(interval, service, toucher, logrus.StandardLogger())
		if err != nil {
			return err
		}
		if err := jobs.Start(); err != nil {
			return err
		}
		defer jobs.Stop()
	}

	draftDelay := config.TTLDuration(cfg.Server.DraftDelay, 1500*time.Millisecond)
	wsHandler := transport.NewWSHandler(service, draftDelay)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(service, wsHandler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logrus.WithField("port", finalPort).Info("starting prediction pool")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithField("error", err).Error("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logrus.Info("shutting down server...")
	case <-ctx.Done():
		logrus.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
