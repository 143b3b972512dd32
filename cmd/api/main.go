package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mdsaif2022/ntb-booking-server/internal/adapters/pg"
	"github.com/mdsaif2022/ntb-booking-server/internal/adapters/rabbit"
	redisadapter "github.com/mdsaif2022/ntb-booking-server/internal/adapters/redis"
	"github.com/mdsaif2022/ntb-booking-server/internal/booking"
	"github.com/mdsaif2022/ntb-booking-server/internal/config"
	httphandler "github.com/mdsaif2022/ntb-booking-server/internal/http"
	"github.com/mdsaif2022/ntb-booking-server/internal/idempotency"
	"github.com/mdsaif2022/ntb-booking-server/internal/inventory"
	"github.com/mdsaif2022/ntb-booking-server/internal/notify"
	"github.com/mdsaif2022/ntb-booking-server/internal/observability"
	"github.com/mdsaif2022/ntb-booking-server/internal/rateLimit"
	amqp "github.com/rabbitmq/amqp091-go"
	redisclient "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	mongoadapter "github.com/mdsaif2022/ntb-booking-server/internal/adapters/mongo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOtel, err := observability.SetupOTel(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdownOtel()

	logger := observability.NewLogger()
	observability.InitMetrics()

	// Optional collaborators: each backend is wired only when configured;
	// the core seat and booking stores are in-process.
	var rl *rateLimit.RateLimiter
	var idemp *idempotency.Idempotency
	if cfg.RedisAddr != "" {
		redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
		rl = rateLimit.NewRateLimiter(redisadapter.NewCache(redisClient))
		idemp = idempotency.NewIdempotency(redisadapter.NewIdempotency(redisClient), time.Hour)
	}

	var rabbitPub *rabbit.Publisher
	if cfg.RabbitURL != "" {
		conn, err := amqp.Dial(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer conn.Close()
		rabbitPub, err = rabbit.NewPublisher(conn)
		if err != nil {
			log.Fatalf("failed to create publisher: %v", err)
		}
	}

	var layouts inventory.LayoutProvider
	var hooks []booking.TransitionHook
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		defer mongoClient.Disconnect(context.Background())
		mongoDB := mongoClient.Database("ntb")
		layouts = mongoadapter.NewCatalogRepository(mongoDB, logger)
		hooks = append(hooks, mongoadapter.NewAuditLogger(mongoDB, logger))
	}

	if cfg.ArchiveDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.ArchiveDSN)
		if err != nil {
			log.Fatalf("failed to connect to archive db: %v", err)
		}
		defer pool.Close()
		hooks = append(hooks, pg.NewArchive(pool))
	}

	inv := inventory.New(cfg.HoldTTL, layouts)
	feed := notify.NewFeed()

	var notifier booking.Notifier = feed
	if rabbitPub != nil {
		notifier = notify.NewFanout(feed, notify.NewRabbitSink(rabbitPub, logger))
	}

	ctrl := booking.NewController(cfg.ApprovalWindow, notifier, inv, logger, hooks...)
	sweeper := booking.NewSweeper(ctrl, cfg.SweepInterval, logger)

	handlers := httphandler.NewHandlers(cfg, inv, ctrl, feed, idemp, rabbitPub, logger)
	router := httphandler.SetupRouter(handlers, logger, rl)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithField("port", cfg.Port).Info("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sweeper.Run(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server error: %v", err)
	}
	logger.Info("server exiting")
}
