package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/varcodes/trackmyprices/internal/config"
	"github.com/varcodes/trackmyprices/internal/engine"
	"github.com/varcodes/trackmyprices/internal/events"
	"github.com/varcodes/trackmyprices/internal/lock"
	"github.com/varcodes/trackmyprices/internal/notify"
	"github.com/varcodes/trackmyprices/internal/scrape"
	"github.com/varcodes/trackmyprices/internal/store"
	score "github.com/varcodes/trackmyprices/pkg/scorer"
)

// app holds the components shared by serve and cycle.
type app struct {
	store     store.Store
	engine    *engine.Engine
	publisher events.Publisher
	redis     *redis.Client
}

func (a *app) Close(log *slog.Logger) {
	if err := a.publisher.Close(); err != nil {
		log.Warn("closing event publisher", "error", err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn("closing redis client", "error", err)
		}
	}
	a.store.Close()
}

func buildApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	s, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{store: s, publisher: newPublisher(cfg, log)}

	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.Redis.Enabled {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := a.redis.Ping(pingCtx).Err(); err != nil {
			a.Close(log)
			return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
		}
		locker = lock.NewRedisLocker(a.redis, cfg.Redis.LockTTL)
		log.Info("using redis cycle lock", "addr", cfg.Redis.Addr)
	}

	a.engine = engine.NewEngine(s, newScraper(cfg, log), newNotifier(cfg, log),
		engine.WithLogger(log),
		engine.WithLocker(locker),
		engine.WithPublisher(a.publisher),
		engine.WithConcurrency(cfg.Cycle.Concurrency),
		engine.WithCycleTimeout(cfg.Cycle.Timeout),
		engine.WithScoreWeights(score.Weights(cfg.Scoring.Weights)),
		engine.WithScrapeTimeout(cfg.Scrape.Timeout),
	)
	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		s, err := store.NewMongoStore(ctx, cfg.Database.Mongo.URI, cfg.Database.Mongo.Database)
		if err != nil {
			return nil, fmt.Errorf("opening mongo store: %w", err)
		}
		return s, nil
	default:
		s, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return s, nil
	}
}

func newScraper(cfg *config.Config, log *slog.Logger) scrape.Scraper {
	sel := cfg.Scrape.Selectors
	return scrape.NewCollyScraper(
		scrape.WithUserAgent(cfg.Scrape.UserAgent),
		scrape.WithTimeout(cfg.Scrape.Timeout),
		scrape.WithHostPolicy(scrape.NewHostPolicy(cfg.Scrape.AllowedHosts)),
		scrape.WithHostLimiter(scrape.NewHostLimiter(cfg.Scrape.RateLimit.PerSecond, cfg.Scrape.RateLimit.Burst)),
		scrape.WithSelectors(scrape.DefaultSelectors().Override(scrape.Selectors{
			Title:        sel.Title,
			Price:        sel.Price,
			Currency:     sel.Currency,
			Availability: sel.Availability,
			Image:        sel.Image,
		})),
		scrape.WithLogger(log),
	)
}

func newNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	smtp := cfg.Notifications.SMTP
	if !smtp.Enabled {
		log.Warn("smtp disabled, notifications will only be logged")
		return notify.NewNoOpNotifier(log)
	}
	return notify.NewSMTPNotifier(smtp.Host, smtp.Port, smtp.Username, smtp.Password, smtp.From,
		notify.WithTimeout(smtp.Timeout),
		notify.WithLogger(log),
	)
}

func newPublisher(cfg *config.Config, log *slog.Logger) events.Publisher {
	k := cfg.Events.Kafka
	if !k.Enabled {
		return events.NoopPublisher{}
	}
	log.Info("publishing product events", "brokers", k.Brokers, "topic", k.Topic)
	return events.NewKafkaPublisher(k.Brokers, k.Topic, events.WithLogger(log))
}
