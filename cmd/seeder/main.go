package main

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/semaphore"

	"flex_reviews/internal/adapters/hostaway"
	"flex_reviews/internal/adapters/observability"
	redisad "flex_reviews/internal/adapters/redis"
	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
	"flex_reviews/internal/shared"
	mongorepo "flex_reviews/internal/storage/mongo"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.HostawayBase).
		Str("file", cfg.SeedFile).
		Int("workers", cfg.Workers).
		Int("reviews", cfg.ReviewCount).
		Msg("seeder starting")

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("mongo.Connect failed")
	}
	if err := client.Ping(connCtx, readpref.Primary()); err != nil {
		log.Fatal().Err(err).Msg("mongo ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mongorepo.New(client.Database(cfg.MongoDB))
	if err := repo.EnsureIndexes(connCtx); err != nil {
		log.Fatal().Err(err).Msg("index bootstrap failed")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	raw := fetchRaw(ctx, cfg)
	if len(raw) == 0 {
		log.Warn().Msg("no reviews to seed")
		return
	}

	ing := app.NewIngestionService(repo, cache)
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	var ok, failed int64
	var mu sync.Mutex
	for _, r := range raw {
		r := r

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(raw map[string]any) {
			defer wg.Done()
			defer sem.Release(1)

			key, err := ing.IngestOne(ctx, raw)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				log.Warn().Err(err).Msg("ingest failed")
				return
			}
			ok++
			log.Debug().Str("key", key).Msg("ingest ok")
		}(r)
	}

	wg.Wait()
	ing.InvalidateLists(ctx, domain.ChannelHostaway)
	log.Info().Int64("upserted", ok).Int64("failed", failed).Msg("seeding completed")
}

// fetchRaw prefers the live API; the sandbox returns an empty result set, so
// any failure or empty response falls back to the static file.
func fetchRaw(ctx context.Context, cfg shared.Config) []map[string]any {
	var sources []domain.ReviewSource
	if cfg.HostawayToken != "" {
		client, err := hostaway.New(cfg.HostawayBase, cfg.HostawayToken, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize hostaway client")
		}
		sources = append(sources, client)
	}
	sources = append(sources, hostaway.NewFileSource(cfg.SeedFile))

	for _, src := range sources {
		raw, err := src.FetchReviews(ctx, cfg.ReviewCount)
		if err != nil {
			log.Warn().Err(err).Msg("source fetch failed; trying next")
			continue
		}
		if len(raw) == 0 {
			log.Info().Msg("source returned no reviews; trying next")
			continue
		}
		return raw
	}
	return nil
}
