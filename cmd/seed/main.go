// Command seed loads the demo catalog and a demo learner account.
// Rows are inserted with fixed ids and existing ids are left untouched, so
// running it twice is harmless.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/cloudexam/cloudexam-backend/internal/config"
	"github.com/cloudexam/cloudexam-backend/internal/database"
	"github.com/cloudexam/cloudexam-backend/internal/logger"
	"github.com/cloudexam/cloudexam-backend/internal/repository"
	"github.com/cloudexam/cloudexam-backend/internal/service"
)

func main() {
	var (
		demoEmail    string
		demoPassword string
	)
	flag.StringVar(&demoEmail, "demo-email", "demo@cloudexam.dev", "Email of the demo learner; empty skips it")
	flag.StringVar(&demoPassword, "demo-password", "password123", "Password of the demo learner")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	catalog := repository.NewCatalogRepository(pool)

	// ─── Catalog ───────────────────────────────────────────────────────
	for i := range providers {
		if err := catalog.UpsertProvider(ctx, &providers[i]); err != nil {
			log.Fatal().Err(err).Int("provider_id", providers[i].ID).Msg("Seed provider failed")
		}
	}
	log.Info().Int("count", len(providers)).Msg("Providers seeded")

	for i := range courses {
		if err := catalog.UpsertCourse(ctx, &courses[i]); err != nil {
			log.Fatal().Err(err).Int("course_id", courses[i].ID).Msg("Seed course failed")
		}
	}
	log.Info().Int("count", len(courses)).Msg("Courses seeded")

	for i := range exams {
		if err := catalog.UpsertExam(ctx, &exams[i]); err != nil {
			log.Fatal().Err(err).Int("exam_id", exams[i].ID).Msg("Seed exam failed")
		}
	}
	log.Info().Int("count", len(exams)).Msg("Exams seeded")

	for i := range questions {
		q := questions[i]
		if err := catalog.UpsertQuestion(ctx, &q.question, q.answers); err != nil {
			log.Fatal().Err(err).Int("question_id", q.question.ID).Msg("Seed question failed")
		}
	}
	log.Info().Int("count", len(questions)).Msg("Questions seeded")

	if err := catalog.SyncSequences(ctx); err != nil {
		log.Fatal().Err(err).Msg("Sequence sync failed")
	}

	// ─── Demo learner ──────────────────────────────────────────────────
	if demoEmail != "" {
		seedDemoUser(ctx, pool, cfg, demoEmail, demoPassword, log)
	}

	// ─── Cached answer keys ────────────────────────────────────────────
	// The catalog may have changed under cached keys.
	if rdb, err := database.NewRedisClient(ctx, cfg, log); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, cached answer keys left as is")
	} else {
		defer rdb.Close()
		resolver := service.NewAnswerKeyResolver(repository.NewExamRepository(pool), rdb, cfg.AnswerKeyCacheTTL, log)
		n, err := resolver.InvalidateAll(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Answer key invalidation failed")
		} else {
			log.Info().Int("keys", n).Msg("Cached answer keys invalidated")
		}
	}

	log.Info().Msg("Seed completed successfully")
}
