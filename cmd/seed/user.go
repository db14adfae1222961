package main

import (
	"context"

	"github.com/cloudexam/cloudexam-backend/internal/config"
	"github.com/cloudexam/cloudexam-backend/internal/model"
	"github.com/cloudexam/cloudexam-backend/internal/repository"
	"github.com/cloudexam/cloudexam-backend/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func seedDemoUser(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config, email, password string, log zerolog.Logger) {
	users := repository.NewUserRepository(pool)

	exists, err := users.EmailExists(ctx, email)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check demo user")
	}
	if exists {
		log.Info().Str("email", email).Msg("Demo user already present")
		return
	}

	auth := service.NewAuthService(cfg)
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash demo password")
	}

	name := "Demo Learner"
	user := &model.User{Email: email, PasswordHash: hash, FullName: &name}
	if err := users.Create(ctx, user); err != nil {
		log.Fatal().Err(err).Msg("Failed to create demo user")
	}

	token, err := auth.IssueToken(user.ID, user.Email)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to issue demo token")
	}
	log.Info().Int("user_id", user.ID).Str("email", email).Str("token", token).Msg("Demo user created")
}
