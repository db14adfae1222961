// Command issue-token prints a bearer token for local testing of the API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/cloudexam/cloudexam-backend/internal/config"
	"github.com/cloudexam/cloudexam-backend/internal/database"
	"github.com/cloudexam/cloudexam-backend/internal/logger"
	"github.com/cloudexam/cloudexam-backend/internal/repository"
	"github.com/cloudexam/cloudexam-backend/internal/service"
)

func main() {
	var (
		userID int
		email  string
	)
	flag.IntVar(&userID, "user-id", 0, "User id to embed as the sub claim; looked up by -email when omitted")
	flag.StringVar(&email, "email", "", "User email")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if userID == 0 {
		if email == "" {
			fmt.Fprintln(os.Stderr, "Usage: issue-token -user-id <id> [-email <email>] | -email <email>")
			os.Exit(2)
		}

		ctx := context.Background()
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()

		user, err := repository.NewUserRepository(pool).GetByEmail(ctx, email)
		if errors.Is(err, repository.ErrNotFound) {
			log.Fatal().Str("email", email).Msg("No user with that email")
		}
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to look up user")
		}
		userID = user.ID
	}

	token, err := service.NewAuthService(cfg).IssueToken(userID, email)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to issue token")
	}

	fmt.Println(token)
}
