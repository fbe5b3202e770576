// Seed tool: fills the configured store with fake users and posts.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/anonto42/userposts/internal/models"
	"github.com/anonto42/userposts/internal/repositories"
	"github.com/anonto42/userposts/pkg/config"
	"github.com/brianvoe/gofakeit/v6"
)

func main() {
	var numUsers, postsPerUser int
	flag.IntVar(&numUsers, "users", 10, "number of users to create")
	flag.IntVar(&postsPerUser, "posts", 3, "maximum posts per user")
	flag.Parse()
	if postsPerUser < 0 {
		postsPerUser = 0
	}

	cfg := config.Load()
	logger := config.NewLogger(cfg)

	db, err := config.InitDB(cfg, logger)
	if err != nil {
		logger.Error("opening database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.CloseDB()

	if err := repositories.AutoMigrate(db.Gorm); err != nil {
		logger.Error("migrating", slog.String("error", err.Error()))
		os.Exit(1)
	}

	start := time.Now()
	users, posts, err := seed(context.Background(),
		repositories.NewGormUserRepository(db.Gorm),
		repositories.NewGormPostRepository(db.Gorm),
		rand.New(rand.NewSource(time.Now().UnixNano())),
		numUsers, postsPerUser,
	)
	if err != nil {
		logger.Error("seeding", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("seed done",
		slog.Int("users", users),
		slog.Int("posts", posts),
		slog.Duration("took", time.Since(start).Truncate(time.Millisecond)),
	)
}

// seed inserts up to numUsers users, each with 0..postsPerUser posts.
// Generated usernames or emails that are already taken are skipped.
func seed(ctx context.Context, userRepo repositories.UserRepository, postRepo repositories.PostRepository,
	r *rand.Rand, numUsers, postsPerUser int) (int, int, error) {
	faker := gofakeit.New(r.Int63())

	var users, posts int
	for i := 0; i < numUsers; i++ {
		u := &models.User{
			Username: faker.Username(),
			Email:    faker.Email(),
		}
		if err := userRepo.CreateUser(ctx, u); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				continue
			}
			return users, posts, err
		}
		users++

		for j := r.Intn(postsPerUser + 1); j > 0; j-- {
			p := &models.Post{
				Title:   faker.Sentence(4),
				Content: faker.Paragraph(2, 3, 12, "\n\n"),
				UserID:  u.ID,
			}
			if err := postRepo.CreatePost(ctx, p); err != nil {
				return users, posts, err
			}
			posts++
		}
	}
	return users, posts, nil
}
