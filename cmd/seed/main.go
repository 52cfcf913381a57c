// Command seed creates the default categories and, optionally, a demo user.
// Running it again leaves existing rows alone.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/jeremyjsx/blogapi/internal/auth"
	"github.com/jeremyjsx/blogapi/internal/categories"
	"github.com/jeremyjsx/blogapi/internal/config"
	"github.com/jeremyjsx/blogapi/internal/database"
	"github.com/jeremyjsx/blogapi/internal/logger"
	"github.com/jeremyjsx/blogapi/internal/users"
)

var defaultCategories = []string{"noticias", "tecnología", "demo", "tutoriales", "eventos"}

func main() {
	demoName := flag.String("demo-name", "Demo", "name of the demo user")
	demoEmail := flag.String("demo-email", "", "create a demo user with this email")
	demoPassword := flag.String("demo-password", "", "password for the demo user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.Setup(os.Stdout, cfg.Server.LogLevel)

	if err := seed(context.Background(), cfg, log, *demoName, *demoEmail, *demoPassword); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context, cfg *config.Config, log *slog.Logger, name, email, password string) error {
	db, err := database.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	repo := categories.NewSQLRepository(db)
	for _, n := range defaultCategories {
		c, err := repo.EnsureByName(ctx, n)
		if err != nil {
			return err
		}
		log.Info("category ready", "name", c.Name, "id", c.ID)
	}

	if email == "" {
		return nil
	}
	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	_, err = users.NewService(users.NewSQLRepository(db), tokens).Register(ctx, users.RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if errors.Is(err, users.ErrEmailExists) {
		log.Info("demo user already exists", "email", email)
		return nil
	}
	if err != nil {
		return err
	}
	log.Info("demo user created", "email", email)
	return nil
}
