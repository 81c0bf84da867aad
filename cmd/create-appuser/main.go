// Command create-appuser provisions an already-active admin-domain account, which is how the
// first operator gets in before anyone can approve sign-ups.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/articlehub/articlehub-backend/internal/config"
	"github.com/articlehub/articlehub-backend/internal/database"
	"github.com/articlehub/articlehub-backend/internal/logger"
	"github.com/articlehub/articlehub-backend/internal/model"
	"github.com/articlehub/articlehub-backend/internal/repository"
	"github.com/articlehub/articlehub-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	appUserService := service.NewAppUserService(authService, repository.NewAppUserRepository(pool), log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New App User ===")

	// Name
	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	user, err := appUserService.Create(ctx, service.RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
		Status:   model.StatusActive,
	})
	if errors.Is(err, repository.ErrDuplicateEmail) {
		fmt.Printf("Error: an app user with email %s already exists\n", email)
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create app user")
	}

	fmt.Printf("\nSuccess! App user '%s' (%s) created with ID: %d\n", user.Name, user.Email, user.ID)
}
