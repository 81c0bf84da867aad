package service_test

import (
	"io"
	"time"

	"github.com/articlehub/articlehub-backend/internal/config"
	"github.com/articlehub/articlehub-backend/internal/service/servicetest"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var testLog = zerolog.New(io.Discard)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "test-secret",
		BcryptCost: bcrypt.MinCost,
	}
}

// newTestChat stamps every message with the same time so ordering relies on the id tie-breaker.
func newTestChat() *servicetest.Chat {
	return servicetest.NewFrozenChat(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
}
