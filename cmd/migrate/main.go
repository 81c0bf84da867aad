package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/articlehub/articlehub-backend/internal/config"
	"github.com/articlehub/articlehub-backend/internal/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
)

// migrator is the part of *migrate.Migrate the commands drive.
type migrator interface {
	Up() error
	Down() error
	Version() (uint, bool, error)
	Force(version int) error
}

func main() {
	var migrationDir string
	flag.StringVar(&migrationDir, "path", "migrations", "Path to migration files")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return
	}

	m, err := migrate.New(fmt.Sprintf("file://%s", migrationDir), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed to initialize")
	}
	defer m.Close()

	if err := run(m, migrationDir, args, log); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
			os.Exit(2)
		}
		log.Fatal().Err(err).Str("command", args[0]).Msg("Migration failed")
	}
}

var errUsage = errors.New("usage")

// run executes one command and logs the schema version it leaves behind.
func run(m migrator, dir string, args []string, log zerolog.Logger) error {
	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("up: %w", err)
		}
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("down: %w", err)
		}
	case "version":
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force requires a version argument: %w", errUsage)
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		if err := m.Force(v); err != nil {
			return fmt.Errorf("force: %w", err)
		}
	default:
		return errUsage
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info().Str("command", args[0]).Msg("Schema is empty, no migration applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("version: %w", err)
	}

	event := log.Info()
	if dirty {
		event = log.Warn()
	}
	event.
		Str("command", args[0]).
		Uint("version", version).
		Str("migration", migrationName(dir, version)).
		Bool("dirty", dirty).
		Msg("Schema version")
	return nil
}

// migrationName returns the descriptive part of the up file for a version,
// e.g. "init_schema" for 000001_init_schema.up.sql.
func migrationName(dir string, version uint) string {
	matches, _ := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	for _, path := range matches {
		base := strings.TrimSuffix(filepath.Base(path), ".up.sql")
		prefix, name, ok := strings.Cut(base, "_")
		if !ok {
			continue
		}
		if n, err := strconv.ParseUint(prefix, 10, 64); err == nil && uint(n) == version {
			return name
		}
	}
	return ""
}

func printUsage() {
	fmt.Println("Usage: migrate [flags] <command>")
	fmt.Println("Commands: up, down, version, force <version>")
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
