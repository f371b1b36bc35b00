package database

import (
	"errors"

	"moodly/migrations"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

// Migrate applies any pending schema migrations from the embedded FS.
func Migrate() {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		log.Fatal().Err(err).Msg("error loading embedded migrations")
	}

	driver, err := pgxmigrate.WithInstance(DB, &pgxmigrate.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("error preparing migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx", driver)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing migrations")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal().Err(err).Msg("error applying migrations")
	}
	log.Info().Msg("schema migrations up to date")
}
