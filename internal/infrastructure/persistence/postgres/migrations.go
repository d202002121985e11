package postgres

import "embed"

// Migrations holds the schema for the calculation history store. Apply with
// pkg/postgres.RunMigrations(dsn, Migrations, MigrationsDir).
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that holds the files.
const MigrationsDir = "migrations"
