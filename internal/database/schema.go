package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// graphConstraints keep one pairing node per garment.
var graphConstraints = []string{
	`CREATE CONSTRAINT garment_id IF NOT EXISTS FOR (g:Garment) REQUIRE (g.id, g.user_id) IS UNIQUE`,
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// Migrations returns the embedded migration file names in apply order.
func Migrations() ([]string, error) {
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// EnsureSchema creates the wardrobe tables and pairing graph constraints when missing. Every
// statement is idempotent.
func (db *Database) EnsureSchema(ctx context.Context) error {
	if err := applyMigrations(ctx, db.PG); err != nil {
		return err
	}
	db.logger.Info("PostgreSQL schema ready")

	if db.Neo4j != nil {
		if err := EnsureGraphConstraints(ctx, db.Neo4j); err != nil {
			return err
		}
		db.logger.Info("Neo4j constraints ready")
	}
	return nil
}

func applyMigrations(ctx context.Context, pg execer) error {
	names, err := Migrations()
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}

	for _, name := range names {
		stmt, err := migrationFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := pg.Exec(ctx, string(stmt)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
	}
	return nil
}

func EnsureGraphConstraints(ctx context.Context, driver neo4j.DriverWithContext) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for _, stmt := range graphConstraints {
		result, err := session.Run(ctx, stmt, nil)
		if err != nil {
			return fmt.Errorf("failed to create graph constraint: %w", err)
		}
		if _, err := result.Consume(ctx); err != nil {
			return fmt.Errorf("failed to create graph constraint: %w", err)
		}
	}
	return nil
}
