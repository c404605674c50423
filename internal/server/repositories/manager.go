// Package repositories wires the PostgreSQL-backed storage layer: it opens
// the connection pool, runs embedded migrations, and hands out the typed
// repositories.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/newsletter/internal/server/migrations"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type Manager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Subscriptions() subscriptions.Repository
	Close() error
}

type PostgresManager struct {
	db            *sql.DB
	users         users.Repository
	subscriptions subscriptions.Repository
}

func (m *PostgresManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresManager) Users() users.Repository {
	return m.users
}

func (m *PostgresManager) Subscriptions() subscriptions.Repository {
	return m.subscriptions
}

func (m *PostgresManager) Close() error {
	return m.db.Close()
}

func (m *PostgresManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresManager(ctx context.Context, dsn string) (Manager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresManager{
		db:            db,
		users:         users.NewPostgresRepository(db),
		subscriptions: subscriptions.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
