package maps

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the tables read by PostgresSource.
const Schema = `
CREATE TABLE IF NOT EXISTS maps (
	name       TEXT PRIMARY KEY,
	start_city TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS map_cities (
	map_name   TEXT    NOT NULL REFERENCES maps(name) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	name       TEXT    NOT NULL,
	color      TEXT    NOT NULL,
	population INTEGER NOT NULL,
	neighbors  TEXT[]  NOT NULL,
	PRIMARY KEY (map_name, name)
);`

// PostgresSource is a Provider backed by the map_cities table.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource connects to the database and verifies the connection.
func NewPostgresSource(ctx context.Context, databaseURL string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresSource{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresSource) Close() {
	s.pool.Close()
}

// Load implements Provider.
func (s *PostgresSource) Load(ctx context.Context, name string) (Map, error) {
	if name == "" {
		name = DefaultName
	}

	m := Map{Name: name}
	err := s.pool.QueryRow(ctx, "SELECT start_city FROM maps WHERE name = $1", name).Scan(&m.StartCity)
	if errors.Is(err, pgx.ErrNoRows) {
		return Map{}, fmt.Errorf("%w: %s", ErrUnknownMap, name)
	}
	if err != nil {
		return Map{}, fmt.Errorf("failed to query map %s: %w", name, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT name, color, population, neighbors
		FROM map_cities
		WHERE map_name = $1
		ORDER BY position`, name)
	if err != nil {
		return Map{}, fmt.Errorf("failed to query cities of map %s: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c CityAttrs
		if err := rows.Scan(&c.Name, &c.Color, &c.Population, &c.Neighbors); err != nil {
			return Map{}, fmt.Errorf("failed to scan city: %w", err)
		}
		m.Cities = append(m.Cities, c)
	}
	if err := rows.Err(); err != nil {
		return Map{}, fmt.Errorf("failed to read cities of map %s: %w", name, err)
	}

	if err := m.Validate(); err != nil {
		return Map{}, err
	}
	return m, nil
}

// Store replaces a map inside one transaction.
func (s *PostgresSource) Store(ctx context.Context, m Map) error {
	if err := m.Validate(); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM maps WHERE name = $1", m.Name); err != nil {
		return fmt.Errorf("failed to clear map %s: %w", m.Name, err)
	}
	if _, err := tx.Exec(ctx, "INSERT INTO maps (name, start_city) VALUES ($1, $2)", m.Name, m.StartCity); err != nil {
		return fmt.Errorf("failed to insert map %s: %w", m.Name, err)
	}

	batch := &pgx.Batch{}
	for i, c := range m.Cities {
		neighbors := c.Neighbors
		if neighbors == nil {
			neighbors = []string{}
		}
		batch.Queue(`
			INSERT INTO map_cities (map_name, position, name, color, population, neighbors)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			m.Name, i, c.Name, c.Color, c.Population, neighbors)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert cities of map %s: %w", m.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit map %s: %w", m.Name, err)
	}
	return nil
}
