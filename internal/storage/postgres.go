package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/XSAM/otelsql"
	_ "github.com/lib/pq"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/entnt-dental/clinic-service/internal/store"
)

// StorageKey is the fixed key the dataset is stored under.
const StorageKey = "dental-app-data"

// Connect creates a connection to PostgreSQL with OpenTelemetry instrumentation
func Connect() (*sql.DB, error) {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	if host == "" || user == "" || password == "" || dbname == "" {
		return nil, fmt.Errorf("missing required database environment variables")
	}

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname,
	)

	db, err := otelsql.Open("postgres", connStr,
		otelsql.WithAttributes(
			semconv.DBSystemPostgreSQL,
			semconv.DBName(dbname),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = otelsql.RegisterDBStatsMetrics(db,
		otelsql.WithAttributes(
			semconv.DBSystemPostgreSQL,
			semconv.DBName(dbname),
		),
	)
	if err != nil {
		log.Printf("Warning: failed to register database stats metrics: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	log.Println("✓ Connected to PostgreSQL database (OpenTelemetry enabled)")
	return db, nil
}

// PostgresBackend stores the dataset as a single JSONB row, keyed by
// StorageKey. It is the durable-slot contract on Postgres, not a
// relational mapping of the entities.
type PostgresBackend struct {
	db   *sql.DB
	key  string
	seed SeedFunc
}

// NewPostgresBackend creates a Postgres backend and ensures its table exists.
func NewPostgresBackend(ctx context.Context, db *sql.DB) (*PostgresBackend, error) {
	b := &PostgresBackend{db: db, key: StorageKey, seed: store.Seed}

	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS app_state (
			key        TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return nil, fmt.Errorf("failed to create app_state table: %w", err)
	}
	return b, nil
}

// Load reads the stored document, degrading to the seed dataset on a
// missing row or invalid content.
func (b *PostgresBackend) Load(ctx context.Context) (store.AppData, error) {
	var raw []byte
	query := `SELECT data FROM app_state WHERE key = $1`
	err := b.db.QueryRowContext(ctx, query, b.key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return b.reseed(ctx), nil
		}
		return store.AppData{}, fmt.Errorf("failed to load app state: %w", err)
	}

	var data store.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Printf("[ERROR] Corrupt app state row, falling back to seed data: %v", err)
		return b.reseed(ctx), nil
	}
	if !data.Valid() {
		log.Printf("[ERROR] App state row is missing collections, falling back to seed data")
		return b.reseed(ctx), nil
	}
	return data, nil
}

// Save upserts the serialized dataset.
func (b *PostgresBackend) Save(ctx context.Context, data store.AppData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal app data: %w", err)
	}

	query := `
		INSERT INTO app_state (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
	if _, err := b.db.ExecContext(ctx, query, b.key, raw); err != nil {
		return fmt.Errorf("failed to save app state: %w", err)
	}
	return nil
}

func (b *PostgresBackend) reseed(ctx context.Context) store.AppData {
	data := b.seed()
	if err := b.Save(ctx, data); err != nil {
		log.Printf("[ERROR] Failed to persist seed data: %v", err)
	}
	return data
}
