package repository

import (
	"context"
	"fmt"
	"time"

	"poli-assistant/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	id         SERIAL PRIMARY KEY,
	building   TEXT NOT NULL,
	number     TEXT NOT NULL,
	names_en   JSONB NOT NULL DEFAULT '[]',
	floor      TEXT NOT NULL DEFAULT '',
	wing_en    TEXT NOT NULL DEFAULT '',
	street_en  TEXT NOT NULL DEFAULT '',
	code       INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS chat_turns (
	id                 BIGSERIAL PRIMARY KEY,
	session_id         TEXT NOT NULL,
	prompt             TEXT NOT NULL,
	response           TEXT NOT NULL,
	outcome            TEXT NOT NULL,
	room_key           TEXT NOT NULL DEFAULT '',
	navigation_started BOOLEAN NOT NULL DEFAULT FALSE,
	response_time_ms   INTEGER NOT NULL DEFAULT 0,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return NewPostgresRepositoryFromDB(db), nil
}

// NewPostgresRepositoryFromDB wraps an existing connection
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks the connection
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// EnsureSchema creates the rooms and chat_turns tables when missing
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// LoadRooms reads every room in insertion order, skipping rows without building or number
func (r *PostgresRepository) LoadRooms(ctx context.Context) ([]model.RoomRecord, error) {
	query := `
		SELECT TRIM(building) AS building, TRIM(number) AS number,
			names_en, floor, wing_en, street_en, code
		FROM rooms
		WHERE TRIM(building) <> '' AND TRIM(number) <> ''
		ORDER BY id
	`
	var rooms []model.RoomRecord
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}
	return rooms, nil
}

// LogTurn stores one handled chat turn
func (r *PostgresRepository) LogTurn(ctx context.Context, turn model.TurnRecord) error {
	query := `
		INSERT INTO chat_turns (session_id, prompt, response, outcome, room_key, navigation_started, response_time_ms)
		VALUES (:session_id, :prompt, :response, :outcome, :room_key, :navigation_started, :response_time_ms)
	`
	if _, err := r.db.NamedExecContext(ctx, query, turn); err != nil {
		return fmt.Errorf("failed to log turn: %w", err)
	}
	return nil
}

// ReplaceRooms swaps the rooms table contents for rooms in one transaction, keeping their order
func (r *PostgresRepository) ReplaceRooms(ctx context.Context, rooms []model.RoomRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms`); err != nil {
		return fmt.Errorf("failed to clear rooms: %w", err)
	}

	query := `
		INSERT INTO rooms (building, number, names_en, floor, wing_en, street_en, code)
		VALUES (:building, :number, :names_en, :floor, :wing_en, :street_en, :code)
	`
	for _, room := range rooms {
		if room.Names == nil {
			room.Names = model.JSONArray{}
		}
		if _, err := tx.NamedExecContext(ctx, query, room); err != nil {
			return fmt.Errorf("failed to insert room %s: %w", room.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rooms: %w", err)
	}
	return nil
}
