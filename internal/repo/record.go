// Package repo contains all storage access logic for the travel aggregator.
// RecordRepo has three implementations: Postgres (this file), MongoDB and an
// in-memory slice. No business logic lives here, only queries and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/travel-aggregator/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RecordRepo defines the persistence operations for TravelRecords.
// The store is append-only: there is no update or delete.
type RecordRepo interface {
	// Create appends a record exactly as given (ID and StoredAt already
	// assigned by the caller) and returns the persisted form.
	Create(ctx context.Context, rec domain.TravelRecord) (domain.TravelRecord, error)

	// List returns every record, most recently stored first.
	List(ctx context.Context) ([]domain.TravelRecord, error)
}

// pgRecordRepo is the Postgres implementation of RecordRepo.
type pgRecordRepo struct {
	db db
}

// NewRecordRepo constructs a RecordRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewRecordRepo(db db) RecordRepo {
	return &pgRecordRepo{db: db}
}

// Create inserts a new travel_records row and returns the full persisted record.
func (r *pgRecordRepo) Create(ctx context.Context, rec domain.TravelRecord) (domain.TravelRecord, error) {
	const q = `
		INSERT INTO travel_records
			(id, country, capital, population, temperature, weather_description, capital_details, stored_at)
		VALUES (@id, @country, @capital, @population, @temperature, @weather_description, @capital_details, @stored_at)
		RETURNING id, country, capital, population, temperature, weather_description, capital_details, stored_at`

	args := pgx.NamedArgs{
		"id":                  rec.ID,
		"country":             rec.Country,
		"capital":             rec.Capital,
		"population":          rec.Population,
		"temperature":         rec.Temperature,
		"weather_description": rec.WeatherDescription,
		"capital_details":     []byte(rec.CapitalDetails), // nil becomes NULL, "null" a jsonb null
		"stored_at":           rec.StoredAt,
	}

	result, err := scanRecord(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TravelRecord{}, fmt.Errorf("repo.RecordRepo.Create: %w", err)
	}
	return result, nil
}

// List returns all records ordered by stored_at descending. id breaks ties;
// ids are UUIDv7 so they sort in creation order.
func (r *pgRecordRepo) List(ctx context.Context) ([]domain.TravelRecord, error) {
	const q = `
		SELECT id, country, capital, population, temperature, weather_description, capital_details, stored_at
		FROM travel_records
		ORDER BY stored_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.RecordRepo.List: %w", err)
	}
	defer rows.Close()

	var records []domain.TravelRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.RecordRepo.List: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RecordRepo.List: rows: %w", err)
	}

	return records, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanRecord to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord maps a single database row into a domain.TravelRecord.
func scanRecord(s scanner) (domain.TravelRecord, error) {
	var (
		rec      domain.TravelRecord
		id       pgtype.UUID
		details  []byte
		storedAt time.Time
	)

	err := s.Scan(&id, &rec.Country, &rec.Capital, &rec.Population, &rec.Temperature,
		&rec.WeatherDescription, &details, &storedAt)
	if err != nil {
		return domain.TravelRecord{}, err
	}

	rec.ID = uuid.UUID(id.Bytes)
	rec.StoredAt = storedAt.UTC()
	if details != nil {
		rec.CapitalDetails = json.RawMessage(details)
	}

	return rec, nil
}
