package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"tweetsearch/internal/models"
)

const searchRecordColumns = `id, phrase, count, last_searched_at, created_at`

// uniqueViolation is the Postgres SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

func scanSearchRecord(row pgx.Row) (*models.SearchRecord, error) {
	var r models.SearchRecord
	if err := row.Scan(&r.ID, &r.Phrase, &r.Count, &r.LastSearchedAt, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// RecordSearch atomically creates the record for phrase if needed, increments its
// count by one and refreshes last_searched_at. The phrase must already be normalized.
func (d *DB) RecordSearch(ctx context.Context, phrase string) (*models.SearchRecord, error) {
	query := `
		INSERT INTO search_records (phrase, count, last_searched_at)
		VALUES ($1, 1, clock_timestamp())
		ON CONFLICT (phrase) DO UPDATE
		SET count = search_records.count + 1, last_searched_at = clock_timestamp()
		RETURNING ` + searchRecordColumns

	record, err := scanSearchRecord(d.Pool.QueryRow(ctx, query, phrase))
	if err != nil {
		return nil, fmt.Errorf("record search: %w", err)
	}
	return record, nil
}

// GetOrCreateSearchRecord returns the record for phrase, creating it with a zero count if missing.
// The returned bool is true when the record was newly created by this call.
func (d *DB) GetOrCreateSearchRecord(ctx context.Context, phrase string) (*models.SearchRecord, bool, error) {
	query := `
		INSERT INTO search_records (phrase, count, last_searched_at)
		VALUES ($1, 0, clock_timestamp())
		ON CONFLICT (phrase) DO NOTHING
		RETURNING ` + searchRecordColumns

	record, err := scanSearchRecord(d.Pool.QueryRow(ctx, query, phrase))
	if err == nil {
		return record, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	// Conflict: another request created it first
	record, err = d.GetSearchRecordByPhrase(ctx, phrase)
	if err != nil {
		return nil, false, err
	}
	return record, false, nil
}

// GetSearchRecordByPhrase retrieves a record by its normalized phrase.
func (d *DB) GetSearchRecordByPhrase(ctx context.Context, phrase string) (*models.SearchRecord, error) {
	query := `SELECT ` + searchRecordColumns + ` FROM search_records WHERE phrase = $1`

	record, err := scanSearchRecord(d.Pool.QueryRow(ctx, query, phrase))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSearchRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// GetSearchRecordByID retrieves a record by ID.
func (d *DB) GetSearchRecordByID(ctx context.Context, id uuid.UUID) (*models.SearchRecord, error) {
	query := `SELECT ` + searchRecordColumns + ` FROM search_records WHERE id = $1`

	record, err := scanSearchRecord(d.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSearchRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListSearchRecords returns records ordered by most recently searched first.
// A limit of zero or less returns every record.
func (d *DB) ListSearchRecords(ctx context.Context, limit int) ([]models.SearchRecord, error) {
	query := `SELECT ` + searchRecordColumns + ` FROM search_records ORDER BY last_searched_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.SearchRecord{}
	for rows.Next() {
		record, err := scanSearchRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// CreateSearchRecord inserts a record with the given phrase and count.
func (d *DB) CreateSearchRecord(ctx context.Context, record *models.SearchRecord) error {
	query := `
		INSERT INTO search_records (phrase, count, last_searched_at)
		VALUES ($1, $2, clock_timestamp())
		RETURNING id, last_searched_at, created_at
	`
	err := d.Pool.QueryRow(ctx, query, record.Phrase, record.Count).Scan(
		&record.ID, &record.LastSearchedAt, &record.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicatePhrase
	}
	return err
}

// UpdateSearchRecord saves phrase and count for an existing record and refreshes last_searched_at.
func (d *DB) UpdateSearchRecord(ctx context.Context, record *models.SearchRecord) error {
	query := `
		UPDATE search_records
		SET phrase = $2, count = $3, last_searched_at = clock_timestamp()
		WHERE id = $1
		RETURNING last_searched_at, created_at
	`
	err := d.Pool.QueryRow(ctx, query, record.ID, record.Phrase, record.Count).Scan(
		&record.LastSearchedAt, &record.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSearchRecordNotFound
	}
	if isUniqueViolation(err) {
		return ErrDuplicatePhrase
	}
	return err
}

// DeleteSearchRecord removes a record by ID.
func (d *DB) DeleteSearchRecord(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM search_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrSearchRecordNotFound
	}
	return nil
}
