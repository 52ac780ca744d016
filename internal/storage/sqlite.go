package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// SQLiteStore is the durable backend: records live in a table ordered by an
// autoincrement sequence (insertion order, matching the blob store), settings
// as a single JSON payload row.
type SQLiteStore struct {
	db     *sql.DB
	logger *log.Logger
	now    func() time.Time
}

func NewSQLiteStore(dbPath string, logger *log.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.WithComponent(log.ComponentStorage),
		now:    time.Now,
	}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetRecords(ctx context.Context) []core.Record {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, amount, description, category, date, created_at, updated_at
		 FROM records ORDER BY seq`)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed reading records, serving empty collection", log.FieldError, err)
		return nil
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var r core.Record
		if err := rows.Scan(&r.ID, &r.Amount, &r.Description, &r.Category, &r.Date, &r.CreatedAt, &r.UpdatedAt); err != nil {
			s.logger.ErrorContext(ctx, "Failed scanning record row", log.FieldError, err)
			return nil
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		s.logger.ErrorContext(ctx, "Failed iterating record rows", log.FieldError, err)
		return nil
	}
	return records
}

func (s *SQLiteStore) SaveRecord(ctx context.Context, r core.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (id, amount, description, category, date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Amount, r.Description, r.Category, r.Date, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	s.logger.InfoContext(ctx, "Record saved",
		log.FieldRecordID, r.ID,
		log.FieldCategory, r.Category,
		log.FieldAmount, r.Amount)
	return nil
}

func (s *SQLiteStore) UpdateRecord(ctx context.Context, id string, patch core.RecordPatch) (core.Record, error) {
	// Ids may repeat after an archive import; the patch lands on the
	// earliest row only, mirroring the blob store.
	var seq int64
	var r core.Record
	err := s.db.QueryRowContext(ctx,
		`SELECT seq, id, amount, description, category, date, created_at, updated_at
		 FROM records WHERE id = ? ORDER BY seq LIMIT 1`, id).
		Scan(&seq, &r.ID, &r.Amount, &r.Description, &r.Category, &r.Date, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Record{}, core.ErrRecordNotFound
	}
	if err != nil {
		return core.Record{}, fmt.Errorf("read record %s: %w", id, err)
	}

	updated := patch.Apply(r)
	updated.UpdatedAt = s.now().UTC().Format(time.RFC3339)

	_, err = s.db.ExecContext(ctx,
		`UPDATE records SET amount = ?, description = ?, category = ?, date = ?, updated_at = ?
		 WHERE seq = ?`,
		updated.Amount, updated.Description, updated.Category, updated.Date, updated.UpdatedAt, seq)
	if err != nil {
		return core.Record{}, fmt.Errorf("update record %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Record updated", log.FieldRecordID, id)
	return updated, nil
}

func (s *SQLiteStore) DeleteRecord(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("reset records: %w", err)
	}
	s.logger.WarnContext(ctx, "All records cleared")
	return nil
}

func (s *SQLiteStore) GetSettings(ctx context.Context) core.Settings {
	settings := core.DefaultSettings()

	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM settings WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return settings
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed reading settings, serving defaults", log.FieldError, err)
		return settings
	}
	if err := json.Unmarshal([]byte(payload), &settings); err != nil {
		s.logger.ErrorContext(ctx, "Malformed settings payload, serving defaults", log.FieldError, err)
		return core.DefaultSettings()
	}
	return settings.Sanitized()
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, settings core.Settings) error {
	payload, err := json.Marshal(settings.Sanitized())
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (id, payload) VALUES (1, ?)
		 ON CONFLICT (id) DO UPDATE SET payload = excluded.payload`,
		string(payload))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.logger.InfoContext(ctx, "Settings saved")
	return nil
}
