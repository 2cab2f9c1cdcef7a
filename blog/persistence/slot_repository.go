package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dfryer1193/bitacora/blog/domain"
	"github.com/dfryer1193/bitacora/shared/db"
)

var _ domain.SlotStore = (*SQLiteSlotRepository)(nil)

// SQLiteSlotRepository implements domain.SlotStore on the slots table
type SQLiteSlotRepository struct {
	db *sql.DB
}

// NewSlotRepository creates a new SQLiteSlotRepository from a standard sql.DB
func NewSlotRepository(db *sql.DB) *SQLiteSlotRepository {
	return &SQLiteSlotRepository{
		db: db,
	}
}

const upsertSlotQuery = `
	INSERT INTO slots (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at
`

// Put overwrites the slot within a transaction
func (r *SQLiteSlotRepository) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("slot key cannot be empty")
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)
		_, err := executor.ExecContext(txCtx, upsertSlotQuery, key, string(value), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to upsert slot %s: %w", key, err)
		}
		return nil
	})
}

const getSlotQuery = `
		SELECT value
		FROM slots
		WHERE key = ?
`

// Get reads the slot. A missing row is reported as found == false, not as an error.
func (r *SQLiteSlotRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, fmt.Errorf("slot key cannot be empty")
	}

	var value string
	err := db.GetExecutor(ctx, r.db).QueryRowContext(ctx, getSlotQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get slot %s: %w", key, err)
	}

	return []byte(value), true, nil
}

// Close is a no-op; the connection belongs to the sqlite.SQLiteDB that opened it
func (r *SQLiteSlotRepository) Close() error {
	return nil
}
