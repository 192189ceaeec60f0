package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"cropcura/internal/storage"
	"cropcura/internal/types"
)

// SchemaSessionStorage creates the session_storage table.
const SchemaSessionStorage = `CREATE TABLE IF NOT EXISTS session_storage (
	scope      TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (scope, key)
)`

// SessionStorageRepository implements storage.KV on the session_storage table.
type SessionStorageRepository struct {
	db DBTX
}

// NewSessionStorageRepository creates a SessionStorageRepository backed by the
// given connection (pool or transaction).
func NewSessionStorageRepository(db DBTX) *SessionStorageRepository {
	return &SessionStorageRepository{db: db}
}

// EnsureSchema creates the backing table if it does not exist.
func (r *SessionStorageRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, SchemaSessionStorage); err != nil {
		return types.NewAppError(types.ErrCodeInternalStorage, "failed to create session_storage table", err)
	}
	return nil
}

// Get implements storage.KV.
func (r *SessionStorageRepository) Get(ctx context.Context, scope, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRow(ctx,
		`SELECT value FROM session_storage WHERE scope = $1 AND key = $2`,
		scope, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, types.NewAppError(types.ErrCodeInternalStorage, "failed to read session storage", err)
	}
	return value, nil
}

// Put implements storage.KV as an upsert.
func (r *SessionStorageRepository) Put(ctx context.Context, scope, key string, value []byte) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO session_storage (scope, key, value, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (scope, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		scope, key, value,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalStorage, "failed to write session storage", err)
	}
	return nil
}

// Delete implements storage.KV.
func (r *SessionStorageRepository) Delete(ctx context.Context, scope, key string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM session_storage WHERE scope = $1 AND key = $2`,
		scope, key,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalStorage, "failed to delete session storage", err)
	}
	return nil
}

// PurgeStale deletes rows not written since before, at most limit per call,
// and returns how many were removed.
func (r *SessionStorageRepository) PurgeStale(ctx context.Context, before time.Time, limit int) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM session_storage WHERE ctid IN (
			SELECT ctid FROM session_storage WHERE updated_at < $1 LIMIT $2
		)`,
		before, limit,
	)
	if err != nil {
		return 0, types.NewAppError(types.ErrCodeInternalStorage, "failed to purge session storage", err)
	}
	return tag.RowsAffected(), nil
}

var _ storage.KV = (*SessionStorageRepository)(nil)
