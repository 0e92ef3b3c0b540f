package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/signcircle/backend/internal/db"
	"github.com/signcircle/backend/internal/domain"
)

// SnapshotArchive persists serialized entity records so the in-memory
// registries can be rebuilt after a restart.
type SnapshotArchive interface {
	Save(ctx context.Context, kind, id string, record domain.Record) error
	LoadKind(ctx context.Context, kind string) ([]domain.Record, error)
	Delete(ctx context.Context, kind, id string) error
}

// PostgresSnapshotArchive stores entity snapshots as jsonb rows keyed by
// entity kind and id.
type PostgresSnapshotArchive struct {
	pool db.Pool
}

// NewPostgresSnapshotArchive constructs a snapshot archive backed by PostgreSQL.
func NewPostgresSnapshotArchive(pool db.Pool) *PostgresSnapshotArchive {
	return &PostgresSnapshotArchive{pool: pool}
}

// Save upserts the serialized record for an entity. Repeated saves of the
// same kind and id replace the stored payload but keep the original
// archive position, so reload order matches first insertion order.
func (a *PostgresSnapshotArchive) Save(ctx context.Context, kind, id string, record domain.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode snapshot %s/%s: %w", kind, id, err)
	}

	conn, err := a.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO snapshots (kind, entity_id, payload, saved_at)
        VALUES ($1, $2, $3, now())
        ON CONFLICT (kind, entity_id)
        DO UPDATE SET payload = EXCLUDED.payload, saved_at = now()
    `, kind, id, payload)
	if err != nil {
		return fmt.Errorf("upsert snapshot %s/%s: %w", kind, id, err)
	}

	return nil
}

// LoadKind returns every archived record of the given kind in archive order.
func (a *PostgresSnapshotArchive) LoadKind(ctx context.Context, kind string) ([]domain.Record, error) {
	conn, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT payload
        FROM snapshots
        WHERE kind = $1
        ORDER BY seq ASC
    `, kind)
	if err != nil {
		return nil, fmt.Errorf("query snapshots for %s: %w", kind, err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan snapshot payload: %w", err)
		}

		var record domain.Record
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("decode snapshot payload: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	return records, nil
}

// Delete removes an archived record. Deleting an absent row is not an error.
func (a *PostgresSnapshotArchive) Delete(ctx context.Context, kind, id string) error {
	conn, err := a.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        DELETE FROM snapshots
        WHERE kind = $1 AND entity_id = $2
    `, kind, id); err != nil {
		return fmt.Errorf("delete snapshot %s/%s: %w", kind, id, err)
	}

	return nil
}

var _ SnapshotArchive = (*PostgresSnapshotArchive)(nil)
