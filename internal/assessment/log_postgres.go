package assessment

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresAttestationLog persists the attestation log in PostgreSQL so the
// registration history survives restarts.
type PostgresAttestationLog struct {
	db *sql.DB
}

func NewPostgresAttestationLog(db *sql.DB) *PostgresAttestationLog {
	return &PostgresAttestationLog{db: db}
}

// EnsureSchema creates the attestation_log table when it does not exist yet.
func (l *PostgresAttestationLog) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS attestation_log (
			id           UUID PRIMARY KEY,
			fingerprint  TEXT NOT NULL,
			company      TEXT NOT NULL DEFAULT '',
			cid          TEXT NOT NULL DEFAULT '',
			tx_hash      TEXT NOT NULL DEFAULT '',
			block_number BIGINT NOT NULL DEFAULT 0,
			outcome      TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS attestation_log_fingerprint_idx
			ON attestation_log (fingerprint);
	`
	if _, err := l.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create attestation_log schema: %w", err)
	}
	return nil
}

func (l *PostgresAttestationLog) Append(ctx context.Context, entry LogEntry) error {
	query := `
		INSERT INTO attestation_log (
			id, fingerprint, company, cid, tx_hash, block_number, outcome, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := l.db.ExecContext(ctx, query,
		entry.ID,
		entry.Fingerprint,
		entry.Company,
		entry.CID,
		entry.TxHash,
		int64(entry.Block),
		entry.Outcome,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert attestation log entry: %w", err)
	}
	return nil
}

func (l *PostgresAttestationLog) ByFingerprint(ctx context.Context, fingerprint string) ([]LogEntry, error) {
	query := `
		SELECT id, fingerprint, company, cid, tx_hash, block_number, outcome, created_at
		FROM attestation_log
		WHERE fingerprint = $1
		ORDER BY created_at ASC
	`
	rows, err := l.db.QueryContext(ctx, query, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("query attestation log: %w", err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var (
			entry LogEntry
			block int64
		)
		err := rows.Scan(
			&entry.ID,
			&entry.Fingerprint,
			&entry.Company,
			&entry.CID,
			&entry.TxHash,
			&block,
			&entry.Outcome,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan attestation log entry: %w", err)
		}
		entry.Block = uint64(block)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attestation log: %w", err)
	}
	return entries, nil
}
