//go:build integration

package assessment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cisattest/pkg/testutil/containers"
)

func newPostgresLog(t *testing.T) *PostgresAttestationLog {
	pc := containers.NewPostgresContainer(t)
	log := NewPostgresAttestationLog(pc.DB)
	require.NoError(t, log.EnsureSchema(context.Background()))
	return log
}

func TestPostgresAttestationLog(t *testing.T) {
	ctx := context.Background()
	log := newPostgresLog(t)

	const fingerprint = "0xba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	first := LogEntry{
		ID:          uuid.New(),
		Fingerprint: fingerprint,
		Company:     "Acme Corp",
		CID:         "QmTest",
		TxHash:      "0xcafe",
		Block:       42,
		Outcome:     "registered",
		CreatedAt:   time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	second := LogEntry{
		ID:          uuid.New(),
		Fingerprint: fingerprint,
		Outcome:     "already_registered",
		CreatedAt:   first.CreatedAt.Add(time.Minute),
	}

	require.NoError(t, log.Append(ctx, first))
	require.NoError(t, log.Append(ctx, second))

	t.Run("lists entries in creation order", func(t *testing.T) {
		entries, err := log.ByFingerprint(ctx, fingerprint)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, first.ID, entries[0].ID)
		assert.Equal(t, first.Company, entries[0].Company)
		assert.Equal(t, first.CID, entries[0].CID)
		assert.Equal(t, first.TxHash, entries[0].TxHash)
		assert.Equal(t, first.Block, entries[0].Block)
		assert.Equal(t, first.Outcome, entries[0].Outcome)
		// Driver may hand back a different location for the same instant.
		assert.True(t, first.CreatedAt.Equal(entries[0].CreatedAt))

		assert.Equal(t, second.ID, entries[1].ID)
		assert.Equal(t, second.Outcome, entries[1].Outcome)
	})

	t.Run("unknown fingerprint is empty", func(t *testing.T) {
		entries, err := log.ByFingerprint(ctx, "0x"+"00"+first.Fingerprint[4:])
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("appending the same ID twice is idempotent", func(t *testing.T) {
		require.NoError(t, log.Append(ctx, first))
		entries, err := log.ByFingerprint(ctx, fingerprint)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("schema creation is repeatable", func(t *testing.T) {
		require.NoError(t, log.EnsureSchema(ctx))
	})
}
