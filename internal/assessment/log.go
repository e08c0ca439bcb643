package assessment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LogEntry is one row of the attestation log, the operator-facing history of
// registration attempts and their outcomes.
type LogEntry struct {
	ID          uuid.UUID `json:"id"`
	Fingerprint string    `json:"fingerprint"`
	Company     string    `json:"company,omitempty"`
	CID         string    `json:"cid,omitempty"`
	TxHash      string    `json:"tx_hash,omitempty"`
	Block       uint64    `json:"block,omitempty"`
	Outcome     string    `json:"outcome"`
	CreatedAt   time.Time `json:"created_at"`
}

// AttestationLog persists registration attempts.
type AttestationLog interface {
	Append(ctx context.Context, entry LogEntry) error
	ByFingerprint(ctx context.Context, fingerprint string) ([]LogEntry, error)
}

// MemoryAttestationLog is the in-process AttestationLog.
type MemoryAttestationLog struct {
	mu      sync.RWMutex
	entries []LogEntry
}

func NewMemoryAttestationLog() *MemoryAttestationLog {
	return &MemoryAttestationLog{}
}

func (l *MemoryAttestationLog) Append(_ context.Context, entry LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return nil
}

func (l *MemoryAttestationLog) ByFingerprint(_ context.Context, fingerprint string) ([]LogEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []LogEntry
	for _, entry := range l.entries {
		if entry.Fingerprint == fingerprint {
			out = append(out, entry)
		}
	}
	return out, nil
}
