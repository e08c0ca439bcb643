package anchor

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"cisattest/pkg/platform/sentinel"
)

// MemoryLedger is an in-process Ledger for development and tests. It keeps
// the same semantics as the registry contract: one immutable record per hash,
// duplicates rejected with a revert.
type MemoryLedger struct {
	mu      sync.Mutex
	records map[[32]byte]memoryRecord
	owner   string
	block   uint64
	noCID   bool
	clock   func() time.Time
}

type memoryRecord struct {
	owner     string
	timestamp time.Time
	cid       string
}

// MemoryOption configures a MemoryLedger.
type MemoryOption func(*MemoryLedger)

// WithoutCIDSupport simulates a contract lacking the content-address
// functions.
func WithoutCIDSupport() MemoryOption {
	return func(l *MemoryLedger) { l.noCID = true }
}

// WithClock sets the timestamp source for testability.
func WithClock(clock func() time.Time) MemoryOption {
	return func(l *MemoryLedger) { l.clock = clock }
}

// NewMemoryLedger creates an empty in-memory ledger owned by a fixed dev
// address.
func NewMemoryLedger(opts ...MemoryOption) *MemoryLedger {
	l := &MemoryLedger{
		records: make(map[[32]byte]memoryRecord),
		owner:   "0x00000000000000000000000000000000000dE0de",
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *MemoryLedger) Register(_ context.Context, hash [32]byte) (TxRef, error) {
	return l.store(hash, "")
}

func (l *MemoryLedger) RegisterWithCID(_ context.Context, hash [32]byte, cid string) (TxRef, error) {
	if l.noCID {
		return TxRef{}, sentinel.ErrUnsupported
	}
	return l.store(hash, cid)
}

func (l *MemoryLedger) store(hash [32]byte, cid string) (TxRef, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.records[hash]; exists {
		return TxRef{}, &RevertError{Reason: "hash already registered"}
	}
	l.block++
	l.records[hash] = memoryRecord{
		owner:     l.owner,
		timestamp: l.clock().UTC().Truncate(time.Second),
		cid:       cid,
	}
	return TxRef{Hash: "0x" + hex.EncodeToString(hash[:]), Block: l.block}, nil
}

func (l *MemoryLedger) Verify(_ context.Context, hash [32]byte) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[hash]
	if !ok {
		return Record{}, nil
	}
	return Record{Found: true, Owner: rec.owner, Timestamp: rec.timestamp}, nil
}

func (l *MemoryLedger) CID(_ context.Context, hash [32]byte) (string, error) {
	if l.noCID {
		return "", sentinel.ErrUnsupported
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.records[hash].cid, nil
}
