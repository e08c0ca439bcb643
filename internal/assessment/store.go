package assessment

import (
	"context"
	"sync"

	"cisattest/internal/report"
	"cisattest/pkg/platform/sentinel"
)

// StoredReport is a submitted assessment report together with its canonical
// encoding and fingerprint. The canonical bytes are kept verbatim so the pin
// upload is byte-identical to what was hashed.
type StoredReport struct {
	Report      report.Report
	Canonical   []byte
	Fingerprint report.Hash
	CID         string
}

// ReportStore keeps submitted reports keyed by fingerprint. Records are
// write-once; only the content identifier may be set after the fact.
type ReportStore interface {
	Save(ctx context.Context, stored StoredReport) error
	Get(ctx context.Context, fingerprint report.Hash) (StoredReport, error)
	SetCID(ctx context.Context, fingerprint report.Hash, cid string) error
}

// MemoryReportStore is the in-process ReportStore.
type MemoryReportStore struct {
	mu      sync.RWMutex
	reports map[report.Hash]StoredReport
}

func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{reports: make(map[report.Hash]StoredReport)}
}

func (s *MemoryReportStore) Save(_ context.Context, stored StoredReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[stored.Fingerprint]; exists {
		return sentinel.ErrConflict
	}
	s.reports[stored.Fingerprint] = stored
	return nil
}

func (s *MemoryReportStore) Get(_ context.Context, fingerprint report.Hash) (StoredReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.reports[fingerprint]
	if !ok {
		return StoredReport{}, sentinel.ErrNotFound
	}
	return stored, nil
}

func (s *MemoryReportStore) SetCID(_ context.Context, fingerprint report.Hash, cid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.reports[fingerprint]
	if !ok {
		return sentinel.ErrNotFound
	}
	stored.CID = cid
	s.reports[fingerprint] = stored
	return nil
}
