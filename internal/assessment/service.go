// Package assessment orchestrates the self-assessment lifecycle: scoring a
// questionnaire into a report, pinning the canonical document, and anchoring
// its fingerprint on the ledger.
package assessment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cisattest/internal/anchor"
	"cisattest/internal/audit"
	"cisattest/internal/catalog"
	"cisattest/internal/maturity"
	"cisattest/internal/pin"
	"cisattest/internal/platform/metrics"
	"cisattest/internal/report"
	dErrors "cisattest/pkg/domain-errors"
	"cisattest/pkg/platform/sentinel"
)

// Service wires the catalog, scoring, fingerprinting, pinning, and anchoring
// into the operations the transport layer exposes.
type Service struct {
	catalog    []catalog.Safeguard
	reports    ReportStore
	attestLog  AttestationLog
	anchor     *anchor.Service
	pinner     pin.Uploader
	audit      *audit.Publisher
	metrics    *metrics.Metrics
	log        *slog.Logger
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPinner attaches an IPFS pinning provider.
func WithPinner(p pin.Uploader) Option {
	return func(s *Service) { s.pinner = p }
}

// WithAudit attaches the audit publisher.
func WithAudit(p *audit.Publisher) Option {
	return func(s *Service) { s.audit = p }
}

// WithMetrics attaches operation metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock sets the timestamp source for testability.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds the assessment service.
func NewService(
	sgs []catalog.Safeguard,
	reports ReportStore,
	attestLog AttestationLog,
	anchorSvc *anchor.Service,
	log *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		catalog:   sgs,
		reports:   reports,
		attestLog: attestLog,
		anchor:    anchorSvc,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the safeguard catalog in canonical order.
func (s *Service) Catalog() []catalog.Safeguard {
	return catalog.Sorted(s.catalog)
}

// SubmitInput is a questionnaire submission. Unanswered safeguards default to
// not implemented; unknown answer strings do too.
type SubmitInput struct {
	Company     string
	GeneratedAt time.Time
	Answers     map[string]string
}

// SubmitResult is the scored and fingerprinted report.
type SubmitResult struct {
	Fingerprint report.Hash
	Report      report.Report
}

// Submit scores the questionnaire, builds the canonical report, and stores it
// keyed by fingerprint. Submitting identical content twice yields the same
// fingerprint and the original stored report.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	answers := make(map[string]maturity.Status, len(in.Answers))
	for id, raw := range in.Answers {
		answers[id] = maturity.ParseStatus(raw)
	}

	generatedAt := in.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = s.now()
	}

	rep, err := report.Build(in.Company, generatedAt, s.catalog, answers)
	if err != nil {
		return SubmitResult{}, err
	}
	canonical, err := rep.Canonical()
	if err != nil {
		return SubmitResult{}, dErrors.Wrap(dErrors.CodeInternal, "encode canonical report", err)
	}
	fingerprint, err := report.Sum(canonical, report.AlgorithmSHA256)
	if err != nil {
		return SubmitResult{}, dErrors.Wrap(dErrors.CodeInternal, "fingerprint report", err)
	}

	err = s.reports.Save(ctx, StoredReport{
		Report:      rep,
		Canonical:   canonical,
		Fingerprint: fingerprint,
	})
	if err != nil && !errors.Is(err, sentinel.ErrConflict) {
		return SubmitResult{}, dErrors.Wrap(dErrors.CodeInternal, "store report", err)
	}

	s.metrics.IncAssessment()
	s.audit.Emit(ctx, audit.Event{
		Action:      audit.ActionAssessmentSubmitted,
		Company:     rep.Company,
		Fingerprint: string(fingerprint),
	})
	s.log.Info("assessment submitted",
		"company", rep.Company,
		"fingerprint", string(fingerprint),
		"cmmi_avg", rep.AverageLevel)

	return SubmitResult{Fingerprint: fingerprint, Report: rep}, nil
}

// Report returns a stored report by fingerprint.
func (s *Service) Report(ctx context.Context, raw string) (StoredReport, error) {
	fingerprint, ok := report.Normalize(raw)
	if !ok {
		return StoredReport{}, dErrors.New(dErrors.CodeBadRequest, "invalid fingerprint")
	}
	stored, err := s.reports.Get(ctx, fingerprint)
	if errors.Is(err, sentinel.ErrNotFound) {
		return StoredReport{}, dErrors.New(dErrors.CodeNotFound, "report not found")
	}
	if err != nil {
		return StoredReport{}, dErrors.Wrap(dErrors.CodeInternal, "load report", err)
	}
	return stored, nil
}

// HashContent hashes arbitrary content with the requested algorithm and
// returns the canonical algorithm name alongside the digest.
func (s *Service) HashContent(data []byte, algorithm string) (report.Hash, report.Algorithm, error) {
	algo, err := report.ParseAlgorithm(algorithm)
	if err != nil {
		return "", "", dErrors.New(dErrors.CodeBadRequest, "unknown hash algorithm")
	}
	h, err := report.Sum(data, algo)
	if err != nil {
		return "", "", dErrors.Wrap(dErrors.CodeInternal, "hash content", err)
	}
	s.metrics.IncHashRequest(string(algo))
	return h, algo, nil
}

// Pin uploads the canonical report document to the configured pinning
// provider and records the content identifier. Pinning twice returns the
// existing identifier without a second upload.
func (s *Service) Pin(ctx context.Context, raw string) (string, error) {
	stored, err := s.Report(ctx, raw)
	if err != nil {
		return "", err
	}
	if stored.CID != "" {
		return stored.CID, nil
	}
	if s.pinner == nil {
		return "", dErrors.New(dErrors.CodeUnsupported, "no pinning provider configured")
	}

	cid, err := s.pinner.Upload(ctx, stored.Report.PinName(), stored.Canonical)
	if err != nil {
		s.metrics.IncPinUpload(s.pinner.Name(), "error")
		return "", dErrors.Wrap(dErrors.CodeUnavailable, "pin upload failed", err)
	}
	s.metrics.IncPinUpload(s.pinner.Name(), "ok")

	if err := s.reports.SetCID(ctx, stored.Fingerprint, cid); err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "record content identifier", err)
	}
	s.audit.Emit(ctx, audit.Event{
		Action:      audit.ActionReportPinned,
		Company:     stored.Report.Company,
		Fingerprint: string(stored.Fingerprint),
		CID:         cid,
	})
	s.log.Info("report pinned",
		"provider", s.pinner.Name(),
		"fingerprint", string(stored.Fingerprint),
		"cid", cid)
	return cid, nil
}

// Register anchors a fingerprint on the ledger. When the fingerprint belongs
// to a stored report with a pinned content identifier, the identifier is
// registered alongside the hash; a ledger without content-address support
// falls back to the plain registration.
func (s *Service) Register(ctx context.Context, raw string) (anchor.RegisterResult, error) {
	fingerprint, ok := report.Normalize(raw)
	if !ok {
		return anchor.RegisterResult{}, dErrors.New(dErrors.CodeBadRequest, "invalid fingerprint")
	}

	var (
		company string
		cid     string
	)
	if stored, err := s.reports.Get(ctx, fingerprint); err == nil {
		company = stored.Report.Company
		cid = stored.CID
	}

	result, err := s.registerOnLedger(ctx, fingerprint, cid)
	if err != nil {
		return anchor.RegisterResult{}, err
	}

	entry := LogEntry{
		ID:          uuid.New(),
		Fingerprint: string(fingerprint),
		Company:     company,
		CID:         cid,
		TxHash:      result.Tx.Hash,
		Block:       result.Tx.Block,
		Outcome:     string(result.Outcome),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.attestLog.Append(ctx, entry); err != nil {
		s.log.Error("attestation log append failed",
			"fingerprint", string(fingerprint), "error", err)
	}

	s.audit.Emit(ctx, audit.Event{
		Action:      audit.ActionAttestationRegistered,
		Company:     company,
		Fingerprint: string(fingerprint),
		CID:         cid,
		Outcome:     string(result.Outcome),
	})
	return result, nil
}

func (s *Service) registerOnLedger(ctx context.Context, fingerprint report.Hash, cid string) (anchor.RegisterResult, error) {
	if cid == "" {
		return s.anchor.Register(ctx, fingerprint)
	}
	result, err := s.anchor.RegisterWithCID(ctx, fingerprint, cid)
	if errors.Is(err, sentinel.ErrUnsupported) {
		s.log.Warn("ledger lacks content-address support, registering hash only",
			"fingerprint", string(fingerprint))
		return s.anchor.Register(ctx, fingerprint)
	}
	return result, err
}

// Verify looks up a fingerprint on the ledger.
func (s *Service) Verify(ctx context.Context, raw string) (anchor.VerifyResult, error) {
	fingerprint, ok := report.Normalize(raw)
	if !ok {
		return anchor.VerifyResult{}, dErrors.New(dErrors.CodeBadRequest, "invalid fingerprint")
	}
	result, err := s.anchor.Verify(ctx, fingerprint)
	if err != nil {
		return anchor.VerifyResult{}, err
	}

	outcome := "not_found"
	if result.Found {
		outcome = "found"
	}
	s.audit.Emit(ctx, audit.Event{
		Action:      audit.ActionAttestationVerified,
		Fingerprint: string(fingerprint),
		CID:         result.CID,
		Outcome:     outcome,
	})
	return result, nil
}

// History returns the attestation log entries for a fingerprint.
func (s *Service) History(ctx context.Context, raw string) ([]LogEntry, error) {
	fingerprint, ok := report.Normalize(raw)
	if !ok {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid fingerprint")
	}
	entries, err := s.attestLog.ByFingerprint(ctx, string(fingerprint))
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load attestation log", err)
	}
	return entries, nil
}
