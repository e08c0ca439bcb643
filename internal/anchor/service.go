package anchor

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"cisattest/internal/platform/metrics"
	"cisattest/internal/report"
	"cisattest/pkg/platform/sentinel"
)

// Outcome tags the result of a registration attempt. AlreadyRegistered is a
// success-equivalent: the fingerprint is on the ledger either way, so repeated
// registration attempts are idempotent from the caller's perspective.
type Outcome string

const (
	OutcomeRegistered        Outcome = "registered"
	OutcomeAlreadyRegistered Outcome = "already_registered"
)

// RegisterResult reports the outcome of a registration. Tx is zero-valued for
// OutcomeAlreadyRegistered because no new transaction was sent.
type RegisterResult struct {
	Outcome Outcome
	Tx      TxRef
}

// VerifyResult merges the verification record with the optional content
// address stored alongside it.
type VerifyResult struct {
	Found     bool      `json:"found"`
	Owner     string    `json:"owner,omitempty"`
	Timestamp time.Time `json:"timestamp,omitzero"`
	CID       string    `json:"cid,omitempty"`
}

// VerifyCache is an optional read-through cache for verification lookups.
type VerifyCache interface {
	Get(ctx context.Context, h report.Hash) (VerifyResult, bool)
	Put(ctx context.Context, h report.Hash, res VerifyResult)
}

// Service wraps a Ledger with outcome classification, metrics, and tracing.
type Service struct {
	ledger  Ledger
	cache   VerifyCache
	log     *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithCache attaches a verification cache.
func WithCache(cache VerifyCache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithMetrics attaches operation metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService builds the registration protocol service.
func NewService(ledger Ledger, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		ledger: ledger,
		log:    log,
		tracer: otel.Tracer("cisattest/anchor"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register records the fingerprint on the ledger. A duplicate registration is
// downgraded to OutcomeAlreadyRegistered and reported as success; the
// pre-existing registration is authoritative.
func (s *Service) Register(ctx context.Context, h report.Hash) (RegisterResult, error) {
	return s.register(ctx, h, "")
}

// RegisterWithCID records the fingerprint together with its content address.
// The caller is responsible for having uploaded the content first.
func (s *Service) RegisterWithCID(ctx context.Context, h report.Hash, cid string) (RegisterResult, error) {
	return s.register(ctx, h, cid)
}

func (s *Service) register(ctx context.Context, h report.Hash, cid string) (RegisterResult, error) {
	op := "register"
	if cid != "" {
		op = "register_with_cid"
	}

	b32, err := h.Bytes32()
	if err != nil {
		return RegisterResult{}, err
	}

	ctx, span := s.tracer.Start(ctx, "anchor."+op,
		trace.WithAttributes(attribute.String("fingerprint", string(h))))
	defer span.End()

	start := time.Now()
	var tx TxRef
	if cid == "" {
		tx, err = s.ledger.Register(ctx, b32)
	} else {
		tx, err = s.ledger.RegisterWithCID(ctx, b32, cid)
	}
	elapsed := time.Since(start)

	if err != nil {
		if isAlreadyRegistered(err) {
			s.metrics.ObserveLedgerOp(op, string(OutcomeAlreadyRegistered), elapsed)
			s.log.Warn("fingerprint already registered, no new transaction sent",
				"fingerprint", string(h))
			span.SetAttributes(attribute.String("outcome", string(OutcomeAlreadyRegistered)))
			return RegisterResult{Outcome: OutcomeAlreadyRegistered}, nil
		}
		if errors.Is(err, sentinel.ErrUnsupported) {
			s.metrics.ObserveLedgerOp(op, "unsupported", elapsed)
			return RegisterResult{}, err
		}
		s.metrics.ObserveLedgerOp(op, "error", elapsed)
		return RegisterResult{}, err
	}

	s.metrics.ObserveLedgerOp(op, string(OutcomeRegistered), elapsed)
	s.log.Info("fingerprint registered",
		"fingerprint", string(h), "tx", tx.Hash, "block", tx.Block)
	span.SetAttributes(attribute.String("outcome", string(OutcomeRegistered)))
	return RegisterResult{Outcome: OutcomeRegistered, Tx: tx}, nil
}

// Verify looks up a fingerprint. It is read-only and safe to call any number
// of times. The verification record and the content address are fetched in
// parallel; a ledger without content-address support yields an empty CID
// rather than an error.
func (s *Service) Verify(ctx context.Context, h report.Hash) (VerifyResult, error) {
	b32, err := h.Bytes32()
	if err != nil {
		return VerifyResult{}, err
	}

	if s.cache != nil {
		if res, ok := s.cache.Get(ctx, h); ok {
			return res, nil
		}
	}

	ctx, span := s.tracer.Start(ctx, "anchor.verify",
		trace.WithAttributes(attribute.String("fingerprint", string(h))))
	defer span.End()

	start := time.Now()
	var (
		rec Record
		cid string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var verr error
		rec, verr = s.ledger.Verify(gctx, b32)
		return verr
	})
	g.Go(func() error {
		c, cerr := s.ledger.CID(gctx, b32)
		if cerr != nil {
			// A contract without CID support is not a failed verification.
			if errors.Is(cerr, sentinel.ErrUnsupported) {
				return nil
			}
			return cerr
		}
		cid = c
		return nil
	})
	err = g.Wait()
	elapsed := time.Since(start)

	if err != nil {
		s.metrics.ObserveLedgerOp("verify", "error", elapsed)
		return VerifyResult{}, err
	}

	res := VerifyResult{
		Found:     rec.Found,
		Owner:     rec.Owner,
		Timestamp: rec.Timestamp,
		CID:       cid,
	}
	s.metrics.ObserveLedgerOp("verify", "ok", elapsed)

	// Absence is never cached: a registration right after a miss must be
	// visible on the next lookup.
	if s.cache != nil && res.Found {
		s.cache.Put(ctx, h, res)
	}
	return res, nil
}

// alreadyRegisteredPatterns is the compatibility fallback for ledgers that
// only report duplicates through a generic error string. The deployed
// contract's revert reason predates the English one.
var alreadyRegisteredPatterns = []string{
	"already registered",
	"hash ja registrado",
	"ja registrado",
}

func isAlreadyRegistered(err error) bool {
	var revert *RevertError
	msg := err.Error()
	if errors.As(err, &revert) {
		msg = revert.Reason
	}
	lower := strings.ToLower(msg)
	for _, pattern := range alreadyRegisteredPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return strings.Contains(lower, "execution reverted") && strings.Contains(lower, "registrado")
}
