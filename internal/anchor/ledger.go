// Package anchor implements the attestation registration protocol: a thin
// state-transition layer over a ledger adapter. Per fingerprint the ledger
// holds either nothing or one immutable record; registration is the only
// transition and is never reversed here.
package anchor

import (
	"context"
	"fmt"
	"time"
)

// TxRef identifies a confirmed ledger write.
type TxRef struct {
	Hash  string
	Block uint64
}

// Record is the ledger's answer to a verification lookup. Owner and Timestamp
// are zero-valued when Found is false.
type Record struct {
	Found     bool
	Owner     string
	Timestamp time.Time
}

// Ledger is the port to the registry contract. Implementations are blocking
// round trips with no internal retry; a timeout or connectivity failure is
// surfaced to the caller as is.
type Ledger interface {
	// Register records the hash. The ledger rejects duplicates by reverting;
	// that revert surfaces as a *RevertError.
	Register(ctx context.Context, hash [32]byte) (TxRef, error)

	// RegisterWithCID records the hash together with a content address.
	// Returns sentinel.ErrUnsupported when the contract lacks the capability.
	RegisterWithCID(ctx context.Context, hash [32]byte, cid string) (TxRef, error)

	// Verify is read-only and never mutates ledger state.
	Verify(ctx context.Context, hash [32]byte) (Record, error)

	// CID returns the content address stored with the hash, empty when none.
	// Returns sentinel.ErrUnsupported when the contract lacks the capability.
	CID(ctx context.Context, hash [32]byte) (string, error)
}

// RevertError is a structured contract rejection with the revert reason the
// ledger reported. An empty Reason means the contract reverted without one.
type RevertError struct {
	Reason string
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return "execution reverted"
	}
	return "execution reverted: " + e.Reason
}

// ConnectivityError wraps an RPC or transport failure. It is fatal to the
// specific operation and is surfaced verbatim; nothing here retries.
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("ledger %s: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}
