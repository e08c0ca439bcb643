package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and adapters return these
// (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in a store or on the ledger
// - ErrConflict: record already exists where a fresh one was expected
// - ErrUnsupported: the backing system lacks the requested capability
// - ErrUnavailable: service or resource temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnsupported = errors.New("unsupported")
	ErrUnavailable = errors.New("unavailable")
)
