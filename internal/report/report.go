// Package report builds the immutable assessment report value, serializes it
// canonically, and computes its fingerprint.
package report

import (
	"strings"
	"time"

	dErrors "cisattest/pkg/domain-errors"

	"cisattest/internal/catalog"
	"cisattest/internal/maturity"
)

// Schema identifies the canonical report layout.
const Schema = "cis-v8/ig1-ig2-ig3/v1"

// Report is the assessment result. It is constructed once by Build and never
// mutated afterwards, so canonicalization cannot race with edits.
type Report struct {
	Company      string
	GeneratedAt  time.Time
	Safeguards   []catalog.Safeguard
	Answers      map[string]maturity.Status
	Maturity     map[int]maturity.ControlMaturity
	AverageLevel float64
}

// Build scores the answers against the catalog snapshot and assembles the
// report value. The catalog snapshot is embedded in canonical order so the
// same logical inputs always produce the same report.
func Build(company string, generatedAt time.Time, safeguards []catalog.Safeguard, answers map[string]maturity.Status) (Report, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return Report{}, dErrors.New(dErrors.CodeBadRequest, "company name is required")
	}

	snapshot := catalog.Sorted(safeguards)
	scored, avg := maturity.Score(answers, snapshot)

	copied := make(map[string]maturity.Status, len(answers))
	for id, status := range answers {
		copied[id] = status
	}

	return Report{
		Company:      company,
		GeneratedAt:  generatedAt.UTC(),
		Safeguards:   snapshot,
		Answers:      copied,
		Maturity:     scored,
		AverageLevel: avg,
	}, nil
}

// Fingerprint is the SHA-256 digest of the canonical serialization.
func (r Report) Fingerprint() (Hash, error) {
	canonical, err := r.Canonical()
	if err != nil {
		return "", err
	}
	return Sum(canonical, AlgorithmSHA256)
}
