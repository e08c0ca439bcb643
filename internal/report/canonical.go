package report

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// timeLayout matches the second-resolution UTC timestamps embedded in reports.
const timeLayout = "2006-01-02T15:04:05"

// Canonical serializes the report deterministically: lexicographically sorted
// keys at every object level, no insignificant whitespace, UTF-8. Two reports
// with identical logical content produce byte-identical output regardless of
// how their internal maps were populated.
//
// The document is assembled from nested maps because encoding/json emits map
// keys in sorted order; struct field order would leak declaration order into
// the bytes.
func (r Report) Canonical() ([]byte, error) {
	safeguards := make([]any, 0, len(r.Safeguards))
	for _, s := range r.Safeguards {
		safeguards = append(safeguards, map[string]any{
			"control":      s.Control,
			"id":           s.ID,
			"ig":           string(s.Group),
			"title":        s.Title,
			"control_name": s.ControlName,
		})
	}

	answers := make(map[string]any, len(r.Answers))
	for id, status := range r.Answers {
		answers[id] = string(status)
	}

	maturityDoc := make(map[string]any, len(r.Maturity))
	for ctrl, cm := range r.Maturity {
		maturityDoc[strconv.Itoa(ctrl)] = map[string]any{
			"name": cm.Name,
			"ig1":  cm.IG1,
			"ig2":  cm.IG2,
			"ig3":  cm.IG3,
			"cmmi": cm.Level,
		}
	}

	doc := map[string]any{
		"schema":       Schema,
		"company":      r.Company,
		"generated_at": r.GeneratedAt.UTC().Format(timeLayout) + "Z",
		"safeguards":   safeguards,
		"answers":      answers,
		"maturity":     maturityDoc,
		"cmmi_avg":     r.AverageLevel,
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("canonicalize report: %w", err)
	}
	return out, nil
}
