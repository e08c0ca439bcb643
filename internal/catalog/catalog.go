// Package catalog loads and groups the CIS v8 safeguard catalog. The catalog
// may come from an external JSON file; when none is supplied, or the file
// fails validation, a reduced embedded set is used instead.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
)

// Group is the implementation group a safeguard belongs to.
type Group string

const (
	IG1 Group = "IG1"
	IG2 Group = "IG2"
	IG3 Group = "IG3"
)

// Valid reports whether g is one of the three known implementation groups.
func (g Group) Valid() bool {
	return g == IG1 || g == IG2 || g == IG3
}

// Safeguard is a single checklist item within a control.
type Safeguard struct {
	Control     int    `json:"control"`
	ID          string `json:"id"`
	Group       Group  `json:"ig"`
	Title       string `json:"title"`
	ControlName string `json:"control_name"`
}

// Load reads the safeguard catalog from path. A missing file, a parse error,
// or any malformed entry rejects the whole source and falls back to the
// embedded set; there is no per-entry salvage.
func Load(path string, log *slog.Logger) []Safeguard {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) && log != nil {
			log.Warn("catalog file unreadable, using embedded fallback", "path", path, "error", err)
		}
		return Fallback()
	}
	defer f.Close()

	sgs, err := Parse(f)
	if err != nil {
		if log != nil {
			log.Warn("catalog file rejected, using embedded fallback", "path", path, "error", err)
		}
		return Fallback()
	}
	return sgs
}

// Parse decodes and validates a catalog document.
func Parse(r io.Reader) ([]Safeguard, error) {
	var sgs []Safeguard
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sgs); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := validate(sgs); err != nil {
		return nil, err
	}
	return sgs, nil
}

func validate(sgs []Safeguard) error {
	if len(sgs) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	for i, s := range sgs {
		switch {
		case s.Control <= 0:
			return fmt.Errorf("entry %d: missing or invalid control", i)
		case s.ID == "":
			return fmt.Errorf("entry %d: missing id", i)
		case !s.Group.Valid():
			return fmt.Errorf("entry %d (%s): invalid implementation group %q", i, s.ID, s.Group)
		case s.Title == "":
			return fmt.Errorf("entry %d (%s): missing title", i, s.ID)
		case s.ControlName == "":
			return fmt.Errorf("entry %d (%s): missing control_name", i, s.ID)
		}
	}
	return nil
}

// GroupByControl buckets safeguards by control and implementation group. It is
// consumed by the maturity scoring engine.
func GroupByControl(sgs []Safeguard) map[int]map[Group][]Safeguard {
	grouped := make(map[int]map[Group][]Safeguard)
	for _, s := range sgs {
		byGroup, ok := grouped[s.Control]
		if !ok {
			byGroup = make(map[Group][]Safeguard)
			grouped[s.Control] = byGroup
		}
		byGroup[s.Group] = append(byGroup[s.Group], s)
	}
	return grouped
}

// Sorted returns a copy ordered by (control, id), the canonical catalog order.
func Sorted(sgs []Safeguard) []Safeguard {
	out := make([]Safeguard, len(sgs))
	copy(out, sgs)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Control != out[j].Control {
			return out[i].Control < out[j].Control
		}
		return out[i].ID < out[j].ID
	})
	return out
}
