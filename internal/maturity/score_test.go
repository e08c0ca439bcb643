package maturity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cisattest/internal/catalog"
)

func controlOne() []catalog.Safeguard {
	return []catalog.Safeguard{
		{Control: 1, ID: "1.1", Group: catalog.IG1, Title: "Asset inventory", ControlName: "1 - Inventory"},
		{Control: 1, ID: "1.2", Group: catalog.IG2, Title: "Unauthorized assets", ControlName: "1 - Inventory"},
		{Control: 1, ID: "1.3", Group: catalog.IG3, Title: "DHCP logging", ControlName: "1 - Inventory"},
	}
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusImplemented, ParseStatus("implemented"))
	assert.Equal(t, StatusPartial, ParseStatus("partial"))
	assert.Equal(t, StatusNotApplicable, ParseStatus("not_applicable"))
	assert.Equal(t, StatusNotImplemented, ParseStatus("not_implemented"))
	assert.Equal(t, StatusNotImplemented, ParseStatus(""))
	assert.Equal(t, StatusNotImplemented, ParseStatus("Implemented"))
	assert.Equal(t, StatusNotImplemented, ParseStatus("yes"))
}

func TestWeight(t *testing.T) {
	assert.Equal(t, 1.0, Weight(StatusImplemented))
	assert.Equal(t, 0.5, Weight(StatusPartial))
	assert.Equal(t, 1.0, Weight(StatusNotApplicable))
	assert.Equal(t, 0.0, Weight(StatusNotImplemented))
	assert.Equal(t, 0.0, Weight(Status("garbage")))
}

func TestScoreSingleControl(t *testing.T) {
	answers := map[string]Status{
		"1.1": StatusImplemented,
		"1.2": StatusPartial,
		"1.3": StatusNotImplemented,
	}

	result, avg := Score(answers, controlOne())
	require.Contains(t, result, 1)

	cm := result[1]
	assert.Equal(t, 1.0, cm.IG1)
	assert.Equal(t, 0.5, cm.IG2)
	assert.Equal(t, 0.0, cm.IG3)
	assert.Equal(t, 3, cm.Level)
	assert.Equal(t, "1 - Inventory", cm.Name)
	assert.Equal(t, 3.0, avg)
}

func TestScoreDefaults(t *testing.T) {
	t.Run("missing answers count as not implemented", func(t *testing.T) {
		result, avg := Score(nil, controlOne())
		cm := result[1]
		assert.Equal(t, 0.0, cm.IG1)
		assert.Equal(t, 0.0, cm.IG2)
		assert.Equal(t, 0.0, cm.IG3)
		assert.Equal(t, 1, cm.Level)
		assert.Equal(t, 1.0, avg)
	})

	t.Run("not applicable is not penalized", func(t *testing.T) {
		answers := map[string]Status{
			"1.1": StatusNotApplicable,
			"1.2": StatusNotApplicable,
			"1.3": StatusNotApplicable,
		}
		result, _ := Score(answers, controlOne())
		cm := result[1]
		assert.Equal(t, 1.0, cm.IG1)
		assert.Equal(t, 1.0, cm.IG2)
		assert.Equal(t, 1.0, cm.IG3)
		assert.Equal(t, 5, cm.Level)
	})

	t.Run("answers for unknown safeguards are ignored", func(t *testing.T) {
		answers := map[string]Status{
			"99.1": StatusImplemented,
		}
		result, avg := Score(answers, controlOne())
		assert.Len(t, result, 1)
		assert.Equal(t, 1, result[1].Level)
		assert.Equal(t, 1.0, avg)
	})

	t.Run("empty catalog yields zero average", func(t *testing.T) {
		result, avg := Score(nil, nil)
		assert.Empty(t, result)
		assert.Equal(t, 0.0, avg)
	})
}

func TestLevelFromGroups(t *testing.T) {
	cases := []struct {
		name       string
		p1, p2, p3 float64
		want       int
	}{
		{"nothing in place", 0.0, 0.0, 0.0, 1},
		{"just below rule one thresholds", 0.19, 0.19, 1.0, 1},
		{"ig1 solid ig2 barely started", 0.80, 0.39, 0.0, 2},
		{"ig1 solid ig2 half ig3 weak", 0.80, 0.50, 0.39, 3},
		{"broad coverage", 0.80, 0.70, 0.40, 4},
		{"strong depth everywhere", 0.90, 0.85, 0.70, 5},
		{"depth just short of five", 0.90, 0.84, 0.70, 4},
		{"catch-all on ig1 alone", 0.50, 0.20, 0.0, 2},
		{"below catch-all", 0.49, 0.20, 0.0, 1},
		// p2 in [0.40,0.50) with p1 >= 0.80 matches no named rule and
		// falls through to the catch-all.
		{"between-thresholds gap", 0.85, 0.45, 1.0, 2},
		{"ig1 perfect ig2 at gap floor", 1.0, 0.40, 1.0, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, levelFromGroups(tc.p1, tc.p2, tc.p3))
		})
	}
}

func TestScoreAveragesAcrossControls(t *testing.T) {
	sgs := append(controlOne(),
		catalog.Safeguard{Control: 2, ID: "2.1", Group: catalog.IG1, Title: "Software inventory", ControlName: "2 - Software"},
	)
	answers := map[string]Status{
		"1.1": StatusImplemented,
		"1.2": StatusPartial,
		"1.3": StatusNotImplemented,
		"2.1": StatusNotImplemented,
	}

	result, avg := Score(answers, sgs)
	require.Len(t, result, 2)
	assert.Equal(t, 3, result[1].Level)
	assert.Equal(t, 1, result[2].Level)
	assert.Equal(t, 2.0, avg)
}
