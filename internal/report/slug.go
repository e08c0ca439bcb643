package report

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var slugStrip = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Slugify reduces a company name to a filesystem- and pin-name-safe token.
func Slugify(text string) string {
	decomposed := norm.NFKD.String(text)
	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, decomposed)
	slug := strings.Trim(slugStrip.ReplaceAllString(ascii, "-"), "-")
	if slug == "" {
		return "company"
	}
	return slug
}

// PinName is the object name used when uploading a report to the content
// store, derived from the company and generation time.
func (r Report) PinName() string {
	return "cis_ig1_ig2_ig3_" + Slugify(r.Company) + "_" + r.GeneratedAt.UTC().Format("20060102T150405Z")
}
