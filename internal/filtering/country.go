package filtering

import (
	"context"
	"strings"

	"github.com/jobradar/jobradar/internal/jobs"
)

// DefaultCountryHints keeps only France-based jobs. Remote/global boards can
// return US or worldwide results even for a French city query.
var DefaultCountryHints = []string{
	"france",
	"ile-de-france",
	"île-de-france",
	"paris",
	"lyon",
	"marseille",
	"toulouse",
	"lille",
	"bordeaux",
	"nantes",
	"rennes",
	"nice",
	"strasbourg",
	"montpellier",
	"grenoble",
}

type countryFilter struct {
	hints []string
}

// NewCountry creates the geographic hard filter. A job stays only when its
// best-effort location blob contains one of the hints; jobs with no
// resolvable location are dropped. Fail-closed: absence of evidence is
// treated as non-match.
func NewCountry(hints []string) Filter {
	if len(hints) == 0 {
		hints = DefaultCountryHints
	}
	lowered := make([]string, 0, len(hints))
	for _, h := range hints {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			lowered = append(lowered, h)
		}
	}
	return &countryFilter{hints: lowered}
}

func (f *countryFilter) Name() string { return "country" }

func (f *countryFilter) IsEnabled() bool { return true }

func (f *countryFilter) Apply(_ context.Context, list *jobs.Jobs) (*jobs.Jobs, Step, error) {
	initial := list.Len()

	kept := list.Keep(func(j *jobs.Job) bool {
		loc := j.LocationBlob()
		if loc == "" || loc == "unknown" {
			return false
		}
		for _, hint := range f.hints {
			if strings.Contains(loc, hint) {
				return true
			}
		}
		return false
	})

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}
