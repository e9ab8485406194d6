package filtering

import (
	"context"
	"strings"

	"github.com/jobradar/jobradar/internal/jobs"
)

// Contract identifiers as requested by the user. Stage and alternance get
// strict title-based treatment; cdi/cdd stay soft signals because upstream
// APIs are unreliable about them.
const (
	ContractStage      = "stage"
	ContractAlternance = "alternance"
	ContractCDI        = "cdi"
	ContractCDD        = "cdd"
)

var internshipTitleKeywords = []string{
	"stage",
	"stagiaire",
	"intern",
	"internship",
}

var apprenticeshipTitleKeywords = []string{
	"alternance",
	"apprentissage",
	"apprenti",
	"apprenticeship",
	"apprentice",
}

func titleContainsAny(title string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

// IsInternshipTitle reports whether the job title marks an internship.
func IsInternshipTitle(j *jobs.Job) bool {
	return titleContainsAny(j.TitleBlob(), internshipTitleKeywords)
}

// IsApprenticeshipTitle reports whether the job title marks an
// apprenticeship.
func IsApprenticeshipTitle(j *jobs.Job) bool {
	return titleContainsAny(j.TitleBlob(), apprenticeshipTitleKeywords)
}

type contractTitleFilter struct {
	contract string
}

// NewContractTitle creates the title-only contract hard filter:
//   - requested stage: keep only internship titles
//   - requested alternance: keep only apprenticeship titles
//   - anything else (cdi/cdd/none): exclude internship and apprenticeship
//     titles, so a generic search never surfaces them by accident.
func NewContractTitle(contract string) Filter {
	return &contractTitleFilter{contract: strings.ToLower(strings.TrimSpace(contract))}
}

func (f *contractTitleFilter) Name() string { return "contract_title" }

func (f *contractTitleFilter) IsEnabled() bool { return true }

func (f *contractTitleFilter) Apply(_ context.Context, list *jobs.Jobs) (*jobs.Jobs, Step, error) {
	initial := list.Len()

	var kept *jobs.Jobs
	switch f.contract {
	case ContractStage:
		kept = list.Keep(IsInternshipTitle)
	case ContractAlternance:
		kept = list.Keep(IsApprenticeshipTitle)
	default:
		kept = list.Keep(func(j *jobs.Job) bool {
			return !IsInternshipTitle(j) && !IsApprenticeshipTitle(j)
		})
	}

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}
