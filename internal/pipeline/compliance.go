package pipeline

import (
	"strings"

	"github.com/jobradar/jobradar/internal/filtering"
	"github.com/jobradar/jobradar/internal/jobs"
)

// Compliance adjustments layered on top of the raw graph score. The
// asymmetry between the strict penalties and the relaxed bonuses is product
// tuning carried over from the original scoring; treat these as tunables.
const (
	relaxedRoleBonus      = 0.10
	relaxedContractBonus  = 0.10
	strictRolePenalty     = 0.30
	strictContractPenalty = 0.30

	// Deterministic fallback scorer weights.
	fallbackRoleBonus        = 0.35
	fallbackContractBonus    = 0.25
	fallbackStrictMissMallus = 0.10
)

// Keywords used for soft role compliance. Jobs stay in the pool either way;
// the flag only moves them up or down.
var roleComplianceKeywords = map[string][]string{
	"data analyst":     {"data analyst", "analyste", "reporting", "dashboard", "power bi", "tableau", "sql"},
	"data scientist":   {"data scientist", "machine learning", "ml", "deep learning", "model", "python"},
	"data engineer":    {"data engineer", "etl", "pipeline", "airflow", "spark", "dbt", "ingénieur data"},
	"business analyst": {"business analyst", "analyste métier", "amoa", "moa", "fonctionnel", "product"},
}

var contractComplianceKeywords = map[string][]string{
	filtering.ContractStage:      {"stage", "intern", "internship", "stagiaire"},
	filtering.ContractAlternance: {"alternance", "apprenticeship", "apprenti", "apprentissage"},
	filtering.ContractCDI:        {"cdi", "permanent", "temps plein", "full time", "full-time"},
	filtering.ContractCDD:        {"cdd", "fixed term", "fixed-term", "contrat à durée déterminée"},
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// RoleHit reports whether the job's full text blob mentions role-relevant
// keywords. Unknown roles match trivially.
func RoleHit(j *jobs.Job, role string) bool {
	keywords := roleComplianceKeywords[role]
	if len(keywords) == 0 {
		return true
	}
	return containsAny(j.TextBlob(), keywords)
}

// ContractHit reports contract compliance. Stage and alternance rely
// strictly on the title; for other requests internship/apprenticeship titles
// are non-compliant, and cdi/cdd fall back to broad text matching as a soft
// signal.
func ContractHit(j *jobs.Job, contract string) bool {
	switch contract {
	case filtering.ContractStage:
		return filtering.IsInternshipTitle(j)
	case filtering.ContractAlternance:
		return filtering.IsApprenticeshipTitle(j)
	}

	if filtering.IsInternshipTitle(j) || filtering.IsApprenticeshipTitle(j) {
		return false
	}

	keywords, known := contractComplianceKeywords[contract]
	if contract == "" || !known {
		return true
	}
	return containsAny(j.TextBlob(), keywords)
}

// AnnotateCompliance fills the soft flags on every job in place. Flags never
// remove a job.
func AnnotateCompliance(list *jobs.Jobs, role, contract string) {
	for _, j := range list.Items {
		j.RoleHit = RoleHit(j, role)
		j.ContractHit = ContractHit(j, contract)
	}
}

// SoftBonus converts the job's compliance flags into the score adjustment
// for the given mode. Relaxed rewards hits, strict punishes misses; contract
// compliance only counts when a contract was requested.
func SoftBonus(j *jobs.Job, contract string, mode Mode) float64 {
	if mode == Strict {
		bonus := 0.0
		if !j.RoleHit {
			bonus -= strictRolePenalty
		}
		if contract != "" && !j.ContractHit {
			bonus -= strictContractPenalty
		}
		return bonus
	}

	bonus := 0.0
	if j.RoleHit {
		bonus += relaxedRoleBonus
	}
	if contract != "" && j.ContractHit {
		bonus += relaxedContractBonus
	}
	return bonus
}

// FallbackScore is the deterministic scorer used to backfill slots when the
// graph ranking is too sparse: skill-overlap ratio against the candidate
// plus compliance weights, clamped to [0,1].
func FallbackScore(j *jobs.Job, cvSkills []string, contract string, mode Mode) float64 {
	cvSet := make(map[string]struct{}, len(cvSkills))
	for _, tag := range cvSkills {
		cvSet[tag] = struct{}{}
	}

	overlap := 0
	for _, tag := range j.Skills {
		if _, ok := cvSet[tag]; ok {
			overlap++
		}
	}

	denominator := len(cvSet)
	if denominator == 0 {
		denominator = 1
	}
	score := float64(overlap) / float64(denominator)

	if j.RoleHit {
		score += fallbackRoleBonus
	} else if mode == Strict {
		score -= fallbackStrictMissMallus
	}

	if contract != "" {
		if j.ContractHit {
			score += fallbackContractBonus
		} else if mode == Strict {
			score -= fallbackStrictMissMallus
		}
	}

	return Clamp01(score)
}

// Clamp01 bounds v to [0,1]; every fused score goes through it.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
