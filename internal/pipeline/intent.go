package pipeline

import (
	"regexp"
	"strings"

	"github.com/jobradar/jobradar/internal/filtering"
	"github.com/jobradar/jobradar/internal/jobs"
)

// Intent is what the user asked for, parsed from a free-text request like
// "stage data analyst à Paris".
type Intent struct {
	Role     string
	Contract string
	Location string
}

// Alias tables are ordered: the first match wins, which keeps detection
// deterministic.
var roleAliases = []struct {
	role    string
	aliases []string
}{
	{"data analyst", []string{
		"data analyst", "analyste data", "analyste de données", "data analytics",
		"reporting", "dashboard", "power bi", "tableau",
	}},
	{"data scientist", []string{
		"data scientist", "datascientist", "machine learning", "deep learning",
		"nlp", "computer vision",
	}},
	{"data engineer", []string{
		"data engineer", "ingénieur data", "data engineering", "etl",
		"pipeline", "airflow", "spark", "dbt",
	}},
	{"business analyst", []string{
		"business analyst", "analyste métier", "analyste business",
		"product analyst", "amoa", "moa", "fonctionnel",
	}},
}

var contractAliases = []struct {
	contract string
	aliases  []string
}{
	{filtering.ContractCDI, []string{"cdi", "permanent", "full time", "full-time", "temps plein"}},
	{filtering.ContractCDD, []string{"cdd", "fixed-term", "fixed term", "contrat à durée déterminée"}},
	{filtering.ContractStage, []string{"stage", "intern", "internship", "stagiaire"}},
	{filtering.ContractAlternance, []string{"alternance", "apprenticeship", "apprenti", "apprentissage"}},
}

// roleFallbackQueries drive the query-broadening retry loop, per role.
var roleFallbackQueries = map[string][]string{
	"data analyst":     {"data analyst", "sql", "power bi", "reporting"},
	"data scientist":   {"data scientist", "machine learning", "python"},
	"data engineer":    {"data engineer", "etl", "airflow", "python"},
	"business analyst": {"business analyst", "amoa", "moa", "fonctionnel", "product analyst"},
}

var mlShortRe = regexp.MustCompile(`\bml\b`)

// DetectRole finds the requested role, defaulting to data analyst.
func DetectRole(text string) string {
	t := jobs.NormalizeSpaces(text)

	for _, entry := range roleAliases {
		for _, alias := range entry.aliases {
			if strings.Contains(t, alias) {
				return entry.role
			}
		}
	}

	switch {
	case strings.Contains(t, "scientist") || mlShortRe.MatchString(t):
		return "data scientist"
	case strings.Contains(t, "engineer"):
		return "data engineer"
	case strings.Contains(t, "business") || strings.Contains(t, "métier") || strings.Contains(t, "metier"):
		return "business analyst"
	}

	return "data analyst"
}

// DetectContract finds the requested contract type, or empty when none was
// asked for.
func DetectContract(text string) string {
	t := jobs.NormalizeSpaces(text)
	for _, entry := range contractAliases {
		for _, alias := range entry.aliases {
			if strings.Contains(t, alias) {
				return entry.contract
			}
		}
	}
	return ""
}

// Word-boundary assertions in Go regexps are ASCII-only, so "à" needs the
// explicit start-or-space anchor.
var cityRe = regexp.MustCompile(`(?i)(?:^|\s)(?:à|a|sur)\s+([a-zA-ZÀ-ÿ\- ]{2,30})\b`)
var cityTrailRe = regexp.MustCompile(`(?i)\b(en|pour|sur|avec|de)$`)

// DetectLocation finds a city in patterns like "à Lyon"/"sur Lyon", returns
// "Remote" for remote requests, and falls back to fallback otherwise.
func DetectLocation(text, fallback string) string {
	t := jobs.NormalizeSpaces(text)
	if strings.Contains(t, "remote") || strings.Contains(t, "télétravail") || strings.Contains(t, "teletravail") {
		return "Remote"
	}

	if m := cityRe.FindStringSubmatch(text); m != nil {
		city := strings.TrimSpace(m[1])
		city = strings.TrimSpace(cityTrailRe.ReplaceAllString(city, ""))
		if len(city) >= 2 {
			return city
		}
	}

	return fallback
}

// ParseIntent extracts role, contract and location from a free-text request.
func ParseIntent(text, defaultLocation string) Intent {
	return Intent{
		Role:     DetectRole(text),
		Contract: DetectContract(text),
		Location: DetectLocation(text, defaultLocation),
	}
}

// FallbackQueries returns the broadened query sequence for a role: the role's
// fallback terms, the role name itself, then the generic last resort. The
// first query tried by the orchestrator stays the caller's own query; these
// only follow it.
func FallbackQueries(role string) []string {
	queries := append([]string{}, roleFallbackQueries[role]...)
	return append(queries, role, "data")
}
