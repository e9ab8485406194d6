// Package match explains why a job matches a candidate using pure skill-set
// algebra. No I/O, no hidden state: everything is recomputed per pair.
package match

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// displayLimit caps how many matched/missing skills appear in the rendered
// text. The full sets stay available on the Explanation itself.
const displayLimit = 6

// JobContext optionally names the job for friendlier rendering.
type JobContext struct {
	Title   string
	Company string
}

// Explanation is the result of comparing a candidate skill set against a job
// skill set.
type Explanation struct {
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	Coverage      float64  `json:"coverage"`
	Score         float64  `json:"score"`
	WhyShort      string   `json:"why_short"`
	WhyLong       string   `json:"why_long"`
}

// Explain computes matched (intersection) and missing (job minus candidate)
// skills, the coverage ratio |matched|/|candidate| and a short/long written
// justification. A nil score defaults to the coverage. An empty candidate set
// yields coverage 0 rather than a division by zero.
func Explain(candidateSkills, jobSkills []string, jobCtx *JobContext, score *float64) Explanation {
	candidate := normalizeSet(candidateSkills)
	job := normalizeSet(jobSkills)

	matched := make([]string, 0)
	for tag := range candidate {
		if _, ok := job[tag]; ok {
			matched = append(matched, tag)
		}
	}
	missing := make([]string, 0)
	for tag := range job {
		if _, ok := candidate[tag]; !ok {
			missing = append(missing, tag)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)

	coverage := 0.0
	if len(candidate) > 0 {
		coverage = float64(len(matched)) / float64(len(candidate))
	}

	s := coverage
	if score != nil {
		s = *score
	}

	return Explanation{
		MatchedSkills: matched,
		MissingSkills: missing,
		Coverage:      round6(coverage),
		Score:         round6(s),
		WhyShort:      renderShort(jobCtx, s, len(matched), len(candidate)),
		WhyLong:       renderLong(matched, missing),
	}
}

func normalizeSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		set[tag] = struct{}{}
	}
	return set
}

func renderShort(jobCtx *JobContext, score float64, matched, candidate int) string {
	header := "Job"
	if jobCtx != nil {
		switch {
		case jobCtx.Title != "" && jobCtx.Company != "":
			header = fmt.Sprintf("%s — %s", jobCtx.Title, jobCtx.Company)
		case jobCtx.Title != "":
			header = jobCtx.Title
		}
	}

	return fmt.Sprintf("%s: coverage %d%% (%d/%d CV skills matched).",
		header, int(math.Round(score*100)), matched, candidate)
}

func renderLong(matched, missing []string) string {
	lines := make([]string, 0, 3)

	if len(matched) > 0 {
		lines = append(lines, "Strengths (matched skills): "+strings.Join(capList(matched), ", ")+".")
	} else {
		lines = append(lines, "No CV skill was recognized in this posting (weak match).")
	}

	if len(missing) > 0 {
		lines = append(lines, "Missing skills to strengthen: "+strings.Join(capList(missing), ", ")+".")
	} else {
		lines = append(lines, "No major missing skill detected (on the extracted list).")
	}

	lines = append(lines, "Interpretation: the score comes from graph connectivity reasoning (skills-job graph), not from a set of arbitrary weighted rules.")

	return strings.Join(lines, " ")
}

func capList(tags []string) []string {
	if len(tags) > displayLimit {
		return tags[:displayLimit]
	}
	return tags
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
