// Package skills maps free text to a canonical set of technical skill tags.
// Matching is dictionary-only: a term either hits one of the compiled
// patterns or it is ignored. No fuzzy matching, no stemming.
package skills

import (
	"sort"
	"strings"
)

// Extract returns the sorted, deduplicated canonical skill tags found in
// text. It is a pure function of the text and the embedded dictionary and
// never fails: empty or unmatchable text yields an empty set.
func Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	found := make(map[string]struct{})

	for _, p := range compiled {
		if p.re.MatchString(text) {
			canonical := canonicalize(p.keyword)
			if canonical != "" {
				found[canonical] = struct{}{}
			}
		}
	}

	// Second pass for glued concatenations ("powerbi", "mssql") that the
	// word-boundary patterns cannot see.
	lower := strings.ToLower(text)
	for variant, canonical := range glued {
		if strings.Contains(lower, variant) {
			found[canonical] = struct{}{}
		}
	}

	// The denylist wins last, even over alias normalization.
	tags := make([]string, 0, len(found))
	for tag := range found {
		if _, blocked := denied[collapseSeparators(tag)]; blocked {
			continue
		}
		tags = append(tags, tag)
	}

	sort.Strings(tags)
	return tags
}

// ExtractionResult pairs the tags with counters for callers that report
// extraction metadata.
type ExtractionResult struct {
	Skills []string `json:"skills"`
	Method string   `json:"method"`
	Count  int      `json:"count"`
}

// ExtractWithMeta wraps Extract with the method label and tag count.
func ExtractWithMeta(text string) ExtractionResult {
	tags := Extract(text)
	return ExtractionResult{
		Skills: tags,
		Method: "keyword_dictionary",
		Count:  len(tags),
	}
}
