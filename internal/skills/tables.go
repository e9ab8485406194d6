package skills

import (
	_ "embed"
	"fmt"
	"log"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed skills.yaml
var dictionaryYAML []byte

type dictionary struct {
	Keywords []string          `yaml:"keywords"`
	Aliases  map[string]string `yaml:"aliases"`
	Denylist []string          `yaml:"denylist"`
	Glued    map[string]string `yaml:"glued"`
}

type pattern struct {
	keyword string
	re      *regexp.Regexp
}

// The compiled tables are built once at init and never mutated afterwards,
// so concurrent requests can share them without locking.
var (
	compiled []pattern
	aliases  map[string]string
	denied   map[string]struct{}
	glued    map[string]string
)

var separatorRe = regexp.MustCompile(`[\s\-_/]+`)

func init() {
	var dict dictionary
	if err := yaml.Unmarshal(dictionaryYAML, &dict); err != nil {
		log.Fatalf("parsing embedded skill dictionary: %v", err)
	}
	if err := compile(dict); err != nil {
		log.Fatalf("compiling skill dictionary: %v", err)
	}
}

func compile(dict dictionary) error {
	// Keys are collapsed to the shared normal form; canonical values keep
	// their spelling (e.g. "scikit-learn") so tags stay stable across CV and
	// job extraction.
	aliases = make(map[string]string, len(dict.Aliases))
	for surface, canonical := range dict.Aliases {
		aliases[collapseSeparators(surface)] = strings.ToLower(strings.TrimSpace(canonical))
	}

	denied = make(map[string]struct{}, len(dict.Denylist))
	for _, term := range dict.Denylist {
		denied[collapseSeparators(term)] = struct{}{}
	}

	glued = make(map[string]string, len(dict.Glued))
	for variant, canonical := range dict.Glued {
		glued[strings.ToLower(strings.TrimSpace(variant))] = strings.ToLower(strings.TrimSpace(canonical))
	}

	compiled = make([]pattern, 0, len(dict.Keywords))
	for _, kw := range dict.Keywords {
		k := strings.ToLower(strings.TrimSpace(kw))
		if k == "" {
			continue
		}

		var expr string
		if strings.Contains(k, " ") {
			parts := strings.Fields(k)
			for i, p := range parts {
				parts[i] = regexp.QuoteMeta(p)
			}
			expr = `(?i)\b` + strings.Join(parts, `[\s\-_/]+`) + `\b`
		} else {
			expr = `(?i)\b` + regexp.QuoteMeta(k) + `\b`
		}

		re, err := regexp.Compile(expr)
		if err != nil {
			return fmt.Errorf("keyword %q: %w", kw, err)
		}
		compiled = append(compiled, pattern{keyword: k, re: re})
	}

	return nil
}

// collapseSeparators lowercases s and rewrites hyphen/underscore/slash/space
// runs to single spaces, the normal form shared by matching and alias lookup.
func collapseSeparators(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimSpace(separatorRe.ReplaceAllString(s, " "))
}

// canonicalize maps a matched keyword to its canonical tag.
func canonicalize(s string) string {
	s = collapseSeparators(s)
	if canonical, ok := aliases[s]; ok {
		return canonical
	}
	return s
}
