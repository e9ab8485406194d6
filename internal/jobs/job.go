package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

const (
	JobIDField     = "ID"
	JobSourceField = "Source"
)

// Job is one normalized posting. Required fields are always populated by the
// source normalizers (with empty-string sentinels for missing values);
// PostedAt and EmploymentType stay optional. Skills, RoleHit and ContractHit
// are filled in later by the pipeline. A Job lives for one request only.
type Job struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`

	PostedAt       string `json:"posted_at,omitempty"`
	EmploymentType string `json:"employment_type,omitempty"`

	Skills      []string `json:"skills,omitempty"`
	RoleHit     bool     `json:"role_hit"`
	ContractHit bool     `json:"contract_hit"`

	// Raw keeps the source record for best-effort enrichment, e.g. the
	// Adzuna area list used by the location blob.
	Raw map[string]any `json:"-"`
}

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeSpaces lowercases s and collapses runs of whitespace to single
// spaces.
func NormalizeSpaces(s string) string {
	return spaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// TextBlob joins title, company, location and description into one
// normalized string for keyword matching.
func (j *Job) TextBlob() string {
	parts := []string{j.Title, j.Company, j.Location, j.Description}
	return NormalizeSpaces(strings.Join(parts, "\n"))
}

// TitleBlob returns the normalized title only. Contract filtering relies
// strictly on the title to avoid false positives from descriptions.
func (j *Job) TitleBlob() string {
	return NormalizeSpaces(j.Title)
}

// LocationBlob returns a best-effort location string. Adzuna stores a richer
// location object in the raw record; its area list is prepended when present
// so country-level hints can match.
func (j *Job) LocationBlob() string {
	loc := j.Location

	if raw, ok := j.Raw["location"].(map[string]any); ok {
		if loc == "" {
			loc, _ = raw["display_name"].(string)
		}
		if area, ok := raw["area"].([]any); ok && len(area) > 0 {
			parts := make([]string, 0, len(area)+1)
			for _, a := range area {
				if s, ok := a.(string); ok && s != "" {
					parts = append(parts, s)
				}
			}
			if loc != "" {
				parts = append(parts, loc)
			}
			loc = strings.Join(parts, " ")
		}
	}

	return NormalizeSpaces(loc)
}

// GetStringField returns the named field value, mirroring the lookup used by
// collection helpers.
func (j *Job) GetStringField(name string) string {
	switch name {
	case JobIDField:
		return j.ID
	case JobSourceField:
		return j.Source
	default:
		return ""
	}
}

type Jobs struct {
	Items []*Job
}

func (l *Jobs) Len() int {
	return len(l.Items)
}

func (l *Jobs) Append(items ...*Job) {
	l.Items = append(l.Items, items...)
}

func (l *Jobs) FindByID(id string) *Job {
	for _, job := range l.Items {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// Keep returns a new list holding only the jobs the predicate accepts.
// The receiver is left untouched so filter steps stay side-effect free.
func (l *Jobs) Keep(pred func(*Job) bool) *Jobs {
	kept := &Jobs{Items: make([]*Job, 0, len(l.Items))}
	for _, job := range l.Items {
		if pred(job) {
			kept.Items = append(kept.Items, job)
		}
	}
	return kept
}

// ReportBySource groups a compact per-job summary under its source name.
func (l *Jobs) ReportBySource() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, job := range l.Items {
		entry := map[string]string{
			"title":    job.Title,
			"company":  job.Company,
			"location": job.Location,
			"url":      job.URL,
		}
		if len(job.Skills) > 0 {
			entry["skills"] = strings.Join(job.Skills, ", ")
		}
		report[job.Source] = append(report[job.Source], entry)
	}
	return report
}

func (l *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (l *Jobs) String() string {
	return fmt.Sprintf("%d jobs", len(l.Items))
}
