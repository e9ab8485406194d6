package jobs

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Raw source records arrive as loosely typed maps. Decoding goes through
// mapstructure with weak typing so numeric identifiers and similar variations
// do not break normalization; missing-but-optional fields degrade to empty
// values instead of errors.

type adzunaRecord struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Company struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	Description  string `json:"description"`
	RedirectURL  string `json:"redirect_url"`
	URL          string `json:"url"`
	Created      string `json:"created"`
	CreatedAt    string `json:"created_at"`
	ContractTime string `json:"contract_time"`
}

type remotiveRecord struct {
	ID                        string `json:"id"`
	Slug                      string `json:"slug"`
	Title                     string `json:"title"`
	CompanyName               string `json:"company_name"`
	CandidateRequiredLocation string `json:"candidate_required_location"`
	Description               string `json:"description"`
	URL                       string `json:"url"`
	PublicationDate           string `json:"publication_date"`
	JobType                   string `json:"job_type"`
}

func decodeRecord(raw map[string]any, target any) error {
	cfg := &mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// NormalizeLocation substitutes the sentinel for empty location strings.
func NormalizeLocation(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return "Unknown"
	}
	return v
}

// NormalizeAdzuna maps one raw Adzuna record into a Job. Records without an
// identifier yield a job with an empty ID, which downstream stages skip.
func NormalizeAdzuna(raw map[string]any) *Job {
	var rec adzunaRecord
	if err := decodeRecord(raw, &rec); err != nil {
		return &Job{Source: "adzuna", Raw: raw}
	}

	id := strings.TrimSpace(rec.ID)
	if id != "" {
		id = fmt.Sprintf("adzuna:%s", id)
	}

	url := rec.RedirectURL
	if url == "" {
		url = rec.URL
	}

	posted := rec.Created
	if posted == "" {
		posted = rec.CreatedAt
	}

	return &Job{
		ID:             id,
		Source:         "adzuna",
		Title:          strings.TrimSpace(rec.Title),
		Company:        strings.TrimSpace(rec.Company.DisplayName),
		Location:       NormalizeLocation(rec.Location.DisplayName),
		Description:    strings.TrimSpace(rec.Description),
		URL:            strings.TrimSpace(url),
		PostedAt:       posted,
		EmploymentType: rec.ContractTime,
		Raw:            raw,
	}
}

// NormalizeRemotive maps one raw Remotive record into a Job. The identifier
// falls back to slug and URL since the API is not consistent about it.
func NormalizeRemotive(raw map[string]any) *Job {
	var rec remotiveRecord
	if err := decodeRecord(raw, &rec); err != nil {
		return &Job{Source: "remotive", Raw: raw}
	}

	id := strings.TrimSpace(rec.ID)
	if id == "" {
		id = strings.TrimSpace(rec.Slug)
	}
	if id == "" {
		id = strings.TrimSpace(rec.URL)
	}
	if id != "" {
		id = fmt.Sprintf("remotive:%s", id)
	}

	location := rec.CandidateRequiredLocation
	if strings.TrimSpace(location) == "" {
		location = "Remote"
	}

	return &Job{
		ID:             id,
		Source:         "remotive",
		Title:          strings.TrimSpace(rec.Title),
		Company:        strings.TrimSpace(rec.CompanyName),
		Location:       NormalizeLocation(location),
		Description:    strings.TrimSpace(rec.Description),
		URL:            strings.TrimSpace(rec.URL),
		PostedAt:       rec.PublicationDate,
		EmploymentType: rec.JobType,
		Raw:            raw,
	}
}
