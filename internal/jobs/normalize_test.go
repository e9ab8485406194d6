package jobs

import "testing"

func TestNormalizeLocation(t *testing.T) {
	t.Parallel()

	if got := NormalizeLocation("  Paris  "); got != "Paris" {
		t.Fatalf("expected Paris, got %q", got)
	}
	if got := NormalizeLocation("   "); got != "Unknown" {
		t.Fatalf("expected Unknown sentinel, got %q", got)
	}
}

func TestNormalizeAdzuna(t *testing.T) {
	raw := map[string]any{
		"id":    12345,
		"title": " Data Analyst (H/F) ",
		"company": map[string]any{
			"display_name": "Acme",
		},
		"location": map[string]any{
			"display_name": "Paris",
			"area":         []any{"France", "Ile-de-France", "Paris"},
		},
		"description":   "SQL et Python",
		"redirect_url":  "https://adzuna.example/view/12345",
		"created":       "2024-05-01T00:00:00Z",
		"contract_time": "full_time",
	}

	job := NormalizeAdzuna(raw)

	if job.ID != "adzuna:12345" {
		t.Fatalf("expected prefixed id, got %q", job.ID)
	}
	if job.Source != "adzuna" {
		t.Fatalf("expected adzuna source, got %q", job.Source)
	}
	if job.Title != "Data Analyst (H/F)" {
		t.Fatalf("unexpected title: %q", job.Title)
	}
	if job.Company != "Acme" || job.Location != "Paris" {
		t.Fatalf("unexpected company/location: %q / %q", job.Company, job.Location)
	}
	if job.URL != "https://adzuna.example/view/12345" {
		t.Fatalf("unexpected url: %q", job.URL)
	}
	if job.PostedAt != "2024-05-01T00:00:00Z" || job.EmploymentType != "full_time" {
		t.Fatalf("unexpected optional fields: %q / %q", job.PostedAt, job.EmploymentType)
	}
	if job.Raw == nil {
		t.Fatalf("expected raw record to be kept for enrichment")
	}
}

func TestNormalizeAdzunaMissingFields(t *testing.T) {
	job := NormalizeAdzuna(map[string]any{
		"title": "Data Analyst",
		"url":   "https://adzuna.example/fallback",
	})

	if job.ID != "" {
		t.Fatalf("expected empty id when source record has none, got %q", job.ID)
	}
	if job.Location != "Unknown" {
		t.Fatalf("expected Unknown location sentinel, got %q", job.Location)
	}
	if job.URL != "https://adzuna.example/fallback" {
		t.Fatalf("expected url fallback when redirect_url missing, got %q", job.URL)
	}
}

func TestNormalizeRemotive(t *testing.T) {
	raw := map[string]any{
		"id":                          987,
		"title":                       "Remote Data Engineer",
		"company_name":                "Globex",
		"candidate_required_location": "France",
		"description":                 "Airflow, dbt",
		"url":                         "https://remotive.example/987",
		"publication_date":            "2024-05-02T00:00:00Z",
		"job_type":                    "full_time",
	}

	job := NormalizeRemotive(raw)

	if job.ID != "remotive:987" {
		t.Fatalf("expected prefixed id, got %q", job.ID)
	}
	if job.Location != "France" || job.Company != "Globex" {
		t.Fatalf("unexpected location/company: %q / %q", job.Location, job.Company)
	}
}

func TestNormalizeRemotiveIDFallbacks(t *testing.T) {
	bySlug := NormalizeRemotive(map[string]any{
		"slug":  "data-analyst-remote",
		"title": "Data Analyst",
	})
	if bySlug.ID != "remotive:data-analyst-remote" {
		t.Fatalf("expected slug fallback, got %q", bySlug.ID)
	}
	if bySlug.Location != "Remote" {
		t.Fatalf("expected Remote location default, got %q", bySlug.Location)
	}

	byURL := NormalizeRemotive(map[string]any{
		"url": "https://remotive.example/42",
	})
	if byURL.ID != "remotive:https://remotive.example/42" {
		t.Fatalf("expected url fallback, got %q", byURL.ID)
	}

	empty := NormalizeRemotive(map[string]any{"title": "No identifier"})
	if empty.ID != "" {
		t.Fatalf("expected empty id, got %q", empty.ID)
	}
}
