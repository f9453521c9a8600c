package jobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(zap.NewNop(), "test-key")
	client.APIURL = server.URL
	client.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return client, server
}

func TestSearchNormalizesRawRecords(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "golang backend engineer" {
			t.Errorf("expected query trimmed to 3 tokens, got %q", got)
		}
		if got := r.URL.Query().Get("country"); got != "US" {
			t.Errorf("expected country US, got %q", got)
		}
		if got := r.URL.Query().Get("page"); got != "1" {
			t.Errorf("expected page 1, got %q", got)
		}
		if got := r.Header.Get("X-RapidAPI-Key"); got != "test-key" {
			t.Errorf("expected api key header, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [
			{
				"job_id": "abc-1",
				"job_title": "Senior Go Developer",
				"employer_name": "Acme",
				"job_city": "Austin",
				"job_state": "TX",
				"job_employment_type": "FULLTIME",
				"job_posted_at_datetime_utc": "2025-06-14T12:00:00Z",
				"job_description": "We need golang, docker and kubernetes experience. ` + strings.Repeat("x", 400) + `",
				"job_salary_currency": "USD",
				"job_min_salary": 120000,
				"job_max_salary": 150000,
				"job_apply_link": "https://example.com/apply"
			},
			{
				"job_title": null,
				"job_country": "US"
			}
		]}`))
	})

	postings := client.Search(context.Background(), "golang backend engineer remote senior", "", 30)
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}

	first := postings[0]
	if first.ID != "abc-1" || first.Title != "Senior Go Developer" || first.Company != "Acme" {
		t.Fatalf("unexpected posting: %+v", first)
	}
	if first.Location != "Austin, TX" {
		t.Fatalf("unexpected location: %q", first.Location)
	}
	if first.PostedAt != "1 day ago" {
		t.Fatalf("unexpected postedAt: %q", first.PostedAt)
	}
	if first.Salary != "USD 120000-150000" {
		t.Fatalf("unexpected salary: %q", first.Salary)
	}
	if !strings.HasSuffix(first.Description, "...") || len([]rune(first.Description)) != descriptionLimit+3 {
		t.Fatalf("expected description truncated to %d chars with ellipsis, got %d", descriptionLimit, len([]rune(first.Description)))
	}
	wantSkills := []string{"golang", "docker", "kubernetes"}
	if len(first.RequiredSkills) != len(wantSkills) {
		t.Fatalf("unexpected skills: %v", first.RequiredSkills)
	}
	for i, skill := range wantSkills {
		if first.RequiredSkills[i] != skill {
			t.Fatalf("skill %d: expected %q, got %q", i, skill, first.RequiredSkills[i])
		}
	}

	second := postings[1]
	if second.Title != "No title" || second.Company != "Unknown Company" {
		t.Fatalf("expected defaults, got %+v", second)
	}
	if second.Location != "US" {
		t.Fatalf("expected country fallback location, got %q", second.Location)
	}
	if second.Salary != "Not specified" {
		t.Fatalf("unexpected salary: %q", second.Salary)
	}
	if second.Description != "No description available" {
		t.Fatalf("unexpected description: %q", second.Description)
	}
	if second.PostedAt != "Recently" {
		t.Fatalf("unexpected postedAt: %q", second.PostedAt)
	}
	if second.ID == "" || !strings.HasPrefix(second.ID, "job-") {
		t.Fatalf("expected generated id, got %q", second.ID)
	}
}

func TestSearchSendsLocationAsSeparateParameter(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "golang" {
			t.Errorf("expected query untouched by location, got %q", got)
		}
		if got := r.URL.Query().Get("location"); got != "Berlin" {
			t.Errorf("expected location parameter, got %q", got)
		}
		w.Write([]byte(`{"data": []}`))
	})

	client.Search(context.Background(), "golang", "Berlin", 30)
}

func TestSearchDegradesToEmptyOnBadStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	postings := client.Search(context.Background(), "golang", "", 30)
	if len(postings) != 0 {
		t.Fatalf("expected empty result, got %d", len(postings))
	}
}

func TestSearchDegradesToEmptyOnMalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	})

	postings := client.Search(context.Background(), "golang", "", 30)
	if len(postings) != 0 {
		t.Fatalf("expected empty result, got %d", len(postings))
	}
}

func TestSearchAppliesLimit(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data": [{"job_id": "1"}, {"job_id": "2"}, {"job_id": "3"}]}`))
	})

	postings := client.Search(context.Background(), "golang", "", 2)
	if len(postings) != 2 {
		t.Fatalf("expected limit applied, got %d", len(postings))
	}
}

func TestSearchFallbackHardcodesSentinels(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "Backend Engineer" {
			t.Errorf("expected single fallback term, got %q", got)
		}
		if r.URL.Query().Has("page") || r.URL.Query().Has("num_pages") {
			t.Error("expected no paging parameters on fallback call")
		}
		w.Write([]byte(`{"data": [{
			"job_id": "fb-1",
			"job_title": "Backend Engineer",
			"employer_name": "Beta",
			"job_posted_at_datetime_utc": "2025-06-01T00:00:00Z",
			"job_salary_currency": "USD",
			"job_min_salary": 90000
		}]}`))
	})

	postings := client.SearchFallback(context.Background(), "Backend Engineer", 30)
	if len(postings) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(postings))
	}
	if postings[0].PostedAt != "Recently" {
		t.Fatalf("expected fallback postedAt sentinel, got %q", postings[0].PostedAt)
	}
	if postings[0].Salary != "Not specified" {
		t.Fatalf("expected fallback salary sentinel, got %q", postings[0].Salary)
	}
}

func TestExtractRequiredSkillsCapsAtEight(t *testing.T) {
	description := "javascript typescript python java golang c# php ruby react angular"
	skills := ExtractRequiredSkills(description)
	if len(skills) != 8 {
		t.Fatalf("expected 8 skills, got %d: %v", len(skills), skills)
	}
	// Vocabulary order, not description order.
	if skills[0] != "javascript" || skills[7] != "ruby" {
		t.Fatalf("unexpected ordering: %v", skills)
	}
}

func TestExtractRequiredSkillsEmptyDescription(t *testing.T) {
	if skills := ExtractRequiredSkills("  "); len(skills) != 0 {
		t.Fatalf("expected no skills, got %v", skills)
	}
}
