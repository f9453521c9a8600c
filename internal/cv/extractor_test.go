package cv

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/krevetko/job-scout/internal/retry"

	"go.uber.org/zap"
)

type fakeGenerator struct {
	calls     int
	prompts   []string
	responses []string
	err       error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}
}

func TestExtractReturnsZeroFactsAfterRetriesExhausted(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model unavailable")}
	e := NewExtractor(gen, zap.NewNop(), fastPolicy())

	facts := e.Extract(context.Background(), "some cv text about a backend engineer")

	if gen.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", gen.calls)
	}

	want := ZeroFacts()
	if facts.Education != want.Education || facts.ExperienceYears != 0 {
		t.Fatalf("expected zero facts, got %+v", facts)
	}
	if len(facts.Skills) != 0 || len(facts.JobTitles) != 0 || len(facts.Industries) != 0 || len(facts.SearchKeywords) != 0 {
		t.Fatalf("expected empty lists, got %+v", facts)
	}
	if facts.Skills == nil || facts.SearchKeywords == nil {
		t.Fatal("expected empty slices, not nil")
	}
}

func TestExtractReturnsZeroFactsOnUnparseableResponse(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"I am sorry, I cannot analyze this document."}}
	e := NewExtractor(gen, zap.NewNop(), fastPolicy())

	facts := e.Extract(context.Background(), "cv text")
	if !facts.IsZero() || facts.Education != "Not specified" {
		t.Fatalf("expected zero facts, got %+v", facts)
	}
}

func TestExtractParsesFencedResponseWithCoercion(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		"Here is the extraction:\n```json\n" +
			`{"skills": ["Go", " SQL ", ""], "experienceYears": "5", "jobTitles": ["Backend Engineer"], "industries": ["Fintech"], "searchKeywords": ["golang", "backend"]}` +
			"\n```\nHope that helps!",
	}}
	e := NewExtractor(gen, zap.NewNop(), fastPolicy())

	facts := e.Extract(context.Background(), "cv text")

	if len(facts.Skills) != 2 || facts.Skills[0] != "Go" || facts.Skills[1] != "SQL" {
		t.Fatalf("unexpected skills: %v", facts.Skills)
	}
	if facts.ExperienceYears != 5 {
		t.Fatalf("expected 5 years, got %d", facts.ExperienceYears)
	}
	// Missing education falls back to the documented default.
	if facts.Education != "Not specified" {
		t.Fatalf("unexpected education: %q", facts.Education)
	}
	if len(facts.SearchKeywords) != 2 {
		t.Fatalf("unexpected keywords: %v", facts.SearchKeywords)
	}
}

func TestExtractSubstitutesDefaultsForWrongTypes(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		`{"skills": "Go", "experienceYears": -2, "jobTitles": null, "industries": 7, "education": "  ", "searchKeywords": [1, "golang"]}`,
	}}
	e := NewExtractor(gen, zap.NewNop(), fastPolicy())

	facts := e.Extract(context.Background(), "cv text")

	if len(facts.Skills) != 0 {
		t.Fatalf("expected no skills from wrong type, got %v", facts.Skills)
	}
	if facts.ExperienceYears != 0 {
		t.Fatalf("expected negative years clamped to 0, got %d", facts.ExperienceYears)
	}
	if len(facts.JobTitles) != 0 || len(facts.Industries) != 0 {
		t.Fatalf("expected empty lists, got %+v", facts)
	}
	if facts.Education != "Not specified" {
		t.Fatalf("unexpected education: %q", facts.Education)
	}
	if len(facts.SearchKeywords) != 2 || facts.SearchKeywords[0] != "1" {
		t.Fatalf("unexpected keywords: %v", facts.SearchKeywords)
	}
}

func TestExtractTruncatesLongCVText(t *testing.T) {
	gen := &fakeGenerator{responses: []string{`{}`}}
	e := NewExtractor(gen, zap.NewNop(), fastPolicy())

	cvText := strings.Repeat("a", 6000)
	e.Extract(context.Background(), cvText)

	if len(gen.prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(gen.prompts))
	}
	if strings.Contains(gen.prompts[0], strings.Repeat("a", 5001)) {
		t.Fatal("expected cv text truncated to 5000 characters")
	}
	if !strings.Contains(gen.prompts[0], strings.Repeat("a", 5000)) {
		t.Fatal("expected first 5000 characters to be sent")
	}
}
