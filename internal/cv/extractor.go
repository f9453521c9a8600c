package cv

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/krevetko/job-scout/internal/ai"
	"github.com/krevetko/job-scout/internal/retry"
	"github.com/krevetko/job-scout/internal/sanitize"
	"github.com/krevetko/job-scout/internal/utils"

	"go.uber.org/zap"
)

//go:embed prompt.md
var promptTemplate string

const (
	// Only the head of the CV is sent to the model to control cost and latency.
	maxCVChars = 5000

	defaultMaxLogLength = 200
)

// Extractor turns free-form CV text into Facts via the generative model.
type Extractor struct {
	generator ai.Generator
	policy    retry.Policy
	logger    *zap.Logger
	maxLogLen int
}

// NewExtractor builds an Extractor. A zero policy falls back to the default
// retry schedule.
func NewExtractor(generator ai.Generator, logger *zap.Logger, policy retry.Policy) *Extractor {
	if policy.MaxAttempts <= 0 && policy.BaseDelay <= 0 {
		policy = retry.DefaultPolicy()
	}

	return &Extractor{
		generator: generator,
		policy:    policy,
		logger:    logger,
		maxLogLen: defaultMaxLogLength,
	}
}

// Extract sends the CV text to the model and parses the response into Facts.
// It never fails: any transport, quota or parse problem is logged and the
// zero-value record is returned so the pipeline can proceed without signal.
func (e *Extractor) Extract(ctx context.Context, cvText string) Facts {
	prompt := buildPrompt(cvText)

	e.logger.Debug("cv extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	var raw string
	err := retry.Do(ctx, e.logger, e.policy, "cv_fact_extraction", func(ctx context.Context) error {
		var genErr error
		raw, genErr = e.generator.GenerateContent(ctx, prompt)
		return genErr
	})
	if err != nil {
		e.logger.Warn("cv extraction failed, continuing with empty facts", zap.Error(err))
		return ZeroFacts()
	}

	e.logger.Debug("cv extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	facts, err := parseFacts(raw)
	if err != nil {
		e.logger.Warn("cv extraction response unusable, continuing with empty facts", zap.Error(err))
		return ZeroFacts()
	}

	return facts
}

func buildPrompt(cvText string) string {
	runes := []rune(strings.TrimSpace(cvText))
	if len(runes) > maxCVChars {
		runes = runes[:maxCVChars]
	}
	return strings.ReplaceAll(promptTemplate, "{{CV_TEXT}}", string(runes))
}

func parseFacts(raw string) (Facts, error) {
	cleaned := sanitize.ExtractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return Facts{}, fmt.Errorf("parse model response: %w", err)
	}

	return Facts{
		Skills:          coerceStringSlice(data["skills"]),
		ExperienceYears: coerceYears(data["experienceYears"]),
		JobTitles:       coerceStringSlice(data["jobTitles"]),
		Industries:      coerceStringSlice(data["industries"]),
		Education:       coerceEducation(data["education"]),
		SearchKeywords:  coerceStringSlice(data["searchKeywords"]),
	}, nil
}

func coerceStringSlice(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		switch val := item.(type) {
		case string:
			if trimmed := strings.TrimSpace(val); trimmed != "" {
				out = append(out, trimmed)
			}
		case float64:
			out = append(out, strconv.FormatFloat(val, 'f', -1, 64))
		}
	}
	return out
}

func coerceYears(v any) int {
	years := 0
	switch val := v.(type) {
	case float64:
		years = int(val)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0
		}
		years = parsed
	}
	if years < 0 {
		return 0
	}
	return years
}

func coerceEducation(v any) string {
	if s, ok := v.(string); ok {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return trimmed
		}
	}
	return "Not specified"
}
