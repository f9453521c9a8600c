// Package scoring computes 0-100 relevance scores between a job posting and
// extracted CV facts.
package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/krevetko/job-scout/internal/cv"
	"github.com/krevetko/job-scout/internal/jobs"
)

const (
	skillPoolWeight      = 40.0
	titlePoolWeight      = 30.0
	experiencePoolWeight = 20.0
	keywordPoolWeight    = 10.0

	seniorPenalty    = -15
	yearsPenaltyStep = 10
	penaltyFloor     = -20
)

var (
	seniorityMarkers = []string{"senior", "lead", "manager"}
	yearsPattern     = regexp.MustCompile(`(\d+)\+?\s*years`)
)

// Score computes the relevance of a posting against the CV facts. Each
// applicable pool contributes to a running score and a running maximum; the
// result is round(max(0, score/max) * 100). When no pool applies the score
// is 0.
func Score(job jobs.Posting, facts cv.Facts) int {
	var score, maxPossible float64

	haystack := strings.ToLower(job.Title + " " + job.Description)

	if len(job.RequiredSkills) > 0 && len(facts.Skills) > 0 {
		maxPossible += skillPoolWeight
		score += skillMatch(job.RequiredSkills, facts.Skills) * skillPoolWeight
	}

	if len(facts.JobTitles) > 0 {
		maxPossible += titlePoolWeight
		if titleMatches(job.Title, facts.JobTitles) {
			score += titlePoolWeight
		}
	}

	// The experience pool can only subtract; it still raises the maximum.
	maxPossible += experiencePoolWeight
	score += float64(experiencePenalty(haystack, facts.ExperienceYears))

	if len(facts.SearchKeywords) > 0 {
		maxPossible += keywordPoolWeight
		score += keywordMatch(haystack, facts.SearchKeywords) * keywordPoolWeight
	}

	if maxPossible == 0 {
		return 0
	}

	ratio := score / maxPossible
	if ratio < 0 {
		ratio = 0
	}
	return int(math.Round(ratio * 100))
}

// skillMatch returns the fraction of CV skills that substring-match (either
// direction, case-insensitive) any required skill.
func skillMatch(required, cvSkills []string) float64 {
	matched := 0
	for _, cvSkill := range cvSkills {
		lowered := strings.ToLower(strings.TrimSpace(cvSkill))
		if lowered == "" {
			continue
		}
		for _, req := range required {
			reqLowered := strings.ToLower(req)
			if strings.Contains(reqLowered, lowered) || strings.Contains(lowered, reqLowered) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(cvSkills))
}

// titleMatches reports whether any CV job title appears in the posting title.
// A single match earns the full pool; matches do not accumulate.
func titleMatches(postingTitle string, cvTitles []string) bool {
	lowered := strings.ToLower(postingTitle)
	for _, title := range cvTitles {
		title = strings.ToLower(strings.TrimSpace(title))
		if title != "" && strings.Contains(lowered, title) {
			return true
		}
	}
	return false
}

// experiencePenalty scans for seniority markers and "N years" requirements.
// A seniority marker with under 3 years of experience costs 15 points. Every
// year requirement exceeding experience+1 ratchets the penalty down by 10
// more, saturating at -20.
func experiencePenalty(haystack string, experienceYears int) int {
	penalty := 0

	if experienceYears < 3 {
		for _, marker := range seniorityMarkers {
			if strings.Contains(haystack, marker) {
				penalty = seniorPenalty
				break
			}
		}
	}

	for _, match := range yearsPattern.FindAllStringSubmatch(haystack, -1) {
		required, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if required > experienceYears+1 {
			penalty -= yearsPenaltyStep
			if penalty < penaltyFloor {
				penalty = penaltyFloor
			}
		}
	}

	return penalty
}

// keywordMatch returns the fraction of keywords found anywhere in the posting
// title or description.
func keywordMatch(haystack string, keywords []string) float64 {
	found := 0
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" && strings.Contains(haystack, keyword) {
			found++
		}
	}
	return float64(found) / float64(len(keywords))
}
