package jobs

import (
	"encoding/json"
	"os"
	"strings"
)

// Posting is the normalized representation of one external job listing.
// RequiredSkills and RelevanceScore are always derived locally, never taken
// from the external API.
type Posting struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	EmploymentType string   `json:"employmentType"`
	Platform       string   `json:"platform"`
	PostedAt       string   `json:"postedAt"`
	Description    string   `json:"description"`
	Salary         string   `json:"salary"`
	ApplyURL       string   `json:"applyUrl"`
	RequiredSkills []string `json:"requiredSkills"`
	RelevanceScore int      `json:"relevanceScore"`
}

// Postings is an ordered job list.
type Postings []Posting

func (p Postings) Len() int { return len(p) }

// DumpToTmpFile writes the list as indented JSON to a temporary file and
// returns its name.
func (p Postings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// skillVocabulary is the fixed term list scanned against raw descriptions.
// Order matters: matches are reported in vocabulary order.
var skillVocabulary = []string{
	"javascript",
	"typescript",
	"python",
	"java",
	"golang",
	"c#",
	"php",
	"ruby",
	"react",
	"angular",
	"vue",
	"node.js",
	"sql",
	"nosql",
	"aws",
	"azure",
	"docker",
	"kubernetes",
	"terraform",
	"git",
	"agile",
	"scrum",
	"machine learning",
	"data analysis",
	"project management",
	"communication",
	"leadership",
}

const maxRequiredSkills = 8

// ExtractRequiredSkills scans the raw description case-insensitively against
// the fixed vocabulary and keeps at most the first 8 matches in vocabulary
// order.
func ExtractRequiredSkills(description string) []string {
	matched := []string{}
	if strings.TrimSpace(description) == "" {
		return matched
	}

	haystack := strings.ToLower(description)
	for _, skill := range skillVocabulary {
		if strings.Contains(haystack, skill) {
			matched = append(matched, skill)
			if len(matched) == maxRequiredSkills {
				break
			}
		}
	}
	return matched
}
