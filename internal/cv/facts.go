package cv

// Facts is the structured summary of a CV produced by the generative model.
// It is built once per search request and never persisted.
type Facts struct {
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experienceYears"`
	JobTitles       []string `json:"jobTitles"`
	Industries      []string `json:"industries"`
	Education       string   `json:"education"`
	SearchKeywords  []string `json:"searchKeywords"`
}

// ZeroFacts returns the documented zero-value record used when extraction
// fails: callers continue the pipeline with "no signal" instead of aborting.
func ZeroFacts() Facts {
	return Facts{
		Skills:          []string{},
		ExperienceYears: 0,
		JobTitles:       []string{},
		Industries:      []string{},
		Education:       "Not specified",
		SearchKeywords:  []string{},
	}
}

// IsZero reports whether no usable signal was extracted.
func (f Facts) IsZero() bool {
	return len(f.Skills) == 0 &&
		f.ExperienceYears == 0 &&
		len(f.JobTitles) == 0 &&
		len(f.Industries) == 0 &&
		len(f.SearchKeywords) == 0
}
