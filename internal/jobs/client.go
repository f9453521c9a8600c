package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/krevetko/job-scout/internal/utils"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	apiURL     = "https://jsearch.p.rapidapi.com"
	apiHost    = "jsearch.p.rapidapi.com"
	searchPath = "/search"

	// The external API matches poorly on long queries.
	maxQueryTokens = 3

	searchCountry    = "US"
	platformName     = "JSearch"
	descriptionLimit = 300
	noDescription    = "No description available"
	notSpecified     = "Not specified"
)

// Client talks to the external job-search API and normalizes its loosely
// typed records into Postings. It never propagates transport or decoding
// failures: a failed search degrades to an empty result list so the caller
// can fall back.
type Client struct {
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
	APIHost    string

	// now is overridable in tests.
	now func() time.Time
}

// NewClient builds a job-search client with default endpoint and timeout.
func NewClient(logger *zap.Logger, apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		logger:  logger,
		APIURL:  apiURL,
		APIHost: apiHost,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

// rawJob mirrors one record of the external API. Every field is optional;
// normalization supplies the documented defaults.
type rawJob struct {
	JobID             string   `json:"job_id"`
	JobTitle          string   `json:"job_title"`
	EmployerName      string   `json:"employer_name"`
	JobCity           string   `json:"job_city"`
	JobState          string   `json:"job_state"`
	JobCountry        string   `json:"job_country"`
	JobEmploymentType string   `json:"job_employment_type"`
	JobPostedAt       string   `json:"job_posted_at_datetime_utc"`
	JobDescription    string   `json:"job_description"`
	JobSalaryCurrency string   `json:"job_salary_currency"`
	JobMinSalary      *float64 `json:"job_min_salary"`
	JobMaxSalary      *float64 `json:"job_max_salary"`
	JobApplyLink      string   `json:"job_apply_link"`
}

// Search runs the primary query against the external API. Only the first 3
// whitespace tokens of the query are sent. Results are normalized and capped
// at limit.
func (c *Client) Search(ctx context.Context, query, location string, limit int) Postings {
	q := url.Values{}
	q.Set("query", trimQuery(query))
	q.Set("page", "1")
	q.Set("num_pages", "1")
	q.Set("country", searchCountry)
	if location = strings.TrimSpace(location); location != "" {
		q.Set("location", location)
	}

	raws, err := c.fetch(ctx, q)
	if err != nil {
		c.logger.Error("job search failed, degrading to empty result list",
			zap.String("query", query),
			zap.Error(err),
		)
		return Postings{}
	}

	return c.normalizeAll(raws, limit, false)
}

// SearchFallback runs the narrow single-term query used when the primary
// search comes back empty. The call provides less detail, so postedAt and
// salary are fixed sentinels.
func (c *Client) SearchFallback(ctx context.Context, term string, limit int) Postings {
	q := url.Values{}
	q.Set("query", strings.TrimSpace(term))

	raws, err := c.fetch(ctx, q)
	if err != nil {
		c.logger.Error("fallback job search failed, degrading to empty result list",
			zap.String("term", term),
			zap.Error(err),
		)
		return Postings{}
	}

	return c.normalizeAll(raws, limit, true)
}

func (c *Client) fetch(ctx context.Context, q url.Values) ([]rawJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+searchPath, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.APIHost)
	req.URL.RawQuery = q.Encode()

	c.logger.Debug("job api request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("job api returned bad status",
			zap.Int("status", resp.StatusCode),
			zap.String("body", utils.TruncateForLog(string(body), 500)),
		)
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var response struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("decode job api response: %w", err)
	}

	var raws []rawJob
	cfg := &mapstructure.DecoderConfig{
		Result:           &raws,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(response.Data); err != nil {
		return nil, fmt.Errorf("decode job records: %w", err)
	}

	return raws, nil
}

func (c *Client) normalizeAll(raws []rawJob, limit int, fallback bool) Postings {
	postings := make(Postings, 0, len(raws))
	for _, raw := range raws {
		if limit > 0 && len(postings) == limit {
			break
		}
		postings = append(postings, c.normalize(raw, fallback))
	}
	return postings
}

func (c *Client) normalize(raw rawJob, fallback bool) Posting {
	p := Posting{
		ID:             strings.TrimSpace(raw.JobID),
		Title:          defaultString(raw.JobTitle, "No title"),
		Company:        defaultString(raw.EmployerName, "Unknown Company"),
		Location:       normalizeLocation(raw),
		EmploymentType: defaultString(raw.JobEmploymentType, notSpecified),
		Platform:       platformName,
		Description:    normalizeDescription(raw.JobDescription),
		ApplyURL:       strings.TrimSpace(raw.JobApplyLink),
		RequiredSkills: ExtractRequiredSkills(raw.JobDescription),
	}

	if fallback {
		p.PostedAt = recentlyLabel
		p.Salary = notSpecified
	} else {
		p.PostedAt = FormatPostedAt(raw.JobPostedAt, c.now())
		p.Salary = normalizeSalary(raw)
	}

	if p.ID == "" {
		p.ID = c.generateID()
	}

	return p
}

// generateID produces a fallback token when the API provides no id. It is
// unique within a request, which is all per-request dedup needs.
func (c *Client) generateID() string {
	return fmt.Sprintf("job-%d-%s", c.now().UnixMilli(), strings.SplitN(uuid.NewString(), "-", 2)[0])
}

func normalizeLocation(raw rawJob) string {
	city := strings.TrimSpace(raw.JobCity)
	state := strings.TrimSpace(raw.JobState)
	country := strings.TrimSpace(raw.JobCountry)

	switch {
	case city != "" && state != "":
		return city + ", " + state
	case country != "":
		return country
	default:
		return notSpecified
	}
}

func normalizeDescription(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return noDescription
	}

	runes := []rune(description)
	if len(runes) <= descriptionLimit {
		return description
	}
	return string(runes[:descriptionLimit]) + "..."
}

func normalizeSalary(raw rawJob) string {
	currency := strings.TrimSpace(raw.JobSalaryCurrency)
	if currency == "" || raw.JobMinSalary == nil {
		return notSpecified
	}

	salary := currency + " " + formatAmount(*raw.JobMinSalary)
	if raw.JobMaxSalary != nil {
		salary += "-" + formatAmount(*raw.JobMaxSalary)
	}
	return salary
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func defaultString(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}

func trimQuery(query string) string {
	tokens := strings.Fields(query)
	if len(tokens) > maxQueryTokens {
		tokens = tokens[:maxQueryTokens]
	}
	return strings.Join(tokens, " ")
}
