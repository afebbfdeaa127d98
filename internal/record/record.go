// Package record defines the canonical data types shared across the harvest,
// normalization, and enrichment stages.
package record

// RawScrapeRecord is one line of the append-only raw log: the listing summary
// a source search page produced, joined with the detail page fetched through
// its URL. Records are never mutated after write.
type RawScrapeRecord struct {
	Platform  string         `json:"platform"`
	Listing   ListingSummary `json:"job_list_item"`
	Detail    DetailRecord   `json:"job_detail"`
	Timestamp int64          `json:"timestamp"`
}

// ListingSummary is the compact record extracted from a search-results card.
// DetailURL is the join key to the detail page; items without one are skipped
// by the crawl controller.
type ListingSummary struct {
	Title     string      `json:"title"`
	Company   string      `json:"company"`
	Location  string      `json:"location"`
	Salary    SalaryValue `json:"salary"`
	DetailURL string      `json:"job_url"`
	Tags      []string    `json:"tags,omitempty"`
}

// DetailRecord holds the structured content of a single posting page. Field
// shapes vary per source; a failed field extractor leaves the field null or
// empty, it is never dropped from the schema.
type DetailRecord struct {
	Description  string            `json:"description"`
	Requirements FlexList          `json:"requirements"`
	Benefits     FlexList          `json:"benefits"`
	Location     string            `json:"location,omitempty"`
	WorkingTime  string            `json:"working_time,omitempty"`
	CompanyInfo  map[string]string `json:"company_info,omitempty"`
	Overview     map[string]any    `json:"job_overview,omitempty"`
}

// SalaryKind classifies the outcome of the salary parser cascade.
type SalaryKind string

// Salary classifications, in cascade priority order.
const (
	SalaryCompetitive   SalaryKind = "competitive"
	SalaryUpTo          SalaryKind = "up_to"
	SalaryLoginRequired SalaryKind = "login_required"
	SalaryRange         SalaryKind = "range"
	SalaryFixed         SalaryKind = "fixed"
	SalaryDescriptive   SalaryKind = "descriptive"
)

// SalaryInfo is a classified salary. Min and Max are populated only for the
// up_to, range, and fixed kinds; Raw always preserves the source text.
type SalaryInfo struct {
	Kind        SalaryKind `json:"type"`
	Min         *float64   `json:"min,omitempty"`
	Max         *float64   `json:"max,omitempty"`
	Currency    string     `json:"currency,omitempty"`
	Raw         string     `json:"raw"`
	Description string     `json:"description,omitempty"`
}

// NormalizedSalary is the numeric form carried by NormalizedJob. Avg is the
// arithmetic mean of Min and Max when both are present, otherwise nil.
type NormalizedSalary struct {
	Raw *string `json:"raw"`
	Min *int64  `json:"min"`
	Max *int64  `json:"max"`
	Avg *int64  `json:"avg"`
}

// NormalizedJob is the canonical entity written to the normalized log. Skills
// stays absent until the enrichment stage has run.
type NormalizedJob struct {
	Platform     string           `json:"platform"`
	Title        string           `json:"title"`
	Company      string           `json:"company"`
	Location     string           `json:"location"`
	DetailURL    string           `json:"job_url"`
	Timestamp    int64            `json:"timestamp"`
	Salary       NormalizedSalary `json:"salary"`
	Description  string           `json:"description"`
	Requirements []string         `json:"requirements"`
	Benefits     []string         `json:"benefits"`
	Skills       []string         `json:"skills,omitempty"`
}

// SkillRow is one row of the flattened (job, skill) table. A job with no
// skills contributes zero rows.
type SkillRow struct {
	Platform string `json:"platform"`
	JobURL   string `json:"job_url"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Skill    string `json:"skill"`
}

// JobSkills pairs a job title with its extracted skill list; it is the line
// format of the intermediate skills log produced by the enrich stage.
type JobSkills struct {
	Title  string   `json:"title"`
	Skills []string `json:"skills"`
}
