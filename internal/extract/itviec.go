package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/quangtd/jobharvest/internal/fetch"
	"github.com/quangtd/jobharvest/internal/record"
)

// Source identifiers stamped on every record a source produces.
const (
	SourceITviec       = "itviec"
	SourceTopCV        = "topcv"
	SourceVietnamWorks = "vietnamworks"
)

// itviecCities is the closed set of city names the listing cards use. Cards
// reuse div.text-rich-grey for both the work type ("At office") and the city,
// so location is whichever candidate appears in this list.
var itviecCities = []string{
	"Ho Chi Minh",
	"Ha Noi",
	"Da Nang",
	"Can Tho",
	"Hai Phong",
	"Binh Duong",
	"Dong Nai",
}

// ITviec extracts itviec.com listing and detail pages.
type ITviec struct {
	baseURL  string
	title    Chain
	company  Chain
	location Chain
}

func NewITviec() *ITviec {
	return &ITviec{
		baseURL: "https://itviec.com",
		title:   Chain{Text("h3")},
		// Two /companies/ links exist per card; only the classed one
		// carries the company name.
		company:  Chain{Text(`a.text-rich-grey[href*="/companies/"]`)},
		location: Chain{AllowList("div.text-rich-grey", itviecCities)},
	}
}

func (e *ITviec) Source() string { return SourceITviec }

// DetailWaitSelector is empty: itviec detail pages are fetched directly.
func (e *ITviec) DetailWaitSelector() string { return "" }

func (e *ITviec) ListingScrollSelector() string { return "" }

func (e *ITviec) ExtractListings(page *fetch.PageContent) []record.ListingSummary {
	var listings []record.ListingSummary
	page.Doc.Find("div.job-card").Each(func(_ int, card *goquery.Selection) {
		listings = append(listings, record.ListingSummary{
			Title:     e.title.First(card),
			Company:   e.company.First(card),
			Location:  e.location.First(card),
			Salary:    e.extractSalary(card),
			DetailURL: e.extractURL(card),
			Tags:      texts(card, "a.itag"),
		})
	})
	return listings
}

func (e *ITviec) extractSalary(card *goquery.Selection) record.SalaryValue {
	salaryDiv := card.Find("div.salary").First()
	if salaryDiv.Length() == 0 {
		return record.SalaryValue{}
	}
	signIn := card.Find("a.sign-in-view-salary").Length() > 0
	info := ParseSalary(strings.TrimSpace(salaryDiv.Text()), signIn)
	if info == nil {
		return record.SalaryValue{}
	}
	return record.SalaryInfoValue(info)
}

// extractURL reads the card's job URL data attribute. The attribute carries a
// relative path with a trailing /content?... segment that must be cut before
// the path resolves to the posting page.
func (e *ITviec) extractURL(card *goquery.Selection) string {
	raw, ok := card.Attr("data-search--job-selection-job-url-value")
	if !ok || raw == "" {
		return ""
	}
	path, _, _ := strings.Cut(raw, "/content")
	return e.baseURL + path
}

func (e *ITviec) ExtractDetail(page *fetch.PageContent) record.DetailRecord {
	doc := page.Doc
	return record.DetailRecord{
		Description:  e.sectionByHeading(doc, "Job description"),
		Requirements: record.ListValue(e.sectionLines(doc, "Your skills and experience")),
		Benefits:     record.ListValue(e.sectionLines(doc, "Why you'll love working here")),
		CompanyInfo:  e.extractCompanyInfo(doc),
		Overview:     e.extractOverview(doc),
	}
}

// sectionByHeading finds the h2 containing heading (case-insensitive) and
// returns the text of its enclosing div.paragraph container.
func (e *ITviec) sectionByHeading(doc *goquery.Document, heading string) string {
	needle := strings.ToLower(heading)
	var container *goquery.Selection
	doc.Find("h2").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(h.Text()), needle) {
			container = h.Closest("div.paragraph")
			return false
		}
		return true
	})
	if container == nil || container.Length() == 0 {
		return ""
	}
	return blockText(container)
}

func (e *ITviec) sectionLines(doc *goquery.Document, heading string) []string {
	content := e.sectionByHeading(doc, heading)
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

var itviecCompanyLabels = map[string]string{
	"company type":     "type",
	"company industry": "industry",
	"company size":     "size",
	"country":          "country",
	"working days":     "working_days",
	"overtime policy":  "overtime_policy",
}

func (e *ITviec) extractCompanyInfo(doc *goquery.Document) map[string]string {
	info := map[string]string{}
	employer := doc.Find("section.job-show-employer-info")
	if name := strings.TrimSpace(employer.Find("h3 a").First().Text()); name != "" {
		info["name"] = name
	}
	if desc := strings.TrimSpace(employer.Find("p").First().Text()); desc != "" {
		info["description"] = desc
	}
	employer.Find(".row").Each(func(_ int, row *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(row.Find(".col.text-dark-grey").First().Text()))
		value := strings.Join(strings.Fields(row.Find(".col.text-end.text-it-black").First().Text()), " ")
		if label == "" || value == "" {
			return
		}
		for needle, key := range itviecCompanyLabels {
			if strings.Contains(label, needle) {
				info[key] = value
				return
			}
		}
	})
	return info
}

func (e *ITviec) extractOverview(doc *goquery.Document) map[string]any {
	overview := map[string]any{}
	if loc := strings.TrimSpace(doc.Find("div.job-show-info span.normal-text.text-rich-grey").First().Text()); loc != "" {
		overview["detailed_location"] = loc
	}
	if wt := strings.TrimSpace(doc.Find("div.preview-header-item span.normal-text").First().Text()); wt != "" {
		overview["work_type"] = wt
	}
	doc.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if strings.Contains(strings.ToLower(text), "ago") && s.Children().Length() == 0 {
			overview["posted_time_detail"] = text
			return false
		}
		return true
	})
	if domains := texts(doc.Selection, "div.itag.bg-light-grey.itag-sm.cursor-default"); len(domains) > 0 {
		overview["domain"] = domains
	}
	if exp := strings.TrimSpace(doc.Find("a.itag.itag-light.itag-sm[title]").First().Text()); exp != "" {
		overview["expertise"] = exp
	}
	if skills := texts(doc.Selection, "div.job-show-info a.itag.itag-light.itag-sm"); len(skills) > 0 {
		overview["skills"] = skills
	}
	return overview
}
