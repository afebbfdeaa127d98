package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/quangtd/jobharvest/internal/fetch"
	"github.com/quangtd/jobharvest/internal/record"
)

// TopCV extracts topcv.vn listing and detail pages. The site renders its
// search results client-side, so it pairs with the rendered fetcher.
type TopCV struct {
	baseURL  string
	title    Chain
	company  Chain
	salary   Chain
	location Chain
	exp      Chain
	link     Chain
}

func NewTopCV() *TopCV {
	return &TopCV{
		baseURL:  "https://www.topcv.vn",
		title:    Chain{Text("h3.title span")},
		company:  Chain{Text("a.company span.company-name")},
		salary:   Chain{Text("label.title-salary")},
		location: Chain{Text("label.address .city-text")},
		exp:      Chain{Text("label.exp span")},
		link:     Chain{Attr("div.title-block a[href]", "href")},
	}
}

func (e *TopCV) Source() string { return SourceTopCV }

func (e *TopCV) DetailWaitSelector() string { return ".job-detail__information-container" }

func (e *TopCV) ListingScrollSelector() string { return "" }

func (e *TopCV) ExtractListings(page *fetch.PageContent) []record.ListingSummary {
	var listings []record.ListingSummary
	page.Doc.Find("div.job-item-search-result").Each(func(_ int, card *goquery.Selection) {
		listing := record.ListingSummary{
			Title:     e.title.First(card),
			Company:   e.company.First(card),
			Location:  e.location.First(card),
			Salary:    record.SalaryTextValue(e.salary.First(card)),
			DetailURL: e.extractURL(card),
		}
		// Required experience has no column of its own in the summary,
		// it rides along with the tags.
		if exp := e.exp.First(card); exp != "" {
			listing.Tags = []string{exp}
		}
		listings = append(listings, listing)
	})
	return listings
}

func (e *TopCV) extractURL(card *goquery.Selection) string {
	href := e.link.First(card)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return e.baseURL + href
}

// Detail sections are keyed by their Vietnamese headings.
func (e *TopCV) ExtractDetail(page *fetch.PageContent) record.DetailRecord {
	doc := page.Doc
	return record.DetailRecord{
		Description:  e.section(doc, "Mô tả công việc"),
		Requirements: record.TextValue(e.section(doc, "Yêu cầu ứng viên")),
		Benefits:     record.TextValue(e.section(doc, "Quyền lợi")),
		Location:     e.section(doc, "Địa điểm làm việc"),
		WorkingTime:  e.section(doc, "Thời gian làm việc"),
	}
}

// section finds the job-description block whose h3 heading contains title and
// returns its content paragraphs joined by newlines.
func (e *TopCV) section(doc *goquery.Document, title string) string {
	var content *goquery.Selection
	doc.Find(".job-description__item h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.Contains(h.Text(), title) {
			content = h.Closest(".job-description__item").Find("div.job-description__item--content").First()
			return false
		}
		return true
	})
	if content == nil || content.Length() == 0 {
		return ""
	}
	var parts []string
	content.Find("p, li, div").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n")
}
