package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/quangtd/jobharvest/internal/fetch"
	"github.com/quangtd/jobharvest/internal/record"
)

// vnwCardSelectors is the card fallback chain. The site's styled-component
// class names rotate between deploys, so the chain degrades from the exact
// generated classes down to substring matches.
var vnwCardSelectors = []string{
	"div.search_list.view_job_item.new-job-card",
	"div.new-job-card",
	"div[class*='job-card']",
	"div[class*='job-item']",
}

// VietnamWorks extracts vietnamworks.com listing and detail pages.
type VietnamWorks struct {
	baseURL  string
	title    Chain
	company  Chain
	salary   Chain
	location Chain
	href     Chain
}

func NewVietnamWorks() *VietnamWorks {
	return &VietnamWorks{
		baseURL:  "https://www.vietnamworks.com",
		title:    Chain{Text("h2 a"), Text("a[class*='title']"), Text("h3 a")},
		company:  Chain{Text(".sc-jBqsNv a"), Text("a[class*='company']"), Text(".company-name")},
		salary:   Chain{Text(".sc-cdaca-d"), Text("[class*='salary']")},
		location: Chain{Text(".sc-idnGQK"), Text("[class*='location']")},
		href:     Chain{Attr("h2 a", "href"), Attr("a[class*='title']", "href"), Attr("h3 a", "href")},
	}
}

func (e *VietnamWorks) Source() string { return SourceVietnamWorks }

func (e *VietnamWorks) DetailWaitSelector() string { return "h2.sc-1671001a-5" }

// ListingScrollSelector is the exact card class: search pages lazy-load cards
// on scroll, and the fetcher keeps scrolling until this count stops growing.
func (e *VietnamWorks) ListingScrollSelector() string { return vnwCardSelectors[0] }

func (e *VietnamWorks) ExtractListings(page *fetch.PageContent) []record.ListingSummary {
	cards := e.findCards(page.Doc)
	var listings []record.ListingSummary
	cards.Each(func(_ int, card *goquery.Selection) {
		listings = append(listings, record.ListingSummary{
			Title:     e.title.First(card),
			Company:   e.company.First(card),
			Location:  e.location.First(card),
			Salary:    record.SalaryTextValue(e.salary.First(card)),
			DetailURL: resolveURL(e.baseURL, e.href.First(card)),
		})
	})
	return listings
}

func (e *VietnamWorks) findCards(doc *goquery.Document) *goquery.Selection {
	for _, selector := range vnwCardSelectors {
		if cards := doc.Find(selector); cards.Length() > 0 {
			return cards
		}
	}
	return doc.Find(vnwCardSelectors[0])
}

func (e *VietnamWorks) ExtractDetail(page *fetch.PageContent) record.DetailRecord {
	doc := page.Doc
	detail := record.DetailRecord{Benefits: e.extractBenefits(doc)}
	doc.Find("div.sc-1671001a-4.gDSEwb").Each(func(_ int, sec *goquery.Selection) {
		title := strings.TrimSpace(sec.Find("h2.sc-1671001a-5").First().Text())
		content := sec.Find("div.sc-1671001a-6").First()
		if title == "" || content.Length() == 0 {
			return
		}
		switch {
		case strings.Contains(title, "Mô tả công việc"):
			detail.Description = blockText(content)
		case strings.Contains(title, "Yêu cầu công việc"):
			detail.Requirements = record.TextValue(blockText(content))
		}
	})
	return detail
}

// extractBenefits returns the benefit widgets as {title, description} pairs.
func (e *VietnamWorks) extractBenefits(doc *goquery.Document) record.FlexList {
	var items []map[string]string
	doc.Find("div[data-benefit-name]").Each(func(_ int, item *goquery.Selection) {
		title := strings.TrimSpace(item.Find("p.sc-ab270149-0").First().Text())
		desc := strings.TrimSpace(item.Find("div.sc-c683181c-2").First().Text())
		if title == "" && desc == "" {
			return
		}
		items = append(items, map[string]string{"title": title, "description": desc})
	})
	if len(items) == 0 {
		return record.FlexList{}
	}
	return record.ObjectValue(items)
}
