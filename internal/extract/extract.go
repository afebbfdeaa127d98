// Package extract turns fetched pages into structured listing and detail
// records. Each listing source has its own extractor; individual fields are
// resolved through ordered fallback chains so a missing element degrades to
// an empty value instead of aborting the record.
package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/quangtd/jobharvest/internal/fetch"
	"github.com/quangtd/jobharvest/internal/record"
)

// Extractor is the per-source extraction capability consumed by the crawl
// controller.
type Extractor interface {
	// Source returns the platform identifier stamped on every record.
	Source() string
	// ExtractListings parses the cards of one search-results page.
	ExtractListings(page *fetch.PageContent) []record.ListingSummary
	// ExtractDetail parses a single posting page.
	ExtractDetail(page *fetch.PageContent) record.DetailRecord
	// DetailWaitSelector names the element a rendered fetcher should wait
	// for on detail pages, or "" when none is needed.
	DetailWaitSelector() string
	// ListingScrollSelector names the listing-card element a rendered
	// fetcher should count while scroll-loading search pages, or "" for
	// sources whose listings render without scrolling.
	ListingScrollSelector() string
}

// New returns the extractor for a source identifier.
func New(source string) (Extractor, error) {
	switch source {
	case SourceITviec:
		return NewITviec(), nil
	case SourceTopCV:
		return NewTopCV(), nil
	case SourceVietnamWorks:
		return NewVietnamWorks(), nil
	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}

// Strategy resolves one candidate value for a field from a selection.
type Strategy func(*goquery.Selection) string

// Chain is an ordered list of strategies tried left to right; the first
// non-empty result wins. Fallback order is data, not control flow.
type Chain []Strategy

// First evaluates the chain and returns the first non-empty trimmed result.
func (c Chain) First(sel *goquery.Selection) string {
	for _, strategy := range c {
		if v := strings.TrimSpace(strategy(sel)); v != "" {
			return v
		}
	}
	return ""
}

// ListStrategy resolves one candidate value for a list-typed field.
type ListStrategy func(*goquery.Selection) []string

// ListChain tries list strategies in order; the first non-empty slice wins.
type ListChain []ListStrategy

func (c ListChain) First(sel *goquery.Selection) []string {
	for _, strategy := range c {
		if v := strategy(sel); len(v) > 0 {
			return v
		}
	}
	return nil
}

// Text selects the first match of selector and returns its text.
func Text(selector string) Strategy {
	return func(sel *goquery.Selection) string {
		return sel.Find(selector).First().Text()
	}
}

// Attr selects the first match of selector and returns an attribute value.
func Attr(selector, attr string) Strategy {
	return func(sel *goquery.Selection) string {
		v, _ := sel.Find(selector).First().Attr(attr)
		return v
	}
}

// AllowList filters the texts of every selector match against a closed set of
// valid values and returns the first hit. Sources reuse one structural class
// for several semantic roles; the allow-list disambiguates them.
func AllowList(selector string, valid []string) Strategy {
	return func(sel *goquery.Selection) string {
		found := ""
		sel.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			for _, v := range valid {
				if text == v {
					found = text
					return false
				}
			}
			return true
		})
		return found
	}
}

// textLines walks the selection's DOM subtree and returns every non-blank
// text node, trimmed, in document order.
func textLines(sel *goquery.Selection) []string {
	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				lines = append(lines, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return lines
}

// blockText renders the selection as newline-joined trimmed text.
func blockText(sel *goquery.Selection) string {
	return strings.Join(textLines(sel), "\n")
}

// resolveURL joins a possibly relative href against the source base URL.
func resolveURL(base, href string) string {
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}

// texts returns the trimmed non-empty text of every match.
func texts(sel *goquery.Selection, selector string) []string {
	var out []string
	sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}
