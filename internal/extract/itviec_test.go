package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangtd/jobharvest/internal/fetch"
	"github.com/quangtd/jobharvest/internal/record"
)

func pageFromHTML(t *testing.T, url, body string) *fetch.PageContent {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return &fetch.PageContent{URL: url, StatusCode: 200, HTML: []byte(body), Doc: doc}
}

const itviecListingHTML = `<html><body>
<div class="job-card" data-search--job-selection-job-url-value="/it-jobs/senior-go-developer-1234/content?job_index=0&locale=en">
  <h3>Senior Go Developer</h3>
  <a class="text-rich-grey" href="/companies/acme-corp">Acme Corp</a>
  <div class="text-rich-grey">At office</div>
  <div class="text-rich-grey">Ha Noi</div>
  <div class="salary">$1500 - $2000</div>
  <a class="itag">Golang</a>
  <a class="itag">Kubernetes</a>
</div>
<div class="job-card" data-search--job-selection-job-url-value="/it-jobs/data-engineer-5678/content?page=1">
  <h3>Data Engineer</h3>
  <a class="text-rich-grey" href="/companies/widgets">Widgets JSC</a>
  <div class="text-rich-grey">Ho Chi Minh</div>
  <div class="salary">Sign in to view salary</div>
  <a class="sign-in-view-salary" href="/sign_in">Sign in to view salary</a>
</div>
</body></html>`

func TestITviecExtractListings(t *testing.T) {
	t.Parallel()

	page := pageFromHTML(t, "https://itviec.com/it-jobs/golang", itviecListingHTML)
	listings := NewITviec().ExtractListings(page)
	require.Len(t, listings, 2)

	first := listings[0]
	assert.Equal(t, "Senior Go Developer", first.Title)
	assert.Equal(t, "Acme Corp", first.Company)
	assert.Equal(t, "Ha Noi", first.Location)
	assert.Equal(t, "https://itviec.com/it-jobs/senior-go-developer-1234", first.DetailURL)
	assert.Equal(t, []string{"Golang", "Kubernetes"}, first.Tags)

	info := first.Salary.Info
	require.NotNil(t, info)
	assert.Equal(t, record.SalaryRange, info.Kind)
	assert.Equal(t, 1500.0, *info.Min)

	second := listings[1]
	assert.Equal(t, "Ho Chi Minh", second.Location)
	require.NotNil(t, second.Salary.Info)
	assert.Equal(t, record.SalaryLoginRequired, second.Salary.Info.Kind)
}

const itviecDetailHTML = `<html><body>
<div class="paragraph">
  <h2>Job description</h2>
  <p>Build backend services.</p>
  <p>Own the deployment pipeline.</p>
</div>
<div class="paragraph">
  <h2>Your skills and experience</h2>
  <ul><li>3+ years of Go</li><li>PostgreSQL</li></ul>
</div>
<div class="paragraph">
  <h2>Why you'll love working here</h2>
  <ul><li>13th month salary</li></ul>
</div>
<section class="job-show-employer-info">
  <h3><a href="/companies/acme-corp">Acme Corp</a></h3>
  <p>We build infrastructure.</p>
  <div class="row">
    <div class="col text-dark-grey">Company type</div>
    <div class="col text-end text-it-black">IT Product</div>
  </div>
  <div class="row">
    <div class="col text-dark-grey">Company size</div>
    <div class="col text-end text-it-black">51-150
    employees</div>
  </div>
</section>
<div class="job-show-info">
  <span class="normal-text text-rich-grey">123 Nguyen Hue, District 1</span>
  <a class="itag itag-light itag-sm" title="Backend">Backend</a>
  <a class="itag itag-light itag-sm">Golang</a>
</div>
<div class="preview-header-item"><span class="normal-text">At office</span></div>
<span>Posted 3 hours ago</span>
</body></html>`

func TestITviecExtractDetail(t *testing.T) {
	t.Parallel()

	page := pageFromHTML(t, "https://itviec.com/it-jobs/senior-go-developer-1234", itviecDetailHTML)
	detail := NewITviec().ExtractDetail(page)

	assert.Contains(t, detail.Description, "Build backend services.")
	assert.Contains(t, detail.Description, "Own the deployment pipeline.")
	assert.Equal(t, record.ShapeTextList, detail.Requirements.Shape())
	assert.Equal(t, []string{"Your skills and experience", "3+ years of Go", "PostgreSQL"}, detail.Requirements.Strings())
	assert.Equal(t, []string{"Why you'll love working here", "13th month salary"}, detail.Benefits.Strings())

	assert.Equal(t, "Acme Corp", detail.CompanyInfo["name"])
	assert.Equal(t, "We build infrastructure.", detail.CompanyInfo["description"])
	assert.Equal(t, "IT Product", detail.CompanyInfo["type"])
	// Multi-line values collapse to single-spaced text.
	assert.Equal(t, "51-150 employees", detail.CompanyInfo["size"])

	assert.Equal(t, "123 Nguyen Hue, District 1", detail.Overview["detailed_location"])
	assert.Equal(t, "At office", detail.Overview["work_type"])
	assert.Equal(t, "Posted 3 hours ago", detail.Overview["posted_time_detail"])
	assert.Equal(t, "Backend", detail.Overview["expertise"])
}

func TestITviecMissingFieldsDegrade(t *testing.T) {
	t.Parallel()

	page := pageFromHTML(t, "https://itviec.com", `<html><body><div class="job-card"><h3>Lone Title</h3></div></body></html>`)
	listings := NewITviec().ExtractListings(page)
	require.Len(t, listings, 1)
	assert.Equal(t, "Lone Title", listings[0].Title)
	assert.Empty(t, listings[0].Company)
	assert.Empty(t, listings[0].DetailURL)
	assert.True(t, listings[0].Salary.IsEmpty())
}
