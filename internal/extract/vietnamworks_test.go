package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangtd/jobharvest/internal/record"
)

const vnwListingHTML = `<html><body>
<div class="search_list view_job_item new-job-card">
  <h2><a href="/golang-developer--1766870-jv">Golang Developer</a></h2>
  <div class="sc-jBqsNv"><a href="/company/acme">Acme Vietnam</a></div>
  <div class="sc-cdaca-d">$1,500 - $2,500</div>
  <div class="sc-idnGQK">Hồ Chí Minh</div>
</div>
</body></html>`

// Generated class names rotate, so the card and field chains must still work
// when only the substring selectors match.
const vnwFallbackHTML = `<html><body>
<div class="some-job-card-x1">
  <a class="job-title-link" href="https://www.vietnamworks.com/sre--99-jv">Site Reliability Engineer</a>
  <a class="job-company-link" href="/company/widgets">Widgets</a>
  <span class="job-salary-text">Thương lượng</span>
  <span class="job-location-text">Đà Nẵng</span>
</div>
</body></html>`

func TestVietnamWorksExtractListings(t *testing.T) {
	t.Parallel()

	page := pageFromHTML(t, "https://www.vietnamworks.com/viec-lam?q=golang", vnwListingHTML)
	listings := NewVietnamWorks().ExtractListings(page)
	require.Len(t, listings, 1)

	job := listings[0]
	assert.Equal(t, "Golang Developer", job.Title)
	assert.Equal(t, "Acme Vietnam", job.Company)
	assert.Equal(t, "Hồ Chí Minh", job.Location)
	assert.Equal(t, "$1,500 - $2,500", job.Salary.Text)
	assert.Equal(t, "https://www.vietnamworks.com/golang-developer--1766870-jv", job.DetailURL)
}

func TestVietnamWorksSelectorFallback(t *testing.T) {
	t.Parallel()

	page := pageFromHTML(t, "https://www.vietnamworks.com/viec-lam?q=sre", vnwFallbackHTML)
	listings := NewVietnamWorks().ExtractListings(page)
	require.Len(t, listings, 1)

	job := listings[0]
	assert.Equal(t, "Site Reliability Engineer", job.Title)
	assert.Equal(t, "Widgets", job.Company)
	assert.Equal(t, "Đà Nẵng", job.Location)
	assert.Equal(t, "Thương lượng", job.Salary.Text)
	assert.Equal(t, "https://www.vietnamworks.com/sre--99-jv", job.DetailURL)
}

const vnwDetailHTML = `<html><body>
<div class="sc-1671001a-4 gDSEwb">
  <h2 class="sc-1671001a-5">Mô tả công việc</h2>
  <div class="sc-1671001a-6"><p>Vận hành hệ thống.</p><p>Trực on-call.</p></div>
</div>
<div class="sc-1671001a-4 gDSEwb">
  <h2 class="sc-1671001a-5">Yêu cầu công việc</h2>
  <div class="sc-1671001a-6"><p>Kinh nghiệm Go 2 năm.</p></div>
</div>
<div data-benefit-name="bonus">
  <p class="sc-ab270149-0">Thưởng</p>
  <div class="sc-c683181c-2">Lương tháng 13 và thưởng hiệu quả</div>
</div>
<div data-benefit-name="healthcare">
  <p class="sc-ab270149-0">Chăm sóc sức khoẻ</p>
</div>
</body></html>`

func TestVietnamWorksExtractDetail(t *testing.T) {
	t.Parallel()

	page := pageFromHTML(t, "https://www.vietnamworks.com/golang-developer--1766870-jv", vnwDetailHTML)
	detail := NewVietnamWorks().ExtractDetail(page)

	assert.Contains(t, detail.Description, "Vận hành hệ thống.")
	assert.Contains(t, detail.Description, "Trực on-call.")
	assert.Equal(t, record.ShapeText, detail.Requirements.Shape())
	assert.Equal(t, []string{"Kinh nghiệm Go 2 năm."}, detail.Requirements.Strings())

	require.Equal(t, record.ShapeObjectList, detail.Benefits.Shape())
	// Object entries coerce to their description, falling back to title.
	assert.Equal(t, []string{"Lương tháng 13 và thưởng hiệu quả", "Chăm sóc sức khoẻ"}, detail.Benefits.Strings())
}

func TestListingScrollSelectorPerSource(t *testing.T) {
	t.Parallel()

	// Only vietnamworks lazy-loads its listing cards on scroll.
	assert.Equal(t, "div.search_list.view_job_item.new-job-card", NewVietnamWorks().ListingScrollSelector())
	assert.Empty(t, NewITviec().ListingScrollSelector())
	assert.Empty(t, NewTopCV().ListingScrollSelector())
}

func TestNewDispatchesBySource(t *testing.T) {
	t.Parallel()

	for _, source := range []string{SourceITviec, SourceTopCV, SourceVietnamWorks} {
		ex, err := New(source)
		require.NoError(t, err)
		assert.Equal(t, source, ex.Source())
	}

	_, err := New("linkedin")
	assert.Error(t, err)
}
