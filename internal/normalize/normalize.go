// Package normalize converts raw scrape records into the canonical job form:
// one flat entity per posting with list-typed fields coerced to string slices
// and salary text projected onto numeric VND bounds.
package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/quangtd/jobharvest/internal/record"
	"github.com/quangtd/jobharvest/internal/store"
)

// negotiableMarker is the Vietnamese "to be agreed" salary label. It contains
// digits-free text, but checking it explicitly keeps the intent visible.
const negotiableMarker = "thoả thuận"

var digitRuns = regexp.MustCompile(`\d+`)

// Job maps one raw record to its normalized form. The mapping is pure: no
// I/O, no mutation of the input.
func Job(raw record.RawScrapeRecord) record.NormalizedJob {
	return record.NormalizedJob{
		Platform:     raw.Platform,
		Title:        raw.Listing.Title,
		Company:      raw.Listing.Company,
		Location:     raw.Listing.Location,
		DetailURL:    raw.Listing.DetailURL,
		Timestamp:    raw.Timestamp,
		Salary:       Salary(raw.Listing.Salary),
		Description:  raw.Detail.Description,
		Requirements: raw.Detail.Requirements.Strings(),
		Benefits:     raw.Detail.Benefits.Strings(),
	}
}

// Salary projects a raw salary value onto VND bounds.
//
// Already-classified salaries (the object form) keep only their raw text: the
// classifier's amounts may be USD and converting currencies is out of scope
// here. Display text goes through the millions heuristic: every digit run is
// read as a VND millions figure, the first two becoming min and max.
func Salary(v record.SalaryValue) record.NormalizedSalary {
	var out record.NormalizedSalary

	if v.Info != nil {
		if v.Info.Raw != "" {
			out.Raw = &v.Info.Raw
		}
		return out
	}
	if v.Text == "" {
		return out
	}

	text := v.Text
	out.Raw = &text
	if strings.Contains(strings.ToLower(text), negotiableMarker) {
		return out
	}

	var values []int64
	for _, run := range digitRuns.FindAllString(text, -1) {
		n, err := strconv.ParseInt(run, 10, 64)
		if err != nil {
			continue
		}
		values = append(values, n*1_000_000)
	}
	if len(values) >= 1 {
		out.Min = &values[0]
	}
	if len(values) >= 2 {
		out.Max = &values[1]
	}
	if out.Min != nil && out.Max != nil && *out.Min != 0 && *out.Max != 0 {
		avg := (*out.Min + *out.Max) / 2
		out.Avg = &avg
	}
	return out
}

// Runner streams raw logs through Job into a normalized log.
type Runner struct {
	logger *zap.Logger
}

func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// Run reads every input raw log in order and rewrites outputPath with one
// normalized record per line. It returns the number of records written.
func (r *Runner) Run(inputPaths []string, outputPath string) (int, error) {
	out, err := store.CreateJSONL(outputPath)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	total := 0
	for _, path := range inputPaths {
		count := 0
		err := store.EachLine(path, func(line []byte) error {
			var raw record.RawScrapeRecord
			if err := json.Unmarshal(line, &raw); err != nil {
				return fmt.Errorf("failed to decode raw record: %w", err)
			}
			if err := out.Append(Job(raw)); err != nil {
				return err
			}
			count++
			return nil
		})
		if err != nil {
			return total, err
		}
		total += count
		r.logger.Info("raw log normalized",
			zap.String("path", path),
			zap.Int("records", count))
	}
	if err := out.Close(); err != nil {
		return total, fmt.Errorf("failed to close %s: %w", outputPath, err)
	}
	return total, nil
}
