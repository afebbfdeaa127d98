// Package export joins the normalized log with its skill lists and projects
// the result into the downstream shapes: a flat (job, skill) table, its CSV
// form, and the grouped JSON the dashboard consumes.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/quangtd/jobharvest/internal/record"
	"github.com/quangtd/jobharvest/internal/store"
)

// csvHeader is the fixed column order of the skill table export.
var csvHeader = []string{"platform", "job_url", "title", "company", "location", "skill"}

// Merge zips the normalized log with the skills log line by line and writes
// jobs carrying their skills to outputPath. The two logs pair by position, so
// they must come from the same enrichment run; a length mismatch is an error.
func Merge(normalizedPath, skillsPath, outputPath string) (int, error) {
	jobs, err := store.ReadAll[record.NormalizedJob](normalizedPath)
	if err != nil {
		return 0, err
	}
	skills, err := store.ReadAll[record.JobSkills](skillsPath)
	if err != nil {
		return 0, err
	}
	if len(jobs) != len(skills) {
		return 0, fmt.Errorf("log mismatch: %d jobs but %d skill lines", len(jobs), len(skills))
	}

	out, err := store.CreateJSONL(outputPath)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	for i := range jobs {
		jobs[i].Skills = skills[i].Skills
		if jobs[i].Skills == nil {
			jobs[i].Skills = []string{}
		}
		if err := out.Append(jobs[i]); err != nil {
			return i, err
		}
	}
	if err := out.Close(); err != nil {
		return len(jobs), fmt.Errorf("failed to close %s: %w", outputPath, err)
	}
	return len(jobs), nil
}

// Flatten explodes each job into one SkillRow per skill. Jobs without skills
// contribute no rows.
func Flatten(jobs []record.NormalizedJob) []record.SkillRow {
	var rows []record.SkillRow
	for _, job := range jobs {
		for _, skill := range job.Skills {
			skill = strings.TrimSpace(skill)
			if skill == "" {
				continue
			}
			rows = append(rows, record.SkillRow{
				Platform: job.Platform,
				JobURL:   job.DetailURL,
				Title:    job.Title,
				Company:  job.Company,
				Location: job.Location,
				Skill:    skill,
			})
		}
	}
	return rows
}

// WriteRows persists the flat table as JSON Lines.
func WriteRows(rows []record.SkillRow, path string) error {
	out, err := store.CreateJSONL(path)
	if err != nil {
		return err
	}
	defer out.Close()
	for _, row := range rows {
		if err := out.Append(row); err != nil {
			return err
		}
	}
	return out.Close()
}

// WriteCSV exports the flat table with the fixed header.
func WriteCSV(rows []record.SkillRow, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		cells := []string{row.Platform, row.JobURL, row.Title, row.Company, row.Location, row.Skill}
		if err := w.Write(cells); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return f.Close()
}

// DashboardJob is one element of the dashboard's data file: a job with its
// skills regrouped from the flat table.
type DashboardJob struct {
	Platform string   `json:"platform"`
	Title    string   `json:"title"`
	Location string   `json:"location"`
	Skills   []string `json:"skills"`
}

// GroupForDashboard folds the flat table back into one entry per
// (platform, title, location), preserving first-seen group order.
func GroupForDashboard(rows []record.SkillRow) []DashboardJob {
	type key struct{ platform, title, location string }
	index := map[key]int{}
	var groups []DashboardJob
	for _, row := range rows {
		k := key{row.Platform, row.Title, row.Location}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, DashboardJob{
				Platform: row.Platform,
				Title:    row.Title,
				Location: row.Location,
				Skills:   []string{},
			})
		}
		groups[i].Skills = append(groups[i].Skills, row.Skill)
	}
	return groups
}

// WriteDashboardJSON writes the grouped jobs as an indented JSON array.
func WriteDashboardJSON(rows []record.SkillRow, path string) error {
	groups := GroupForDashboard(rows)
	if groups == nil {
		groups = []DashboardJob{}
	}
	data, err := json.MarshalIndent(groups, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dashboard data: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Runner drives the full flatten stage: merge, flatten, and the three export
// artifacts.
type Runner struct {
	logger *zap.Logger
}

func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// Paths names the files the flatten stage reads and writes.
type Paths struct {
	Normalized string
	Skills     string
	Merged     string
	FlatJSONL  string
	FlatCSV    string
	Dashboard  string
}

// Run merges, flattens, and exports. It returns the number of skill rows.
func (r *Runner) Run(p Paths) (int, error) {
	merged, err := Merge(p.Normalized, p.Skills, p.Merged)
	if err != nil {
		return 0, err
	}
	jobs, err := store.ReadAll[record.NormalizedJob](p.Merged)
	if err != nil {
		return 0, err
	}
	rows := Flatten(jobs)

	if err := WriteRows(rows, p.FlatJSONL); err != nil {
		return len(rows), err
	}
	if err := WriteCSV(rows, p.FlatCSV); err != nil {
		return len(rows), err
	}
	if p.Dashboard != "" {
		if err := WriteDashboardJSON(rows, p.Dashboard); err != nil {
			return len(rows), err
		}
	}

	r.logger.Info("flatten stage finished",
		zap.Int("jobs", merged),
		zap.Int("skill_rows", len(rows)),
		zap.String("csv", p.FlatCSV))
	return len(rows), nil
}
