package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/quangtd/jobharvest/internal/record"
)

// Salary text shows up in wildly different shapes across sources, so parsing
// is a fixed priority cascade: each rule is tried in order and the first hit
// wins. Reordering the rules changes results for ambiguous inputs.
var (
	upToPattern     = regexp.MustCompile(`Up to\s*\$?(\d+[.,]?\d*)`)
	usdRangePattern = regexp.MustCompile(`\$?(\d+[.,]?\d*)\s*-\s*\$?(\d+[.,]?\d*)`)
	vndRangePattern = regexp.MustCompile(`(?i)(\d+)[-\s]*(\d+)\s*tri[eệ]u`)
	numberPattern   = regexp.MustCompile(`\$?(\d+[.,]?\d*)`)
)

// ParseSalary classifies one salary string. signInElement reports whether the
// card carried an explicit sign-in-to-view element next to the salary text.
// Returns nil when nothing can be made of the input.
func ParseSalary(text string, signInElement bool) *record.SalaryInfo {
	text = strings.TrimSpace(text)

	if strings.Contains(text, "You'll love it") {
		return &record.SalaryInfo{
			Kind:        record.SalaryCompetitive,
			Raw:         "You'll love it",
			Description: "Competitive salary with attractive benefits",
		}
	}

	if m := upToPattern.FindStringSubmatch(text); m != nil {
		if max, ok := parseAmount(m[1]); ok {
			return &record.SalaryInfo{
				Kind:        record.SalaryUpTo,
				Max:         &max,
				Currency:    "USD",
				Raw:         text,
				Description: fmt.Sprintf("Up to $%s", m[1]),
			}
		}
	}

	if signInElement || strings.Contains(strings.ToLower(text), "sign in") {
		return &record.SalaryInfo{
			Kind:        record.SalaryLoginRequired,
			Raw:         text,
			Description: "Salary visible after login",
		}
	}

	// A bare dash range is only trusted as a USD range when the text carries
	// an explicit dollar sign; otherwise "15-20 triệu" would never reach the
	// VND rule below.
	if strings.Contains(text, "$") {
		if m := usdRangePattern.FindStringSubmatch(text); m != nil {
			min, okMin := parseAmount(m[1])
			max, okMax := parseAmount(m[2])
			if okMin && okMax {
				return &record.SalaryInfo{
					Kind:        record.SalaryRange,
					Min:         &min,
					Max:         &max,
					Currency:    "USD",
					Raw:         text,
					Description: fmt.Sprintf("$%s - $%s", m[1], m[2]),
				}
			}
		}
	}

	if m := vndRangePattern.FindStringSubmatch(text); m != nil {
		min, okMin := parseAmount(m[1])
		max, okMax := parseAmount(m[2])
		if okMin && okMax {
			min *= 1_000_000
			max *= 1_000_000
			return &record.SalaryInfo{
				Kind:        record.SalaryRange,
				Min:         &min,
				Max:         &max,
				Currency:    "VND",
				Raw:         text,
				Description: fmt.Sprintf("%s-%s triệu VND", m[1], m[2]),
			}
		}
	}

	if m := numberPattern.FindStringSubmatch(text); m != nil {
		if amount, ok := parseAmount(m[1]); ok {
			currency := "VND"
			if strings.Contains(text, "$") {
				currency = "USD"
			}
			return &record.SalaryInfo{
				Kind:     record.SalaryFixed,
				Min:      &amount,
				Max:      &amount,
				Currency: currency,
				Raw:      text,
			}
		}
	}

	if len([]rune(text)) > 3 {
		return &record.SalaryInfo{
			Kind:        record.SalaryDescriptive,
			Raw:         text,
			Description: text,
		}
	}
	return nil
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
