package skills

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// skillAliases maps lowercase variants to one canonical spelling. Keys must
// be lowercase; lookups happen after whitespace collapse.
var skillAliases = map[string]string{
	// Programming languages
	"go":      "Golang",
	"golang":  "Golang",
	"python3": "Python",
	// Frontend
	"reactjs":  "React",
	"react.js": "React",
	"react":    "React",
	"nextjs":   "Next.js",
	"next.js":  "Next.js",
	"vuejs":    "Vue.js",
	// Backend / platform
	".net":      ".NET",
	".net core": ".NET Core",
	"nodejs":    "Node.js",
	// DevOps
	"gitlab":    "GitLab",
	"github":    "GitHub",
	"git ci/cd": "CI/CD",
	// Testing
	"unit tests":         "Unit Testing",
	"unit testing":       "Unit Testing",
	"e2e testing":        "E2E Testing",
	"end-to-end testing": "E2E Testing",
	// Data / AI
	"machine learning":        "Machine Learning",
	"artificial intelligence": "AI",
	"large language models":   "LLM",
	"gpt":                     "GPT",
	// Cloud
	"amazon web services":   "AWS",
	"google cloud platform": "GCP",
}

var titleCaser = cases.Title(language.English)

// CanonicalSkill maps one raw skill name to its canonical spelling: collapse
// whitespace, apply the alias table, and title-case names the extractor
// emitted fully lowercased. Mixed-case names pass through untouched so
// spellings like "PostgreSQL" survive.
func CanonicalSkill(skill string) string {
	s := strings.Join(strings.Fields(skill), " ")
	if s == "" {
		return ""
	}
	if canonical, ok := skillAliases[strings.ToLower(s)]; ok {
		return canonical
	}
	if isAllLower(s) {
		return titleCaser.String(s)
	}
	return s
}

// Canonicalize canonicalizes every skill and deduplicates case-insensitively,
// keeping first-seen order.
func Canonicalize(raw []string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, skill := range raw {
		s := CanonicalSkill(skill)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// isAllLower mirrors Python's str.islower: at least one cased rune, none of
// them upper.
func isAllLower(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			return false
		}
		if unicode.IsLower(r) {
			cased = true
		}
	}
	return cased
}
