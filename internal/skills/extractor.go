// Package skills extracts and canonicalizes the technical skills a job
// posting mentions, with a content-addressed cache so reprocessing unchanged
// postings never repeats extractor calls.
package skills

import (
	"context"
	"strings"
)

// Extractor pulls technical skill names out of posting text.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}

// vocabulary is the closed term list the offline extractor matches. Terms are
// matched as lowercase substrings, so multi-word entries work unchanged.
var vocabulary = []string{
	"python",
	"java",
	"javascript",
	"react",
	"sql",
	"aws",
	"docker",
	"kubernetes",
	"machine learning",
	"data science",
	"devops",
	"tester",
	"qa",
}

// VocabExtractor matches a fixed vocabulary against the posting text. It
// needs no network and is the fallback when no API key is configured.
type VocabExtractor struct {
	terms []string
}

func NewVocabExtractor() *VocabExtractor {
	return &VocabExtractor{terms: vocabulary}
}

// Extract returns every vocabulary term contained in text, in vocabulary
// order. It never fails.
func (e *VocabExtractor) Extract(_ context.Context, text string) ([]string, error) {
	lower := strings.ToLower(text)
	var found []string
	for _, term := range e.terms {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}
	return found, nil
}
