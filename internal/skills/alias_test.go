package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalSkill(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"reactjs":               "React",
		"React.JS":              "React.JS", // mixed case misses the alias table
		"react.js":              "React",
		"go":                    "Golang",
		"  nodejs  ":            "Node.js",
		"amazon   web services": "AWS",
		"machine learning":      "Machine Learning",
		"docker":                "Docker",
		"PostgreSQL":            "PostgreSQL",
		"ci/cd pipelines":       "Ci/Cd Pipelines",
		"":                      "",
		"   ":                   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, CanonicalSkill(in), "input %q", in)
	}
}

func TestCanonicalizeDedupsFirstSeen(t *testing.T) {
	t.Parallel()

	got := Canonicalize([]string{"reactjs", "react.js", "React", "docker", "Docker", "go"})
	assert.Equal(t, []string{"React", "Docker", "Golang"}, got)
}

func TestCanonicalizeDropsEmpties(t *testing.T) {
	t.Parallel()

	got := Canonicalize([]string{"", "  ", "python"})
	assert.Equal(t, []string{"Python"}, got)

	assert.Equal(t, []string{}, Canonicalize(nil))
}
