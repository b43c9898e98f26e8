package runner

import (
	"regexp"
	"strings"

	ahocorasick "github.com/BobuSumisu/aho-corasick"
	"github.com/helviojunior/pathaudit/pkg/runner/rules"
)

const minHumanPathLength = 10

var (
	tempDirRegexp   = regexp.MustCompile(`(?i)^C:\\Temp\\?$`)
	systemDirRegexp = regexp.MustCompile(`(?i)^C:\\Windows`)
)

// Classifier separates paths a person wrote from office-format plumbing
type Classifier struct {
	stopwords *ahocorasick.Trie
}

func NewClassifier() *Classifier {
	return &Classifier{
		stopwords: ahocorasick.NewTrieBuilder().AddStrings(rules.BoilerplateStopWords).Build(),
	}
}

var defaultClassifier = NewClassifier()

// IsHumanPath applies the default classifier
func IsHumanPath(p string) bool {
	return defaultClassifier.IsHumanPath(p)
}

// IsHumanPath reports whether a candidate looks like a real user-authored
// path: no schema/boilerplate marker, no control characters, not a bare
// temp or system folder, at least 10 characters and two separators.
func (c *Classifier) IsHumanPath(p string) bool {
	clean := strings.TrimSpace(p)
	if clean == "" {
		return false
	}

	if len(c.stopwords.MatchString(strings.ToLower(clean))) > 0 {
		return false
	}

	if hasControlChars(clean) {
		return false
	}

	if tempDirRegexp.MatchString(clean) || systemDirRegexp.MatchString(clean) {
		return false
	}

	if len(clean) < minHumanPathLength {
		return false
	}

	return strings.Count(clean, `\`)+strings.Count(clean, "/") >= 2
}

// ContainsStopWord returns the first boilerplate marker found in s
func (c *Classifier) ContainsStopWord(s string) (bool, string) {
	hits := c.stopwords.MatchString(strings.ToLower(s))
	if len(hits) == 0 {
		return false, ""
	}
	return true, string(hits[0].Match())
}

func hasControlChars(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			return true
		}
	}
	return false
}
