package runner

import (
	"sort"

	ahocorasick "github.com/BobuSumisu/aho-corasick"
	"github.com/helviojunior/pathaudit/pkg/models"
	"github.com/helviojunior/pathaudit/pkg/runner/rules"
)

// Match is a candidate path found in normalized text
type Match struct {
	Start    int
	End      int
	Text     string
	Category models.Category
}

// Matcher runs the NAS and generic path rules over normalized text
type Matcher struct {
	nas     *rules.Rule
	generic *rules.Rule

	// prefilter holds the rule keywords; a rule whose keywords are all
	// absent from the text cannot match and is not run
	prefilter *ahocorasick.Trie
}

// NewMatcher builds a matcher for the given internal host markers
func NewMatcher(hosts []string) *Matcher {
	nas := rules.NAS(hosts)
	generic := rules.Generic()

	keywords := map[string]struct{}{}
	for _, r := range []*rules.Rule{nas, generic} {
		for _, k := range r.Keywords {
			keywords[k] = struct{}{}
		}
	}
	words := make([]string, 0, len(keywords))
	for k := range keywords {
		words = append(words, k)
	}
	sort.Strings(words)

	return &Matcher{
		nas:       nas,
		generic:   generic,
		prefilter: ahocorasick.NewTrieBuilder().AddStrings(words).Build(),
	}
}

// IsNAS reports whether s contains a path on a known internal share
func (m *Matcher) IsNAS(s string) bool {
	return m.nas.Regex.MatchString(s)
}

// FindAll returns every NAS match and every generic match that is not
// itself a NAS path, ordered by start offset. Within one rule matches
// never overlap and are found leftmost first.
func (m *Matcher) FindAll(text string) []Match {
	if text == "" {
		return nil
	}

	present := map[string]bool{}
	for _, hit := range m.prefilter.MatchString(text) {
		present[string(hit.Match())] = true
	}

	matches := []Match{}
	if hasKeyword(m.nas, present) {
		for _, idx := range m.nas.Regex.FindAllStringIndex(text, -1) {
			matches = append(matches, Match{
				Start:    idx[0],
				End:      idx[1],
				Text:     text[idx[0]:idx[1]],
				Category: m.nas.Category,
			})
		}
	}

	if hasKeyword(m.generic, present) {
		for _, idx := range m.generic.Regex.FindAllStringIndex(text, -1) {
			sub := text[idx[0]:idx[1]]
			if m.IsNAS(sub) {
				continue
			}
			matches = append(matches, Match{
				Start:    idx[0],
				End:      idx[1],
				Text:     sub,
				Category: m.generic.Category,
			})
		}
	}

	// NAS entries come first for equal offsets, sort.SliceStable keeps that
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})

	return matches
}

func hasKeyword(r *rules.Rule, present map[string]bool) bool {
	if len(r.Keywords) == 0 {
		return true
	}
	for _, k := range r.Keywords {
		if present[k] {
			return true
		}
	}
	return false
}
