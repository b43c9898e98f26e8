package runner

import (
	"github.com/helviojunior/pathaudit/pkg/models"
	"github.com/helviojunior/pathaudit/pkg/runner/rules"
)

// DefaultContextRadius is how many characters on each side of a match
// are searched for usage markers
const DefaultContextRadius = 80

// UsageInferencer guesses why a path is in the document from the text
// around it
type UsageInferencer struct {
	rules []*rules.UsageRule
}

func NewUsageInferencer() *UsageInferencer {
	return &UsageInferencer{rules: rules.UsageRules()}
}

var defaultUsage = NewUsageInferencer()

// InferUsage applies the default usage rules to a context window
func InferUsage(window string) models.Usage {
	return defaultUsage.Infer(window)
}

// Infer returns the usage of the first rule matching the window
func (u *UsageInferencer) Infer(window string) models.Usage {
	for _, r := range u.rules {
		if r.Regex.MatchString(window) {
			return r.Usage
		}
	}
	return models.UsageGeneric
}

// ScoreImpact is the fixed usage to impact lookup
func ScoreImpact(usage models.Usage) models.Impact {
	if impact, ok := rules.ImpactTable[usage]; ok {
		return impact
	}
	return models.ImpactMedium
}
