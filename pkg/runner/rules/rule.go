package rules

import (
    re "regexp"

    "github.com/helviojunior/pathaudit/pkg/models"
)

// Rule is a path pattern family scanned over normalized section text
type Rule struct {
    RuleID      string
    Description string

    // Category assigned to every accepted match of this rule
    Category    models.Category

    Regex       *re.Regexp

    // Keywords are lowercase literals of which at least one must be
    // present in the text for Regex to be able to match at all.
    Keywords    []string
}

// UsageRule maps a context marker to a probable usage intent
type UsageRule struct {
    Usage       models.Usage
    Regex       *re.Regexp
}

// pathTail is the continuation accepted after a path prefix: anything
// up to whitespace, a quote or an angle bracket.
const pathTail = `[^\s"'<>]+`
