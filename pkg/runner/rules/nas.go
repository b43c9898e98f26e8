package rules

import (
    re "regexp"
    "strings"

    "github.com/helviojunior/pathaudit/pkg/models"
)

// DefaultNASHosts are the internal host/domain markers of the
// shared drives that will not exist after a migration.
var DefaultNASHosts = []string{
    "aur.national.com.au",
    "dfs",
    "filesrv",
    "corp",
}

func NAS(hosts []string) *Rule {
    if len(hosts) == 0 {
        hosts = DefaultNASHosts
    }

    quoted := make([]string, 0, len(hosts))
    for _, h := range hosts {
        h = strings.Trim(strings.ToLower(h), `\/ `)
        if h == "" {
            continue
        }
        quoted = append(quoted, re.QuoteMeta(h))
    }

    // define rule
    r := &Rule{
        RuleID:      "NAS",
        Description: "UNC path on a known internal share.",
        Category:    models.CategoryNAS,
        Regex:       re.MustCompile(`(?i)\\\\\s*(?:` + strings.Join(quoted, "|") + `)[\\/]` + pathTail),
        Keywords:    []string{`\\`},
    }

    return r
}
