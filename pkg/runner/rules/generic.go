package rules

import (
    re "regexp"

    "github.com/helviojunior/pathaudit/pkg/models"
)

func Generic() *Rule {
    // define rule
    r := &Rule{
        RuleID:      "Generic",
        Description: "Drive-letter absolute path or any UNC path.",
        Category:    models.CategoryOther,
        Regex:       re.MustCompile(`` +
                        `(?:` +
                        `[A-Z]:\\` + pathTail +  // Drive letter
                        `|` +
                        `\\\\\s*[A-Za-z0-9._-]+\\` + pathTail +  // UNC host
                        `)` +
                ``),
        Keywords:    []string{`:\`, `\\`},
    }

    return r
}
