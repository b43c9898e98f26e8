package rules

import (
    re "regexp"

    "github.com/helviojunior/pathaudit/pkg/models"
)

// UsageRules returns the usage markers in priority order. The first
// rule matching the context window decides, regardless of specificity.
func UsageRules() []*UsageRule {
    return []*UsageRule{
        {
            Usage: models.UsageWorkbookOpen,
            Regex: re.MustCompile(`(?i)Workbooks\.Open|FileSystemObject|CreateObject\("Scripting\.FileSystemObject"\)`),
        },
        {
            Usage: models.UsageDataConnection,
            Regex: re.MustCompile(`(?i)ConnectionString|Data Source|Power Query|ODBC|OLEDB|SqlClient`),
        },
        {
            Usage: models.UsageHyperlink,
            Regex: re.MustCompile(`(?i)Hyperlink|TargetMode="External"`),
        },
        {
            Usage: models.UsageFolderMacro,
            Regex: re.MustCompile(`(?i)Dir\(|Kill\(|Name\s+\w+`),
        },
    }
}

// ImpactTable is the fixed usage to impact mapping. Usages missing
// from the table score Medium.
var ImpactTable = map[models.Usage]models.Impact{
    models.UsageWorkbookOpen:   models.ImpactHigh,
    models.UsageFolderMacro:    models.ImpactHigh,
    models.UsageGeneric:        models.ImpactMedium,
    models.UsageDataConnection: models.ImpactMedium,
    models.UsageHyperlink:      models.ImpactLow,
}
