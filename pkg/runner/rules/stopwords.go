package rules

// BoilerplateStopWords are lowercase markers of office-format internals.
// A candidate containing any of them is package plumbing, not a path
// someone typed.
var BoilerplateStopWords = []string{
    "schemas.openxmlformats.org",
    "content-types",
    "relationships",
    "docprops",
    "_rels",
    `xl\_rels`,
    `ppt\_rels`,
    `word\_rels`,
}
