package runner

import (
    "github.com/helviojunior/pathaudit/pkg/readers"
    "github.com/helviojunior/pathaudit/pkg/runner/rules"
)

// Options are global pathaudit options
type Options struct {
    // Logging is logging options
    Logging Logging
    // Writer is result writer options
    Writer Writer
    // Scan is detection and batch options
    Scan Scan
}

// Logging is log related options
type Logging struct {
    // Debug display debug level logging
    Debug bool
    // LogScanErrors log errors related to scanning
    LogScanErrors bool
    // Silence all logging
    Silence bool
    // LogFile mirrors the console log to a file
    LogFile string
}

// Writer options
type Writer struct {
    UserPath   string
    NoControlDb bool
    GlobalDbURI string
    Db         bool
    DbURI      string
    DbDebug    bool // enables verbose database logs
    Csv        bool
    CsvFile    string
    Jsonl      bool
    JsonlFile  string
    ELastic    bool
    ELasticURI string
    Stdout     bool
    None       bool
}

// Scan is scanning related options
type Scan struct {
    // Paths are files or folders to be scanned
    Paths []string
    // ListFile is a file with one path per line
    ListFile string
    // NASHosts are the internal share host markers
    NASHosts []string
    // ContextRadius is the usage window size on each side of a match
    ContextRadius int
    // Limits is the batch selection policy
    Limits readers.Limits
    // MaxFileSize is the human readable form of Limits.MaxFileSize
    MaxFileSize string
}

// NewDefaultOptions returns Options with some default values
func NewDefaultOptions() *Options {
    return &Options{
        Scan: Scan{
            NASHosts:      append([]string{}, rules.DefaultNASHosts...),
            ContextRadius: DefaultContextRadius,
            Limits:        readers.DefaultLimits(),
            MaxFileSize:   "100MiB",
        },
        Logging: Logging{
            Debug:         true,
            LogScanErrors: true,
        },
    }
}
