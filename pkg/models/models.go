package models

import (
	"encoding/json"
	"time"
)

// Category is the detection family of a matched path
type Category string

const (
	CategoryNAS   Category = "NAS Shared Drive"
	CategoryOther Category = "Other Hard-Coded Path"
)

// Usage is the probable intent inferred from the text around a match
type Usage string

const (
	UsageWorkbookOpen   Usage = "Workbook Open Macro"
	UsageDataConnection Usage = "Power Query / Data Connection"
	UsageHyperlink      Usage = "Static Hyperlink"
	UsageFolderMacro    Usage = "Folder Operation Macro"
	UsageGeneric        Usage = "Generic File Reference"
)

// Impact is the migration severity of a detection
type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
	ImpactLow    Impact = "Low"
)

// Application is the office application a container belongs to
type Application string

const (
	AppExcel      Application = "Excel"
	AppWord       Application = "Word"
	AppPowerPoint Application = "PowerPoint"
	AppUnknown    Application = "Unknown"
)

// Protected file status values
const (
	StatusProtected = "Protected"
	StatusFailed    = "Failed"
)

// ScanFailedName is the file name of the synthetic record appended
// when a batch is halted by an unexpected error.
const ScanFailedName = "<scan-failed>"

// FileResult is what a writer receives once a file has been scanned
type FileResult struct {
	ID uint `json:"id" gorm:"primarykey"`

	SessionID   string      `json:"session_id" gorm:"index"`
	FileName    string      `json:"file_name"`
	Size        uint64      `json:"size"`
	MIMEType    string      `json:"mime_type"`
	Application Application `json:"application"`
	Fingerprint string      `json:"fingerprint" gorm:"index"`
	ScannedAt   time.Time   `json:"scanned_at"`

	// Failed flag set if the file could not be decoded by any path
	Failed       bool   `json:"failed"`
	FailedReason string `json:"failed_reason"`

	Detections []Detection `json:"detections" gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE"`
}

// Detection is a single hard-coded path found inside a file section.
// Detections are values; the scan session only hands out copies.
type Detection struct {
	ID     uint `json:"id" gorm:"primarykey"`
	FileID uint `json:"file_id"`

	SessionID   string      `json:"session_id" gorm:"index"`
	SourceFile  string      `json:"file"`
	Application Application `json:"application"`
	Section     string      `json:"section"`
	Line        int         `json:"line"`
	Offset      int         `json:"offset"`
	Path        string      `json:"path"`
	Category    Category    `json:"category"`
	Usage       Usage       `json:"possible_usage"`
	Impact      Impact      `json:"impact"`
	NearText    string      `json:"near_text"`
	DetectedAt  time.Time   `json:"detected_at"`
}

// ProtectedFile records a file that could not be scanned
type ProtectedFile struct {
	ID uint `json:"id" gorm:"primarykey"`

	SessionID string `json:"session_id" gorm:"index"`
	FileName  string `json:"file"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
}

// IsNAS reports whether the detection points at a known internal share
func (d Detection) IsNAS() bool {
	return d.Category == CategoryNAS
}

// Clone returns a copy of the result without its detections
func (file *FileResult) Clone() *FileResult {
	return &FileResult{
		SessionID:    file.SessionID,
		FileName:     file.FileName,
		Size:         file.Size,
		MIMEType:     file.MIMEType,
		Application:  file.Application,
		Fingerprint:  file.Fingerprint,
		ScannedAt:    file.ScannedAt,
		Failed:       file.Failed,
		FailedReason: file.FailedReason,
		Detections:   []Detection{},
	}
}

/* Custom Marshaller for Detection */
func (d Detection) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		SessionID   string `json:"session_id"`
		SourceFile  string `json:"file"`
		Application string `json:"application"`
		Section     string `json:"section"`
		Line        int    `json:"line"`
		Offset      int    `json:"offset"`
		Path        string `json:"path"`
		Category    string `json:"category"`
		Usage       string `json:"possible_usage"`
		Impact      string `json:"impact"`
		NearText    string `json:"near_text"`
		DetectedAt  string `json:"detected_at"`
	}{
		SessionID:   d.SessionID,
		SourceFile:  d.SourceFile,
		Application: string(d.Application),
		Section:     d.Section,
		Line:        d.Line,
		Offset:      d.Offset,
		Path:        d.Path,
		Category:    string(d.Category),
		Usage:       string(d.Usage),
		Impact:      string(d.Impact),
		NearText:    d.NearText,
		DetectedAt:  d.DetectedAt.Format(time.RFC3339),
	})
}
