package runner

import (
	"github.com/helviojunior/pathaudit/pkg/models"
)

// Detector turns a normalized fragment into detections
type Detector struct {
	matcher    *Matcher
	classifier *Classifier
	usage      *UsageInferencer

	// Radius is the context window size on each side of a match
	Radius int
}

// SectionResult is what one fragment produced
type SectionResult struct {
	Detections []models.Detection
	// Filtered counts candidates rejected as system/internal noise
	Filtered int
}

// NewDetector builds a detector for the given internal host markers
func NewDetector(hosts []string, radius int) *Detector {
	if radius <= 0 {
		radius = DefaultContextRadius
	}
	return &Detector{
		matcher:    NewMatcher(hosts),
		classifier: NewClassifier(),
		usage:      NewUsageInferencer(),
		Radius:     radius,
	}
}

// DetectString scans a raw string as a single "Unknown" section
func (d *Detector) DetectString(fileName string, content string) SectionResult {
	return d.Detect(newFragment(fileName, "Unknown", models.AppUnknown, Normalize(content)))
}

// Detect scans the given fragment
func (d *Detector) Detect(fragment Fragment) SectionResult {
	res := SectionResult{Detections: []models.Detection{}}

	for _, m := range d.matcher.FindAll(fragment.Raw) {
		if !d.classifier.IsHumanPath(m.Text) {
			res.Filtered++
			continue
		}

		window := fragment.Window(m.Start, d.Radius)
		usage := d.usage.Infer(window)

		res.Detections = append(res.Detections, models.Detection{
			SourceFile:  fragment.FilePath,
			Application: fragment.Application,
			Section:     fragment.Section,
			Line:        fragment.LineAt(m.Start),
			Offset:      m.Start,
			Path:        m.Text,
			Category:    m.Category,
			Usage:       usage,
			Impact:      ScoreImpact(usage),
			NearText:    window,
		})
	}

	return res
}
