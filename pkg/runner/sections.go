package runner

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path"
	"strings"

	"github.com/helviojunior/pathaudit/pkg/models"
	"github.com/helviojunior/pathaudit/pkg/readers"
)

// encryptedPackageMarker is "EncryptedPackage" in UTF-16LE, the stream
// name of a password protected OOXML file wrapped in an OLE container
var encryptedPackageMarker = []byte{
	'E', 0, 'n', 0, 'c', 0, 'r', 0, 'y', 0, 'p', 0, 't', 0, 'e', 0, 'd', 0,
	'P', 0, 'a', 0, 'c', 0, 'k', 0, 'a', 0, 'g', 0, 'e', 0,
}

// macroProjects is the one macro stream read per application
var macroProjects = map[models.Application]string{
	models.AppExcel:      "xl/vbaProject.bin",
	models.AppWord:       "word/vbaProject.bin",
	models.AppPowerPoint: "ppt/vbaProject.bin",
	models.AppUnknown:    "vbaProject.bin",
}

// SectionFunc receives each section as soon as it is read
type SectionFunc func(Section) error

// SectionReader walks the interesting entries of a document container
type SectionReader struct {
	log  *slog.Logger
	open func(data []byte) (readers.Container, error)
}

// NewSectionReader returns a reader for zip based office containers
func NewSectionReader(logger *slog.Logger) *SectionReader {
	return &SectionReader{
		log: logger,
		open: func(data []byte) (readers.Container, error) {
			return readers.OpenZip(data)
		},
	}
}

// Read yields the sections of the named file in a fixed order and
// returns the detected application. Sections are read one at a time:
// the next entry is only inflated once fn has returned. An error from
// fn or a cancelled context stops the walk.
func (sr *SectionReader) Read(ctx context.Context, name string, data []byte, fn SectionFunc) (models.Application, error) {
	logger := sr.log.With("file", name)

	c, err := sr.open(data)
	if err != nil {
		logger.Debug("not a container, scanning raw bytes", "err", ContainerOpenError{Err: err})

		if bytes.Contains(data, encryptedPackageMarker) {
			return models.AppUnknown, ProtectedFileError{
				File: name,
				Err:  errors.New("encrypted package"),
			}
		}

		if err := ctx.Err(); err != nil {
			return models.AppUnknown, err
		}

		return models.AppUnknown, fn(Section{
			Name:        "Unknown",
			Raw:         data,
			Binary:      true,
			Application: models.AppUnknown,
		})
	}

	app := DetectApplication(c)
	logger.Debug("container opened", "application", app)

	emit := func(entry string, binary bool) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := c.ReadEntry(entry)
		if err != nil {
			logger.Warn("skipping section", "err", EntryReadError{Entry: entry, Err: err})
			return nil
		}
		return fn(Section{
			Name:        entry,
			Raw:         raw,
			Binary:      binary,
			Application: app,
		})
	}

	if entry := macroProjects[app]; c.HasEntry(entry) {
		if err := emit(entry, true); err != nil {
			return app, err
		}
	}

	for _, entry := range sectionPlan(c, app) {
		if err := emit(entry, false); err != nil {
			return app, err
		}
	}

	return app, nil
}

// DetectApplication probes a container for the office application
func DetectApplication(c readers.Container) models.Application {
	switch {
	case c.HasEntry("xl/workbook.xml"), c.HasEntry("xl/workbook.bin"), c.HasFolder("xl"):
		return models.AppExcel
	case c.HasEntry("word/document.xml"), c.HasFolder("word"):
		return models.AppWord
	case c.HasFolder("ppt"):
		return models.AppPowerPoint
	}
	return models.AppUnknown
}

// sectionPlan lists the text entries to scan for an application
func sectionPlan(c readers.Container, app models.Application) []string {
	plan := []string{}
	add := func(entry string) {
		if c.HasEntry(entry) {
			plan = append(plan, entry)
		}
	}

	switch app {
	case models.AppExcel:
		add("xl/connections.xml")
		plan = append(plan, c.List("xl/externalLinks")...)
		plan = append(plan, c.List("xl/_rels")...)
		for _, entry := range c.List("customXml") {
			if isCustomXmlData(entry) {
				plan = append(plan, entry)
			}
		}
	case models.AppWord:
		add("word/document.xml")
		add("word/_rels/document.xml.rels")
	case models.AppPowerPoint:
		plan = append(plan, c.List("ppt/slides/_rels")...)
	}

	return plan
}

func isCustomXmlData(entry string) bool {
	base := strings.ToLower(path.Base(entry))
	ok, _ := path.Match("item*.data", base)
	return ok
}
