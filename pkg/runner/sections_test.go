package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/helviojunior/pathaudit/pkg/models"
	"github.com/helviojunior/pathaudit/pkg/readers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, sr *SectionReader, data []byte) (models.Application, []Section, error) {
	t.Helper()

	sections := []Section{}
	app, err := sr.Read(context.Background(), "test.xlsm", data, func(s Section) error {
		sections = append(sections, s)
		return nil
	})
	return app, sections, err
}

func sectionNames(sections []Section) []string {
	names := []string{}
	for _, s := range sections {
		names = append(names, s.Name)
	}
	return names
}

func TestSectionReaderExcelOrder(t *testing.T) {
	data := buildZip(t,
		zipEntry{Name: "customXml/item2.data", Body: "b"},
		zipEntry{Name: "customXml/ITEM1.DATA", Body: "a"},
		zipEntry{Name: "customXml/itemProps1.xml", Body: "skip"},
		zipEntry{Name: "xl/_rels/workbook.xml.rels", Body: "rels"},
		zipEntry{Name: "xl/externalLinks/externalLink2.xml", Body: "l2"},
		zipEntry{Name: "xl/externalLinks/_rels/externalLink1.xml.rels", Body: "l1r"},
		zipEntry{Name: "xl/externalLinks/externalLink1.xml", Body: "l1"},
		zipEntry{Name: "xl/connections.xml", Body: "conn"},
		zipEntry{Name: "xl/workbook.xml", Body: "wb"},
		zipEntry{Name: "xl/vbaProject.bin", Body: "vba"},
		zipEntry{Name: "vbaProject.bin", Body: "root vba"},
	)

	app, sections, err := readAll(t, NewSectionReader(discardLogger()), data)
	require.NoError(t, err)

	assert.Equal(t, models.AppExcel, app)
	assert.Equal(t, []string{
		"xl/vbaProject.bin",
		"xl/connections.xml",
		"xl/externalLinks/_rels/externalLink1.xml.rels",
		"xl/externalLinks/externalLink1.xml",
		"xl/externalLinks/externalLink2.xml",
		"xl/_rels/workbook.xml.rels",
		"customXml/ITEM1.DATA",
		"customXml/item2.data",
	}, sectionNames(sections))

	assert.True(t, sections[0].Binary)
	for _, s := range sections[1:] {
		assert.False(t, s.Binary, s.Name)
		assert.Equal(t, models.AppExcel, s.Application)
	}
}

func TestSectionReaderWord(t *testing.T) {
	data := buildZip(t,
		zipEntry{Name: "word/_rels/document.xml.rels", Body: "rels"},
		zipEntry{Name: "word/document.xml", Body: "doc"},
		zipEntry{Name: "word/styles.xml", Body: "styles"},
		zipEntry{Name: "word/vbaProject.bin", Body: "vba"},
	)

	app, sections, err := readAll(t, NewSectionReader(discardLogger()), data)
	require.NoError(t, err)

	assert.Equal(t, models.AppWord, app)
	assert.Equal(t, []string{
		"word/vbaProject.bin",
		"word/document.xml",
		"word/_rels/document.xml.rels",
	}, sectionNames(sections))
}

func TestSectionReaderPowerPoint(t *testing.T) {
	data := buildZip(t,
		zipEntry{Name: "ppt/presentation.xml", Body: "p"},
		zipEntry{Name: "ppt/slides/slide1.xml", Body: "s1"},
		zipEntry{Name: "ppt/slides/_rels/slide2.xml.rels", Body: "r2"},
		zipEntry{Name: "ppt/slides/_rels/slide1.xml.rels", Body: "r1"},
	)

	app, sections, err := readAll(t, NewSectionReader(discardLogger()), data)
	require.NoError(t, err)

	assert.Equal(t, models.AppPowerPoint, app)
	assert.Equal(t, []string{
		"ppt/slides/_rels/slide1.xml.rels",
		"ppt/slides/_rels/slide2.xml.rels",
	}, sectionNames(sections))
}

func TestSectionReaderUnknownContainer(t *testing.T) {
	data := buildZip(t,
		zipEntry{Name: "readme.txt", Body: `\\corp\x\y`},
		zipEntry{Name: "vbaProject.bin", Body: "vba"},
	)

	app, sections, err := readAll(t, NewSectionReader(discardLogger()), data)
	require.NoError(t, err)

	assert.Equal(t, models.AppUnknown, app)
	assert.Equal(t, []string{"vbaProject.bin"}, sectionNames(sections))
}

func TestSectionReaderMacroProjectFollowsApplication(t *testing.T) {
	data := buildZip(t,
		zipEntry{Name: "xl/workbook.xml", Body: `<workbook/>`},
		zipEntry{Name: "vbaProject.bin", Body: `Workbooks.Open "\\corp\x\y.xlsx"`},
		zipEntry{Name: "word/vbaProject.bin", Body: "vba"},
	)

	app, sections, err := readAll(t, NewSectionReader(discardLogger()), data)
	require.NoError(t, err)

	assert.Equal(t, models.AppExcel, app)
	assert.Empty(t, sectionNames(sections))
}

func TestSectionReaderRawFallback(t *testing.T) {
	data := []byte(`not a zip \\corp\share\file.xlsx`)

	app, sections, err := readAll(t, NewSectionReader(discardLogger()), data)
	require.NoError(t, err)

	assert.Equal(t, models.AppUnknown, app)
	require.Len(t, sections, 1)
	assert.Equal(t, "Unknown", sections[0].Name)
	assert.True(t, sections[0].Binary)
	assert.Equal(t, data, sections[0].Raw)
}

func TestSectionReaderEncryptedPackage(t *testing.T) {
	data := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0, 0}, encryptedPackageMarker...)

	_, sections, err := readAll(t, NewSectionReader(discardLogger()), data)

	var protected ProtectedFileError
	require.ErrorAs(t, err, &protected)
	assert.Equal(t, "test.xlsm", protected.File)
	assert.Contains(t, err.Error(), ProtectedReason)
	assert.Empty(t, sections)
}

func TestSectionReaderSkipsUnreadableEntry(t *testing.T) {
	data := buildZip(t,
		zipEntry{Name: "xl/workbook.xml", Body: "wb"},
		zipEntry{Name: "xl/connections.xml", Body: "conn"},
		zipEntry{Name: "xl/_rels/workbook.xml.rels", Body: "rels"},
	)

	sr := NewSectionReader(discardLogger())
	open := sr.open
	sr.open = func(b []byte) (readers.Container, error) {
		c, err := open(b)
		if err != nil {
			return nil, err
		}
		return &failingContainer{Container: c, fail: "xl/connections.xml"}, nil
	}

	_, sections, err := readAll(t, sr, data)
	require.NoError(t, err)
	assert.Equal(t, []string{"xl/_rels/workbook.xml.rels"}, sectionNames(sections))
}

func TestSectionReaderStopsOnCallbackError(t *testing.T) {
	data := buildZip(t,
		zipEntry{Name: "word/document.xml", Body: "doc"},
		zipEntry{Name: "word/_rels/document.xml.rels", Body: "rels"},
	)

	boom := errors.New("boom")
	calls := 0
	_, err := NewSectionReader(discardLogger()).Read(context.Background(), "a.docm", data, func(s Section) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestSectionReaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	data := buildZip(t,
		zipEntry{Name: "word/document.xml", Body: "doc"},
		zipEntry{Name: "word/_rels/document.xml.rels", Body: "rels"},
	)

	calls := 0
	_, err := NewSectionReader(discardLogger()).Read(ctx, "a.docm", data, func(s Section) error {
		calls++
		cancel()
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

type failingContainer struct {
	readers.Container
	fail string
}

func (f *failingContainer) ReadEntry(name string) ([]byte, error) {
	if name == f.fail {
		return nil, errors.New("corrupt entry")
	}
	return f.Container.ReadEntry(name)
}
