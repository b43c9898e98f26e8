package runner

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type zipEntry struct {
	Name string
	Body string
}

func buildZip(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.Body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

// workbookZip is a small macro enabled workbook with one NAS path in
// the macro project and one local path in the workbook relationships
func workbookZip(t *testing.T) []byte {
	return buildZip(t,
		zipEntry{Name: "[Content_Types].xml", Body: `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`},
		zipEntry{Name: "xl/workbook.xml", Body: `<workbook/>`},
		zipEntry{Name: "xl/vbaProject.bin", Body: "\x00\x01\xd0\xcfAttribute\x00Sub Load()\x00Workbooks.Open \"\\\\filesrv\\finance\\budget.xlsx\"\x00\xff\xfe"},
		zipEntry{Name: "xl/_rels/workbook.xml.rels", Body: `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId9" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/externalLinkPath" Target="file:///C:/Users/bob/Documents/data.xlsx" TargetMode="External"/></Relationships>`},
	)
}
