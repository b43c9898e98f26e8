package readers

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zipOf(t *testing.T, names ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, n := range names {
		w, err := zw.Create(n)
		require.NoError(t, err)
		if strings.HasSuffix(n, "/") {
			continue
		}
		_, err = w.Write([]byte("body of " + n))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestZipContainer(t *testing.T) {
	zc, err := OpenZip(zipOf(t,
		"xl/workbook.xml",
		"xl/externalLinks/externalLink2.xml",
		"xl/externalLinks/_rels/externalLink2.xml.rels",
		"xl/externalLinks/externalLink1.xml",
		"customXml/item1.xml",
		"xl/empty/",
	))
	require.NoError(t, err)

	assert.True(t, zc.HasEntry("xl/workbook.xml"))
	assert.True(t, zc.HasEntry("customXml/item1.xml"))
	assert.False(t, zc.HasEntry("xl/empty/"))
	assert.False(t, zc.HasEntry("missing.xml"))

	assert.True(t, zc.HasFolder("xl"))
	assert.True(t, zc.HasFolder("xl/externalLinks/"))
	assert.False(t, zc.HasFolder("word"))
	assert.False(t, zc.HasFolder("x"))

	assert.Equal(t, []string{
		"xl/externalLinks/_rels/externalLink2.xml.rels",
		"xl/externalLinks/externalLink1.xml",
		"xl/externalLinks/externalLink2.xml",
	}, zc.List("xl/externalLinks"))
	assert.Empty(t, zc.List("xl/empty"))

	data, err := zc.ReadEntry("xl/workbook.xml")
	require.NoError(t, err)
	assert.Equal(t, "body of xl/workbook.xml", string(data))

	_, err = zc.ReadEntry("nope")
	assert.Error(t, err)
}

func TestZipContainerEntryLimit(t *testing.T) {
	old := MaxEntrySize
	MaxEntrySize = 4
	defer func() { MaxEntrySize = old }()

	zc, err := OpenZip(zipOf(t, "a.xml"))
	require.NoError(t, err)

	_, err = zc.ReadEntry("a.xml")
	assert.Error(t, err)
}

func TestOpenZipRejectsGarbage(t *testing.T) {
	_, err := OpenZip([]byte("not a zip"))
	assert.Error(t, err)
}
