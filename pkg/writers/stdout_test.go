package writers

import (
	"bytes"
	"testing"

	"github.com/helviojunior/pathaudit/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdoutWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &StdoutWriter{out: &buf}

	require.NoError(t, w.Write(&models.FileResult{
		FileName: "a.xlsm",
		Detections: []models.Detection{
			{SourceFile: "a.xlsm", Line: 4, Path: `\\corp\a\b.xlsx`, Section: "xl/vbaProject.bin", Category: models.CategoryNAS, Usage: models.UsageWorkbookOpen, Impact: models.ImpactHigh},
		},
	}))
	require.NoError(t, w.Write(&models.FileResult{FileName: "b.docm", Failed: true, FailedReason: "locked"}))

	out := buf.String()
	assert.Contains(t, out, `\\corp\a\b.xlsx`)
	assert.Contains(t, out, "xl/vbaProject.bin")
	assert.Contains(t, out, "Workbook Open Macro")
	assert.Contains(t, out, "locked")

	none, err := NewNoneWriter()
	require.NoError(t, err)
	assert.NoError(t, none.Write(&models.FileResult{}))
}
