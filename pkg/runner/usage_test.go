package runner

import (
	"testing"

	"github.com/helviojunior/pathaudit/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestInferUsage(t *testing.T) {
	tests := []struct {
		name   string
		window string
		want   models.Usage
	}{
		{"workbook open", `Set wb = Workbooks.Open("\\corp\a\b.xlsx")`, models.UsageWorkbookOpen},
		{"file system object", `Set fso = CreateObject("Scripting.FileSystemObject")`, models.UsageWorkbookOpen},
		{"connection string", `connectionString="Provider=x;Data Source=\\dfs\db\x.accdb"`, models.UsageDataConnection},
		{"odbc lower case", `odbc;dsn=x;dbq=C:\data\x.mdb`, models.UsageDataConnection},
		{"hyperlink", `<hyperlink ref="A1" r:id="rId1"/>`, models.UsageHyperlink},
		{"external target", `Target="file:\\C:\x\y.xlsx" TargetMode="External"`, models.UsageHyperlink},
		{"kill", `Kill("C:\Users\x\old\*.tmp")`, models.UsageFolderMacro},
		{"dir", `f = Dir("\\filesrv\drop\")`, models.UsageFolderMacro},
		{"name statement", `Name oldPath As newPath`, models.UsageFolderMacro},
		{"nothing", `some text C:\x\y\z`, models.UsageGeneric},
		{"first rule wins", `Hyperlink Workbooks.Open`, models.UsageWorkbookOpen},
		{"data beats hyperlink", `Hyperlink ODBC`, models.UsageDataConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferUsage(tt.window))
		})
	}
}

func TestScoreImpact(t *testing.T) {
	assert.Equal(t, models.ImpactHigh, ScoreImpact(models.UsageWorkbookOpen))
	assert.Equal(t, models.ImpactHigh, ScoreImpact(models.UsageFolderMacro))
	assert.Equal(t, models.ImpactMedium, ScoreImpact(models.UsageGeneric))
	assert.Equal(t, models.ImpactMedium, ScoreImpact(models.UsageDataConnection))
	assert.Equal(t, models.ImpactLow, ScoreImpact(models.UsageHyperlink))
	assert.Equal(t, models.ImpactMedium, ScoreImpact(models.Usage("Something Else")))

	// pure: same input, same output
	for i := 0; i < 3; i++ {
		assert.Equal(t, ScoreImpact(models.UsageHyperlink), ScoreImpact(models.UsageHyperlink))
	}
}
