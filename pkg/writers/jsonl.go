package writers

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/helviojunior/pathaudit/internal/tools"
	"github.com/helviojunior/pathaudit/pkg/models"
)

// JsonWriter is a JSON lines writer
type JsonWriter struct {
	FilePath string
	mutex    sync.Mutex
}

// NewJsonWriter return a new Json lines writer
func NewJsonWriter(destination string) (*JsonWriter, error) {
	dst, err := tools.CreateFileWithDir(destination)
	if err != nil {
		return nil, err
	}

	return &JsonWriter{
		FilePath: dst,
	}, nil
}

// Write JSON lines to a file
func (jw *JsonWriter) Write(result *models.FileResult) error {
	jw.mutex.Lock()
	defer jw.mutex.Unlock()

	j, err := json.Marshal(result)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(jw.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.Write(append(j, '\n')); err != nil {
		return err
	}

	return nil
}
