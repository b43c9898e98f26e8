package writers

import (
	"os"
	"path/filepath"
)

// Sink stores a named payload
type Sink interface {
	Save(name string, payload []byte) error
}

// FileSink saves payloads as files below Dir. Absolute names, or an
// empty Dir, are used as is.
type FileSink struct {
	Dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

func (fs *FileSink) Save(name string, payload []byte) error {
	dst := name
	if fs.Dir != "" && !filepath.IsAbs(name) {
		dst = filepath.Join(fs.Dir, name)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, payload, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}
