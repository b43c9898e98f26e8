package readers

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
)

// MaxEntrySize bounds how much of a single container entry is inflated
var MaxEntrySize int64 = 256 * 1024 * 1024

// Container is an opened zip-style document package
type Container interface {
	// HasEntry reports whether a file entry exists
	HasEntry(name string) bool
	// HasFolder reports whether any entry lives under prefix
	HasFolder(prefix string) bool
	// List returns the file entries under prefix, recursively, sorted
	List(prefix string) []string
	// ReadEntry returns the content of an entry
	ReadEntry(name string) ([]byte, error)
}

// ZipContainer is a Container backed by archive/zip
type ZipContainer struct {
	files map[string]*zip.File
	names []string
}

// OpenZip opens data as a zip archive
func OpenZip(data []byte) (*ZipContainer, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	zc := &ZipContainer{
		files: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		name := strings.TrimPrefix(f.Name, "/")
		if _, dup := zc.files[name]; dup {
			continue
		}
		zc.files[name] = f
		zc.names = append(zc.names, name)
	}
	sort.Strings(zc.names)

	return zc, nil
}

func (zc *ZipContainer) HasEntry(name string) bool {
	f, ok := zc.files[name]
	return ok && !f.FileInfo().IsDir()
}

func (zc *ZipContainer) HasFolder(prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/") + "/"
	i := sort.SearchStrings(zc.names, prefix)
	return i < len(zc.names) && strings.HasPrefix(zc.names[i], prefix)
}

func (zc *ZipContainer) List(prefix string) []string {
	prefix = strings.TrimSuffix(prefix, "/") + "/"
	out := []string{}
	for i := sort.SearchStrings(zc.names, prefix); i < len(zc.names); i++ {
		name := zc.names[i]
		if !strings.HasPrefix(name, prefix) {
			break
		}
		if zc.files[name].FileInfo().IsDir() {
			continue
		}
		out = append(out, name)
	}
	return out
}

func (zc *ZipContainer) ReadEntry(name string) ([]byte, error) {
	f, ok := zc.files[name]
	if !ok {
		return nil, fmt.Errorf("entry not found: %s", name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxEntrySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxEntrySize {
		return nil, fmt.Errorf("entry %s exceeds %d bytes", name, MaxEntrySize)
	}

	return data, nil
}
