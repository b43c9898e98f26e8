package readers

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// FileReaderOptions are options for the file reader
type FileReaderOptions struct {
	// Paths are files or folders to scan
	Paths []string
	// ListFile is a file with one path per line
	ListFile string
}

// Source is a named byte provider for one input file
type Source interface {
	Name() string
	Size() int64
	Bytes() ([]byte, error)
}

// FileSource reads its bytes from disk when asked
type FileSource struct {
	Path string
	size int64
}

// NewFileSource stats path and returns a lazy source for it
func NewFileSource(path string) (*FileSource, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{Path: path, size: st.Size()}, nil
}

func (f *FileSource) Name() string { return filepath.Base(f.Path) }
func (f *FileSource) Size() int64  { return f.size }

func (f *FileSource) Bytes() ([]byte, error) {
	return os.ReadFile(f.Path)
}

// MemorySource holds its content in memory (uploads, tests)
type MemorySource struct {
	FileName string
	Data     []byte
	// Length overrides len(Data) as the reported size when > 0
	Length int64
}

func (m *MemorySource) Name() string { return m.FileName }

func (m *MemorySource) Size() int64 {
	if m.Length > 0 {
		return m.Length
	}
	return int64(len(m.Data))
}

func (m *MemorySource) Bytes() ([]byte, error) {
	return m.Data, nil
}

// Read from a file.
func ReadFileList(fileName string, outList *[]string) error {

	var file *os.File
	var err error

	file, err = os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		candidate := strings.TrimSpace(scanner.Text())
		if candidate == "" || strings.HasPrefix(candidate, "#") {
			continue
		}

		*outList = append(*outList, candidate)
	}

	return scanner.Err()
}

// CollectSources expands folders (one level, sorted by name) and
// returns a source per file, in the order given.
func CollectSources(paths []string) ([]Source, error) {
	sources := []Source{}
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			return nil, err
		}

		if !st.IsDir() {
			s, err := NewFileSource(p)
			if err != nil {
				return nil, err
			}
			sources = append(sources, s)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			s, err := NewFileSource(filepath.Join(p, e.Name()))
			if err != nil {
				return nil, err
			}
			sources = append(sources, s)
		}
	}

	return sources, nil
}
