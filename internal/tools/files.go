package tools

import (
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
	resolver "github.com/helviojunior/gopathresolver"
	"golang.org/x/exp/slices"
)

// FileExists returns true if the path exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// MimeTypeOf sniffs the MIME type from the leading bytes of a buffer.
// Office packages are zip archives and are reported as such unless the
// sniffer recognises the document type.
func MimeTypeOf(head []byte) string {
	if len(head) > 8192 {
		head = head[:8192]
	}
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return "application/octet-stream"
	}
	return kind.MIME.Value
}

// ResolveFullPath expands ~ and relative paths
func ResolveFullPath(path string) (string, error) {
	return resolver.ResolveFullPath(path)
}

// CreateFileWithDir creates the parent folders of path and returns path
func CreateFileWithDir(path string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	return path, nil
}

// SliceHasStr reports whether s is in slice
func SliceHasStr(slice []string, s string) bool {
	return slices.Contains(slice, s)
}
