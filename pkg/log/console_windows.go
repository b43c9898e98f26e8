//go:build windows

package log

import "github.com/helviojunior/pathaudit/internal/ascii"

func init() {
    // Older consoles need VT processing for colours and line clearing
    ascii.EnableVT()
}
