//go:build windows

package ascii

import (
	"os"

	"golang.org/x/sys/windows"
)

// EnableVT turns on ANSI escape processing on the Windows console
func EnableVT() error {
	handle := windows.Handle(os.Stderr.Fd())

	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err != nil {
		return err
	}
	return windows.SetConsoleMode(handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
}
