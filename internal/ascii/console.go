//go:build !windows

package ascii

// EnableVT is a no-op: unix terminals understand ANSI escapes
func EnableVT() error {
	return nil
}
