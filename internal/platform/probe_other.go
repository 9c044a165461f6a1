//go:build !windows

package platform

// NewProbe returns the portable probe on non-Windows platforms.
func NewProbe() Probe {
	return &LocalProbe{}
}
