package platform

import (
	"errors"
	"runtime"
)

// ErrUnsupported reports that the current OS has no automatic font install
// path. Callers surface it as "manual installation required" rather than a
// retryable failure.
var ErrUnsupported = errors.New("automatic font installation is not supported on this platform")

// FontPaths represents system and user font directories
type FontPaths struct {
	SystemDir string // System-wide font directory
	UserDir   string // User-specific font directory
}

// Manager handles platform-specific provisioning side effects
type Manager interface {
	// GetFontPaths returns the system and user font directories
	GetFontPaths() (FontPaths, error)

	// UpdateFontCache rebuilds the system's font cache where one exists
	UpdateFontCache() error

	// RegisterFont records a family to filename mapping after install.
	// A no-op on platforms that discover fonts from the filesystem.
	RegisterFont(family, filename string) error

	// UnregisterFont removes the mapping written by RegisterFont
	UnregisterFont(family string) error
}

// New returns the manager for the current OS
func New() Manager {
	return ForOS(runtime.GOOS)
}

// ForOS returns the manager for a specific GOOS value. Unknown platforms get
// an explicit unsupported manager instead of a silent fallback.
func ForOS(goos string) Manager {
	switch goos {
	case "darwin":
		return newDarwinManager()
	case "linux":
		return newLinuxManager()
	case "windows":
		return newWindowsManager()
	default:
		return newUnsupportedManager()
	}
}
