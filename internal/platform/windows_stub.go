//go:build !windows

package platform

// Cross-compiled callers still link ForOS("windows"); the registry-backed
// manager only exists on windows builds.
func newWindowsManager() Manager {
	return newUnsupportedManager()
}
