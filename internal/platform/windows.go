//go:build windows

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// Per-user font installs live under HKCU; no elevation required.
const fontsRegistryKey = `Software\Microsoft\Windows NT\CurrentVersion\Fonts`

type windowsManager struct{}

func newWindowsManager() Manager {
	return &windowsManager{}
}

func (m *windowsManager) GetFontPaths() (FontPaths, error) {
	localAppData := os.Getenv("LOCALAPPDATA")
	if localAppData == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return FontPaths{}, fmt.Errorf("getting user home directory: %w", err)
		}
		localAppData = filepath.Join(homeDir, "AppData", "Local")
	}

	paths := FontPaths{
		SystemDir: filepath.Join(os.Getenv("WINDIR"), "Fonts"),
		UserDir:   filepath.Join(localAppData, "Microsoft", "Windows", "Fonts"),
	}

	// Ensure user fonts directory exists
	if err := os.MkdirAll(paths.UserDir, 0755); err != nil {
		return FontPaths{}, fmt.Errorf("creating user fonts directory: %w", err)
	}

	return paths, nil
}

func (m *windowsManager) RegisterFont(family, filename string) error {
	key, err := registry.OpenKey(registry.CURRENT_USER, fontsRegistryKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("opening fonts registry key: %w", err)
	}
	defer key.Close()

	if err := key.SetStringValue(fontValueName(family), filename); err != nil {
		return fmt.Errorf("registering font %s: %w", family, err)
	}
	return nil
}

func (m *windowsManager) UnregisterFont(family string) error {
	key, err := registry.OpenKey(registry.CURRENT_USER, fontsRegistryKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("opening fonts registry key: %w", err)
	}
	defer key.Close()

	if err := key.DeleteValue(fontValueName(family)); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("unregistering font %s: %w", family, err)
	}
	return nil
}

func fontValueName(family string) string {
	return family + " (TrueType)"
}

var (
	user32                 = windows.NewLazySystemDLL("user32.dll")
	procSendMessageTimeout = user32.NewProc("SendMessageTimeoutW")
)

const (
	hwndBroadcast   = 0xffff
	wmFontChange    = 0x001d
	smtoAbortIfHung = 0x0002
)

func (m *windowsManager) UpdateFontCache() error {
	// Tell running applications the font table changed. Best effort: a
	// hung window must not stall or fail the install.
	var result uintptr
	_, _, _ = procSendMessageTimeout.Call(
		hwndBroadcast, wmFontChange, 0, 0,
		smtoAbortIfHung, 1000, uintptr(unsafe.Pointer(&result)))
	return nil
}
