package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

type linuxManager struct{}

func newLinuxManager() Manager {
	return &linuxManager{}
}

func (m *linuxManager) GetFontPaths() (FontPaths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return FontPaths{}, fmt.Errorf("getting user home directory: %w", err)
	}

	paths := FontPaths{
		SystemDir: "/usr/local/share/fonts",
		UserDir:   filepath.Join(homeDir, ".local/share/fonts"),
	}

	// Ensure user fonts directory exists
	if err := os.MkdirAll(paths.UserDir, 0755); err != nil {
		return FontPaths{}, fmt.Errorf("creating user fonts directory: %w", err)
	}

	return paths, nil
}

func (m *linuxManager) UpdateFontCache() error {
	// A system without fontconfig tooling picks new fonts up on its own
	// schedule; that must not fail an otherwise successful install.
	if _, err := exec.LookPath("fc-cache"); err != nil {
		return nil
	}

	cmd := exec.Command("fc-cache", "-f")
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("running fc-cache: %s: %w", output, err)
	}
	return nil
}

func (m *linuxManager) RegisterFont(string, string) error {
	// fontconfig discovers fonts from the filesystem
	return nil
}

func (m *linuxManager) UnregisterFont(string) error {
	return nil
}
