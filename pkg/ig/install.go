package ig

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/icongrab/icongrab/internal/platform"
)

// ErrNoInstallableFonts is returned when none of the requested fonts carry a
// binary in a directly installable format.
var ErrNoInstallableFonts = errors.New("no installable font files in selection")

// ManualInstallError signals that the current OS has no automatic install
// path. It carries the upstream download URLs so a caller can point the user
// at a manual install. Not retryable.
type ManualInstallError struct {
	URLs []string
}

func (e *ManualInstallError) Error() string {
	return fmt.Sprintf("manual installation required; download fonts from: %s", strings.Join(e.URLs, ", "))
}

// ProgressFunc reports batch progress as (completed, total) after each fully
// copied file.
type ProgressFunc func(completed, total int)

// Provisioner installs and removes font binary files on the host OS.
type Provisioner struct {
	platform platform.Manager
	client   *Client
}

func NewProvisioner(platformMgr platform.Manager, client *Client) *Provisioner {
	return &Provisioner{
		platform: platformMgr,
		client:   orDefaultClient(client),
	}
}

// Formats the OS font stack loads directly from a font directory.
func isInstallableFormat(format string) bool {
	return format == "ttf" || format == "otf"
}

func installableFiles(font FontDescriptor) []FontFile {
	var files []FontFile
	for _, file := range font.FontFiles {
		if isInstallableFormat(file.Format) {
			files = append(files, file)
		}
	}
	return files
}

// installFileName derives the on-disk name from the download URL, decoding
// percent-escapes so the installed file keeps the upstream filename.
func installFileName(rawURL string) string {
	name := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		name = u.Path
	}
	name = path.Base(name)
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	return name
}

func (p *Provisioner) fontDir() (string, error) {
	paths, err := p.platform.GetFontPaths()
	if err != nil {
		return "", err
	}
	return paths.UserDir, nil
}

// InstallPaths returns the paths a font's installable binaries occupy once
// installed. Empty when no install directory can be resolved for the
// current OS; never an error.
func (p *Provisioner) InstallPaths(font FontDescriptor) []string {
	dir, err := p.fontDir()
	if err != nil {
		return nil
	}
	var paths []string
	for _, file := range installableFiles(font) {
		paths = append(paths, filepath.Join(dir, installFileName(file.URL)))
	}
	return paths
}

// Installed reports whether any of a font's expected install paths exist. A
// partially removed font still counts as installed so it stays visible and
// uninstallable.
func (p *Provisioner) Installed(font FontDescriptor) bool {
	for _, path := range p.InstallPaths(font) {
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}

// Install downloads and installs the installable binaries of the given
// fonts as one batch. Every file is downloaded to a private temporary
// location first; nothing is copied into the font directory until the whole
// batch has downloaded, and progress reflects only fully copied files.
func (p *Provisioner) Install(ctx context.Context, fonts []FontDescriptor, progress ProgressFunc) (bool, error) {
	type pendingFile struct {
		font FontDescriptor
		file FontFile
		temp string
	}

	var batch []pendingFile
	var urls []string
	for _, font := range fonts {
		for _, file := range installableFiles(font) {
			batch = append(batch, pendingFile{font: font, file: file})
			urls = append(urls, file.URL)
		}
	}
	if len(batch) == 0 {
		return false, ErrNoInstallableFonts
	}

	dir, err := p.fontDir()
	if err != nil {
		if errors.Is(err, platform.ErrUnsupported) {
			return false, &ManualInstallError{URLs: urls}
		}
		return false, fmt.Errorf("resolving font directory: %w", err)
	}

	tempDir, err := os.MkdirTemp("", "icongrab-fonts-*")
	if err != nil {
		return false, fmt.Errorf("creating temporary directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// Download phase: a failure here leaves the font directory untouched.
	for i := range batch {
		data, err := p.client.fetch(ctx, batch[i].file.URL)
		if err != nil {
			return false, err
		}
		temp := filepath.Join(tempDir, fmt.Sprintf("%d-%s", i, installFileName(batch[i].file.URL)))
		if err := os.WriteFile(temp, data, 0o644); err != nil {
			return false, fmt.Errorf("writing temporary font file: %w", err)
		}
		batch[i].temp = temp
	}

	// Commit phase
	total := len(batch)
	completed := 0
	var regErrs []error
	for _, item := range batch {
		name := installFileName(item.file.URL)
		dest := filepath.Join(dir, name)
		if err := copyFile(item.temp, dest); err != nil {
			return completed > 0, fmt.Errorf("installing %s: %w", name, err)
		}
		completed++
		if progress != nil {
			progress(completed, total)
		}
		// A registration failure leaves the file installed but possibly
		// unresolvable by family name, so it is reported after the batch.
		if err := p.platform.RegisterFont(item.font.FontFamily, name); err != nil {
			regErrs = append(regErrs, fmt.Errorf("registering %s: %w", item.font.FontFamily, err))
		}
	}

	_ = p.platform.UpdateFontCache()
	return true, errors.Join(regErrs...)
}

// Uninstall removes the fonts' expected install paths. Missing files are
// skipped rather than treated as errors; false means nothing was actually
// removed. The post-install platform step is mirrored only when at least
// one file came off disk.
func (p *Provisioner) Uninstall(fonts []FontDescriptor) (bool, error) {
	removed := 0
	for _, font := range fonts {
		for _, path := range p.InstallPaths(font) {
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := os.Remove(path); err != nil {
				return removed > 0, fmt.Errorf("removing %s: %w", path, err)
			}
			removed++
		}
	}
	if removed == 0 {
		return false, nil
	}

	for _, font := range fonts {
		_ = p.platform.UnregisterFont(font.FontFamily)
	}
	_ = p.platform.UpdateFontCache()
	return true, nil
}

func copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}
