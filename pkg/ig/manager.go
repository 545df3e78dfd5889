package ig

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/icongrab/icongrab/internal/state"
)

// StatusRow summarizes one registered font for a management surface.
type StatusRow struct {
	Identifier    string
	FontFamily    string
	DisplayName   string
	StyleLabel    string
	WeightCount   int
	GlyphCount    int // Cached glyphs; zero when metadata was never fetched
	Installed     bool
	Cached        bool
	Hidden        bool
	Installable   bool // Has binaries and a resolvable install directory
	Uninstallable bool // Installable and currently installed
	InfoURL       string
	License       string
}

// Manager composes the glyph repository, the provisioner, and the persisted
// hidden-font set. All state is owned by the instance; nothing here is
// process-global.
type Manager struct {
	registry    *Registry
	repository  *Repository
	provisioner *Provisioner
	state       *state.Store

	mu             sync.Mutex
	restartPending bool
}

func NewManager(registry *Registry, repository *Repository, provisioner *Provisioner, store *state.Store) *Manager {
	return &Manager{
		registry:    registry,
		repository:  repository,
		provisioner: provisioner,
		state:       store,
	}
}

// Font looks up a single registered font.
func (m *Manager) Font(id string) (FontDescriptor, bool) {
	return m.registry.Get(id)
}

// AvailableFonts returns the registered fonts the user has not hidden,
// sorted by display name.
func (m *Manager) AvailableFonts() []FontDescriptor {
	var fonts []FontDescriptor
	for _, font := range m.registry.All() {
		if m.state.Contains(font.Identifier) {
			continue
		}
		fonts = append(fonts, font)
	}
	sort.SliceStable(fonts, func(i, j int) bool {
		return fonts[i].DisplayName < fonts[j].DisplayName
	})
	return fonts
}

// StatusRows aggregates per-font status for every registered font, sorted by
// family name, case-insensitive. Glyph counts come from the cache only; this
// never forces a download.
func (m *Manager) StatusRows() []StatusRow {
	var rows []StatusRow
	for _, font := range m.registry.All() {
		installPaths := m.provisioner.InstallPaths(font)
		installable := len(installPaths) > 0
		installed := m.provisioner.Installed(font)
		cached := m.repository.HasCached(font.Identifier)
		glyphCount := 0
		if cached {
			glyphCount = m.repository.CachedCount(font.Identifier)
		}
		rows = append(rows, StatusRow{
			Identifier:    font.Identifier,
			FontFamily:    font.FontFamily,
			DisplayName:   font.DisplayName,
			StyleLabel:    font.StyleLabel,
			WeightCount:   len(font.Weights),
			GlyphCount:    glyphCount,
			Installed:     installed,
			Cached:        cached,
			Hidden:        m.state.Contains(font.Identifier),
			Installable:   installable,
			Uninstallable: installable && installed,
			InfoURL:       font.InfoURL,
			License:       font.License,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].FontFamily) < strings.ToLower(rows[j].FontFamily)
	})
	return rows
}

// InstallFonts provisions the given fonts and, once files are on disk, takes
// their identifiers out of the persisted hidden set. Unknown identifiers are
// skipped; an empty selection is a no-op that touches nothing. A registration
// failure after the files are committed still counts as installed and is
// returned alongside.
func (m *Manager) InstallFonts(ctx context.Context, ids []string, progress ProgressFunc) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}
	fonts := m.registry.Ordered(ids)
	if len(fonts) == 0 {
		return false, nil
	}

	installed, installErr := m.provisioner.Install(ctx, fonts, progress)
	if !installed {
		return false, installErr
	}

	m.mu.Lock()
	m.restartPending = true
	m.mu.Unlock()

	if err := m.state.Remove(identifiers(fonts)...); err != nil {
		return true, errors.Join(installErr, fmt.Errorf("updating hidden fonts: %w", err))
	}
	return true, installErr
}

// UninstallFonts removes the given fonts' installed files and adds the
// identifiers of the fonts that actually lost files to the persisted hidden
// set. Returns those identifiers; nil when nothing was removed. An empty
// selection is a no-op that touches nothing.
func (m *Manager) UninstallFonts(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var candidates []FontDescriptor
	for _, font := range m.registry.Ordered(ids) {
		if len(m.provisioner.InstallPaths(font)) == 0 {
			continue
		}
		if !m.provisioner.Installed(font) {
			continue
		}
		candidates = append(candidates, font)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	removed, err := m.provisioner.Uninstall(candidates)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, nil
	}

	removedIDs := identifiers(candidates)
	if err := m.state.Add(removedIDs...); err != nil {
		return removedIDs, fmt.Errorf("updating hidden fonts: %w", err)
	}
	return removedIDs, nil
}

// HiddenFonts returns the persisted hidden identifiers, sorted.
func (m *Manager) HiddenFonts() []string {
	return m.state.Hidden()
}

// RestartPending reports whether fonts were installed during this session.
// Host applications typically need a restart before new families resolve.
func (m *Manager) RestartPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.restartPending
}

func identifiers(fonts []FontDescriptor) []string {
	ids := make([]string, len(fonts))
	for i, font := range fonts {
		ids[i] = font.Identifier
	}
	return ids
}
