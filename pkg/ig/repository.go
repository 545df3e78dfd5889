package ig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Glyph is one selectable icon within a font. Instances are immutable once
// built from a cache file.
type Glyph struct {
	FontID       string
	FontFamily   string
	FontLabel    string
	Name         string
	Codepoint    string // Lowercase hex scalar value
	Character    string // Decoded codepoint, ready to place as text
	SearchTarget string // Precomputed lowercase search string
}

// Repository caches normalized glyph data per font, on disk and in memory.
// The on-disk format is one "name codepoint" line per glyph regardless of
// the upstream shape, so other tools can read the cache files directly.
type Repository struct {
	cacheDir string
	registry *Registry

	mu     sync.Mutex
	glyphs map[string][]Glyph
	counts map[string]int

	group singleflight.Group
}

// NewRepository creates a repository storing cache files under cacheDir,
// creating the directory if needed.
func NewRepository(cacheDir string, registry *Registry) (*Repository, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Repository{
		cacheDir: cacheDir,
		registry: registry,
		glyphs:   make(map[string][]Glyph),
		counts:   make(map[string]int),
	}, nil
}

// cachePath maps a font identifier to its cache file. Path separators in the
// identifier are substituted so two identifiers never collide on disk.
func (r *Repository) cachePath(id string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_").Replace(id)
	return filepath.Join(r.cacheDir, safe+".codepoints")
}

// Ensure makes a font's glyphs available, downloading metadata when no cache
// file exists or refresh is forced. It reports success instead of raising so
// callers iterating many fonts can degrade per font: an unknown identifier
// or a failed download both come back as false.
func (r *Repository) Ensure(ctx context.Context, id string, refresh bool) bool {
	font, ok := r.registry.Get(id)
	if !ok {
		return false
	}
	_, err := r.load(ctx, font, refresh)
	return err == nil
}

// Glyphs aggregates glyphs across the requested fonts, preserving per-font
// insertion order. Unknown identifiers are skipped; a download or
// normalization failure for a known font propagates so callers can tell
// "couldn't load" apart from "no results".
func (r *Repository) Glyphs(ctx context.Context, ids []string) ([]Glyph, error) {
	var glyphs []Glyph
	for _, id := range ids {
		font, ok := r.registry.Get(id)
		if !ok {
			continue
		}
		loaded, err := r.load(ctx, font, false)
		if err != nil {
			return nil, err
		}
		glyphs = append(glyphs, loaded...)
	}
	return glyphs, nil
}

// Search filters the requested fonts' glyphs by a whitespace-tokenized query.
// A glyph matches only when every token is a substring of its search target.
// A blank query returns everything. Results always come back sorted by glyph
// name.
func (r *Repository) Search(ctx context.Context, ids []string, query string) ([]Glyph, error) {
	glyphs, err := r.Glyphs(ctx, ids)
	if err != nil {
		return nil, err
	}

	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) > 0 {
		filtered := glyphs[:0:0]
		for _, glyph := range glyphs {
			if matchesAll(glyph.SearchTarget, tokens) {
				filtered = append(filtered, glyph)
			}
		}
		glyphs = filtered
	}

	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].Name < glyphs[j].Name
	})
	return glyphs, nil
}

func matchesAll(target string, tokens []string) bool {
	for _, token := range tokens {
		if !strings.Contains(target, token) {
			return false
		}
	}
	return true
}

// HasCached reports whether a cache file exists on disk for the font,
// without forcing a network call.
func (r *Repository) HasCached(id string) bool {
	if _, ok := r.registry.Get(id); !ok {
		return false
	}
	_, err := os.Stat(r.cachePath(id))
	return err == nil
}

// CachedCount returns the number of cached glyphs for a font. It reuses the
// in-memory cache when present, otherwise parses the cache file once and
// memoizes the result. A missing or unreadable file counts as zero.
func (r *Repository) CachedCount(id string) int {
	font, ok := r.registry.Get(id)
	if !ok {
		return 0
	}

	r.mu.Lock()
	if glyphs, ok := r.glyphs[id]; ok {
		r.mu.Unlock()
		return len(glyphs)
	}
	if count, ok := r.counts[id]; ok {
		r.mu.Unlock()
		return count
	}
	r.mu.Unlock()

	data, err := os.ReadFile(r.cachePath(id))
	if err != nil {
		return 0
	}
	count := len(parseCacheData(data, font))

	r.mu.Lock()
	r.counts[id] = count
	r.mu.Unlock()
	return count
}

// load returns a font's glyphs, filling the caches on first access. The
// network is only touched when the cache file is missing or refresh is
// forced; a present cache file is served regardless of its age.
func (r *Repository) load(ctx context.Context, font FontDescriptor, refresh bool) ([]Glyph, error) {
	if !refresh {
		r.mu.Lock()
		if glyphs, ok := r.glyphs[font.Identifier]; ok {
			r.mu.Unlock()
			return glyphs, nil
		}
		r.mu.Unlock()
	}

	// Concurrent first loads of the same font collapse into one download.
	result, err, _ := r.group.Do(font.Identifier, func() (any, error) {
		return r.fill(ctx, font, refresh)
	})
	if err != nil {
		return nil, err
	}
	return result.([]Glyph), nil
}

// fill downloads and normalizes when needed, rewrites the cache file, and
// replaces the in-memory entry wholesale so readers observe either the old
// complete list or the new one, never a mix.
func (r *Repository) fill(ctx context.Context, font FontDescriptor, refresh bool) ([]Glyph, error) {
	path := r.cachePath(font.Identifier)

	_, statErr := os.Stat(path)
	if refresh || statErr != nil {
		source, ok := r.registry.SourceFor(font)
		if !ok {
			return nil, fmt.Errorf("font %q references unknown source %q", font.Identifier, font.SourceID)
		}
		raw, err := source.Fetch(ctx, font)
		if err != nil {
			return nil, err
		}
		records, err := source.Normalize(raw, font)
		if err != nil {
			return nil, err
		}
		if err := writeCacheFile(path, records); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cache file for %s: %w", font.Identifier, err)
	}
	glyphs := parseCacheData(data, font)

	r.mu.Lock()
	r.glyphs[font.Identifier] = glyphs
	r.counts[font.Identifier] = len(glyphs)
	r.mu.Unlock()
	return glyphs, nil
}

func writeCacheFile(path string, records []GlyphRecord) error {
	var b strings.Builder
	for _, record := range records {
		b.WriteString(record.Name)
		b.WriteByte(' ')
		b.WriteString(record.Codepoint)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

var searchSeparators = strings.NewReplacer("_", " ", "-", " ")

// parseCacheData builds glyphs from the on-disk line format. Lines that are
// blank, comments, or malformed are skipped.
func parseCacheData(data []byte, font FontDescriptor) []Glyph {
	label := font.Label()
	var glyphs []Glyph
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			continue
		}
		name, codepoint := parts[0], parts[1]
		value, err := strconv.ParseUint(codepoint, 16, 32)
		if err != nil {
			continue
		}
		searchTarget := strings.ToLower(strings.Join([]string{
			searchSeparators.Replace(name),
			font.StyleLabel,
			font.DisplayName,
		}, " "))
		glyphs = append(glyphs, Glyph{
			FontID:       font.Identifier,
			FontFamily:   font.FontFamily,
			FontLabel:    label,
			Name:         name,
			Codepoint:    codepoint,
			Character:    string(rune(value)),
			SearchTarget: searchTarget,
		})
	}
	return glyphs
}
