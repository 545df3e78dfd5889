package ig

import (
	"context"
	"strings"
)

// CodepointsSource handles the plain-line metadata shape: one glyph per line,
// two whitespace-separated tokens (name, hex codepoint).
type CodepointsSource struct {
	name   string
	client *Client
}

func NewCodepointsSource(name string, client *Client) *CodepointsSource {
	return &CodepointsSource{
		name:   name,
		client: orDefaultClient(client),
	}
}

func (s *CodepointsSource) Name() string {
	return s.name
}

func (s *CodepointsSource) Fetch(ctx context.Context, font FontDescriptor) ([]byte, error) {
	return s.client.fetch(ctx, font.MetadataURL)
}

// Normalize keeps well-formed lines and silently drops everything else:
// blank lines, comments, and lines that don't split into exactly two tokens.
func (s *CodepointsSource) Normalize(raw []byte, _ FontDescriptor) ([]GlyphRecord, error) {
	var records []GlyphRecord
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			continue
		}
		records = append(records, GlyphRecord{
			Name:      parts[0],
			Codepoint: strings.ToLower(parts[1]),
		})
	}
	return records, nil
}
