package ig

import (
	"context"
	"regexp"
	"strings"
)

// StylesheetSource handles the style-rule metadata shape: a stylesheet whose
// glyph rules look like `.fa-user:before { content: '\f007'; }`. Both single
// and double colons before `before` and both quote styles are accepted, as
// are minified rules without whitespace.
type StylesheetSource struct {
	name    string
	client  *Client
	pattern *regexp.Regexp
}

func NewStylesheetSource(name, classPrefix string, client *Client) *StylesheetSource {
	pattern := regexp.MustCompile(
		`\.` + regexp.QuoteMeta(classPrefix) + `-([\w-]+):{1,2}before\s*\{\s*content\s*:\s*["']\\([0-9a-fA-F]+)["']`)
	return &StylesheetSource{
		name:    name,
		client:  orDefaultClient(client),
		pattern: pattern,
	}
}

func (s *StylesheetSource) Name() string {
	return s.name
}

func (s *StylesheetSource) Fetch(ctx context.Context, font FontDescriptor) ([]byte, error) {
	return s.client.fetch(ctx, font.MetadataURL)
}

// Normalize extracts glyph rules by pattern match. Zero matches means the
// stylesheet doesn't carry glyph rules for this prefix at all, which is an
// error rather than an empty result.
func (s *StylesheetSource) Normalize(raw []byte, _ FontDescriptor) ([]GlyphRecord, error) {
	matches := s.pattern.FindAllStringSubmatch(string(raw), -1)
	if len(matches) == 0 {
		return nil, &NormalizeError{Source: s.name, Reason: "no glyph rules found in stylesheet"}
	}

	records := make([]GlyphRecord, 0, len(matches))
	for _, match := range matches {
		records = append(records, GlyphRecord{
			Name:      match[1],
			Codepoint: strings.ToLower(match[2]),
		})
	}
	return records, nil
}
