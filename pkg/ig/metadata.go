package ig

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// MetadataSource handles the structured-metadata shape: a JSON array of
// records carrying a glyph name, a hex codepoint, and a deprecation flag.
type MetadataSource struct {
	name   string
	client *Client
}

func NewMetadataSource(name string, client *Client) *MetadataSource {
	return &MetadataSource{
		name:   name,
		client: orDefaultClient(client),
	}
}

func (s *MetadataSource) Name() string {
	return s.name
}

func (s *MetadataSource) Fetch(ctx context.Context, font FontDescriptor) ([]byte, error) {
	return s.client.fetch(ctx, font.MetadataURL)
}

// metadataEntry decodes name and codepoint loosely so records with non-string
// values can be skipped instead of failing the whole payload.
type metadataEntry struct {
	Name       any  `json:"name"`
	Codepoint  any  `json:"codepoint"`
	Deprecated bool `json:"deprecated"`
}

// Normalize drops deprecated records and records with missing or non-string
// fields. Zero usable records after filtering means the upstream data is
// unusable, which is an error rather than an empty result.
func (s *MetadataSource) Normalize(raw []byte, _ FontDescriptor) ([]GlyphRecord, error) {
	var entries []metadataEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &NormalizeError{Source: s.name, Reason: fmt.Sprintf("decoding payload: %v", err)}
	}

	var records []GlyphRecord
	for _, entry := range entries {
		if entry.Deprecated {
			continue
		}
		name, ok := entry.Name.(string)
		if !ok || name == "" {
			continue
		}
		codepoint, ok := entry.Codepoint.(string)
		if !ok || codepoint == "" {
			continue
		}
		records = append(records, GlyphRecord{
			Name:      name,
			Codepoint: strings.ToLower(codepoint),
		})
	}

	if len(records) == 0 {
		return nil, &NormalizeError{Source: s.name, Reason: "no usable records in payload"}
	}
	return records, nil
}
