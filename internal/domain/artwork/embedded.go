package artwork

import (
	"fmt"
	"os"

	"github.com/dhowden/tag"
)

// TagExtractor reads attached pictures from audio containers using their tags
// (ID3v2 APIC, MP4 covr, FLAC/Ogg METADATA_BLOCK_PICTURE).
type TagExtractor struct{}

// NewTagExtractor creates a tag-based embedded artwork extractor.
func NewTagExtractor() *TagExtractor {
	return &TagExtractor{}
}

// Extract opens mediaRef and returns the first attached picture.
func (e *TagExtractor) Extract(mediaRef string) ([]byte, error) {
	f, err := os.Open(mediaRef)
	if err != nil {
		return nil, fmt.Errorf("failed to open media: %w", err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}

	pic := m.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return nil, ErrNoArtwork
	}

	return pic.Data, nil
}
