package artwork

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// FilesystemFinder searches the directory holding a media file for artwork.
type FilesystemFinder struct{}

// NewFilesystemFinder creates a new filesystem artwork finder.
func NewFilesystemFinder() *FilesystemFinder {
	return &FilesystemFinder{}
}

// FindArtwork looks for artwork next to mediaPath.
// Returns the full path to the artwork file if found, empty string otherwise.
func (f *FilesystemFinder) FindArtwork(mediaPath string) string {
	if mediaPath == "" {
		return ""
	}

	dir := filepath.Dir(mediaPath)

	log.Debug().
		Str("mediaPath", mediaPath).
		Str("dir", dir).
		Msg("Searching for artwork")

	if artPath := f.searchDirectory(dir); artPath != "" {
		log.Debug().Str("artPath", artPath).Msg("Found artwork file")
		return artPath
	}

	log.Debug().Str("dir", dir).Msg("No artwork found in directory")
	return ""
}

// searchDirectory searches a single directory for artwork files.
func (f *FilesystemFinder) searchDirectory(dir string) string {
	// Known names first, table order is the priority order
	for _, name := range ArtFilenames {
		if isPattern(name) {
			continue
		}
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}

	// Then anything the matcher accepts. ReadDir sorts by name, so the
	// first acceptable entry in lexical order wins.
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("Failed to read directory")
		return ""
	}

	for _, entry := range entries {
		name := entry.Name()
		// Skip macOS AppleDouble resource fork files (._filename)
		if strings.HasPrefix(name, "._") {
			continue
		}
		if !IsArtFile(name) {
			continue
		}
		path := filepath.Join(dir, name)
		if isRegularFile(path) {
			return path
		}
	}

	return ""
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// isRegularFile follows symlinks and reports whether path is a regular file.
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
