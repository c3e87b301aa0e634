package artwork

import (
	"regexp"
	"strings"
)

// youtubeURL matches watch and short links and captures the video id.
var youtubeURL = regexp.MustCompile(`^https?://(?:youtu\.be/|(?:www\.)?youtube\.com/watch\?v=)(?P<id>[A-Za-z0-9_-]*)\??.*`)

const (
	thumbnailPrefix = "https://i1.ytimg.com/vi/"
	thumbnailSuffix = "/hqdefault.jpg"
)

// IsRemote reports whether mediaRef is handled as a URL rather than a local file.
func IsRemote(mediaRef string) bool {
	return strings.HasPrefix(mediaRef, "http")
}

// ThumbnailURL derives the thumbnail location for a video-sharing URL.
// No request is made; ok is false when mediaRef is not a recognized video link.
func ThumbnailURL(mediaRef string) (string, bool) {
	m := youtubeURL.FindStringSubmatch(mediaRef)
	if m == nil {
		return "", false
	}
	id := m[youtubeURL.SubexpIndex("id")]
	return thumbnailPrefix + id + thumbnailSuffix, true
}
