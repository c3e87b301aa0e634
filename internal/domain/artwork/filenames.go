package artwork

import "strings"

// wildcard marks the variable part of an art filename pattern.
const wildcard = "{*}"

// ArtFilenames lists conventional album art filenames in priority order.
// Matching is exact and case-sensitive; case variants are listed explicitly.
// Entries containing {*} are patterns and are only used while scanning a directory.
var ArtFilenames = []string{
	// Windows
	"Folder.jpg", "Folder.png", "Folder.gif", "Folder.webp",
	"AlbumArtSmall.jpg", "AlbumArt.jpg", "AlbumArt.png",

	"Album.jpg", "Album.png", "Album.gif", "Album.webp",
	"cover.jpg", "cover.png", "cover.gif", "cover.webp", "cover.bmp",
	"Cover.jpg", "Cover.png", "Cover.gif", "Cover.webp", "Cover.bmp",
	"COVER.JPG", "COVER.PNG", "COVER.GIF", "COVER.WEBP", "COVER.BMP",

	"front.jpg", "front.png", "front.gif", "front.webp", "front.bmp",
	"Front.jpg", "Front.png", "Front.gif", "Front.webp", "Front.bmp",
	"FRONT.JPG", "FRONT.PNG", "FRONT.GIF", "FRONT.WEBP", "FRONT.BMP",

	"artwork.jpg", "artwork.png", "artwork.gif", "artwork.webp",
	"Artwork.jpg", "Artwork.png", "Artwork.gif", "Artwork.webp",

	"thumb.jpg", "thumb.png", "thumb.gif", "thumb.webp",
	"Thumb.jpg", "Thumb.png", "Thumb.gif", "Thumb.webp",
	"thumbnail.jpg", "thumbnail.png", "thumbnail.gif", "thumbnail.webp",

	"albumart.jpg", "albumart.png", "albumcover.jpg", "albumcover.png",
	"cd.jpg", "cd.png", "disc.jpg", "disc.png",
	"music.jpg", "music.png", "audio.jpg", "audio.png",

	// KDE and other desktops
	".folder.png", ".folder.jpg", ".cover.jpg", ".cover.png",

	"folder.jpg", "folder.png", "folder.gif", "folder.webp",

	"cover-large.jpg", "cover-large.png", "cover-hq.jpg", "cover-hq.png",
	"front-large.jpg", "front-large.png", "front-hq.jpg", "front-hq.png",

	// Windows Media Player
	"AlbumArt_{*}_Large.jpg", "AlbumArt_{*}_Small.jpg",

	"portada.jpg", "portada.png", // es
	"caratula.jpg", "caratula.png", // es
	"capa.jpg", "capa.png", // pt
	"pochette.jpg", "pochette.png", // fr
}

// SupportedExtensions lists the image file extensions recognized as artwork.
var SupportedExtensions = []string{
	".jpg", ".jpeg", ".jpe", ".jfif", ".jfi",
	".png", ".gif", ".webp", ".bmp", ".dib",
	".tiff", ".tif", ".avif", ".heic", ".heif",
	".ico", ".cur",

	// camera raw
	".cr2", ".crw", ".nef", ".nrw", ".arw", ".srf", ".sr2",
	".orf", ".rw2", ".pef", ".ptx", ".dng", ".raf", ".mrw",
	".dcr", ".kdc", ".erf", ".3fr", ".mef", ".mos", ".x3f",

	".psd", ".psb",
	".xcf",
	".exr", ".hdr", ".pic",
	".dpx", ".cin",
	".sgi", ".rgb", ".bw",
	".sun", ".ras",
	".pnm", ".pbm", ".pgm", ".ppm", ".pam",
	".pfm",
	".pcx",
	".tga", ".icb", ".vda", ".vst",
	".jp2", ".j2k", ".jpf", ".jpx", ".jpm", ".mj2",
	".jxr", ".wdp", ".hdp",
	".jxl",

	".svg", ".svgz",
	".apng", ".mng",

	".xbm", ".xpm",
	".wbmp",
	".fits", ".fit", ".fts",
	".flif",
	".qoi",
}

// artPattern is an ArtFilenames entry split around its wildcard.
type artPattern struct {
	prefix string
	suffix string
}

var (
	exactArtNames = make(map[string]bool, len(ArtFilenames))
	artPatterns   []artPattern
)

func init() {
	for _, name := range ArtFilenames {
		before, after, ok := strings.Cut(name, wildcard)
		if !ok {
			exactArtNames[name] = true
			continue
		}
		artPatterns = append(artPatterns, artPattern{prefix: before, suffix: after})
	}
}

// HasSupportedExtension reports whether name ends with one of SupportedExtensions.
func HasSupportedExtension(name string) bool {
	for _, ext := range SupportedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// IsArtFile reports whether name looks like an artwork file: a known art
// filename, a match of one of the wildcard patterns, or any file with a
// supported image extension.
func IsArtFile(name string) bool {
	if exactArtNames[name] {
		return true
	}

	for _, p := range artPatterns {
		if len(name) >= len(p.prefix)+len(p.suffix) &&
			strings.HasPrefix(name, p.prefix) && strings.HasSuffix(name, p.suffix) {
			return true
		}
	}

	return HasSupportedExtension(name)
}

// isPattern reports whether an ArtFilenames entry is a wildcard pattern.
func isPattern(name string) bool {
	return strings.Contains(name, wildcard)
}
