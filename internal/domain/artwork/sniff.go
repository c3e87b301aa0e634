package artwork

import "bytes"

// DefaultExtension is returned when image data matches no known signature.
// JPEG is by far the most common format for embedded album art.
const DefaultExtension = ".jpg"

// svgSearchWindow bounds how far into the data the <svg tag is searched for.
const svgSearchWindow = 1000

// signature is one rule of the sniffer table.
type signature struct {
	minLen int
	match  func(data []byte) string // returns the extension, or "" if the rule does not apply
}

// prefix builds a rule matching a fixed byte sequence at offset.
func prefix(offset int, magic string, ext string) signature {
	return signature{
		minLen: offset + len(magic),
		match: func(data []byte) string {
			if bytes.Equal(data[offset:offset+len(magic)], []byte(magic)) {
				return ext
			}
			return ""
		},
	}
}

// heicBrands are the ftyp major brands treated as HEIC/HEIF.
var heicBrands = []string{
	"heic", "heix", "hevc", "hevx", "heim",
	"heis", "hevm", "hevs", "mif1", "msf1",
}

// tgaImageTypes are the image type codes allowed by the headerless TGA heuristic.
var tgaImageTypes = map[byte]bool{1: true, 2: true, 3: true, 9: true, 10: true, 11: true}

// signatures is evaluated top to bottom and the first match wins.
// Explicit container signatures come first, heuristics (TGA, WBMP) last.
var signatures = []signature{
	prefix(0, "\xff\xd8\xff", ".jpg"),
	prefix(0, "\x89PNG\r\n\x1a\n", ".png"),
	prefix(0, "GIF87a", ".gif"),
	prefix(0, "GIF89a", ".gif"),
	{minLen: 12, match: func(data []byte) string {
		if string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
			return ".webp"
		}
		return ""
	}},
	prefix(0, "BM", ".bmp"),
	prefix(0, "II\x2a\x00", ".tiff"),
	prefix(0, "MM\x00\x2a", ".tiff"),
	prefix(4, "ftypavif", ".avif"),
	{minLen: 12, match: func(data []byte) string {
		if string(data[4:8]) != "ftyp" {
			return ""
		}
		brand := string(data[8:12])
		for _, b := range heicBrands {
			if brand == b {
				return ".heic"
			}
		}
		return ""
	}},
	{minLen: 4, match: func(data []byte) string {
		if data[0] != 0x00 || data[1] != 0x00 || data[3] != 0x00 {
			return ""
		}
		switch data[2] {
		case 0x01:
			return ".ico"
		case 0x02:
			return ".cur"
		}
		return ""
	}},
	prefix(0, "8BPS", ".psd"),
	prefix(0, "gimp xcf ", ".xcf"),
	prefix(0, "\x76\x2f\x31\x01", ".exr"),
	{minLen: 10, match: func(data []byte) string {
		if bytes.HasPrefix(data, []byte("#?RADIANCE")) || bytes.HasPrefix(data, []byte("#?RGBE")) {
			return ".hdr"
		}
		return ""
	}},
	prefix(0, "\x00\x00\x00\x0c\x6a\x50\x20\x20", ".jp2"),
	prefix(0, "\xff\x4f\xff\x51", ".j2k"),
	prefix(0, "\xff\x0a", ".jxl"),
	prefix(0, "\x00\x00\x00\x0c\x4a\x58\x4c\x20\x0d\x0a\x87\x0a", ".jxl"),
	{minLen: 4, match: func(data []byte) string {
		if (data[0] == 'I' && data[1] == 'I') || (data[0] == 'M' && data[1] == 'M') {
			if data[2] == 0xbc && (data[3] == 0x00 || data[3] == 0x01) {
				return ".jxr"
			}
		}
		return ""
	}},
	// TGA 2.0 footer: "TRUEVISION-XFILE." followed by a NUL in the last 18 bytes.
	{minLen: 26, match: func(data []byte) string {
		if string(data[len(data)-18:]) == "TRUEVISION-XFILE.\x00" {
			return ".tga"
		}
		return ""
	}},
	// Headerless TGA. The checked bytes carry no magic, so this misclassifies
	// some other binary data; it must stay below every explicit signature.
	{minLen: 18, match: func(data []byte) string {
		if data[1] <= 1 && tgaImageTypes[data[2]] {
			return ".tga"
		}
		return ""
	}},
	{minLen: 3, match: func(data []byte) string {
		if data[0] == 0x0a && data[2] == 0x01 {
			return ".pcx"
		}
		return ""
	}},
	{minLen: 5, match: func(data []byte) string {
		if !bytes.HasPrefix(data, []byte("<?xml")) && !bytes.HasPrefix(data, []byte("<svg")) {
			return ""
		}
		window := data
		if len(window) > svgSearchWindow {
			window = window[:svgSearchWindow]
		}
		if bytes.Contains(window, []byte("<svg")) {
			return ".svg"
		}
		return ""
	}},
	{minLen: 2, match: func(data []byte) string {
		if data[0] != 'P' {
			return ""
		}
		switch data[1] {
		case '1', '4':
			return ".pbm"
		case '2', '5':
			return ".pgm"
		case '3', '6':
			return ".ppm"
		case '7':
			return ".pam"
		}
		return ""
	}},
	prefix(0, "#define", ".xbm"),
	prefix(0, "/* XPM */", ".xpm"),
	prefix(0, "SIMPLE", ".fits"),
	prefix(0, "FLIF", ".flif"),
	prefix(0, "qoif", ".qoi"),
	prefix(0, "\x00\x00", ".wbmp"),
}

// DetectExtension returns the file extension (with leading dot) matching the
// image signature found in data. It never fails: data shorter than four bytes
// or matching no rule yields DefaultExtension. data is not modified.
func DetectExtension(data []byte) string {
	if len(data) < 4 {
		return DefaultExtension
	}

	for _, sig := range signatures {
		if len(data) < sig.minLen {
			continue
		}
		if ext := sig.match(data); ext != "" {
			return ext
		}
	}

	return DefaultExtension
}
