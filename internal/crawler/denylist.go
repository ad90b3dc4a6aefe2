package crawler

import (
	"path"
	"strings"
)

// defaultDenylist holds the extensions of binary and media files that carry no
// useful review context: images, audio, video, archives, office documents and fonts.
var defaultDenylist = []string{
	"png", "jpg", "jpeg", "gif", "bmp", "ico", "svg", "webp", "tiff", "psd",
	"mp3", "wav", "ogg", "flac", "aac", "m4a",
	"mp4", "mov", "avi", "mkv", "webm", "wmv", "flv",
	"zip", "tar", "gz", "tgz", "bz2", "xz", "7z", "rar", "jar",
	"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "odt", "ods", "odp",
	"woff", "woff2", "ttf", "otf", "eot",
}

type extSet map[string]struct{}

func newExtSet(exts ...[]string) extSet {
	set := make(extSet)
	for _, list := range exts {
		for _, e := range list {
			e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
			if e != "" {
				set[e] = struct{}{}
			}
		}
	}
	return set
}

// matches reports whether the file at p has a denylisted extension. The
// comparison is case-insensitive and only looks at the last extension.
func (s extSet) matches(p string) bool {
	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ext == "" {
		return false
	}
	_, ok := s[strings.ToLower(ext)]
	return ok
}

var defaultExts = newExtSet(defaultDenylist)
