package saavn

import (
	"net/url"
	"strings"
)

// IsCatalogURL reports whether text looks like a JioSaavn link.
func IsCatalogURL(text string) bool {
	return strings.Contains(text, "jiosaavn.com") || strings.Contains(text, "saavn.com")
}

// ResolveURL extracts the entity ID and kind from a JioSaavn share
// link. The trailing path segment is the entity's ID.
//
// Recognized path forms:
//
//	/song/...      -> KindSong
//	/album/...     -> KindAlbum
//	/featured/...  -> KindPlaylist
//	/playlist/...  -> KindPlaylist
//	/artist/...    -> KindArtist
//
// Returns ok=false for anything else.
func ResolveURL(raw string) (id string, kind Kind, ok bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", false
	}

	path := parsed.Path
	last := path[strings.LastIndex(path, "/")+1:]
	if last == "" {
		return "", "", false
	}

	switch {
	case strings.Contains(path, "/song/"):
		return last, KindSong, true
	case strings.Contains(path, "/album/"):
		return last, KindAlbum, true
	case strings.Contains(path, "/featured/"), strings.Contains(path, "/playlist/"):
		return last, KindPlaylist, true
	case strings.Contains(path, "/artist/"):
		return last, KindArtist, true
	}
	return "", "", false
}
