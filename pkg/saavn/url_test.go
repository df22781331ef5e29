package saavn

import "testing"

func TestIsCatalogURL(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"https://www.jiosaavn.com/song/tum-hi-ho/QBcxSDeq", true},
		{"https://www.saavn.com/s/playlist/abc/def", true},
		{"check out jiosaavn.com sometime", true},
		{"arijit singh", false},
		{"https://open.spotify.com/track/xyz", false},
	}

	for _, tt := range tests {
		if got := IsCatalogURL(tt.text); got != tt.want {
			t.Errorf("IsCatalogURL(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantID   string
		wantKind Kind
		wantOK   bool
	}{
		{
			name:     "song",
			raw:      "https://www.jiosaavn.com/song/tum-hi-ho/QBcxSDeq",
			wantID:   "QBcxSDeq",
			wantKind: KindSong,
			wantOK:   true,
		},
		{
			name:     "album",
			raw:      "https://www.jiosaavn.com/album/aashiqui-2/T07lRbhcYBo_",
			wantID:   "T07lRbhcYBo_",
			wantKind: KindAlbum,
			wantOK:   true,
		},
		{
			name:     "featured playlist",
			raw:      "https://www.jiosaavn.com/featured/romantic-hits/85237523",
			wantID:   "85237523",
			wantKind: KindPlaylist,
			wantOK:   true,
		},
		{
			name:     "playlist",
			raw:      "https://www.jiosaavn.com/playlist/my-mix/993344",
			wantID:   "993344",
			wantKind: KindPlaylist,
			wantOK:   true,
		},
		{
			name:     "artist",
			raw:      "https://www.jiosaavn.com/artist/arijit-singh-songs/459320",
			wantID:   "459320",
			wantKind: KindArtist,
			wantOK:   true,
		},
		{
			name:   "surrounding whitespace",
			raw:    "  https://www.jiosaavn.com/song/x/id9  ",
			wantID: "id9", wantKind: KindSong, wantOK: true,
		},
		{
			name:   "unrecognized path",
			raw:    "https://www.jiosaavn.com/about",
			wantOK: false,
		},
		{
			name:   "trailing slash leaves no id",
			raw:    "https://www.jiosaavn.com/song/tum-hi-ho/",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, kind, ok := ResolveURL(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if id != tt.wantID || kind != tt.wantKind {
				t.Errorf("ResolveURL = (%q, %q), want (%q, %q)", id, kind, tt.wantID, tt.wantKind)
			}
		})
	}
}
