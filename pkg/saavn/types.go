package saavn

// Kind identifies a catalog entity type.
type Kind string

const (
	KindSong     Kind = "song"
	KindAlbum    Kind = "album"
	KindPlaylist Kind = "playlist"
	KindArtist   Kind = "artist"
)

// Valid reports whether k names a known catalog entity type.
func (k Kind) Valid() bool {
	switch k {
	case KindSong, KindAlbum, KindPlaylist, KindArtist:
		return true
	}
	return false
}

// Image is one rendition of an item's artwork. Images are ordered by
// ascending quality in API responses.
type Image struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// DownloadURL is one encoded variant of a song's audio. Variants are
// ordered by ascending bitrate in API responses.
type DownloadURL struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// ArtistRef is a lightweight reference to an artist on another record.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Artists groups the artist credits on a song or album.
type Artists struct {
	Primary  []ArtistRef `json:"primary"`
	Featured []ArtistRef `json:"featured"`
}

// AlbumRef is a lightweight reference to the album a song belongs to.
type AlbumRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Song is a single track. Search results and detail lookups use the
// same shape, but search summaries may omit DownloadURL; callers
// needing the variant list should refetch by ID when it is empty.
type Song struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Duration    int           `json:"duration"` // seconds
	Language    string        `json:"language"`
	Year        string        `json:"year"`
	PlayCount   int64         `json:"playCount"`
	Album       AlbumRef      `json:"album"`
	Artists     Artists       `json:"artists"`
	Image       []Image       `json:"image"`
	DownloadURL []DownloadURL `json:"downloadUrl"`
}

// PrimaryArtist returns the first primary artist's name, or "Unknown"
// when the record carries no artist credits.
func (s *Song) PrimaryArtist() string {
	if len(s.Artists.Primary) == 0 {
		return "Unknown"
	}
	return s.Artists.Primary[0].Name
}

// ArtistNames returns all primary artist names joined with ", ",
// or "Unknown" when the record carries none.
func (s *Song) ArtistNames() string {
	if len(s.Artists.Primary) == 0 {
		return "Unknown"
	}
	names := ""
	for i, a := range s.Artists.Primary {
		if i > 0 {
			names += ", "
		}
		names += a.Name
	}
	return names
}

// Album is an album record with its full track list.
type Album struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Year      string  `json:"year"`
	SongCount int     `json:"songCount"`
	Language  string  `json:"language"`
	Artists   Artists `json:"artists"`
	Image     []Image `json:"image"`
	Songs     []Song  `json:"songs"`
}

// PrimaryArtist returns the first primary artist's name, or "Unknown".
func (a *Album) PrimaryArtist() string {
	if len(a.Artists.Primary) == 0 {
		return "Unknown"
	}
	return a.Artists.Primary[0].Name
}

// Playlist is a playlist record with its track list. The API pages
// playlist tracks server-side; Songs holds the page that was fetched.
type Playlist struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	SongCount int     `json:"songCount"`
	Language  string  `json:"language"`
	Image     []Image `json:"image"`
	Songs     []Song  `json:"songs"`
}

// Artist is an artist record.
type Artist struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Image []Image `json:"image"`
}

// SongPage is one page of song results with the overall result count.
type SongPage struct {
	Total   int    `json:"total"`
	Results []Song `json:"results"`
}

// AlbumPage is one page of album results.
type AlbumPage struct {
	Total   int     `json:"total"`
	Results []Album `json:"results"`
}

// PlaylistPage is one page of playlist results.
type PlaylistPage struct {
	Total   int        `json:"total"`
	Results []Playlist `json:"results"`
}

// ArtistPage is one page of artist results.
type ArtistPage struct {
	Total   int      `json:"total"`
	Results []Artist `json:"results"`
}

// BestImage returns the URL of the highest-quality artwork rendition,
// or "" when the list is empty.
func BestImage(images []Image) string {
	if len(images) == 0 {
		return ""
	}
	return images[len(images)-1].URL
}
