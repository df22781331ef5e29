package nav

import (
	"github.com/groovia/groovia/internal/session"
	"github.com/groovia/groovia/pkg/saavn"
)

// ViewKind identifies what a View describes. The presentation adapter
// switches on it to render transport-specific output.
type ViewKind int

const (
	ViewNone ViewKind = iota // acknowledge only, no output change
	ViewMainMenu
	ViewHelp
	ViewSettings
	ViewStats
	ViewHistory
	ViewSearchPrompt
	ViewList
	ViewSongDetail
	ViewAlbumDetail
	ViewPlaylistDetail
	ViewArtistMenu
	ViewAdminPanel
	ViewAdminStats
	ViewBroadcastPrompt
	ViewBroadcastConfirm
	ViewUnauthorized
	ViewError

	// Handoff views: the engine has decided a long-running run should
	// start; the transport routes them into the retrieval pipeline.
	ViewDownloadOne
	ViewDownloadAll
	ViewBroadcastRun
)

// PageSize is the fixed page size for every list view.
const PageSize = 10

// TotalPages returns ceil(total / PageSize).
func TotalPages(total int) int {
	return (total + PageSize - 1) / PageSize
}

// ListSource says how a list view was produced, which determines how
// its pagination tokens are built.
type ListSource int

const (
	SourceSearch  ListSource = iota // Scope is the search query
	SourceArtist                    // Scope is the artist id, Child selects the list
	SourceSimilar                   // not paginable upstream
)

// Summary is one row of a list view.
type Summary struct {
	ID        string
	Name      string
	Artist    string
	Duration  int // seconds, songs only
	SongCount int // albums and playlists only
}

// ListView is a paginated list of item summaries.
type ListView struct {
	Kind   saavn.Kind
	Items  []Summary
	Page   int
	Total  int
	Source ListSource
	Scope  string
	Child  string // "songs" or "albums" for SourceArtist
}

// TotalPages returns the number of pages this list spans.
func (l *ListView) TotalPages() int {
	return TotalPages(l.Total)
}

// AlbumDetail is an album with the child page to display. The track
// list is fully present in the payload; paging is pure slicing.
type AlbumDetail struct {
	Album     *saavn.Album
	ChildPage int
}

// PageSongs returns the tracks on the current child page.
func (d *AlbumDetail) PageSongs() []saavn.Song {
	return pageSlice(d.Album.Songs, d.ChildPage)
}

// PlaylistDetail is a playlist with the child page to display.
type PlaylistDetail struct {
	Playlist  *saavn.Playlist
	ChildPage int
}

// PageSongs returns the tracks on the current child page.
func (d *PlaylistDetail) PageSongs() []saavn.Song {
	return pageSlice(d.Playlist.Songs, d.ChildPage)
}

// pageSlice slices one page out of songs; out-of-range pages yield an
// empty slice rather than an out-of-range read.
func pageSlice(songs []saavn.Song, page int) []saavn.Song {
	start := page * PageSize
	if start >= len(songs) || start < 0 {
		return nil
	}
	end := start + PageSize
	if end > len(songs) {
		end = len(songs)
	}
	return songs[start:end]
}

// SettingsView carries the session's current quality preference.
type SettingsView struct {
	Current session.Tier
}

// StatsView carries one session's usage numbers.
type StatsView struct {
	Downloads  int
	Searches   int
	HistoryLen int
	Quality    session.Tier
}

// AdminPanelView carries the global usage totals.
type AdminPanelView struct {
	Users     int
	Downloads int
	Searches  int
}

// AdminStatsView extends the panel with the top downloaders.
type AdminStatsView struct {
	AdminPanelView
	Top []session.UserCount
}

// BroadcastConfirmView asks the admin to confirm a pending broadcast.
type BroadcastConfirmView struct {
	Text       string
	Recipients int
}

// View is the engine's output: a description of what to show next,
// independent of the transport's markup.
type View struct {
	Kind ViewKind

	Admin bool // main menu: whether to surface the admin entry

	Prompt   saavn.Kind // ViewSearchPrompt
	List     *ListView
	Song     *saavn.Song
	AlbumD   *AlbumDetail
	Playlist *PlaylistDetail
	ArtistID string // ViewArtistMenu

	Settings  *SettingsView
	Stats     *StatsView
	History   []session.HistoryEntry
	Panel     *AdminPanelView
	AdminS    *AdminStatsView
	Broadcast *BroadcastConfirmView

	// ViewDownloadOne / ViewDownloadAll / ViewBroadcastRun handoff.
	ItemID   string
	ItemKind saavn.Kind
	Text     string

	Notice string // transient acknowledgement shown alongside the view
	Err    string // ViewError message
}

func errorView(msg string) *View {
	return &View{Kind: ViewError, Err: msg}
}
