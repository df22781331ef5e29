// Package nav is the navigation engine: it maps inbound turns (free
// text or decoded action tokens) plus session state onto view
// descriptors, consulting the catalog where a transition needs remote
// data. Remote failures degrade to error views; nothing here ever
// faults a turn.
package nav

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/groovia/groovia/internal/session"
	"github.com/groovia/groovia/internal/token"
	"github.com/groovia/groovia/pkg/saavn"
)

// maxQueryWords bounds free-text queries; anything longer is assumed
// to be a lyrics snippet, which is not supported.
const maxQueryWords = 6

// Catalog is the remote catalog surface the engine consumes.
type Catalog interface {
	SearchSongs(ctx context.Context, query string, page, limit int) (*saavn.SongPage, error)
	SearchAlbums(ctx context.Context, query string, page, limit int) (*saavn.AlbumPage, error)
	SearchPlaylists(ctx context.Context, query string, page, limit int) (*saavn.PlaylistPage, error)
	SearchArtists(ctx context.Context, query string, page, limit int) (*saavn.ArtistPage, error)
	Song(ctx context.Context, id string) (*saavn.Song, error)
	Album(ctx context.Context, id string) (*saavn.Album, error)
	Playlist(ctx context.Context, id string, page, limit int) (*saavn.Playlist, error)
	ArtistSongs(ctx context.Context, artistID string, page, limit int) (*saavn.SongPage, error)
	ArtistAlbums(ctx context.Context, artistID string, page, limit int) (*saavn.AlbumPage, error)
	Suggestions(ctx context.Context, songID string, limit int) ([]saavn.Song, error)
}

// playlistFetchLimit is the child page size used when opening a
// playlist. Fetching generously once means detail pagination is pure
// slicing over the cached payload, the same convention albums get for
// free from their full-payload responses.
const playlistFetchLimit = 100

// Engine drives the navigation state machine.
type Engine struct {
	catalog  Catalog
	sessions *session.Store
	admins   map[int64]struct{}
	logger   zerolog.Logger
}

// New creates an engine. adminIDs is the static privileged allow-list.
func New(catalog Catalog, sessions *session.Store, adminIDs []int64, logger zerolog.Logger) *Engine {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Engine{
		catalog:  catalog,
		sessions: sessions,
		admins:   admins,
		logger:   logger.With().Str("component", "nav").Logger(),
	}
}

// IsAdmin reports allow-list membership for a session.
func (e *Engine) IsAdmin(id int64) bool {
	_, ok := e.admins[id]
	return ok
}

// MainMenu returns the main menu view for a session.
func (e *Engine) MainMenu(id int64) *View {
	return &View{Kind: ViewMainMenu, Admin: e.IsAdmin(id)}
}

// StatsView builds the session's personal statistics view.
func (e *Engine) StatsView(id int64) *View {
	stats := e.sessions.UserStats(id)
	snap := e.sessions.Get(id)
	return &View{Kind: ViewStats, Stats: &StatsView{
		Downloads:  stats.Downloads,
		Searches:   stats.Searches,
		HistoryLen: len(snap.History),
		Quality:    snap.Quality,
	}}
}

// HistoryView builds the session's download history view.
func (e *Engine) HistoryView(id int64) *View {
	return &View{Kind: ViewHistory, History: e.sessions.History(id)}
}

// SettingsView builds the quality settings view.
func (e *Engine) SettingsView(id int64) *View {
	return &View{Kind: ViewSettings, Settings: &SettingsView{Current: e.sessions.Quality(id)}}
}

// HandleText handles a free-text turn: catalog URLs open details
// directly, short text runs a search, long text is rejected as an
// unsupported lyrics lookup.
func (e *Engine) HandleText(ctx context.Context, id int64, text string) *View {
	text = strings.TrimSpace(text)
	if text == "" {
		return e.MainMenu(id)
	}

	if e.sessions.Mode(id) == session.ModeAwaitingBroadcast && e.IsAdmin(id) {
		e.sessions.SetPendingBroadcast(id, text)
		return &View{Kind: ViewBroadcastConfirm, Broadcast: &BroadcastConfirmView{
			Text:       text,
			Recipients: len(e.sessions.Sessions()),
		}}
	}

	if saavn.IsCatalogURL(text) {
		return e.openURL(ctx, id, text)
	}

	if len(strings.Fields(text)) > maxQueryWords {
		return errorView("Lyrics search is not yet implemented. Please search for songs by their names!")
	}

	kind := saavn.KindSong
	if armed, ok := e.sessions.TakeSearchPrompt(id); ok {
		kind = armed
	}
	return e.search(ctx, id, kind, text, 0)
}

// HandleAction handles a decoded token turn.
func (e *Engine) HandleAction(ctx context.Context, id int64, a token.Action) *View {
	switch a.Op {
	case token.OpNoop:
		return &View{Kind: ViewNone}

	case token.OpMenu:
		return e.handleMenu(ctx, id, a.Menu)

	case token.OpPrompt:
		e.sessions.SetSearchPrompt(id, a.Kind)
		return &View{Kind: ViewSearchPrompt, Prompt: a.Kind}

	case token.OpOpen:
		return e.openItem(ctx, id, a.Kind, a.ID)

	case token.OpList:
		return e.search(ctx, id, a.Kind, a.Scope, a.Page)

	case token.OpDetail:
		return e.paginateDetail(ctx, id, a.Kind, a.ID, a.Page)

	case token.OpArtist:
		return e.artistChildren(ctx, id, a.Child, a.ID, a.Page)

	case token.OpSimilar:
		return e.similar(ctx, id, a.ID)

	case token.OpQuality:
		e.sessions.SetQuality(id, session.Tier(a.Tier))
		view := e.SettingsView(id)
		view.Notice = fmt.Sprintf("Quality set to %s", session.Tier(a.Tier).Bitrate())
		return view

	case token.OpDownload:
		return &View{Kind: ViewDownloadOne, ItemID: a.ID}

	case token.OpDownloadAll:
		return &View{Kind: ViewDownloadAll, ItemKind: a.Kind, ItemID: a.ID}

	case token.OpAdmin:
		return e.handleAdmin(id, a.Admin)
	}

	return errorView("Unknown action.")
}

func (e *Engine) handleMenu(ctx context.Context, id int64, menu token.MenuName) *View {
	switch menu {
	case token.MenuMain:
		return e.MainMenu(id)
	case token.MenuHelp:
		return &View{Kind: ViewHelp}
	case token.MenuSettings:
		return e.SettingsView(id)
	case token.MenuStats:
		return e.StatsView(id)
	case token.MenuHistory:
		return e.HistoryView(id)
	case token.MenuClearHistory:
		e.sessions.ClearHistory(id)
		view := e.HistoryView(id)
		view.Notice = "History cleared!"
		return view
	case token.MenuBack:
		if last, ok := e.sessions.LastSearch(id); ok {
			return e.search(ctx, id, last.Kind, last.Query, last.Page)
		}
		return e.MainMenu(id)
	}
	return e.MainMenu(id)
}

// handleAdmin gates every privileged transition on the allow-list.
// Unauthorized sessions get a visible rejection and zero mutation.
func (e *Engine) handleAdmin(id int64, op token.AdminOp) *View {
	if !e.IsAdmin(id) {
		e.logger.Warn().Int64("session", id).Str("op", string(op)).Msg("Unauthorized admin action")
		return &View{Kind: ViewUnauthorized}
	}

	switch op {
	case token.AdminPanel:
		users, downloads, searches := e.sessions.Totals()
		return &View{Kind: ViewAdminPanel, Panel: &AdminPanelView{
			Users: users, Downloads: downloads, Searches: searches,
		}}

	case token.AdminStats:
		users, downloads, searches := e.sessions.Totals()
		return &View{Kind: ViewAdminStats, AdminS: &AdminStatsView{
			AdminPanelView: AdminPanelView{Users: users, Downloads: downloads, Searches: searches},
			Top:            e.sessions.TopDownloaders(5),
		}}

	case token.AdminBroadcast:
		e.sessions.SetMode(id, session.ModeAwaitingBroadcast)
		return &View{Kind: ViewBroadcastPrompt}

	case token.AdminConfirm:
		text, ok := e.sessions.TakePendingBroadcast(id)
		if !ok {
			return errorView("No broadcast message found.")
		}
		return &View{Kind: ViewBroadcastRun, Text: text}
	}

	return &View{Kind: ViewUnauthorized}
}

// openURL resolves a pasted catalog link straight to a detail view,
// bypassing search.
func (e *Engine) openURL(ctx context.Context, id int64, raw string) *View {
	itemID, kind, ok := saavn.ResolveURL(raw)
	if !ok {
		return errorView("Invalid JioSaavn URL. Please send a valid song, album, playlist, or artist URL.")
	}
	return e.openItem(ctx, id, kind, itemID)
}

func (e *Engine) openItem(ctx context.Context, id int64, kind saavn.Kind, itemID string) *View {
	switch kind {
	case saavn.KindSong:
		song, err := e.catalog.Song(ctx, itemID)
		if err != nil {
			return e.fetchError(err, "song")
		}
		return &View{Kind: ViewSongDetail, Song: song}

	case saavn.KindAlbum:
		album, err := e.catalog.Album(ctx, itemID)
		if err != nil {
			return e.fetchError(err, "album")
		}
		e.sessions.CacheAlbum(id, album)
		return &View{Kind: ViewAlbumDetail, AlbumD: &AlbumDetail{Album: album}}

	case saavn.KindPlaylist:
		playlist, err := e.catalog.Playlist(ctx, itemID, 0, playlistFetchLimit)
		if err != nil {
			return e.fetchError(err, "playlist")
		}
		e.sessions.CachePlaylist(id, playlist)
		return &View{Kind: ViewPlaylistDetail, Playlist: &PlaylistDetail{Playlist: playlist}}

	case saavn.KindArtist:
		return &View{Kind: ViewArtistMenu, ArtistID: itemID}
	}

	return errorView("Unknown item kind.")
}

// paginateDetail re-renders a cached album/playlist at a different
// child page. On a cache miss (for example after a restart) the
// payload is refetched once and cached again.
func (e *Engine) paginateDetail(ctx context.Context, id int64, kind saavn.Kind, itemID string, page int) *View {
	switch kind {
	case saavn.KindAlbum:
		album, ok := e.sessions.CachedAlbum(id, itemID)
		if !ok {
			var err error
			album, err = e.catalog.Album(ctx, itemID)
			if err != nil {
				return e.fetchError(err, "album")
			}
			e.sessions.CacheAlbum(id, album)
		}
		return &View{Kind: ViewAlbumDetail, AlbumD: &AlbumDetail{Album: album, ChildPage: page}}

	case saavn.KindPlaylist:
		playlist, ok := e.sessions.CachedPlaylist(id, itemID)
		if !ok {
			var err error
			playlist, err = e.catalog.Playlist(ctx, itemID, 0, playlistFetchLimit)
			if err != nil {
				return e.fetchError(err, "playlist")
			}
			e.sessions.CachePlaylist(id, playlist)
		}
		return &View{Kind: ViewPlaylistDetail, Playlist: &PlaylistDetail{Playlist: playlist, ChildPage: page}}
	}

	return errorView("Unknown item kind.")
}

// search runs (or re-runs) a search and renders the requested page.
// Out-of-range pages yield an empty list view rather than failing.
func (e *Engine) search(ctx context.Context, id int64, kind saavn.Kind, query string, page int) *View {
	query = token.Sanitize(query)
	e.sessions.RecordSearch(id, query, kind, page)

	list := &ListView{Kind: kind, Page: page, Source: SourceSearch, Scope: query}

	switch kind {
	case saavn.KindSong:
		result, err := e.catalog.SearchSongs(ctx, query, page, PageSize)
		if err != nil {
			return e.fetchError(err, "song")
		}
		list.Total = result.Total
		for i := range result.Results {
			list.Items = append(list.Items, songSummary(&result.Results[i]))
		}

	case saavn.KindAlbum:
		result, err := e.catalog.SearchAlbums(ctx, query, page, PageSize)
		if err != nil {
			return e.fetchError(err, "album")
		}
		list.Total = result.Total
		for i := range result.Results {
			list.Items = append(list.Items, albumSummary(&result.Results[i]))
		}

	case saavn.KindPlaylist:
		result, err := e.catalog.SearchPlaylists(ctx, query, page, PageSize)
		if err != nil {
			return e.fetchError(err, "playlist")
		}
		list.Total = result.Total
		for i := range result.Results {
			p := &result.Results[i]
			list.Items = append(list.Items, Summary{ID: p.ID, Name: p.Name, SongCount: p.SongCount})
		}

	case saavn.KindArtist:
		result, err := e.catalog.SearchArtists(ctx, query, page, PageSize)
		if err != nil {
			return e.fetchError(err, "artist")
		}
		list.Total = result.Total
		for i := range result.Results {
			a := &result.Results[i]
			list.Items = append(list.Items, Summary{ID: a.ID, Name: a.Name})
		}

	default:
		return errorView("Unknown search kind.")
	}

	if list.Total == 0 && page == 0 {
		return errorView(fmt.Sprintf("No %ss found for '%s'. Try different keywords or check spelling.", kind, query))
	}
	return &View{Kind: ViewList, List: list}
}

// artistChildren renders one page of an artist's songs or albums.
func (e *Engine) artistChildren(ctx context.Context, id int64, child token.ChildKind, artistID string, page int) *View {
	list := &ListView{Page: page, Source: SourceArtist, Scope: artistID, Child: string(child)}

	switch child {
	case token.ChildSongs:
		result, err := e.catalog.ArtistSongs(ctx, artistID, page, PageSize)
		if err != nil {
			return e.fetchError(err, "song")
		}
		list.Kind = saavn.KindSong
		list.Total = result.Total
		for i := range result.Results {
			list.Items = append(list.Items, songSummary(&result.Results[i]))
		}

	case token.ChildAlbums:
		result, err := e.catalog.ArtistAlbums(ctx, artistID, page, PageSize)
		if err != nil {
			return e.fetchError(err, "album")
		}
		list.Kind = saavn.KindAlbum
		list.Total = result.Total
		for i := range result.Results {
			list.Items = append(list.Items, albumSummary(&result.Results[i]))
		}
	}

	if list.Total == 0 && page == 0 {
		return errorView("Nothing found for this artist.")
	}
	return &View{Kind: ViewList, List: list}
}

// similar renders suggestions for a song as a song list fixed at page
// zero; suggestions are not paginable upstream.
func (e *Engine) similar(ctx context.Context, id int64, songID string) *View {
	songs, err := e.catalog.Suggestions(ctx, songID, PageSize)
	if err != nil {
		return e.fetchError(err, "song")
	}
	if len(songs) == 0 {
		return errorView("No similar songs found.")
	}

	list := &ListView{Kind: saavn.KindSong, Total: len(songs), Source: SourceSimilar}
	for i := range songs {
		list.Items = append(list.Items, songSummary(&songs[i]))
	}
	return &View{Kind: ViewList, List: list}
}

// fetchError maps a catalog failure to a user-visible error view.
func (e *Engine) fetchError(err error, what string) *View {
	e.logger.Warn().Err(err).Str("what", what).Msg("Catalog fetch failed")
	return errorView(fmt.Sprintf("Failed to fetch %s details. Please try again.", what))
}

func songSummary(s *saavn.Song) Summary {
	return Summary{ID: s.ID, Name: s.Name, Artist: s.PrimaryArtist(), Duration: s.Duration}
}

func albumSummary(a *saavn.Album) Summary {
	return Summary{ID: a.ID, Name: a.Name, Artist: a.PrimaryArtist(), SongCount: a.SongCount}
}
