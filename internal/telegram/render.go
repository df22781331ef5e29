package telegram

import (
	"fmt"
	"html"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/groovia/groovia/internal/nav"
	"github.com/groovia/groovia/internal/session"
	"github.com/groovia/groovia/pkg/saavn"
)

// esc escapes catalog-supplied text for HTML parse mode.
func esc(s string) string {
	return html.EscapeString(s)
}

// title upper-cases the first rune of s.
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// rendered is a view translated into transport terms. PhotoURL, when
// set, means the message should be delivered as a photo caption.
type rendered struct {
	Text     string
	Markup   *tele.ReplyMarkup
	PhotoURL string
}

// render translates a view descriptor into message text and markup.
func render(v *nav.View) rendered {
	switch v.Kind {
	case nav.ViewMainMenu:
		return rendered{Text: mainMenuText(), Markup: mainMenuMarkup(v.Admin)}

	case nav.ViewHelp:
		return rendered{Text: helpText(), Markup: backOnlyMarkup()}

	case nav.ViewSettings:
		return rendered{Text: settingsText(v.Settings.Current), Markup: settingsMarkup(v.Settings.Current)}

	case nav.ViewStats:
		return rendered{Text: statsText(v.Stats), Markup: backOnlyMarkup()}

	case nav.ViewHistory:
		return rendered{Text: historyText(v.History), Markup: historyMarkup(len(v.History) > 0)}

	case nav.ViewSearchPrompt:
		return rendered{Text: searchPromptText(v.Prompt), Markup: backOnlyMarkup()}

	case nav.ViewList:
		return rendered{Text: listText(v.List), Markup: listMarkup(v.List)}

	case nav.ViewSongDetail:
		return rendered{
			Text:     songText(v.Song),
			Markup:   songMarkup(v.Song.ID),
			PhotoURL: saavn.BestImage(v.Song.Image),
		}

	case nav.ViewAlbumDetail:
		d := v.AlbumD
		return rendered{
			Text:     albumText(d),
			Markup:   detailMarkup(saavn.KindAlbum, d.Album.ID, d.ChildPage, d.Album.SongCount, d.PageSongs()),
			PhotoURL: saavn.BestImage(d.Album.Image),
		}

	case nav.ViewPlaylistDetail:
		d := v.Playlist
		return rendered{
			Text:     playlistText(d),
			Markup:   detailMarkup(saavn.KindPlaylist, d.Playlist.ID, d.ChildPage, d.Playlist.SongCount, d.PageSongs()),
			PhotoURL: saavn.BestImage(d.Playlist.Image),
		}

	case nav.ViewArtistMenu:
		return rendered{
			Text:   emojiArtist + " <b>Artist Profile</b>\n\nChoose an option:",
			Markup: artistMarkup(v.ArtistID),
		}

	case nav.ViewAdminPanel:
		return rendered{Text: adminPanelText(v.Panel), Markup: adminPanelMarkup()}

	case nav.ViewAdminStats:
		return rendered{Text: adminStatsText(v.AdminS), Markup: adminBackMarkup()}

	case nav.ViewBroadcastPrompt:
		return rendered{
			Text:   "📢 <b>Broadcast</b>\n\nSend the message you want to broadcast to all users:",
			Markup: adminBackMarkup(),
		}

	case nav.ViewBroadcastConfirm:
		b := v.Broadcast
		return rendered{
			Text: fmt.Sprintf("📢 <b>Confirm Broadcast</b>\n\n<b>Message:</b>\n%s\n\n<b>Users:</b> %d\n\nConfirm?",
				esc(b.Text), b.Recipients),
			Markup: broadcastConfirmMarkup(),
		}

	case nav.ViewError:
		return rendered{Text: "❌ " + v.Err, Markup: backOnlyMarkup()}
	}

	return rendered{Text: mainMenuText(), Markup: mainMenuMarkup(false)}
}

func mainMenuText() string {
	return fmt.Sprintf(`%s <b>Welcome to Groovia Music Bot!</b> %s

I'm your music companion powered by JioSaavn. I can help you:

%s <b>Search &amp; Download</b>
• Songs in high quality
• Albums &amp; Playlists
• Artist collections

%s <b>Smart Features</b>
• Direct URL support
• Similar song recommendations
• Download history
• Quality settings

%s <b>Quick Start</b>
Just type any song name to search!

Or use the menu below to explore:`,
		emojiSong, emojiSong, emojiSearch, emojiMusic, emojiFire)
}

func helpText() string {
	return `📖 <b>How to Use Groovia</b>

<b>` + emojiSearch + ` Searching:</b>
• Type any song name directly in chat
• Or use menu buttons for specific searches
• Browse through paginated results

<b>📥 Downloading:</b>
• Click on any song from results
• Tap "Download" to receive it with album art

<b>🔗 Direct URLs:</b>
Paste any JioSaavn link for songs, albums, playlists, or artists.

<b>` + emojiSettings + ` Settings:</b>
• High: 320kbps (slower)
• Medium: 160kbps (balanced)
• Low: 96kbps (faster)

<b>💡 Tips:</b>
• Use specific song names for better results
• Check similar songs for discoveries
• Download all from albums/playlists`
}

func settingsText(current session.Tier) string {
	return fmt.Sprintf(`%s <b>Settings</b>

<b>Current Download Quality:</b> %s

<b>Choose your preferred quality:</b>

%s <b>High (320kbps)</b> — best quality, slower
⚡ <b>Medium (160kbps)</b> — balanced
⚡️ <b>Low (96kbps)</b> — fastest, smaller files

<i>Higher quality = Better sound but slower downloads</i>`,
		emojiSettings, current.Bitrate(), emojiFire)
}

func statsText(s *nav.StatsView) string {
	return fmt.Sprintf(`%s <b>Your Statistics</b>

%s <b>Total Downloads:</b> %d
%s <b>Total Searches:</b> %d
%s <b>Songs in History:</b> %d

%s <b>Current Quality:</b> %s

Keep exploring music with Groovia! %s`,
		emojiStats, emojiDownload, s.Downloads, emojiSearch, s.Searches,
		emojiMusic, s.HistoryLen, emojiSettings, s.Quality.Bitrate(), emojiSong)
}

func historyText(entries []session.HistoryEntry) string {
	if len(entries) == 0 {
		return emojiHistory + " <b>Download History</b>\n\nNo downloads yet! Start searching for music to build your history."
	}

	var sb strings.Builder
	sb.WriteString(emojiHistory + " <b>Recent Downloads</b>\n\n")

	// Newest first, capped at ten rows.
	shown := 0
	for i := len(entries) - 1; i >= 0 && shown < 10; i-- {
		shown++
		fmt.Fprintf(&sb, "%d. %s - %s\n", shown, esc(entries[i].Name), esc(entries[i].Artist))
	}
	return sb.String()
}

func searchPromptText(kind saavn.Kind) string {
	var emoji, noun string
	switch kind {
	case saavn.KindAlbum:
		emoji, noun = emojiAlbum, "album"
	case saavn.KindPlaylist:
		emoji, noun = emojiPlaylist, "playlist"
	case saavn.KindArtist:
		emoji, noun = emojiArtist, "artist"
	default:
		emoji, noun = emojiSearch, "song"
	}
	return fmt.Sprintf("%s <b>Search %ss</b>\n\nType the name of the %s you want to search:",
		emoji, title(noun), noun)
}

func listText(list *nav.ListView) string {
	switch list.Source {
	case nav.SourceSimilar:
		return emojiSimilar + " <b>Similar Songs</b>\n\nSelect a song:"
	case nav.SourceArtist:
		if list.Kind == saavn.KindAlbum {
			return emojiArtist + " <b>Artist Albums</b>\n\nSelect an album:"
		}
		return emojiArtist + " <b>Artist Songs</b>\n\nSelect a song:"
	}
	return fmt.Sprintf("%s <b>Search Results for:</b> %s\n%s Found %d %s(s)\n\nSelect an item from the list below:",
		emojiSearch, esc(list.Scope), emojiStats, list.Total, list.Kind)
}

func songText(s *saavn.Song) string {
	return fmt.Sprintf(`%s <b>%s</b>

%s <b>Artist:</b> %s
%s <b>Album:</b> %s
⏱ <b>Duration:</b> %s
🌐 <b>Language:</b> %s
📅 <b>Year:</b> %s
%s <b>Plays:</b> %d

Tap below to download or find similar songs!`,
		emojiSong, esc(s.Name), emojiArtist, esc(s.ArtistNames()), emojiAlbum, esc(s.Album.Name),
		formatDuration(s.Duration), title(s.Language), s.Year, emojiFire, s.PlayCount)
}

func albumText(d *nav.AlbumDetail) string {
	a := d.Album
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <b>%s</b>\n\n%s <b>Artist:</b> %s\n📅 <b>Year:</b> %s\n%s <b>Total Songs:</b> %d\n\n<b>📝 Track List (Page %d):</b>",
		emojiAlbum, esc(a.Name), emojiArtist, esc(a.PrimaryArtist()), a.Year, emojiMusic, a.SongCount, d.ChildPage+1)

	for i, song := range d.PageSongs() {
		num := d.ChildPage*nav.PageSize + i + 1
		fmt.Fprintf(&sb, "\n%d. %s • %s", num, esc(truncate(song.Name, 30)), formatDuration(song.Duration))
	}

	sb.WriteString("\n\n💡 Tap a song number below or download all!")
	return sb.String()
}

func playlistText(d *nav.PlaylistDetail) string {
	p := d.Playlist
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <b>%s</b>\n\n%s <b>Total Songs:</b> %d\n\n<b>📝 Track List (Page %d):</b>",
		emojiPlaylist, esc(p.Name), emojiMusic, p.SongCount, d.ChildPage+1)

	for i, song := range d.PageSongs() {
		num := d.ChildPage*nav.PageSize + i + 1
		fmt.Fprintf(&sb, "\n%d. %s • %s • %s",
			num, esc(truncate(song.Name, 30)), esc(truncate(song.PrimaryArtist(), 20)), formatDuration(song.Duration))
	}

	sb.WriteString("\n\n💡 Tap a song number below or download all!")
	return sb.String()
}

func adminPanelText(p *nav.AdminPanelView) string {
	return fmt.Sprintf(`👑 <b>Admin Panel</b>

%s <b>Bot Statistics:</b>
👥 Total Users: %d
%s Total Downloads: %d
%s Total Searches: %d

<b>Admin Actions:</b>`,
		emojiStats, p.Users, emojiDownload, p.Downloads, emojiSearch, p.Searches)
}

func adminStatsText(s *nav.AdminStatsView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `%s <b>Detailed Bot Statistics</b>

👥 <b>Total Users:</b> %d
%s <b>Total Downloads:</b> %d
%s <b>Total Searches:</b> %d

<b>🏆 Top Downloaders:</b>`,
		emojiStats, s.Users, emojiDownload, s.Downloads, emojiSearch, s.Searches)

	for i, top := range s.Top {
		fmt.Fprintf(&sb, "\n%d. User %d: %d downloads", i+1, top.ID, top.Downloads)
	}
	return sb.String()
}
