package telegram

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	tele "gopkg.in/telebot.v3"

	"github.com/groovia/groovia/internal/nav"
	"github.com/groovia/groovia/internal/session"
	"github.com/groovia/groovia/internal/token"
	"github.com/groovia/groovia/pkg/saavn"
)

const (
	emojiSong     = "🎵"
	emojiArtist   = "👤"
	emojiAlbum    = "💿"
	emojiPlaylist = "📚"
	emojiSearch   = "🔍"
	emojiDownload = "⬇️"
	emojiSimilar  = "🔄"
	emojiSettings = "⚙️"
	emojiStats    = "📊"
	emojiHistory  = "📜"
	emojiLoading  = "⏳"
	emojiMusic    = "🎶"
	emojiFire     = "🔥"
)

// truncate shortens a label to max display cells, rune-aware.
func truncate(s string, max int) string {
	return runewidth.Truncate(s, max, "...")
}

// formatDuration renders seconds as M:SS.
func formatDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func btn(text string, a token.Action) tele.InlineButton {
	return tele.InlineButton{Text: text, Data: token.Encode(a)}
}

func menuBtn(text string, menu token.MenuName) tele.InlineButton {
	return btn(text, token.Action{Op: token.OpMenu, Menu: menu})
}

func mainMenuRow() []tele.InlineButton {
	return []tele.InlineButton{menuBtn("🔙 Main Menu", token.MenuMain)}
}

// backOnlyMarkup is the keyboard carrying just a main-menu button.
func backOnlyMarkup() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{mainMenuRow()}}
}

func mainMenuMarkup(admin bool) *tele.ReplyMarkup {
	rows := [][]tele.InlineButton{
		{
			btn(emojiSearch+" Search Songs", token.Action{Op: token.OpPrompt, Kind: saavn.KindSong}),
			btn(emojiAlbum+" Albums", token.Action{Op: token.OpPrompt, Kind: saavn.KindAlbum}),
		},
		{
			btn(emojiPlaylist+" Playlists", token.Action{Op: token.OpPrompt, Kind: saavn.KindPlaylist}),
			btn(emojiArtist+" Artists", token.Action{Op: token.OpPrompt, Kind: saavn.KindArtist}),
		},
		{
			menuBtn(emojiSettings+" Settings", token.MenuSettings),
			menuBtn(emojiHistory+" History", token.MenuHistory),
		},
		{
			menuBtn(emojiStats+" My Stats", token.MenuStats),
			menuBtn("ℹ️ Help", token.MenuHelp),
		},
	}
	if admin {
		rows = append(rows, []tele.InlineButton{
			btn("👑 Admin Panel", token.Action{Op: token.OpAdmin, Admin: token.AdminPanel}),
		})
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

// navRow builds the Prev / page indicator / Next row for a list view.
// Buttons outside the valid page range are simply omitted.
func navRow(page, totalPages int, prev, next token.Action) []tele.InlineButton {
	var row []tele.InlineButton
	if page > 0 {
		row = append(row, btn("◀️ Prev", prev))
	}
	row = append(row, btn(fmt.Sprintf("📄 %d/%d", page+1, totalPages), token.Action{Op: token.OpNoop}))
	if page < totalPages-1 {
		row = append(row, btn("Next ▶️", next))
	}
	return row
}

// listMarkup renders a list view: one button per item, a pagination
// row when the list spans pages, and a main-menu row.
func listMarkup(list *nav.ListView) *tele.ReplyMarkup {
	var rows [][]tele.InlineButton

	for _, item := range list.Items {
		var label string
		switch list.Kind {
		case saavn.KindSong:
			label = fmt.Sprintf("%s %s • %s • %s",
				emojiSong, truncate(item.Name, 35), truncate(item.Artist, 20), formatDuration(item.Duration))
		case saavn.KindAlbum:
			label = fmt.Sprintf("%s %s • %s • %d songs",
				emojiAlbum, truncate(item.Name, 35), truncate(item.Artist, 20), item.SongCount)
		case saavn.KindPlaylist:
			label = fmt.Sprintf("%s %s • %d songs", emojiPlaylist, truncate(item.Name, 35), item.SongCount)
		case saavn.KindArtist:
			label = fmt.Sprintf("%s %s", emojiArtist, truncate(item.Name, 40))
		}
		rows = append(rows, []tele.InlineButton{
			btn(label, token.Action{Op: token.OpOpen, Kind: list.Kind, ID: item.ID}),
		})
	}

	if totalPages := list.TotalPages(); totalPages > 1 && list.Source != nav.SourceSimilar {
		prev, next := pageActions(list)
		rows = append(rows, navRow(list.Page, totalPages, prev, next))
	}

	rows = append(rows, mainMenuRow())
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

// pageActions builds the prev/next actions for a list view depending
// on how it was produced.
func pageActions(list *nav.ListView) (prev, next token.Action) {
	if list.Source == nav.SourceArtist {
		base := token.Action{Op: token.OpArtist, Child: token.ChildKind(list.Child), ID: list.Scope}
		prev, next = base, base
		prev.Page = list.Page - 1
		next.Page = list.Page + 1
		return prev, next
	}
	base := token.Action{Op: token.OpList, Kind: list.Kind, Scope: list.Scope}
	prev, next = base, base
	prev.Page = list.Page - 1
	next.Page = list.Page + 1
	return prev, next
}

func songMarkup(songID string) *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{btn(emojiDownload+" Download", token.Action{Op: token.OpDownload, ID: songID})},
		{btn(emojiSimilar+" Similar Songs", token.Action{Op: token.OpSimilar, ID: songID})},
		{menuBtn("🔙 Back to Search", token.MenuBack)},
	}}
}

// detailMarkup renders the controls under an album/playlist view:
// numbered track buttons in rows of five, a Download All button, a
// child pagination row when needed, and Back.
func detailMarkup(kind saavn.Kind, id string, page, songCount int, pageSongs []saavn.Song) *tele.ReplyMarkup {
	var rows [][]tele.InlineButton

	var row []tele.InlineButton
	for i, song := range pageSongs {
		num := page*nav.PageSize + i + 1
		row = append(row, btn(fmt.Sprintf("%d", num), token.Action{Op: token.OpOpen, Kind: saavn.KindSong, ID: song.ID}))
		if len(row) == 5 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []tele.InlineButton{
		btn(emojiDownload+" Download All", token.Action{Op: token.OpDownloadAll, Kind: kind, ID: id}),
	})

	if totalPages := nav.TotalPages(songCount); totalPages > 1 {
		base := token.Action{Op: token.OpDetail, Kind: kind, ID: id}
		prev, next := base, base
		prev.Page = page - 1
		next.Page = page + 1
		rows = append(rows, navRow(page, totalPages, prev, next))
	}

	rows = append(rows, []tele.InlineButton{menuBtn("🔙 Back", token.MenuBack)})
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

func artistMarkup(artistID string) *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{btn(emojiSong+" View Songs", token.Action{Op: token.OpArtist, Child: token.ChildSongs, ID: artistID})},
		{btn(emojiAlbum+" View Albums", token.Action{Op: token.OpArtist, Child: token.ChildAlbums, ID: artistID})},
		{menuBtn("🔙 Back", token.MenuBack)},
	}}
}

func settingsMarkup(current session.Tier) *tele.ReplyMarkup {
	row := func(tier session.Tier, desc string) []tele.InlineButton {
		label := desc
		if tier == current {
			label = "✅ " + label
		}
		return []tele.InlineButton{btn(label, token.Action{Op: token.OpQuality, Tier: string(tier)})}
	}
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		row(session.TierHigh, emojiFire+" High Quality (Slow)"),
		row(session.TierMedium, "⚡ Balanced (Medium)"),
		row(session.TierLow, "⚡️ Fast (Low)"),
		mainMenuRow(),
	}}
}

func historyMarkup(hasEntries bool) *tele.ReplyMarkup {
	if !hasEntries {
		return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
			{btn(emojiSearch+" Search Songs", token.Action{Op: token.OpPrompt, Kind: saavn.KindSong})},
		}}
	}
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{menuBtn("🗑 Clear History", token.MenuClearHistory)},
		mainMenuRow(),
	}}
}

func adminPanelMarkup() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{btn("📢 Broadcast Message", token.Action{Op: token.OpAdmin, Admin: token.AdminBroadcast})},
		{btn(emojiStats+" Detailed Stats", token.Action{Op: token.OpAdmin, Admin: token.AdminStats})},
		mainMenuRow(),
	}}
}

func adminBackMarkup() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{btn("🔙 Admin Panel", token.Action{Op: token.OpAdmin, Admin: token.AdminPanel})},
	}}
}

func broadcastConfirmMarkup() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{
			btn("✅ Confirm Broadcast", token.Action{Op: token.OpAdmin, Admin: token.AdminConfirm}),
			btn("❌ Cancel", token.Action{Op: token.OpAdmin, Admin: token.AdminPanel}),
		},
	}}
}
