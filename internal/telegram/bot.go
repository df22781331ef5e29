// Package telegram binds the navigation engine and retrieval
// pipeline to the Telegram Bot API. It decodes callback tokens,
// brackets remote fetches with a transient loading indicator, renders
// view descriptors into messages and inline keyboards, and implements
// the pipeline's presentation boundary.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"

	"github.com/groovia/groovia/internal/download"
	"github.com/groovia/groovia/internal/nav"
	"github.com/groovia/groovia/internal/token"
	"github.com/groovia/groovia/pkg/saavn"
)

// Bot is the Telegram transport binding.
type Bot struct {
	tb       *tele.Bot
	engine   *nav.Engine
	pipeline *download.Pipeline
	logger   zerolog.Logger
}

// New connects to the Telegram Bot API. Engine and pipeline are wired
// afterwards via Wire, because the pipeline needs the bot as its
// sender.
func New(botToken string, logger zerolog.Logger) (*Bot, error) {
	log := logger.With().Str("component", "telegram").Logger()

	tb, err := tele.NewBot(tele.Settings{
		Token:  botToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Error().Err(err).Msg("Handler error")
		},
	})
	if err != nil {
		return nil, err
	}

	return &Bot{tb: tb, logger: log}, nil
}

// Wire attaches the engine and pipeline and registers all handlers.
func (b *Bot) Wire(engine *nav.Engine, pipeline *download.Pipeline) {
	b.engine = engine
	b.pipeline = pipeline

	b.tb.Handle("/start", func(c tele.Context) error {
		return b.present(c, b.engine.MainMenu(c.Sender().ID), false)
	})
	b.tb.Handle("/help", func(c tele.Context) error {
		return b.present(c, &nav.View{Kind: nav.ViewHelp}, false)
	})
	b.tb.Handle("/settings", func(c tele.Context) error {
		return b.present(c, b.engine.SettingsView(c.Sender().ID), false)
	})
	b.tb.Handle("/stats", func(c tele.Context) error {
		return b.present(c, b.engine.StatsView(c.Sender().ID), false)
	})
	b.tb.Handle("/history", func(c tele.Context) error {
		return b.present(c, b.engine.HistoryView(c.Sender().ID), false)
	})

	b.tb.Handle(tele.OnText, b.handleText)
	b.tb.Handle(tele.OnCallback, b.handleCallback)
}

// Start begins long polling. It blocks until Stop is called.
func (b *Bot) Start() {
	b.logger.Info().Msg("Bot starting")
	b.tb.Start()
}

// Stop halts the poller.
func (b *Bot) Stop() {
	b.tb.Stop()
}

// handleText handles free-text turns: searches, pasted catalog URLs,
// and pending broadcast text.
func (b *Bot) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	sid := c.Sender().ID

	loadingText := emojiLoading + " Searching..."
	if saavn.IsCatalogURL(text) {
		loadingText = emojiLoading + " Fetching details..."
	}

	// The loading indicator is removed on every path out of the
	// engine, success or failure.
	loading, _ := b.tb.Send(c.Chat(), loadingText)
	defer func() {
		if loading != nil {
			_ = b.tb.Delete(loading)
		}
	}()

	view := b.engine.HandleText(context.Background(), sid, text)
	return b.present(c, view, false)
}

// handleCallback decodes an interaction token and dispatches it. Long
// runs (downloads, broadcasts) are handed off to their own goroutine
// so other sessions' turns are not blocked.
func (b *Bot) handleCallback(c tele.Context) error {
	sid := c.Sender().ID
	data := strings.TrimPrefix(c.Callback().Data, "\f")

	action, err := token.Decode(data)
	if err != nil {
		b.logger.Warn().Err(err).Int64("session", sid).Msg("Malformed callback token")
		return c.Respond(&tele.CallbackResponse{Text: "❌ An error occurred. Please try again.", ShowAlert: true})
	}

	view := b.engine.HandleAction(context.Background(), sid, action)

	switch view.Kind {
	case nav.ViewNone:
		return c.Respond()

	case nav.ViewUnauthorized:
		return c.Respond(&tele.CallbackResponse{Text: "⛔ Unauthorized access!", ShowAlert: true})

	case nav.ViewDownloadOne:
		_ = c.Respond(&tele.CallbackResponse{Text: emojiLoading + " Downloading..."})
		go b.runSingle(c.Chat(), sid, view.ItemID)
		return nil

	case nav.ViewDownloadAll:
		_ = c.Respond(&tele.CallbackResponse{Text: emojiLoading + " Starting batch download..."})
		go b.runBatch(c.Chat(), sid, view.ItemKind, view.ItemID)
		return nil

	case nav.ViewBroadcastRun:
		_ = c.Respond()
		go b.runBroadcast(c.Chat(), view.Text)
		return nil
	}

	if view.Notice != "" {
		_ = c.Respond(&tele.CallbackResponse{Text: "✅ " + view.Notice, ShowAlert: true})
	} else {
		_ = c.Respond()
	}
	return b.present(c, view, true)
}

// present renders a view into the chat, editing the triggering
// message when edit is set. Views carrying artwork are delivered as
// photo captions, which requires replacing rather than editing.
func (b *Bot) present(c tele.Context, view *nav.View, edit bool) error {
	if view == nil || view.Kind == nav.ViewNone {
		return nil
	}

	r := render(view)

	if r.PhotoURL != "" {
		photo := &tele.Photo{File: tele.FromURL(r.PhotoURL), Caption: r.Text}
		if edit {
			_ = c.Delete()
		}
		if err := c.Send(photo, r.Markup, tele.ModeHTML); err == nil {
			return nil
		}
		// Some artwork URLs are rejected by Telegram; fall back to text.
	}

	if edit {
		if err := c.Edit(r.Text, r.Markup, tele.ModeHTML); err == nil {
			return nil
		}
		// Editing fails when the prior message was a photo caption.
		_ = c.Delete()
	}
	return c.Send(r.Text, r.Markup, tele.ModeHTML)
}

// runSingle executes a one-song retrieval with its own loading
// message lifecycle.
func (b *Bot) runSingle(chat *tele.Chat, sid int64, songID string) {
	loading, _ := b.tb.Send(chat, emojiLoading+" Preparing your download...")
	_ = b.tb.Notify(chat, tele.UploadingAudio)

	outcome := b.pipeline.One(context.Background(), sid, songID)

	switch outcome.Status {
	case download.Sent:
		if loading != nil {
			_ = b.tb.Delete(loading)
		}
	case download.SkippedNoURL:
		b.editOrSend(chat, loading, "❌ Download URL not available.")
	default:
		b.editOrSend(chat, loading, "❌ Download failed. Please try again.")
	}
}

// runBatch executes an album/playlist batch retrieval, editing a
// single status message with running progress.
func (b *Bot) runBatch(chat *tele.Chat, sid int64, kind saavn.Kind, id string) {
	status, _ := b.tb.Send(chat, "📥 Starting batch download...")

	summary, err := b.pipeline.All(context.Background(), sid, kind, id, func(p download.Progress) {
		b.editOrSend(chat, status, fmt.Sprintf("📥 Downloading %d songs...\n%s Progress: %d/%d\n%s %s",
			p.Total, emojiLoading, p.Index, p.Total, emojiSong, html.EscapeString(p.Name)))
	})

	switch {
	case err != nil:
		b.editOrSend(chat, status, "❌ Failed to fetch songs.")
	case summary.Total == 0:
		b.editOrSend(chat, status, "❌ No songs found.")
	default:
		b.editOrSend(chat, status, fmt.Sprintf("✅ Download complete!\n📥 Successfully sent %d of %d songs.",
			summary.Sent, summary.Total))
	}
}

// runBroadcast fans a confirmed admin announcement out to every
// known session.
func (b *Bot) runBroadcast(chat *tele.Chat, text string) {
	status, _ := b.tb.Send(chat, "📢 <b>Broadcasting...</b>", tele.ModeHTML)

	announcement := "📢 <b>Announcement</b>\n\n" + html.EscapeString(text)
	summary := b.pipeline.Broadcast(context.Background(), announcement, func(p download.BroadcastProgress) {
		b.editOrSend(chat, status, fmt.Sprintf("📢 <b>Broadcasting...</b>\n\n%s Progress: %d/%d\n✅ Success: %d\n❌ Failed: %d",
			emojiLoading, p.Done, p.Total, p.Sent, p.Failed))
	})

	final := fmt.Sprintf("✅ <b>Broadcast Complete!</b>\n\n👥 Total Users: %d\n✅ Success: %d\n❌ Failed: %d",
		summary.Total, summary.Sent, summary.Failed)
	if status != nil {
		_, _ = b.tb.Edit(status, final, adminBackMarkup(), tele.ModeHTML)
	} else {
		_, _ = b.tb.Send(chat, final, adminBackMarkup(), tele.ModeHTML)
	}
}

// editOrSend edits msg in place, falling back to a fresh message when
// msg is missing or the edit is rejected.
func (b *Bot) editOrSend(chat *tele.Chat, msg *tele.Message, text string) {
	if msg != nil {
		if _, err := b.tb.Edit(msg, text, tele.ModeHTML); err == nil {
			return
		}
	}
	_, _ = b.tb.Send(chat, text, tele.ModeHTML)
}

// SendText implements download.Sender.
func (b *Bot) SendText(sessionID int64, text string) error {
	_, err := b.tb.Send(tele.ChatID(sessionID), text, tele.ModeHTML)
	return err
}

// SendAudio implements download.Sender: the fetched track goes out
// with title/performer/duration metadata and optional album art.
func (b *Bot) SendAudio(sessionID int64, audio download.Audio) error {
	a := &tele.Audio{
		File:      tele.FromReader(bytes.NewReader(audio.Data)),
		Title:     audio.Title,
		Performer: audio.Performer,
		Duration:  audio.Duration,
		FileName:  audio.Title + ".mp3",
		Caption: fmt.Sprintf("%s <b>%s</b>\n%s %s\n\nDownloaded via Groovia",
			emojiSong, html.EscapeString(audio.Title), emojiArtist, html.EscapeString(audio.Performer)),
	}
	if audio.Thumbnail != nil {
		a.Thumbnail = &tele.Photo{File: tele.FromReader(bytes.NewReader(audio.Thumbnail))}
	}

	_, err := b.tb.Send(tele.ChatID(sessionID), a, tele.ModeHTML)
	return err
}
