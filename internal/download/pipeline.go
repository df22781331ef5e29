// Package download is the retrieval pipeline: it resolves a song's
// binary variant for the session's quality preference, fetches the
// audio (and optionally its thumbnail), and emits it back through the
// presentation boundary. Batch runs process items strictly
// sequentially with per-item failure isolation, so one bad track
// never aborts an album.
package download

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/groovia/groovia/internal/session"
	"github.com/groovia/groovia/pkg/saavn"
)

// Status classifies the outcome of one item's retrieval.
type Status int

const (
	// Sent means the audio was fetched and delivered.
	Sent Status = iota
	// SkippedNoURL means the item has no downloadable variant at all.
	SkippedNoURL
	// FetchFailed means the detail lookup, binary fetch, or delivery
	// failed for this item.
	FetchFailed
)

func (s Status) String() string {
	switch s {
	case Sent:
		return "sent"
	case SkippedNoURL:
		return "skipped: no url"
	default:
		return "fetch failed"
	}
}

// ItemRef identifies the catalog entity an outcome belongs to.
type ItemRef struct {
	ID   string
	Kind saavn.Kind
}

// Outcome is the per-item result of a pipeline run.
type Outcome struct {
	Item      ItemRef
	Status    Status
	BytesSent int
	Err       error
}

// Summary is the final tally of a batch run.
type Summary struct {
	Sent     int
	Total    int
	Outcomes []Outcome
}

// Progress reports a batch run's position, at least once per item.
type Progress struct {
	Index int // 1-based
	Total int
	Name  string // current item's name
}

// BroadcastSummary is the final tally of a broadcast run.
type BroadcastSummary struct {
	Total  int
	Sent   int
	Failed int
}

// BroadcastProgress reports a broadcast run's position.
type BroadcastProgress struct {
	Done   int
	Total  int
	Sent   int
	Failed int
}

// Audio is a fetched track ready to hand to the transport.
type Audio struct {
	Data      []byte
	Thumbnail []byte // optional; nil when the thumbnail fetch failed
	Title     string
	Performer string
	Duration  int // seconds
}

// Sender is the presentation boundary the pipeline emits through.
type Sender interface {
	SendText(sessionID int64, text string) error
	SendAudio(sessionID int64, audio Audio) error
}

// Catalog is the subset of catalog operations the pipeline needs.
type Catalog interface {
	Song(ctx context.Context, id string) (*saavn.Song, error)
	Album(ctx context.Context, id string) (*saavn.Album, error)
	Playlist(ctx context.Context, id string, page, limit int) (*saavn.Playlist, error)
}

const (
	// batchFetchLimit caps how many playlist children one batch run
	// fetches, in a single call rather than paging.
	batchFetchLimit = 100

	// defaultSendDelay is the pause after each successfully sent item,
	// bounding outbound transfer and the transport's rate limits.
	defaultSendDelay = time.Second

	// defaultBroadcastDelay rate-limits broadcast fan-out.
	defaultBroadcastDelay = 50 * time.Millisecond

	// broadcastProgressEvery controls how often a broadcast run
	// reports progress.
	broadcastProgressEvery = 10
)

// Config holds pipeline tuning knobs. Zero values select defaults.
type Config struct {
	SendDelay      time.Duration
	BroadcastDelay time.Duration
}

// Pipeline orchestrates sequential fetch-then-send runs.
type Pipeline struct {
	catalog        Catalog
	fetcher        *Fetcher
	sessions       *session.Store
	sender         Sender
	logger         zerolog.Logger
	sendDelay      time.Duration
	broadcastDelay time.Duration
}

// New creates a pipeline.
func New(cfg Config, catalog Catalog, fetcher *Fetcher, sessions *session.Store, sender Sender, logger zerolog.Logger) *Pipeline {
	sendDelay := cfg.SendDelay
	if sendDelay == 0 {
		sendDelay = defaultSendDelay
	}
	broadcastDelay := cfg.BroadcastDelay
	if broadcastDelay == 0 {
		broadcastDelay = defaultBroadcastDelay
	}
	return &Pipeline{
		catalog:        catalog,
		fetcher:        fetcher,
		sessions:       sessions,
		sender:         sender,
		logger:         logger.With().Str("component", "download").Logger(),
		sendDelay:      sendDelay,
		broadcastDelay: broadcastDelay,
	}
}

// PickVariant selects the variant for a quality tier from a list
// ordered by ascending bitrate. When the preferred index is out of
// range the highest available variant is used; selection never fails
// for that reason. ok is false only when the list is empty.
func PickVariant(variants []saavn.DownloadURL, tier session.Tier) (url string, ok bool) {
	if len(variants) == 0 {
		return "", false
	}
	idx := tier.PreferenceIndex()
	if idx >= len(variants) {
		idx = len(variants) - 1
	}
	return variants[idx].URL, true
}

// One retrieves and sends a single song by ID.
func (p *Pipeline) One(ctx context.Context, sessionID int64, songID string) Outcome {
	song, err := p.catalog.Song(ctx, songID)
	if err != nil {
		p.logger.Warn().Err(err).Str("song", songID).Msg("Song lookup failed")
		return Outcome{Item: ItemRef{ID: songID, Kind: saavn.KindSong}, Status: FetchFailed, Err: err}
	}
	return p.send(ctx, sessionID, song)
}

// send fetches the song's binary at the session's quality preference
// and emits it with metadata, recording history and usage counters on
// success.
func (p *Pipeline) send(ctx context.Context, sessionID int64, song *saavn.Song) Outcome {
	item := ItemRef{ID: song.ID, Kind: saavn.KindSong}

	url, ok := PickVariant(song.DownloadURL, p.sessions.Quality(sessionID))
	if !ok {
		p.logger.Info().Str("song", song.ID).Msg("No download variant, skipping")
		return Outcome{Item: item, Status: SkippedNoURL}
	}

	data, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		p.logger.Warn().Err(err).Str("song", song.ID).Msg("Audio fetch failed")
		return Outcome{Item: item, Status: FetchFailed, Err: err}
	}

	// Thumbnail failure is non-fatal; the audio just goes out bare.
	var thumb []byte
	if thumbURL := saavn.BestImage(song.Image); thumbURL != "" {
		if thumbData, err := p.fetcher.Fetch(ctx, thumbURL); err == nil {
			thumb = thumbData
		}
	}

	audio := Audio{
		Data:      data,
		Thumbnail: thumb,
		Title:     song.Name,
		Performer: song.ArtistNames(),
		Duration:  song.Duration,
	}
	if err := p.sender.SendAudio(sessionID, audio); err != nil {
		p.logger.Warn().Err(err).Str("song", song.ID).Msg("Audio delivery failed")
		return Outcome{Item: item, Status: FetchFailed, Err: err}
	}

	p.sessions.RecordDownload(sessionID, song.Name, song.ArtistNames(), song.ID)
	p.logger.Info().
		Str("song", song.Name).
		Str("artist", song.PrimaryArtist()).
		Int("bytes", len(data)).
		Msg("Sent audio")

	return Outcome{Item: item, Status: Sent, BytesSent: len(data)}
}

// All retrieves every child of an album or playlist, strictly
// sequentially. A single item's failure is recorded and the run
// continues; progress is reported at least once per item.
func (p *Pipeline) All(ctx context.Context, sessionID int64, kind saavn.Kind, id string, progress func(Progress)) (Summary, error) {
	var songs []saavn.Song
	switch kind {
	case saavn.KindAlbum:
		album, err := p.catalog.Album(ctx, id)
		if err != nil {
			return Summary{}, err
		}
		songs = album.Songs
	default:
		playlist, err := p.catalog.Playlist(ctx, id, 0, batchFetchLimit)
		if err != nil {
			return Summary{}, err
		}
		songs = playlist.Songs
	}

	summary := Summary{Total: len(songs)}
	for i := range songs {
		song := &songs[i]
		if progress != nil {
			progress(Progress{Index: i + 1, Total: len(songs), Name: song.Name})
		}

		// Catalog summaries may omit the variant list; one by-id
		// refetch per item resolves it.
		if len(song.DownloadURL) == 0 {
			if full, err := p.catalog.Song(ctx, song.ID); err == nil {
				song = full
			}
		}

		outcome := p.send(ctx, sessionID, song)
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Status == Sent {
			summary.Sent++
			if !sleep(ctx, p.sendDelay) {
				return summary, ctx.Err()
			}
		}
	}

	p.logger.Info().
		Int("sent", summary.Sent).
		Int("total", summary.Total).
		Msg("Batch download complete")
	return summary, nil
}

// Broadcast fans a text message out to every known session,
// sequentially and rate-limited. Per-recipient failures are counted
// and skipped.
func (p *Pipeline) Broadcast(ctx context.Context, text string, progress func(BroadcastProgress)) BroadcastSummary {
	ids := p.sessions.Sessions()
	summary := BroadcastSummary{Total: len(ids)}

	for i, id := range ids {
		if err := p.sender.SendText(id, text); err != nil {
			p.logger.Warn().Err(err).Int64("session", id).Msg("Broadcast send failed")
			summary.Failed++
		} else {
			summary.Sent++
		}

		if progress != nil && (i+1)%broadcastProgressEvery == 0 {
			progress(BroadcastProgress{
				Done:   i + 1,
				Total:  summary.Total,
				Sent:   summary.Sent,
				Failed: summary.Failed,
			})
		}

		if !sleep(ctx, p.broadcastDelay) {
			return summary
		}
	}

	p.logger.Info().
		Int("sent", summary.Sent).
		Int("failed", summary.Failed).
		Msg("Broadcast complete")
	return summary
}

// sleep waits for the duration or until the context is cancelled.
// Returns false on cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
