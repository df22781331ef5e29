package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/groovia/groovia/internal/session"
	"github.com/groovia/groovia/pkg/saavn"
)

// fakeCatalog serves canned payloads keyed by ID.
type fakeCatalog struct {
	songs     map[string]*saavn.Song
	album     *saavn.Album
	playlist  *saavn.Playlist
	lookupErr error
}

func (f *fakeCatalog) Song(ctx context.Context, id string) (*saavn.Song, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	song, ok := f.songs[id]
	if !ok {
		return nil, saavn.ErrUnavailable
	}
	return song, nil
}

func (f *fakeCatalog) Album(ctx context.Context, id string) (*saavn.Album, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.album, nil
}

func (f *fakeCatalog) Playlist(ctx context.Context, id string, page, limit int) (*saavn.Playlist, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.playlist, nil
}

// fakeSender records deliveries and can be told to fail for specific
// sessions.
type fakeSender struct {
	audios  []Audio
	texts   map[int64]string
	failFor map[int64]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{texts: make(map[int64]string), failFor: make(map[int64]bool)}
}

func (f *fakeSender) SendText(sessionID int64, text string) error {
	if f.failFor[sessionID] {
		return errors.New("blocked")
	}
	f.texts[sessionID] = text
	return nil
}

func (f *fakeSender) SendAudio(sessionID int64, audio Audio) error {
	if f.failFor[sessionID] {
		return errors.New("blocked")
	}
	f.audios = append(f.audios, audio)
	return nil
}

// newBinaryServer serves fake audio on /audio/ and 404s everything
// else.
func newBinaryServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/audio/ok" {
			_, _ = w.Write([]byte("ID3fakeaudio"))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func variants(n int, base string) []saavn.DownloadURL {
	out := make([]saavn.DownloadURL, n)
	quality := []string{"12kbps", "48kbps", "96kbps", "160kbps", "320kbps"}
	for i := range out {
		out[i] = saavn.DownloadURL{Quality: quality[i%len(quality)], URL: base}
	}
	return out
}

func newTestPipeline(catalog Catalog, sender Sender) (*Pipeline, *session.Store) {
	sessions := session.NewStore()
	fetcher := NewFetcher(zerolog.Nop())
	p := New(Config{
		SendDelay:      time.Millisecond,
		BroadcastDelay: time.Millisecond,
	}, catalog, fetcher, sessions, sender, zerolog.Nop())
	return p, sessions
}

// TestPickVariant covers tier selection against variant lists of
// every relevant length, including the clamp to the highest variant.
func TestPickVariant(t *testing.T) {
	five := []saavn.DownloadURL{
		{Quality: "12kbps", URL: "u0"},
		{Quality: "48kbps", URL: "u1"},
		{Quality: "96kbps", URL: "u2"},
		{Quality: "160kbps", URL: "u3"},
		{Quality: "320kbps", URL: "u4"},
	}

	tests := []struct {
		name     string
		variants []saavn.DownloadURL
		tier     session.Tier
		wantURL  string
		wantOK   bool
	}{
		{"low picks 96kbps", five, session.TierLow, "u2", true},
		{"medium picks 160kbps", five, session.TierMedium, "u3", true},
		{"high picks 320kbps", five, session.TierHigh, "u4", true},
		{"high clamps to best of three", five[:3], session.TierHigh, "u2", true},
		{"medium clamps to best of three", five[:3], session.TierMedium, "u2", true},
		{"low exact at three", five[:3], session.TierLow, "u2", true},
		{"single variant serves every tier", five[:1], session.TierHigh, "u0", true},
		{"empty list fails", nil, session.TierMedium, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, ok := PickVariant(tt.variants, tt.tier)
			if ok != tt.wantOK || url != tt.wantURL {
				t.Errorf("PickVariant = (%q, %v), want (%q, %v)", url, ok, tt.wantURL, tt.wantOK)
			}
		})
	}
}

func TestOne_Sent(t *testing.T) {
	server := newBinaryServer(t)
	audioURL := server.URL + "/audio/ok"

	catalog := &fakeCatalog{songs: map[string]*saavn.Song{
		"s1": {
			ID:          "s1",
			Name:        "Yesterday",
			Duration:    125,
			Artists:     saavn.Artists{Primary: []saavn.ArtistRef{{Name: "The Beatles"}}},
			DownloadURL: variants(5, audioURL),
		},
	}}
	sender := newFakeSender()
	p, sessions := newTestPipeline(catalog, sender)

	outcome := p.One(context.Background(), 7, "s1")

	if outcome.Status != Sent {
		t.Fatalf("status = %v (err: %v), want Sent", outcome.Status, outcome.Err)
	}
	if outcome.BytesSent == 0 {
		t.Error("BytesSent = 0, want the fetched payload size")
	}
	if len(sender.audios) != 1 {
		t.Fatalf("sender got %d audios, want 1", len(sender.audios))
	}
	audio := sender.audios[0]
	if audio.Title != "Yesterday" || audio.Performer != "The Beatles" || audio.Duration != 125 {
		t.Errorf("audio metadata = %+v", audio)
	}

	history := sessions.History(7)
	if len(history) != 1 || history[0].ID != "s1" {
		t.Errorf("history = %v, want the sent song recorded", history)
	}
	if stats := sessions.UserStats(7); stats.Downloads != 1 {
		t.Errorf("downloads = %d, want 1", stats.Downloads)
	}
}

func TestOne_NoVariant(t *testing.T) {
	catalog := &fakeCatalog{songs: map[string]*saavn.Song{
		"s1": {ID: "s1", Name: "Ghost Track"},
	}}
	sender := newFakeSender()
	p, sessions := newTestPipeline(catalog, sender)

	outcome := p.One(context.Background(), 7, "s1")

	if outcome.Status != SkippedNoURL {
		t.Fatalf("status = %v, want SkippedNoURL", outcome.Status)
	}
	if len(sender.audios) != 0 {
		t.Error("sender was called for a song with no variants")
	}
	if len(sessions.History(7)) != 0 {
		t.Error("skipped song was recorded in history")
	}
}

func TestOne_LookupFailed(t *testing.T) {
	catalog := &fakeCatalog{lookupErr: saavn.ErrUnavailable}
	p, _ := newTestPipeline(catalog, newFakeSender())

	outcome := p.One(context.Background(), 7, "s1")

	if outcome.Status != FetchFailed {
		t.Fatalf("status = %v, want FetchFailed", outcome.Status)
	}
	if !errors.Is(outcome.Err, saavn.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", outcome.Err)
	}
}

func TestOne_BinaryFetchFailed(t *testing.T) {
	server := newBinaryServer(t)

	catalog := &fakeCatalog{songs: map[string]*saavn.Song{
		"s1": {ID: "s1", Name: "Gone", DownloadURL: variants(5, server.URL+"/audio/missing")},
	}}
	sender := newFakeSender()
	p, _ := newTestPipeline(catalog, sender)

	outcome := p.One(context.Background(), 7, "s1")

	if outcome.Status != FetchFailed {
		t.Fatalf("status = %v, want FetchFailed", outcome.Status)
	}
	if len(sender.audios) != 0 {
		t.Error("sender was called after a failed fetch")
	}
}

// TestOne_ThumbnailFailureNonFatal checks a dead artwork URL does not
// block the audio itself.
func TestOne_ThumbnailFailureNonFatal(t *testing.T) {
	server := newBinaryServer(t)

	catalog := &fakeCatalog{songs: map[string]*saavn.Song{
		"s1": {
			ID:          "s1",
			Name:        "Yesterday",
			Image:       []saavn.Image{{Quality: "500x500", URL: server.URL + "/art/missing"}},
			DownloadURL: variants(5, server.URL+"/audio/ok"),
		},
	}}
	sender := newFakeSender()
	p, _ := newTestPipeline(catalog, sender)

	outcome := p.One(context.Background(), 7, "s1")

	if outcome.Status != Sent {
		t.Fatalf("status = %v, want Sent", outcome.Status)
	}
	if sender.audios[0].Thumbnail != nil {
		t.Error("thumbnail set despite a failed artwork fetch")
	}
}

// TestAll_FailureIsolation runs a five-track album where the third
// track has no variants: the run continues and tallies 4 of 5.
func TestAll_FailureIsolation(t *testing.T) {
	server := newBinaryServer(t)
	audioURL := server.URL + "/audio/ok"

	album := &saavn.Album{ID: "alb1", Name: "五", SongCount: 5}
	for i := 0; i < 5; i++ {
		song := saavn.Song{ID: fmt.Sprintf("s%d", i), Name: fmt.Sprintf("Track %d", i)}
		if i != 2 {
			song.DownloadURL = variants(5, audioURL)
		}
		album.Songs = append(album.Songs, song)
	}

	// The by-id refetch for the bare track also has no variants.
	catalog := &fakeCatalog{album: album, songs: map[string]*saavn.Song{
		"s2": {ID: "s2", Name: "Track 2"},
	}}
	sender := newFakeSender()
	p, _ := newTestPipeline(catalog, sender)

	var reported []Progress
	summary, err := p.All(context.Background(), 7, saavn.KindAlbum, "alb1", func(pr Progress) {
		reported = append(reported, pr)
	})
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}

	if summary.Sent != 4 || summary.Total != 5 {
		t.Errorf("summary = %d/%d, want 4/5", summary.Sent, summary.Total)
	}

	wantStatuses := []Status{Sent, Sent, SkippedNoURL, Sent, Sent}
	for i, outcome := range summary.Outcomes {
		if outcome.Status != wantStatuses[i] {
			t.Errorf("outcome[%d] = %v, want %v", i, outcome.Status, wantStatuses[i])
		}
	}

	if len(reported) != 5 {
		t.Errorf("progress reported %d times, want 5", len(reported))
	}
	if reported[4].Index != 5 || reported[4].Total != 5 {
		t.Errorf("final progress = %+v, want 5/5", reported[4])
	}
}

// TestAll_RefetchResolvesVariants checks playlist children that come
// back without variant lists get one by-id refetch each.
func TestAll_RefetchResolvesVariants(t *testing.T) {
	server := newBinaryServer(t)
	audioURL := server.URL + "/audio/ok"

	playlist := &saavn.Playlist{
		ID: "pl1", Name: "Focus", SongCount: 2,
		Songs: []saavn.Song{
			{ID: "s0", Name: "Track 0"},
			{ID: "s1", Name: "Track 1"},
		},
	}
	catalog := &fakeCatalog{playlist: playlist, songs: map[string]*saavn.Song{
		"s0": {ID: "s0", Name: "Track 0", DownloadURL: variants(5, audioURL)},
		"s1": {ID: "s1", Name: "Track 1", DownloadURL: variants(5, audioURL)},
	}}
	sender := newFakeSender()
	p, _ := newTestPipeline(catalog, sender)

	summary, err := p.All(context.Background(), 7, saavn.KindPlaylist, "pl1", nil)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if summary.Sent != 2 {
		t.Errorf("sent = %d, want 2", summary.Sent)
	}
}

func TestAll_SourceLookupFailed(t *testing.T) {
	catalog := &fakeCatalog{lookupErr: saavn.ErrUnavailable}
	p, _ := newTestPipeline(catalog, newFakeSender())

	_, err := p.All(context.Background(), 7, saavn.KindAlbum, "alb1", nil)
	if !errors.Is(err, saavn.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

// TestBroadcast checks per-recipient failure counting and the
// every-ten progress cadence.
func TestBroadcast(t *testing.T) {
	sender := newFakeSender()
	p, sessions := newTestPipeline(&fakeCatalog{}, sender)

	for i := int64(1); i <= 12; i++ {
		sessions.RecordSearch(i, "q", saavn.KindSong, 0)
	}
	sender.failFor[3] = true
	sender.failFor[8] = true

	var reported []BroadcastProgress
	summary := p.Broadcast(context.Background(), "hello", func(pr BroadcastProgress) {
		reported = append(reported, pr)
	})

	if summary.Total != 12 || summary.Sent != 10 || summary.Failed != 2 {
		t.Errorf("summary = %+v, want 12 total, 10 sent, 2 failed", summary)
	}
	if sender.texts[5] != "hello" {
		t.Errorf("recipient 5 got %q, want the broadcast text", sender.texts[5])
	}
	if _, got := sender.texts[3]; got {
		t.Error("failed recipient recorded a delivery")
	}

	// 12 recipients report once, at the tenth.
	if len(reported) != 1 || reported[0].Done != 10 {
		t.Errorf("progress = %+v, want a single report at 10", reported)
	}
}

// cancellingSender cancels its context after the first successful
// audio delivery.
type cancellingSender struct {
	*fakeSender
	cancel context.CancelFunc
}

func (c *cancellingSender) SendAudio(sessionID int64, audio Audio) error {
	err := c.fakeSender.SendAudio(sessionID, audio)
	c.cancel()
	return err
}

// TestAll_Cancelled checks cancellation stops the run at the
// inter-item delay instead of grinding through the remaining items.
func TestAll_Cancelled(t *testing.T) {
	server := newBinaryServer(t)
	audioURL := server.URL + "/audio/ok"

	album := &saavn.Album{ID: "alb1", SongCount: 3}
	for i := 0; i < 3; i++ {
		album.Songs = append(album.Songs, saavn.Song{
			ID: fmt.Sprintf("s%d", i), Name: fmt.Sprintf("Track %d", i),
			DownloadURL: variants(5, audioURL),
		})
	}
	catalog := &fakeCatalog{album: album}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sender := &cancellingSender{fakeSender: newFakeSender(), cancel: cancel}

	sessions := session.NewStore()
	p := New(Config{
		SendDelay:      time.Millisecond,
		BroadcastDelay: time.Millisecond,
	}, catalog, NewFetcher(zerolog.Nop()), sessions, sender, zerolog.Nop())

	summary, err := p.All(ctx, 7, saavn.KindAlbum, "alb1", nil)
	if err == nil {
		t.Fatal("All completed despite cancellation")
	}
	if summary.Sent != 1 {
		t.Errorf("sent = %d after cancellation, want 1", summary.Sent)
	}
}
