// Package session holds per-session interaction state and the global
// usage counters. Everything lives in process memory for the process
// lifetime; sessions are created lazily on first access and never
// destroyed.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/groovia/groovia/pkg/saavn"
)

// Tier is a download quality preference.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// PreferenceIndex returns the tier's index into a song's download
// variant list (ordered by ascending bitrate). Selection degrades
// gracefully when the list is shorter; see download.PickVariant.
func (t Tier) PreferenceIndex() int {
	switch t {
	case TierLow:
		return 2 // 96kbps
	case TierHigh:
		return 4 // 320kbps
	default:
		return 3 // 160kbps
	}
}

// Bitrate returns the tier's nominal bitrate label.
func (t Tier) Bitrate() string {
	switch t {
	case TierLow:
		return "96kbps"
	case TierHigh:
		return "320kbps"
	default:
		return "160kbps"
	}
}

// Mode is a transient per-session input interpretation flag.
type Mode int

const (
	ModeNone Mode = iota
	ModeAwaitingBroadcast
)

// SearchContext is the most recent search a session ran, used for
// list pagination and the Back transition.
type SearchContext struct {
	Query string
	Kind  saavn.Kind
	Page  int
}

// HistoryEntry is one recorded download.
type HistoryEntry struct {
	ID     string
	Name   string
	Artist string
}

// historyCap bounds the download history ring; the oldest entry is
// evicted first.
const historyCap = 50

// Stats are the global per-session usage counters.
type Stats struct {
	Downloads  int
	Searches   int
	LastActive time.Time
}

// UserCount pairs a session with its download count, for the admin
// top-downloaders view.
type UserCount struct {
	ID        int64
	Downloads int
}

// state is the mutable per-session record. Only Store methods touch
// it, always under the store lock.
type state struct {
	quality          Tier
	lastSearch       *SearchContext
	history          []HistoryEntry
	mode             Mode
	promptKind       saavn.Kind
	pendingBroadcast string

	// cache-on-open detail payloads, so detail pagination slices
	// already-fetched data instead of refetching.
	album    *saavn.Album
	playlist *saavn.Playlist
}

// Snapshot is a copy of a session's state, safe to read without
// holding the store lock.
type Snapshot struct {
	Quality    Tier
	LastSearch *SearchContext
	History    []HistoryEntry
	Mode       Mode
}

// Store is the process-wide session and usage-counter store.
//
// The chat transport delivers turns for different sessions on
// separate goroutines, so all access is serialized through a single
// lock.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*state
	stats    map[int64]*Stats
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*state),
		stats:    make(map[int64]*Stats),
	}
}

// get returns the session record, creating it with defaults on first
// access. Must be called with the lock held.
func (s *Store) get(id int64) *state {
	st, ok := s.sessions[id]
	if !ok {
		st = &state{quality: TierMedium}
		s.sessions[id] = st
	}
	return st
}

// touch marks the session active and returns its counter record.
// Must be called with the lock held.
func (s *Store) touch(id int64) *Stats {
	st, ok := s.stats[id]
	if !ok {
		st = &Stats{}
		s.stats[id] = st
	}
	st.LastActive = time.Now()
	return st
}

// Get returns a copy of the session's state, creating the session
// with defaults on first access.
func (s *Store) Get(id int64) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.get(id)
	s.touch(id)

	snap := Snapshot{
		Quality: st.quality,
		Mode:    st.mode,
		History: append([]HistoryEntry(nil), st.history...),
	}
	if st.lastSearch != nil {
		ctx := *st.lastSearch
		snap.LastSearch = &ctx
	}
	return snap
}

// Quality returns the session's quality preference.
func (s *Store) Quality(id int64) Tier {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.sessions[id]; ok {
		return st.quality
	}
	return TierMedium
}

// SetQuality updates the session's quality preference.
func (s *Store) SetQuality(id int64, tier Tier) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.get(id).quality = tier
}

// RecordSearch stores the session's search context and bumps its
// search counter.
func (s *Store) RecordSearch(id int64, query string, kind saavn.Kind, page int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.get(id).lastSearch = &SearchContext{Query: query, Kind: kind, Page: page}
	s.touch(id).Searches++
}

// LastSearch returns the session's most recent search context.
func (s *Store) LastSearch(id int64) (SearchContext, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[id]
	if !ok || st.lastSearch == nil {
		return SearchContext{}, false
	}
	return *st.lastSearch, true
}

// RecordDownload appends to the session's download history, evicting
// the oldest entry beyond capacity, and bumps its download counter.
func (s *Store) RecordDownload(id int64, name, artist, songID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.get(id)
	st.history = append(st.history, HistoryEntry{ID: songID, Name: name, Artist: artist})
	if len(st.history) > historyCap {
		st.history = st.history[len(st.history)-historyCap:]
	}
	s.touch(id).Downloads++
}

// History returns a copy of the session's download history, oldest
// first.
func (s *Store) History(id int64) []HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[id]
	if !ok {
		return nil
	}
	return append([]HistoryEntry(nil), st.history...)
}

// ClearHistory empties the session's download history.
func (s *Store) ClearHistory(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.get(id).history = nil
}

// Mode returns the session's transient input mode.
func (s *Store) Mode(id int64) Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.sessions[id]; ok {
		return st.mode
	}
	return ModeNone
}

// SetMode updates the session's transient input mode.
func (s *Store) SetMode(id int64, mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.get(id).mode = mode
}

// SetSearchPrompt arms the session so its next free-text turn is
// interpreted as a query for the given kind.
func (s *Store) SetSearchPrompt(id int64, kind saavn.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.get(id).promptKind = kind
}

// TakeSearchPrompt returns and clears the session's armed search
// prompt kind.
func (s *Store) TakeSearchPrompt(id int64) (saavn.Kind, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.get(id)
	if st.promptKind == "" {
		return "", false
	}
	kind := st.promptKind
	st.promptKind = ""
	return kind, true
}

// SetPendingBroadcast stores broadcast text awaiting confirmation and
// clears the awaiting-broadcast mode.
func (s *Store) SetPendingBroadcast(id int64, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.get(id)
	st.pendingBroadcast = text
	st.mode = ModeNone
}

// TakePendingBroadcast returns and clears the session's pending
// broadcast text.
func (s *Store) TakePendingBroadcast(id int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.get(id)
	if st.pendingBroadcast == "" {
		return "", false
	}
	text := st.pendingBroadcast
	st.pendingBroadcast = ""
	return text, true
}

// CacheAlbum stores an opened album so detail pagination can slice it
// without refetching.
func (s *Store) CacheAlbum(id int64, album *saavn.Album) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.get(id).album = album
}

// CachedAlbum returns the session's cached album if it matches albumID.
func (s *Store) CachedAlbum(id int64, albumID string) (*saavn.Album, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[id]
	if !ok || st.album == nil || st.album.ID != albumID {
		return nil, false
	}
	return st.album, true
}

// CachePlaylist stores an opened playlist for detail pagination.
func (s *Store) CachePlaylist(id int64, playlist *saavn.Playlist) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.get(id).playlist = playlist
}

// CachedPlaylist returns the session's cached playlist if it matches
// playlistID.
func (s *Store) CachedPlaylist(id int64, playlistID string) (*saavn.Playlist, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[id]
	if !ok || st.playlist == nil || st.playlist.ID != playlistID {
		return nil, false
	}
	return st.playlist, true
}

// UserStats returns a copy of the session's usage counters.
func (s *Store) UserStats(id int64) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.stats[id]; ok {
		return *st
	}
	return Stats{}
}

// Totals aggregates the global usage counters across all sessions.
func (s *Store) Totals() (users, downloads, searches int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users = len(s.stats)
	for _, st := range s.stats {
		downloads += st.Downloads
		searches += st.Searches
	}
	return users, downloads, searches
}

// TopDownloaders returns up to n sessions ordered by download count,
// highest first.
func (s *Store) TopDownloaders(n int) []UserCount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make([]UserCount, 0, len(s.stats))
	for id, st := range s.stats {
		counts = append(counts, UserCount{ID: id, Downloads: st.Downloads})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Downloads != counts[j].Downloads {
			return counts[i].Downloads > counts[j].Downloads
		}
		return counts[i].ID < counts[j].ID
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// Sessions returns every session id the store has seen.
func (s *Store) Sessions() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.stats))
	for id := range s.stats {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
