package saavn

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// pageParams builds the shared page/limit query parameters.
func pageParams(page, limit int) url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	return params
}

// SearchSongs searches for songs matching query.
func (c *Client) SearchSongs(ctx context.Context, query string, page, limit int) (*SongPage, error) {
	params := pageParams(page, limit)
	params.Set("query", query)

	data, err := c.get(ctx, "search/songs", params)
	if err != nil {
		return nil, err
	}

	var result SongPage
	if err := decode("search/songs", data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchAlbums searches for albums matching query.
func (c *Client) SearchAlbums(ctx context.Context, query string, page, limit int) (*AlbumPage, error) {
	params := pageParams(page, limit)
	params.Set("query", query)

	data, err := c.get(ctx, "search/albums", params)
	if err != nil {
		return nil, err
	}

	var result AlbumPage
	if err := decode("search/albums", data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchPlaylists searches for playlists matching query.
func (c *Client) SearchPlaylists(ctx context.Context, query string, page, limit int) (*PlaylistPage, error) {
	params := pageParams(page, limit)
	params.Set("query", query)

	data, err := c.get(ctx, "search/playlists", params)
	if err != nil {
		return nil, err
	}

	var result PlaylistPage
	if err := decode("search/playlists", data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchArtists searches for artists matching query.
func (c *Client) SearchArtists(ctx context.Context, query string, page, limit int) (*ArtistPage, error) {
	params := pageParams(page, limit)
	params.Set("query", query)

	data, err := c.get(ctx, "search/artists", params)
	if err != nil {
		return nil, err
	}

	var result ArtistPage
	if err := decode("search/artists", data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Song fetches a single song by ID, including its download variant
// list. The endpoint sometimes wraps the record in a one-element
// array; both shapes are accepted.
func (c *Client) Song(ctx context.Context, id string) (*Song, error) {
	endpoint := fmt.Sprintf("songs/%s", url.PathEscape(id))

	data, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	if len(data) > 0 && bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		var songs []Song
		if err := decode(endpoint, data, &songs); err != nil {
			return nil, err
		}
		if len(songs) == 0 {
			return nil, fmt.Errorf("%s: %w", endpoint, ErrUnavailable)
		}
		return &songs[0], nil
	}

	var song Song
	if err := decode(endpoint, data, &song); err != nil {
		return nil, err
	}
	return &song, nil
}

// Album fetches an album by ID. Album payloads carry the full track
// list in one response.
func (c *Client) Album(ctx context.Context, id string) (*Album, error) {
	params := url.Values{}
	params.Set("id", id)

	data, err := c.get(ctx, "albums", params)
	if err != nil {
		return nil, err
	}

	var album Album
	if err := decode("albums", data, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// Playlist fetches a playlist by ID. Playlist tracks are paged
// server-side; the returned Songs slice holds the requested page.
func (c *Client) Playlist(ctx context.Context, id string, page, limit int) (*Playlist, error) {
	params := pageParams(page, limit)
	params.Set("id", id)

	data, err := c.get(ctx, "playlists", params)
	if err != nil {
		return nil, err
	}

	var playlist Playlist
	if err := decode("playlists", data, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// artistChildPage is the payload shape of the artist child list
// endpoints, which name their result slice after the child kind.
type artistChildPage struct {
	Total  int     `json:"total"`
	Songs  []Song  `json:"songs"`
	Albums []Album `json:"albums"`
}

// ArtistSongs fetches one page of an artist's songs.
func (c *Client) ArtistSongs(ctx context.Context, artistID string, page, limit int) (*SongPage, error) {
	endpoint := fmt.Sprintf("artists/%s/songs", url.PathEscape(artistID))

	data, err := c.get(ctx, endpoint, pageParams(page, limit))
	if err != nil {
		return nil, err
	}

	var result artistChildPage
	if err := decode(endpoint, data, &result); err != nil {
		return nil, err
	}
	return &SongPage{Total: result.Total, Results: result.Songs}, nil
}

// ArtistAlbums fetches one page of an artist's albums.
func (c *Client) ArtistAlbums(ctx context.Context, artistID string, page, limit int) (*AlbumPage, error) {
	endpoint := fmt.Sprintf("artists/%s/albums", url.PathEscape(artistID))

	data, err := c.get(ctx, endpoint, pageParams(page, limit))
	if err != nil {
		return nil, err
	}

	var result artistChildPage
	if err := decode(endpoint, data, &result); err != nil {
		return nil, err
	}
	return &AlbumPage{Total: result.Total, Results: result.Albums}, nil
}

// Suggestions fetches songs similar to the given song. Suggestions
// are not paginable upstream.
func (c *Client) Suggestions(ctx context.Context, songID string, limit int) ([]Song, error) {
	endpoint := fmt.Sprintf("songs/%s/suggestions", url.PathEscape(songID))

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	data, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	var songs []Song
	if err := decode(endpoint, data, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}
