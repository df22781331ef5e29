package token

import (
	"errors"
	"testing"

	"github.com/groovia/groovia/pkg/saavn"
)

// TestEncodeDecode_RoundTrip checks Decode(Encode(a)) == a for one
// representative action per opcode.
func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		action Action
	}{
		{"open song", Action{Op: OpOpen, Kind: saavn.KindSong, ID: "abc123"}},
		{"open artist", Action{Op: OpOpen, Kind: saavn.KindArtist, ID: "459320"}},
		{"list page", Action{Op: OpList, Kind: saavn.KindAlbum, Page: 3, Scope: "arijit singh"}},
		{"list page zero", Action{Op: OpList, Kind: saavn.KindSong, Page: 0, Scope: "imagine"}},
		{"detail album", Action{Op: OpDetail, Kind: saavn.KindAlbum, ID: "alb9", Page: 2}},
		{"detail playlist", Action{Op: OpDetail, Kind: saavn.KindPlaylist, ID: "pl77", Page: 0}},
		{"download", Action{Op: OpDownload, ID: "song42"}},
		{"download all", Action{Op: OpDownloadAll, Kind: saavn.KindPlaylist, ID: "pl77"}},
		{"similar", Action{Op: OpSimilar, ID: "song42"}},
		{"quality", Action{Op: OpQuality, Tier: "high"}},
		{"admin panel", Action{Op: OpAdmin, Admin: AdminPanel}},
		{"admin confirm", Action{Op: OpAdmin, Admin: AdminConfirm}},
		{"menu back", Action{Op: OpMenu, Menu: MenuBack}},
		{"menu clear history", Action{Op: OpMenu, Menu: MenuClearHistory}},
		{"prompt playlist", Action{Op: OpPrompt, Kind: saavn.KindPlaylist}},
		{"artist songs", Action{Op: OpArtist, Child: ChildSongs, ID: "459320", Page: 1}},
		{"artist albums", Action{Op: OpArtist, Child: ChildAlbums, ID: "459320", Page: 0}},
		{"noop", Action{Op: OpNoop}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := Encode(tt.action)
			if tok == "" {
				t.Fatalf("Encode returned empty token for %+v", tt.action)
			}

			got, err := Decode(tok)
			if err != nil {
				t.Fatalf("Decode(%q) failed: %v", tok, err)
			}
			if got != tt.action {
				t.Errorf("round trip mismatch: encoded %+v, decoded %+v", tt.action, got)
			}
		})
	}
}

// TestDecode_Malformed checks that ill-formed tokens fail with a
// MalformedTokenError rather than being silently accepted.
func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"unknown prefix", "bogus|song|abc"},
		{"open missing id field", "open|song"},
		{"open empty id", "open|song|"},
		{"open unknown kind", "open|video|abc"},
		{"open extra field", "open|song|abc|extra"},
		{"list missing scope", "list|song|0"},
		{"list empty scope", "list|song|0|"},
		{"list negative page", "list|song|-1|query"},
		{"list non-numeric page", "list|song|two|query"},
		{"detail song kind", "detail|song|abc|0"},
		{"dl empty id", "dl|"},
		{"dlall artist kind", "dlall|artist|abc"},
		{"quality unknown tier", "quality|ultra"},
		{"admin unknown op", "admin|selfdestruct"},
		{"menu unknown name", "menu|secret"},
		{"artist unknown child", "artist|videos|abc|0"},
		{"artist bad page", "artist|songs|abc|x"},
		{"noop with field", "noop|1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			if err == nil {
				t.Fatalf("Decode(%q) succeeded, want error", tt.token)
			}

			var malformed *MalformedTokenError
			if !errors.As(err, &malformed) {
				t.Errorf("Decode(%q) error = %T, want *MalformedTokenError", tt.token, err)
			}
		})
	}
}

// TestSanitize verifies that sanitized free text survives a list
// token round trip.
func TestSanitize(t *testing.T) {
	query := Sanitize("never | gonna | give")
	tok := Encode(Action{Op: OpList, Kind: saavn.KindSong, Page: 0, Scope: query})

	got, err := Decode(tok)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Scope != query {
		t.Errorf("scope = %q, want %q", got.Scope, query)
	}
}
