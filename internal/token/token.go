// Package token encodes navigation actions as compact callback tokens.
//
// The chat transport can only round-trip short opaque strings on
// inline buttons, so every navigation intent is serialized into a
// pipe-separated token with a fixed prefix tag per action. The codec
// is pure data transformation: Decode(Encode(a)) == a for every
// representable action, and ill-formed tokens fail with a
// MalformedTokenError instead of an opaque fault.
package token

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/groovia/groovia/pkg/saavn"
)

// sep joins token fields. Catalog IDs never contain it; free-text
// scopes are sanitized by the caller before encoding.
const sep = "|"

// Op is the action discriminator carried in a token's prefix tag.
type Op string

const (
	OpOpen        Op = "open"    // open an item's detail view
	OpList        Op = "list"    // paginate a search result list
	OpDetail      Op = "detail"  // paginate an album/playlist track list
	OpDownload    Op = "dl"      // download one song
	OpDownloadAll Op = "dlall"   // download every child of an album/playlist
	OpSimilar     Op = "sim"     // show songs similar to a song
	OpQuality     Op = "quality" // set the session's quality preference
	OpAdmin       Op = "admin"   // privileged action
	OpMenu        Op = "menu"    // navigate to a fixed view
	OpPrompt      Op = "prompt"  // arm a typed-search prompt
	OpArtist      Op = "artist"  // paginate an artist's child list
	OpNoop        Op = "noop"    // acknowledge only
)

// AdminOp names a privileged action.
type AdminOp string

const (
	AdminPanel     AdminOp = "panel"
	AdminStats     AdminOp = "stats"
	AdminBroadcast AdminOp = "broadcast"
	AdminConfirm   AdminOp = "confirm"
)

// MenuName names a fixed view reachable from anywhere.
type MenuName string

const (
	MenuMain         MenuName = "main"
	MenuHelp         MenuName = "help"
	MenuSettings     MenuName = "settings"
	MenuStats        MenuName = "stats"
	MenuHistory      MenuName = "history"
	MenuClearHistory MenuName = "clearhistory"
	MenuBack         MenuName = "back"
)

// ChildKind selects which child list of an artist to page through.
type ChildKind string

const (
	ChildSongs  ChildKind = "songs"
	ChildAlbums ChildKind = "albums"
)

// Action is a decoded navigation intent. Which fields are meaningful
// depends on Op; unused fields are zero.
type Action struct {
	Op    Op
	Kind  saavn.Kind // OpOpen, OpList, OpDownloadAll
	ID    string     // OpOpen, OpDetail, OpDownload, OpDownloadAll, OpSimilar, OpArtist
	Page  int        // OpList, OpDetail, OpArtist
	Scope string     // OpList: the search query this list came from
	Tier  string     // OpQuality: low, medium, or high
	Admin AdminOp    // OpAdmin
	Menu  MenuName   // OpMenu
	Child ChildKind  // OpArtist
}

// MalformedTokenError reports a token that could not be decoded.
type MalformedTokenError struct {
	Token  string
	Reason string
}

func (e *MalformedTokenError) Error() string {
	return fmt.Sprintf("malformed token %q: %s", e.Token, e.Reason)
}

// Sanitize strips the field separator from free text so the text is
// representable as a token scope.
func Sanitize(text string) string {
	return strings.ReplaceAll(text, sep, " ")
}

// Encode serializes an action into its token form.
//
// Fields holding catalog IDs are assumed separator-free; Scope must
// be sanitized by the caller (see Sanitize).
func Encode(a Action) string {
	switch a.Op {
	case OpOpen:
		return join(string(OpOpen), string(a.Kind), a.ID)
	case OpList:
		return join(string(OpList), string(a.Kind), strconv.Itoa(a.Page), a.Scope)
	case OpDetail:
		return join(string(OpDetail), string(a.Kind), a.ID, strconv.Itoa(a.Page))
	case OpDownload:
		return join(string(OpDownload), a.ID)
	case OpDownloadAll:
		return join(string(OpDownloadAll), string(a.Kind), a.ID)
	case OpSimilar:
		return join(string(OpSimilar), a.ID)
	case OpQuality:
		return join(string(OpQuality), a.Tier)
	case OpAdmin:
		return join(string(OpAdmin), string(a.Admin))
	case OpMenu:
		return join(string(OpMenu), string(a.Menu))
	case OpPrompt:
		return join(string(OpPrompt), string(a.Kind))
	case OpArtist:
		return join(string(OpArtist), string(a.Child), a.ID, strconv.Itoa(a.Page))
	case OpNoop:
		return string(OpNoop)
	}
	return ""
}

func join(fields ...string) string {
	return strings.Join(fields, sep)
}

// Decode parses a token back into an action. It rejects unknown
// prefix tags, wrong field counts, empty required fields, and pages
// that do not parse as non-negative integers.
func Decode(tok string) (Action, error) {
	parts := strings.Split(tok, sep)

	fail := func(reason string) (Action, error) {
		return Action{}, &MalformedTokenError{Token: tok, Reason: reason}
	}

	switch Op(parts[0]) {
	case OpOpen:
		if len(parts) != 3 {
			return fail("open takes kind and id")
		}
		kind := saavn.Kind(parts[1])
		if !kind.Valid() {
			return fail("unknown kind " + parts[1])
		}
		if parts[2] == "" {
			return fail("empty id")
		}
		return Action{Op: OpOpen, Kind: kind, ID: parts[2]}, nil

	case OpList:
		if len(parts) != 4 {
			return fail("list takes kind, page, and scope")
		}
		kind := saavn.Kind(parts[1])
		if !kind.Valid() {
			return fail("unknown kind " + parts[1])
		}
		page, err := parsePage(parts[2])
		if err != nil {
			return fail(err.Error())
		}
		if parts[3] == "" {
			return fail("empty scope")
		}
		return Action{Op: OpList, Kind: kind, Page: page, Scope: parts[3]}, nil

	case OpDetail:
		if len(parts) != 4 {
			return fail("detail takes kind, id, and page")
		}
		kind := saavn.Kind(parts[1])
		if kind != saavn.KindAlbum && kind != saavn.KindPlaylist {
			return fail("detail kind must be album or playlist")
		}
		if parts[2] == "" {
			return fail("empty id")
		}
		page, err := parsePage(parts[3])
		if err != nil {
			return fail(err.Error())
		}
		return Action{Op: OpDetail, Kind: kind, ID: parts[2], Page: page}, nil

	case OpDownload:
		if len(parts) != 2 {
			return fail("dl takes an id")
		}
		if parts[1] == "" {
			return fail("empty id")
		}
		return Action{Op: OpDownload, ID: parts[1]}, nil

	case OpDownloadAll:
		if len(parts) != 3 {
			return fail("dlall takes kind and id")
		}
		kind := saavn.Kind(parts[1])
		if kind != saavn.KindAlbum && kind != saavn.KindPlaylist {
			return fail("dlall kind must be album or playlist")
		}
		if parts[2] == "" {
			return fail("empty id")
		}
		return Action{Op: OpDownloadAll, Kind: kind, ID: parts[2]}, nil

	case OpSimilar:
		if len(parts) != 2 {
			return fail("sim takes an id")
		}
		if parts[1] == "" {
			return fail("empty id")
		}
		return Action{Op: OpSimilar, ID: parts[1]}, nil

	case OpQuality:
		if len(parts) != 2 {
			return fail("quality takes a tier")
		}
		switch parts[1] {
		case "low", "medium", "high":
		default:
			return fail("unknown tier " + parts[1])
		}
		return Action{Op: OpQuality, Tier: parts[1]}, nil

	case OpAdmin:
		if len(parts) != 2 {
			return fail("admin takes an op")
		}
		switch AdminOp(parts[1]) {
		case AdminPanel, AdminStats, AdminBroadcast, AdminConfirm:
		default:
			return fail("unknown admin op " + parts[1])
		}
		return Action{Op: OpAdmin, Admin: AdminOp(parts[1])}, nil

	case OpMenu:
		if len(parts) != 2 {
			return fail("menu takes a name")
		}
		switch MenuName(parts[1]) {
		case MenuMain, MenuHelp, MenuSettings, MenuStats, MenuHistory, MenuClearHistory, MenuBack:
		default:
			return fail("unknown menu " + parts[1])
		}
		return Action{Op: OpMenu, Menu: MenuName(parts[1])}, nil

	case OpPrompt:
		if len(parts) != 2 {
			return fail("prompt takes a kind")
		}
		kind := saavn.Kind(parts[1])
		if !kind.Valid() {
			return fail("unknown kind " + parts[1])
		}
		return Action{Op: OpPrompt, Kind: kind}, nil

	case OpArtist:
		if len(parts) != 4 {
			return fail("artist takes child, id, and page")
		}
		child := ChildKind(parts[1])
		if child != ChildSongs && child != ChildAlbums {
			return fail("unknown child list " + parts[1])
		}
		if parts[2] == "" {
			return fail("empty id")
		}
		page, err := parsePage(parts[3])
		if err != nil {
			return fail(err.Error())
		}
		return Action{Op: OpArtist, Child: child, ID: parts[2], Page: page}, nil

	case OpNoop:
		if len(parts) != 1 {
			return fail("noop takes no fields")
		}
		return Action{Op: OpNoop}, nil
	}

	return fail("unknown prefix tag " + parts[0])
}

func parsePage(field string) (int, error) {
	page, err := strconv.Atoi(field)
	if err != nil || page < 0 {
		return 0, fmt.Errorf("page %q is not a non-negative integer", field)
	}
	return page, nil
}
