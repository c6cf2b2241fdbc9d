// Package playlist defines user-created groupings of book identifiers.
package playlist

import (
	"encoding/json"

	"tableflip.dev/shelf/pkg/item"
)

// Playlist is a named set of book ids. Membership may reference books that no
// longer exist; stale ids are filtered at render time via Resolve, never
// cascaded at the data layer.
type Playlist struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"bookIds"`
}

// MarshalList serialises the whole playlist set.
func MarshalList(lists []Playlist) ([]byte, error) {
	return json.MarshalIndent(lists, "", "  ")
}

// UnmarshalList deserialises the playlist set.
func UnmarshalList(data []byte) ([]Playlist, error) {
	if len(data) == 0 {
		return []Playlist{}, nil
	}
	var lists []Playlist
	if err := json.Unmarshal(data, &lists); err != nil {
		return nil, err
	}
	for i := range lists {
		lists[i].MemberIDs = dedup(lists[i].MemberIDs)
	}
	return lists, nil
}

// Resolve returns the books referenced by the playlist, in library order,
// dropping member ids that no longer resolve.
func Resolve(pl Playlist, books []*item.Book) []*item.Book {
	if len(pl.MemberIDs) == 0 {
		return nil
	}
	members := make(map[string]struct{}, len(pl.MemberIDs))
	for _, id := range pl.MemberIDs {
		members[id] = struct{}{}
	}
	out := make([]*item.Book, 0, len(members))
	for _, b := range books {
		if _, ok := members[b.ID]; ok {
			out = append(out, b)
		}
	}
	return out
}

func dedup(ids []string) []string {
	if len(ids) == 0 {
		return ids
	}
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
