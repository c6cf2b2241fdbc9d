// Package item defines the library record types: e-books and audio books.
package item

import (
	"fmt"
	"strings"
)

// Kind selects between the two record namespaces in the store.
type Kind string

const (
	// KindBook is a PDF e-book record.
	KindBook Kind = "book"
	// KindAudio is an audio book record.
	KindAudio Kind = "audio"
)

// KeyPrefix returns the store key prefix for this kind, e.g. "book-".
func (k Kind) KeyPrefix() string {
	return string(k) + "-"
}

// ParseKind converts a string to a Kind or returns an error for unknown values.
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "book", "ebook", "pdf":
		return KindBook, nil
	case "audio", "audiobook", "mp3":
		return KindAudio, nil
	}
	return "", fmt.Errorf("item: unknown kind %q", raw)
}

// Tag is one of the independent boolean status flags on a record.
type Tag string

const (
	// TagFavorite marks an item as a favorite.
	TagFavorite Tag = "favorite"
	// TagNeedToRead marks an item for the to-read shelf.
	TagNeedToRead Tag = "needToRead"
	// TagFinished marks a book as finished. Books only.
	TagFinished Tag = "finished"
)

// AllTags returns the supported tags in display order.
func AllTags() []Tag {
	return []Tag{TagFavorite, TagNeedToRead, TagFinished}
}

// ParseTag converts a string to a Tag or returns an error for unknown values.
func ParseTag(raw string) (Tag, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "favorite", "fav":
		return TagFavorite, nil
	case "needtoread", "toread", "need-to-read":
		return TagNeedToRead, nil
	case "finished", "done":
		return TagFinished, nil
	}
	return "", fmt.Errorf("item: unknown tag %q", raw)
}

// Book is a user-uploaded PDF e-book. Path is the in-session handle to the
// stored binary and is rebuilt on load; it does not round-trip through the
// store.
type Book struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Path       string `json:"-"`
	Cover      []byte `json:"cover,omitempty"`
	CoverURL   string `json:"coverURL,omitempty"`
	Favorite   bool   `json:"favorite"`
	NeedToRead bool   `json:"needToRead"`
	Finished   bool   `json:"finished"`
	Example    bool   `json:"-"`
}

// Has reports whether the given tag is set.
func (b *Book) Has(tag Tag) bool {
	switch tag {
	case TagFavorite:
		return b.Favorite
	case TagNeedToRead:
		return b.NeedToRead
	case TagFinished:
		return b.Finished
	}
	return false
}

// Toggle flips the given tag and reports whether it applied. Each tag is
// independent of the others.
func (b *Book) Toggle(tag Tag) bool {
	switch tag {
	case TagFavorite:
		b.Favorite = !b.Favorite
	case TagNeedToRead:
		b.NeedToRead = !b.NeedToRead
	case TagFinished:
		b.Finished = !b.Finished
	default:
		return false
	}
	return true
}

// AudioItem is a user-uploaded audio book. It carries no finished flag and no
// cover.
type AudioItem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Path       string `json:"-"`
	Favorite   bool   `json:"favorite"`
	NeedToRead bool   `json:"needToRead"`
}

// Has reports whether the given tag is set.
func (a *AudioItem) Has(tag Tag) bool {
	switch tag {
	case TagFavorite:
		return a.Favorite
	case TagNeedToRead:
		return a.NeedToRead
	}
	return false
}

// Toggle flips the given tag and reports whether it applied. Finished is not
// a valid audio tag.
func (a *AudioItem) Toggle(tag Tag) bool {
	switch tag {
	case TagFavorite:
		a.Favorite = !a.Favorite
	case TagNeedToRead:
		a.NeedToRead = !a.NeedToRead
	default:
		return false
	}
	return true
}

// ExampleBooks returns the seed set shown while the library is empty. Example
// records are never persisted and ignore tag and delete operations; they are
// displaced for good once a real book is uploaded.
func ExampleBooks() []*Book {
	return []*Book{
		{
			ID:       "example-1",
			Title:    "The Great Gatsby",
			CoverURL: "https://covers.openlibrary.org/b/id/7222246-L.jpg",
			Example:  true,
		},
		{
			ID:       "example-2",
			Title:    "Moby Dick",
			CoverURL: "https://covers.openlibrary.org/b/id/8100921-L.jpg",
			Example:  true,
		},
		{
			ID:       "example-3",
			Title:    "Pride and Prejudice",
			CoverURL: "https://covers.openlibrary.org/b/id/8231856-L.jpg",
			Example:  true,
		},
	}
}
