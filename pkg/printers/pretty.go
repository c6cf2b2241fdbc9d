// Package printers renders library collections for the terminal.
package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/shelf/pkg/feed"
	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/playlist"
)

type PrettyPrint struct {
	ShowID bool
}

var (
	spacing = strings.Repeat(" ", len("171dff69-f8b9-9dca-0000-000000000000  "))
)

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" item")
	default:
		_, _ = c.Println(" items")
	}
}

// Library prints the book collection, one row per book with its tag marks.
func (pp *PrettyPrint) Library(books ...*item.Book) {
	if len(books) == 0 {
		pp.none()
		return
	}

	t := color.New()
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	for _, b := range books {
		if pp.ShowID {
			_, _ = y.Print(b.ID)
			_, _ = y.Print(strings.Repeat(" ", max(len(spacing)-len(b.ID), 1)))
		}
		_, _ = t.Printf("%s %s\n", tagMarks(b), b.Title)
	}
	_, _ = t.Println("")
}

// Audio prints the audio collection.
func (pp *PrettyPrint) Audio(items ...*item.AudioItem) {
	if len(items) == 0 {
		pp.none()
		return
	}

	t := color.New()
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	for _, a := range items {
		if pp.ShowID {
			_, _ = y.Print(a.ID)
			_, _ = y.Print(strings.Repeat(" ", max(len(spacing)-len(a.ID), 1)))
		}
		_, _ = t.Printf("%s %s\n", audioTagMarks(a), a.Title)
	}
	_, _ = t.Println("")
}

// Playlists prints each playlist with its resolved member books.
func (pp *PrettyPrint) Playlists(lists []playlist.Playlist, books []*item.Book) {
	if len(lists) == 0 {
		pp.none()
		return
	}
	for _, pl := range lists {
		members := playlist.Resolve(pl, books)
		pp.TitleWithCount(pl.Name, len(members))
		pp.Library(members...)
	}
}

// Articles prints a feed page as a table.
func (pp *PrettyPrint) Articles(articles ...feed.Article) {
	if len(articles) == 0 {
		pp.none()
		return
	}

	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.MaxColWidth = 80
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Title"), bold.Sprint("By"), bold.Sprint("Link"))
	for _, a := range articles {
		tbl.AddRow(truncate.StringWithTail(a.Title, 80, "…"), a.By, a.Link())
	}

	_, _ = fmt.Fprintln(color.Output, tbl)
	_, _ = fmt.Fprintln(color.Output, "")
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = f.Print(spacing)
	}
	_, _ = f.Print(" none\n\n")
}

// tagMarks renders a compact three-column tag indicator, e.g. "[♥··]".
func tagMarks(b *item.Book) string {
	return "[" + mark(b.Favorite, "♥") + mark(b.NeedToRead, "•") + mark(b.Finished, "✓") + "]"
}

func audioTagMarks(a *item.AudioItem) string {
	return "[" + mark(a.Favorite, "♥") + mark(a.NeedToRead, "•") + " ]"
}

func mark(set bool, glyph string) string {
	if set {
		return glyph
	}
	return "·"
}
