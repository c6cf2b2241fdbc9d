package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/store"
)

// fakePersistence is an in-memory store.Persistence for tests. Blobs are
// tracked by key only; WriteBlob never touches the filesystem.
type fakePersistence struct {
	mu      sync.Mutex
	records map[string][]byte
	blobs   map[string]string

	failSet  bool
	failBlob bool
}

func newFakePersistence() *fakePersistence {
	return &fakePersistence{
		records: make(map[string][]byte),
		blobs:   make(map[string]string),
	}
}

func (f *fakePersistence) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.records[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return val, nil
}

func (f *fakePersistence) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet {
		return errors.New("store: write failed")
	}
	f.records[key] = value
	return nil
}

func (f *fakePersistence) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, key)
	return nil
}

func (f *fakePersistence) Keys(_ context.Context) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.records))
	for key := range f.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (f *fakePersistence) WriteBlob(key, src string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failBlob {
		return "", errors.New("store: copy failed")
	}
	f.blobs[key] = src
	return "/blobs/" + key, nil
}

func (f *fakePersistence) BlobPath(key string) string {
	return "/blobs/" + key
}

func (f *fakePersistence) RemoveBlob(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, key)
	return nil
}

func (f *fakePersistence) Watch(context.Context) (<-chan store.Event, error) {
	ch := make(chan store.Event)
	close(ch)
	return ch, nil
}

func seedBook(t *testing.T, f *fakePersistence, b item.Book) {
	t.Helper()
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal book: %v", err)
	}
	f.records[item.KindBook.KeyPrefix()+b.ID] = data
}

func seedAudio(t *testing.T, f *fakePersistence, a item.AudioItem) {
	t.Helper()
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal audio: %v", err)
	}
	f.records[item.KindAudio.KeyPrefix()+a.ID] = data
}

func TestLoadEmptyLibraryShowsExamples(t *testing.T) {
	s := NewService(newFakePersistence(), nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	books := s.Books()
	if len(books) != 3 {
		t.Fatalf("expected 3 example books, got %d", len(books))
	}
	for _, b := range books {
		if !b.Example {
			t.Errorf("expected example book, got %q", b.Title)
		}
	}
	if audio := s.Audio(); len(audio) != 0 {
		t.Errorf("expected no audio items, got %d", len(audio))
	}
}

func TestLoadSortsByTitle(t *testing.T) {
	f := newFakePersistence()
	seedBook(t, f, item.Book{ID: "b1", Title: "zebra.pdf"})
	seedBook(t, f, item.Book{ID: "b2", Title: "Alpha.pdf"})
	seedBook(t, f, item.Book{ID: "b3", Title: "mango.pdf"})

	s := NewService(f, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Ordering ignores case: "Alpha" sorts before the lowercase titles.
	books := s.Books()
	want := []string{"Alpha.pdf", "mango.pdf", "zebra.pdf"}
	if len(books) != len(want) {
		t.Fatalf("expected %d books, got %d", len(want), len(books))
	}
	for i, title := range want {
		if books[i].Title != title {
			t.Errorf("books[%d] = %q, want %q", i, books[i].Title, title)
		}
	}
}

func TestLoadSkipsCorruptRecords(t *testing.T) {
	f := newFakePersistence()
	seedBook(t, f, item.Book{ID: "good", Title: "good.pdf"})
	f.records["book-bad"] = []byte("{not json")

	s := NewService(f, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	books := s.Books()
	if len(books) != 1 || books[0].ID != "good" {
		t.Fatalf("expected the single good record, got %d books", len(books))
	}
}

func TestUploadDisplacesExamples(t *testing.T) {
	f := newFakePersistence()
	s := NewService(f, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	added, err := s.Upload(context.Background(), []string{"/tmp/real.pdf"}, item.KindBook)
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected 1 added, got %d", added)
	}

	books := s.Books()
	if len(books) != 1 {
		t.Fatalf("expected examples displaced, got %d books", len(books))
	}
	if books[0].Title != "real.pdf" || books[0].Example {
		t.Errorf("unexpected surviving book %+v", books[0])
	}

	// Deleting the only real book must not resurrect the examples.
	if !s.Delete(context.Background(), books[0].ID, item.KindBook) {
		t.Fatal("Delete() reported no-op for a real book")
	}
	if rest := s.Books(); len(rest) != 0 {
		t.Errorf("expected empty library after delete, got %d books", len(rest))
	}
}

func TestUploadWhollyFailedBatchKeepsExamples(t *testing.T) {
	f := newFakePersistence()
	s := NewService(f, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	f.failBlob = true
	added, err := s.Upload(context.Background(), []string{"/tmp/doomed.pdf"}, item.KindBook)
	if err == nil {
		t.Fatal("Upload() reported success for a failed ingest")
	}
	if added != 0 {
		t.Fatalf("expected 0 added, got %d", added)
	}

	books := s.Books()
	if len(books) != 3 {
		t.Fatalf("failed batch changed the visible set: %d books, want 3 examples", len(books))
	}
	for _, b := range books {
		if !b.Example {
			t.Errorf("expected example book, got %q", b.Title)
		}
	}
}

func TestReloadAfterDeleteDoesNotReseedExamples(t *testing.T) {
	f := newFakePersistence()
	s := NewService(f, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if _, err := s.Upload(context.Background(), []string{"/tmp/only.pdf"}, item.KindBook); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	only := s.Books()[0]
	if !s.Delete(context.Background(), only.ID, item.KindBook) {
		t.Fatal("Delete() reported no-op")
	}

	// A reload of the now-empty store within the same session stays empty.
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if books := s.Books(); len(books) != 0 {
		t.Errorf("reload reseeded %d example books, want none", len(books))
	}

	// A fresh service over the same empty store seeds again.
	s2 := NewService(f, nil)
	if err := s2.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if books := s2.Books(); len(books) != 3 {
		t.Errorf("fresh load seeded %d books, want 3 examples", len(books))
	}
}

func TestUploadBatchSurvivesCoverFailure(t *testing.T) {
	f := newFakePersistence()

	var mu sync.Mutex
	rendered := make(map[string]bool)
	s := NewService(f, func(path string) ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		src := ""
		f.mu.Lock()
		for key, blobSrc := range f.blobs {
			if f.BlobPath(key) == path {
				src = blobSrc
			}
		}
		f.mu.Unlock()
		rendered[src] = true
		if strings.Contains(src, "broken") {
			return nil, errors.New("cover: no pages")
		}
		return []byte("png"), nil
	})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	paths := []string{"/tmp/a.pdf", "/tmp/broken.pdf", "/tmp/c.pdf"}
	added, err := s.Upload(context.Background(), paths, item.KindBook)
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if added != 3 {
		t.Fatalf("expected all 3 uploads to land, got %d", added)
	}
	for _, p := range paths {
		if !rendered[p] {
			t.Errorf("cover was not attempted for %s", p)
		}
	}

	for _, b := range s.Books() {
		wantCover := b.Title != "broken.pdf"
		if got := len(b.Cover) > 0; got != wantCover {
			t.Errorf("%s: cover present = %v, want %v", b.Title, got, wantCover)
		}
	}
}

func TestUploadPersistsRecords(t *testing.T) {
	f := newFakePersistence()
	s := NewService(f, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if _, err := s.Upload(context.Background(), []string{"/tmp/keep.pdf"}, item.KindBook); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	// A fresh service over the same store must see the upload.
	s2 := NewService(f, nil)
	if err := s2.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	books := s2.Books()
	if len(books) != 1 || books[0].Title != "keep.pdf" {
		t.Fatalf("expected persisted upload to reload, got %d books", len(books))
	}
	if books[0].Path == "" {
		t.Error("expected reloaded book to have a rebuilt blob path")
	}
}

func TestUploadAudio(t *testing.T) {
	f := newFakePersistence()
	s := NewService(f, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	added, err := s.Upload(context.Background(), []string{"/tmp/cast.mp3"}, item.KindAudio)
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected 1 added, got %d", added)
	}
	audio := s.Audio()
	if len(audio) != 1 || audio[0].Title != "cast.mp3" {
		t.Fatalf("unexpected audio collection: %+v", audio)
	}
	// Audio uploads must not displace the book examples.
	if books := s.Books(); len(books) != 3 {
		t.Errorf("expected example books untouched, got %d", len(books))
	}
}

func TestToggleTagIndependence(t *testing.T) {
	f := newFakePersistence()
	seedBook(t, f, item.Book{ID: "b1", Title: "one.pdf"})

	s := NewService(f, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	ctx := context.Background()
	if !s.ToggleTag(ctx, "b1", item.TagFavorite) {
		t.Fatal("ToggleTag(favorite) reported no-op")
	}
	if !s.ToggleTag(ctx, "b1", item.TagFinished) {
		t.Fatal("ToggleTag(finished) reported no-op")
	}

	b, ok := s.Book("b1")
	if !ok {
		t.Fatal("book disappeared")
	}
	if !b.Favorite || !b.Finished || b.NeedToRead {
		t.Errorf("tags not independent: %+v", b)
	}

	// Toggling back clears only that flag.
	if !s.ToggleTag(ctx, "b1", item.TagFavorite) {
		t.Fatal("ToggleTag(favorite) reported no-op on second flip")
	}
	b, _ = s.Book("b1")
	if b.Favorite || !b.Finished {
		t.Errorf("second toggle disturbed other tags: %+v", b)
	}
}

func TestToggleTagNoOps(t *testing.T) {
	f := newFakePersistence()
	seedAudio(t, f, item.AudioItem{ID: "a1", Title: "cast.mp3"})

	s := NewService(f, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	ctx := context.Background()
	tests := []struct {
		name string
		id   string
		tag  item.Tag
	}{
		{name: "unknown id", id: "nope", tag: item.TagFavorite},
		{name: "finished on audio", id: "a1", tag: item.TagFinished},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if s.ToggleTag(ctx, tc.id, tc.tag) {
				t.Errorf("ToggleTag(%s, %s) applied, want no-op", tc.id, tc.tag)
			}
		})
	}
}

func TestExampleBooksIgnoreMutations(t *testing.T) {
	f := newFakePersistence()
	s := NewService(f, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	ctx := context.Background()
	if s.ToggleTag(ctx, "example-1", item.TagFavorite) {
		t.Error("ToggleTag on an example book applied, want no-op")
	}
	if s.Delete(ctx, "example-1", item.KindBook) {
		t.Error("Delete on an example book applied, want no-op")
	}
	if len(f.records) != 0 {
		t.Errorf("example mutation touched the store: %d records", len(f.records))
	}
	if books := s.Books(); len(books) != 3 {
		t.Errorf("expected 3 example books, got %d", len(books))
	}
}

func TestToggleTagKeepsOptimisticStateOnWriteFailure(t *testing.T) {
	f := newFakePersistence()
	seedBook(t, f, item.Book{ID: "b1", Title: "one.pdf"})

	s := NewService(f, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	f.failSet = true
	if !s.ToggleTag(context.Background(), "b1", item.TagFavorite) {
		t.Fatal("ToggleTag reported no-op")
	}
	b, _ := s.Book("b1")
	if !b.Favorite {
		t.Error("in-memory state rolled back on write failure, want optimistic")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	f := newFakePersistence()
	seedBook(t, f, item.Book{ID: "b1", Title: "one.pdf"})

	s := NewService(f, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	ctx := context.Background()
	if !s.Delete(ctx, "b1", item.KindBook) {
		t.Fatal("first Delete reported no-op")
	}
	if s.Delete(ctx, "b1", item.KindBook) {
		t.Error("second Delete applied, want no-op")
	}
	if _, ok := f.records["book-b1"]; ok {
		t.Error("record survived delete")
	}
	if _, ok := f.blobs["book-b1"]; ok {
		t.Error("blob survived delete")
	}
}

func TestFilter(t *testing.T) {
	f := newFakePersistence()
	seedBook(t, f, item.Book{ID: "b1", Title: "Alpha Guide.pdf", Favorite: true})
	seedBook(t, f, item.Book{ID: "b2", Title: "beta notes.pdf", Favorite: true, Finished: true})
	seedBook(t, f, item.Book{ID: "b3", Title: "Gamma Alphabet.pdf"})

	s := NewService(f, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	tests := []struct {
		name   string
		tag    item.Tag
		search string
		want   []string
	}{
		{name: "no filters", want: []string{"b1", "b2", "b3"}},
		{name: "favorites only", tag: item.TagFavorite, want: []string{"b1", "b2"}},
		{name: "finished only", tag: item.TagFinished, want: []string{"b2"}},
		{name: "search case-insensitive", search: "ALPHA", want: []string{"b1", "b3"}},
		{name: "tag and search", tag: item.TagFavorite, search: "beta", want: []string{"b2"}},
		{name: "no match", search: "delta", want: []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Filter(tc.tag, tc.search)
			ids := make([]string, len(got))
			for i, b := range got {
				ids[i] = b.ID
			}
			if fmt.Sprint(ids) != fmt.Sprint(tc.want) {
				t.Errorf("Filter(%q, %q) = %v, want %v", tc.tag, tc.search, ids, tc.want)
			}
		})
	}
}

func TestFilterAudio(t *testing.T) {
	f := newFakePersistence()
	seedAudio(t, f, item.AudioItem{ID: "a1", Title: "Morning Cast.mp3", Favorite: true})
	seedAudio(t, f, item.AudioItem{ID: "a2", Title: "Night Cast.mp3"})

	s := NewService(f, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	got := s.FilterAudio(item.TagFavorite, "")
	if len(got) != 1 || got[0].ID != "a1" {
		t.Errorf("FilterAudio(favorite) = %d items, want a1 only", len(got))
	}
	got = s.FilterAudio("", "night")
	if len(got) != 1 || got[0].ID != "a2" {
		t.Errorf("FilterAudio(search) = %d items, want a2 only", len(got))
	}
}
