package playlist

import (
	"context"
	"sort"
	"sync"
	"testing"

	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/store"
)

type fakePersistence struct {
	mu      sync.Mutex
	records map[string][]byte
}

func newFakePersistence() *fakePersistence {
	return &fakePersistence{records: make(map[string][]byte)}
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

func (f *fakePersistence) WriteBlob(key, src string) (string, error) { return "/blobs/" + key, nil }
func (f *fakePersistence) BlobPath(key string) string                { return "/blobs/" + key }
func (f *fakePersistence) RemoveBlob(key string) error               { return nil }

func (f *fakePersistence) Watch(context.Context) (<-chan store.Event, error) {
	ch := make(chan store.Event)
	close(ch)
	return ch, nil
}

func TestLoadEmptyStore(t *testing.T) {
	m := NewManager(newFakePersistence())
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := m.All(); len(got) != 0 {
		t.Fatalf("fresh store has %d playlists, want 0", len(got))
	}
}

func TestCreateRejectsBlankNames(t *testing.T) {
	m := NewManager(newFakePersistence())
	ctx := context.Background()

	tests := []string{"", "   ", "\t\n"}
	for _, name := range tests {
		if _, ok := m.Create(ctx, name); ok {
			t.Errorf("Create(%q) applied, want no-op", name)
		}
	}
	if got := m.All(); len(got) != 0 {
		t.Fatalf("blank names created %d playlists", len(got))
	}
}

func TestCreateTrimsName(t *testing.T) {
	m := NewManager(newFakePersistence())

	pl, ok := m.Create(context.Background(), "  summer reading  ")
	if !ok {
		t.Fatal("Create() reported no-op")
	}
	if pl.Name != "summer reading" {
		t.Fatalf("Create() name = %q, want trimmed", pl.Name)
	}
	if pl.ID == "" {
		t.Fatal("Create() assigned no id")
	}
}

func TestSetMembersUnknownIDIsNoOp(t *testing.T) {
	f := newFakePersistence()
	m := NewManager(f)

	if m.SetMembers(context.Background(), "nope", []string{"b1"}) {
		t.Fatal("SetMembers(unknown) applied, want no-op")
	}
	if _, ok := f.records[store.PlaylistsKey]; ok {
		t.Fatal("no-op still persisted")
	}
}

func TestSetMembersDeduplicates(t *testing.T) {
	m := NewManager(newFakePersistence())
	ctx := context.Background()

	pl, _ := m.Create(ctx, "reading")
	if !m.SetMembers(ctx, pl.ID, []string{"b1", "b2", "b1", "b2", "b3"}) {
		t.Fatal("SetMembers() reported no-op")
	}
	got, _ := m.Get(pl.ID)
	want := []string{"b1", "b2", "b3"}
	if len(got.MemberIDs) != len(want) {
		t.Fatalf("members = %v, want %v", got.MemberIDs, want)
	}
	for i, id := range want {
		if got.MemberIDs[i] != id {
			t.Fatalf("members = %v, want %v", got.MemberIDs, want)
		}
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	f := newFakePersistence()
	ctx := context.Background()

	m := NewManager(f)
	pl, _ := m.Create(ctx, "reading")
	m.SetMembers(ctx, pl.ID, []string{"b1", "b2"})
	m.Create(ctx, "later")

	// A fresh manager over the same store sees the whole set.
	m2 := NewManager(f)
	if err := m2.Load(ctx); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	all := m2.All()
	if len(all) != 2 {
		t.Fatalf("reloaded %d playlists, want 2", len(all))
	}
	got, ok := m2.Get(pl.ID)
	if !ok {
		t.Fatalf("playlist %s missing after reload", pl.ID)
	}
	if len(got.MemberIDs) != 2 {
		t.Fatalf("members = %v, want 2 ids", got.MemberIDs)
	}
}

func TestUnmarshalListEmpty(t *testing.T) {
	lists, err := UnmarshalList(nil)
	if err != nil {
		t.Fatalf("UnmarshalList(nil) error: %v", err)
	}
	if len(lists) != 0 {
		t.Fatalf("UnmarshalList(nil) = %v, want empty", lists)
	}

	if _, err := UnmarshalList([]byte("{broken")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestResolveFiltersStaleMembers(t *testing.T) {
	books := []*item.Book{
		{ID: "b1", Title: "alpha"},
		{ID: "b2", Title: "beta"},
		{ID: "b3", Title: "gamma"},
	}
	pl := Playlist{ID: "p1", Name: "reading", MemberIDs: []string{"b3", "gone", "b1"}}

	got := Resolve(pl, books)
	if len(got) != 2 {
		t.Fatalf("Resolve() = %d books, want 2", len(got))
	}
	// Library order wins, not membership order.
	if got[0].ID != "b1" || got[1].ID != "b3" {
		t.Fatalf("Resolve() order = %s, %s; want b1, b3", got[0].ID, got[1].ID)
	}
}

func TestResolveEmptyMembership(t *testing.T) {
	books := []*item.Book{{ID: "b1", Title: "alpha"}}
	if got := Resolve(Playlist{ID: "p1"}, books); len(got) != 0 {
		t.Fatalf("Resolve(empty) = %d books, want 0", len(got))
	}
}
