// Package library owns the canonical in-memory collections of books and
// audio items and keeps them write-through consistent with the store.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/store"
)

// CoverFunc derives a preview image from the document at path. A failure
// means "no cover" to callers; it never aborts an upload.
type CoverFunc func(path string) ([]byte, error)

// Service is the library state manager. In-memory collections are mutated
// only under the service mutex and always by slice replacement, so snapshots
// already handed out stay consistent. Persistence is write-through: every
// mutation re-persists the full record, and a confirmed write failure is
// logged while the optimistic in-memory state stands.
type Service struct {
	mu    sync.RWMutex
	p     store.Persistence
	cover CoverFunc

	books []*item.Book
	audio []*item.AudioItem

	// displaced flips once a real book has been seen this session; after
	// that an empty scan stays empty instead of re-seeding the examples.
	displaced bool
}

// NewService creates a Service over the given persistence. cover may be nil,
// in which case uploads never get covers.
func NewService(p store.Persistence, cover CoverFunc) *Service {
	return &Service{p: p, cover: cover}
}

// Load scans the store for book and audio records, rebuilds the in-session
// binary handles, and replaces the in-memory collections. An empty book set
// is seeded with the example books, unless a real book was already seen this
// session; audio has no example fallback.
func (s *Service) Load(ctx context.Context) error {
	if s.p == nil {
		return errors.New("library: no persistence configured")
	}

	books := make([]*item.Book, 0)
	audio := make([]*item.AudioItem, 0)
	for _, key := range s.p.Keys(ctx) {
		switch {
		case strings.HasPrefix(key, item.KindBook.KeyPrefix()):
			b, err := s.readBook(ctx, key)
			if err != nil {
				fmt.Fprintf(os.Stderr, "library: %s: %v\n", key, err)
				continue
			}
			books = append(books, b)
		case strings.HasPrefix(key, item.KindAudio.KeyPrefix()):
			a, err := s.readAudio(ctx, key)
			if err != nil {
				fmt.Fprintf(os.Stderr, "library: %s: %v\n", key, err)
				continue
			}
			audio = append(audio, a)
		}
	}

	sort.SliceStable(books, func(i, j int) bool {
		ti, tj := strings.ToLower(books[i].Title), strings.ToLower(books[j].Title)
		if ti == tj {
			return books[i].ID < books[j].ID
		}
		return ti < tj
	})
	sort.SliceStable(audio, func(i, j int) bool {
		ti, tj := strings.ToLower(audio[i].Title), strings.ToLower(audio[j].Title)
		if ti == tj {
			return audio[i].ID < audio[j].ID
		}
		return ti < tj
	})

	s.mu.Lock()
	if len(books) > 0 {
		s.displaced = true
	} else if !s.displaced {
		books = item.ExampleBooks()
	}
	s.books = books
	s.audio = audio
	s.mu.Unlock()
	return nil
}

func (s *Service) readBook(ctx context.Context, key string) (*item.Book, error) {
	data, err := s.p.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	b := &item.Book{}
	if err := json.Unmarshal(data, b); err != nil {
		return nil, err
	}
	// The key is authoritative for the id; the blob path is session-scoped
	// and rebuilt on every load.
	b.ID = strings.TrimPrefix(key, item.KindBook.KeyPrefix())
	b.Path = s.p.BlobPath(key)
	return b, nil
}

func (s *Service) readAudio(ctx context.Context, key string) (*item.AudioItem, error) {
	data, err := s.p.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	a := &item.AudioItem{}
	if err := json.Unmarshal(data, a); err != nil {
		return nil, err
	}
	a.ID = strings.TrimPrefix(key, item.KindAudio.KeyPrefix())
	a.Path = s.p.BlobPath(key)
	return a, nil
}

// Books returns a snapshot of the book collection.
func (s *Service) Books() []*item.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*item.Book, len(s.books))
	copy(out, s.books)
	return out
}

// Audio returns a snapshot of the audio collection.
func (s *Service) Audio() []*item.AudioItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*item.AudioItem, len(s.audio))
	copy(out, s.audio)
	return out
}

// Upload ingests the given files as one batch. Each file runs its own
// pipeline (copy into the store, cover render for books, persist); one
// file's failure never cancels its siblings, and a cover failure only means
// the record has no cover. The visible collection is updated once, after the
// whole batch settles, so partial batches are never observable. The first
// successful book upload permanently displaces the example set.
func (s *Service) Upload(ctx context.Context, paths []string, kind item.Kind) (int, error) {
	if s.p == nil {
		return 0, errors.New("library: no persistence configured")
	}
	if len(paths) == 0 {
		return 0, nil
	}

	switch kind {
	case item.KindBook:
		books := make([]*item.Book, len(paths))
		errs := make([]error, len(paths))
		var wg sync.WaitGroup
		for i, path := range paths {
			wg.Add(1)
			go func(i int, path string) {
				defer wg.Done()
				books[i], errs[i] = s.ingestBook(ctx, path)
			}(i, path)
		}
		wg.Wait()

		added := make([]*item.Book, 0, len(paths))
		for _, b := range books {
			if b != nil {
				added = append(added, b)
			}
		}
		if len(added) > 0 {
			s.mu.Lock()
			next := make([]*item.Book, 0, len(s.books)+len(added))
			for _, b := range s.books {
				if !b.Example {
					next = append(next, b)
				}
			}
			next = append(next, added...)
			s.books = next
			s.displaced = true
			s.mu.Unlock()
		}
		return len(added), errors.Join(errs...)

	case item.KindAudio:
		items := make([]*item.AudioItem, len(paths))
		errs := make([]error, len(paths))
		var wg sync.WaitGroup
		for i, path := range paths {
			wg.Add(1)
			go func(i int, path string) {
				defer wg.Done()
				items[i], errs[i] = s.ingestAudio(ctx, path)
			}(i, path)
		}
		wg.Wait()

		added := make([]*item.AudioItem, 0, len(paths))
		for _, a := range items {
			if a != nil {
				added = append(added, a)
			}
		}
		s.mu.Lock()
		next := make([]*item.AudioItem, 0, len(s.audio)+len(added))
		next = append(next, s.audio...)
		next = append(next, added...)
		s.audio = next
		s.mu.Unlock()
		return len(added), errors.Join(errs...)
	}

	return 0, fmt.Errorf("library: unknown kind %q", kind)
}

func (s *Service) ingestBook(ctx context.Context, path string) (*item.Book, error) {
	id := uuid.NewString()
	key := item.KindBook.KeyPrefix() + id

	stored, err := s.p.WriteBlob(key, path)
	if err != nil {
		return nil, fmt.Errorf("library: ingest %s: %w", filepath.Base(path), err)
	}

	b := &item.Book{
		ID:    id,
		Title: filepath.Base(path),
		Path:  stored,
	}
	if s.cover != nil {
		cover, err := s.cover(stored)
		if err != nil {
			// No cover is not an error state; the upload proceeds without.
			fmt.Fprintf(os.Stderr, "library: cover %s: %v\n", b.Title, err)
		} else {
			b.Cover = cover
		}
	}

	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("library: encode %s: %w", b.Title, err)
	}
	if err := s.p.Set(ctx, key, data); err != nil {
		return nil, fmt.Errorf("library: persist %s: %w", b.Title, err)
	}
	return b, nil
}

func (s *Service) ingestAudio(ctx context.Context, path string) (*item.AudioItem, error) {
	id := uuid.NewString()
	key := item.KindAudio.KeyPrefix() + id

	stored, err := s.p.WriteBlob(key, path)
	if err != nil {
		return nil, fmt.Errorf("library: ingest %s: %w", filepath.Base(path), err)
	}

	a := &item.AudioItem{
		ID:    id,
		Title: filepath.Base(path),
		Path:  stored,
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("library: encode %s: %w", a.Title, err)
	}
	if err := s.p.Set(ctx, key, data); err != nil {
		return nil, fmt.Errorf("library: persist %s: %w", a.Title, err)
	}
	return a, nil
}

// ToggleTag flips exactly one tag on one item and re-persists the whole
// record. Unknown ids, example items, and tags the kind does not carry are
// silent no-ops. It reports whether a flag changed.
func (s *Service) ToggleTag(ctx context.Context, id string, tag item.Tag) bool {
	s.mu.Lock()

	for i, b := range s.books {
		if b.ID != id {
			continue
		}
		if b.Example {
			s.mu.Unlock()
			return false
		}
		updated := *b
		if !updated.Toggle(tag) {
			s.mu.Unlock()
			return false
		}
		next := make([]*item.Book, len(s.books))
		copy(next, s.books)
		next[i] = &updated
		s.books = next
		s.mu.Unlock()

		s.persistBook(ctx, &updated)
		return true
	}

	for i, a := range s.audio {
		if a.ID != id {
			continue
		}
		updated := *a
		if !updated.Toggle(tag) {
			s.mu.Unlock()
			return false
		}
		next := make([]*item.AudioItem, len(s.audio))
		copy(next, s.audio)
		next[i] = &updated
		s.audio = next
		s.mu.Unlock()

		s.persistAudio(ctx, &updated)
		return true
	}

	s.mu.Unlock()
	return false
}

func (s *Service) persistBook(ctx context.Context, b *item.Book) {
	data, err := json.Marshal(b)
	if err != nil {
		fmt.Fprintf(os.Stderr, "library: encode %s: %v\n", b.Title, err)
		return
	}
	if err := s.p.Set(ctx, item.KindBook.KeyPrefix()+b.ID, data); err != nil {
		fmt.Fprintf(os.Stderr, "library: persist %s: %v\n", b.Title, err)
	}
}

func (s *Service) persistAudio(ctx context.Context, a *item.AudioItem) {
	data, err := json.Marshal(a)
	if err != nil {
		fmt.Fprintf(os.Stderr, "library: encode %s: %v\n", a.Title, err)
		return
	}
	if err := s.p.Set(ctx, item.KindAudio.KeyPrefix()+a.ID, data); err != nil {
		fmt.Fprintf(os.Stderr, "library: persist %s: %v\n", a.Title, err)
	}
}

// Delete removes the item from the in-memory collection, the store, and the
// blob area. Deleting an unknown id is a no-op, as is deleting an example
// item, which never touches the store.
func (s *Service) Delete(ctx context.Context, id string, kind item.Kind) bool {
	s.mu.Lock()

	switch kind {
	case item.KindBook:
		idx := -1
		for i, b := range s.books {
			if b.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 || s.books[idx].Example {
			s.mu.Unlock()
			return false
		}
		next := make([]*item.Book, 0, len(s.books)-1)
		next = append(next, s.books[:idx]...)
		next = append(next, s.books[idx+1:]...)
		s.books = next
	case item.KindAudio:
		idx := -1
		for i, a := range s.audio {
			if a.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			s.mu.Unlock()
			return false
		}
		next := make([]*item.AudioItem, 0, len(s.audio)-1)
		next = append(next, s.audio[:idx]...)
		next = append(next, s.audio[idx+1:]...)
		s.audio = next
	default:
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	key := kind.KeyPrefix() + id
	if err := s.p.Delete(ctx, key); err != nil {
		fmt.Fprintf(os.Stderr, "library: delete %s: %v\n", key, err)
	}
	if err := s.p.RemoveBlob(key); err != nil {
		fmt.Fprintf(os.Stderr, "library: %v\n", err)
	}
	return true
}

// Filter returns the books whose title contains search (case-insensitive)
// and that carry the given tag. An empty tag means no tag predicate. The
// projection is pure: order is preserved and no state is mutated.
func (s *Service) Filter(tag item.Tag, search string) []*item.Book {
	needle := strings.ToLower(search)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*item.Book, 0, len(s.books))
	for _, b := range s.books {
		if tag != "" && !b.Has(tag) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(b.Title), needle) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// FilterAudio is Filter for the audio collection.
func (s *Service) FilterAudio(tag item.Tag, search string) []*item.AudioItem {
	needle := strings.ToLower(search)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*item.AudioItem, 0, len(s.audio))
	for _, a := range s.audio {
		if tag != "" && !a.Has(tag) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(a.Title), needle) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Book returns the book with the given id.
func (s *Service) Book(id string) (*item.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.books {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}
