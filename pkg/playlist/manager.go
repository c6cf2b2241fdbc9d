package playlist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"tableflip.dev/shelf/pkg/store"
)

// Manager owns the in-memory playlist set. Every mutation rewrites the whole
// serialized set under the flat playlists key; there is no dirty tracking and
// no partial save.
type Manager struct {
	mu sync.RWMutex
	p  store.Persistence

	lists []Playlist
}

// NewManager creates a Manager over the given persistence.
func NewManager(p store.Persistence) *Manager {
	return &Manager{p: p}
}

// Load replaces the in-memory set with the persisted one. A missing key means
// an empty set, not an error.
func (m *Manager) Load(ctx context.Context) error {
	if m.p == nil {
		return errors.New("playlist: no persistence configured")
	}
	data, err := m.p.Get(ctx, store.PlaylistsKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			m.mu.Lock()
			m.lists = nil
			m.mu.Unlock()
			return nil
		}
		return fmt.Errorf("playlist: load: %w", err)
	}
	lists, err := UnmarshalList(data)
	if err != nil {
		return fmt.Errorf("playlist: decode: %w", err)
	}
	m.mu.Lock()
	m.lists = lists
	m.mu.Unlock()
	return nil
}

// All returns a snapshot of the playlist set.
func (m *Manager) All() []Playlist {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Playlist, len(m.lists))
	copy(out, m.lists)
	return out
}

// Get returns the playlist with the given id.
func (m *Manager) Get(id string) (Playlist, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, pl := range m.lists {
		if pl.ID == id {
			return pl, true
		}
	}
	return Playlist{}, false
}

// Create appends a playlist with a fresh id and empty membership. A name that
// is empty after trimming is rejected as a silent no-op.
func (m *Manager) Create(ctx context.Context, name string) (Playlist, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Playlist{}, false
	}
	m.mu.Lock()
	pl := Playlist{ID: uuid.NewString(), Name: name, MemberIDs: []string{}}
	next := make([]Playlist, 0, len(m.lists)+1)
	next = append(next, m.lists...)
	next = append(next, pl)
	m.lists = next
	m.mu.Unlock()

	m.persist(ctx)
	return pl, true
}

// SetMembers replaces a playlist's membership wholesale. Duplicates collapse;
// an unknown playlist id is a silent no-op.
func (m *Manager) SetMembers(ctx context.Context, id string, memberIDs []string) bool {
	m.mu.Lock()
	idx := -1
	for i, pl := range m.lists {
		if pl.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return false
	}
	next := make([]Playlist, len(m.lists))
	copy(next, m.lists)
	next[idx].MemberIDs = dedup(append([]string(nil), memberIDs...))
	m.lists = next
	m.mu.Unlock()

	m.persist(ctx)
	return true
}

// persist rewrites the entire serialized set. Failures are logged and the
// optimistic in-memory state stands.
func (m *Manager) persist(ctx context.Context) {
	if m.p == nil {
		return
	}
	m.mu.RLock()
	lists := make([]Playlist, len(m.lists))
	copy(lists, m.lists)
	m.mu.RUnlock()

	data, err := MarshalList(lists)
	if err != nil {
		fmt.Fprintf(os.Stderr, "playlist: encode: %v\n", err)
		return
	}
	if err := m.p.Set(ctx, store.PlaylistsKey, data); err != nil {
		fmt.Fprintf(os.Stderr, "playlist: persist: %v\n", err)
	}
}
