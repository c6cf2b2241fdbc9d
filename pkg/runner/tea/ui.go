// Package teaui implements the interactive shelf terminal UI.
package teaui

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/shelf/pkg/cover"
	"tableflip.dev/shelf/pkg/doc"
	"tableflip.dev/shelf/pkg/feed"
	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/library"
	"tableflip.dev/shelf/pkg/playlist"
	"tableflip.dev/shelf/pkg/store"
)

// Model states and actions
type mode int

const (
	modeNormal mode = iota
	modeInsert
	modeCommand
	modeHelp
	modeViewer
	modeMembers
)

type action int

const (
	actionNone action = iota
	actionSearch
	actionUpload
	actionCreatePlaylist
	actionGotoPage
)

// tab is one of the library views across the top of the UI.
type tab int

const (
	tabHome tab = iota
	tabBooks
	tabFavorites
	tabToRead
	tabFinished
	tabAudio
	tabPlaylists
	tabNews
	tabCount
)

func (t tab) String() string {
	switch t {
	case tabHome:
		return "Home"
	case tabBooks:
		return "Books"
	case tabFavorites:
		return "Favorites"
	case tabToRead:
		return "To Read"
	case tabFinished:
		return "Finished"
	case tabAudio:
		return "Audio"
	case tabPlaylists:
		return "Playlists"
	case tabNews:
		return "News"
	}
	return ""
}

// tag filter applied by the current tab; empty means all.
func (t tab) tag() item.Tag {
	switch t {
	case tabFavorites:
		return item.TagFavorite
	case tabToRead:
		return item.TagNeedToRead
	case tabFinished:
		return item.TagFinished
	}
	return ""
}

// list items

type bookItem struct{ b *item.Book }

func (it bookItem) Title() string {
	marks := ""
	if it.b.Favorite {
		marks += " ♥"
	}
	if it.b.NeedToRead {
		marks += " •"
	}
	if it.b.Finished {
		marks += " ✓"
	}
	return it.b.Title + marks
}
func (it bookItem) Description() string { return "" }
func (it bookItem) FilterValue() string { return it.b.Title }

type audioItem struct{ a *item.AudioItem }

func (it audioItem) Title() string {
	marks := ""
	if it.a.Favorite {
		marks += " ♥"
	}
	if it.a.NeedToRead {
		marks += " •"
	}
	return it.a.Title + marks
}
func (it audioItem) Description() string { return "" }
func (it audioItem) FilterValue() string { return it.a.Title }

type playlistItem struct {
	pl      playlist.Playlist
	members int
}

func (it playlistItem) Title() string {
	return fmt.Sprintf("%s (%d)", it.pl.Name, it.members)
}
func (it playlistItem) Description() string { return "" }
func (it playlistItem) FilterValue() string { return it.pl.Name }

type articleItem struct{ a feed.Article }

func (it articleItem) Title() string       { return it.a.Title }
func (it articleItem) Description() string { return "" }
func (it articleItem) FilterValue() string { return it.a.Title }

// sectionItem is a non-interactive header row on the home tab.
type sectionItem struct{ name string }

func (it sectionItem) Title() string       { return "— " + it.name + " —" }
func (it sectionItem) Description() string { return "" }
func (it sectionItem) FilterValue() string { return "" }

// Model contains UI state
type Model struct {
	svc   *library.Service
	pls   *playlist.Manager
	pager *feed.Paginator
	p     store.Persistence

	ctx    context.Context
	mode   mode
	action action
	tab    tab

	content list.Model
	input   textinput.Model

	search string
	status string

	// playlist drill-in: when set, the playlists tab shows this list's members
	openPlaylist string

	// membership overlay
	memberBook    *item.Book
	memberChoices []playlist.Playlist
	memberSet     map[string]bool
	memberIndex   int

	// viewer
	viewerBook  *item.Book
	viewerDoc   doc.Document
	viewerPage  int
	viewerPages int
	viewerErr   string
	previewPath string

	awaitingDD bool
	lastDTime  time.Time

	termWidth  int
	termHeight int
}

// New creates a new UI model over the given services. pager may be nil, in
// which case the news tab uses the public feed.
func New(svc *library.Service, pls *playlist.Manager, pager *feed.Paginator, p store.Persistence) Model {
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	d.SetSpacing(0)

	l := list.New([]list.Item{}, d, 80, 20)
	l.Title = "Books"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	ti := textinput.New()
	ti.Placeholder = "Type here"
	ti.CharLimit = 256
	ti.Prompt = ""
	ti.Styles.Cursor.Color = lipgloss.Color("218")
	ti.Styles.Cursor.Shape = tea.CursorUnderline

	if pager == nil {
		pager = feed.NewPaginator(feed.NewClient())
	}

	m := Model{
		svc:     svc,
		pls:     pls,
		pager:   pager,
		p:       p,
		ctx:     context.Background(),
		mode:    modeNormal,
		action:  actionNone,
		tab:     tabHome,
		content: l,
		input:   ti,
		status:  "NORMAL: h/l tabs, j/k move, / search, o add, f/n/x tags, dd delete, enter open, ? help",
	}
	return m
}

// Init loads initial data and starts the store watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadLibrary(), m.loadPlaylists(), m.watchStore())
}

// messages
type errMsg struct{ err error }
type libraryLoadedMsg struct{}
type playlistsLoadedMsg struct{}
type newsLoadedMsg struct{}
type storeChangedMsg struct{ events <-chan store.Event }
type pageRenderedMsg struct{ path string }

func (m *Model) loadLibrary() tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.Load(m.ctx); err != nil {
			return errMsg{err}
		}
		return libraryLoadedMsg{}
	}
}

func (m *Model) loadPlaylists() tea.Cmd {
	return func() tea.Msg {
		if err := m.pls.Load(m.ctx); err != nil {
			return errMsg{err}
		}
		return playlistsLoadedMsg{}
	}
}

func (m *Model) loadNextNewsPage() tea.Cmd {
	return func() tea.Msg {
		if err := m.pager.LoadNextPage(m.ctx); err != nil {
			return errMsg{err}
		}
		return newsLoadedMsg{}
	}
}

// watchStore subscribes to persistence change events. Each received event
// reschedules itself so the subscription lives as long as the program.
func (m *Model) watchStore() tea.Cmd {
	if m.p == nil {
		return nil
	}
	return func() tea.Msg {
		events, err := m.p.Watch(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return storeChangedMsg{events: events}
	}
}

func (m *Model) nextStoreEvent(events <-chan store.Event) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		return storeChangedMsg{events: events}
	}
}

// refreshContent rebuilds the visible list from the current tab, search, and
// drill-in state.
func (m *Model) refreshContent() {
	var items []list.Item

	switch m.tab {
	case tabHome:
		items = m.homeItems()
	case tabAudio:
		for _, a := range m.svc.FilterAudio("", m.search) {
			items = append(items, audioItem{a: a})
		}
	case tabPlaylists:
		if m.openPlaylist != "" {
			if pl, ok := m.pls.Get(m.openPlaylist); ok {
				for _, b := range playlist.Resolve(pl, m.svc.Books()) {
					items = append(items, bookItem{b: b})
				}
			}
		} else {
			books := m.svc.Books()
			for _, pl := range m.pls.All() {
				items = append(items, playlistItem{pl: pl, members: len(playlist.Resolve(pl, books))})
			}
		}
	case tabNews:
		for _, a := range m.pager.Articles() {
			items = append(items, articleItem{a: a})
		}
	default:
		for _, b := range m.svc.Filter(m.tab.tag(), m.search) {
			items = append(items, bookItem{b: b})
		}
	}

	m.content.SetItems(items)
	if len(items) > 0 && m.content.Index() >= len(items) {
		m.content.Select(len(items) - 1)
	}
	m.updateTitle()
}

// homeItems composes the overview: a slice of each shelf with favorites from
// both collections at the end.
func (m *Model) homeItems() []list.Item {
	const shelfSize = 5

	var items []list.Item
	books := m.svc.Books()
	audio := m.svc.Audio()

	if len(books) > 0 {
		items = append(items, sectionItem{name: "Books"})
		for i, b := range books {
			if i == shelfSize {
				break
			}
			items = append(items, bookItem{b: b})
		}
	}

	if toRead := m.svc.Filter(item.TagNeedToRead, ""); len(toRead) > 0 {
		items = append(items, sectionItem{name: "Need to Read"})
		for i, b := range toRead {
			if i == shelfSize {
				break
			}
			items = append(items, bookItem{b: b})
		}
	}

	if len(audio) > 0 {
		items = append(items, sectionItem{name: "Audio"})
		for i, a := range audio {
			if i == shelfSize {
				break
			}
			items = append(items, audioItem{a: a})
		}
	}

	favBooks := m.svc.Filter(item.TagFavorite, "")
	favAudio := m.svc.FilterAudio(item.TagFavorite, "")
	if len(favBooks)+len(favAudio) > 0 {
		items = append(items, sectionItem{name: "Favorites"})
		for _, b := range favBooks {
			items = append(items, bookItem{b: b})
		}
		for _, a := range favAudio {
			items = append(items, audioItem{a: a})
		}
	}

	return items
}

func (m *Model) updateTitle() {
	title := m.tab.String()
	if m.tab == tabPlaylists && m.openPlaylist != "" {
		if pl, ok := m.pls.Get(m.openPlaylist); ok {
			title = "Playlist: " + pl.Name
		}
	}
	if m.search != "" {
		title += fmt.Sprintf(" /%s", m.search)
	}
	m.content.Title = title
}

// Update handles messages and keybindings
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	skipListRouting := false

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
	case errMsg:
		m.status = "ERR: " + msg.err.Error()
	case libraryLoadedMsg, playlistsLoadedMsg, newsLoadedMsg:
		m.refreshContent()
	case pageRenderedMsg:
		m.previewPath = msg.path
	case storeChangedMsg:
		cmds = append(cmds, m.loadLibrary(), m.loadPlaylists(), m.nextStoreEvent(msg.events))
	case tea.KeyPressMsg:
		switch m.mode {
		case modeHelp:
			if key := msg.String(); key == "q" || key == "esc" || key == "?" {
				m.mode = modeNormal
				skipListRouting = true
			}
		case modeViewer:
			cmds = append(cmds, m.updateViewer(msg))
			skipListRouting = true
		case modeMembers:
			m.updateMembers(msg)
			skipListRouting = true
		case modeInsert:
			switch msg.String() {
			case "enter":
				cmds = append(cmds, m.commitInsert())
				skipListRouting = true
			case "esc":
				m.mode = modeNormal
				m.action = actionNone
				m.input.Reset()
				m.input.Blur()
				m.status = "Cancelled"
				skipListRouting = true
			default:
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				cmds = append(cmds, cmd)
				if m.action == actionSearch {
					m.search = strings.TrimSpace(m.input.Value())
					m.refreshContent()
				}
			}
		case modeCommand:
			switch msg.String() {
			case "enter":
				input := strings.TrimSpace(m.input.Value())
				switch input {
				case "q", "quit", "exit":
					cmds = append(cmds, tea.Quit)
				case "":
					// nothing
				default:
					m.status = fmt.Sprintf("Unknown command: %s", input)
				}
				m.mode = modeNormal
				m.input.Reset()
				m.input.Blur()
				skipListRouting = true
			case "esc":
				m.mode = modeNormal
				m.input.Reset()
				m.input.Blur()
				m.status = "Command cancelled"
				skipListRouting = true
			default:
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				cmds = append(cmds, cmd)
			}
		case modeNormal:
			switch msg.String() {
			case ":":
				m.enterCommandMode(&cmds)
				skipListRouting = true

			// tab focus
			case "h", "left", "shift+tab":
				m.switchTab(-1, &cmds)
				skipListRouting = true
			case "l", "right", "tab":
				m.switchTab(1, &cmds)
				skipListRouting = true

			// movement
			case "j", "down":
				m.content.CursorDown()
			case "k", "up":
				m.content.CursorUp()
			case "g":
				m.content.Select(0)
			case "G":
				m.content.Select(len(m.content.Items()) - 1)

			// search
			case "/":
				m.mode = modeInsert
				m.action = actionSearch
				m.input.Placeholder = "Search titles"
				m.input.SetValue(m.search)
				m.input.CursorEnd()
				if cmd := m.input.Focus(); cmd != nil {
					cmds = append(cmds, cmd)
				}
				cmds = append(cmds, textinput.Blink)
			case "esc":
				if m.search != "" {
					m.search = ""
					m.refreshContent()
				} else if m.tab == tabPlaylists && m.openPlaylist != "" {
					m.openPlaylist = ""
					m.refreshContent()
				}

			// upload
			case "o", "O":
				if m.tab != tabPlaylists && m.tab != tabNews {
					m.mode = modeInsert
					m.action = actionUpload
					m.input.Placeholder = "File path to add"
					m.input.SetValue("")
					if cmd := m.input.Focus(); cmd != nil {
						cmds = append(cmds, cmd)
					}
					cmds = append(cmds, textinput.Blink)
				}

			// new playlist
			case "a":
				if m.tab == tabPlaylists && m.openPlaylist == "" {
					m.mode = modeInsert
					m.action = actionCreatePlaylist
					m.input.Placeholder = "Playlist name"
					m.input.SetValue("")
					if cmd := m.input.Focus(); cmd != nil {
						cmds = append(cmds, cmd)
					}
					cmds = append(cmds, textinput.Blink)
				}

			// tags
			case "f":
				m.toggleTagOnCurrent(item.TagFavorite)
			case "n":
				m.toggleTagOnCurrent(item.TagNeedToRead)
			case "x":
				m.toggleTagOnCurrent(item.TagFinished)

			// playlist membership
			case "p":
				if b := m.currentBook(); b != nil && !b.Example {
					m.enterMembers(b)
					skipListRouting = true
				}

			// delete
			case "d":
				if m.awaitingDD && time.Since(m.lastDTime) < 600*time.Millisecond {
					m.deleteCurrent()
					m.awaitingDD = false
				} else {
					m.awaitingDD = true
					m.lastDTime = time.Now()
				}

			// load more news
			case "m":
				if m.tab == tabNews {
					if m.pager.HasMore() {
						m.status = "Loading stories..."
						cmds = append(cmds, m.loadNextNewsPage())
					} else {
						m.status = "No more stories"
					}
				}

			// open
			case "enter":
				cmds = append(cmds, m.openCurrent())
				skipListRouting = true

			case "?":
				m.mode = modeHelp
			case "r":
				cmds = append(cmds, m.loadLibrary(), m.loadPlaylists())
			case "q":
				m.status = "Use :q or :exit to quit"
				skipListRouting = true
			}
		}
	}

	if m.mode == modeNormal && !skipListRouting {
		var cmd tea.Cmd
		m.content, cmd = m.content.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) switchTab(delta int, cmds *[]tea.Cmd) {
	m.tab = tab((int(m.tab) + delta + int(tabCount)) % int(tabCount))
	m.openPlaylist = ""
	m.search = ""
	m.refreshContent()
	if m.tab == tabNews && !m.pager.Loaded() {
		m.status = "Loading stories..."
		*cmds = append(*cmds, m.loadNextNewsPage())
	}
}

func (m *Model) currentBook() *item.Book {
	sel := m.content.SelectedItem()
	if sel == nil {
		return nil
	}
	if it, ok := sel.(bookItem); ok {
		return it.b
	}
	return nil
}

func (m *Model) currentAudio() *item.AudioItem {
	sel := m.content.SelectedItem()
	if sel == nil {
		return nil
	}
	if it, ok := sel.(audioItem); ok {
		return it.a
	}
	return nil
}

func (m *Model) toggleTagOnCurrent(tag item.Tag) {
	var id string
	if b := m.currentBook(); b != nil {
		id = b.ID
	} else if a := m.currentAudio(); a != nil {
		id = a.ID
	}
	if id == "" {
		return
	}
	if m.svc.ToggleTag(m.ctx, id, tag) {
		m.status = fmt.Sprintf("Toggled %s", tag)
		m.refreshContent()
	}
}

func (m *Model) deleteCurrent() {
	if b := m.currentBook(); b != nil {
		if m.svc.Delete(m.ctx, b.ID, item.KindBook) {
			m.status = "Deleted " + b.Title
			m.refreshContent()
		}
		return
	}
	if a := m.currentAudio(); a != nil {
		if m.svc.Delete(m.ctx, a.ID, item.KindAudio) {
			m.status = "Deleted " + a.Title
			m.refreshContent()
		}
	}
}

func (m *Model) commitInsert() tea.Cmd {
	input := strings.TrimSpace(m.input.Value())
	prevAction := m.action
	m.mode = modeNormal
	m.action = actionNone
	m.input.Reset()
	m.input.Blur()

	switch prevAction {
	case actionSearch:
		m.search = input
		m.refreshContent()
		return nil
	case actionUpload:
		if input == "" {
			m.status = "Add cancelled"
			return nil
		}
		kind := item.KindBook
		if m.tab == tabAudio {
			kind = item.KindAudio
		}
		m.status = "Adding " + filepath.Base(input)
		return func() tea.Msg {
			if _, err := m.svc.Upload(m.ctx, []string{input}, kind); err != nil {
				return errMsg{err}
			}
			return libraryLoadedMsg{}
		}
	case actionCreatePlaylist:
		if _, ok := m.pls.Create(m.ctx, input); !ok {
			m.status = "Playlist name is empty"
			return nil
		}
		m.status = "Created " + input
		m.refreshContent()
		return nil
	case actionGotoPage:
		m.mode = modeViewer
		page, err := strconv.Atoi(input)
		if err != nil {
			m.viewerErr = fmt.Sprintf("invalid page %q", input)
			return nil
		}
		return m.gotoPage(page)
	}
	return nil
}

// openCurrent opens the selected item: books open the page viewer, playlists
// drill in, articles surface their link.
func (m *Model) openCurrent() tea.Cmd {
	sel := m.content.SelectedItem()
	if sel == nil {
		return nil
	}
	switch it := sel.(type) {
	case bookItem:
		return m.enterViewer(it.b)
	case playlistItem:
		m.openPlaylist = it.pl.ID
		m.refreshContent()
	case articleItem:
		m.status = it.a.Link()
	case audioItem:
		m.status = "Playing audio is not supported, file: " + it.a.Path
	}
	return nil
}

// viewer

func (m *Model) enterViewer(b *item.Book) tea.Cmd {
	if b.Example {
		m.status = "Example books have no stored binary"
		return nil
	}
	d, err := doc.Open(b.Path)
	if err != nil {
		m.status = "ERR: " + err.Error()
		return nil
	}
	m.mode = modeViewer
	m.viewerBook = b
	m.viewerDoc = d
	m.viewerPage = 1
	m.viewerPages = d.PageCount()
	m.viewerErr = ""
	m.previewPath = ""
	return m.renderPreview()
}

func (m *Model) closeViewer() {
	if m.viewerDoc != nil {
		_ = m.viewerDoc.Close()
	}
	m.viewerDoc = nil
	m.viewerBook = nil
	m.mode = modeNormal
}

// gotoPage clamps the requested page into the valid range.
func (m *Model) gotoPage(page int) tea.Cmd {
	if page < 1 {
		page = 1
	}
	if page > m.viewerPages {
		page = m.viewerPages
	}
	m.viewerPage = page
	m.viewerErr = ""
	return m.renderPreview()
}

// renderPreview rasterizes the current viewer page to a temp PNG so an image
// viewer can follow along.
func (m *Model) renderPreview() tea.Cmd {
	d := m.viewerDoc
	page := m.viewerPage
	if d == nil {
		return nil
	}
	return func() tea.Msg {
		img, err := d.RenderPage(page, cover.RenderScale)
		if err != nil {
			return errMsg{err}
		}
		path := filepath.Join(os.TempDir(), "shelf-preview.png")
		f, err := os.Create(path)
		if err != nil {
			return errMsg{err}
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return errMsg{err}
		}
		if err := f.Close(); err != nil {
			return errMsg{err}
		}
		return pageRenderedMsg{path: path}
	}
}

func (m *Model) updateViewer(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q":
		m.closeViewer()
	case "l", "right", "j", "down":
		return m.gotoPage(m.viewerPage + 1)
	case "h", "left", "k", "up":
		return m.gotoPage(m.viewerPage - 1)
	case "g":
		m.mode = modeInsert
		m.action = actionGotoPage
		m.input.Placeholder = "Page number"
		m.input.SetValue("")
		m.input.Focus()
		return textinput.Blink
	}
	return nil
}

// membership overlay

func (m *Model) enterMembers(b *item.Book) {
	lists := m.pls.All()
	if len(lists) == 0 {
		m.status = "No playlists yet, press a on the Playlists tab"
		return
	}
	m.mode = modeMembers
	m.memberBook = b
	m.memberChoices = lists
	m.memberIndex = 0
	m.memberSet = make(map[string]bool, len(lists))
	for _, pl := range lists {
		for _, id := range pl.MemberIDs {
			if id == b.ID {
				m.memberSet[pl.ID] = true
			}
		}
	}
}

func (m *Model) updateMembers(msg tea.KeyPressMsg) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeNormal
		m.memberBook = nil
		m.status = "Cancelled"
	case "up", "k":
		if m.memberIndex > 0 {
			m.memberIndex--
		} else {
			m.memberIndex = len(m.memberChoices) - 1
		}
	case "down", "j":
		if m.memberIndex < len(m.memberChoices)-1 {
			m.memberIndex++
		} else {
			m.memberIndex = 0
		}
	case "space", " ":
		pl := m.memberChoices[m.memberIndex]
		m.memberSet[pl.ID] = !m.memberSet[pl.ID]
	case "enter":
		m.saveMembers()
		m.mode = modeNormal
		m.memberBook = nil
		m.refreshContent()
	}
}

// saveMembers applies the checkbox state back to each playlist whose
// membership for this book changed.
func (m *Model) saveMembers() {
	b := m.memberBook
	if b == nil {
		return
	}
	for _, pl := range m.memberChoices {
		was := false
		for _, id := range pl.MemberIDs {
			if id == b.ID {
				was = true
			}
		}
		want := m.memberSet[pl.ID]
		if was == want {
			continue
		}
		members := make([]string, 0, len(pl.MemberIDs)+1)
		for _, id := range pl.MemberIDs {
			if id != b.ID {
				members = append(members, id)
			}
		}
		if want {
			members = append(members, b.ID)
		}
		m.pls.SetMembers(m.ctx, pl.ID, members)
	}
	m.status = "Playlists updated"
}

// View renders the tab bar, content list, and any active overlay.
func (m Model) View() string {
	var tabs []string
	active := lipgloss.NewStyle().Bold(true).Underline(true)
	inactive := lipgloss.NewStyle().Faint(true)
	for t := tab(0); t < tabCount; t++ {
		if t == m.tab {
			tabs = append(tabs, active.Render(t.String()))
		} else {
			tabs = append(tabs, inactive.Render(t.String()))
		}
	}
	header := strings.Join(tabs, "  ")

	modeStr := map[mode]string{
		modeNormal:  "NORMAL",
		modeInsert:  "INSERT",
		modeCommand: "CMD",
		modeHelp:    "HELP",
		modeViewer:  "VIEW",
		modeMembers: "LISTS",
	}[m.mode]
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(fmt.Sprintf("[%s] %s", modeStr, m.status))

	body := header + "\n\n" + m.content.View()

	if m.mode == modeInsert {
		prompt := ""
		switch m.action {
		case actionSearch:
			prompt = "Search: "
		case actionUpload:
			prompt = "Add: "
		case actionCreatePlaylist:
			prompt = "Name: "
		case actionGotoPage:
			prompt = "Page: "
		}
		body += "\n\n" + prompt + m.input.View()
	}
	if m.mode == modeCommand {
		body += "\n\n:" + m.input.View()
	}
	if m.mode == modeViewer && m.viewerBook != nil {
		lines := []string{
			fmt.Sprintf("%s — page %d of %d", m.viewerBook.Title, m.viewerPage, m.viewerPages),
			"h/l page, g go to page, esc close",
		}
		if m.previewPath != "" {
			lines = append(lines, "preview: "+m.previewPath)
		}
		if m.viewerErr != "" {
			lines = append(lines, "error: "+m.viewerErr)
		}
		panel := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 2)
		body += "\n\n" + panel.Render(strings.Join(lines, "\n"))
	}
	if m.mode == modeMembers && m.memberBook != nil {
		lines := []string{fmt.Sprintf("Playlists for %s (space toggle, enter save, esc cancel):", m.memberBook.Title)}
		for i, pl := range m.memberChoices {
			indicator := "  "
			if i == m.memberIndex {
				indicator = "→ "
			}
			box := "[ ]"
			if m.memberSet[pl.ID] {
				box = "[x]"
			}
			lines = append(lines, fmt.Sprintf("%s%s %s", indicator, box, pl.Name))
		}
		panel := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 2)
		body += "\n\n" + panel.Render(strings.Join(lines, "\n"))
	}
	if m.mode == modeHelp {
		help := "Keys: h/l switch tabs, j/k move, gg/G top/bottom, / search, o add file, f favorite, n to-read, x finished, p playlists, dd delete, m more stories, enter open, r refresh, :q quit"
		body += "\n\n" + lipgloss.NewStyle().Italic(true).Render(help)
	}

	return body + "\n\n" + status
}

// Run launches the shelf UI program.
func Run(svc *library.Service, pls *playlist.Manager, p store.Persistence) error {
	prog := tea.NewProgram(New(svc, pls, nil, p), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}

// applySizes recalculates the content size from the terminal size.
func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	width := m.termWidth - 2
	if width < 20 {
		width = 20
	}
	// Leave room for the tab bar and status/footer lines.
	height := m.termHeight - 6
	if height < 5 {
		height = 5
	}
	m.content.SetSize(width, height)
}

func (m *Model) enterCommandMode(cmds *[]tea.Cmd) {
	m.mode = modeCommand
	m.input.Reset()
	m.input.Placeholder = "command"
	m.input.CursorEnd()
	if cmd := m.input.Focus(); cmd != nil {
		*cmds = append(*cmds, cmd)
	}
	*cmds = append(*cmds, textinput.Blink)
	m.status = "COMMAND: type :q or :exit to quit"
}
