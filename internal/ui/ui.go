package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/statify/internal/formatter"
	"github.com/desertthunder/statify/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	TopTracksView
	NowPlayingView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	svc          services.ResourceService
	width        int
	height       int
	playlistList list.Model
	trackList    list.Model
	playing      *services.CurrentlyPlaying
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates the TUI model over an authenticated resource service.
func NewModel(ctx context.Context, svc services.ResourceService) Model {
	delegate := list.NewDefaultDelegate()

	playlistList := list.New([]list.Item{}, delegate, 0, 0)
	playlistList.Title = "Playlists"
	playlistList.SetShowHelp(false)

	trackList := list.New([]list.Item{}, delegate, 0, 0)
	trackList.Title = "Top Tracks"
	trackList.SetShowHelp(false)

	return Model{
		ctx:          ctx,
		view:         PlaylistListView,
		svc:          svc,
		playlistList: playlistList,
		trackList:    trackList,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init fetches the initial playlist page.
func (m Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

func (m Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		page, err := m.svc.Playlists(m.ctx, services.DefaultLimit, 0)
		return playlistsFetchedMsg(page, err)
	}
}

func (m Model) fetchTopTracks() tea.Cmd {
	return func() tea.Msg {
		page, err := m.svc.TopTracks(m.ctx, services.DefaultTimeRange, services.DefaultLimit, 0)
		return topTracksFetchedMsg(page, err)
	}
}

func (m Model) fetchNowPlaying() tea.Cmd {
	return func() tea.Msg {
		playing, err := m.svc.CurrentlyPlaying(m.ctx)
		return nowPlayingFetchedMsg(playing, err)
	}
}

// Update handles messages and key events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width, msg.Height-4)
		m.trackList.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.playlists):
			m.view = PlaylistListView
			return m, m.fetchPlaylists()
		case key.Matches(msg, m.keys.top):
			m.view = TopTracksView
			return m, m.fetchTopTracks()
		case key.Matches(msg, m.keys.playing):
			m.view = NowPlayingView
			return m, m.fetchNowPlaying()
		case key.Matches(msg, m.keys.refresh):
			return m, m.refreshCurrent()
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m Model) refreshCurrent() tea.Cmd {
	switch m.view {
	case TopTracksView:
		return m.fetchTopTracks()
	case NowPlayingView:
		return m.fetchNowPlaying()
	default:
		return m.fetchPlaylists()
	}
}

func (m Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlaylistsFetched:
		data := msg.data.(struct {
			page *services.PlaylistPage
			err  error
		})
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		items := make([]list.Item, 0, len(data.page.Items))
		for _, playlist := range data.page.Items {
			items = append(items, playlistItem{playlist: playlist})
		}
		m.playlistList.SetItems(items)

	case MsgTopTracksFetched:
		data := msg.data.(struct {
			page *services.TopTrackPage
			err  error
		})
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		items := make([]list.Item, 0, len(data.page.Items))
		for _, track := range data.page.Items {
			items = append(items, trackItem{track: track})
		}
		m.trackList.SetItems(items)

	case MsgNowPlayingFetched:
		data := msg.data.(struct {
			playing *services.CurrentlyPlaying
			err     error
		})
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.playing = data.playing
	}

	return m, nil
}

func (m Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case TopTracksView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

// View renders the current view.
func (m Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + m.help.View(m.keys)
	}

	var body string
	switch m.view {
	case PlaylistListView:
		body = m.playlistList.View()
	case TopTracksView:
		body = m.trackList.View()
	case NowPlayingView:
		body = m.nowPlayingView()
	}

	return body + "\n" + m.help.View(m.keys)
}

func (m Model) nowPlayingView() string {
	title := styles.title.Render("Now Playing")

	if m.playing == nil {
		return title + "\n" + styles.help.Render("fetching...")
	}
	if !m.playing.IsPlaying || m.playing.Item == nil {
		return title + "\n" + styles.warn.Render("Nothing playing right now.")
	}

	item := m.playing.Item
	lines := fmt.Sprintf("%s\n%s",
		styles.ok.Render(item.Name),
		formatter.ArtistNames(item.Artists))
	if item.ExternalURLs.Spotify != "" {
		lines += "\n" + styles.help.Render(item.ExternalURLs.Spotify)
	}

	return title + "\n" + lines
}
