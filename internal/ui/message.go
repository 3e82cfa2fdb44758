package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/statify/internal/services"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var _ tea.Msg = Msg{}

const (
	MsgPlaylistsFetched MsgKind = iota
	MsgTopTracksFetched
	MsgNowPlayingFetched
)

// playlistsFetchedMsg is the constructor for [MsgPlaylistsFetched]
func playlistsFetchedMsg(page *services.PlaylistPage, err error) Msg {
	return Msg{
		kind: MsgPlaylistsFetched,
		data: struct {
			page *services.PlaylistPage
			err  error
		}{page, err},
	}
}

// topTracksFetchedMsg is the constructor for [MsgTopTracksFetched]
func topTracksFetchedMsg(page *services.TopTrackPage, err error) Msg {
	return Msg{
		kind: MsgTopTracksFetched,
		data: struct {
			page *services.TopTrackPage
			err  error
		}{page, err},
	}
}

// nowPlayingFetchedMsg is the constructor for [MsgNowPlayingFetched]
func nowPlayingFetchedMsg(playing *services.CurrentlyPlaying, err error) Msg {
	return Msg{
		kind: MsgNowPlayingFetched,
		data: struct {
			playing *services.CurrentlyPlaying
			err     error
		}{playing, err},
	}
}
