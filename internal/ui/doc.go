// Package ui implements the interactive terminal browser: playlists, top
// tracks, and a now-playing panel over an authenticated resource service.
package ui
