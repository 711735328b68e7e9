package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-stereo/internal/frame"
	"github.com/hazadus/go-stereo/internal/transport"
	tuiPlayer "github.com/hazadus/go-stereo/internal/tui/player"
)

// isInput сообщает, является ли сообщение вводом пользователя
func isInput(msg tea.Msg) bool {
	switch msg.(type) {
	case tea.KeyMsg, tea.MouseMsg:
		return true
	}
	return false
}

// isPlayerMsg сообщает, относится ли сообщение к воспроизведению.
// Такие сообщения обрабатываются, даже когда открыт другой экран.
func isPlayerMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case frame.TickMsg,
		tuiPlayer.ImportedMsg, tuiPlayer.DroppedMsg, tuiPlayer.WatchStoppedMsg,
		transport.LoadedMsg, transport.MetadataMsg, transport.EndedMsg, transport.ErrorMsg,
		transport.SelectMsg:
		return true
	}
	return false
}
