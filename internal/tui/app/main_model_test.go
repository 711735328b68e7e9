package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/hazadus/go-stereo/internal/analysis"
	"github.com/hazadus/go-stereo/internal/importer"
	"github.com/hazadus/go-stereo/internal/order"
	"github.com/hazadus/go-stereo/internal/player"
	"github.com/hazadus/go-stereo/internal/playlist"
	"github.com/hazadus/go-stereo/internal/transport"
	"github.com/hazadus/go-stereo/internal/tui/picker"
	tuiPlayer "github.com/hazadus/go-stereo/internal/tui/player"
	"github.com/hazadus/go-stereo/internal/tui/prompt"
	"github.com/hazadus/go-stereo/internal/visualizer"
)

func newTestMainModel(t *testing.T) (*MainModel, *player.Mock) {
	t.Helper()

	mock := player.NewMock()
	ctrl := transport.NewController(playlist.NewStore(), order.NewPolicy(), mock, zap.NewNop())
	model := NewMainModel(Options{
		Player: tuiPlayer.Options{
			Controller: ctrl,
			Importer:   importer.NewService(nil, nil),
			Visualizer: visualizer.New(analysis.New(mock), visualizer.Options{Particles: 4}),
		},
		MusicDir: t.TempDir(),
	})
	model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return model, mock
}

func TestMainModelRouting(t *testing.T) {
	model, _ := newTestMainModel(t)

	// Проверяем начальное состояние
	if model.Screen() != PlayerScreen {
		t.Errorf("Expected initial screen to be PlayerScreen, got %v", model.Screen())
	}

	// Тестируем переключение на экран выбора файлов
	_, cmd := model.Update(tuiPlayer.OpenPickerMsg{})
	if model.Screen() != PickerScreen {
		t.Errorf("Expected PickerScreen after OpenPickerMsg, got %v", model.Screen())
	}
	if cmd == nil {
		t.Error("Expected picker to read the start directory")
	}

	// Отмена возвращает к плееру
	model.Update(picker.CancelMsg{})
	if model.Screen() != PlayerScreen {
		t.Errorf("Expected PlayerScreen after CancelMsg, got %v", model.Screen())
	}
	if model.pickerModel != nil {
		t.Error("Expected pickerModel to be nil after CancelMsg")
	}

	// Экран ввода путей
	model.Update(tuiPlayer.OpenPromptMsg{})
	if model.Screen() != PromptScreen {
		t.Errorf("Expected PromptScreen after OpenPromptMsg, got %v", model.Screen())
	}
	model.Update(prompt.GoBackMsg{})
	if model.Screen() != PlayerScreen {
		t.Errorf("Expected PlayerScreen after GoBackMsg, got %v", model.Screen())
	}

	// Тестируем глобальные горячие клавиши
	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Error("Expected tea.Quit command after Ctrl+C")
	}
}

func TestPickedFilesAreImported(t *testing.T) {
	model, _ := newTestMainModel(t)
	model.Update(tuiPlayer.OpenPickerMsg{})

	_, cmd := model.Update(picker.PickedMsg{Paths: []string{"/does/not/exist.mp3"}})
	if model.Screen() != PlayerScreen {
		t.Errorf("Expected PlayerScreen after PickedMsg, got %v", model.Screen())
	}
	if cmd == nil {
		t.Fatal("Expected import command")
	}

	msg, ok := cmd().(tuiPlayer.ImportedMsg)
	if !ok {
		t.Fatalf("Expected ImportedMsg, got %T", msg)
	}
	if len(msg.Result.Errors) != 1 {
		t.Errorf("Expected 1 import error, got %d", len(msg.Result.Errors))
	}
}

func TestPlaybackMessagesReachPlayerBehindOtherScreens(t *testing.T) {
	model, mock := newTestMainModel(t)
	model.Update(tuiPlayer.OpenPromptMsg{})

	track := playlist.NewTrack("/music/a.mp3", []byte("a"), "audio/mpeg")
	_, cmd := model.Update(tuiPlayer.ImportedMsg{Result: importer.Result{Tracks: []*playlist.Track{track}}})
	if cmd == nil {
		t.Fatal("Expected decode command")
	}
	loaded, ok := cmd().(transport.LoadedMsg)
	if !ok {
		t.Fatalf("Expected LoadedMsg, got %T", loaded)
	}
	model.Update(loaded)

	if model.Screen() != PromptScreen {
		t.Errorf("Expected PromptScreen to stay open, got %v", model.Screen())
	}
	if mock.Loaded() == nil {
		t.Error("Expected track to be loaded while prompt is open")
	}
}

func TestQuitOnlyFromPlayerScreen(t *testing.T) {
	model, _ := newTestMainModel(t)
	model.Update(tuiPlayer.OpenPromptMsg{})

	// 'q' на экране ввода - это просто символ
	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if model.Screen() != PromptScreen {
		t.Errorf("Expected PromptScreen after typing q, got %v", model.Screen())
	}

	model.Update(prompt.GoBackMsg{})
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("Expected tea.Quit command after q on player screen")
	}
}

func TestMainModelView(t *testing.T) {
	model, _ := newTestMainModel(t)

	if view := model.View(); view == "" {
		t.Error("Expected non-empty view for player screen")
	}

	model.Update(tuiPlayer.OpenPromptMsg{})
	if view := model.View(); view == "" {
		t.Error("Expected non-empty view for prompt screen")
	}

	// Тестируем состояние с несуществующим экраном
	model.currentScreen = ScreenType(999)
	view := model.View()
	expectedError := "Неизвестный экран"
	if view != expectedError {
		t.Errorf("Expected '%s' for unknown screen, got '%s'", expectedError, view)
	}
}

func TestClose(t *testing.T) {
	model, mock := newTestMainModel(t)

	if err := model.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
	if !mock.IsClosed() {
		t.Error("Expected player to be closed")
	}
}
