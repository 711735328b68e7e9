// Package app содержит основную логику TUI приложения
package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/hazadus/go-stereo/internal/transport"
	"github.com/hazadus/go-stereo/internal/tui/picker"
	tuiPlayer "github.com/hazadus/go-stereo/internal/tui/player"
	"github.com/hazadus/go-stereo/internal/tui/prompt"
)

// ScreenType определяет тип текущего экрана
type ScreenType int

// Константы для типов экранов
const (
	// PlayerScreen - главный экран плеера
	PlayerScreen ScreenType = iota
	// PickerScreen - экран выбора файлов
	PickerScreen
	// PromptScreen - экран ввода путей
	PromptScreen
)

// Options содержит зависимости главной модели
type Options struct {
	Player       tuiPlayer.Options
	MusicDir     string   // Стартовая папка экрана выбора файлов
	RemoteReady  bool     // Настроен ли доступ к S3
	InitialFiles []string // Файлы из командной строки
}

// MainModel представляет главную модель TUI
type MainModel struct {
	currentScreen ScreenType
	playerModel   *tuiPlayer.Model
	pickerModel   *picker.Model
	promptModel   *prompt.Model
	ctrl          *transport.Controller
	musicDir      string
	remoteReady   bool
	initialFiles  []string
	width         int
	height        int
	log           *zap.Logger
}

// NewMainModel создает новую главную модель
func NewMainModel(opts Options) *MainModel {
	log := opts.Player.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &MainModel{
		currentScreen: PlayerScreen,
		playerModel:   tuiPlayer.NewModel(opts.Player),
		ctrl:          opts.Player.Controller,
		musicDir:      opts.MusicDir,
		remoteReady:   opts.RemoteReady,
		initialFiles:  opts.InitialFiles,
		log:           log,
	}
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(
		m.playerModel.Init(),
		m.playerModel.Import(m.initialFiles),
	)
}

// Screen возвращает текущий экран
func (m *MainModel) Screen() ScreenType {
	return m.currentScreen
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Глобальные горячие клавиши
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.currentScreen == PlayerScreen {
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		// Размер нужен всем экранам, в том числе скрытому плееру
		m.width, m.height = msg.Width, msg.Height
		if m.pickerModel != nil {
			m.pickerModel, _ = m.pickerModel.Update(msg)
		}
		if m.promptModel != nil {
			m.promptModel, _ = m.promptModel.Update(msg)
		}
		_, cmd := m.playerModel.Update(msg)
		return m, cmd

	case tuiPlayer.OpenPickerMsg:
		m.currentScreen = PickerScreen
		m.pickerModel = picker.NewModel(m.musicDir)
		m.pickerModel, _ = m.pickerModel.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		return m, m.pickerModel.Init()

	case tuiPlayer.OpenPromptMsg:
		m.currentScreen = PromptScreen
		m.promptModel = prompt.NewModel(m.remoteReady)
		m.promptModel, _ = m.promptModel.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		return m, m.promptModel.Init()

	case picker.PickedMsg:
		m.backToPlayer()
		return m, m.playerModel.Import(msg.Paths)

	case prompt.SubmitMsg:
		m.backToPlayer()
		return m, m.playerModel.Import(msg.Paths)

	case picker.CancelMsg, prompt.GoBackMsg:
		m.backToPlayer()
		return m, nil
	}

	// Экраны выбора перехватывают только ввод пользователя,
	// остальные сообщения всегда идут плееру
	switch m.currentScreen {
	case PickerScreen:
		if isInput(msg) || !isPlayerMsg(msg) {
			var cmd tea.Cmd
			m.pickerModel, cmd = m.pickerModel.Update(msg)
			return m, cmd
		}
	case PromptScreen:
		if isInput(msg) || !isPlayerMsg(msg) {
			var cmd tea.Cmd
			m.promptModel, cmd = m.promptModel.Update(msg)
			return m, cmd
		}
	}

	_, cmd := m.playerModel.Update(msg)
	return m, cmd
}

func (m *MainModel) backToPlayer() {
	m.currentScreen = PlayerScreen
	m.pickerModel = nil
	m.promptModel = nil
}

// View отображает интерфейс
func (m *MainModel) View() string {
	switch m.currentScreen {
	case PlayerScreen:
		return m.playerModel.View()

	case PickerScreen:
		if m.pickerModel != nil {
			return m.pickerModel.View()
		}
		return "Ошибка: модель выбора файлов не инициализирована"

	case PromptScreen:
		if m.promptModel != nil {
			return m.promptModel.View()
		}
		return "Ошибка: модель ввода не инициализирована"

	default:
		return "Неизвестный экран"
	}
}

// Close останавливает воспроизведение и освобождает ресурсы
func (m *MainModel) Close() error {
	return m.ctrl.Close()
}
