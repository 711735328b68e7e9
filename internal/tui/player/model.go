// Package player содержит главный экран: визуализатор, полоса прогресса и плейлист
package player

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/hazadus/go-stereo/internal/frame"
	"github.com/hazadus/go-stereo/internal/importer"
	"github.com/hazadus/go-stereo/internal/order"
	"github.com/hazadus/go-stereo/internal/progress"
	"github.com/hazadus/go-stereo/internal/transport"
	"github.com/hazadus/go-stereo/internal/tui/tracklist"
	"github.com/hazadus/go-stereo/internal/utils"
	"github.com/hazadus/go-stereo/internal/visualizer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000ff"))

	trackInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	statusStyle = lipgloss.NewStyle().
			Bold(true)

	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00afff"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)
)

const (
	// volumeStep - шаг изменения громкости с клавиатуры
	volumeStep = 0.1
	// chromeRows - строки экрана вне визуализатора и списка:
	// заголовок, полоса, статус, пустая строка, заголовок плейлиста, справка
	chromeRows = 6
	// minVisualizerRows - минимальная высота визуализатора
	minVisualizerRows = 2
	// defaultWidth - ширина до первого WindowSizeMsg
	defaultWidth = 80
)

// OpenPickerMsg просит показать экран выбора файлов
type OpenPickerMsg struct{}

// OpenPromptMsg просит показать экран ввода путей
type OpenPromptMsg struct{}

// ImportedMsg содержит результат импорта пачки файлов
type ImportedMsg struct {
	Result importer.Result
}

// DroppedMsg отправляется, когда в папке для перетаскивания появились файлы
type DroppedMsg struct {
	Paths []string
}

// WatchStoppedMsg отправляется, когда наблюдение за папкой прекратилось
type WatchStoppedMsg struct {
	Err error
}

// Options содержит зависимости экрана
type Options struct {
	Controller *transport.Controller
	Importer   *importer.Service
	Watcher    *importer.Watcher // nil, если папка для перетаскивания не задана
	Visualizer *visualizer.Engine
	FPS        int
	Log        *zap.Logger
}

// Model представляет главный экран плеера
type Model struct {
	ctrl     *transport.Controller
	importer *importer.Service
	watcher  *importer.Watcher
	viz      *visualizer.Engine
	log      *zap.Logger

	reporter    *progress.Reporter
	loop        *frame.Loop
	progressBar progressbar.Model
	tracks      *tracklist.Model

	generation uint64 // Поколение загрузки, для которого сброшен спектр

	keys   keyMap
	help   help.Model
	notice string
	width  int
	height int
}

// NewModel создает модель главного экрана
func NewModel(opts Options) *Model {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	// Создаем прогресс-бар
	prog := progressbar.New(progressbar.WithDefaultGradient(), progressbar.WithoutPercentage())
	prog.Width = 40

	m := &Model{
		ctrl:        opts.Controller,
		importer:    opts.Importer,
		watcher:     opts.Watcher,
		viz:         opts.Visualizer,
		log:         log,
		reporter:    progress.NewReporter(),
		loop:        frame.NewLoop("progress", opts.FPS),
		progressBar: prog,
		tracks:      tracklist.NewModel(),
		keys:        defaultKeyMap(),
		help:        help.New(),
	}
	m.resize(defaultWidth, 24)
	return m
}

// Init запускает прослушивание событий плеера и наблюдение за папкой
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.ctrl.Init(), m.watch())
}

// Import запускает импорт файлов в фоне
func (m *Model) Import(paths []string) tea.Cmd {
	if len(paths) == 0 {
		return nil
	}
	svc := m.importer
	return func() tea.Msg {
		return ImportedMsg{Result: svc.ImportBatch(context.Background(), paths)}
	}
}

// Reporter возвращает состояние полосы прогресса
func (m *Model) Reporter() *progress.Reporter {
	return m.reporter
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.Paste {
			return m, m.Import(importer.ParseDropped(string(msg.Runes)))
		}
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case frame.TickMsg:
		if msg.Loop == m.loop.Name() {
			return m, m.sample(msg)
		}
		return m, m.viz.Update(msg)

	case ImportedMsg:
		return m, m.imported(msg.Result)

	case DroppedMsg:
		return m, tea.Batch(m.Import(msg.Paths), m.watch())

	case WatchStoppedMsg:
		if !errors.Is(msg.Err, importer.ErrWatcherClosed) {
			m.log.Warn("наблюдение за папкой остановлено", zap.Error(msg.Err))
		}
		return m, nil

	case transport.MetadataMsg:
		if m.ctrl.IsCurrent(msg.Handle) {
			m.reporter.Loaded(msg.Duration)
		}
		return m, m.dispatch(msg, true)

	case transport.EndedMsg, transport.ErrorMsg:
		return m, m.dispatch(msg, true)

	case transport.ClearMsg:
		cmd := m.dispatch(msg, false)
		m.reporter.Reset()
		return m, cmd

	case transport.AddTracksMsg, transport.SelectMsg, transport.TogglePlayMsg,
		transport.NextMsg, transport.PrevMsg, transport.ShuffleMsg, transport.LoopMsg,
		transport.SeekMsg, transport.VolumeMsg, transport.LoadedMsg:
		return m, m.dispatch(msg, false)
	}

	var cmd tea.Cmd
	m.tracks, cmd = m.tracks.Update(msg)
	return m, cmd
}

// dispatch передает сообщение контроллеру и синхронизирует экран с его состоянием.
// После события плеера прослушивание перезапускается.
func (m *Model) dispatch(msg tea.Msg, event bool) tea.Cmd {
	cmds := []tea.Cmd{m.ctrl.Update(msg)}
	if event {
		cmds = append(cmds, m.ctrl.Listen())
	}

	st := m.ctrl.State()
	if st.Err != nil {
		m.notice = st.Err.Error()
	}
	if st.Generation != m.generation {
		m.generation = st.Generation
		m.viz.ResetSpectrum()
	}
	m.tracks.Sync(m.ctrl.Tracks(), m.ctrl.Order(), st)
	cmds = append(cmds, m.syncLoops(st))
	return tea.Batch(cmds...)
}

// syncLoops запускает кадровые циклы во время воспроизведения и останавливает на паузе
func (m *Model) syncLoops(st transport.State) tea.Cmd {
	playing := st.Status == transport.StatusPlaying && !st.Loading && !st.Unplayable
	if !playing {
		m.reporter.Suspend()
		m.loop.Stop()
		m.viz.Stop()
		return nil
	}

	m.reporter.Resume()
	var cmds []tea.Cmd
	if !m.loop.Running() {
		cmds = append(cmds, m.loop.Start())
	}
	cmds = append(cmds, m.viz.Start())
	return tea.Batch(cmds...)
}

// sample обновляет полосу прогресса по кадру своего цикла
func (m *Model) sample(tick frame.TickMsg) tea.Cmd {
	next, ok := m.loop.Next(tick)
	if !ok {
		return nil
	}
	m.reporter.Sample(m.ctrl.Position(), m.ctrl.Duration())
	return next
}

func (m *Model) imported(result importer.Result) tea.Cmd {
	switch {
	case len(result.Errors) > 0:
		m.notice = fmt.Sprintf("Пропущено файлов: %d (%v)", len(result.Errors), result.Errors[0])
	case len(result.Tracks) > 0:
		m.notice = fmt.Sprintf("Добавлено треков: %d", len(result.Tracks))
	}
	if len(result.Tracks) == 0 {
		return nil
	}
	return m.dispatch(transport.AddTracksMsg{Tracks: result.Tracks}, false)
}

// watch ждет новые файлы в папке для перетаскивания
func (m *Model) watch() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	w := m.watcher
	return func() tea.Msg {
		paths, err := w.Wait(context.Background())
		if err != nil {
			return WatchStoppedMsg{Err: err}
		}
		return DroppedMsg{Paths: paths}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		return m.dispatch(transport.TogglePlayMsg{}, false)
	case key.Matches(msg, m.keys.Next):
		return m.dispatch(transport.NextMsg{}, false)
	case key.Matches(msg, m.keys.Prev):
		return m.dispatch(transport.PrevMsg{}, false)
	case key.Matches(msg, m.keys.Shuffle):
		return m.dispatch(transport.ShuffleMsg{}, false)
	case key.Matches(msg, m.keys.Loop):
		return m.dispatch(transport.LoopMsg{}, false)
	case key.Matches(msg, m.keys.VolumeUp):
		return m.dispatch(transport.VolumeMsg{Level: m.ctrl.State().Volume + volumeStep}, false)
	case key.Matches(msg, m.keys.VolumeDown):
		return m.dispatch(transport.VolumeMsg{Level: m.ctrl.State().Volume - volumeStep}, false)
	case key.Matches(msg, m.keys.Projection):
		m.viz.SetProjection(m.viz.Projection().Next())
		return nil
	case key.Matches(msg, m.keys.Color):
		m.viz.SetColorMode(m.viz.ColorMode().Next())
		return nil
	case key.Matches(msg, m.keys.Clear):
		cmd := m.dispatch(transport.ClearMsg{}, false)
		m.reporter.Reset()
		m.notice = ""
		return cmd
	case key.Matches(msg, m.keys.Open):
		return func() tea.Msg { return OpenPickerMsg{} }
	case key.Matches(msg, m.keys.Prompt):
		return func() tea.Msg { return OpenPromptMsg{} }
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}

	var cmd tea.Cmd
	m.tracks, cmd = m.tracks.Update(msg)
	return cmd
}

// handleMouse реализует перемотку перетаскиванием по полосе и выбор трека щелчком
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	onBar := msg.Y == m.barRow() && msg.X >= 0 && msg.X < m.progressBar.Width

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if onBar {
			frac := m.barFraction(msg.X)
			m.reporter.BeginDrag(frac)
			m.reporter.DragTo(frac, m.ctrl.Duration())
			return nil
		}
		if index, ok := m.tracks.IndexAt(msg.Y - m.listTop()); ok {
			return m.dispatch(transport.SelectMsg{Index: index}, false)
		}

	case tea.MouseActionMotion:
		if m.reporter.Dragging() {
			m.reporter.DragTo(m.barFraction(msg.X), m.ctrl.Duration())
		}

	case tea.MouseActionRelease:
		if !m.reporter.Dragging() {
			return nil
		}
		if !onBar {
			// Указатель ушел с полосы: перемотки нет, показываем текущую позицию
			m.reporter.CancelDrag()
			m.reporter.Sample(m.ctrl.Position(), m.ctrl.Duration())
			return nil
		}
		m.reporter.DragTo(m.barFraction(msg.X), m.ctrl.Duration())
		if frac, ok := m.reporter.EndDrag(); ok {
			return m.dispatch(transport.SeekMsg{Fraction: frac}, false)
		}
	}
	return nil
}

func (m *Model) barFraction(x int) float64 {
	if m.progressBar.Width <= 1 {
		return 0
	}
	return float64(x) / float64(m.progressBar.Width-1)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.progressBar.Width = max(10, min(60, width-20))

	listRows := max(3, height/3)
	vizRows := max(minVisualizerRows, height-listRows-chromeRows)
	m.viz.SetSize(width, vizRows)
	m.tracks.SetSize(width, listRows)
}

func (m *Model) vizRows() int {
	return max(minVisualizerRows, m.height-max(3, m.height/3)-chromeRows)
}

// barRow - строка экрана с полосой прогресса
func (m *Model) barRow() int {
	return 1 + m.vizRows()
}

// listTop - первая строка элементов плейлиста
func (m *Model) listTop() int {
	return m.barRow() + 4
}

// View отображает модель
func (m *Model) View() string {
	st := m.ctrl.State()
	snap := m.reporter.Snapshot()

	lines := []string{
		m.titleLine(st),
		m.viz.View(),
		m.progressBar.ViewAs(snap.Percent/100) + " " + snap.Label,
		m.statusLine(st),
		"",
		m.tracks.Header(),
		m.tracks.View(),
		m.help.View(m.keys),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) titleLine(st transport.State) string {
	title := titleStyle.Render("stereo")
	if st.NowPlaying == "" {
		return title
	}
	return title + " " + trackInfoStyle.Render(utils.TruncateString(st.NowPlaying, max(10, m.width-8)))
}

func (m *Model) statusLine(st transport.State) string {
	status := statusStyle.Render(formatStatus(st))
	mode := modeStyle.Render(fmt.Sprintf("%s • %s/%s • громкость %d%%",
		formatMode(st.Mode),
		m.viz.Projection(),
		m.viz.ColorMode(),
		int(st.Volume*100+0.5),
	))
	line := status + "  " + mode
	if m.notice != "" {
		line += "  " + errorStyle.Render(utils.TruncateString(m.notice, max(10, m.width/2)))
	}
	return line
}

// Вспомогательные функции

func formatStatus(st transport.State) string {
	switch {
	case st.Status == transport.StatusEmpty:
		return "⏹ Пусто"
	case st.Unplayable:
		return "✗ Не воспроизводится"
	case st.Loading:
		return "… Загрузка"
	case st.Status == transport.StatusPlaying:
		return "▶ Воспроизведение"
	default:
		return "⏸ Пауза"
	}
}

func formatMode(mode order.Mode) string {
	switch mode {
	case order.Shuffle:
		return "🔀 перемешивание"
	case order.Loop:
		return "🔁 повтор трека"
	default:
		return "➡ по порядку"
	}
}
