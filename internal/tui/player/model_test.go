package player

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hazadus/go-stereo/internal/analysis"
	"github.com/hazadus/go-stereo/internal/frame"
	"github.com/hazadus/go-stereo/internal/importer"
	"github.com/hazadus/go-stereo/internal/order"
	"github.com/hazadus/go-stereo/internal/player"
	"github.com/hazadus/go-stereo/internal/playlist"
	"github.com/hazadus/go-stereo/internal/transport"
	"github.com/hazadus/go-stereo/internal/visualizer"
)

func newTestModel(t *testing.T) (*Model, *player.Mock) {
	t.Helper()

	mock := player.NewMock()
	ctrl := transport.NewController(playlist.NewStore(), order.NewPolicy(), mock, zap.NewNop())
	viz := visualizer.New(analysis.New(mock), visualizer.Options{Particles: 8, FPS: 1000})

	m := NewModel(Options{
		Controller: ctrl,
		Importer:   importer.NewService(nil, nil),
		Visualizer: viz,
		FPS:        1000,
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, mock
}

// drain выполняет команды и возвращает в модель результаты декодирования
func drain(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			drain(m, c)
		}
	case transport.LoadedMsg:
		_, next := m.Update(msg)
		drain(m, next)
	}
}

func withTracks(m *Model, names ...string) {
	tracks := make([]*playlist.Track, len(names))
	for i, name := range names {
		tracks[i] = playlist.NewTrack("/music/"+name, []byte(name), "audio/mpeg")
	}
	_, cmd := m.Update(ImportedMsg{Result: importer.Result{Tracks: tracks}})
	drain(m, cmd)
}

func press(m *Model, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestNewModel(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()
	assert.Contains(t, view, "0:00 / 0:00")
	assert.Contains(t, view, "Playlist - 0")
	assert.Contains(t, view, "Пусто")
	assert.False(t, m.loop.Running())
}

func TestImportAddsTracksPaused(t *testing.T) {
	m, mock := newTestModel(t)
	withTracks(m, "a.mp3", "b.mp3")

	st := m.ctrl.State()
	assert.Equal(t, 0, st.Index)
	assert.Equal(t, transport.StatusPaused, st.Status)
	assert.False(t, mock.IsPlaying())

	view := m.View()
	assert.Contains(t, view, "Playlist - 2")
	assert.Contains(t, view, "Добавлено треков: 2")
	assert.False(t, m.loop.Running())
}

func TestImportErrorsShowNotice(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(ImportedMsg{Result: importer.Result{
		Errors: []error{&importer.ReadError{Path: "/x.mp3", Err: os.ErrNotExist}},
	}})
	assert.Nil(t, cmd)
	assert.Contains(t, m.notice, "Пропущено файлов: 1")
}

func TestTogglePlayStartsAndStopsLoops(t *testing.T) {
	m, mock := newTestModel(t)
	withTracks(m, "a.mp3")

	drain(m, press(m, " "))
	assert.True(t, mock.IsPlaying())
	assert.True(t, m.loop.Running())
	assert.True(t, m.viz.Running())
	assert.True(t, m.reporter.Active())

	drain(m, press(m, " "))
	assert.False(t, mock.IsPlaying())
	assert.False(t, m.loop.Running())
	assert.False(t, m.viz.Running())
	assert.False(t, m.reporter.Active())
}

func TestMetadataShowsDuration(t *testing.T) {
	m, mock := newTestModel(t)
	withTracks(m, "a.mp3")

	// Команду не выполняем: в ней ожидание следующего события плеера
	_, cmd := m.Update(transport.MetadataMsg{Handle: mock.Loaded(), Duration: 3 * time.Minute})
	assert.NotNil(t, cmd)
	assert.Equal(t, "0:00 / 3:00", m.reporter.Snapshot().Label)
	assert.Zero(t, m.reporter.Snapshot().Percent)
}

func TestMetadataFromStaleHandleIgnored(t *testing.T) {
	m, _ := newTestModel(t)
	withTracks(m, "a.mp3")

	m.Update(transport.MetadataMsg{Handle: &player.MockHandle{}, Duration: time.Minute})
	assert.Equal(t, "0:00 / 0:00", m.reporter.Snapshot().Label)
}

func TestProgressSamplesOnOwnTicks(t *testing.T) {
	m, mock := newTestModel(t)
	withTracks(m, "a.mp3")
	drain(m, press(m, " "))

	mock.SetPosition(90 * time.Second)
	tick := m.loop.Start()()
	_, next := m.Update(tick)
	assert.NotNil(t, next)

	snap := m.reporter.Snapshot()
	assert.Equal(t, "1:30 / 3:00", snap.Label)
	assert.InDelta(t, 50, snap.Percent, 0.001)
	assert.Contains(t, m.View(), "1:30 / 3:00")

	// Кадр от отмененного поколения отбрасывается
	_, next = m.Update(frame.TickMsg{Loop: "progress", Generation: 0})
	assert.Nil(t, next)
}

func TestDragSeeksOnRelease(t *testing.T) {
	m, mock := newTestModel(t)
	withTracks(m, "a.mp3")
	drain(m, press(m, " "))

	row := m.barRow()
	last := m.progressBar.Width - 1

	m.Update(tea.MouseMsg{X: 0, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.True(t, m.reporter.Dragging())
	assert.False(t, m.reporter.Active())

	m.Update(tea.MouseMsg{X: last / 2, Y: row, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	assert.Empty(t, mock.Seeks(), "перетаскивание не перематывает")

	_, cmd := m.Update(tea.MouseMsg{X: last, Y: row, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	drain(m, cmd)

	require.Len(t, mock.Seeks(), 1)
	assert.Equal(t, 3*time.Minute, mock.Seeks()[0])
	assert.False(t, m.reporter.Dragging())
	assert.True(t, m.reporter.Active())
}

func TestDragReleasedOutsideBarCancels(t *testing.T) {
	m, mock := newTestModel(t)
	withTracks(m, "a.mp3")
	drain(m, press(m, " "))

	row := m.barRow()
	m.Update(tea.MouseMsg{X: 5, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 20, Y: row + 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 20, Y: row + 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	assert.Empty(t, mock.Seeks())
	assert.False(t, m.reporter.Dragging())
	assert.Equal(t, "0:00 / 3:00", m.reporter.Snapshot().Label)
}

func TestClickOnPlaylistSelectsTrack(t *testing.T) {
	m, _ := newTestModel(t)
	withTracks(m, "a.mp3", "b.mp3", "c.mp3")

	_, cmd := m.Update(tea.MouseMsg{X: 10, Y: m.listTop() + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	drain(m, cmd)

	st := m.ctrl.State()
	assert.Equal(t, 2, st.Index)
	assert.Equal(t, "c.mp3", st.NowPlaying)
	assert.False(t, st.Loading)
}

func TestNavigationKeys(t *testing.T) {
	m, _ := newTestModel(t)
	withTracks(m, "a.mp3", "b.mp3", "c.mp3")

	drain(m, press(m, "n"))
	assert.Equal(t, 1, m.ctrl.State().Index)
	drain(m, press(m, "p"))
	drain(m, press(m, "p"))
	assert.Equal(t, 2, m.ctrl.State().Index)

	press(m, "s")
	assert.Equal(t, order.Shuffle, m.ctrl.State().Mode)
	press(m, "l")
	assert.Equal(t, order.Loop, m.ctrl.State().Mode)
	assert.Contains(t, m.View(), "повтор трека")
}

func TestVolumeKeys(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "-")
	press(m, "-")
	assert.InDelta(t, 0.8, m.ctrl.State().Volume, 1e-9)
	for range 5 {
		press(m, "+")
	}
	assert.InDelta(t, 1.0, m.ctrl.State().Volume, 1e-9)
	assert.Contains(t, m.View(), "громкость 100%")
}

func TestClearResetsProgress(t *testing.T) {
	m, mock := newTestModel(t)
	withTracks(m, "a.mp3", "b.mp3", "c.mp3")
	drain(m, press(m, " "))
	m.Update(transport.MetadataMsg{Handle: mock.Loaded(), Duration: 3 * time.Minute})

	press(m, "x")

	assert.Equal(t, transport.StatusEmpty, m.ctrl.State().Status)
	assert.False(t, mock.IsPlaying())
	assert.False(t, m.loop.Running())
	view := m.View()
	assert.Contains(t, view, "0:00 / 0:00")
	assert.Contains(t, view, "Playlist - 0")
}

func TestVisualizerModeKeys(t *testing.T) {
	m, _ := newTestModel(t)
	proj, color := m.viz.Projection(), m.viz.ColorMode()

	press(m, "v")
	press(m, "c")
	assert.Equal(t, proj.Next(), m.viz.Projection())
	assert.Equal(t, color.Next(), m.viz.ColorMode())
}

func TestPasteImportsDroppedFiles(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "my song.mp3")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("'" + path + "'"), Paste: true})
	require.NotNil(t, cmd)
	msg, ok := cmd().(ImportedMsg)
	require.True(t, ok)
	require.Len(t, msg.Result.Tracks, 1)
	assert.Equal(t, path, msg.Result.Tracks[0].Path)

	_, cmd = m.Update(msg)
	drain(m, cmd)
	assert.Contains(t, m.View(), "Playlist - 1")
}

func TestOpenScreensRequested(t *testing.T) {
	m, _ := newTestModel(t)

	cmd := press(m, "o")
	require.NotNil(t, cmd)
	_, ok := cmd().(OpenPickerMsg)
	assert.True(t, ok)

	cmd = press(m, "a")
	require.NotNil(t, cmd)
	_, ok = cmd().(OpenPromptMsg)
	assert.True(t, ok)
}

func TestWatchStoppedIsQuiet(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(WatchStoppedMsg{Err: importer.ErrWatcherClosed})
	assert.Nil(t, cmd)
	_, cmd = m.Update(WatchStoppedMsg{Err: errors.New("inotify overflow")})
	assert.Nil(t, cmd)
}

func TestViewFitsLayout(t *testing.T) {
	m, mock := newTestModel(t)
	withTracks(m, "a.mp3")
	m.Update(transport.MetadataMsg{Handle: mock.Loaded(), Duration: 3 * time.Minute})

	lines := strings.Split(m.View(), "\n")
	assert.Contains(t, lines[m.barRow()], "0:00 / 3:00")
	assert.Contains(t, lines[m.listTop()-1], "Playlist - 1")
	assert.Contains(t, lines[m.listTop()], "a.mp3")
}

type countingSpectrum struct {
	resets int
}

func (s *countingSpectrum) Refresh()                                        {}
func (s *countingSpectrum) Reset()                                          { s.resets++ }
func (s *countingSpectrum) BinCount() int                                   { return 16 }
func (s *countingSpectrum) ByteFrequencyData(analysis.Channel, []uint8) int { return 0 }

func TestTrackChangeResetsSpectrum(t *testing.T) {
	mock := player.NewMock()
	spectrum := &countingSpectrum{}
	m := NewModel(Options{
		Controller: transport.NewController(playlist.NewStore(), order.NewPolicy(), mock, zap.NewNop()),
		Importer:   importer.NewService(nil, nil),
		Visualizer: visualizer.New(spectrum, visualizer.Options{Particles: 8, FPS: 1000}),
		FPS:        1000,
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	withTracks(m, "a.mp3", "b.mp3")
	assert.Equal(t, 1, spectrum.resets, "first track loaded")

	press(m, "+")
	assert.Equal(t, 1, spectrum.resets, "volume does not change the track")

	drain(m, press(m, "n"))
	assert.Equal(t, 2, spectrum.resets)

	press(m, "x")
	assert.Equal(t, 3, spectrum.resets, "clear drops the old spectrum too")
}
