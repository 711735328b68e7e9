// Package tracklist содержит модель списка треков плейлиста для TUI
package tracklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-stereo/internal/playlist"
	"github.com/hazadus/go-stereo/internal/transport"
	"github.com/hazadus/go-stereo/internal/utils"
)

var (
	headerStyle       = lipgloss.NewStyle().Bold(true).MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	playingItemStyle  = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("#00ff87")).Bold(true)
	mutedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// sizeWidth - ширина колонки размера файла
const sizeWidth = 9

// trackItem реализует интерфейс list.Item для трека
type trackItem struct {
	index int // Индекс в плейлисте
	track *playlist.Track
}

func (i trackItem) FilterValue() string {
	return i.track.DisplayName()
}

// trackItemDelegate реализует отображение элементов списка
type trackItemDelegate struct {
	playing    *int
	unplayable *bool
}

func (d trackItemDelegate) Height() int                             { return 1 }
func (d trackItemDelegate) Spacing() int                            { return 0 }
func (d trackItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d trackItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(trackItem)
	if !ok {
		return
	}

	// Форматируем строку в виде таблицы: № | Название | Размер
	nameWidth := max(m.Width()-sizeWidth-12, 10)
	str := fmt.Sprintf("%3d  %s %*s",
		i.index+1,
		utils.PadRight(i.track.DisplayName(), nameWidth),
		sizeWidth,
		utils.FormatSize(i.track.Size))

	fn := itemStyle.Render
	switch {
	case i.index == *d.playing:
		marker := "♪ "
		if *d.unplayable {
			marker = "✗ "
		}
		fn = func(s ...string) string {
			return playingItemStyle.Render(marker + strings.Join(s, " "))
		}
	case index == m.Index():
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

// Model представляет модель списка треков плейлиста
type Model struct {
	list       list.Model
	count      int
	playing    int
	playingID  string // Ключ играющего трека: пути в плейлисте могут повторяться
	unplayable bool
	enter      key.Binding
}

// NewModel создает пустой список
func NewModel() *Model {
	m := &Model{playing: -1}

	l := list.New(nil, trackItemDelegate{playing: &m.playing, unplayable: &m.unplayable}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	m.list = l
	m.enter = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "играть"))
	return m
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// Sync обновляет элементы по состоянию контроллера.
// Элементы показываются в порядке воспроизведения, курсор следует за играющим треком.
func (m *Model) Sync(tracks []*playlist.Track, order []int, state transport.State) {
	playingID := ""
	if state.Index >= 0 && state.Index < len(tracks) {
		playingID = tracks[state.Index].ID
	}
	followCursor := playingID != m.playingID || len(tracks) != m.count

	items := make([]list.Item, 0, len(order))
	cursor := 0
	for pos, idx := range order {
		if idx < 0 || idx >= len(tracks) {
			continue
		}
		if idx == state.Index {
			cursor = pos
		}
		items = append(items, trackItem{index: idx, track: tracks[idx]})
	}

	m.list.SetItems(items)
	m.count = len(tracks)
	m.playing = state.Index
	m.playingID = playingID
	m.unplayable = state.Unplayable
	if followCursor && len(items) > 0 {
		m.list.Select(cursor)
	}
}

// Len возвращает число треков
func (m *Model) Len() int {
	return m.count
}

// Header возвращает заголовок "Playlist - N"
func (m *Model) Header() string {
	return headerStyle.Render(fmt.Sprintf("Playlist - %d", m.count))
}

// SetSize задает размер области списка
func (m *Model) SetSize(width, height int) {
	m.list.SetWidth(width)
	m.list.SetHeight(height)
}

// IndexAt возвращает индекс трека в плейлисте для строки области списка
func (m *Model) IndexAt(row int) (int, bool) {
	if row < 0 || row >= m.list.Paginator.PerPage {
		return 0, false
	}
	pos := m.list.Paginator.Page*m.list.Paginator.PerPage + row
	items := m.list.Items()
	if pos >= len(items) {
		return 0, false
	}
	item, ok := items[pos].(trackItem)
	if !ok {
		return 0, false
	}
	return item.index, true
}

// Update обрабатывает навигацию и выбор трека
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.enter) {
		if item, ok := m.list.SelectedItem().(trackItem); ok {
			index := item.index
			return m, func() tea.Msg {
				return transport.SelectMsg{Index: index}
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View отображает список
func (m *Model) View() string {
	if m.count == 0 {
		return mutedStyle.Render("    Плейлист пуст: o - открыть файлы, a - ввести путь, или перетащите файлы в окно")
	}
	return m.list.View()
}
