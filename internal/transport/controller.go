// Package transport управляет плейлистом, порядком воспроизведения и движком плеера
package transport

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/hazadus/go-stereo/internal/order"
	"github.com/hazadus/go-stereo/internal/player"
	"github.com/hazadus/go-stereo/internal/playlist"
)

// Status - состояние транспорта
type Status int

const (
	// StatusEmpty - плейлист пуст
	StatusEmpty Status = iota
	// StatusPaused - трек выбран, воспроизведение на паузе
	StatusPaused
	// StatusPlaying - трек воспроизводится или начнет играть после загрузки
	StatusPlaying
)

// String возвращает название состояния
func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusPaused:
		return "paused"
	case StatusPlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// State - снимок состояния транспорта для отображения
type State struct {
	Index      int // Индекс в плейлисте, -1 если плейлист пуст
	Status     Status
	Mode       order.Mode
	NowPlaying string
	Unplayable bool // Последняя загрузка или воспроизведение завершились ошибкой
	Loading    bool // Трек декодируется
	Generation uint64
	Volume     float64
	Err        error // Последняя ошибка для строки статуса
}

// Controller - единственный владелец движка воспроизведения.
// Все изменения происходят в Update, в цикле bubbletea.
type Controller struct {
	store  *playlist.Store
	policy *order.Policy
	player player.Interface
	log    *zap.Logger

	state  State
	loaded player.Handle // Дескриптор, загруженный в движок
}

// NewController создает контроллер поверх плейлиста, политики порядка и движка
func NewController(store *playlist.Store, policy *order.Policy, p player.Interface, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		store:  store,
		policy: policy,
		player: p,
		log:    log,
		state: State{
			Index:  -1,
			Status: StatusEmpty,
			Mode:   policy.Mode(),
			Volume: p.Volume(),
		},
	}
}

// State возвращает копию состояния
func (c *Controller) State() State {
	return c.state
}

// Tracks возвращает треки плейлиста
func (c *Controller) Tracks() []*playlist.Track {
	return c.store.Tracks()
}

// Order возвращает порядок воспроизведения индексов плейлиста
func (c *Controller) Order() []int {
	return c.policy.Order()
}

// Position возвращает позицию воспроизведения
func (c *Controller) Position() time.Duration {
	return c.player.Position()
}

// Duration возвращает длительность загруженного трека
func (c *Controller) Duration() time.Duration {
	return c.player.Duration()
}

// IsCurrent сообщает, относится ли дескриптор к загруженному треку
func (c *Controller) IsCurrent(h player.Handle) bool {
	return h != nil && h == c.loaded
}

// Init запускает прослушивание событий движка
func (c *Controller) Init() tea.Cmd {
	return c.Listen()
}

// Listen ждет одно событие движка и превращает его в сообщение.
// Вызывающий перезапускает Listen после каждого полученного события.
func (c *Controller) Listen() tea.Cmd {
	events := c.player.Events()
	return func() tea.Msg {
		e := <-events
		switch e.Kind {
		case player.EventMetadata:
			return MetadataMsg{Handle: e.Handle, Duration: e.Duration}
		case player.EventEnded:
			return EndedMsg{Handle: e.Handle}
		default:
			return ErrorMsg{Handle: e.Handle, Err: e.Err}
		}
	}
}

// Update обрабатывает команду или событие и возвращает команду для bubbletea
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case AddTracksMsg:
		return c.add(msg.Tracks)
	case SelectMsg:
		return c.selectAndLoad(msg.Index, true)
	case TogglePlayMsg:
		return c.togglePlayPause()
	case NextMsg:
		return c.navigate(c.policy.Next)
	case PrevMsg:
		return c.navigate(c.policy.Previous)
	case ShuffleMsg:
		c.toggleShuffle()
	case LoopMsg:
		c.toggleLoop()
	case SeekMsg:
		c.seek(msg.Fraction)
	case VolumeMsg:
		c.player.SetVolume(msg.Level)
		c.state.Volume = c.player.Volume()
	case ClearMsg:
		c.clear()
	case LoadedMsg:
		return c.onLoaded(msg)

	case MetadataMsg:
		if c.IsCurrent(msg.Handle) {
			c.log.Debug("длительность известна", zap.Duration("duration", msg.Duration))
		}
	case EndedMsg:
		return c.onTrackEnded(msg.Handle)
	case ErrorMsg:
		c.onPlaybackError(msg.Handle, msg.Err)
	}
	return nil
}

// Close останавливает воспроизведение, освобождает дескрипторы и закрывает движок
func (c *Controller) Close() error {
	c.player.Stop()
	c.loaded = nil
	return errors.Join(c.store.Clear(), c.player.Close())
}

// add дописывает треки; в пустом плейлисте выбирается первый без запуска
func (c *Controller) add(tracks []*playlist.Track) tea.Cmd {
	wasEmpty := c.store.Add(tracks...)
	c.policy.Grow(c.store.Len())
	c.log.Info("треки добавлены",
		zap.Int("added", len(tracks)),
		zap.Int("total", c.store.Len()),
	)
	if !wasEmpty || c.store.IsEmpty() {
		return nil
	}
	c.state.Status = StatusPaused
	return c.selectAndLoad(0, false)
}

// navigate переходит по политике порядка. Ручной переход отменяет повтор.
func (c *Controller) navigate(step func(int) int) tea.Cmd {
	if c.store.IsEmpty() {
		return nil
	}
	return c.selectAndLoad(step(c.state.Index), true)
}

// selectAndLoad останавливает движок, освобождает прежний дескриптор
// и запускает декодирование выбранного трека новым поколением
func (c *Controller) selectAndLoad(index int, manual bool) tea.Cmd {
	if index < 0 || index >= c.store.Len() {
		return nil
	}
	if manual && c.policy.Mode() == order.Loop {
		c.policy.DisableLoop()
		c.state.Mode = c.policy.Mode()
	}

	c.player.Stop()
	c.loaded = nil
	if prev := c.store.At(c.state.Index); prev != nil {
		if err := prev.Release(); err != nil {
			c.log.Warn("ошибка освобождения дескриптора", zap.String("path", prev.Path), zap.Error(err))
		}
	}

	t := c.store.At(index)
	c.state.Generation++
	c.state.Index = index
	c.state.NowPlaying = t.DisplayName()
	c.state.Loading = true
	c.state.Unplayable = false
	c.state.Err = nil
	if c.state.Status == StatusEmpty {
		c.state.Status = StatusPaused
	}

	c.log.Debug("загрузка трека",
		zap.Int("index", index),
		zap.String("track_id", t.ID),
		zap.String("path", t.Path),
		zap.Uint64("generation", c.state.Generation),
	)
	return c.decode(c.state.Generation, index, t)
}

// decode декодирует трек вне цикла интерфейса
func (c *Controller) decode(generation uint64, index int, t *playlist.Track) tea.Cmd {
	p := c.player
	payload, contentType := t.Payload, t.ContentType
	return func() tea.Msg {
		h, err := p.Open(payload, contentType)
		return LoadedMsg{Generation: generation, Index: index, Handle: h, Err: err}
	}
}

func (c *Controller) onLoaded(msg LoadedMsg) tea.Cmd {
	if msg.Generation != c.state.Generation {
		// Загрузку обогнала более новая: ее результат не должен попасть в интерфейс
		if msg.Handle != nil {
			_ = msg.Handle.Close()
		}
		c.log.Debug("устаревшая загрузка отброшена",
			zap.Uint64("generation", msg.Generation),
			zap.Uint64("current", c.state.Generation),
		)
		return nil
	}

	c.state.Loading = false
	t := c.store.At(msg.Index)
	if t == nil {
		if msg.Handle != nil {
			_ = msg.Handle.Close()
		}
		return nil
	}
	if msg.Err != nil {
		c.markUnplayable(&DecodeError{Path: t.Path, Err: msg.Err})
		return nil
	}

	if err := t.Attach(msg.Handle); err != nil {
		c.log.Warn("ошибка освобождения дескриптора", zap.String("path", t.Path), zap.Error(err))
	}
	// Открытым остается только дескриптор текущего трека
	if n := c.store.LiveHandles(); n > 1 {
		c.log.Warn("открыто несколько дескрипторов", zap.Int("handles", n), zap.String("track_id", t.ID))
	}
	if err := c.player.Load(msg.Handle); err != nil {
		c.markUnplayable(&DecodeError{Path: t.Path, Err: err})
		return nil
	}
	c.loaded = msg.Handle

	if c.state.Status == StatusPlaying {
		c.start()
	}
	return nil
}

// start запускает загруженный трек; при ошибке остаемся на паузе
func (c *Controller) start() {
	if err := c.player.Play(); err != nil {
		serr := &StartError{Index: c.state.Index, Err: err}
		c.log.Error("ошибка запуска воспроизведения", zap.Error(serr))
		c.state.Status = StatusPaused
		c.state.Err = serr
		return
	}
	c.state.Status = StatusPlaying
	c.state.Err = nil
}

func (c *Controller) togglePlayPause() tea.Cmd {
	switch c.state.Status {
	case StatusPlaying:
		c.player.Pause()
		c.state.Status = StatusPaused
	case StatusPaused:
		switch {
		case c.state.Unplayable:
			// Повторная попытка только по явному действию пользователя
			c.state.Status = StatusPlaying
			return c.selectAndLoad(c.state.Index, false)
		case c.state.Loading:
			c.state.Status = StatusPlaying
		default:
			c.start()
		}
	}
	return nil
}

// onTrackEnded: повтор перезапускает тот же трек, иначе переходим к следующему
func (c *Controller) onTrackEnded(h player.Handle) tea.Cmd {
	if !c.IsCurrent(h) {
		c.log.Debug("событие окончания от устаревшего потока проигнорировано")
		return nil
	}

	if c.policy.Mode() == order.Loop {
		// После окончания поток снят с динамиков: загружаем его заново с нуля
		if err := c.player.Load(h); err != nil {
			c.markUnplayable(&DecodeError{Path: c.currentPath(), Err: err})
			return nil
		}
		c.start()
		return nil
	}

	c.state.Status = StatusPlaying
	return c.selectAndLoad(c.policy.Next(c.state.Index), false)
}

func (c *Controller) onPlaybackError(h player.Handle, err error) {
	if !c.IsCurrent(h) {
		return
	}
	c.player.Stop()
	c.loaded = nil
	c.markUnplayable(&DecodeError{Path: c.currentPath(), Err: err})
}

// markUnplayable оставляет трек выбранным, но помечает его невоспроизводимым
func (c *Controller) markUnplayable(err error) {
	c.log.Error("трек не может быть воспроизведен",
		zap.Int("index", c.state.Index),
		zap.String("track_id", c.currentID()),
		zap.Error(err),
	)
	c.state.Unplayable = true
	c.state.Loading = false
	c.state.Err = err
	if c.state.Status == StatusPlaying {
		c.state.Status = StatusPaused
	}
}

func (c *Controller) toggleShuffle() {
	if c.policy.Mode() == order.Shuffle {
		c.state.Index = c.policy.DisableShuffle(c.state.Index)
	} else {
		c.policy.EnableShuffle(c.store.Len(), c.state.Index)
	}
	c.state.Mode = c.policy.Mode()
	c.log.Info("режим порядка изменен", zap.Stringer("mode", c.state.Mode))
}

func (c *Controller) toggleLoop() {
	if c.policy.Mode() == order.Loop {
		c.policy.DisableLoop()
	} else {
		c.policy.EnableLoop()
	}
	c.state.Mode = c.policy.Mode()
	c.log.Info("режим порядка изменен", zap.Stringer("mode", c.state.Mode))
}

// seek применяет зафиксированную позицию: fraction × длительность
func (c *Controller) seek(fraction float64) {
	if c.loaded == nil {
		return
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	pos := time.Duration(fraction * float64(c.player.Duration()))
	if err := c.player.Seek(pos); err != nil {
		c.log.Warn("ошибка перемотки", zap.Duration("position", pos), zap.Error(err))
	}
}

func (c *Controller) clear() {
	c.player.Stop()
	c.loaded = nil
	if err := c.store.Clear(); err != nil {
		c.log.Warn("ошибка освобождения дескрипторов", zap.Error(err))
	}
	c.policy.Reset()
	c.state = State{
		Index:      -1,
		Status:     StatusEmpty,
		Mode:       c.policy.Mode(),
		Generation: c.state.Generation + 1,
		Volume:     c.state.Volume,
	}
	c.log.Info("плейлист очищен")
}

func (c *Controller) currentID() string {
	if t := c.store.At(c.state.Index); t != nil {
		return t.ID
	}
	return ""
}

func (c *Controller) currentPath() string {
	if t := c.store.At(c.state.Index); t != nil {
		return t.Path
	}
	return ""
}
