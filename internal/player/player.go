// Package player содержит движок воспроизведения аудио на основе beep
package player

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

const (
	// DefaultSampleRate - частота дискретизации динамиков по умолчанию
	DefaultSampleRate = 44100
	// tapSize - размер кольцевого буфера для анализа, с запасом на окно БПФ
	tapSize = 4096
	// eventBufferSize - емкость канала событий
	eventBufferSize = 16
)

var (
	// ErrNoHandle возвращается, если в плеер ничего не загружено
	ErrNoHandle = errors.New("трек не загружен")
	// ErrForeignHandle возвращается для дескриптора, созданного не этим движком
	ErrForeignHandle = errors.New("дескриптор создан другим движком")
)

// Player управляет воспроизведением одного загруженного потока
type Player struct {
	mutex         sync.Mutex
	sampleRate    beep.SampleRate
	isInitialized bool
	events        chan Event
	log           *zap.Logger

	// Компоненты для воспроизведения
	current *stream
	ctrl    *beep.Ctrl
	volume  *effects.Volume
	tap     *Tap
	level   float64
}

// NewPlayer создает новый экземпляр плеера.
// Динамики инициализируются лениво при первой загрузке.
func NewPlayer(sampleRate int, log *zap.Logger) *Player {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{
		sampleRate: beep.SampleRate(sampleRate),
		events:     make(chan Event, eventBufferSize),
		log:        log,
		level:      1,
	}
}

// Open декодирует аудиоданные в новый дескриптор
func (p *Player) Open(payload []byte, contentType string) (Handle, error) {
	return Decode(payload, contentType)
}

// Events возвращает канал событий воспроизведения
func (p *Player) Events() <-chan Event {
	return p.events
}

// Load загружает дескриптор в плеер на паузе с позиции 0.
// Предыдущий поток снимается с динамиков, но не закрывается: им владеет трек.
func (p *Player) Load(h Handle) error {
	s, ok := h.(*stream)
	if !ok {
		return ErrForeignHandle
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.stopInternal()

	// Инициализируем speaker (только один раз)
	if !p.isInitialized {
		if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/10)); err != nil {
			return fmt.Errorf("ошибка инициализации динамиков: %w", err)
		}
		p.isInitialized = true
	}

	if err := s.streamer.Seek(0); err != nil {
		return fmt.Errorf("ошибка перемотки в начало: %w", err)
	}

	var source beep.Streamer = s.streamer
	if s.format.SampleRate != p.sampleRate {
		source = beep.Resample(4, s.format.SampleRate, p.sampleRate, source)
	}

	p.tap = NewTap(source, tapSize)
	p.volume = &effects.Volume{Streamer: p.tap, Base: 2}
	applyLevel(p.volume, p.level)
	p.ctrl = &beep.Ctrl{Streamer: p.volume, Paused: true}
	p.current = s

	speaker.Play(beep.Seq(p.ctrl, beep.Callback(func() {
		// Вызывается из горутины динамиков под их блокировкой:
		// здесь нельзя брать p.mutex
		p.finished(s)
	})))

	p.emit(Event{Kind: EventMetadata, Handle: s, Duration: s.Duration()})
	return nil
}

// Play снимает загруженный поток с паузы
func (p *Player) Play() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.ctrl == nil {
		return ErrNoHandle
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// Pause ставит воспроизведение на паузу
func (p *Player) Pause() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = true
		speaker.Unlock()
	}
}

// Seek перематывает загруженный поток на позицию
func (p *Player) Seek(pos time.Duration) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.current == nil {
		return ErrNoHandle
	}

	s := p.current
	n := s.format.SampleRate.N(pos)
	speaker.Lock()
	length := s.streamer.Len()
	if n < 0 {
		n = 0
	}
	if n > length {
		n = length
	}
	err := s.streamer.Seek(n)
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("ошибка перемотки: %w", err)
	}
	p.tap.Reset()
	return nil
}

// SetVolume задает громкость в диапазоне 0..1
func (p *Player) SetVolume(level float64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.level = clampLevel(level)
	if p.volume != nil {
		speaker.Lock()
		applyLevel(p.volume, p.level)
		speaker.Unlock()
	}
}

// Volume возвращает текущую громкость
func (p *Player) Volume() float64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.level
}

// Stop снимает поток с динамиков
func (p *Player) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.stopInternal()
}

// stopInternal внутренний метод остановки (должен вызываться под мьютексом)
func (p *Player) stopInternal() {
	if p.ctrl != nil && p.isInitialized {
		speaker.Clear()
	}
	p.ctrl = nil
	p.volume = nil
	p.tap = nil
	p.current = nil
}

// Position возвращает текущую позицию
func (p *Player) Position() time.Duration {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.current == nil {
		return 0
	}
	speaker.Lock()
	pos := p.current.format.SampleRate.D(p.current.streamer.Position())
	speaker.Unlock()
	return pos
}

// Duration возвращает длительность загруженного потока
func (p *Player) Duration() time.Duration {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.current == nil {
		return 0
	}
	return p.current.Duration()
}

// Samples возвращает последние n сэмплов для анализатора
func (p *Player) Samples(n int) (left, right []float64) {
	p.mutex.Lock()
	tap := p.tap
	p.mutex.Unlock()

	if tap == nil {
		return make([]float64, n), make([]float64, n)
	}
	return tap.Samples(n)
}

// Close останавливает воспроизведение и закрывает динамики
func (p *Player) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.stopInternal()
	if p.isInitialized {
		speaker.Close()
		p.isInitialized = false
	}
	return nil
}

// finished уведомляет о завершении потока
func (p *Player) finished(s *stream) {
	if err := s.streamer.Err(); err != nil {
		p.emit(Event{Kind: EventError, Handle: s, Err: err})
		return
	}
	p.emit(Event{Kind: EventEnded, Handle: s})
}

// emit отправляет событие без блокировки
func (p *Player) emit(e Event) {
	select {
	case p.events <- e:
	default:
		p.log.Warn("очередь событий переполнена, событие пропущено", zap.Stringer("kind", e.Kind))
	}
}

// applyLevel переводит линейную громкость в логарифмическую шкалу effects.Volume
func applyLevel(v *effects.Volume, level float64) {
	if level <= 0 {
		v.Silent = true
		v.Volume = 0
		return
	}
	v.Silent = false
	v.Volume = math.Log2(level)
}

func clampLevel(level float64) float64 {
	if math.IsNaN(level) || level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}
