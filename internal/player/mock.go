package player

import (
	"time"
)

// MockHandle - дескриптор для тестов
type MockHandle struct {
	Name   string
	Length time.Duration
	Closed int
}

// Duration возвращает заданную длительность
func (h *MockHandle) Duration() time.Duration { return h.Length }

// Close считает закрытия
func (h *MockHandle) Close() error {
	h.Closed++
	return nil
}

// Mock - тестовый двойник Player
type Mock struct {
	loaded   *MockHandle
	playing  bool
	position time.Duration
	level    float64
	events   chan Event

	openErr error
	loadErr error
	playErr error
	length  time.Duration
	left    []float64
	right   []float64
	opened  []*MockHandle
	loads   []*MockHandle
	seeks   []time.Duration
	stops   int
	closed  bool
}

// NewMock создает тестовый плеер
func NewMock() *Mock {
	return &Mock{
		level:  1,
		length: 3 * time.Minute,
		events: make(chan Event, eventBufferSize),
	}
}

func (m *Mock) Open(payload []byte, _ string) (Handle, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	h := &MockHandle{Name: string(payload), Length: m.length}
	m.opened = append(m.opened, h)
	return h, nil
}

func (m *Mock) Load(h Handle) error {
	if m.loadErr != nil {
		return m.loadErr
	}
	mh, ok := h.(*MockHandle)
	if !ok {
		return ErrForeignHandle
	}
	m.loaded = mh
	m.playing = false
	m.position = 0
	m.loads = append(m.loads, mh)
	return nil
}

func (m *Mock) Play() error {
	if m.loaded == nil {
		return ErrNoHandle
	}
	if m.playErr != nil {
		return m.playErr
	}
	m.playing = true
	return nil
}

func (m *Mock) Pause() { m.playing = false }

func (m *Mock) Seek(pos time.Duration) error {
	if m.loaded == nil {
		return ErrNoHandle
	}
	m.seeks = append(m.seeks, pos)
	m.position = pos
	return nil
}

func (m *Mock) SetVolume(level float64) { m.level = clampLevel(level) }

func (m *Mock) Volume() float64 { return m.level }

func (m *Mock) Stop() {
	m.stops++
	m.loaded = nil
	m.playing = false
	m.position = 0
}

func (m *Mock) Position() time.Duration { return m.position }

func (m *Mock) Duration() time.Duration {
	if m.loaded == nil {
		return 0
	}
	return m.loaded.Length
}

func (m *Mock) Events() <-chan Event { return m.events }

func (m *Mock) Samples(n int) (left, right []float64) {
	left, right = make([]float64, n), make([]float64, n)
	copy(left, m.left)
	copy(right, m.right)
	return left, right
}

func (m *Mock) Close() error {
	m.Stop()
	m.closed = true
	return nil
}

// Вспомогательные методы для тестов

func (m *Mock) SetOpenError(err error) { m.openErr = err }

func (m *Mock) SetLoadError(err error) { m.loadErr = err }

func (m *Mock) SetPlayError(err error) { m.playErr = err }

func (m *Mock) SetLength(d time.Duration) { m.length = d }

func (m *Mock) SetPosition(d time.Duration) { m.position = d }

func (m *Mock) SetSamples(left, right []float64) { m.left, m.right = left, right }

func (m *Mock) IsPlaying() bool { return m.playing }

func (m *Mock) Loaded() *MockHandle { return m.loaded }

func (m *Mock) Opened() []*MockHandle { return m.opened }

func (m *Mock) Loads() []*MockHandle { return m.loads }

func (m *Mock) Seeks() []time.Duration { return m.seeks }

func (m *Mock) Stops() int { return m.stops }

func (m *Mock) IsClosed() bool { return m.closed }

// SimulateEnded имитирует окончание трека
func (m *Mock) SimulateEnded(h Handle) {
	m.playing = false
	m.events <- Event{Kind: EventEnded, Handle: h}
}

// SimulateError имитирует ошибку потока
func (m *Mock) SimulateError(h Handle, err error) {
	m.playing = false
	m.events <- Event{Kind: EventError, Handle: h, Err: err}
}

// Проверяем на этапе компиляции, что Mock реализует Interface
var _ Interface = (*Mock)(nil)
