package player

import "time"

// EventKind - тип события воспроизведения
type EventKind int

const (
	// EventMetadata - длительность трека стала известна
	EventMetadata EventKind = iota
	// EventEnded - трек доигран до конца
	EventEnded
	// EventError - поток завершился с ошибкой
	EventError
)

// String возвращает название события
func (k EventKind) String() string {
	switch k {
	case EventMetadata:
		return "metadata"
	case EventEnded:
		return "ended"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event - событие от движка воспроизведения.
// Handle указывает, к какому загруженному потоку относится событие.
type Event struct {
	Kind     EventKind
	Handle   Handle
	Duration time.Duration
	Err      error
}

// Handle - декодированный поток одного трека с возможностью перемотки.
// Должен быть явно закрыт владельцем.
type Handle interface {
	Duration() time.Duration
	Close() error
}

// Interface описывает движок воспроизведения для внедрения зависимостей и тестов
type Interface interface {
	Open(payload []byte, contentType string) (Handle, error)
	Load(h Handle) error
	Play() error
	Pause()
	Seek(pos time.Duration) error
	SetVolume(level float64)
	Volume() float64
	Stop()
	Position() time.Duration
	Duration() time.Duration
	Events() <-chan Event
	Samples(n int) (left, right []float64)
	Close() error
}

// Проверяем на этапе компиляции, что Player реализует Interface
var _ Interface = (*Player)(nil)
