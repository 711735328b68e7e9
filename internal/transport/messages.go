package transport

import (
	"time"

	"github.com/hazadus/go-stereo/internal/player"
	"github.com/hazadus/go-stereo/internal/playlist"
)

// Команды интерфейса

// AddTracksMsg добавляет треки в конец плейлиста
type AddTracksMsg struct {
	Tracks []*playlist.Track
}

// SelectMsg выбирает трек по индексу плейлиста
type SelectMsg struct {
	Index int
}

// TogglePlayMsg переключает воспроизведение и паузу
type TogglePlayMsg struct{}

// NextMsg переходит к следующему треку
type NextMsg struct{}

// PrevMsg переходит к предыдущему треку
type PrevMsg struct{}

// ShuffleMsg включает или выключает перемешивание
type ShuffleMsg struct{}

// LoopMsg включает или выключает повтор текущего трека
type LoopMsg struct{}

// SeekMsg перематывает на долю длительности. Отправляется только при фиксации.
type SeekMsg struct {
	Fraction float64
}

// VolumeMsg задает громкость 0..1
type VolumeMsg struct {
	Level float64
}

// ClearMsg очищает плейлист
type ClearMsg struct{}

// События воспроизведения

// LoadedMsg сообщает о завершении декодирования трека.
// Generation позволяет отбросить результат устаревшей загрузки.
type LoadedMsg struct {
	Generation uint64
	Index      int
	Handle     player.Handle
	Err        error
}

// MetadataMsg - длительность загруженного потока стала известна
type MetadataMsg struct {
	Handle   player.Handle
	Duration time.Duration
}

// EndedMsg - поток доигран до конца
type EndedMsg struct {
	Handle player.Handle
}

// ErrorMsg - ошибка декодирования во время воспроизведения
type ErrorMsg struct {
	Handle player.Handle
	Err    error
}
