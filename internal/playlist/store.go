package playlist

import "errors"

// Store хранит упорядоченный список треков.
// Порядок добавления сохраняется, дубликаты разрешены.
type Store struct {
	tracks []*Track
}

// NewStore создает пустой плейлист
func NewStore() *Store {
	return &Store{tracks: make([]*Track, 0)}
}

// Add добавляет треки в конец плейлиста.
// Возвращает true, если до добавления плейлист был пуст.
func (s *Store) Add(tracks ...*Track) bool {
	wasEmpty := len(s.tracks) == 0
	for _, t := range tracks {
		if t != nil {
			s.tracks = append(s.tracks, t)
		}
	}
	return wasEmpty
}

// Clear освобождает дескрипторы всех треков и очищает плейлист
func (s *Store) Clear() error {
	var errs []error
	for _, t := range s.tracks {
		if err := t.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	s.tracks = s.tracks[:0]
	return errors.Join(errs...)
}

// Len возвращает количество треков
func (s *Store) Len() int {
	return len(s.tracks)
}

// IsEmpty сообщает, пуст ли плейлист
func (s *Store) IsEmpty() bool {
	return len(s.tracks) == 0
}

// At возвращает трек по индексу или nil, если индекс вне диапазона
func (s *Store) At(index int) *Track {
	if index < 0 || index >= len(s.tracks) {
		return nil
	}
	return s.tracks[index]
}

// Tracks возвращает копию списка треков
func (s *Store) Tracks() []*Track {
	out := make([]*Track, len(s.tracks))
	copy(out, s.tracks)
	return out
}

// LiveHandles считает треки с привязанными дескрипторами
func (s *Store) LiveHandles() int {
	n := 0
	for _, t := range s.tracks {
		if t.HasHandle() {
			n++
		}
	}
	return n
}
