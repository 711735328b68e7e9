// Package playlist содержит модель трека и хранилище плейлиста
package playlist

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Track представляет один трек плейлиста вместе с его аудиоданными
type Track struct {
	ID          string // Ключ для отображения, не участвует в сравнении треков
	Path        string // Путь к файлу или s3:// адрес
	Name        string // Отображаемое имя
	Artist      string
	Title       string
	Album       string
	ContentType string // Тип содержимого, согласованный по расширению
	Payload     []byte // Аудиоданные в памяти
	Size        int64

	handle io.Closer
}

// NewTrack создает трек из пути и содержимого файла
func NewTrack(path string, payload []byte, contentType string) *Track {
	return &Track{
		ID:          uuid.NewString(),
		Path:        path,
		Name:        filepath.Base(path),
		ContentType: contentType,
		Payload:     payload,
		Size:        int64(len(payload)),
	}
}

// DisplayName возвращает строку для списка и заголовка "сейчас играет"
func (t *Track) DisplayName() string {
	if t.Title != "" && t.Artist != "" {
		return t.Artist + " - " + t.Title
	}
	if t.Title != "" {
		return t.Title
	}
	if t.Name != "" {
		return t.Name
	}
	return strings.TrimSpace(t.Path)
}

// Attach привязывает воспроизводимый дескриптор к треку.
// Предыдущий дескриптор закрывается до привязки нового.
func (t *Track) Attach(h io.Closer) error {
	err := t.Release()
	t.handle = h
	return err
}

// Release закрывает и забывает дескриптор трека
func (t *Track) Release() error {
	if t.handle == nil {
		return nil
	}
	h := t.handle
	t.handle = nil
	return h.Close()
}

// Handle возвращает текущий дескриптор или nil
func (t *Track) Handle() io.Closer {
	return t.handle
}

// HasHandle сообщает, привязан ли к треку живой дескриптор
func (t *Track) HasHandle() bool {
	return t.handle != nil
}
