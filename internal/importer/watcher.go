package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrWatcherClosed возвращается после закрытия наблюдателя
var ErrWatcherClosed = errors.New("наблюдатель папки закрыт")

// DefaultSettle - пауза без событий, после которой файлы считаются дописанными
const DefaultSettle = 300 * time.Millisecond

// Watcher следит за папкой для перетаскивания и сообщает о новых аудиофайлах
type Watcher struct {
	dir    string
	settle time.Duration
	fs     *fsnotify.Watcher
	log    *zap.Logger
}

// NewWatcher начинает наблюдение за папкой
func NewWatcher(dir string, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("ошибка создания наблюдателя: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("ошибка наблюдения за папкой %s: %w", dir, err)
	}
	return &Watcher{
		dir:    dir,
		settle: DefaultSettle,
		fs:     fw,
		log:    log,
	}, nil
}

// Dir возвращает папку наблюдения
func (w *Watcher) Dir() string {
	return w.dir
}

// Wait блокируется до появления хотя бы одного поддерживаемого файла,
// затем собирает события, пока папка не затихнет на время settle.
// Пути возвращаются в порядке первого появления без повторов.
func (w *Watcher) Wait(ctx context.Context) ([]string, error) {
	var (
		paths []string
		seen  = map[string]bool{}
		timer <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-timer:
			return paths, nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil, ErrWatcherClosed
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !IsSupported(ev.Name) {
				continue
			}
			name := filepath.Clean(ev.Name)
			if !seen[name] {
				seen[name] = true
				paths = append(paths, name)
			}
			timer = time.After(w.settle)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil, ErrWatcherClosed
			}
			w.log.Warn("ошибка наблюдения за папкой", zap.String("dir", w.dir), zap.Error(err))
		}
	}
}

// Close прекращает наблюдение
func (w *Watcher) Close() error {
	return w.fs.Close()
}
