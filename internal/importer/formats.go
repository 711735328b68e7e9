// Package importer читает аудиофайлы с диска и из S3 и превращает их в треки плейлиста
package importer

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupported возвращается для файлов вне списка разрешенных расширений
var ErrUnsupported = errors.New("неподдерживаемый тип файла")

// contentTypes - разрешенные расширения и согласованный по ним тип содержимого
var contentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
}

// ReadError - файл не удалось прочитать; остальные файлы пакета импортируются
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("ошибка чтения %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Extensions возвращает разрешенные расширения в алфавитном порядке
func Extensions() []string {
	exts := make([]string, 0, len(contentTypes))
	for ext := range contentTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ContentTypeFor определяет тип содержимого по расширению пути или s3:// адреса
func ContentTypeFor(p string) (string, error) {
	ext := filepath.Ext(p)
	if IsRemote(p) {
		ext = path.Ext(p)
	}
	ct, ok := contentTypes[strings.ToLower(ext)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, p)
	}
	return ct, nil
}

// IsSupported сообщает, входит ли расширение в список разрешенных
func IsSupported(p string) bool {
	_, err := ContentTypeFor(p)
	return err == nil
}

// IsRemote сообщает, указывает ли путь на объект S3
func IsRemote(p string) bool {
	return strings.HasPrefix(p, "s3://")
}

// FilterSupported делит пути на поддерживаемые и отклоненные
func FilterSupported(paths []string) (supported, rejected []string) {
	for _, p := range paths {
		if IsSupported(p) {
			supported = append(supported, p)
		} else {
			rejected = append(rejected, p)
		}
	}
	return supported, rejected
}
