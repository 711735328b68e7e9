package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hazadus/go-stereo/internal/importer"
)

// collectFiles раскрывает папки в списки поддерживаемых файлов.
// Файлы и s3:// адреса передаются как есть: их проверит импорт.
func collectFiles(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if importer.IsRemote(arg) {
			paths = append(paths, arg)
			continue
		}

		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения папки %s: %w", arg, err)
		}
		var found []string
		for _, entry := range entries {
			if !entry.IsDir() && importer.IsSupported(entry.Name()) {
				found = append(found, filepath.Join(arg, entry.Name()))
			}
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}
