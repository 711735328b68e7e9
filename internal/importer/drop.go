package importer

import (
	"net/url"
	"strings"
	"unicode"
)

// ParseDropped разбирает текст, который терминал вставляет при перетаскивании файлов.
// Поддерживаются пути в кавычках, экранирование обратной косой чертой
// и адреса file://, разделенные пробелами или переводами строк.
func ParseDropped(text string) []string {
	var (
		paths   []string
		current strings.Builder
		quote   rune
		escaped bool
		inToken bool
	)

	flush := func() {
		if inToken {
			if p := normalizeDropped(current.String()); p != "" {
				paths = append(paths, p)
			}
		}
		current.Reset()
		inToken = false
	}

	for _, r := range text {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inToken = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	flush()

	return paths
}

// normalizeDropped превращает file:// адрес в путь
func normalizeDropped(token string) string {
	if !strings.HasPrefix(token, "file://") {
		return token
	}
	u, err := url.Parse(token)
	if err != nil || u.Path == "" {
		return ""
	}
	return u.Path
}
