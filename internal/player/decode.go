package player

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// ErrUnsupportedFormat возвращается для неизвестного типа содержимого
var ErrUnsupportedFormat = errors.New("неподдерживаемый формат аудио")

// stream - дескриптор декодированного трека
type stream struct {
	streamer beep.StreamSeekCloser
	format   beep.Format

	once sync.Once
	err  error
}

// Duration возвращает длительность потока
func (s *stream) Duration() time.Duration {
	return s.format.SampleRate.D(s.streamer.Len())
}

// Close освобождает декодер. Повторный вызов безопасен.
func (s *stream) Close() error {
	s.once.Do(func() {
		s.err = s.streamer.Close()
	})
	return s.err
}

// payloadReader отдает декодерам данные из памяти.
// mp3 и vorbis умеют перематывать и считать длину только через io.Seeker,
// поэтому io.NopCloser здесь не подходит.
type payloadReader struct {
	*bytes.Reader
}

// Close ничего не делает: данными владеет трек
func (payloadReader) Close() error {
	return nil
}

// Decode создает дескриптор из аудиоданных в памяти по типу содержимого
func Decode(payload []byte, contentType string) (Handle, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("ошибка декодирования: пустые данные")
	}

	reader := bytes.NewReader(payload)

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)

	switch normalizeContentType(contentType) {
	case "audio/mpeg":
		streamer, format, err = mp3.Decode(payloadReader{reader})
	case "audio/wav":
		streamer, format, err = wav.Decode(reader)
	case "audio/flac":
		streamer, format, err = flac.Decode(reader)
	case "audio/ogg":
		streamer, format, err = vorbis.Decode(payloadReader{reader})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, contentType)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования %s: %w", contentType, err)
	}

	return &stream{streamer: streamer, format: format}, nil
}

// normalizeContentType приводит синонимы типов к одному виду
func normalizeContentType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case "audio/mpeg", "audio/mp3", "audio/mpeg3":
		return "audio/mpeg"
	case "audio/wav", "audio/x-wav", "audio/wave", "audio/vnd.wave":
		return "audio/wav"
	case "audio/flac", "audio/x-flac":
		return "audio/flac"
	case "audio/ogg", "audio/vorbis", "application/ogg":
		return "audio/ogg"
	default:
		return ct
	}
}
