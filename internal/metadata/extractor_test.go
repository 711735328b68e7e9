package metadata

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hazadus/go-stereo/internal/playlist"
)

// silentWAV собирает моно WAV из тишины заданной длины в кадрах
func silentWAV(t *testing.T, sampleRate, frames int) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := func(v any) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("Ошибка записи WAV: %v", err)
		}
	}
	buf.WriteString("RIFF")
	w(uint32(36 + frames*2))
	buf.WriteString("WAVEfmt ")
	w(uint32(16))
	w(uint16(1))
	w(uint16(1))
	w(uint32(sampleRate))
	w(uint32(sampleRate * 2))
	w(uint16(2))
	w(uint16(16))
	buf.WriteString("data")
	w(uint32(frames * 2))
	buf.Write(make([]byte, frames*2))
	return buf.Bytes()
}

func TestExtractMetadata(t *testing.T) {
	// Создаем временный тестовый файл
	tempDir := t.TempDir()
	testFilePath := filepath.Join(tempDir, "test.mp3")

	// Создаем простой файл для тестирования
	content := []byte("fake mp3 content for testing")
	err := os.WriteFile(testFilePath, content, 0644)
	if err != nil {
		t.Fatalf("Ошибка создания тестового файла: %v", err)
	}

	extractor := NewExtractor()
	metadata := extractor.ExtractFromFile(testFilePath)

	// Без тегов название берется из имени файла
	if metadata.Title != "test" {
		t.Errorf("Ожидался Title: test, получено: %s", metadata.Title)
	}
	if metadata.Artist != "" {
		t.Errorf("Исполнитель должен быть пустым, получено: %s", metadata.Artist)
	}
}

func TestExtractFromNoMetadataFile(t *testing.T) {
	// Создаем временный файл без метаданных
	tempDir := t.TempDir()
	testFilePath := filepath.Join(tempDir, "Artist - Title.mp3")

	// Создаем файл с именем в формате "Artist - Title"
	content := []byte("fake content")
	err := os.WriteFile(testFilePath, content, 0644)
	if err != nil {
		t.Fatalf("Ошибка создания тестового файла: %v", err)
	}

	extractor := NewExtractor()
	metadata := extractor.ExtractFromFile(testFilePath)

	// Проверяем, что метаданные извлечены из имени файла
	if metadata.Artist != "Artist" {
		t.Errorf("Ожидался Artist: Artist, получено: %s", metadata.Artist)
	}
	if metadata.Title != "Title" {
		t.Errorf("Ожидался Title: Title, получено: %s", metadata.Title)
	}
}

func TestExtractFromCorruptedPayload(t *testing.T) {
	corruptedContent := []byte{0x00, 0x01, 0x02, 0x03, 0xFF, 0xFE, 0xFD}

	extractor := NewExtractor()
	metadata := extractor.ExtractFromPayload(corruptedContent, "/music/Unknown - Track.flac")

	// Проверяем, что метаданные извлечены из имени файла при ошибке
	if metadata.Artist != "Unknown" {
		t.Errorf("Ожидался Artist: Unknown, получено: %s", metadata.Artist)
	}
	if metadata.Title != "Track" {
		t.Errorf("Ожидался Title: Track, получено: %s", metadata.Title)
	}
}

func TestGetDefaultMetadata(t *testing.T) {
	extractor := NewExtractor()

	// Тестируем файл с форматом "Artist - Title"
	metadata1 := extractor.getDefaultMetadata("/path/to/Artist - Title.mp3")
	if metadata1.Artist != "Artist" {
		t.Errorf("Ожидался Artist: Artist, получено: %s", metadata1.Artist)
	}
	if metadata1.Title != "Title" {
		t.Errorf("Ожидался Title: Title, получено: %s", metadata1.Title)
	}

	// Тестируем файл с простым именем
	metadata2 := extractor.getDefaultMetadata("/path/to/SimpleTrack.ogg")
	if metadata2.Artist != "" {
		t.Errorf("Ожидался пустой Artist, получено: %s", metadata2.Artist)
	}
	if metadata2.Title != "SimpleTrack" {
		t.Errorf("Ожидался Title: SimpleTrack, получено: %s", metadata2.Title)
	}

	// Тестируем файл с несколькими дефисами
	metadata3 := extractor.getDefaultMetadata("/path/to/Artist - Album - Title.mp3")
	if metadata3.Artist != "Artist" {
		t.Errorf("Ожидался Artist: Artist, получено: %s", metadata3.Artist)
	}
	if metadata3.Title != "Album - Title" {
		t.Errorf("Ожидался Title: Album - Title, получено: %s", metadata3.Title)
	}
}

func TestExtractFromReader(t *testing.T) {
	extractor := NewExtractor()
	metadata := extractor.ExtractFromReader(bytes.NewReader([]byte("test content")), "s3://bucket/Test - Song.mp3")

	if metadata.Artist != "Test" {
		t.Errorf("Ожидался Artist: Test, получено: %s", metadata.Artist)
	}
	if metadata.Title != "Song" {
		t.Errorf("Ожидался Title: Song, получено: %s", metadata.Title)
	}
}

func TestApply(t *testing.T) {
	track := playlist.NewTrack("/music/Band - Tune.wav", []byte("no tags"), "audio/wav")

	NewExtractor().Apply(track)

	if track.Artist != "Band" || track.Title != "Tune" {
		t.Errorf("Ожидалось Band/Tune, получено: %s/%s", track.Artist, track.Title)
	}
	if track.DisplayName() != "Band - Tune" {
		t.Errorf("Неожиданное отображаемое имя: %s", track.DisplayName())
	}
}

func TestGetDuration(t *testing.T) {
	extractor := NewExtractor()

	duration, err := extractor.GetDuration(silentWAV(t, 8000, 16000), "audio/wav")
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if duration != 2*time.Second {
		t.Errorf("Ожидалась длительность 2s, получено: %v", duration)
	}
}

func TestGetDurationCompressed(t *testing.T) {
	tests := []struct {
		file        string
		contentType string
	}{
		{"tone.mp3", "audio/mpeg"},
		{"tone.ogg", "audio/ogg"},
		{"tone.flac", "audio/flac"},
	}

	extractor := NewExtractor()
	for _, tt := range tests {
		payload, err := os.ReadFile(filepath.Join("testdata", tt.file))
		if err != nil {
			t.Fatalf("Ошибка чтения %s: %v", tt.file, err)
		}

		duration, err := extractor.GetDuration(payload, tt.contentType)
		if err != nil {
			t.Errorf("%s: неожиданная ошибка: %v", tt.file, err)
			continue
		}
		if duration <= 0 {
			t.Errorf("%s: ожидалась положительная длительность, получено: %v", tt.file, duration)
		}
	}
}

func TestGetDurationInvalidPayload(t *testing.T) {
	extractor := NewExtractor()
	duration, err := extractor.GetDuration([]byte("test content"), "audio/mpeg")

	// Ожидаем ошибку, так как данные не являются валидным MP3
	if err == nil {
		t.Fatal("Ожидалась ошибка для некорректного MP3")
	}
	if !strings.Contains(err.Error(), "ошибка декодирования") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}

	// Проверяем, что длительность равна 0 при ошибке
	if duration != 0 {
		t.Errorf("Ожидалась длительность 0 при ошибке, получено: %v", duration)
	}
}

func TestGetFileInfo(t *testing.T) {
	tempDir := t.TempDir()
	testFilePath := filepath.Join(tempDir, "tone.wav")

	payload := silentWAV(t, 8000, 4000)
	if err := os.WriteFile(testFilePath, payload, 0644); err != nil {
		t.Fatalf("Ошибка создания тестового файла: %v", err)
	}

	fileInfo, err := NewExtractor().GetFileInfo(testFilePath, "audio/wav")
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if fileInfo.Size != int64(len(payload)) {
		t.Errorf("Ожидался размер %d, получено: %d", len(payload), fileInfo.Size)
	}
	if fileInfo.Duration != 500*time.Millisecond {
		t.Errorf("Ожидалась длительность 500ms, получено: %v", fileInfo.Duration)
	}
}

func TestGetFileInfoInvalidAudio(t *testing.T) {
	tempDir := t.TempDir()
	testFilePath := filepath.Join(tempDir, "test.mp3")

	if err := os.WriteFile(testFilePath, []byte("test content for file info"), 0644); err != nil {
		t.Fatalf("Ошибка создания тестового файла: %v", err)
	}

	fileInfo, err := NewExtractor().GetFileInfo(testFilePath, "audio/mpeg")
	if err == nil {
		t.Fatal("Ожидалась ошибка для некорректного MP3 файла")
	}
	if fileInfo != nil {
		t.Error("fileInfo должен быть nil при ошибке")
	}
	if !strings.Contains(err.Error(), "ошибка получения длительности") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
}

func TestGetFileInfoNonExistentFile(t *testing.T) {
	_, err := NewExtractor().GetFileInfo("/non/existent/file.mp3", "audio/mpeg")

	if err == nil {
		t.Fatal("Ожидалась ошибка для несуществующего файла")
	}
	if !strings.Contains(err.Error(), "ошибка получения информации о файле") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
}
