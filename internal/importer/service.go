package importer

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hazadus/go-stereo/internal/metadata"
	"github.com/hazadus/go-stereo/internal/playlist"
)

// Reader читает содержимое файла целиком
type Reader interface {
	Read(ctx context.Context, path string) ([]byte, error)
}

// Fetcher скачивает объект по s3:// адресу
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// LocalReader читает файлы с диска
type LocalReader struct{}

// Read читает локальный файл
func (LocalReader) Read(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

// SourceReader направляет s3:// адреса в Fetcher, остальное читает с диска
type SourceReader struct {
	Local  Reader
	Remote Fetcher // nil, если S3 не настроен
}

// Read читает файл из подходящего источника
func (r SourceReader) Read(ctx context.Context, path string) ([]byte, error) {
	if IsRemote(path) {
		if r.Remote == nil {
			return nil, fmt.Errorf("S3 не настроен")
		}
		return r.Remote.Fetch(ctx, path)
	}
	local := r.Local
	if local == nil {
		local = LocalReader{}
	}
	return local.Read(ctx, path)
}

// Service управляет импортом пачки файлов
type Service struct {
	reader            Reader
	metadataExtractor *metadata.Extractor
	log               *zap.Logger
}

// NewService создает новый сервис импорта
func NewService(reader Reader, log *zap.Logger) *Service {
	if reader == nil {
		reader = LocalReader{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		reader:            reader,
		metadataExtractor: metadata.NewExtractor(),
		log:               log,
	}
}

// Result содержит итог импорта пачки
type Result struct {
	Tracks []*playlist.Track
	Errors []error
}

// ImportBatch читает файлы по порядку. Ошибка одного файла не прерывает пачку:
// файл пропускается, ошибка журналируется и попадает в Result.Errors.
func (s *Service) ImportBatch(ctx context.Context, paths []string) Result {
	var result Result

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, err)
			break
		}

		track, err := s.importOne(ctx, path)
		if err != nil {
			s.log.Warn("файл пропущен", zap.String("path", path), zap.Error(err))
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Tracks = append(result.Tracks, track)
	}

	s.log.Info("импорт завершен",
		zap.Int("requested", len(paths)),
		zap.Int("imported", len(result.Tracks)),
		zap.Int("failed", len(result.Errors)),
	)
	return result
}

func (s *Service) importOne(ctx context.Context, path string) (*playlist.Track, error) {
	contentType, err := ContentTypeFor(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	payload, err := s.reader.Read(ctx, path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	if len(payload) == 0 {
		return nil, &ReadError{Path: path, Err: fmt.Errorf("пустой файл")}
	}

	track := playlist.NewTrack(path, payload, contentType)
	s.metadataExtractor.Apply(track)
	return track, nil
}
