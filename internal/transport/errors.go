package transport

import "fmt"

// StartError - не удалось начать воспроизведение загруженного трека
type StartError struct {
	Index int
	Err   error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("не удалось начать воспроизведение трека %d: %v", e.Index, e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// DecodeError - трек не удалось декодировать, он помечен как невоспроизводимый
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ошибка декодирования %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
