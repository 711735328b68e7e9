// Package analysis вычисляет частотный спектр стереосигнала для визуализатора
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	// DefaultFFTSize - размер окна БПФ
	DefaultFFTSize = 1024
	// DefaultSmoothing - коэффициент сглаживания между кадрами
	DefaultSmoothing = 0.8
	// DefaultMinDecibels - уровень, отображаемый в 0
	DefaultMinDecibels = -100.0
	// DefaultMaxDecibels - уровень, отображаемый в 255
	DefaultMaxDecibels = -30.0
)

// Channel - канал стереосигнала
type Channel int

const (
	Left Channel = iota
	Right
)

// String возвращает название канала
func (c Channel) String() string {
	switch c {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Source отдает последние n сэмплов левого и правого каналов
type Source interface {
	Samples(n int) (left, right []float64)
}

// Option настраивает анализатор
type Option func(*Analyzer)

// WithFFTSize задает размер окна БПФ (степень двойки)
func WithFFTSize(n int) Option {
	return func(a *Analyzer) {
		if n >= 32 && n&(n-1) == 0 {
			a.fftSize = n
		}
	}
}

// WithSmoothing задает сглаживание в диапазоне [0, 1)
func WithSmoothing(s float64) Option {
	return func(a *Analyzer) {
		if s >= 0 && s < 1 {
			a.smoothing = s
		}
	}
}

// WithDecibels задает диапазон уровней для байтового представления
func WithDecibels(minDB, maxDB float64) Option {
	return func(a *Analyzer) {
		if minDB < maxDB {
			a.minDB, a.maxDB = minDB, maxDB
		}
	}
}

// Analyzer превращает сэмплы в байтовые амплитуды частотных полос,
// по аналогии с AnalyserNode из Web Audio
type Analyzer struct {
	src       Source
	fftSize   int
	smoothing float64
	minDB     float64
	maxDB     float64

	window []float64
	smooth [2][]float64
	bytes  [2][]uint8
}

// New создает анализатор поверх источника сэмплов
func New(src Source, opts ...Option) *Analyzer {
	a := &Analyzer{
		src:       src,
		fftSize:   DefaultFFTSize,
		smoothing: DefaultSmoothing,
		minDB:     DefaultMinDecibels,
		maxDB:     DefaultMaxDecibels,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.window = window.Blackman(a.fftSize)
	for ch := range a.smooth {
		a.smooth[ch] = make([]float64, a.BinCount())
		a.bytes[ch] = make([]uint8, a.BinCount())
	}
	return a
}

// BinCount возвращает число частотных полос (половина окна БПФ)
func (a *Analyzer) BinCount() int {
	return a.fftSize / 2
}

// Refresh берет свежие сэмплы из источника и пересчитывает оба канала
func (a *Analyzer) Refresh() {
	left, right := a.src.Samples(a.fftSize)
	a.process(Left, left)
	a.process(Right, right)
}

// ByteFrequencyData копирует последние рассчитанные амплитуды канала в dst.
// Возвращает число скопированных полос.
func (a *Analyzer) ByteFrequencyData(ch Channel, dst []uint8) int {
	if ch != Left && ch != Right {
		return 0
	}
	return copy(dst, a.bytes[ch])
}

// Reset обнуляет историю сглаживания, например при смене трека
func (a *Analyzer) Reset() {
	for ch := range a.smooth {
		clear(a.smooth[ch])
		clear(a.bytes[ch])
	}
}

func (a *Analyzer) process(ch Channel, samples []float64) {
	frame := make([]float64, a.fftSize)
	// Короткий буфер выравнивается по правому краю: последние сэмплы важнее
	offset := a.fftSize - len(samples)
	for i, s := range samples {
		if j := offset + i; j >= 0 {
			frame[j] = s
		}
	}
	for i := range frame {
		frame[i] *= a.window[i]
	}

	spectrum := fft.FFTReal(frame)
	smooth := a.smooth[ch]
	out := a.bytes[ch]
	scale := 255 / (a.maxDB - a.minDB)

	for k := range smooth {
		mag := cmplx.Abs(spectrum[k]) / float64(a.fftSize)
		smooth[k] = a.smoothing*smooth[k] + (1-a.smoothing)*mag
		out[k] = toByte((decibels(smooth[k]) - a.minDB) * scale)
	}
}

func decibels(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}

func toByte(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
