package player

import (
	"sync"

	"github.com/gopxl/beep"
)

// Tap пропускает звук дальше по цепочке и копирует стереосэмплы
// в кольцевой буфер для частотного анализа
type Tap struct {
	s    beep.Streamer
	mu   sync.Mutex
	buf  [][2]float64
	pos  int
	size int
}

// NewTap оборачивает стример кольцевым буфером заданного размера
func NewTap(s beep.Streamer, size int) *Tap {
	return &Tap{
		s:    s,
		buf:  make([][2]float64, size),
		size: size,
	}
}

// Stream реализует beep.Streamer
func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)
	t.mu.Lock()
	for i := 0; i < n; i++ {
		t.buf[t.pos] = samples[i]
		t.pos = (t.pos + 1) % t.size
	}
	t.mu.Unlock()
	return n, ok
}

// Err возвращает ошибку исходного стримера
func (t *Tap) Err() error {
	return t.s.Err()
}

// Samples возвращает последние n сэмплов левого и правого каналов в хронологическом порядке
func (t *Tap) Samples(n int) (left, right []float64) {
	if n > t.size {
		n = t.size
	}
	left = make([]float64, n)
	right = make([]float64, n)
	t.mu.Lock()
	start := (t.pos - n + t.size) % t.size
	for i := 0; i < n; i++ {
		s := t.buf[(start+i)%t.size]
		left[i], right[i] = s[0], s[1]
	}
	t.mu.Unlock()
	return left, right
}

// Reset обнуляет буфер, например после перемотки
func (t *Tap) Reset() {
	t.mu.Lock()
	for i := range t.buf {
		t.buf[i] = [2]float64{}
	}
	t.pos = 0
	t.mu.Unlock()
}
